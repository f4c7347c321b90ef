// Patternsweep archives expired neural patterns from the shared pattern
// memory.
//
// Each pattern category has a retention policy. A sweep lists every record
// of each category, archives records older than the category's maximum age
// under patterns/archived/<category>, removes them from the live namespace,
// and stores an audit record under config/patterns/checks.
//
// Usage:
//
//	# Run one sweep with the default configuration
//	patternsweep
//
//	# Preview what would be archived
//	patternsweep --dry-run
//
//	# Sweep a single category and print JSON
//	patternsweep --category phd_patterns --output json
//
//	# Run weekly sweeps with a status server
//	patternsweep schedule --config /etc/patternsweep.yaml
//
//	# Show retention policies
//	patternsweep policies
//
//	# List archived entries of a category
//	patternsweep archived business_strategy_patterns
package main

func main() {
	Execute()
}
