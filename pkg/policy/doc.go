// Package policy holds the expiry policy table: a fixed, ordered mapping from
// pattern category to the maximum age a record in that category may reach
// before it is archived.
//
// # Policy Table
//
// A Table is built once at process start from configuration and is never
// mutated afterwards. Iteration order is the declaration order of the
// configured policies:
//
//	table, err := policy.New([]policy.Policy{
//	    {Category: "business_strategy_patterns", MaxAgeDays: 60},
//	    {Category: "phd_patterns", MaxAgeDays: 180},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	maxAge, err := table.MaxAge("phd_patterns") // 180 * 24h
//
// Looking up a category that is not in the table fails with an
// *UnknownCategoryError, which matches ErrUnknownCategory via errors.Is.
//
// # Defaults
//
// Defaults returns the built-in policy set:
//
//   - phd_patterns: 180 days
//   - business_research_patterns: 90 days
//   - business_strategy_patterns: 60 days
//   - industry_patterns: 120 days
package policy
