package policy

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Day is the unit policy ages are expressed in.
const Day = 24 * time.Hour

// MaxAgeDaysLimit is the largest MaxAgeDays whose duration fits in a
// time.Duration.
const MaxAgeDaysLimit = int(math.MaxInt64 / int64(Day))

// ErrUnknownCategory is matched by every UnknownCategoryError.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownCategoryError is returned when a category has no policy.
type UnknownCategoryError struct {
	Category string
}

// Error implements the error interface.
func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}

// Is reports whether target is ErrUnknownCategory.
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// Policy is the expiry rule for one category.
type Policy struct {
	// Category is the unique category name (e.g. "phd_patterns").
	Category string

	// MaxAgeDays is the maximum record age in days. Records strictly older
	// than this are expired.
	MaxAgeDays int
}

// MaxAge returns the policy's maximum age as a duration.
func (p Policy) MaxAge() time.Duration {
	return time.Duration(p.MaxAgeDays) * Day
}

// Table is an immutable, ordered set of policies keyed by category.
type Table struct {
	policies []Policy
	index    map[string]int
}

// New builds a Table from policies in declaration order.
func New(policies []Policy) (*Table, error) {
	t := &Table{
		policies: make([]Policy, 0, len(policies)),
		index:    make(map[string]int, len(policies)),
	}

	for i, p := range policies {
		if p.Category == "" {
			return nil, fmt.Errorf("policy %d: category is required", i)
		}
		if p.MaxAgeDays <= 0 {
			return nil, fmt.Errorf("policy %q: max age must be positive, got %d days", p.Category, p.MaxAgeDays)
		}
		if p.MaxAgeDays > MaxAgeDaysLimit {
			return nil, fmt.Errorf("policy %q: max age of %d days exceeds limit of %d", p.Category, p.MaxAgeDays, MaxAgeDaysLimit)
		}
		if _, dup := t.index[p.Category]; dup {
			return nil, fmt.Errorf("policy %q: duplicate category", p.Category)
		}
		t.index[p.Category] = len(t.policies)
		t.policies = append(t.policies, p)
	}

	return t, nil
}

// Defaults returns the built-in policies.
func Defaults() []Policy {
	return []Policy{
		{Category: "phd_patterns", MaxAgeDays: 180},
		{Category: "business_research_patterns", MaxAgeDays: 90},
		{Category: "business_strategy_patterns", MaxAgeDays: 60},
		{Category: "industry_patterns", MaxAgeDays: 120},
	}
}

// Get returns the policy for category.
func (t *Table) Get(category string) (Policy, error) {
	i, ok := t.index[category]
	if !ok {
		return Policy{}, &UnknownCategoryError{Category: category}
	}
	return t.policies[i], nil
}

// MaxAge returns the maximum age for category.
func (t *Table) MaxAge(category string) (time.Duration, error) {
	p, err := t.Get(category)
	if err != nil {
		return 0, err
	}
	return p.MaxAge(), nil
}

// Policies returns a copy of the policies in declaration order.
func (t *Table) Policies() []Policy {
	out := make([]Policy, len(t.policies))
	copy(out, t.policies)
	return out
}

// Categories returns the category names in declaration order.
func (t *Table) Categories() []string {
	out := make([]string, len(t.policies))
	for i, p := range t.policies {
		out[i] = p.Category
	}
	return out
}

// Len returns the number of policies.
func (t *Table) Len() int {
	return len(t.policies)
}
