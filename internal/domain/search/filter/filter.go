// Package filter models the boolean predicate side of a search: a flat
// conjunction of must conditions, one OR-group of should conditions, and
// a set of negated must-not conditions. An empty expression is the fold
// identity: it applies no filter at all (it never means "match nothing").
package filter

import "fmt"

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured filter with must/should/must_not boolean semantics.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Condition is a single filter clause: a tag membership test, a numeric
// range, or an any-of-terms text test against one TEXT column.
type Condition struct {
	key       string
	match     string
	terms     []string
	rangeExpr *Range
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewTextAny creates a condition matching any of the given terms in a
// TEXT column. Multi-word terms match as phrases.
func NewTextAny(key string, terms []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(terms) == 0 {
		return Condition{}, fmt.Errorf("at least one term is required for key %q", key)
	}
	return Condition{key: key, terms: terms}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Terms returns the any-of text terms.
func (c Condition) Terms() []string { return c.terms }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a tag match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsTextAny reports whether this is an any-of-terms text condition.
func (c Condition) IsTextAny() bool { return len(c.terms) > 0 }

// IsRange reports whether this is a numeric range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is a numeric range with inclusive min/max boundaries.
type Range struct {
	min float64
	max float64
}

// NewRangeBetween creates an inclusive [min, max] range.
func NewRangeBetween(minVal, maxVal float64) (Range, error) {
	if minVal > maxVal {
		return Range{}, fmt.Errorf("range min %g exceeds max %g", minVal, maxVal)
	}
	return Range{min: minVal, max: maxVal}, nil
}

// Min returns the inclusive lower bound.
func (r Range) Min() float64 { return r.min }

// Max returns the inclusive upper bound.
func (r Range) Max() float64 { return r.max }
