package ast

// Operator represents a comparison operator in a leaf condition.
type Operator string

const (
	OperatorEquals         Operator = "equals"
	OperatorNotEquals      Operator = "not_equals"
	OperatorContains       Operator = "contains"
	OperatorNotContains    Operator = "not_contains"
	OperatorGreaterThan    Operator = "greater_than"
	OperatorLessThan       Operator = "less_than"
	OperatorGreaterOrEqual Operator = "greater_or_equal"
	OperatorLessOrEqual    Operator = "less_or_equal"
	OperatorExists         Operator = "exists"
	OperatorNotExists      Operator = "not_exists"
	OperatorIsEmpty        Operator = "is_empty"
	OperatorIsNotEmpty     Operator = "is_not_empty"
	OperatorInList         Operator = "in_list"
	OperatorNotInList      Operator = "not_in_list"
	OperatorMatchesRegex   Operator = "matches_regex"
)

// allOperators enumerates every operator the evaluator understands.
var allOperators = map[Operator]struct{}{
	OperatorEquals:         {},
	OperatorNotEquals:      {},
	OperatorContains:       {},
	OperatorNotContains:    {},
	OperatorGreaterThan:    {},
	OperatorLessThan:       {},
	OperatorGreaterOrEqual: {},
	OperatorLessOrEqual:    {},
	OperatorExists:         {},
	OperatorNotExists:      {},
	OperatorIsEmpty:        {},
	OperatorIsNotEmpty:     {},
	OperatorInList:         {},
	OperatorNotInList:      {},
	OperatorMatchesRegex:   {},
}

// IsValid returns true if the operator is one the evaluator understands.
func (o Operator) IsValid() bool {
	_, ok := allOperators[o]
	return ok
}

// IsPresenceOperator returns true for operators that test existence or
// emptiness directly. These never yield an indeterminate outcome: absence
// itself is a definite answer for them.
func (o Operator) IsPresenceOperator() bool {
	switch o {
	case OperatorExists, OperatorNotExists, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	default:
		return false
	}
}

// RequiresOperand returns true for operators that compare against an
// expected value. Presence operators ignore the operand entirely.
func (o Operator) RequiresOperand() bool {
	return !o.IsPresenceOperator()
}
