package activation

import (
	"fmt"
	"regexp"
	"strings"

	"peticia-hq/minerva/pkg/rules/ast"
	"peticia-hq/minerva/pkg/variables"
)

// Evaluator evaluates compiled rule trees against a variable snapshot.
//
// Evaluation is pure: no I/O, no shared mutable state. A single Evaluator is
// safe to use from any number of goroutines, which is what lets the planner
// run per-module evaluation without synchronization.
type Evaluator struct {
	maxDepth int
}

// NewEvaluator creates an evaluator with the given rule-depth bound.
// A bound of zero or less applies ast.DefaultMaxDepth.
func NewEvaluator(maxDepth int) *Evaluator {
	if maxDepth <= 0 {
		maxDepth = ast.DefaultMaxDepth
	}
	return &Evaluator{maxDepth: maxDepth}
}

// Evaluate evaluates a rule tree against the snapshot and returns the
// three-valued outcome. The returned error is reserved for structurally
// invalid trees (nesting beyond the depth guard, unknown node kinds): a
// misconfiguration-class failure that rejects the module, not the request.
// Data problems (absent variables, malformed values) never error; they
// produce OutcomeIndeterminate.
func (e *Evaluator) Evaluate(rule *ast.RuleNode, snap *variables.Snapshot) (Outcome, error) {
	if rule == nil {
		return OutcomeIndeterminate, fmt.Errorf("rule tree is nil")
	}
	if err := ast.Validate(rule, e.maxDepth); err != nil {
		return OutcomeIndeterminate, err
	}
	return e.evaluate(rule, snap), nil
}

func (e *Evaluator) evaluate(node *ast.RuleNode, snap *variables.Snapshot) Outcome {
	switch node.Kind {
	case ast.KindCondition:
		return evaluateCondition(node, snap)

	case ast.KindAnd:
		outcomes := make([]Outcome, len(node.Children))
		for i, child := range node.Children {
			outcomes[i] = e.evaluate(child, snap)
			if outcomes[i] == OutcomeSkip {
				return OutcomeSkip // short-circuit
			}
		}
		return andOutcome(outcomes)

	case ast.KindOr:
		outcomes := make([]Outcome, len(node.Children))
		for i, child := range node.Children {
			outcomes[i] = e.evaluate(child, snap)
			if outcomes[i] == OutcomeActivate {
				return OutcomeActivate // short-circuit
			}
		}
		return orOutcome(outcomes)

	case ast.KindNot:
		return notOutcome(e.evaluate(node.Children[0], snap))

	default:
		// Validate rejects unknown kinds before evaluation starts.
		return OutcomeIndeterminate
	}
}

// evaluateCondition evaluates a single leaf condition.
//
// Presence operators answer definitively from the raw value; everything
// else requires successful normalization of both the variable and the
// operand, and any failure downgrades the condition to Indeterminate.
func evaluateCondition(node *ast.RuleNode, snap *variables.Snapshot) Outcome {
	v, present := snap.Lookup(node.Variable)

	switch node.Operator {
	case ast.OperatorExists:
		return outcomeFromBool(present)
	case ast.OperatorNotExists:
		return outcomeFromBool(!present)
	case ast.OperatorIsEmpty:
		return outcomeFromBool(!present || variables.IsEmptyValue(v.Value))
	case ast.OperatorIsNotEmpty:
		return outcomeFromBool(present && !variables.IsEmptyValue(v.Value))
	}

	if !present {
		return OutcomeIndeterminate
	}

	actual, err := variables.Normalize(v)
	if err != nil {
		// Malformed value: equivalent to absence, never to false.
		return OutcomeIndeterminate
	}

	return compare(node, v.Type, actual)
}

// compare evaluates a value-comparison operator over a normalized variable.
func compare(node *ast.RuleNode, declared variables.VariableType, actual *variables.NormalizedValue) Outcome {
	switch node.Operator {
	case ast.OperatorEquals:
		return equalsOutcome(node, declared, actual)

	case ast.OperatorNotEquals:
		return notOutcome(equalsOutcome(node, declared, actual))

	case ast.OperatorGreaterThan, ast.OperatorLessThan, ast.OperatorGreaterOrEqual, ast.OperatorLessOrEqual:
		return orderedOutcome(node, declared, actual)

	case ast.OperatorContains:
		return containsOutcome(node, actual)

	case ast.OperatorNotContains:
		return notOutcome(containsOutcome(node, actual))

	case ast.OperatorInList:
		return inListOutcome(node, declared, actual)

	case ast.OperatorNotInList:
		return notOutcome(inListOutcome(node, declared, actual))

	case ast.OperatorMatchesRegex:
		return regexOutcome(node, actual)

	default:
		return OutcomeIndeterminate
	}
}

func equalsOutcome(node *ast.RuleNode, declared variables.VariableType, actual *variables.NormalizedValue) Outcome {
	expected, err := variables.NormalizeOperand(node.Variable, declared, node.Operand)
	if err != nil {
		return OutcomeIndeterminate
	}

	switch actual.Kind {
	case variables.TypeBoolean:
		return outcomeFromBool(actual.Bool == expected.Bool)
	case variables.TypeNumber:
		return outcomeFromBool(actual.Num == expected.Num)
	case variables.TypeDate:
		return outcomeFromBool(actual.Time.Equal(expected.Time))
	case variables.TypeString:
		return outcomeFromBool(actual.Str == expected.Str)
	case variables.TypeListOfString:
		if len(actual.List) != len(expected.List) {
			return OutcomeSkip
		}
		for i := range actual.List {
			if actual.List[i] != expected.List[i] {
				return OutcomeSkip
			}
		}
		return OutcomeActivate
	default:
		return OutcomeIndeterminate
	}
}

func orderedOutcome(node *ast.RuleNode, declared variables.VariableType, actual *variables.NormalizedValue) Outcome {
	expected, err := variables.NormalizeOperand(node.Variable, declared, node.Operand)
	if err != nil {
		return OutcomeIndeterminate
	}

	var cmp int
	switch actual.Kind {
	case variables.TypeNumber:
		switch {
		case actual.Num < expected.Num:
			cmp = -1
		case actual.Num > expected.Num:
			cmp = 1
		}
	case variables.TypeDate:
		switch {
		case actual.Time.Before(expected.Time):
			cmp = -1
		case actual.Time.After(expected.Time):
			cmp = 1
		}
	case variables.TypeString:
		cmp = strings.Compare(actual.Str, expected.Str)
	default:
		// Ordering is undefined for booleans and lists.
		return OutcomeIndeterminate
	}

	switch node.Operator {
	case ast.OperatorGreaterThan:
		return outcomeFromBool(cmp > 0)
	case ast.OperatorLessThan:
		return outcomeFromBool(cmp < 0)
	case ast.OperatorGreaterOrEqual:
		return outcomeFromBool(cmp >= 0)
	case ast.OperatorLessOrEqual:
		return outcomeFromBool(cmp <= 0)
	default:
		return OutcomeIndeterminate
	}
}

// containsOutcome tests substring containment for strings and element
// membership for lists, both case-insensitive and trimmed.
func containsOutcome(node *ast.RuleNode, actual *variables.NormalizedValue) Outcome {
	needle, ok := operandString(node.Operand)
	if !ok {
		return OutcomeIndeterminate
	}
	needle = variables.CanonicalString(needle)

	switch actual.Kind {
	case variables.TypeString:
		return outcomeFromBool(strings.Contains(actual.Str, needle))
	case variables.TypeListOfString:
		for _, elem := range actual.List {
			if elem == needle {
				return OutcomeActivate
			}
		}
		return OutcomeSkip
	default:
		return OutcomeIndeterminate
	}
}

// inListOutcome tests membership of the variable's scalar value in the
// operand list.
func inListOutcome(node *ast.RuleNode, declared variables.VariableType, actual *variables.NormalizedValue) Outcome {
	operandList, err := variables.NormalizeOperand(node.Variable, variables.TypeListOfString, node.Operand)
	if err != nil {
		return OutcomeIndeterminate
	}

	var needle string
	switch actual.Kind {
	case variables.TypeString:
		needle = actual.Str
	case variables.TypeNumber, variables.TypeBoolean:
		// Re-normalize the scalar through the string path for comparison.
		s, serr := variables.NormalizeOperand(node.Variable, variables.TypeString, rawScalar(actual))
		if serr != nil {
			return OutcomeIndeterminate
		}
		needle = s.Str
	default:
		return OutcomeIndeterminate
	}

	for _, elem := range operandList.List {
		if elem == needle {
			return OutcomeActivate
		}
	}
	return OutcomeSkip
}

func regexOutcome(node *ast.RuleNode, actual *variables.NormalizedValue) Outcome {
	pattern, ok := operandString(node.Operand)
	if !ok {
		return OutcomeIndeterminate
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// A bad pattern is a normalization-class failure, never a crash.
		return OutcomeIndeterminate
	}
	if actual.Kind != variables.TypeString {
		return OutcomeIndeterminate
	}
	return outcomeFromBool(re.MatchString(actual.RawStr))
}

func operandString(operand interface{}) (string, bool) {
	s, ok := operand.(string)
	return s, ok
}

func rawScalar(v *variables.NormalizedValue) interface{} {
	switch v.Kind {
	case variables.TypeNumber:
		return v.Num
	case variables.TypeBoolean:
		return v.Bool
	default:
		return v.Str
	}
}
