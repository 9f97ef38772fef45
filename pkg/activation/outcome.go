package activation

// Outcome is the three-valued result of evaluating a rule tree.
type Outcome string

const (
	// OutcomeActivate means the module must be included.
	OutcomeActivate Outcome = "activate"

	// OutcomeSkip means the module must be excluded.
	OutcomeSkip Outcome = "skip"

	// OutcomeIndeterminate means the rule could not be resolved locally.
	// It is not "false": the module's fate passes to the external reasoner.
	OutcomeIndeterminate Outcome = "indeterminate"

	// OutcomeMisconfigured means the module's definition is internally
	// inconsistent and the module was excluded. Only the planner produces
	// this outcome; rule evaluation itself never does.
	OutcomeMisconfigured Outcome = "misconfigured_module"
)

// IsDefinite returns true for Activate and Skip.
func (o Outcome) IsDefinite() bool {
	return o == OutcomeActivate || o == OutcomeSkip
}

// Kleene K3 combinators. And short-circuits to Skip the moment any child is
// Skip; Or short-circuits to Activate on any Activate child; Indeterminate
// propagates otherwise.

func andOutcome(children []Outcome) Outcome {
	result := OutcomeActivate // identity element: empty And activates
	for _, c := range children {
		if c == OutcomeSkip {
			return OutcomeSkip
		}
		if c == OutcomeIndeterminate {
			result = OutcomeIndeterminate
		}
	}
	return result
}

func orOutcome(children []Outcome) Outcome {
	result := OutcomeSkip // identity element: empty Or skips
	for _, c := range children {
		if c == OutcomeActivate {
			return OutcomeActivate
		}
		if c == OutcomeIndeterminate {
			result = OutcomeIndeterminate
		}
	}
	return result
}

func notOutcome(child Outcome) Outcome {
	switch child {
	case OutcomeActivate:
		return OutcomeSkip
	case OutcomeSkip:
		return OutcomeActivate
	default:
		return OutcomeIndeterminate
	}
}

// outcomeFromBool converts a definite boolean answer to an outcome.
func outcomeFromBool(b bool) Outcome {
	if b {
		return OutcomeActivate
	}
	return OutcomeSkip
}
