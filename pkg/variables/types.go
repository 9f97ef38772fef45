package variables

import "fmt"

// VariableType declares the expected type of an extracted variable.
type VariableType string

const (
	TypeBoolean      VariableType = "boolean"
	TypeString       VariableType = "string"
	TypeNumber       VariableType = "number"
	TypeDate         VariableType = "date"
	TypeListOfString VariableType = "list_of_string"
)

// IsValid returns true if the type is one the engine understands.
func (t VariableType) IsValid() bool {
	switch t {
	case TypeBoolean, TypeString, TypeNumber, TypeDate, TypeListOfString:
		return true
	default:
		return false
	}
}

// Variable is one extracted value: a unique slug, a declared type, and the
// raw value as produced upstream. Raw values may be malformed relative to
// the declared type; normalization decides that at evaluation time.
type Variable struct {
	Slug  string       `yaml:"slug"`
	Type  VariableType `yaml:"type"`
	Value interface{}  `yaml:"value"`
}

// NormalizationError indicates a raw value could not be coerced to its
// declared type. The evaluator downgrades the affected condition to an
// indeterminate outcome; it never interprets the failure as false.
type NormalizationError struct {
	Slug         string
	DeclaredType VariableType
	Raw          interface{}
	Reason       string
}

// Error returns the error message.
func (e *NormalizationError) Error() string {
	return fmt.Sprintf("variable %q: cannot normalize %v (%T) as %s: %s",
		e.Slug, e.Raw, e.Raw, e.DeclaredType, e.Reason)
}
