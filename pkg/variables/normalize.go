package variables

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizedValue is a raw value coerced to its declared type. Exactly one
// of the typed fields is meaningful, selected by Kind.
type NormalizedValue struct {
	Kind VariableType

	Bool bool
	Num  float64
	Time time.Time

	// Str is the canonical string form: whitespace-trimmed and lowercased,
	// which is how all string comparisons are defined.
	Str string

	// RawStr preserves the trimmed original casing for regex matching.
	RawStr string

	// List holds canonical (trimmed, lowercased) elements.
	List []string
}

// dateLayouts are the accepted date string formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// CanonicalString returns the canonical comparison form of a string:
// leading/trailing whitespace removed and lowercased.
func CanonicalString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize coerces the variable's raw value to its declared type. Presence
// and emptiness checks never go through Normalize; they test the raw value
// directly and cannot fail.
func Normalize(v Variable) (*NormalizedValue, error) {
	switch v.Type {
	case TypeBoolean:
		b, err := normalizeBoolean(v)
		if err != nil {
			return nil, err
		}
		return &NormalizedValue{Kind: TypeBoolean, Bool: b}, nil

	case TypeString:
		s, err := normalizeScalarString(v)
		if err != nil {
			return nil, err
		}
		return &NormalizedValue{Kind: TypeString, Str: CanonicalString(s), RawStr: strings.TrimSpace(s)}, nil

	case TypeNumber:
		n, err := normalizeNumber(v)
		if err != nil {
			return nil, err
		}
		return &NormalizedValue{Kind: TypeNumber, Num: n}, nil

	case TypeDate:
		ts, err := normalizeDate(v)
		if err != nil {
			return nil, err
		}
		return &NormalizedValue{Kind: TypeDate, Time: ts}, nil

	case TypeListOfString:
		list, err := normalizeList(v)
		if err != nil {
			return nil, err
		}
		return &NormalizedValue{Kind: TypeListOfString, List: list}, nil

	default:
		return nil, &NormalizationError{
			Slug:         v.Slug,
			DeclaredType: v.Type,
			Raw:          v.Value,
			Reason:       "unknown declared type",
		}
	}
}

// IsEmptyValue reports whether a raw value counts as empty for the is_empty
// and is_not_empty operators: nil, a whitespace-only string, or a zero-length
// list. Numbers and booleans are never empty.
func IsEmptyValue(raw interface{}) bool {
	switch val := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	default:
		return false
	}
}

func normalizeBoolean(v Variable) (bool, error) {
	switch val := v.Value.(type) {
	case bool:
		return val, nil
	case string:
		switch CanonicalString(val) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	case int:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case int64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case float64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	}
	return false, &NormalizationError{
		Slug:         v.Slug,
		DeclaredType: v.Type,
		Raw:          v.Value,
		Reason:       "not a recognized boolean literal",
	}
}

func normalizeScalarString(v Variable) (string, error) {
	switch val := v.Value.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", &NormalizationError{
			Slug:         v.Slug,
			DeclaredType: v.Type,
			Raw:          v.Value,
			Reason:       "not a scalar value",
		}
	}
}

func normalizeNumber(v Variable) (float64, error) {
	switch val := v.Value.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case string:
		n, err := parseLocalizedNumber(val)
		if err == nil {
			return n, nil
		}
	}
	return 0, &NormalizationError{
		Slug:         v.Slug,
		DeclaredType: v.Type,
		Raw:          v.Value,
		Reason:       "not a numeric value",
	}
}

// parseLocalizedNumber parses a numeric string after stripping locale
// thousand separators. When both '.' and ',' occur, the rightmost one is
// taken as the decimal separator ("1.234,56" and "1,234.56" both parse).
// A separator occurring more than once is a thousands separator.
func parseLocalizedNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return strconv.ParseFloat(s, 64)
}

func normalizeDate(v Variable) (time.Time, error) {
	switch val := v.Value.(type) {
	case time.Time:
		return val.UTC(), nil
	case string:
		trimmed := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts.UTC(), nil
			}
		}
	}
	return time.Time{}, &NormalizationError{
		Slug:         v.Slug,
		DeclaredType: v.Type,
		Raw:          v.Value,
		Reason:       "not a recognized date value",
	}
}

func normalizeList(v Variable) ([]string, error) {
	canonical := func(items []string) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = CanonicalString(item)
		}
		return out
	}

	switch val := v.Value.(type) {
	case []string:
		return canonical(val), nil
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, &NormalizationError{
					Slug:         v.Slug,
					DeclaredType: v.Type,
					Raw:          v.Value,
					Reason:       fmt.Sprintf("list element %v (%T) is not a string", elem, elem),
				}
			}
			items = append(items, s)
		}
		return canonical(items), nil
	default:
		return nil, &NormalizationError{
			Slug:         v.Slug,
			DeclaredType: v.Type,
			Raw:          v.Value,
			Reason:       "not a list of strings",
		}
	}
}

// NormalizeOperand coerces a rule operand (authored alongside the rule tree)
// to the same declared type as the variable it is compared against. Operands
// share the variable's coercion rules so "10" compares equal to 10.
func NormalizeOperand(slug string, declared VariableType, operand interface{}) (*NormalizedValue, error) {
	return Normalize(Variable{Slug: slug, Type: declared, Value: operand})
}
