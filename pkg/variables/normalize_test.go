package variables

import (
	"errors"
	"testing"
	"time"
)

func TestNormalize_Boolean(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    bool
		wantErr bool
	}{
		{name: "bool true", raw: true, want: true},
		{name: "bool false", raw: false, want: false},
		{name: "string true", raw: "true", want: true},
		{name: "string TRUE", raw: "TRUE", want: true},
		{name: "string false padded", raw: "  False ", want: false},
		{name: "string one", raw: "1", want: true},
		{name: "string zero", raw: "0", want: false},
		{name: "int one", raw: 1, want: true},
		{name: "float zero", raw: float64(0), want: false},
		{name: "string yes", raw: "yes", wantErr: true},
		{name: "int two", raw: 2, wantErr: true},
		{name: "nil", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(Variable{Slug: "flag", Type: TypeBoolean, Value: tt.raw})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var normErr *NormalizationError
				if !errors.As(err, &normErr) {
					t.Fatalf("Normalize() error = %T, want *NormalizationError", err)
				}
				return
			}
			if got.Bool != tt.want {
				t.Errorf("Normalize() bool = %v, want %v", got.Bool, tt.want)
			}
		})
	}
}

func TestNormalize_String_Canonicalization(t *testing.T) {
	got, err := Normalize(Variable{Slug: "s", Type: TypeString, Value: "  Cirurgia ELETIVA  "})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Str != "cirurgia eletiva" {
		t.Errorf("canonical string = %q, want %q", got.Str, "cirurgia eletiva")
	}
	if got.RawStr != "Cirurgia ELETIVA" {
		t.Errorf("raw string = %q, want trimmed original casing", got.RawStr)
	}
}

func TestNormalize_Number(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    float64
		wantErr bool
	}{
		{name: "float literal", raw: 12.5, want: 12.5},
		{name: "int literal", raw: 40, want: 40},
		{name: "plain string", raw: "1500", want: 1500},
		{name: "decimal point", raw: "12.5", want: 12.5},
		{name: "decimal comma", raw: "12,5", want: 12.5},
		{name: "pt-BR thousands", raw: "1.234,56", want: 1234.56},
		{name: "en-US thousands", raw: "1,234.56", want: 1234.56},
		{name: "repeated thousands", raw: "1.234.567", want: 1234567},
		{name: "non-numeric string", raw: "quarenta", wantErr: true},
		{name: "empty string", raw: "", wantErr: true},
		{name: "bool", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(Variable{Slug: "n", Type: TypeNumber, Value: tt.raw})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Num != tt.want {
				t.Errorf("Normalize() num = %v, want %v", got.Num, tt.want)
			}
		})
	}
}

func TestNormalize_Date(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    time.Time
		wantErr bool
	}{
		{name: "time value", raw: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), want: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{name: "rfc3339", raw: "2026-03-01T12:00:00Z", want: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{name: "iso date", raw: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "brazilian date", raw: "01/03/2026", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", raw: "next tuesday", wantErr: true},
		{name: "number", raw: 20260301, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(Variable{Slug: "d", Type: TypeDate, Value: tt.raw})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Time.Equal(tt.want) {
				t.Errorf("Normalize() time = %v, want %v", got.Time, tt.want)
			}
		})
	}
}

func TestNormalize_ListOfString(t *testing.T) {
	got, err := Normalize(Variable{Slug: "l", Type: TypeListOfString, Value: []interface{}{" Quimioterapia ", "RADIOTERAPIA"}})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := []string{"quimioterapia", "radioterapia"}
	if len(got.List) != len(want) {
		t.Fatalf("Normalize() list = %v, want %v", got.List, want)
	}
	for i := range want {
		if got.List[i] != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, got.List[i], want[i])
		}
	}

	if _, err := Normalize(Variable{Slug: "l", Type: TypeListOfString, Value: []interface{}{"ok", 7}}); err == nil {
		t.Error("Normalize() with non-string element, want error")
	}
}

func TestIsEmptyValue(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want bool
	}{
		{name: "nil", raw: nil, want: true},
		{name: "blank string", raw: "   ", want: true},
		{name: "empty list", raw: []string{}, want: true},
		{name: "empty any list", raw: []interface{}{}, want: true},
		{name: "non-empty string", raw: "x", want: false},
		{name: "zero number", raw: 0, want: false},
		{name: "false bool", raw: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmptyValue(tt.raw); got != tt.want {
				t.Errorf("IsEmptyValue(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
