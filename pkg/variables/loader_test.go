package variables

import (
	"strings"
	"testing"
)

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(`
document_type: pareceres_natureza_cirurgia
variables:
  - slug: natureza_cirurgia
    type: string
    value: Eletiva
  - slug: tem_mer
    type: boolean
    value: true
  - slug: documentos_anexos
    type: list_of_string
    value:
      - Laudo
      - MER
`))
	if err != nil {
		t.Fatalf("ParseSnapshot() error = %v", err)
	}

	if snap.DocumentType() != "pareceres_natureza_cirurgia" {
		t.Errorf("DocumentType() = %q", snap.DocumentType())
	}
	if snap.Len() != 3 {
		t.Errorf("Len() = %d, want 3", snap.Len())
	}
	v, ok := snap.Lookup("documentos_anexos")
	if !ok {
		t.Fatal("documentos_anexos not found")
	}
	if v.Type != TypeListOfString {
		t.Errorf("type = %v, want list_of_string", v.Type)
	}
}

func TestParseSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "missing document type",
			input:   "variables: []\n",
			wantMsg: "no document type",
		},
		{
			name: "missing slug",
			input: `
document_type: dt
variables:
  - type: string
    value: x
`,
			wantMsg: "no slug",
		},
		{
			name: "unknown type",
			input: `
document_type: dt
variables:
  - slug: x
    type: decimal
    value: 1
`,
			wantMsg: "unknown type",
		},
		{
			name: "duplicate slug",
			input: `
document_type: dt
variables:
  - slug: x
    type: string
    value: a
  - slug: x
    type: string
    value: b
`,
			wantMsg: "duplicate",
		},
		{
			name:    "malformed yaml",
			input:   "document_type: [broken\n",
			wantMsg: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseSnapshot_MalformedValueAccepted(t *testing.T) {
	// A value that cannot normalize to its declared type still loads;
	// the evaluator downgrades conditions over it at evaluation time.
	snap, err := ParseSnapshot([]byte(`
document_type: dt
variables:
  - slug: idade
    type: number
    value: quarenta
`))
	if err != nil {
		t.Fatalf("ParseSnapshot() error = %v", err)
	}
	v, _ := snap.Lookup("idade")
	if _, err := Normalize(v); err == nil {
		t.Error("expected normalization failure for malformed number")
	}
}
