package reasoner

import (
	"testing"

	"peticia-hq/minerva/pkg/activation"
)

func TestParseVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]activation.Verdict
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"verdicts": {"analise_subjetiva": "activate", "clausula_opcional": "skip"}}`,
			want: map[string]activation.Verdict{
				"analise_subjetiva": activation.VerdictActivate,
				"clausula_opcional": activation.VerdictSkip,
			},
		},
		{
			name: "fenced json",
			content: "```json\n" +
				`{"verdicts": {"analise_subjetiva": "skip"}}` +
				"\n```",
			want: map[string]activation.Verdict{
				"analise_subjetiva": activation.VerdictSkip,
			},
		},
		{
			name:    "verdict casing tolerated",
			content: `{"verdicts": {"analise_subjetiva": " Activate "}}`,
			want: map[string]activation.Verdict{
				"analise_subjetiva": activation.VerdictActivate,
			},
		},
		{
			name:    "unknown verdict rejected",
			content: `{"verdicts": {"analise_subjetiva": "maybe"}}`,
			wantErr: true,
		},
		{
			name:    "missing verdicts object",
			content: `{"answer": "yes"}`,
			wantErr: true,
		},
		{
			name:    "prose instead of json",
			content: "I think the module should be activated.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVerdicts(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVerdicts() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseVerdicts() = %v, want %v", got, tt.want)
			}
			for id, v := range tt.want {
				if got[id] != v {
					t.Errorf("verdict[%s] = %v, want %v", id, got[id], v)
				}
			}
		})
	}
}

func TestNewOpenAIReasoner_Validation(t *testing.T) {
	if _, err := NewOpenAIReasoner(OpenAIConfig{}, nil); err == nil {
		t.Error("expected error for missing api key")
	}

	r, err := NewOpenAIReasoner(OpenAIConfig{APIKey: "test-key"}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIReasoner() error = %v", err)
	}
	if r.config.Model == "" || r.config.MaxTokens == 0 {
		t.Error("defaults not applied")
	}
}
