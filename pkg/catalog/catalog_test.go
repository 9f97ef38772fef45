package catalog

import (
	"testing"

	"peticia-hq/minerva/pkg/rules/ast"
)

func validModule(id string) *Module {
	return &Module{
		ID:             id,
		ActivationMode: ModeDeterministic,
		PrimaryRule:    ast.Cond("pareceres_natureza_cirurgia", ast.OperatorEquals, "eletiva"),
		OrderingKey:    10,
	}
}

func TestNew_RejectsDuplicatesAndInvalid(t *testing.T) {
	tests := []struct {
		name    string
		docType string
		modules []*Module
		wantErr bool
	}{
		{
			name:    "valid catalog",
			docType: "recurso_plano_saude",
			modules: []*Module{validModule("a"), validModule("b")},
		},
		{
			name:    "empty document type",
			docType: "",
			modules: []*Module{validModule("a")},
			wantErr: true,
		},
		{
			name:    "duplicate id",
			docType: "recurso_plano_saude",
			modules: []*Module{validModule("a"), validModule("a")},
			wantErr: true,
		},
		{
			name:    "module without id",
			docType: "recurso_plano_saude",
			modules: []*Module{{ActivationMode: ModeAlways}},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			docType: "recurso_plano_saude",
			modules: []*Module{{ID: "a", ActivationMode: ActivationMode("magic")}},
			wantErr: true,
		},
		{
			name:    "malformed rule",
			docType: "recurso_plano_saude",
			modules: []*Module{{
				ID:             "a",
				ActivationMode: ModeDeterministic,
				PrimaryRule:    ast.Cond("v", ast.Operator("bogus"), nil),
			}},
			wantErr: true,
		},
		{
			name:    "deterministic without primary rule is kept for the planner",
			docType: "recurso_plano_saude",
			modules: []*Module{{ID: "a", ActivationMode: ModeDeterministic}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := New(tt.docType, tt.modules)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cat.Len() != len(tt.modules) {
				t.Errorf("Len() = %d, want %d", cat.Len(), len(tt.modules))
			}
		})
	}
}

func TestCatalog_Get(t *testing.T) {
	cat, err := New("recurso_plano_saude", []*Module{validModule("mer_sem_urgencia")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if m := cat.Get("mer_sem_urgencia"); m == nil || m.ID != "mer_sem_urgencia" {
		t.Errorf("Get() = %v, want module mer_sem_urgencia", m)
	}
	if m := cat.Get("missing"); m != nil {
		t.Errorf("Get(missing) = %v, want nil", m)
	}
}

func TestModule_ReferencedVariables(t *testing.T) {
	m := &Module{
		ID:             "m",
		ActivationMode: ModeDeterministic,
		PrimaryRule: ast.And(
			ast.Cond("a", ast.OperatorEquals, "x"),
			ast.Cond("b", ast.OperatorExists, nil),
		),
		FallbackRule: ast.Cond("a", ast.OperatorIsNotEmpty, nil),
	}

	slugs := m.ReferencedVariables()
	if len(slugs) != 2 {
		t.Fatalf("ReferencedVariables() = %v, want [a b]", slugs)
	}
}
