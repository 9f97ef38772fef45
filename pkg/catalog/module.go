package catalog

import (
	"fmt"

	"peticia-hq/minerva/pkg/rules/ast"
)

// ActivationMode determines how a module's inclusion is decided.
type ActivationMode string

const (
	// ModeAlways includes the module unconditionally, no rule evaluation.
	ModeAlways ActivationMode = "always"

	// ModeDeterministic decides inclusion by evaluating the primary rule
	// (and the fallback rule, if the primary is indeterminate) locally.
	ModeDeterministic ActivationMode = "deterministic"

	// ModeLLM always defers the decision to the external reasoner.
	ModeLLM ActivationMode = "llm"
)

// IsValid returns true if the mode is one the planner understands.
func (m ActivationMode) IsValid() bool {
	switch m {
	case ModeAlways, ModeDeterministic, ModeLLM:
		return true
	default:
		return false
	}
}

// Module is one content block that may or may not be included in a generated
// document. Immutable once loaded into a catalog.
type Module struct {
	// ID uniquely identifies the module within its document type.
	ID string

	// Description is the human-readable summary shipped to the reasoner
	// when the module cannot be resolved locally.
	Description string

	// ActivationMode determines the decision path for this module.
	ActivationMode ActivationMode

	// PrimaryRule is the main deterministic rule. Required for
	// deterministic modules; a deterministic module without one is a
	// configuration error the planner surfaces, never silently reclassifies.
	PrimaryRule *ast.RuleNode

	// FallbackRule is consulted only when the primary rule is indeterminate.
	FallbackRule *ast.RuleNode

	// Category groups related modules for the caller's rendering layer.
	Category string

	// OrderingKey positions the module in the final document. The plan's
	// final list is stably sorted by this key regardless of how each module
	// was resolved.
	OrderingKey int
}

// ReferencedVariables returns the deduplicated variable slugs referenced by
// the module's rules. The dispatcher ships only these variables to the
// reasoner, never the full raw source documents.
func (m *Module) ReferencedVariables() []string {
	seen := make(map[string]struct{})
	var slugs []string
	for _, rule := range []*ast.RuleNode{m.PrimaryRule, m.FallbackRule} {
		for _, slug := range rule.Variables() {
			if _, ok := seen[slug]; !ok {
				seen[slug] = struct{}{}
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs
}

// Validate checks the module for structural errors: a missing ID, an unknown
// activation mode, or malformed rule trees. Mode/rule inconsistency (a
// deterministic module without a primary rule) is deliberately NOT an error
// here: the planner must surface it as a first-class misconfiguration
// outcome on every request, so load-time validation keeps the module and
// lets the planner report it.
func (m *Module) Validate(maxDepth int) error {
	if m.ID == "" {
		return fmt.Errorf("module has no id")
	}
	if !m.ActivationMode.IsValid() {
		return fmt.Errorf("module %q: unknown activation mode %q", m.ID, m.ActivationMode)
	}
	if m.PrimaryRule != nil {
		if err := ast.Validate(m.PrimaryRule, maxDepth); err != nil {
			return fmt.Errorf("module %q: primary rule: %w", m.ID, err)
		}
	}
	if m.FallbackRule != nil {
		if err := ast.Validate(m.FallbackRule, maxDepth); err != nil {
			return fmt.Errorf("module %q: fallback rule: %w", m.ID, err)
		}
	}
	return nil
}
