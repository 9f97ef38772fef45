package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"peticia-hq/minerva/pkg/catalog"
	"peticia-hq/minerva/pkg/rules/ast"
)

// yamlCatalog is the intermediate structure for parsing YAML catalog files.
type yamlCatalog struct {
	DocumentType string       `yaml:"document_type"`
	Modules      []yamlModule `yaml:"modules"`
}

// yamlModule is the intermediate module structure.
type yamlModule struct {
	ID             string    `yaml:"id"`
	Description    string    `yaml:"description"`
	ActivationMode string    `yaml:"activation_mode"`
	Category       string    `yaml:"category"`
	OrderingKey    int       `yaml:"ordering_key"`
	PrimaryRule    *yamlRule `yaml:"primary_rule"`
	FallbackRule   *yamlRule `yaml:"fallback_rule"`
}

// yamlRule is the intermediate rule-node structure. Exactly one of the four
// forms must be set: a leaf condition (variable/operator/operand), all, any,
// or not.
type yamlRule struct {
	Variable string      `yaml:"variable"`
	Operator string      `yaml:"operator"`
	Operand  interface{} `yaml:"operand"`
	All      []*yamlRule `yaml:"all"`
	Any      []*yamlRule `yaml:"any"`
	Not      *yamlRule   `yaml:"not"`
}

// parseCatalogBytes parses YAML bytes into a validated catalog.
func parseCatalogBytes(data []byte) (*catalog.Catalog, error) {
	var yc yamlCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("invalid catalog YAML: %w", err)
	}

	modules := make([]*catalog.Module, 0, len(yc.Modules))
	for _, ym := range yc.Modules {
		m, err := buildModule(ym)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return catalog.New(yc.DocumentType, modules)
}

func buildModule(ym yamlModule) (*catalog.Module, error) {
	primary, err := buildRule(ym.PrimaryRule)
	if err != nil {
		return nil, fmt.Errorf("module %q: primary rule: %w", ym.ID, err)
	}
	fallback, err := buildRule(ym.FallbackRule)
	if err != nil {
		return nil, fmt.Errorf("module %q: fallback rule: %w", ym.ID, err)
	}

	return &catalog.Module{
		ID:             ym.ID,
		Description:    ym.Description,
		ActivationMode: catalog.ActivationMode(ym.ActivationMode),
		PrimaryRule:    primary,
		FallbackRule:   fallback,
		Category:       ym.Category,
		OrderingKey:    ym.OrderingKey,
	}, nil
}

// buildRule converts the intermediate rule structure to an AST node.
func buildRule(yr *yamlRule) (*ast.RuleNode, error) {
	if yr == nil {
		return nil, nil
	}

	forms := 0
	if yr.Variable != "" || yr.Operator != "" {
		forms++
	}
	if len(yr.All) > 0 {
		forms++
	}
	if len(yr.Any) > 0 {
		forms++
	}
	if yr.Not != nil {
		forms++
	}
	if forms != 1 {
		return nil, fmt.Errorf("rule node must be exactly one of condition/all/any/not, got %d forms", forms)
	}

	switch {
	case len(yr.All) > 0:
		children, err := buildChildren(yr.All)
		if err != nil {
			return nil, err
		}
		return ast.And(children...), nil

	case len(yr.Any) > 0:
		children, err := buildChildren(yr.Any)
		if err != nil {
			return nil, err
		}
		return ast.Or(children...), nil

	case yr.Not != nil:
		child, err := buildRule(yr.Not)
		if err != nil {
			return nil, err
		}
		return ast.Not(child), nil

	default:
		op := ast.Operator(yr.Operator)
		if !op.IsValid() {
			return nil, fmt.Errorf("unknown operator %q", yr.Operator)
		}
		if yr.Variable == "" {
			return nil, fmt.Errorf("condition is missing a variable")
		}
		return ast.Cond(yr.Variable, op, yr.Operand), nil
	}
}

func buildChildren(rules []*yamlRule) ([]*ast.RuleNode, error) {
	children := make([]*ast.RuleNode, 0, len(rules))
	for _, yr := range rules {
		child, err := buildRule(yr)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
