package ast

import "fmt"

// DefaultMaxDepth is the default nesting bound for rule trees. Authoring
// tools should never produce trees anywhere near this deep; the bound exists
// to reject pathological or cyclic input before evaluation.
const DefaultMaxDepth = 32

// DepthExceededError indicates a rule tree nests beyond the configured bound.
type DepthExceededError struct {
	MaxDepth int
}

// Error returns the error message.
func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("rule tree exceeds maximum depth %d", e.MaxDepth)
}

// MalformedNodeError indicates a structurally invalid rule node.
type MalformedNodeError struct {
	Kind   NodeKind
	Reason string
}

// Error returns the error message.
func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed %s node: %s", e.Kind, e.Reason)
}

// ValidateDepth checks that the tree nests no deeper than maxDepth levels.
// A maxDepth of zero or less applies DefaultMaxDepth.
func ValidateDepth(node *RuleNode, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return validateDepth(node, maxDepth, 1)
}

func validateDepth(node *RuleNode, maxDepth, depth int) error {
	if node == nil {
		return nil
	}
	if depth > maxDepth {
		return &DepthExceededError{MaxDepth: maxDepth}
	}
	for _, child := range node.Children {
		if err := validateDepth(child, maxDepth, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the tree for structural errors: unknown node kinds,
// unknown operators, condition nodes without a variable, NOT nodes without
// exactly one child, and nesting beyond maxDepth.
func Validate(node *RuleNode, maxDepth int) error {
	if node == nil {
		return nil
	}
	if err := ValidateDepth(node, maxDepth); err != nil {
		return err
	}
	return validateShape(node)
}

func validateShape(node *RuleNode) error {
	switch node.Kind {
	case KindCondition:
		if node.Variable == "" {
			return &MalformedNodeError{Kind: node.Kind, Reason: "missing variable slug"}
		}
		if !node.Operator.IsValid() {
			return &MalformedNodeError{Kind: node.Kind, Reason: fmt.Sprintf("unknown operator %q", node.Operator)}
		}
		if len(node.Children) != 0 {
			return &MalformedNodeError{Kind: node.Kind, Reason: "condition nodes cannot have children"}
		}
		return nil

	case KindAnd, KindOr:
		for _, child := range node.Children {
			if child == nil {
				return &MalformedNodeError{Kind: node.Kind, Reason: "nil child"}
			}
			if err := validateShape(child); err != nil {
				return err
			}
		}
		return nil

	case KindNot:
		if len(node.Children) != 1 {
			return &MalformedNodeError{Kind: node.Kind, Reason: fmt.Sprintf("NOT must have exactly one child, got %d", len(node.Children))}
		}
		if node.Children[0] == nil {
			return &MalformedNodeError{Kind: node.Kind, Reason: "nil child"}
		}
		return validateShape(node.Children[0])

	default:
		return &MalformedNodeError{Kind: node.Kind, Reason: "unknown node kind"}
	}
}

// Walk traverses the tree depth-first and calls fn for each node. It returns
// the first error encountered, or nil if traversal completes.
func Walk(node *RuleNode, fn func(*RuleNode) error) error {
	if node == nil {
		return nil
	}
	if err := fn(node); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
