package ast

// NodeKind discriminates the variants of a RuleNode.
type NodeKind string

const (
	KindCondition NodeKind = "condition" // variable operator operand
	KindAnd       NodeKind = "and"       // AND of children
	KindOr        NodeKind = "or"        // OR of children
	KindNot       NodeKind = "not"       // NOT of a single child
)

// RuleNode represents one node of a compiled rule tree.
// Leaf nodes carry a variable slug, an operator, and an optional operand.
// Combinator nodes carry children and ignore the leaf fields.
type RuleNode struct {
	Kind     NodeKind    // Variant discriminator
	Variable string      // Variable slug (condition nodes)
	Operator Operator    // Comparison operator (condition nodes)
	Operand  interface{} // Expected value (condition nodes; nil for presence operators)
	Children []*RuleNode // Child nodes (and/or/not)
}

// IsCondition returns true if this is a leaf condition node.
func (n *RuleNode) IsCondition() bool {
	return n.Kind == KindCondition
}

// IsCombinator returns true if this is a logical combinator (and/or/not).
func (n *RuleNode) IsCombinator() bool {
	return n.Kind == KindAnd || n.Kind == KindOr || n.Kind == KindNot
}

// Cond constructs a leaf condition node.
func Cond(variable string, op Operator, operand interface{}) *RuleNode {
	return &RuleNode{
		Kind:     KindCondition,
		Variable: variable,
		Operator: op,
		Operand:  operand,
	}
}

// And constructs a conjunction over the given children.
// An empty conjunction is the K3 identity element and evaluates to Activate.
func And(children ...*RuleNode) *RuleNode {
	return &RuleNode{Kind: KindAnd, Children: children}
}

// Or constructs a disjunction over the given children.
// An empty disjunction is the K3 identity element and evaluates to Skip.
func Or(children ...*RuleNode) *RuleNode {
	return &RuleNode{Kind: KindOr, Children: children}
}

// Not constructs a negation of a single child.
func Not(child *RuleNode) *RuleNode {
	return &RuleNode{Kind: KindNot, Children: []*RuleNode{child}}
}

// Variables returns the set of variable slugs referenced anywhere in the
// tree. The result is deduplicated but not sorted.
func (n *RuleNode) Variables() []string {
	seen := make(map[string]struct{})
	var slugs []string

	var walk func(node *RuleNode)
	walk = func(node *RuleNode) {
		if node == nil {
			return
		}
		if node.Kind == KindCondition && node.Variable != "" {
			if _, ok := seen[node.Variable]; !ok {
				seen[node.Variable] = struct{}{}
				slugs = append(slugs, node.Variable)
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)

	return slugs
}
