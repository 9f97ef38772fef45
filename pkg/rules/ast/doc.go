// Package ast provides the rule tree definitions consumed by the activation
// engine.
//
// A rule tree is a closed tagged variant: a single RuleNode is either a leaf
// Condition (variable operator operand) or a logical combinator (And, Or,
// Not) over child nodes. Rule trees are authored and versioned by an
// external collaborator; this package only models, validates, and traverses
// already-compiled trees.
//
// # Core Types
//
// RuleNode: A node in the rule tree (condition, and, or, not)
//
// Operator: Comparison operator for leaf conditions
//
// # Basic Usage
//
// Build a tree programmatically and validate its depth:
//
//	rule := ast.And(
//	    ast.Cond("pareceres_natureza_cirurgia", ast.OperatorEquals, "eletiva"),
//	    ast.Not(ast.Cond("urgencia_declarada", ast.OperatorExists, nil)),
//	)
//	if err := ast.ValidateDepth(rule, ast.DefaultMaxDepth); err != nil {
//	    log.Fatal(err)
//	}
//
// # Immutability
//
// RuleNode trees should be treated as immutable after construction. The
// evaluator inspects them without modification, which is what makes
// per-module evaluation safe to run concurrently without locking.
package ast
