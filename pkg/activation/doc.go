// Package activation decides which content modules a generated document
// must include, combining locally-evaluated three-valued rules with a
// fallback to an external reasoner for modules no rule can resolve.
//
// # Core Types
//
// Outcome: Three-valued evaluation result (Activate, Skip, Indeterminate)
// composed under Kleene K3 semantics
//
// Evaluator: Pure rule-tree evaluator over an immutable variable snapshot
//
// Planner: Partitions a catalog into resolved and indeterminate sets and
// picks the dispatch path
//
// Plan: The aggregate result for one request, including the final ordered
// module list and any configuration warnings
//
// # Evaluation Semantics
//
// A condition over an absent or unnormalizable variable is Indeterminate,
// never false. And short-circuits to Skip on any Skip child, Or to Activate
// on any Activate child; Indeterminate propagates otherwise. Empty And is
// Activate, empty Or is Skip.
//
// # Fast Path
//
// When every module resolves locally the planner finalizes immediately with
// zero reasoner calls. Only modules in the indeterminate set, together with
// the minimal variable subset they reference, ever reach the resolver.
//
// # Misconfiguration
//
// A deterministic module without a primary rule is a configuration error
// surfaced as a first-class warning on the plan; it is excluded from the
// generated document and never silently reclassified as an llm module.
package activation
