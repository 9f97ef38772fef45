// Package variables models the typed variable snapshot that accompanies a
// document-generation request, and the normalization rules the evaluator
// applies to raw extracted values.
//
// A Snapshot is an immutable slug → typed value map produced by the upstream
// extraction step. The engine never mutates it; an absent slug is a distinct
// third state, not false or empty string.
//
// Normalization coerces heterogeneous raw values (booleans spelled as
// strings, numbers with locale separators, date strings) into comparable
// typed values. A value that cannot be coerced yields a NormalizationError,
// which the evaluator treats the same as the variable being absent, never
// as false.
//
// # Basic Usage
//
//	snap := variables.NewSnapshot("recurso_plano_saude", []variables.Variable{
//	    {Slug: "pareceres_natureza_cirurgia", Type: variables.TypeString, Value: "eletiva"},
//	})
//	v, ok := snap.Lookup("pareceres_natureza_cirurgia")
//
// Snapshot fingerprints are SHA-256 over the sorted slug/value pairs and are
// the cache-key component the dispatcher combines with the document type.
package variables
