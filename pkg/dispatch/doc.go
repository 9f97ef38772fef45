// Package dispatch resolves indeterminate modules through an external
// reasoner.
//
// The dispatcher batches every indeterminate module of one request into a
// single reasoner call, deduplicates concurrent identical requests with
// singleflight, and caches verdict sets keyed by (document type, snapshot
// fingerprint) with TTL-only expiry. Every failure mode (timeout,
// transport error, module ids missing from the response) fails closed to
// Skip and surfaces a warning; the dispatcher never invents an Activate.
//
// The reasoner receives module descriptions plus the minimal variable
// subset the batch references, never the raw source documents.
package dispatch
