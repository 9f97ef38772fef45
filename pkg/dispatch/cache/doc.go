// Package cache provides verdict-cache backends for the dispatch layer.
//
// A cache entry holds one reasoner response: the verdict set for every
// indeterminate module of one (document type, snapshot fingerprint) pair.
// Entries expire by TTL only; there is no event-driven invalidation, since
// a changed snapshot produces a different fingerprint and therefore a
// different key.
//
// Two backends are provided: an in-memory backend with a background
// cleanup loop (the default), and a SQLite backend for deployments that
// want warm caches across restarts.
package cache
