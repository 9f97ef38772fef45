// Package catalog provides the in-memory view of the content modules
// ("argument blocks") available for one document type.
//
// A Module carries its activation mode (always, deterministic, llm), an
// optional primary and fallback rule tree, a category, and an ordering key.
// Module definitions are authored, versioned, and persisted by an external
// collaborator; this package only models and validates the compiled form the
// activation engine consumes read-only.
//
// Catalogs are loaded through a Source (see the source subpackage), which
// supports in-memory catalogs for tests and embedding, and YAML files with
// fsnotify-based hot reload.
package catalog
