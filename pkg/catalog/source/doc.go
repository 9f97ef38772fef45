// Package source provides catalog sources for the activation engine.
//
// A Source loads the module catalog for one document type and can optionally
// watch for definition changes. MemorySource serves tests and embedders that
// already hold compiled modules; FileSource loads YAML catalog files from
// disk and reports changes through fsnotify.
package source
