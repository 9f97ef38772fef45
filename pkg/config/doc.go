// Package config provides configuration loading, validation, and access
// for the Minerva activation engine.
//
// Configuration is loaded from a YAML file, defaults are applied for any
// omitted field, and environment variables of the form MINERVA_SECTION_FIELD
// (e.g. MINERVA_DISPATCH_TIMEOUT) override file values. The final
// configuration is validated before use; validation collects every field
// error instead of stopping at the first.
//
// A process-wide singleton is available through Initialize/GetConfig for
// the CLI entry points; library consumers should pass Config values
// explicitly instead.
package config
