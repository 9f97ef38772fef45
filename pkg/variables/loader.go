package variables

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// snapshotFile mirrors the YAML snapshot format produced by the upstream
// extraction pipeline.
type snapshotFile struct {
	DocumentType string     `yaml:"document_type"`
	Variables    []Variable `yaml:"variables"`
}

// ParseSnapshot parses a YAML snapshot document. Duplicate slugs and
// unknown declared types are rejected; malformed values are not, since
// normalization decides those at evaluation time.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if file.DocumentType == "" {
		return nil, fmt.Errorf("snapshot has no document type")
	}

	seen := make(map[string]struct{}, len(file.Variables))
	for _, v := range file.Variables {
		if v.Slug == "" {
			return nil, fmt.Errorf("snapshot variable has no slug")
		}
		if !v.Type.IsValid() {
			return nil, fmt.Errorf("variable %q: unknown type %q", v.Slug, v.Type)
		}
		if _, dup := seen[v.Slug]; dup {
			return nil, fmt.Errorf("duplicate variable slug %q", v.Slug)
		}
		seen[v.Slug] = struct{}{}
	}

	return NewSnapshot(file.DocumentType, file.Variables), nil
}

// LoadSnapshotFile reads and parses a YAML snapshot from disk.
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file %q: %w", path, err)
	}
	return ParseSnapshot(data)
}
