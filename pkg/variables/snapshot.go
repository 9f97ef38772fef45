package variables

import (
	"fmt"
	"sort"
	"strings"
)

// Snapshot is the immutable slug → variable map for one generation request.
// It is created once from the extraction output and read concurrently by
// every evaluation; nothing in the engine mutates it.
type Snapshot struct {
	documentType string
	values       map[string]Variable
}

// NewSnapshot creates a snapshot for the given document type. Later entries
// with a duplicate slug overwrite earlier ones. The input slice is copied.
func NewSnapshot(documentType string, vars []Variable) *Snapshot {
	values := make(map[string]Variable, len(vars))
	for _, v := range vars {
		if v.Slug == "" {
			continue
		}
		values[v.Slug] = v
	}
	return &Snapshot{
		documentType: documentType,
		values:       values,
	}
}

// DocumentType returns the document type this snapshot was extracted for.
func (s *Snapshot) DocumentType() string {
	return s.documentType
}

// Lookup returns the variable for slug and whether it is present.
// Absence is a distinct third state for the evaluator, so callers must
// check ok rather than relying on the zero Variable.
func (s *Snapshot) Lookup(slug string) (Variable, bool) {
	v, ok := s.values[slug]
	return v, ok
}

// Has returns true if the slug is present in the snapshot.
func (s *Snapshot) Has(slug string) bool {
	_, ok := s.values[slug]
	return ok
}

// Len returns the number of variables in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.values)
}

// Slugs returns all slugs in sorted order.
func (s *Snapshot) Slugs() []string {
	slugs := make([]string, 0, len(s.values))
	for slug := range s.values {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Subset returns the variables for the requested slugs, skipping absent
// ones. The dispatcher uses this to ship only the variable values a batch of
// indeterminate modules actually references.
func (s *Snapshot) Subset(slugs []string) []Variable {
	subset := make([]Variable, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		if v, ok := s.values[slug]; ok {
			subset = append(subset, v)
		}
	}
	sort.Slice(subset, func(i, j int) bool { return subset[i].Slug < subset[j].Slug })
	return subset
}

// Fingerprint returns the hex-encoded SHA-256 hash over the sorted
// slug/value pairs. Two snapshots with identical content produce identical
// fingerprints regardless of construction order, which is what makes the
// fingerprint usable as a cache-key component.
func (s *Snapshot) Fingerprint() string {
	var b strings.Builder
	for _, slug := range s.Slugs() {
		v := s.values[slug]
		fmt.Fprintf(&b, "%s\x00%s\x00%v\n", slug, v.Type, v.Value)
	}
	return HashString(b.String())
}
