package source

import (
	"context"

	"peticia-hq/minerva/pkg/catalog"
)

// MemorySource is an in-memory catalog source for tests and embedders.
type MemorySource struct {
	cat *catalog.Catalog
}

// NewMemorySource creates a source serving an already-built catalog.
func NewMemorySource(cat *catalog.Catalog) *MemorySource {
	return &MemorySource{cat: cat}
}

// Load returns the catalog stored in memory.
func (s *MemorySource) Load(ctx context.Context) (*catalog.Catalog, error) {
	return s.cat, nil
}

// Watch returns a channel that never sends events.
func (s *MemorySource) Watch(ctx context.Context) (<-chan Event, error) {
	eventCh := make(chan Event)

	go func() {
		<-ctx.Done()
		close(eventCh)
	}()

	return eventCh, nil
}
