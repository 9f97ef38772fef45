package source

import (
	"context"

	"peticia-hq/minerva/pkg/catalog"
)

// Source provides the module catalog for one document type.
type Source interface {
	// Load loads the catalog from the source.
	Load(ctx context.Context) (*catalog.Catalog, error)

	// Watch watches for catalog changes and sends events on the returned
	// channel. The channel is closed when the context is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType represents the type of catalog change event.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
	EventDeleted  EventType = "deleted"
)

// Event represents a catalog definition change.
type Event struct {
	// Type is the event type.
	Type EventType

	// Path is the file path that changed (file sources only).
	Path string

	// Error is any error that occurred while processing the event.
	Error error
}
