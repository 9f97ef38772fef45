package cache

import (
	"context"
	"fmt"
	"time"

	"peticia-hq/minerva/pkg/activation"
)

// Entry is one cached reasoner response.
type Entry struct {
	// DocumentType is the document type the verdicts were computed for.
	DocumentType string

	// Fingerprint is the SHA-256 fingerprint of the variable snapshot.
	Fingerprint string

	// Verdicts maps module id to the cached verdict.
	Verdicts map[string]activation.Verdict

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time

	// ExpiresAt is when the entry stops being served.
	ExpiresAt time.Time
}

// Key returns the composite cache key for the entry.
func (e *Entry) Key() string {
	return Key(e.DocumentType, e.Fingerprint)
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Key builds the composite cache key for a document type and snapshot
// fingerprint.
func Key(documentType, fingerprint string) string {
	return documentType + ":" + fingerprint
}

// Backend defines the interface for verdict-cache persistence.
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// Get retrieves the entry for a document type and fingerprint.
	// Returns nil if no live entry exists; expired entries are never
	// returned. Returns error on system failure only.
	Get(ctx context.Context, documentType, fingerprint string) (*Entry, error)

	// Put stores an entry, replacing any previous entry for the same key.
	Put(ctx context.Context, entry *Entry) error

	// Delete removes the entry for a key. No-op if absent.
	Delete(ctx context.Context, documentType, fingerprint string) error

	// Purge removes entries that expired at or before the given instant.
	// Returns the number of entries deleted.
	Purge(ctx context.Context, now time.Time) (int, error)

	// Len returns the number of stored entries, expired ones included.
	Len(ctx context.Context) (int, error)

	// Close releases any resources held by the backend.
	// The backend should not be used after calling Close.
	Close() error
}

func validateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.DocumentType == "" {
		return fmt.Errorf("entry has no document type")
	}
	if entry.Fingerprint == "" {
		return fmt.Errorf("entry has no fingerprint")
	}
	if entry.ExpiresAt.IsZero() {
		return fmt.Errorf("entry has no expiry")
	}
	return nil
}
