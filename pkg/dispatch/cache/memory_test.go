package cache

import (
	"context"
	"testing"
	"time"

	"peticia-hq/minerva/pkg/activation"
)

func testEntry(documentType, fingerprint string, ttl time.Duration) *Entry {
	return &Entry{
		DocumentType: documentType,
		Fingerprint:  fingerprint,
		Verdicts: map[string]activation.Verdict{
			"analise_subjetiva": activation.VerdictActivate,
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestMemoryBackend_PutGet(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()
	ctx := context.Background()

	entry := testEntry("pareceres_natureza_cirurgia", "abc123", time.Hour)
	if err := backend.Put(ctx, entry); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := backend.Get(ctx, "pareceres_natureza_cirurgia", "abc123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want entry")
	}
	if got.Verdicts["analise_subjetiva"] != activation.VerdictActivate {
		t.Errorf("Verdicts = %v, want activate for analise_subjetiva", got.Verdicts)
	}

	// Different fingerprint is a different key.
	got, err = backend.Get(ctx, "pareceres_natureza_cirurgia", "def456")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil for unknown fingerprint", got)
	}
}

func TestMemoryBackend_ExpiredEntryNotServed(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()
	ctx := context.Background()

	entry := testEntry("pareceres_natureza_cirurgia", "abc123", -time.Minute)
	if err := backend.Put(ctx, entry); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := backend.Get(ctx, "pareceres_natureza_cirurgia", "abc123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil for expired entry", got)
	}
}

func TestMemoryBackend_Purge(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()
	ctx := context.Background()

	backend.Put(ctx, testEntry("pareceres_natureza_cirurgia", "live", time.Hour))
	backend.Put(ctx, testEntry("pareceres_natureza_cirurgia", "dead1", -time.Minute))
	backend.Put(ctx, testEntry("pareceres_natureza_cirurgia", "dead2", -time.Hour))

	deleted, err := backend.Purge(ctx, time.Now())
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Purge() = %d, want 2", deleted)
	}

	n, _ := backend.Len(ctx)
	if n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestMemoryBackend_EvictsAtCapacity(t *testing.T) {
	backend := NewMemoryBackendWithConfig(MemoryBackendConfig{MaxEntries: 2})
	defer backend.Close()
	ctx := context.Background()

	backend.Put(ctx, testEntry("dt", "a", time.Hour))
	backend.Put(ctx, testEntry("dt", "b", 2*time.Hour))
	backend.Put(ctx, testEntry("dt", "c", 3*time.Hour))

	n, _ := backend.Len(ctx)
	if n != 2 {
		t.Fatalf("Len() = %d, want 2", n)
	}

	// The entry closest to expiry was evicted.
	got, _ := backend.Get(ctx, "dt", "a")
	if got != nil {
		t.Error("entry closest to expiry survived eviction")
	}
}

func TestMemoryBackend_InvalidEntries(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		entry *Entry
	}{
		{"nil entry", nil},
		{"missing document type", &Entry{Fingerprint: "x", ExpiresAt: time.Now().Add(time.Hour)}},
		{"missing fingerprint", &Entry{DocumentType: "dt", ExpiresAt: time.Now().Add(time.Hour)}},
		{"missing expiry", &Entry{DocumentType: "dt", Fingerprint: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := backend.Put(ctx, tt.entry); err == nil {
				t.Error("Put() accepted invalid entry")
			}
		})
	}
}
