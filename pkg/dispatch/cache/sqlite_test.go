package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"peticia-hq/minerva/pkg/activation"
)

func newTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestSQLiteBackend_PutGet(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	entry := testEntry("pareceres_natureza_cirurgia", "abc123", time.Hour)
	entry.Verdicts["clausula_opcional"] = activation.VerdictSkip
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
	if len(got.Verdicts) != 2 {
		t.Errorf("Verdicts = %v, want 2 entries", got.Verdicts)
	}
	if got.Verdicts["clausula_opcional"] != activation.VerdictSkip {
		t.Errorf("clausula_opcional = %v, want skip", got.Verdicts["clausula_opcional"])
	}
}

func TestSQLiteBackend_Replace(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	first := testEntry("dt", "fp", time.Hour)
	if err := backend.Put(ctx, first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	second := testEntry("dt", "fp", time.Hour)
	second.Verdicts = map[string]activation.Verdict{
		"analise_subjetiva": activation.VerdictSkip,
	}
	if err := backend.Put(ctx, second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := backend.Get(ctx, "dt", "fp")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Verdicts["analise_subjetiva"] != activation.VerdictSkip {
		t.Errorf("verdict = %v, want skip after replace", got.Verdicts["analise_subjetiva"])
	}

	n, _ := backend.Len(ctx)
	if n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestSQLiteBackend_ExpiryAndPurge(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	backend.Put(ctx, testEntry("dt", "live", time.Hour))
	backend.Put(ctx, testEntry("dt", "dead", -time.Minute))

	// Expired rows are skipped on read even before purging.
	got, err := backend.Get(ctx, "dt", "dead")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("Get() served an expired entry")
	}

	deleted, err := backend.Purge(ctx, time.Now())
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Purge() = %d, want 1", deleted)
	}

	n, _ := backend.Len(ctx)
	if n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestSQLiteBackend_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	if err := backend.Put(ctx, testEntry("dt", "fp", time.Hour)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend() reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "dt", "fp")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("entry did not survive restart")
	}
}
