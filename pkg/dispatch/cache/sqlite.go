package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"peticia-hq/minerva/pkg/activation"
)

// SQLiteBackend implements Backend using SQLite for persistence. Suitable
// for single-instance deployments that want the verdict cache to survive
// restarts instead of paying a cold-start burst of reasoner calls.
//
// SQLiteBackend uses a write-ahead log (WAL) for better concurrent
// performance.
type SQLiteBackend struct {
	db     *sql.DB
	dbPath string

	mu        sync.RWMutex
	closeOnce sync.Once

	// preparedStatements contains pre-compiled SQL statements for performance
	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	purgeStmt  *sql.Stmt
	lenStmt    *sql.Stmt
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a new SQLite cache backend with default settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{DBPath: dbPath})
}

// NewSQLiteBackendWithConfig creates a new SQLite backend with custom
// configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return backend, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS verdict_cache (
		document_type TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		verdicts TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		PRIMARY KEY (document_type, fingerprint)
	);

	CREATE INDEX IF NOT EXISTS idx_expires_at ON verdict_cache(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT verdicts, created_at, expires_at
		FROM verdict_cache
		WHERE document_type = ? AND fingerprint = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.putStmt, err = s.db.Prepare(`
		INSERT INTO verdict_cache (document_type, fingerprint, verdicts, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (document_type, fingerprint) DO UPDATE SET
			verdicts = excluded.verdicts,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM verdict_cache
		WHERE document_type = ? AND fingerprint = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.purgeStmt, err = s.db.Prepare(`
		DELETE FROM verdict_cache
		WHERE expires_at <= ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare purge statement: %w", err)
	}

	s.lenStmt, err = s.db.Prepare(`
		SELECT COUNT(*) FROM verdict_cache
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare len statement: %w", err)
	}

	return nil
}

// Get retrieves the live entry for a document type and fingerprint.
func (s *SQLiteBackend) Get(ctx context.Context, documentType, fingerprint string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		verdictsJSON string
		createdAt    int64
		expiresAt    int64
	)
	err := s.getStmt.QueryRowContext(ctx, documentType, fingerprint).
		Scan(&verdictsJSON, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	entry := &Entry{
		DocumentType: documentType,
		Fingerprint:  fingerprint,
		CreatedAt:    time.Unix(createdAt, 0),
		ExpiresAt:    time.Unix(expiresAt, 0),
	}
	if entry.Expired(time.Now()) {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(verdictsJSON), &entry.Verdicts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verdicts: %w", err)
	}

	return entry, nil
}

// Put stores an entry, replacing any previous entry for the same key.
func (s *SQLiteBackend) Put(ctx context.Context, entry *Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Verdicts == nil {
		entry.Verdicts = map[string]activation.Verdict{}
	}

	verdictsJSON, err := json.Marshal(entry.Verdicts)
	if err != nil {
		return fmt.Errorf("failed to marshal verdicts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.putStmt.ExecContext(ctx,
		entry.DocumentType,
		entry.Fingerprint,
		string(verdictsJSON),
		entry.CreatedAt.Unix(),
		entry.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	return nil
}

// Delete removes the entry for a key.
func (s *SQLiteBackend) Delete(ctx context.Context, documentType, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, documentType, fingerprint); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Purge removes entries that expired at or before the given instant.
func (s *SQLiteBackend) Purge(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.purgeStmt.ExecContext(ctx, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged entries: %w", err)
	}
	return int(deleted), nil
}

// Len returns the number of stored entries.
func (s *SQLiteBackend) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.lenStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.getStmt, s.putStmt, s.deleteStmt, s.purgeStmt, s.lenStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}
