// Package history keeps a SQLite audit log of fetch attempts.
// Every GetHTML call leaves one row recording the outcome and whether the
// browser fallback ran; response bodies are never persisted.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/raysh454/kasumi/internal/logging"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// DefaultRecentLimit caps Recent when the caller passes a non-positive limit.
const DefaultRecentLimit = 50

// Record is one row of the fetch audit log.
type Record struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Outcome     string    `json:"outcome"`
	UsedBrowser bool      `json:"used_browser"`
	DurationMS  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists fetch records in a SQLite database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore opens (creating if needed) the SQLite database at path and
// applies the schema. The parent directory is created when missing.
func NewStore(path string, logger logging.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: db path is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.Field{Key: "component", Value: "history"})

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	logger.Info("fetch history enabled", logging.Field{Key: "path", Value: path})
	return &Store{db: db, logger: logger}, nil
}

// applySchema sets pragmas and executes the embedded schema.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Record inserts one row. Missing ID and CreatedAt fields are filled in.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	errVal := sql.NullString{String: rec.Error, Valid: rec.Error != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetches (id, url, outcome, used_browser, duration_ms, error, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.Outcome, rec.UsedBrowser, rec.DurationMS, errVal, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert fetch record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// falls back to DefaultRecentLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	// rowid breaks ties between rows created within the same second.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, outcome, used_browser, duration_ms, error, created_at
         FROM fetches
         ORDER BY created_at DESC, rowid DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query fetch records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec       Record
			errVal    sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Outcome, &rec.UsedBrowser, &rec.DurationMS, &errVal, &createdAt); err != nil {
			return nil, fmt.Errorf("scan fetch record: %w", err)
		}
		rec.Error = errVal.String
		rec.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
