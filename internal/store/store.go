// Package store persists extrapolation results and convergence reports in
// SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run kinds.
const (
	KindExtrapolation = "extrapolation"
	KindConvergence   = "convergence"
)

// ErrRunNotFound indicates an unknown run id.
var ErrRunNotFound = errors.New("store: run not found")

// Store is a SQLite-backed result sink.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Run describes one stored run.
type Run struct {
	ID        string
	Kind      string
	CreatedAt time.Time
	Summary   string
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	// One writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &Store{
		db:    db,
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, created_at, summary FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("store: runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Kind, &created, &r.Summary); err != nil {
			return nil, fmt.Errorf("store: runs: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("store: run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a run and everything stored with it.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, kind, summary string) (string, error) {
	id := s.newID()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, created_at, summary) VALUES (?, ?, ?, ?)`,
		id, kind, s.now().UTC().Format(time.RFC3339Nano), summary)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}
	return id, nil
}

// inTx runs fn in a transaction and commits when it succeeds.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
