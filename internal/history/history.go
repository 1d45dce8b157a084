// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of generator invocations, so
// operators can see which profiles were rebuilt and which were skipped
// as up to date.
package history

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Entry is one recorded driver run.
type Entry struct {
	ID        int64
	Profile   string
	Builder   string
	Skipped   bool
	ExitCode  int
	Expanded  int
	Duration  time.Duration
	StartedAt time.Time
}

// Store manages the build-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database under dir, creating the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	stmt := `CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile TEXT NOT NULL,
		builder TEXT NOT NULL,
		skipped INTEGER NOT NULL,
		exit_code INTEGER NOT NULL,
		expanded INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		started_at TEXT NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record appends an entry to the ledger.
func (s *Store) Record(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO builds (profile, builder, skipped, exit_code, expanded, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Profile, e.Builder, e.Skipped, e.ExitCode, e.Expanded,
		e.Duration.Milliseconds(), e.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, profile, builder, skipped, exit_code, expanded, duration_ms, started_at
		 FROM builds ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		var started string
		if err := rows.Scan(&e.ID, &e.Profile, &e.Builder, &e.Skipped,
			&e.ExitCode, &e.Expanded, &durationMS, &started); err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Write prints entries as a fixed-width table to w.
func Write(w io.Writer, entries []Entry) {
	fmt.Fprintf(w, "%-20s %-8s %-8s %5s %9s  %s\n",
		"PROFILE", "BUILDER", "OUTCOME", "EXIT", "DURATION", "STARTED")
	for _, e := range entries {
		outcome := "built"
		if e.Skipped {
			outcome = "skipped"
		} else if e.ExitCode != 0 {
			outcome = "failed"
		}
		fmt.Fprintf(w, "%-20s %-8s %-8s %5d %9s  %s\n",
			e.Profile, e.Builder, outcome, e.ExitCode,
			e.Duration.Round(time.Millisecond),
			e.StartedAt.Local().Format("2006-01-02 15:04:05"))
	}
}
