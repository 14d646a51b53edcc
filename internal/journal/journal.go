// Package journal keeps a history of provisioning runs in a small SQLite
// database under the install directory. The journal is advisory: it never
// blocks or fails an installation.
package journal

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/melodix-project/maestro/pkg/fsutil"
)

// DBFilename is the journal's file name inside the state directory.
const DBFilename = "history.db"

// StateDir is the hidden directory maestro keeps its own files in.
const StateDir = ".maestro"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	services    TEXT NOT NULL,
	result      TEXT NOT NULL,
	exit_code   INTEGER NOT NULL,
	detail      TEXT NOT NULL
);`

// Entry is one provisioning run.
type Entry struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Services   []string
	Result     string
	ExitCode   int
	Detail     string
}

// Journal records provisioning runs.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal under dir.
func Open(dir string) (*Journal, error) {
	stateDir := filepath.Join(dir, StateDir)
	if err := fsutil.EnsureDir(stateDir); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(stateDir, DBFilename)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record stores one run. A missing ID gets a fresh one.
func (j *Journal) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := j.db.Exec(
		`INSERT INTO runs (id, started_at, finished_at, services, result, exit_code, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.StartedAt.UTC().Format(time.RFC3339),
		e.FinishedAt.UTC().Format(time.RFC3339),
		strings.Join(e.Services, ","),
		e.Result,
		e.ExitCode,
		e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (j *Journal) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, started_at, finished_at, services, result, exit_code, detail
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, finished, services string
		if err := rows.Scan(&e.ID, &started, &finished, &services, &e.Result, &e.ExitCode, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		e.StartedAt, _ = time.Parse(time.RFC3339, started)
		e.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		if services != "" {
			e.Services = strings.Split(services, ",")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
