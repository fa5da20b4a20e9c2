// Package journal persists agent session transitions to a local sqlite
// database so they survive restarts and can be listed after the fact.
// Journal failures never affect the daemon; writes are logged and dropped.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	from_state TEXT NOT NULL,
	to_state TEXT NOT NULL,
	at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transitions_at ON transitions(at);
`

// Entry is one recorded transition.
type Entry struct {
	RunID     string
	SessionID string
	From, To  string
	At        time.Time
}

// Journal owns the database handle. Every daemon process gets a fresh run
// id so restarts are distinguishable in the history.
type Journal struct {
	db     *sql.DB
	runID  string
	logger *slog.Logger
}

// Open creates the database (and parent directory) if needed.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Journal{db: db, runID: uuid.NewString(), logger: logger}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RunID identifies this daemon process in the history.
func (j *Journal) RunID() string {
	return j.runID
}

// RecordTransition inserts one row. Failures are logged and swallowed so a
// broken journal cannot stall the output loop.
func (j *Journal) RecordTransition(ctx context.Context, sessionID, from, to string) {
	if j == nil {
		return
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO transitions(run_id, session_id, from_state, to_state, at)
VALUES (?, ?, ?, ?, ?)
`, j.runID, sessionID, from, to, ts(time.Now()))
	if err != nil {
		j.logger.Warn("journal write failed", "session", sessionID, "error", err)
	}
}

// Recent returns the newest transitions, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT run_id, session_id, from_state, to_state, at
FROM transitions ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.RunID, &e.SessionID, &e.From, &e.To, &at); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse transition time: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}
	return out, nil
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
