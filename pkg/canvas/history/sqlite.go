package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/geom"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id         TEXT PRIMARY KEY,
	canvas_id  TEXT NOT NULL,
	word       TEXT NOT NULL,
	color      TEXT NOT NULL,
	created_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_canvas ON submissions(canvas_id, created_ms);
`

const maxRetries = 3

// SQLiteStore keeps history in an SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path with WAL journaling
// and a generous busy timeout. ":memory:" opens a private in-memory store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, sub submission.Submission) error {
	return exec(ctx, s.db,
		`INSERT OR IGNORE INTO submissions (id, canvas_id, word, color, created_ms) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.CanvasID, sub.Token, sub.Color.Hex(), sub.Timestamp.UnixMilli())
}

func (s *SQLiteStore) List(ctx context.Context, canvasID string) ([]submission.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, word, color, created_ms FROM submissions WHERE canvas_id = ? ORDER BY created_ms, id`,
		canvasID)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var out []submission.Submission
	for rows.Next() {
		var (
			sub   = submission.Submission{CanvasID: canvasID}
			color string
			ms    int64
		)
		if err := rows.Scan(&sub.ID, &sub.Token, &color, &ms); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if sub.Color, err = geom.ParseHex(color); err != nil {
			return nil, fmt.Errorf("history: row %s: %w", sub.ID, err)
		}
		sub.Timestamp = time.UnixMilli(ms)
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context, canvasID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE canvas_id = ?`, canvasID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, canvasID string) error {
	return exec(ctx, s.db, `DELETE FROM submissions WHERE canvas_id = ?`, canvasID)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// exec runs a statement, retrying with 100/200 ms backoff while the
// database reports BUSY.
func exec(ctx context.Context, db *sql.DB, query string, args ...any) error {
	for i := range maxRetries {
		_, err := db.ExecContext(ctx, query, args...)
		if err == nil {
			return nil
		}
		if !isBusy(err) || i == maxRetries-1 {
			return fmt.Errorf("history: exec: %w", err)
		}
		t := time.NewTimer(time.Duration(100*(i+1)) * time.Millisecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
