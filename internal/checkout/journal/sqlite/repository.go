// Package sqlite provides a SQLite-backed implementation of journal.Repository.
//
// WAL mode is enabled on Open so HTTP handlers reading a session's journal do
// not block the writes of concurrent checkout requests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/checkout-engine/internal/checkout/journal"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

var _ journal.Repository = (*Repository)(nil)

// The table is append-only: one immutable row per committed transition.
const schema = `
CREATE TABLE IF NOT EXISTS checkout_journal (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT    NOT NULL,
    action      TEXT    NOT NULL,
    step        INTEGER NOT NULL,
    flow_mode   TEXT    NOT NULL DEFAULT '',

    -- JSON of the changed sub-object; NULL for navigation and flow changes.
    payload     TEXT,

    trace_id    TEXT    NOT NULL DEFAULT '',
    span_id     TEXT    NOT NULL DEFAULT '',

    -- RFC3339 as TEXT; SQLite has no datetime type.
    updated_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_journal_session ON checkout_journal(session_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_checkout_journal_trace ON checkout_journal(trace_id);
`

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/journal.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new journal entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *journal.Entry) error {
	const q = `
		INSERT INTO checkout_journal
			(session_id, action, step, flow_mode, payload, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SessionID,
		entry.Action,
		entry.Step,
		entry.FlowMode,
		nullableString(entry.Payload),
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save journal entry for %q: %w", entry.SessionID, err)
	}
	return nil
}

const selectColumns = `
	SELECT session_id, action, step, flow_mode, COALESCE(payload,''),
	       trace_id, span_id, updated_at
	FROM   checkout_journal`

func (r *Repository) GetLatest(ctx context.Context, sessionID string) (*journal.Entry, error) {
	const q = selectColumns + `
		WHERE  session_id = ?
		ORDER  BY updated_at DESC, id DESC
		LIMIT  1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: session %q: %w", sessionID, journal.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", sessionID, err)
	}
	return entry, nil
}

func (r *Repository) List(ctx context.Context, sessionID string) ([]*journal.Entry, error) {
	const q = selectColumns + `
		WHERE  session_id = ?
		ORDER  BY updated_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %q: %w", sessionID, err)
	}
	defer rows.Close()

	var entries []*journal.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list %q: %w", sessionID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %q: %w", sessionID, err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*journal.Entry, error) {
	var entry journal.Entry
	var updatedAt string
	err := row.Scan(
		&entry.SessionID,
		&entry.Action,
		&entry.Step,
		&entry.FlowMode,
		&entry.Payload,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.UpdatedAt, err = parseRFC3339(updatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString stores NULL instead of an empty payload.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
