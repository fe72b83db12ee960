package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Audit actions recorded locally. The DMS server keeps its own audit trail;
// this log is the client-side record of what this user attempted from this
// machine, including denials that never reached the server.
const (
	AuditDelete       = "delete"
	AuditDeleteDenied = "delete.denied"
	AuditRefreshError = "refresh.error"
	AuditUpload       = "upload"
	AuditUpdate       = "update"
)

type AuditEvent struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	RefSeqNo int       `json:"refSeqNo,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// AuditLog appends action events to a local sqlite database.
type AuditLog struct {
	db *sql.DB
}

// OpenAuditLog opens (creating if needed) the audit database under dir.
func OpenAuditLog(dir string) (*AuditLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "audit.sqlite"))
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when CLI and TUI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS audit_events (
		event_id TEXT PRIMARY KEY,
		at_unixms INTEGER NOT NULL,
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		ref_seq_no INTEGER NOT NULL DEFAULT 0,
		detail TEXT NOT NULL DEFAULT ''
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_audit_at ON audit_events(at_unixms);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &AuditLog{db: db}, nil
}

func (a *AuditLog) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Append records one event. Callers treat failures as non-fatal: a broken
// local audit log must never block the action itself.
func (a *AuditLog) Append(ctx context.Context, actor, action string, refSeqNo int, detail string) error {
	if a == nil || a.db == nil {
		return nil
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO audit_events (event_id, at_unixms, actor, action, ref_seq_no, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UnixMilli(), actor, action, refSeqNo, detail,
	)
	return err
}

// List returns the most recent events, newest first.
func (a *AuditLog) List(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT event_id, at_unixms, actor, action, ref_seq_no, detail
		 FROM audit_events ORDER BY at_unixms DESC, event_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AuditEvent{}
	for rows.Next() {
		var ev AuditEvent
		var atMS int64
		if err := rows.Scan(&ev.ID, &atMS, &ev.Actor, &ev.Action, &ev.RefSeqNo, &ev.Detail); err != nil {
			return nil, err
		}
		ev.At = time.UnixMilli(atMS).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
