// Package audit keeps an append-only charge log in SQLite, recording
// every credited delta. The log is diagnostic: it never participates in
// the document locks and nothing is derived from it.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/spendmeter/spendmeter/pkg/config"
	"github.com/spendmeter/spendmeter/pkg/models"
)

// Log writes and queries charge entries in a dedicated SQLite database.
type Log struct {
	db  *sql.DB
	cfg config.AuditConfig
}

const createCharges = `
CREATE TABLE IF NOT EXISTS charges (
	id         TEXT PRIMARY KEY,
	session_id TEXT,
	kind       TEXT NOT NULL,
	amount     REAL NOT NULL,
	hour_key   TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_charges_created ON charges(created_at);
CREATE INDEX IF NOT EXISTS idx_charges_session ON charges(session_id);
`

// New opens the charge log database and creates the schema. Entries
// older than the configured retention are cleaned up on open; invocations
// are short-lived, so there is no background retention loop.
func New(cfg config.AuditConfig, dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open charge log: %w", err)
	}

	if _, err := db.Exec(createCharges); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate charge log: %w", err)
	}

	l := &Log{db: db, cfg: cfg}
	if cfg.RetentionDays > 0 {
		_, _ = l.Cleanup(context.Background())
	}
	return l, nil
}

// Record inserts a charge entry, generating an ID if none is set.
func (l *Log) Record(ctx context.Context, e models.ChargeEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO charges (id, session_id, kind, amount, hour_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Kind, e.Amount, e.HourKey, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record charge: %w", err)
	}
	return nil
}

// Query returns charge entries matching the given options, newest first.
func (l *Log) Query(ctx context.Context, opts models.ChargeQueryOpts) ([]models.ChargeEntry, error) {
	q := `SELECT id, session_id, kind, amount, hour_key, created_at FROM charges WHERE 1=1`
	var args []any

	if opts.SessionID != "" {
		q += " AND session_id = ?"
		args = append(args, opts.SessionID)
	}
	if !opts.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, opts.Since)
	}

	q += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query charges: %w", err)
	}
	defer rows.Close()

	var entries []models.ChargeEntry
	for rows.Next() {
		var e models.ChargeEntry
		var sessionID sql.NullString
		if err := rows.Scan(&e.ID, &sessionID, &e.Kind, &e.Amount, &e.HourKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan charge: %w", err)
		}
		e.SessionID = sessionID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns per-day charge counts and sums, newest day first.
func (l *Log) Stats(ctx context.Context) ([]models.ChargeStat, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT date(created_at) AS day, count(*), COALESCE(SUM(amount), 0)
		 FROM charges GROUP BY day ORDER BY day DESC`)
	if err != nil {
		return nil, fmt.Errorf("charge stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ChargeStat
	for rows.Next() {
		var s models.ChargeStat
		var day sql.NullString
		if err := rows.Scan(&day, &s.Count, &s.Amount); err != nil {
			return nil, fmt.Errorf("scan charge stat: %w", err)
		}
		s.Day = day.String
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Cleanup deletes entries older than the configured retention period.
func (l *Log) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -l.cfg.RetentionDays)
	res, err := l.db.ExecContext(ctx, `DELETE FROM charges WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("charge cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Reset removes every entry from the charge log.
func (l *Log) Reset(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM charges`); err != nil {
		return fmt.Errorf("reset charge log: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}
