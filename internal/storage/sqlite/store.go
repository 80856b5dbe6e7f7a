// Package sqlite provides the SQLite-backed storage for contact submissions,
// section reveals and privacy-hashed visitor records.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/chaitanyauthale5/portfolio/internal/contact"
	"github.com/chaitanyauthale5/portfolio/internal/reveal"
	"github.com/chaitanyauthale5/portfolio/internal/storage/sqlite/migrations"
)

// Store persists portfolio state in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer keeps SQLITE_BUSY out of a single-site workload.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

// BeginSubmission implements contact.Store.
func (s *Store) BeginSubmission(ctx context.Context, sub contact.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(sub.ID) == "" {
		return fmt.Errorf("submission id is required")
	}
	if strings.TrimSpace(sub.Token) == "" {
		return fmt.Errorf("submission token is required")
	}
	createdAt := sub.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	updatedAt := sub.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	status := sub.Status
	if status == "" {
		status = contact.StatusPending
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO contact_submissions (
		   id, token, name, email, subject, message, status, error, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Token, sub.Name, sub.Email, sub.Subject, sub.Message,
		string(status), sub.Error, toMillis(createdAt), toMillis(updatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return s.retryFailedSubmission(ctx, sub, status, createdAt, updatedAt)
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// retryFailedSubmission reuses the row of a token whose earlier send failed.
// Tokens held by pending or sent rows stay duplicates.
func (s *Store) retryFailedSubmission(ctx context.Context, sub contact.Submission, status contact.Status, createdAt, updatedAt time.Time) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE contact_submissions
		    SET id = ?, name = ?, email = ?, subject = ?, message = ?,
		        status = ?, error = ?, created_at = ?, updated_at = ?
		  WHERE token = ? AND status = ?`,
		sub.ID, sub.Name, sub.Email, sub.Subject, sub.Message,
		string(status), sub.Error, toMillis(createdAt), toMillis(updatedAt),
		sub.Token, string(contact.StatusFailed),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return contact.ErrDuplicate
		}
		return fmt.Errorf("retry submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("retry submission rows: %w", err)
	}
	if n == 0 {
		return contact.ErrDuplicate
	}
	return nil
}

// CompleteSubmission implements contact.Store.
func (s *Store) CompleteSubmission(ctx context.Context, id string, status contact.Status, errText string) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE contact_submissions SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errText, toMillis(s.now()), id,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("submission not found: %s", id)
	}
	return nil
}

// ListSubmissions implements contact.Store.
func (s *Store) ListSubmissions(ctx context.Context, limit int) ([]contact.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, token, name, email, subject, message, status, error, created_at, updated_at
		 FROM contact_submissions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []contact.Submission
	for rows.Next() {
		var sub contact.Submission
		var status string
		var created, updated int64
		if err := rows.Scan(&sub.ID, &sub.Token, &sub.Name, &sub.Email, &sub.Subject, &sub.Message,
			&status, &sub.Error, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Status = contact.Status(status)
		sub.CreatedAt = fromMillis(created)
		sub.UpdatedAt = fromMillis(updated)
		out = append(out, sub)
	}
	return out, rows.Err()
}

// MarkRevealed implements reveal.Tracker. The primary key makes the latch
// durable: only the first insert for a view and section succeeds.
func (s *Store) MarkRevealed(ctx context.Context, viewID string, section reveal.Section) (bool, error) {
	if strings.TrimSpace(viewID) == "" {
		return false, fmt.Errorf("view id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO section_reveals (view_id, section, revealed_at) VALUES (?, ?, ?)`,
		viewID, string(section), toMillis(s.now()),
	)
	if err != nil {
		return false, fmt.Errorf("record reveal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record reveal rows: %w", err)
	}
	return n == 1, nil
}

// Visit is one tracked page view. HashedIP is never the raw address.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	ts := v.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, toMillis(ts),
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// PruneVisitors deletes visitor records older than the cutoff and reports
// how many were removed.
func (s *Store) PruneVisitors(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, toMillis(olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune visitors: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarises the site for the admin dashboard.
type Stats struct {
	TotalVisitors     int64            `json:"total_visitors"`
	UniqueVisitors    int64            `json:"unique_visitors"`
	VisitorsToday     int64            `json:"visitors_today"`
	VisitorsThisWeek  int64            `json:"visitors_this_week"`
	TotalSubmissions  int64            `json:"total_submissions"`
	SentSubmissions   int64            `json:"sent_submissions"`
	FailedSubmissions int64            `json:"failed_submissions"`
	RevealsBySection  map[string]int64 `json:"reveals_by_section"`
	RecentVisitors    []Visit          `json:"recent_visitors"`
}

// Stats gathers dashboard figures.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{RevealsBySection: make(map[string]int64)}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{toMillis(startOfDay)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{toMillis(weekAgo)}},
		{&stats.TotalSubmissions, `SELECT COUNT(*) FROM contact_submissions`, nil},
		{&stats.SentSubmissions, `SELECT COUNT(*) FROM contact_submissions WHERE status = ?`, []any{string(contact.StatusSent)}},
		{&stats.FailedSubmissions, `SELECT COUNT(*) FROM contact_submissions WHERE status = ?`, []any{string(contact.StatusFailed)}},
	}
	for _, c := range counts {
		if err := s.sqlDB.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats query: %w", err)
		}
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT section, COUNT(*) FROM section_reveals GROUP BY section`)
	if err != nil {
		return nil, fmt.Errorf("query reveals: %w", err)
	}
	for rows.Next() {
		var section string
		var n int64
		if err := rows.Scan(&section, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan reveals: %w", err)
		}
		stats.RevealsBySection[section] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reveals: %w", err)
	}

	visits, err := s.RecentVisits(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = visits
	return stats, nil
}

// RecentVisits returns the newest page views.
func (s *Store) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, hashed_ip, user_agent, path, timestamp FROM visitors ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = fromMillis(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}
