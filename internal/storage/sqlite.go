// Package storage provides SQLite-based persistence for the player profile
// and the history of finished sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/graveyard/internal/session"
)

// DefaultUserName is reported until a profile name has been saved.
const DefaultUserName = "player"

// ErrEmptyName is returned when saving a blank profile name.
var ErrEmptyName = errors.New("storage: profile name is empty")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Profile is the single local player profile.
type Profile struct {
	Name      string
	UpdatedAt time.Time
}

// RecordEntry is a stored session result.
type RecordEntry struct {
	ID int64
	session.Record
}

// Stats contains aggregated statistics over all stored sessions.
type Stats struct {
	Sessions      int
	BestCoins     int
	AvgCoins      float64
	LongestRun    time.Duration
	TotalPlayTime time.Duration
	LastPlayed    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// One writer at a time; remote sessions share this store.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			launched_at INTEGER NOT NULL,
			reason TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_launched ON records(launched_at DESC);
		CREATE INDEX IF NOT EXISTS idx_records_best ON records(coins DESC, duration_ms DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Profile returns the stored profile. A missing profile yields DefaultUserName.
func (s *Store) Profile() (Profile, error) {
	return loadProfile(context.Background(), s.db)
}

// UserName returns the stored profile name.
func (s *Store) UserName() (string, error) {
	p, err := s.Profile()
	return p.Name, err
}

// SetUserName saves the profile name.
func (s *Store) SetUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	_, err := s.db.Exec(
		`INSERT INTO profile (id, name, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP`,
		name,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save profile: %w", err)
	}
	return nil
}

func loadProfile(ctx context.Context, q querier) (Profile, error) {
	var p Profile
	var updatedAt any
	err := q.QueryRowContext(ctx, "SELECT name, updated_at FROM profile WHERE id = 1").Scan(&p.Name, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{Name: DefaultUserName}, nil
	}
	if err != nil {
		return Profile{Name: DefaultUserName}, fmt.Errorf("storage: cannot query profile: %w", err)
	}
	p.UpdatedAt = parseTimestamp(updatedAt)
	return p, nil
}

// AppendRecord stores a finished session. Returns the ID of the inserted record.
func (s *Store) AppendRecord(r session.Record) (int64, error) {
	return appendRecord(context.Background(), s.db, r)
}

func appendRecord(ctx context.Context, q querier, r session.Record) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO records (session_id, name, coins, duration_ms, launched_at, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.Name,
		r.Coins,
		r.Duration.Milliseconds(),
		r.LaunchedAt.UnixMilli(),
		r.Cause.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRecords returns up to limit records, newest first.
func (s *Store) RecentRecords(limit int) ([]RecordEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRecords(
		`SELECT id, session_id, name, coins, duration_ms, launched_at, reason
		 FROM records
		 ORDER BY launched_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// BestRecords returns up to limit records ordered by coins, then survival time.
func (s *Store) BestRecords(limit int) ([]RecordEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRecords(
		`SELECT id, session_id, name, coins, duration_ms, launched_at, reason
		 FROM records
		 ORDER BY coins DESC, duration_ms DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRecords(query string, args ...any) ([]RecordEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var entries []RecordEntry
	for rows.Next() {
		var e RecordEntry
		var durationMs, launchedMs int64
		var reason string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.Coins, &durationMs, &launchedMs, &reason); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.LaunchedAt = time.UnixMilli(launchedMs)
		cause, err := session.ParseCause(reason)
		if err != nil {
			return nil, fmt.Errorf("storage: record %d: %w", e.ID, err)
		}
		e.Cause = cause
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// GetStats retrieves aggregated statistics over every stored session.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}
	var longest, total, last int64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(coins), 0), COALESCE(AVG(coins), 0),
		        COALESCE(MAX(duration_ms), 0), COALESCE(SUM(duration_ms), 0),
		        COALESCE(MAX(launched_at), 0)
		 FROM records`,
	).Scan(&stats.Sessions, &stats.BestCoins, &stats.AvgCoins, &longest, &total, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	stats.LongestRun = time.Duration(longest) * time.Millisecond
	stats.TotalPlayTime = time.Duration(total) * time.Millisecond
	if stats.Sessions > 0 {
		stats.LastPlayed = time.UnixMilli(last)
	}
	return stats, nil
}

// ClearRecords deletes the whole session history.
func (s *Store) ClearRecords() error {
	_, err := s.db.Exec("DELETE FROM records")
	if err != nil {
		return fmt.Errorf("storage: cannot clear records: %w", err)
	}
	return nil
}

// parseTimestamp handles both time.Time and string DATETIME values.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
