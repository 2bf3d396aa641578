/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.EventStore and generic.RateStore using SQLite. The same
  patterns apply to PostgreSQL with only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  generic.EventStore: Calendar event titles per date
  generic.RateStore:  Versioned rate schedules

APPEND-ONLY RATE SCHEDULES:
  - No UPDATE statements on rate_schedules
  - A new schedule of an existing kind is a new version row
  - The newest version wins; older ones remain for audit

KEY TABLES:
  calendar_events: One row per (date, title)
  rate_schedules:  JSON schedules, versioned per kind

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./shiftpay.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/shift-pay/generic"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise open its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendar_events (
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, title)
	);

	CREATE INDEX IF NOT EXISTS idx_calendar_events_date
		ON calendar_events(date);

	-- Rate schedules (append-only, versioned per kind)
	CREATE TABLE IF NOT EXISTS rate_schedules (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_rate_schedules_kind_version
		ON rate_schedules(kind, version);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EVENT STORE
// =============================================================================

// SaveEvents replaces the titles stored for date. An empty titles slice
// clears the date.
func (s *Store) SaveEvents(ctx context.Context, date string, titles []string) error {
	if _, err := generic.ParseDate(date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_events WHERE date = ?", date); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	for i, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO calendar_events (date, title, position) VALUES (?, ?, ?)",
			date, title, i,
		)
		if err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteEvents removes every title stored for date.
func (s *Store) DeleteEvents(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM calendar_events WHERE date = ?", date)
	return err
}

// EventMap returns the titles of every date in [from, to].
func (s *Store) EventMap(ctx context.Context, from, to time.Time) (generic.EventMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, title FROM calendar_events WHERE date >= ? AND date <= ? ORDER BY date, position",
		generic.FormatDate(from), generic.FormatDate(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(generic.EventMap)
	for rows.Next() {
		var date, title string
		if err := rows.Scan(&date, &title); err != nil {
			return nil, err
		}
		result[date] = append(result[date], title)
	}
	return result, rows.Err()
}

// =============================================================================
// RATE STORE
// =============================================================================

// SaveRateSchedule appends a new version of rec.Kind and returns it.
func (s *Store) SaveRateSchedule(ctx context.Context, rec generic.RateScheduleRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM rate_schedules WHERE kind = ?",
		rec.Kind,
	).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	rec.Version = current + 1

	_, err = tx.ExecContext(ctx,
		"INSERT INTO rate_schedules (id, kind, config_json, version, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.Kind, rec.ConfigJSON, rec.Version, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save rate schedule: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return rec.Version, nil
}

// LatestRateSchedule returns the newest version of kind.
func (s *Store) LatestRateSchedule(ctx context.Context, kind string) (*generic.RateScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r generic.RateScheduleRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, kind, config_json, version, created_at FROM rate_schedules WHERE kind = ? ORDER BY version DESC LIMIT 1",
		kind,
	).Scan(&r.ID, &r.Kind, &r.ConfigJSON, &r.Version, &createdAt)

	if err == sql.ErrNoRows {
		return nil, generic.ErrRateScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &r, nil
}

// ListRateSchedules returns every stored version, newest first.
func (s *Store) ListRateSchedules(ctx context.Context) ([]generic.RateScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, config_json, version, created_at FROM rate_schedules",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []generic.RateScheduleRecord
	for rows.Next() {
		var r generic.RateScheduleRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Kind, &r.ConfigJSON, &r.Version, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		if records[i].Kind != records[j].Kind {
			return records[i].Kind < records[j].Kind
		}
		return records[i].Version > records[j].Version
	})
	return records, nil
}
