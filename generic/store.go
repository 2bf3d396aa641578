/*
store.go - Persistence interfaces for calendar events and rate schedules

PURPOSE:
  Defines the interface between the engine's collaborators and a database.
  The engine never persists calculated pay maps; it only stores what it
  consumes: the calendar source's event titles per date and the
  date-versioned rate schedules.

KEY INTERFACES:
  EventStore: Calendar event titles keyed by yyyy-MM-dd
  RateStore:  Versioned JSON rate schedules (per-diem, meal allowance)

VERSIONING:
  Rate schedules are never updated in place. Saving a schedule of an
  existing kind appends a new version; LatestRateSchedule returns the
  highest version. Older versions stay available for audit.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - factory/rates.go: Parses RateScheduleRecord.ConfigJSON
  - calendar/workdays.go: Consumes EventMap
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// EVENT STORE
// =============================================================================

// EventStore persists calendar event titles per date.
type EventStore interface {
	// SaveEvents replaces the titles stored for date.
	SaveEvents(ctx context.Context, date string, titles []string) error

	// DeleteEvents removes every title stored for date.
	DeleteEvents(ctx context.Context, date string) error

	// EventMap returns the titles of every date in [from, to].
	EventMap(ctx context.Context, from, to time.Time) (EventMap, error)
}

// =============================================================================
// RATE STORE
// =============================================================================

// RateScheduleRecord is a stored rate schedule.
type RateScheduleRecord struct {
	ID         string
	Kind       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
}

// RateStore persists versioned rate schedules.
type RateStore interface {
	// SaveRateSchedule appends a new version of the record's kind. The
	// stored version number is assigned by the store and returned.
	SaveRateSchedule(ctx context.Context, rec RateScheduleRecord) (int, error)

	// LatestRateSchedule returns the newest version of kind, or
	// ErrRateScheduleNotFound.
	LatestRateSchedule(ctx context.Context, kind string) (*RateScheduleRecord, error)

	// ListRateSchedules returns every stored version, newest first.
	ListRateSchedules(ctx context.Context) ([]RateScheduleRecord, error)
}

// Store combines both persistence interfaces.
type Store interface {
	EventStore
	RateStore
}
