// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	events map[string][]string
	rates  map[string][]generic.RateScheduleRecord
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		events: make(map[string][]string),
		rates:  make(map[string][]generic.RateScheduleRecord),
	}
}

// SaveEvents replaces the titles stored for date.
func (m *Memory) SaveEvents(_ context.Context, date string, titles []string) error {
	if _, err := generic.ParseDate(date); err != nil {
		return err
	}
	var kept []string
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(kept) == 0 {
		delete(m.events, date)
		return nil
	}
	m.events[date] = kept
	return nil
}

func (m *Memory) DeleteEvents(_ context.Context, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, date)
	return nil
}

// EventMap returns the titles of every date in [from, to].
func (m *Memory) EventMap(_ context.Context, from, to time.Time) (generic.EventMap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lo, hi := generic.FormatDate(from), generic.FormatDate(to)
	result := make(generic.EventMap)
	for date, titles := range m.events {
		// yyyy-MM-dd sorts lexically in date order
		if date >= lo && date <= hi {
			result[date] = append([]string(nil), titles...)
		}
	}
	return result, nil
}

// SaveRateSchedule appends a new version of rec.Kind.
func (m *Memory) SaveRateSchedule(_ context.Context, rec generic.RateScheduleRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.rates[rec.Kind]
	rec.Version = len(versions) + 1
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.rates[rec.Kind] = append(versions, rec)
	return rec.Version, nil
}

func (m *Memory) LatestRateSchedule(_ context.Context, kind string) (*generic.RateScheduleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.rates[kind]
	if len(versions) == 0 {
		return nil, generic.ErrRateScheduleNotFound
	}
	rec := versions[len(versions)-1]
	return &rec, nil
}

// ListRateSchedules returns every stored version, newest first.
func (m *Memory) ListRateSchedules(_ context.Context) ([]generic.RateScheduleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.RateScheduleRecord
	for _, versions := range m.rates {
		result = append(result, versions...)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		return result[i].Version > result[j].Version
	})
	return result, nil
}
