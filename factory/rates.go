/*
Package factory provides JSON to Go rate schedule conversion.

PURPOSE:
  Converts JSON rate schedules into the allowance package's rate tables.
  This enables rate changes without code changes - payroll staff publish a
  new schedule, and the factory creates the tables the calculators use.

WHY JSON?
  - Rates change over time (e.g. the 2024-09-01 change) and are data
  - Easy integration with an admin UI
  - Database storage of schedules as versioned records

JSON SCHEMA:
  Per-diem:
  {
    "kind": "per_diem",
    "entries": [
      {"effective_from": "2023-01-01", "rate": "40.50"},
      {"effective_from": "2024-09-01", "rate": "44.40"}
    ]
  }

  Meal allowance:
  {
    "kind": "meal",
    "entries": [
      {"effective_from": "2024-09-01", "small": "17.70", "large": "35.40"}
    ]
  }

KEY FEATURES:
  - Validates kind, dates and decimal amounts
  - Rejects empty schedules and negative rates
  - Falls back to the built-in defaults when nothing is stored

USAGE:
  f := factory.NewRateFactory()
  schedule, err := f.Parse(jsonString)
  table, err := f.PerDiemTable(schedule)

SEE ALSO:
  - allowance/rates.go: Rate table types
  - generic/store.go: RateStore persistence
*/
package factory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/generic"
)

// Schedule kinds.
const (
	KindPerDiem = "per_diem"
	KindMeal    = "meal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RateScheduleJSON is the JSON representation of a rate schedule.
type RateScheduleJSON struct {
	Kind    string          `json:"kind"`
	Entries []RateEntryJSON `json:"entries"`
}

// RateEntryJSON is one dated entry. Per-diem entries use Rate; meal entries
// use Small and Large.
type RateEntryJSON struct {
	EffectiveFrom string `json:"effective_from"`
	Rate          string `json:"rate,omitempty"`
	Small         string `json:"small,omitempty"`
	Large         string `json:"large,omitempty"`
}

// =============================================================================
// RATE FACTORY
// =============================================================================

// RateFactory converts JSON schedules to rate tables.
type RateFactory struct{}

func NewRateFactory() *RateFactory {
	return &RateFactory{}
}

// Parse parses and validates a JSON schedule.
func (f *RateFactory) Parse(jsonStr string) (RateScheduleJSON, error) {
	var rs RateScheduleJSON
	if err := json.Unmarshal([]byte(jsonStr), &rs); err != nil {
		return RateScheduleJSON{}, fmt.Errorf("%w: %v", generic.ErrInvalidRateSchedule, err)
	}
	switch rs.Kind {
	case KindPerDiem:
		_, err := f.PerDiemTable(rs)
		return rs, err
	case KindMeal:
		_, err := f.MealTable(rs)
		return rs, err
	default:
		return RateScheduleJSON{}, fmt.Errorf("%w: unknown kind %q", generic.ErrInvalidRateSchedule, rs.Kind)
	}
}

// PerDiemTable builds a per-diem table from a per_diem schedule.
func (f *RateFactory) PerDiemTable(rs RateScheduleJSON) (allowance.PerDiemRateTable, error) {
	if rs.Kind != KindPerDiem {
		return allowance.PerDiemRateTable{}, fmt.Errorf("%w: expected kind %q, got %q", generic.ErrInvalidRateSchedule, KindPerDiem, rs.Kind)
	}
	entries := make([]allowance.PerDiemRate, 0, len(rs.Entries))
	for _, e := range rs.Entries {
		from, err := generic.ParseDate(e.EffectiveFrom)
		if err != nil {
			return allowance.PerDiemRateTable{}, fmt.Errorf("%w: %v", generic.ErrInvalidRateSchedule, err)
		}
		rate, err := parseAmount("rate", e.Rate)
		if err != nil {
			return allowance.PerDiemRateTable{}, err
		}
		entries = append(entries, allowance.PerDiemRate{EffectiveFrom: from, Rate: rate})
	}
	return allowance.NewPerDiemRateTable(entries)
}

// MealTable builds a meal table from a meal schedule.
func (f *RateFactory) MealTable(rs RateScheduleJSON) (allowance.MealRateTable, error) {
	if rs.Kind != KindMeal {
		return allowance.MealRateTable{}, fmt.Errorf("%w: expected kind %q, got %q", generic.ErrInvalidRateSchedule, KindMeal, rs.Kind)
	}
	entries := make([]allowance.MealRates, 0, len(rs.Entries))
	for _, e := range rs.Entries {
		from, err := generic.ParseDate(e.EffectiveFrom)
		if err != nil {
			return allowance.MealRateTable{}, fmt.Errorf("%w: %v", generic.ErrInvalidRateSchedule, err)
		}
		small, err := parseAmount("small", e.Small)
		if err != nil {
			return allowance.MealRateTable{}, err
		}
		large, err := parseAmount("large", e.Large)
		if err != nil {
			return allowance.MealRateTable{}, err
		}
		entries = append(entries, allowance.MealRates{EffectiveFrom: from, Small: small, Large: large})
	}
	return allowance.NewMealRateTable(entries)
}

// FromPerDiemTable converts a table back to JSON form.
func (f *RateFactory) FromPerDiemTable(t allowance.PerDiemRateTable) RateScheduleJSON {
	rs := RateScheduleJSON{Kind: KindPerDiem}
	for _, e := range t.Entries() {
		rs.Entries = append(rs.Entries, RateEntryJSON{
			EffectiveFrom: generic.FormatDate(e.EffectiveFrom),
			Rate:          e.Rate.StringFixed(2),
		})
	}
	return rs
}

func (f *RateFactory) FromMealTable(t allowance.MealRateTable) RateScheduleJSON {
	rs := RateScheduleJSON{Kind: KindMeal}
	for _, e := range t.Entries() {
		rs.Entries = append(rs.Entries, RateEntryJSON{
			EffectiveFrom: generic.FormatDate(e.EffectiveFrom),
			Small:         e.Small.StringFixed(2),
			Large:         e.Large.StringFixed(2),
		})
	}
	return rs
}

// Marshal renders a schedule as a JSON string.
func (f *RateFactory) Marshal(rs RateScheduleJSON) (string, error) {
	b, err := json.Marshal(rs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// =============================================================================
// LOADING FROM A STORE
// =============================================================================

// LoadRates returns the latest stored schedules, using the built-in default
// for a kind that has never been stored.
func (f *RateFactory) LoadRates(ctx context.Context, store generic.RateStore) (allowance.PerDiemRateTable, allowance.MealRateTable, error) {
	perDiem := allowance.DefaultPerDiemRates()
	meal := allowance.DefaultMealRates()

	rec, err := store.LatestRateSchedule(ctx, KindPerDiem)
	switch {
	case err == nil:
		rs, err := f.Parse(rec.ConfigJSON)
		if err != nil {
			return perDiem, meal, err
		}
		if perDiem, err = f.PerDiemTable(rs); err != nil {
			return perDiem, meal, err
		}
	case !errors.Is(err, generic.ErrRateScheduleNotFound):
		return perDiem, meal, err
	}

	rec, err = store.LatestRateSchedule(ctx, KindMeal)
	switch {
	case err == nil:
		rs, err := f.Parse(rec.ConfigJSON)
		if err != nil {
			return perDiem, meal, err
		}
		if meal, err = f.MealTable(rs); err != nil {
			return perDiem, meal, err
		}
	case !errors.Is(err, generic.ErrRateScheduleNotFound):
		return perDiem, meal, err
	}

	return perDiem, meal, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: missing %s", generic.ErrInvalidRateSchedule, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a decimal", generic.ErrInvalidRateSchedule, field, s)
	}
	return d, nil
}
