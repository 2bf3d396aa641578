package allowance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// RATE RESOLVERS - Injected strategies, keyed by month
// =============================================================================

// PerDiemRateResolver returns the price of one per-diem point in a month.
type PerDiemRateResolver interface {
	RateFor(year int, month time.Month) decimal.Decimal
}

// MealRateResolver returns the meal-allowance point prices in a month.
type MealRateResolver interface {
	RatesFor(year int, month time.Month) MealRates
}

// =============================================================================
// PER-DIEM RATE TABLE
// =============================================================================

// PerDiemRate is the per-point price effective from a date.
type PerDiemRate struct {
	EffectiveFrom time.Time
	Rate          decimal.Decimal
}

// PerDiemRateTable resolves the rate effective on the first of a month.
// Months before the first entry use the first entry.
type PerDiemRateTable struct {
	entries []PerDiemRate
}

var _ PerDiemRateResolver = PerDiemRateTable{}

// NewPerDiemRateTable copies and orders entries. A table must have at least
// one entry and no negative rate.
func NewPerDiemRateTable(entries []PerDiemRate) (PerDiemRateTable, error) {
	if len(entries) == 0 {
		return PerDiemRateTable{}, fmt.Errorf("%w: per-diem table has no entries", generic.ErrInvalidRateSchedule)
	}
	sorted := append([]PerDiemRate(nil), entries...)
	for _, e := range sorted {
		if e.Rate.IsNegative() {
			return PerDiemRateTable{}, fmt.Errorf("%w: negative per-diem rate from %s", generic.ErrInvalidRateSchedule, generic.FormatDate(e.EffectiveFrom))
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom) })
	return PerDiemRateTable{entries: sorted}, nil
}

func (t PerDiemRateTable) RateFor(year int, month time.Month) decimal.Decimal {
	if len(t.entries) == 0 {
		return decimal.Zero
	}
	at := generic.StartOfMonth(year, month)
	rate := t.entries[0].Rate
	for _, e := range t.entries {
		if e.EffectiveFrom.After(at) {
			break
		}
		rate = e.Rate
	}
	return rate
}

// Entries returns the table's entries in effective order.
func (t PerDiemRateTable) Entries() []PerDiemRate {
	return append([]PerDiemRate(nil), t.entries...)
}

// =============================================================================
// MEAL RATE TABLE
// =============================================================================

// MealRates are the small and large meal point prices effective from a date.
type MealRates struct {
	EffectiveFrom time.Time
	Small         decimal.Decimal
	Large         decimal.Decimal
}

// MealRateTable resolves the meal rates effective on the first of a month.
type MealRateTable struct {
	entries []MealRates
}

var _ MealRateResolver = MealRateTable{}

func NewMealRateTable(entries []MealRates) (MealRateTable, error) {
	if len(entries) == 0 {
		return MealRateTable{}, fmt.Errorf("%w: meal table has no entries", generic.ErrInvalidRateSchedule)
	}
	sorted := append([]MealRates(nil), entries...)
	for _, e := range sorted {
		if e.Small.IsNegative() || e.Large.IsNegative() {
			return MealRateTable{}, fmt.Errorf("%w: negative meal rate from %s", generic.ErrInvalidRateSchedule, generic.FormatDate(e.EffectiveFrom))
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom) })
	return MealRateTable{entries: sorted}, nil
}

func (t MealRateTable) RatesFor(year int, month time.Month) MealRates {
	if len(t.entries) == 0 {
		return MealRates{Small: decimal.Zero, Large: decimal.Zero}
	}
	at := generic.StartOfMonth(year, month)
	rates := t.entries[0]
	for _, e := range t.entries {
		if e.EffectiveFrom.After(at) {
			break
		}
		rates = e
	}
	return rates
}

func (t MealRateTable) Entries() []MealRates {
	return append([]MealRates(nil), t.entries...)
}

// =============================================================================
// DEFAULT SCHEDULES
// =============================================================================

// TierChangeDate is when the current rate schedule took effect.
var TierChangeDate = generic.NewDate(2024, time.September, 1)

// DefaultPerDiemRates returns the built-in per-diem schedule, used until a
// schedule is stored.
func DefaultPerDiemRates() PerDiemRateTable {
	t, _ := NewPerDiemRateTable([]PerDiemRate{
		{EffectiveFrom: generic.NewDate(2023, time.January, 1), Rate: decimal.RequireFromString("40.50")},
		{EffectiveFrom: TierChangeDate, Rate: decimal.RequireFromString("44.40")},
	})
	return t
}

// DefaultMealRates returns the built-in meal-allowance schedule.
func DefaultMealRates() MealRateTable {
	t, _ := NewMealRateTable([]MealRates{
		{
			EffectiveFrom: generic.NewDate(2023, time.January, 1),
			Small:         decimal.RequireFromString("16.20"),
			Large:         decimal.RequireFromString("32.40"),
		},
		{
			EffectiveFrom: TierChangeDate,
			Small:         decimal.RequireFromString("17.70"),
			Large:         decimal.RequireFromString("35.40"),
		},
	})
	return t
}
