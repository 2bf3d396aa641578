package allowance_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/generic"
)

var ten = decimal.NewFromInt(10)

func fieldDuty(hours float64) allowance.PerDiemShiftInfo {
	return allowance.PerDiemShiftInfo{IsFieldDutyShift: true, Hours: hours}
}

// =============================================================================
// PER-DIEM
// =============================================================================

func TestCalculateDay_Tiers(t *testing.T) {
	tests := []struct {
		hours  float64
		tier   allowance.PerDiemTier
		points int
		amount string
	}{
		{hours: 3.9, tier: allowance.TierNone, points: 0, amount: "0"},
		{hours: 4, tier: allowance.TierA, points: 1, amount: "10"},
		{hours: 7.9, tier: allowance.TierA, points: 1, amount: "10"},
		{hours: 8, tier: allowance.TierB, points: 2, amount: "20"},
		{hours: 11.99, tier: allowance.TierB, points: 2, amount: "20"},
		{hours: 12, tier: allowance.TierC, points: 3, amount: "30"},
		{hours: 16, tier: allowance.TierC, points: 3, amount: "30"},
	}

	for _, tt := range tests {
		day := allowance.CalculateDay([]allowance.PerDiemShiftInfo{fieldDuty(tt.hours)}, ten)

		assert.True(t, day.IsFieldDutyDay, "%v hours", tt.hours)
		assert.Equal(t, tt.tier, day.DiemInfo.Tier, "%v hours", tt.hours)
		assert.Equal(t, tt.points, day.DiemInfo.Points, "%v hours", tt.hours)
		assert.Equal(t, tt.amount, day.DiemInfo.Amount.String(), "%v hours", tt.hours)
	}
}

func TestCalculateDay_NoFieldDutyShift(t *testing.T) {
	// GIVEN: Twelve hours of ordinary shifts
	// WHEN: Calculating the day's per-diem
	// THEN: Nothing is earned regardless of hours

	day := allowance.CalculateDay([]allowance.PerDiemShiftInfo{{Hours: 12}}, ten)

	assert.False(t, day.IsFieldDutyDay)
	assert.Equal(t, allowance.TierNone, day.DiemInfo.Tier)
	assert.Equal(t, 0, day.DiemInfo.Points)
	assert.True(t, day.DiemInfo.Amount.IsZero())
}

func TestCalculateDay_OnlyFieldDutyHoursCount(t *testing.T) {
	shifts := []allowance.PerDiemShiftInfo{
		fieldDuty(3),
		{Hours: 9},
		fieldDuty(2),
	}

	day := allowance.CalculateDay(shifts, ten)

	assert.True(t, day.IsFieldDutyDay)
	assert.Equal(t, allowance.TierA, day.DiemInfo.Tier)
	assert.InDelta(t, 5.0, allowance.FieldDutyHours(shifts), 1e-9)
}

func TestCalculateShift(t *testing.T) {
	info := allowance.CalculateShift(generic.ShiftRange(22*60, 6*60), true)
	assert.True(t, info.IsFieldDutyShift)
	assert.InDelta(t, 8.0, info.Hours, 1e-9)

	inverted := allowance.CalculateShift(generic.MinuteRange{Start: 600, End: 500}, false)
	assert.Equal(t, 0.0, inverted.Hours)
}

func TestPerDiemTier_JSON(t *testing.T) {
	b, err := json.Marshal(allowance.PerDiemInfo{Tier: allowance.TierNone, Amount: decimal.Zero})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tier":null`)

	var tier allowance.PerDiemTier
	require.NoError(t, json.Unmarshal([]byte(`"B"`), &tier))
	assert.Equal(t, allowance.TierB, tier)
	assert.Error(t, json.Unmarshal([]byte(`"Z"`), &tier))
}

func TestPerDiemReducer_RoundTrip(t *testing.T) {
	var r allowance.PerDiemReducer
	a := allowance.CalculateDay([]allowance.PerDiemShiftInfo{fieldDuty(8)}, ten).DiemInfo
	b := allowance.CalculateDay([]allowance.PerDiemShiftInfo{fieldDuty(12)}, ten).DiemInfo

	sum := r.Accumulate(r.Accumulate(r.Empty(), a), b)
	assert.Equal(t, allowance.TierNone, sum.Tier, "month totals carry no tier")
	assert.Equal(t, 5, sum.Points)
	assert.Equal(t, "50", sum.Amount.String())

	back := r.Subtract(r.Subtract(sum, a), b)
	assert.Equal(t, 0, back.Points)
	assert.True(t, back.Amount.IsZero())

	clamped := r.Subtract(back, a)
	assert.Equal(t, 0, clamped.Points)
	assert.True(t, clamped.Amount.IsZero())
}

// =============================================================================
// MEAL ALLOWANCE
// =============================================================================

func TestClassifyMealDay(t *testing.T) {
	morning := allowance.ClassifyMealDay(8, 0, 0, false)
	assert.True(t, morning.HasMorning)
	assert.False(t, morning.HasNight)

	night := allowance.ClassifyMealDay(8, 8, 0, false)
	assert.False(t, night.HasMorning, "8 / 8 < 2")
	assert.True(t, night.HasNight)

	double := allowance.ClassifyMealDay(16, 4, 2, false)
	assert.True(t, double.HasMorning, "16 / 6 >= 2")
	assert.True(t, double.HasNight, "Sabbath night hours count as night")
}

func TestMealAllowanceResolver(t *testing.T) {
	rates := allowance.MealRates{Small: decimal.RequireFromString("17.70"), Large: decimal.RequireFromString("35.40")}
	var res allowance.MealAllowanceResolver

	t.Run("no hours earns nothing", func(t *testing.T) {
		got := res.Resolve(allowance.ClassifyMealDay(0, 0, 0, false), rates)
		assert.Equal(t, 0, got.Small.Points)
		assert.Equal(t, 0, got.Large.Points)
	})

	t.Run("morning earns a small meal", func(t *testing.T) {
		got := res.Resolve(allowance.ClassifyMealDay(9, 0, 0, false), rates)
		assert.Equal(t, 1, got.Small.Points)
		assert.Equal(t, "17.7", got.Small.Amount.String())
		assert.Equal(t, 0, got.Large.Points)
	})

	t.Run("field duty morning is covered by per-diem", func(t *testing.T) {
		got := res.Resolve(allowance.ClassifyMealDay(9, 0, 0, true), rates)
		assert.Equal(t, 0, got.Small.Points)
	})

	t.Run("night earns a large meal", func(t *testing.T) {
		got := res.Resolve(allowance.ClassifyMealDay(8, 7, 0, true), rates)
		assert.Equal(t, 0, got.Small.Points)
		assert.Equal(t, 1, got.Large.Points)
		assert.Equal(t, "35.4", got.Large.Amount.String())
	})
}

func TestMealAllowanceReducer_SubtractClamps(t *testing.T) {
	var r allowance.MealAllowanceReducer
	one := allowance.MealAllowance{
		Small: allowance.MealAllowanceEntry{Points: 1, Amount: decimal.NewFromInt(10)},
		Large: allowance.MealAllowanceEntry{Amount: decimal.Zero},
	}

	sum := r.Accumulate(r.Empty(), one)
	assert.Equal(t, 1, sum.Small.Points)

	got := r.Subtract(r.Subtract(sum, one), one)
	assert.Equal(t, 0, got.Small.Points)
	assert.True(t, got.Small.Amount.IsZero())
}

// =============================================================================
// RATE TABLES
// =============================================================================

func TestDefaultPerDiemRates_ChangeOnSeptember2024(t *testing.T) {
	rates := allowance.DefaultPerDiemRates()

	assert.Equal(t, "40.5", rates.RateFor(2024, time.August).String())
	assert.Equal(t, "44.4", rates.RateFor(2024, time.September).String())
	assert.Equal(t, "44.4", rates.RateFor(2026, time.March).String())
	assert.Equal(t, "40.5", rates.RateFor(2019, time.January).String(), "before the first entry")
}

func TestDefaultMealRates_ChangeOnSeptember2024(t *testing.T) {
	rates := allowance.DefaultMealRates()

	aug := rates.RatesFor(2024, time.August)
	assert.Equal(t, "16.2", aug.Small.String())
	assert.Equal(t, "32.4", aug.Large.String())

	sep := rates.RatesFor(2024, time.September)
	assert.Equal(t, "17.7", sep.Small.String())
	assert.Equal(t, "35.4", sep.Large.String())
}

func TestNewPerDiemRateTable_Validation(t *testing.T) {
	_, err := allowance.NewPerDiemRateTable(nil)
	assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))

	_, err = allowance.NewPerDiemRateTable([]allowance.PerDiemRate{
		{EffectiveFrom: generic.NewDate(2024, time.January, 1), Rate: decimal.NewFromInt(-1)},
	})
	assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))
}

func TestNewPerDiemRateTable_OrdersEntries(t *testing.T) {
	table, err := allowance.NewPerDiemRateTable([]allowance.PerDiemRate{
		{EffectiveFrom: generic.NewDate(2025, time.March, 1), Rate: decimal.NewFromInt(50)},
		{EffectiveFrom: generic.NewDate(2024, time.January, 1), Rate: decimal.NewFromInt(40)},
	})
	require.NoError(t, err)

	assert.Equal(t, "40", table.RateFor(2025, time.February).String())
	assert.Equal(t, "50", table.RateFor(2025, time.March).String())

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-01", generic.FormatDate(entries[0].EffectiveFrom))
}

func TestNewMealRateTable_Validation(t *testing.T) {
	_, err := allowance.NewMealRateTable(nil)
	assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))

	_, err = allowance.NewMealRateTable([]allowance.MealRates{
		{EffectiveFrom: generic.NewDate(2024, time.January, 1), Small: decimal.NewFromInt(1), Large: decimal.NewFromInt(-2)},
	})
	assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))
}
