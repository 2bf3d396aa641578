package factory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/factory"
	"github.com/warp/shift-pay/generic"
	"github.com/warp/shift-pay/generic/store"
)

const perDiemJSON = `{
	"kind": "per_diem",
	"entries": [
		{"effective_from": "2024-09-01", "rate": "44.40"},
		{"effective_from": "2025-01-01", "rate": "50.00"}
	]
}`

const mealJSON = `{
	"kind": "meal",
	"entries": [
		{"effective_from": "2024-09-01", "small": "17.70", "large": "35.40"}
	]
}`

func TestRateFactory_ParsePerDiem(t *testing.T) {
	f := factory.NewRateFactory()

	rs, err := f.Parse(perDiemJSON)
	require.NoError(t, err)
	assert.Equal(t, factory.KindPerDiem, rs.Kind)
	require.Len(t, rs.Entries, 2)

	table, err := f.PerDiemTable(rs)
	require.NoError(t, err)
	assert.Equal(t, "44.4", table.RateFor(2024, time.December).String())
	assert.Equal(t, "50", table.RateFor(2025, time.June).String())
}

func TestRateFactory_ParseMeal(t *testing.T) {
	f := factory.NewRateFactory()

	rs, err := f.Parse(mealJSON)
	require.NoError(t, err)

	table, err := f.MealTable(rs)
	require.NoError(t, err)
	rates := table.RatesFor(2025, time.January)
	assert.Equal(t, "17.7", rates.Small.String())
	assert.Equal(t, "35.4", rates.Large.String())
}

func TestRateFactory_ParseRejectsInvalid(t *testing.T) {
	f := factory.NewRateFactory()

	tests := []struct {
		name string
		json string
	}{
		{"malformed json", `{"kind":`},
		{"unknown kind", `{"kind":"bonus","entries":[{"effective_from":"2024-01-01","rate":"1"}]}`},
		{"no entries", `{"kind":"per_diem","entries":[]}`},
		{"bad date", `{"kind":"per_diem","entries":[{"effective_from":"2024-13-01","rate":"1"}]}`},
		{"missing rate", `{"kind":"per_diem","entries":[{"effective_from":"2024-01-01"}]}`},
		{"non-decimal rate", `{"kind":"per_diem","entries":[{"effective_from":"2024-01-01","rate":"lots"}]}`},
		{"negative rate", `{"kind":"per_diem","entries":[{"effective_from":"2024-01-01","rate":"-3"}]}`},
		{"meal missing large", `{"kind":"meal","entries":[{"effective_from":"2024-01-01","small":"1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Parse(tt.json)
			require.Error(t, err)
			assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestRateFactory_KindMismatch(t *testing.T) {
	f := factory.NewRateFactory()
	rs, err := f.Parse(mealJSON)
	require.NoError(t, err)

	_, err = f.PerDiemTable(rs)
	assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))
}

func TestRateFactory_DefaultsRoundTrip(t *testing.T) {
	// GIVEN: The built-in default tables
	// WHEN: Converting them to JSON and parsing them back
	// THEN: The same rates come out

	f := factory.NewRateFactory()

	perDiem := f.FromPerDiemTable(allowance.DefaultPerDiemRates())
	assert.Equal(t, factory.RateEntryJSON{EffectiveFrom: "2024-09-01", Rate: "44.40"}, perDiem.Entries[len(perDiem.Entries)-1])

	s, err := f.Marshal(perDiem)
	require.NoError(t, err)
	parsed, err := f.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, perDiem, parsed)

	meal := f.FromMealTable(allowance.DefaultMealRates())
	s, err = f.Marshal(meal)
	require.NoError(t, err)
	parsed, err = f.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, meal, parsed)
}

func TestRateFactory_LoadRates(t *testing.T) {
	ctx := context.Background()
	f := factory.NewRateFactory()
	mem := store.NewMemory()

	t.Run("defaults when nothing is stored", func(t *testing.T) {
		perDiem, meal, err := f.LoadRates(ctx, mem)
		require.NoError(t, err)
		assert.Equal(t, "44.4", perDiem.RateFor(2024, time.October).String())
		assert.Equal(t, "16.2", meal.RatesFor(2024, time.August).Small.String())
	})

	t.Run("latest stored version wins", func(t *testing.T) {
		_, err := mem.SaveRateSchedule(ctx, generic.RateScheduleRecord{Kind: factory.KindPerDiem, ConfigJSON: `{"kind":"per_diem","entries":[{"effective_from":"2024-01-01","rate":"1"}]}`})
		require.NoError(t, err)
		_, err = mem.SaveRateSchedule(ctx, generic.RateScheduleRecord{Kind: factory.KindPerDiem, ConfigJSON: perDiemJSON})
		require.NoError(t, err)

		perDiem, meal, err := f.LoadRates(ctx, mem)
		require.NoError(t, err)
		assert.Equal(t, "50", perDiem.RateFor(2025, time.February).String())
		assert.Equal(t, "17.7", meal.RatesFor(2025, time.February).Small.String(), "meal still on defaults")
	})

	t.Run("corrupt stored schedule is an error", func(t *testing.T) {
		_, err := mem.SaveRateSchedule(ctx, generic.RateScheduleRecord{Kind: factory.KindMeal, ConfigJSON: `{"kind":"meal"}`})
		require.NoError(t, err)

		_, _, err = f.LoadRates(ctx, mem)
		assert.True(t, errors.Is(err, generic.ErrInvalidRateSchedule))
	})
}
