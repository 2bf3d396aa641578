package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// CLOCK PARSING
// =============================================================================

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:30", want: 510},
		{in: "22:00", want: 1320},
		{in: " 06:15 ", want: 375},
		{in: "24:00", want: 1440},
		{in: "24:01", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "8", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := generic.ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, generic.ErrInvalidClock))
				assert.True(t, generic.IsClientError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:05", generic.FormatClock(485))
	assert.Equal(t, "24:00", generic.FormatClock(1440))
	assert.Equal(t, "06:00", generic.FormatClock(1800), "wraps past midnight")
}

// =============================================================================
// SHIFT RANGES
// =============================================================================

func TestShiftRange_EndBeforeStartCrossesMidnight(t *testing.T) {
	// GIVEN: A night shift 22:00 -> 06:00
	// WHEN: Building its range
	// THEN: The end moves to the next day

	r := generic.ShiftRange(22*60, 6*60)

	assert.Equal(t, generic.MinuteRange{Start: 1320, End: 1800}, r)
	assert.Equal(t, 480, r.Minutes())
	assert.InDelta(t, 8.0, r.Hours(), 1e-9)
	assert.True(t, r.Valid())
}

func TestShiftRange_EqualEndsIsFullDay(t *testing.T) {
	r := generic.ShiftRange(480, 480)

	assert.Equal(t, generic.MinuteRange{Start: 480, End: 1920}, r)
	assert.True(t, r.Valid())
}

func TestParseShift(t *testing.T) {
	r, err := generic.ParseShift("07:00-15:30")
	require.NoError(t, err)
	assert.Equal(t, generic.MinuteRange{Start: 420, End: 930}, r)
	assert.Equal(t, "07:00-15:30", r.String())

	_, err = generic.ParseShift("07:00")
	assert.True(t, errors.Is(err, generic.ErrInvalidShift))

	_, err = generic.ParseShift("07:00-25:00")
	assert.True(t, errors.Is(err, generic.ErrInvalidClock))
}

func TestMinuteRange_Valid(t *testing.T) {
	assert.True(t, generic.MinuteRange{Start: 0, End: 1440}.Valid())
	assert.True(t, generic.MinuteRange{Start: 600, End: 600}.Valid(), "empty is well formed")
	assert.False(t, generic.MinuteRange{Start: 1440, End: 1500}.Valid(), "starts on the next day")
	assert.False(t, generic.MinuteRange{Start: -10, End: 50}.Valid())
	assert.False(t, generic.MinuteRange{Start: 100, End: 50}.Valid())
	assert.False(t, generic.MinuteRange{Start: 0, End: 1441}.Valid(), "longer than a day")
}

// =============================================================================
// DATES AND MONTHS
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-02-29", generic.FormatDate(d))
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"2024-02-30", "2024/02/01", "", "24-2-1"} {
		_, err := generic.ParseDate(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, generic.ErrInvalidDate), s)

		var dateErr *generic.InvalidDateError
		require.True(t, errors.As(err, &dateErr), s)
		assert.Equal(t, s, dateErr.Value)
	}
}

func TestMustParseDate_PanicsOnMalformed(t *testing.T) {
	assert.Panics(t, func() { generic.MustParseDate("not-a-date") })
	assert.NotPanics(t, func() { generic.MustParseDate("2025-01-31") })
}

func TestValidateMonth(t *testing.T) {
	assert.NoError(t, generic.ValidateMonth(2024, time.December))
	assert.True(t, errors.Is(generic.ValidateMonth(2024, 13), generic.ErrInvalidMonth))
	assert.True(t, errors.Is(generic.ValidateMonth(2024, 0), generic.ErrInvalidMonth))
}

func TestDaysInMonth(t *testing.T) {
	feb := generic.DaysInMonth(2024, time.February)
	require.Len(t, feb, 29)
	assert.Equal(t, "2024-02-01", generic.FormatDate(feb[0]))
	assert.Equal(t, "2024-02-29", generic.FormatDate(feb[28]))

	assert.Len(t, generic.DaysInMonth(2023, time.February), 28)
	assert.Equal(t, "2024-12-31", generic.FormatDate(generic.EndOfMonth(2024, time.December)))
}

// =============================================================================
// EVENT MAP
// =============================================================================

func TestEventMap_TitlesAndMerge(t *testing.T) {
	var empty generic.EventMap
	assert.Nil(t, empty.Titles("2024-04-23"))

	stored := generic.EventMap{
		"2024-04-22": {"Erev Pesach"},
		"2024-04-23": {"Pesach I"},
	}
	overlay := generic.EventMap{"2024-04-23": {"Custom"}}

	merged := stored.Merge(overlay)

	assert.Equal(t, []string{"Erev Pesach"}, merged.Titles("2024-04-22"))
	assert.Equal(t, []string{"Custom"}, merged.Titles("2024-04-23"))
	assert.Equal(t, []string{"Pesach I"}, stored.Titles("2024-04-23"), "receiver is unchanged")
}
