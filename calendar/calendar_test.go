package calendar_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/generic"
)

func newResolver() *calendar.HolidayResolver {
	return calendar.NewHolidayResolver(calendar.DefaultHolidayTable())
}

// =============================================================================
// HOLIDAY RESOLVER
// =============================================================================

func TestHolidayResolver_Literals(t *testing.T) {
	r := newResolver()

	tests := []struct {
		name    string
		weekday time.Weekday
		titles  []string
		want    calendar.DayType
	}{
		{"saturday", time.Saturday, nil, calendar.DaySpecialFull},
		{"friday", time.Friday, nil, calendar.DaySpecialPartialStart},
		{"friday yom kippur", time.Friday, []string{"Yom Kippur"}, calendar.DaySpecialFull},
		{"tuesday erev pesach", time.Tuesday, []string{"Erev Pesach"}, calendar.DaySpecialPartialStart},
		{"tuesday", time.Tuesday, nil, calendar.DayRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.weekday, tt.titles))
		})
	}
}

func TestHolidayResolver_PrefixesAndPartialTitles(t *testing.T) {
	r := newResolver()

	assert.Equal(t, calendar.DaySpecialFull, r.Resolve(time.Thursday, []string{"Rosh Hashana 5785"}))
	assert.Equal(t, calendar.DaySpecialFull, r.Resolve(time.Monday, []string{"Candle lighting", "Shmini Atzeret"}))
	assert.Equal(t, calendar.DaySpecialPartialStart, r.Resolve(time.Monday, []string{"Yom HaZikaron"}))
	assert.Equal(t, calendar.DaySpecialPartialStart, r.Resolve(time.Sunday, []string{"Sukkot VII (Hoshana Rabba)"}))
	assert.Equal(t, calendar.DaySpecialFull, r.Resolve(time.Saturday, []string{"Erev Pesach"}), "full wins over partial")
	assert.Equal(t, calendar.DayRegular, r.Resolve(time.Wednesday, []string{"Pesach III (CH''M)"}), "intermediate days are regular")
}

func TestHolidayResolver_InjectedTableIsCopied(t *testing.T) {
	// GIVEN: A custom table
	// WHEN: The caller mutates it after building the resolver
	// THEN: The resolver keeps the table it was built with

	table := calendar.HolidayTable{PaidHolidays: []string{"Founders Day"}}
	r := calendar.NewHolidayResolver(table)
	table.PaidHolidays[0] = "Something Else"

	assert.Equal(t, calendar.DaySpecialFull, r.Resolve(time.Tuesday, []string{"Founders Day"}))
	assert.Equal(t, calendar.DayRegular, r.Resolve(time.Tuesday, []string{"Yom Kippur"}), "not in the custom table")
}

func TestDayType_UnmarshalJSON(t *testing.T) {
	var dt calendar.DayType
	require.NoError(t, json.Unmarshal([]byte(`"special_full"`), &dt))
	assert.Equal(t, calendar.DaySpecialFull, dt)

	require.NoError(t, json.Unmarshal([]byte(`""`), &dt))
	assert.Equal(t, calendar.DayRegular, dt)

	assert.Error(t, json.Unmarshal([]byte(`"holiday"`), &dt))
}

// =============================================================================
// SPECIAL CLOCK
// =============================================================================

func TestSpecialClock_FollowsZoneDST(t *testing.T) {
	clock, err := calendar.NewSpecialClock(calendar.DefaultZone)
	require.NoError(t, err)

	summer := generic.MustParseDate("2024-07-12")
	winter := generic.MustParseDate("2024-01-12")

	assert.True(t, clock.IsDST(summer))
	assert.Equal(t, 18*60, clock.SpecialStart(summer))
	assert.Equal(t, 17*60, clock.EveningStart(summer))

	assert.False(t, clock.IsDST(winter))
	assert.Equal(t, 19*60, clock.SpecialStart(winter))
	assert.Equal(t, 18*60, clock.EveningStart(winter))
}

func TestSpecialClock_ZoneWithoutDST(t *testing.T) {
	clock, err := calendar.NewSpecialClock("UTC")
	require.NoError(t, err)

	assert.Equal(t, 19*60, clock.SpecialStart(generic.MustParseDate("2024-07-12")))
}

func TestSpecialClock_UnknownZone(t *testing.T) {
	_, err := calendar.NewSpecialClock("Nowhere/Atlantis")
	assert.Error(t, err)
}

// =============================================================================
// WORK DAYS
// =============================================================================

func TestWorkDaysBuilder_PesachApril2024(t *testing.T) {
	// GIVEN: April 2024 with Erev Pesach on Monday 22 and Pesach I on Tuesday 23
	// WHEN: Building the month's metas
	// THEN: Each day looks one day ahead for continuation

	b := calendar.NewWorkDaysBuilder(newResolver())
	events := generic.EventMap{
		"2024-04-22": {"Erev Pesach"},
		"2024-04-23": {"Pesach I"},
	}

	metas, err := b.Build(2024, time.April, events)
	require.NoError(t, err)
	require.Len(t, metas, 30)

	byDate := make(map[string]calendar.WorkDayMeta)
	for _, m := range metas {
		byDate[m.Date] = m
	}

	assert.Equal(t, calendar.WorkDayMeta{Date: "2024-04-21", TypeDay: calendar.DayRegular, CrossDayContinuation: false}, byDate["2024-04-21"])
	assert.Equal(t, calendar.WorkDayMeta{Date: "2024-04-22", TypeDay: calendar.DaySpecialPartialStart, CrossDayContinuation: true}, byDate["2024-04-22"])
	assert.Equal(t, calendar.WorkDayMeta{Date: "2024-04-23", TypeDay: calendar.DaySpecialFull, CrossDayContinuation: false}, byDate["2024-04-23"])
	assert.Equal(t, calendar.WorkDayMeta{Date: "2024-04-26", TypeDay: calendar.DaySpecialPartialStart, CrossDayContinuation: true}, byDate["2024-04-26"])
	assert.Equal(t, calendar.WorkDayMeta{Date: "2024-04-27", TypeDay: calendar.DaySpecialFull, CrossDayContinuation: false}, byDate["2024-04-27"])
}

func TestWorkDaysBuilder_LooksPastMonthEnd(t *testing.T) {
	b := calendar.NewWorkDaysBuilder(newResolver())

	// May 31 2024 is a Friday; June 1 is a Saturday
	may, err := b.Build(2024, time.May, nil)
	require.NoError(t, err)
	last := may[len(may)-1]
	assert.Equal(t, "2024-05-31", last.Date)
	assert.True(t, last.CrossDayContinuation)

	// September 30 2024 is a Monday; a holiday stored on October 1 counts
	sep, err := b.Build(2024, time.September, generic.EventMap{"2024-10-01": {"Yom Kippur"}})
	require.NoError(t, err)
	last = sep[len(sep)-1]
	assert.Equal(t, calendar.DayRegular, last.TypeDay)
	assert.True(t, last.CrossDayContinuation)
}

func TestWorkDaysBuilder_InvalidMonth(t *testing.T) {
	b := calendar.NewWorkDaysBuilder(newResolver())

	_, err := b.Build(2024, 13, nil)
	assert.True(t, errors.Is(err, generic.ErrInvalidMonth))
}

func TestWorkDaysBuilder_MetaForMatchesBuild(t *testing.T) {
	b := calendar.NewWorkDaysBuilder(newResolver())
	events := generic.EventMap{"2024-10-12": {"Yom Kippur"}}

	meta := b.MetaFor(generic.MustParseDate("2024-10-11"), events)

	assert.Equal(t, calendar.DaySpecialPartialStart, meta.TypeDay, "Friday")
	assert.True(t, meta.CrossDayContinuation)
	assert.False(t, meta.IsFullOverride())
}

func TestWorkDayMeta_IsFullOverride(t *testing.T) {
	tests := []struct {
		name string
		meta calendar.WorkDayMeta
		want bool
	}{
		{"full day", calendar.WorkDayMeta{TypeDay: calendar.DaySpecialFull}, true},
		{"full day continuing", calendar.WorkDayMeta{TypeDay: calendar.DaySpecialFull, CrossDayContinuation: true}, false},
		{"partial start", calendar.WorkDayMeta{TypeDay: calendar.DaySpecialPartialStart}, false},
		{"regular", calendar.WorkDayMeta{TypeDay: calendar.DayRegular}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.meta.IsFullOverride())
		})
	}
}

func TestWorkDayMeta_Validate(t *testing.T) {
	assert.NoError(t, calendar.WorkDayMeta{Date: "2024-01-01", TypeDay: calendar.DayRegular}.Validate())
	assert.True(t, errors.Is(calendar.WorkDayMeta{Date: "2024-13-01"}.Validate(), generic.ErrInvalidDate))
	assert.True(t, errors.Is(calendar.WorkDayMeta{Date: "2024-01-01", TypeDay: "holiday"}.Validate(), generic.ErrInvalidDayType))
}

func TestEventRange(t *testing.T) {
	from, to := calendar.EventRange(2024, time.February)

	assert.Equal(t, "2024-02-01", generic.FormatDate(from))
	assert.Equal(t, "2024-03-01", generic.FormatDate(to))
}

// =============================================================================
// MONTH INFO
// =============================================================================

func TestMonthInfo_Options(t *testing.T) {
	mi := calendar.NewMonthInfo(newResolver())
	now := time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

	opts := mi.Options(now, 3)

	require.Len(t, opts, 3)
	assert.Equal(t, calendar.MonthOption{Year: 2024, Month: 2, Label: "פברואר 2024"}, opts[0])
	assert.Equal(t, 1, opts[1].Month)
	assert.Equal(t, calendar.MonthOption{Year: 2023, Month: 12, Label: "דצמבר 2023"}, opts[2])
}

func TestMonthInfo_OptionsNonPositiveCount(t *testing.T) {
	mi := calendar.NewMonthInfo(newResolver())
	now := time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

	assert.Nil(t, mi.Options(now, 0))
	assert.NotPanics(t, func() { assert.Nil(t, mi.Options(now, -1)) })
}

func TestMonthInfo_IsSpecialFullDay(t *testing.T) {
	mi := calendar.NewMonthInfo(newResolver())
	events := generic.EventMap{"2024-04-23": {"Pesach I"}}

	assert.True(t, mi.IsSpecialFullDay(generic.MustParseDate("2024-04-23"), events))
	assert.True(t, mi.IsSpecialFullDay(generic.MustParseDate("2024-04-27"), events), "Saturday")
	assert.False(t, mi.IsSpecialFullDay(generic.MustParseDate("2024-04-26"), events), "Friday is partial")
	assert.Equal(t, "", mi.MonthName(13))
}
