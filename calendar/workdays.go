package calendar

import (
	"fmt"
	"time"

	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// WORK DAY META
// =============================================================================

// WorkDayMeta is the calendar context of one work day.
//
// CrossDayContinuation is true when the following calendar day is SpecialFull.
// It is only ever set by WorkDaysBuilder looking one day ahead; a day cannot
// know it about itself.
type WorkDayMeta struct {
	Date                 string  `json:"date"`
	TypeDay              DayType `json:"typeDay"`
	CrossDayContinuation bool    `json:"crossDayContinuation"`
}

// Time parses Date. A malformed date is a caller contract violation.
func (m WorkDayMeta) Time() (time.Time, error) {
	return generic.ParseDate(m.Date)
}

// Validate fails fast on a malformed date or unknown day type.
func (m WorkDayMeta) Validate() error {
	if _, err := m.Time(); err != nil {
		return err
	}
	if m.TypeDay != "" && !m.TypeDay.Valid() {
		return fmt.Errorf("%w: %q", generic.ErrInvalidDayType, m.TypeDay)
	}
	return nil
}

// IsFullOverride reports whether every hour of the day is paid at the top
// tier: a full special day whose shifts do not continue into another one.
func (m WorkDayMeta) IsFullOverride() bool {
	return m.TypeDay == DaySpecialFull && !m.CrossDayContinuation
}

// =============================================================================
// WORK DAYS BUILDER
// =============================================================================

// WorkDaysBuilder generates the metas of every day of a month.
type WorkDaysBuilder struct {
	holidays *HolidayResolver
}

func NewWorkDaysBuilder(holidays *HolidayResolver) *WorkDaysBuilder {
	return &WorkDaysBuilder{holidays: holidays}
}

// Build classifies every day of the month and sets CrossDayContinuation from
// the next day's classification. The day after the month's last day is
// classified from events too when the map covers it, and from its weekday
// alone otherwise.
func (b *WorkDaysBuilder) Build(year int, month time.Month, events generic.EventMap) ([]WorkDayMeta, error) {
	if err := generic.ValidateMonth(year, month); err != nil {
		return nil, err
	}

	days := generic.DaysInMonth(year, month)
	types := make([]DayType, len(days)+1)
	for i, d := range days {
		types[i] = b.holidays.ResolveDate(d, events.Titles(generic.FormatDate(d)))
	}
	next := days[len(days)-1].AddDate(0, 0, 1)
	types[len(days)] = b.holidays.ResolveDate(next, events.Titles(generic.FormatDate(next)))

	metas := make([]WorkDayMeta, len(days))
	for i, d := range days {
		metas[i] = WorkDayMeta{
			Date:                 generic.FormatDate(d),
			TypeDay:              types[i],
			CrossDayContinuation: types[i+1] == DaySpecialFull,
		}
	}
	return metas, nil
}

// MetaFor classifies a single date with the same look-ahead as Build.
func (b *WorkDaysBuilder) MetaFor(date time.Time, events generic.EventMap) WorkDayMeta {
	next := date.AddDate(0, 0, 1)
	return WorkDayMeta{
		Date:                 generic.FormatDate(date),
		TypeDay:              b.holidays.ResolveDate(date, events.Titles(generic.FormatDate(date))),
		CrossDayContinuation: b.holidays.ResolveDate(next, events.Titles(generic.FormatDate(next))) == DaySpecialFull,
	}
}

// EventRange returns the dates whose events Build reads for a month: the
// whole month plus the following day.
func EventRange(year int, month time.Month) (from, to time.Time) {
	return generic.StartOfMonth(year, month), generic.EndOfMonth(year, month).AddDate(0, 0, 1)
}
