/*
Package calendar classifies calendar days for pay purposes.

PURPOSE:
  Turns a date, its weekday and the calendar source's event titles into the
  day context the pay calculators need: the day type, the special-start
  cutoff, and whether a shift may continue into a following special day
  without being split.

DAY TYPES:
  Regular:             an ordinary working day
  SpecialPartialStart: Friday or a holiday eve; premium tiers start at the
                       special-start cutoff and run to the end of the day
  SpecialFull:         Saturday or a paid holiday; every hour until the
                       special day ends is premium

RESOLUTION ORDER (first match wins):
  1. Saturday, a paid holiday, or a title starting with "Rosh Hashana"
  2. A title starting with "Erev", "Yom HaZikaron", "Sukkot VII (Hoshana
     Rabba)", or Friday
  3. Anything else

CONFIGURATION:
  The holiday names are data, passed to NewHolidayResolver as a
  HolidayTable. DefaultHolidayTable holds the titles the Hebcal feed uses.

SEE ALSO:
  - clock.go: DST-aware special-start cutoff
  - workdays.go: Month generation with one-day look-ahead
*/
package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DAY TYPE
// =============================================================================

type DayType string

const (
	DayRegular             DayType = "regular"
	DaySpecialPartialStart DayType = "special_partial_start"
	DaySpecialFull         DayType = "special_full"
)

func (t DayType) Valid() bool {
	switch t {
	case DayRegular, DaySpecialPartialStart, DaySpecialFull:
		return true
	}
	return false
}

// UnmarshalJSON accepts only the known day types; an empty string is Regular.
func (t *DayType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = DayRegular
		return nil
	}
	dt := DayType(s)
	if !dt.Valid() {
		return fmt.Errorf("unknown day type %q", s)
	}
	*t = dt
	return nil
}

// =============================================================================
// HOLIDAY TABLE
// =============================================================================

// HolidayTable lists the event titles that drive day classification.
type HolidayTable struct {
	// PaidHolidays are exact titles of full paid holidays.
	PaidHolidays []string

	// FullPrefixes mark full holidays by title prefix.
	FullPrefixes []string

	// EvePrefixes mark partial days by title prefix.
	EvePrefixes []string

	// PartialTitles are exact titles of partial days.
	PartialTitles []string
}

// DefaultHolidayTable returns the Israeli paid-holiday table.
func DefaultHolidayTable() HolidayTable {
	return HolidayTable{
		PaidHolidays: []string{
			"Pesach I",
			"Pesach VII",
			"Shavuot",
			"Shavuot I",
			"Yom Kippur",
			"Sukkot I",
			"Shmini Atzeret",
			"Yom HaAtzma'ut",
		},
		FullPrefixes:  []string{"Rosh Hashana"},
		EvePrefixes:   []string{"Erev"},
		PartialTitles: []string{"Yom HaZikaron", "Sukkot VII (Hoshana Rabba)"},
	}
}

// =============================================================================
// HOLIDAY RESOLVER
// =============================================================================

// HolidayResolver classifies days. It holds a private copy of its table.
type HolidayResolver struct {
	paid         map[string]struct{}
	partial      map[string]struct{}
	fullPrefixes []string
	evePrefixes  []string
}

func NewHolidayResolver(table HolidayTable) *HolidayResolver {
	r := &HolidayResolver{
		paid:         make(map[string]struct{}, len(table.PaidHolidays)),
		partial:      make(map[string]struct{}, len(table.PartialTitles)),
		fullPrefixes: append([]string(nil), table.FullPrefixes...),
		evePrefixes:  append([]string(nil), table.EvePrefixes...),
	}
	for _, t := range table.PaidHolidays {
		r.paid[t] = struct{}{}
	}
	for _, t := range table.PartialTitles {
		r.partial[t] = struct{}{}
	}
	return r
}

// Resolve classifies a day from its weekday and event titles.
func (r *HolidayResolver) Resolve(weekday time.Weekday, titles []string) DayType {
	if weekday == time.Saturday || r.anyFull(titles) {
		return DaySpecialFull
	}
	if weekday == time.Friday || r.anyPartial(titles) {
		return DaySpecialPartialStart
	}
	return DayRegular
}

// ResolveDate classifies date using its own weekday.
func (r *HolidayResolver) ResolveDate(date time.Time, titles []string) DayType {
	return r.Resolve(date.Weekday(), titles)
}

func (r *HolidayResolver) anyFull(titles []string) bool {
	for _, title := range titles {
		if _, ok := r.paid[title]; ok {
			return true
		}
		if hasAnyPrefix(title, r.fullPrefixes) {
			return true
		}
	}
	return false
}

func (r *HolidayResolver) anyPartial(titles []string) bool {
	for _, title := range titles {
		if _, ok := r.partial[title]; ok {
			return true
		}
		if hasAnyPrefix(title, r.evePrefixes) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
