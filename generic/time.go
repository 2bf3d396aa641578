package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// MINUTES OF DAY - Shift times (this IS a time-of-day system)
// =============================================================================

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// DateLayout is the yyyy-MM-dd layout every date key in the engine uses.
const DateLayout = "2006-01-02"

// MinuteRange is a half-open interval [Start, End) in minutes from the
// midnight that starts the work day. End may exceed MinutesPerDay when the
// interval crosses into the next calendar day.
type MinuteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r MinuteRange) Minutes() int   { return r.End - r.Start }
func (r MinuteRange) Hours() float64 { return MinutesToHours(r.Minutes()) }
func (r MinuteRange) IsEmpty() bool  { return r.End <= r.Start }

// Valid reports whether r is a well-formed shift: non-negative start within
// the day and an end no more than one day after it.
func (r MinuteRange) Valid() bool {
	return r.Start >= 0 && r.Start < MinutesPerDay && r.End >= r.Start && r.End-r.Start <= MinutesPerDay
}

func (r MinuteRange) String() string {
	return FormatClock(r.Start) + "-" + FormatClock(r.End)
}

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*MinutesPerHour + m, nil
}

// FormatClock renders minutes as "HH:MM", wrapping past midnight.
func FormatClock(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	if minutes == MinutesPerDay {
		return "24:00"
	}
	return fmt.Sprintf("%02d:%02d", m/MinutesPerHour, m%MinutesPerHour)
}

// ShiftRange builds a MinuteRange from clock minutes. An end at or before the
// start means the shift ends on the next calendar day.
func ShiftRange(start, end int) MinuteRange {
	if end <= start {
		end += MinutesPerDay
	}
	return MinuteRange{Start: start, End: end}
}

// ParseShift parses "HH:MM-HH:MM" into a MinuteRange.
func ParseShift(s string) (MinuteRange, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return MinuteRange{}, fmt.Errorf("%w: %q", ErrInvalidShift, s)
	}
	start, err := ParseClock(from)
	if err != nil {
		return MinuteRange{}, err
	}
	end, err := ParseClock(to)
	if err != nil {
		return MinuteRange{}, err
	}
	return ShiftRange(start, end), nil
}

// =============================================================================
// DATES
// =============================================================================

// ParseDate parses a yyyy-MM-dd date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: s, Err: err}
	}
	return t, nil
}

// MustParseDate is ParseDate for dates that are known to be well formed.
// A malformed date is a programming error and panics.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// NewDate returns midnight UTC of the given calendar day.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ValidateMonth fails fast on month numbers outside 1..12.
func ValidateMonth(year int, month time.Month) error {
	if month < time.January || month > time.December || year < 1 {
		return fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, year, int(month))
	}
	return nil
}

func StartOfMonth(year int, month time.Month) time.Time { return NewDate(year, month, 1) }

func EndOfMonth(year int, month time.Month) time.Time {
	return NewDate(year, month+1, 1).AddDate(0, 0, -1)
}

// DaysInMonth returns every date of the month in order.
func DaysInMonth(year int, month time.Month) []time.Time {
	end := EndOfMonth(year, month)
	days := make([]time.Time, 0, end.Day())
	for d := StartOfMonth(year, month); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
