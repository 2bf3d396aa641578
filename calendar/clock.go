package calendar

import (
	"time"
	_ "time/tzdata" // Asia/Jerusalem must resolve on hosts without a zoneinfo database

	"github.com/warp/shift-pay/generic"
)

// DefaultZone is the zone whose clock changes move the special-start cutoff.
const DefaultZone = "Asia/Jerusalem"

const (
	specialStartSummer = 18 * generic.MinutesPerHour
	specialStartWinter = 19 * generic.MinutesPerHour
)

// SpecialClock derives the time-of-day cutoffs that depend on daylight
// saving time. The DST state comes from the IANA rules of the zone on the
// date itself, not from the host's local offset.
type SpecialClock struct {
	loc *time.Location
}

// NewSpecialClock loads zone. An empty zone means DefaultZone.
func NewSpecialClock(zone string) (SpecialClock, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return SpecialClock{}, err
	}
	return SpecialClock{loc: loc}, nil
}

// DefaultSpecialClock returns the clock for DefaultZone.
func DefaultSpecialClock() SpecialClock {
	c, err := NewSpecialClock(DefaultZone)
	if err != nil {
		// embedded tzdata makes this unreachable
		panic(err)
	}
	return c
}

// IsDST reports whether date's noon falls in daylight saving time.
func (c SpecialClock) IsDST(date time.Time) bool {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc).IsDST()
}

// SpecialStart returns the minute of day at which premium time starts on a
// partial day and ends on a full day: 18:00 in summer, 19:00 in winter.
func (c SpecialClock) SpecialStart(date time.Time) int {
	if c.IsDST(date) {
		return specialStartSummer
	}
	return specialStartWinter
}

// EveningStart returns the minute the evening premium starts, one hour
// before SpecialStart.
func (c SpecialClock) EveningStart(date time.Time) int {
	return c.SpecialStart(date) - generic.MinutesPerHour
}
