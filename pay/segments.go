package pay

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/generic"
)

// Fixed time-of-day boundaries, in minutes.
const (
	nightEnd      = 6 * generic.MinutesPerHour  // 06:00
	afternoonFrom = 14 * generic.MinutesPerHour // 14:00
	nightStart    = 22 * generic.MinutesPerHour // 22:00
)

// =============================================================================
// SEGMENT RESOLVER
// =============================================================================

// SegmentResolver partitions a shift into labeled ranges.
//
// Boundaries, repeated for the shift's day and the next one:
//
//	06:00  end of night
//	14:00  day -> afternoon
//	E      evening premium starts (one hour before S)
//	S      special start: 18:00 in summer, 19:00 in winter
//	22:00  night starts
//	24:00  day change
//
// A minute is special (Sabbath/holiday time) on a full day before S, on a
// partial day from S on, and past midnight until the next day's S when the
// next day is full. Special minutes are shabbat200 at night and shabbat150
// otherwise; other minutes are hours50 at night, hours20 from E to 22:00,
// and hours100 otherwise.
type SegmentResolver struct {
	clock calendar.SpecialClock
}

func NewSegmentResolver(clock calendar.SpecialClock) *SegmentResolver {
	return &SegmentResolver{clock: clock}
}

// Resolve returns ranges that are contiguous, non-overlapping and span
// exactly [shift.Start, shift.End).
func (r *SegmentResolver) Resolve(shift generic.MinuteRange, meta calendar.WorkDayMeta) ([]LabeledRange, error) {
	if shift.IsEmpty() {
		return nil, nil
	}
	if !shift.Valid() {
		return nil, fmt.Errorf("%w: %s", generic.ErrInvalidShift, shift)
	}
	date, err := meta.Time()
	if err != nil {
		return nil, err
	}

	day := r.dayContext(date, meta)
	bounds := day.boundariesWithin(shift)

	ranges := make([]LabeledRange, 0, len(bounds)+1)
	from := shift.Start
	for _, b := range bounds {
		ranges = append(ranges, LabeledRange{Key: day.label(from), Point: generic.MinuteRange{Start: from, End: b}})
		from = b
	}
	ranges = append(ranges, LabeledRange{Key: day.label(from), Point: generic.MinuteRange{Start: from, End: shift.End}})
	return ranges, nil
}

// =============================================================================
// DAY CONTEXT
// =============================================================================

type cutoffs struct {
	evening int
	special int
}

type dayContext struct {
	typeDay      calendar.DayType
	continuation bool
	days         [2]cutoffs // shift day, next day
}

func (r *SegmentResolver) dayContext(date time.Time, meta calendar.WorkDayMeta) dayContext {
	next := date.AddDate(0, 0, 1)
	return dayContext{
		typeDay:      meta.TypeDay,
		continuation: meta.CrossDayContinuation,
		days: [2]cutoffs{
			{evening: r.clock.EveningStart(date), special: r.clock.SpecialStart(date)},
			{evening: r.clock.EveningStart(next), special: r.clock.SpecialStart(next)},
		},
	}
}

func (c dayContext) boundariesWithin(shift generic.MinuteRange) []int {
	seen := make(map[int]struct{})
	var bounds []int
	for i, cut := range c.days {
		offset := i * generic.MinutesPerDay
		for _, b := range []int{nightEnd, afternoonFrom, cut.evening, cut.special, nightStart, generic.MinutesPerDay} {
			m := offset + b
			if m <= shift.Start || m >= shift.End {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			bounds = append(bounds, m)
		}
	}
	sort.Ints(bounds)
	return bounds
}

func (c dayContext) isSpecial(m int) bool {
	if m < generic.MinutesPerDay {
		switch c.typeDay {
		case calendar.DaySpecialFull:
			return m < c.days[0].special || c.continuation
		case calendar.DaySpecialPartialStart:
			return m >= c.days[0].special
		}
		return false
	}
	return c.continuation && m-generic.MinutesPerDay < c.days[1].special
}

// label returns the pay category of minute m. Labels are constant between
// consecutive boundaries, so labeling a range by its first minute is exact.
func (c dayContext) label(m int) SegmentKey {
	tod := m % generic.MinutesPerDay
	night := tod < nightEnd || tod >= nightStart

	if c.isSpecial(m) {
		if night {
			return KeyShabbat200
		}
		return KeyShabbat150
	}
	if night {
		return KeyHours50
	}
	if tod >= c.days[m/generic.MinutesPerDay].evening {
		return KeyHours20
	}
	return KeyHours100
}
