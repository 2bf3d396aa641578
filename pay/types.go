/*
Package pay implements the shift, day and month pay calculation pipeline.

PURPOSE:
  Turns raw shift times plus calendar context into a structured breakdown of
  paid hours and allowances, and keeps a month total up to date as days are
  added, edited and removed.

PIPELINE:
  SegmentResolver  shift + day meta  -> labeled minute ranges
  tier calculators labeled ranges    -> extra / special / regular breakdowns
  ShiftBuilder     one shift         -> ShiftPayMap
  DayBuilder       shifts + status   -> WorkDayMap (with per-diem and meals)
  MonthReducer     WorkDayMaps       -> MonthPayMap (accumulate / subtract)

BREAKDOWNS:
  Regular  hours100 / hours125 / hours150   non-special hours, overtime tiers
  Extra    hours20 / hours50                evening and night premiums; an
                                            add-on that overlaps regular and
                                            special time on the clock
  Special  shabbat150 / shabbat200          Sabbath and holiday hours,
                                            disjoint from regular

PURITY:
  Every calculator is a pure function of its inputs. The month aggregate is
  the only mutable state and belongs to the caller, which must serialize
  writes to it.

SEE ALSO:
  - segments.go: Time-of-day labeling
  - tiers.go: Breakdown calculators and tiering policies
  - day.go: Day fold and non-working statuses
  - month.go, aggregate.go: Month reduction
*/
package pay

import (
	"encoding/json"
	"fmt"

	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// LABELED RANGES
// =============================================================================

// SegmentKey names the pay category of a labeled range.
type SegmentKey string

const (
	KeyHours100   SegmentKey = "hours100"
	KeyHours20    SegmentKey = "hours20"
	KeyHours50    SegmentKey = "hours50"
	KeyShabbat150 SegmentKey = "shabbat150"
	KeyShabbat200 SegmentKey = "shabbat200"
)

// LabeledRange is a sub-interval of a shift tagged with its pay category.
type LabeledRange struct {
	Key   SegmentKey          `json:"key"`
	Point generic.MinuteRange `json:"point"`
}

// =============================================================================
// BREAKDOWNS
// =============================================================================

// MidTier is the width of the 125% overtime band.
const MidTier = 2.0

type RegularBreakdown struct {
	Hours100 generic.Segment `json:"hours100"`
	Hours125 generic.Segment `json:"hours125"`
	Hours150 generic.Segment `json:"hours150"`
}

type ExtraBreakdown struct {
	Hours20 generic.Segment `json:"hours20"`
	Hours50 generic.Segment `json:"hours50"`
}

type SpecialBreakdown struct {
	Shabbat150 generic.Segment `json:"shabbat150"`
	Shabbat200 generic.Segment `json:"shabbat200"`
}

func EmptyRegular() RegularBreakdown {
	return RegularBreakdown{
		Hours100: generic.NewSegment(100, 0),
		Hours125: generic.NewSegment(125, 0),
		Hours150: generic.NewSegment(150, 0),
	}
}

func EmptyExtra() ExtraBreakdown {
	return ExtraBreakdown{
		Hours20: generic.NewSegment(20, 0),
		Hours50: generic.NewSegment(50, 0),
	}
}

func EmptySpecial() SpecialBreakdown {
	return SpecialBreakdown{
		Shabbat150: generic.NewSegment(150, 0),
		Shabbat200: generic.NewSegment(200, 0),
	}
}

// Breakdown reducers. Each one only names its fields; the arithmetic lives in
// generic.SegmentReducer.
var (
	RegularReducer = generic.NewSegmentReducer(EmptyRegular, func(b *RegularBreakdown) []*generic.Segment {
		return []*generic.Segment{&b.Hours100, &b.Hours125, &b.Hours150}
	})
	ExtraReducer = generic.NewSegmentReducer(EmptyExtra, func(b *ExtraBreakdown) []*generic.Segment {
		return []*generic.Segment{&b.Hours20, &b.Hours50}
	})
	SpecialReducer = generic.NewSegmentReducer(EmptySpecial, func(b *SpecialBreakdown) []*generic.Segment {
		return []*generic.Segment{&b.Shabbat150, &b.Shabbat200}
	})
	fixedReducer = generic.NewSegmentReducer(emptyFixed, func(s *generic.Segment) []*generic.Segment {
		return []*generic.Segment{s}
	})
)

func emptyFixed() generic.Segment { return generic.NewSegment(100, 0) }

// =============================================================================
// PAY MAPS
// =============================================================================

// ShiftPayMap is one shift's pay breakdown. It lives only for the duration of
// the day fold.
type ShiftPayMap struct {
	Regular      RegularBreakdown           `json:"regular"`
	Extra        ExtraBreakdown             `json:"extra"`
	Special      SpecialBreakdown           `json:"special"`
	TotalHours   float64                    `json:"totalHours"`
	PerDiemShift allowance.PerDiemShiftInfo `json:"perDiemShift"`
	Ranges       []LabeledRange             `json:"ranges,omitempty"`
}

// WorkMap is the worked-hours part of a day or month pay map.
type WorkMap struct {
	Regular    RegularBreakdown `json:"regular"`
	Extra      ExtraBreakdown   `json:"extra"`
	Special    SpecialBreakdown `json:"special"`
	TotalHours float64          `json:"totalHours"`
}

func EmptyWorkMap() WorkMap {
	return WorkMap{Regular: EmptyRegular(), Extra: EmptyExtra(), Special: EmptySpecial()}
}

// WorkDayMap is one day's pay map. It is rebuilt in full whenever any shift
// of the day changes.
type WorkDayMap struct {
	WorkMap          WorkMap                 `json:"workMap"`
	Hours100Sick     generic.Segment         `json:"hours100Sick"`
	Hours100Vacation generic.Segment         `json:"hours100Vacation"`
	Extra100Shabbat  generic.Segment         `json:"extra100Shabbat"`
	PerDiem          allowance.PerDiemDay    `json:"perDiem"`
	TotalHours       float64                 `json:"totalHours"`
	MealAllowance    allowance.MealAllowance `json:"mealAllowance"`
}

// EmptyWorkDayMap is the all-zero day.
func EmptyWorkDayMap() WorkDayMap {
	return WorkDayMap{
		WorkMap:          EmptyWorkMap(),
		Hours100Sick:     emptyFixed(),
		Hours100Vacation: emptyFixed(),
		Extra100Shabbat:  emptyFixed(),
		PerDiem:          allowance.PerDiemDay{DiemInfo: allowance.EmptyPerDiem()},
		MealAllowance:    allowance.EmptyMealAllowance(),
	}
}

// MonthPayMap has the shape of a WorkDayMap at month granularity. The
// per-diem never carries a tier; FieldDutyDays counts the field-duty days
// folded in.
type MonthPayMap struct {
	WorkMap          WorkMap                 `json:"workMap"`
	Hours100Sick     generic.Segment         `json:"hours100Sick"`
	Hours100Vacation generic.Segment         `json:"hours100Vacation"`
	Extra100Shabbat  generic.Segment         `json:"extra100Shabbat"`
	PerDiem          allowance.PerDiemInfo   `json:"perDiem"`
	FieldDutyDays    int                     `json:"fieldDutyDays"`
	TotalHours       float64                 `json:"totalHours"`
	MealAllowance    allowance.MealAllowance `json:"mealAllowance"`
}

// =============================================================================
// DAY STATUS
// =============================================================================

type DayStatus string

const (
	StatusNormal   DayStatus = "normal"
	StatusSick     DayStatus = "sick"
	StatusVacation DayStatus = "vacation"
)

func (s DayStatus) Valid() bool {
	switch s {
	case StatusNormal, StatusSick, StatusVacation:
		return true
	}
	return false
}

// ParseDayStatus maps an empty status to normal.
func ParseDayStatus(s string) (DayStatus, error) {
	if s == "" {
		return StatusNormal, nil
	}
	st := DayStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", generic.ErrInvalidStatus, s)
	}
	return st, nil
}

func (s *DayStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseDayStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// =============================================================================
// INPUTS
// =============================================================================

// ShiftInput is everything the shift builder needs for one shift.
type ShiftInput struct {
	Shift            generic.MinuteRange
	Meta             calendar.WorkDayMeta
	StandardHours    float64
	IsFieldDutyShift bool
}

// DayShift is one shift of a day as entered.
type DayShift struct {
	Shift       generic.MinuteRange `json:"shift"`
	IsFieldDuty bool                `json:"isFieldDuty"`
}

// DayInput is everything the day builder needs for one day.
type DayInput struct {
	Shifts        []DayShift
	Status        DayStatus
	Meta          calendar.WorkDayMeta
	StandardHours float64
}
