package pay

import (
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// EXTRA / SPECIAL - Purely additive over labeled ranges
// =============================================================================

// CalculateExtra sums the evening and night premium ranges.
func CalculateExtra(ranges []LabeledRange) ExtraBreakdown {
	minutes := minutesByKey(ranges)
	out := EmptyExtra()
	out.Hours20 = out.Hours20.WithHours(generic.MinutesToHours(minutes[KeyHours20]))
	out.Hours50 = out.Hours50.WithHours(generic.MinutesToHours(minutes[KeyHours50]))
	return out
}

// CalculateSpecial sums the Sabbath and holiday ranges.
func CalculateSpecial(ranges []LabeledRange) SpecialBreakdown {
	minutes := minutesByKey(ranges)
	out := EmptySpecial()
	out.Shabbat150 = out.Shabbat150.WithHours(generic.MinutesToHours(minutes[KeyShabbat150]))
	out.Shabbat200 = out.Shabbat200.WithHours(generic.MinutesToHours(minutes[KeyShabbat200]))
	return out
}

func minutesByKey(ranges []LabeledRange) map[SegmentKey]int {
	out := make(map[SegmentKey]int, 5)
	for _, r := range ranges {
		out[r.Key] += r.Point.Minutes()
	}
	return out
}

// =============================================================================
// REGULAR - Overtime tiering policies
// =============================================================================

// RegularInput is the volume and day context a tiering policy needs.
type RegularInput struct {
	TotalHours           float64
	StandardHours        float64
	TypeDay              calendar.DayType
	CrossDayContinuation bool
}

func (in RegularInput) fullOverride() bool {
	return calendar.WorkDayMeta{TypeDay: in.TypeDay, CrossDayContinuation: in.CrossDayContinuation}.IsFullOverride()
}

// RegularTieringPolicy splits regular hours into the 100/125/150 tiers.
// Callers pick the policy: ByShift when each shift is tiered on its own,
// ByDay when the day's total is tiered.
type RegularTieringPolicy func(in RegularInput) RegularBreakdown

var (
	_ RegularTieringPolicy = ByShift
	_ RegularTieringPolicy = ByDay
)

// ByShift fills tiers from the top: hours beyond standard+2 are 150%, the
// next two hours 125%, the rest 100%.
func ByShift(in RegularInput) RegularBreakdown {
	total, std := max(in.TotalHours, 0), max(in.StandardHours, 0)
	if in.fullOverride() {
		return allTopTier(total)
	}

	h150 := max(total-std-MidTier, 0)
	rest := total - h150
	h125 := min(max(rest-std, 0), MidTier)
	h100 := rest - h125
	return regular(h100, h125, h150)
}

// ByDay fills tiers from the bottom: the first standard hours are 100%, up to
// two more are 125%, the remainder 150%.
func ByDay(in RegularInput) RegularBreakdown {
	total, std := max(in.TotalHours, 0), max(in.StandardHours, 0)
	if in.fullOverride() {
		return allTopTier(total)
	}

	h100 := min(total, std)
	h125 := min(total-h100, MidTier)
	h150 := total - h100 - h125
	return regular(h100, h125, h150)
}

// allTopTier pays every hour of a full special day at 150%.
func allTopTier(total float64) RegularBreakdown {
	return regular(0, 0, total)
}

// regular keeps the exact split; the reducers round when they fold it in.
func regular(h100, h125, h150 float64) RegularBreakdown {
	out := EmptyRegular()
	out.Hours100.Hours = h100
	out.Hours125.Hours = h125
	out.Hours150.Hours = h150
	return out
}
