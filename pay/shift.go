package pay

import (
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/generic"
)

// ShiftBuilder composes segment resolution, tier calculation and per-diem
// for a single shift.
type ShiftBuilder struct {
	segments *SegmentResolver
	policy   RegularTieringPolicy
}

// NewShiftBuilder tiers each shift on its own (ByShift).
func NewShiftBuilder(segments *SegmentResolver) *ShiftBuilder {
	return &ShiftBuilder{segments: segments, policy: ByShift}
}

// Build returns the shift's pay map. Regular hours are the shift's hours
// outside special time.
func (b *ShiftBuilder) Build(in ShiftInput) (ShiftPayMap, error) {
	ranges, err := b.segments.Resolve(in.Shift, in.Meta)
	if err != nil {
		return ShiftPayMap{}, err
	}

	extra := CalculateExtra(ranges)
	special := CalculateSpecial(ranges)
	total := generic.MinutesToHours(max(in.Shift.Minutes(), 0))

	return ShiftPayMap{
		Regular: RegularReducer.Accumulate(RegularReducer.Empty(), b.policy(RegularInput{
			TotalHours:           total - SpecialReducer.Total(special),
			StandardHours:        in.StandardHours,
			TypeDay:              in.Meta.TypeDay,
			CrossDayContinuation: in.Meta.CrossDayContinuation,
		})),
		Extra:        extra,
		Special:      special,
		TotalHours:   total,
		PerDiemShift: allowance.CalculateShift(in.Shift, in.IsFieldDutyShift),
		Ranges:       ranges,
	}, nil
}
