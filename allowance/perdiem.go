package allowance

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// TIER TABLE
// =============================================================================

type perDiemTierRule struct {
	MinHours float64
	Tier     PerDiemTier
	Points   int
}

// perDiemTiers is ordered from the highest threshold down.
var perDiemTiers = []perDiemTierRule{
	{MinHours: 12, Tier: TierC, Points: 3},
	{MinHours: 8, Tier: TierB, Points: 2},
	{MinHours: 4, Tier: TierA, Points: 1},
}

// TierFor returns the tier and points earned by hours of field duty.
func TierFor(hours float64) (PerDiemTier, int) {
	for _, rule := range perDiemTiers {
		if hours >= rule.MinHours {
			return rule.Tier, rule.Points
		}
	}
	return TierNone, 0
}

// =============================================================================
// SHIFT AND DAY CALCULATORS
// =============================================================================

// CalculateShift returns a shift's field-duty contribution. The flag is the
// caller's; it is never derived from the shift times.
func CalculateShift(shift generic.MinuteRange, isFieldDutyShift bool) PerDiemShiftInfo {
	return PerDiemShiftInfo{
		IsFieldDutyShift: isFieldDutyShift,
		Hours:            generic.MinutesToHours(max(shift.Minutes(), 0)),
	}
}

// FieldDutyHours sums the hours of the field-duty shifts only.
func FieldDutyHours(shifts []PerDiemShiftInfo) float64 {
	var total float64
	for _, s := range shifts {
		if s.IsFieldDutyShift {
			total += s.Hours
		}
	}
	return generic.RoundHours(total)
}

// CalculateDay resolves a day's per-diem from its shifts and the month rate.
// A day without a field-duty shift earns nothing and skips the tier lookup.
func CalculateDay(shifts []PerDiemShiftInfo, rate decimal.Decimal) PerDiemDay {
	isFieldDutyDay := false
	for _, s := range shifts {
		if s.IsFieldDutyShift {
			isFieldDutyDay = true
			break
		}
	}
	if !isFieldDutyDay {
		return PerDiemDay{DiemInfo: EmptyPerDiem()}
	}

	tier, points := TierFor(FieldDutyHours(shifts))
	return PerDiemDay{
		IsFieldDutyDay: true,
		DiemInfo: PerDiemInfo{
			Tier:   tier,
			Points: points,
			Amount: rate.Mul(decimal.NewFromInt(int64(points))),
		},
	}
}

// EmptyPerDiem is the zero entitlement.
func EmptyPerDiem() PerDiemInfo {
	return PerDiemInfo{Tier: TierNone, Amount: decimal.Zero}
}

// =============================================================================
// MONTH REDUCER
// =============================================================================

// PerDiemReducer sums per-diem entitlements across days. The result never
// carries a tier.
type PerDiemReducer struct{}

var _ generic.Reducer[PerDiemInfo] = PerDiemReducer{}

func (PerDiemReducer) Empty() PerDiemInfo { return EmptyPerDiem() }

func (PerDiemReducer) Accumulate(base, add PerDiemInfo) PerDiemInfo {
	return PerDiemInfo{
		Tier:   TierNone,
		Points: base.Points + add.Points,
		Amount: base.Amount.Add(add.Amount),
	}
}

// Subtract removes sub from base, clamping points and amount at zero
// independently.
func (PerDiemReducer) Subtract(base, sub PerDiemInfo) PerDiemInfo {
	return PerDiemInfo{
		Tier:   TierNone,
		Points: max(base.Points-sub.Points, 0),
		Amount: generic.ClampMoney(base.Amount.Sub(sub.Amount)),
	}
}
