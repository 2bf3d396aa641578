package pay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/pay"
)

func regularSum(b pay.RegularBreakdown) float64 {
	return b.Hours100.Hours + b.Hours125.Hours + b.Hours150.Hours
}

func TestTieringPolicies_ConserveHours(t *testing.T) {
	// GIVEN: Totals from 0 to 16 hours and several standard days
	// WHEN: Tiering with either policy
	// THEN: The tiers always add back up to the total

	for _, std := range []float64{0, 6.67, 8, 8.5} {
		for total := 0.0; total <= 16; total += 0.25 {
			in := pay.RegularInput{TotalHours: total, StandardHours: std, TypeDay: calendar.DayRegular}

			byShift := pay.ByShift(in)
			byDay := pay.ByDay(in)

			assert.InDelta(t, total, regularSum(byShift), 1e-9, "by shift total=%v std=%v", total, std)
			assert.InDelta(t, total, regularSum(byDay), 1e-9, "by day total=%v std=%v", total, std)

			assert.InDelta(t, max(total-std-pay.MidTier, 0), byShift.Hours150.Hours, 1e-9)
			assert.LessOrEqual(t, byDay.Hours100.Hours, std+1e-9)
			assert.LessOrEqual(t, byDay.Hours125.Hours, pay.MidTier+1e-9)
		}
	}
}

func TestTieringPolicies_OffGridTotals(t *testing.T) {
	// GIVEN: Totals that are not whole micro-hours
	// WHEN: Tiering with either policy
	// THEN: The split is exact and nothing is lost to rounding

	for _, std := range []float64{0, 6.67, 8} {
		for _, total := range []float64{1.0 / 3, 12.1234567891, 8.0000004, 10.9999999} {
			in := pay.RegularInput{TotalHours: total, StandardHours: std, TypeDay: calendar.DayRegular}

			byShift := pay.ByShift(in)
			byDay := pay.ByDay(in)

			assert.InDelta(t, total, regularSum(byShift), 1e-9, "by shift total=%v std=%v", total, std)
			assert.InDelta(t, total, regularSum(byDay), 1e-9, "by day total=%v std=%v", total, std)
			assert.InDelta(t, max(total-std-pay.MidTier, 0), byShift.Hours150.Hours, 1e-9)
		}
	}

	got := pay.ByShift(pay.RegularInput{TotalHours: 12.1234567891, StandardHours: 8})
	assert.InDelta(t, 2.1234567891, got.Hours150.Hours, 1e-12)
}

func TestByDay_FillsFromTheBottom(t *testing.T) {
	got := pay.ByDay(pay.RegularInput{TotalHours: 11, StandardHours: 8, TypeDay: calendar.DayRegular})

	assert.InDelta(t, 8.0, got.Hours100.Hours, 1e-9)
	assert.InDelta(t, 2.0, got.Hours125.Hours, 1e-9)
	assert.InDelta(t, 1.0, got.Hours150.Hours, 1e-9)
	assert.Equal(t, 125, got.Hours125.Percent)
}

func TestByShift_ShortShiftIsAllBase(t *testing.T) {
	got := pay.ByShift(pay.RegularInput{TotalHours: 5, StandardHours: 8, TypeDay: calendar.DayRegular})

	assert.InDelta(t, 5.0, got.Hours100.Hours, 1e-9)
	assert.Equal(t, 0.0, got.Hours125.Hours)
	assert.Equal(t, 0.0, got.Hours150.Hours)
}

func TestTieringPolicies_FullDayOverride(t *testing.T) {
	// GIVEN: A full special day with nothing continuing past midnight
	// WHEN: Tiering its non-special hours
	// THEN: Every hour is paid at 150%

	in := pay.RegularInput{TotalHours: 3, StandardHours: 8, TypeDay: calendar.DaySpecialFull}

	for name, policy := range map[string]pay.RegularTieringPolicy{"by shift": pay.ByShift, "by day": pay.ByDay} {
		got := policy(in)
		assert.Equal(t, 0.0, got.Hours100.Hours, name)
		assert.Equal(t, 0.0, got.Hours125.Hours, name)
		assert.InDelta(t, 3.0, got.Hours150.Hours, 1e-9, name)
	}

	in.CrossDayContinuation = true
	got := pay.ByDay(in)
	assert.InDelta(t, 3.0, got.Hours100.Hours, 1e-9, "continuation disables the override")
}

func TestTieringPolicies_NegativeInputsClamp(t *testing.T) {
	got := pay.ByDay(pay.RegularInput{TotalHours: -1, StandardHours: -8})

	assert.Equal(t, 0.0, regularSum(got))
}
