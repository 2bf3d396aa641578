package pay

import (
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// DAY BUILDER
// =============================================================================

// DayBuilder folds a day's shifts, or its non-working status, into a
// WorkDayMap. Rates are injected and looked up by the day's month.
type DayBuilder struct {
	shifts       *ShiftBuilder
	policy       RegularTieringPolicy
	perDiemRates allowance.PerDiemRateResolver
	mealRates    allowance.MealRateResolver
	meals        allowance.MealAllowanceResolver
}

// NewDayBuilder tiers the day's total regular hours (ByDay).
func NewDayBuilder(shifts *ShiftBuilder, perDiemRates allowance.PerDiemRateResolver, mealRates allowance.MealRateResolver) *DayBuilder {
	return &DayBuilder{
		shifts:       shifts,
		policy:       ByDay,
		perDiemRates: perDiemRates,
		mealRates:    mealRates,
	}
}

// Build returns the day's pay map.
//
// Sick and vacation days pay the standard hours at 100% under their own
// field and nothing else. A normal day with no shifts is an all-zero map.
func (b *DayBuilder) Build(in DayInput) (WorkDayMap, error) {
	if err := in.Meta.Validate(); err != nil {
		return WorkDayMap{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusNormal
	}

	switch status {
	case StatusSick, StatusVacation:
		return b.buildAbsence(status, in.StandardHours), nil
	case StatusNormal:
		return b.buildWorked(in)
	default:
		_, err := ParseDayStatus(string(status))
		return WorkDayMap{}, err
	}
}

func (b *DayBuilder) buildAbsence(status DayStatus, standardHours float64) WorkDayMap {
	out := EmptyWorkDayMap()
	paid := generic.NewSegment(100, max(standardHours, 0))
	if status == StatusSick {
		out.Hours100Sick = paid
	} else {
		out.Hours100Vacation = paid
	}
	out.TotalHours = paid.Hours
	return out
}

func (b *DayBuilder) buildWorked(in DayInput) (WorkDayMap, error) {
	out := EmptyWorkDayMap()
	if len(in.Shifts) == 0 {
		return out, nil
	}

	extra := ExtraReducer.Empty()
	special := SpecialReducer.Empty()
	perDiemShifts := make([]allowance.PerDiemShiftInfo, 0, len(in.Shifts))
	var total float64

	for _, s := range in.Shifts {
		sm, err := b.shifts.Build(ShiftInput{
			Shift:            s.Shift,
			Meta:             in.Meta,
			StandardHours:    in.StandardHours,
			IsFieldDutyShift: s.IsFieldDuty,
		})
		if err != nil {
			return WorkDayMap{}, err
		}
		extra = ExtraReducer.Accumulate(extra, sm.Extra)
		special = SpecialReducer.Accumulate(special, sm.Special)
		perDiemShifts = append(perDiemShifts, sm.PerDiemShift)
		total = generic.RoundHours(total + sm.TotalHours)
	}

	specialHours := SpecialReducer.Total(special)
	regular := RegularReducer.Accumulate(RegularReducer.Empty(), b.policy(RegularInput{
		TotalHours:           total - specialHours,
		StandardHours:        in.StandardHours,
		TypeDay:              in.Meta.TypeDay,
		CrossDayContinuation: in.Meta.CrossDayContinuation,
	}))

	date, _ := in.Meta.Time()
	perDiem := allowance.CalculateDay(perDiemShifts, b.perDiemRates.RateFor(date.Year(), date.Month()))
	mealInfo := allowance.ClassifyMealDay(total, extra.Hours50.Hours, special.Shabbat200.Hours, perDiem.IsFieldDutyDay)

	out.WorkMap = WorkMap{Regular: regular, Extra: extra, Special: special, TotalHours: total}
	out.Extra100Shabbat = generic.NewSegment(100, specialHours)
	out.PerDiem = perDiem
	out.TotalHours = total
	out.MealAllowance = b.meals.Resolve(mealInfo, b.mealRates.RatesFor(date.Year(), date.Month()))
	return out, nil
}
