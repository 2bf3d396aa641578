package pay

import (
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// MONTH REDUCER
// =============================================================================

// MonthReducer folds day pay maps into a month pay map, field by field, using
// each breakdown's own reducer.
//
// Subtract clamps every field at zero independently. Subtracting a day that
// was never accumulated therefore goes unnoticed here; MonthAggregate tracks
// which days were added and reports that case.
type MonthReducer struct {
	perDiem allowance.PerDiemReducer
	meals   allowance.MealAllowanceReducer
}

func (MonthReducer) Empty() MonthPayMap {
	return MonthPayMap{
		WorkMap:          EmptyWorkMap(),
		Hours100Sick:     emptyFixed(),
		Hours100Vacation: emptyFixed(),
		Extra100Shabbat:  emptyFixed(),
		PerDiem:          allowance.EmptyPerDiem(),
		MealAllowance:    allowance.EmptyMealAllowance(),
	}
}

// Accumulate adds day into a copy of base.
func (r MonthReducer) Accumulate(base MonthPayMap, day WorkDayMap) MonthPayMap {
	return MonthPayMap{
		WorkMap: WorkMap{
			Regular:    RegularReducer.Accumulate(base.WorkMap.Regular, day.WorkMap.Regular),
			Extra:      ExtraReducer.Accumulate(base.WorkMap.Extra, day.WorkMap.Extra),
			Special:    SpecialReducer.Accumulate(base.WorkMap.Special, day.WorkMap.Special),
			TotalHours: generic.RoundHours(base.WorkMap.TotalHours + day.WorkMap.TotalHours),
		},
		Hours100Sick:     fixedReducer.Accumulate(base.Hours100Sick, day.Hours100Sick),
		Hours100Vacation: fixedReducer.Accumulate(base.Hours100Vacation, day.Hours100Vacation),
		Extra100Shabbat:  fixedReducer.Accumulate(base.Extra100Shabbat, day.Extra100Shabbat),
		PerDiem:          r.perDiem.Accumulate(base.PerDiem, day.PerDiem.DiemInfo),
		FieldDutyDays:    base.FieldDutyDays + fieldDutyDay(day),
		TotalHours:       generic.RoundHours(base.TotalHours + day.TotalHours),
		MealAllowance:    r.meals.Accumulate(base.MealAllowance, day.MealAllowance),
	}
}

// Subtract removes day from a copy of base, clamping each field at zero.
func (r MonthReducer) Subtract(base MonthPayMap, day WorkDayMap) MonthPayMap {
	return MonthPayMap{
		WorkMap: WorkMap{
			Regular:    RegularReducer.Subtract(base.WorkMap.Regular, day.WorkMap.Regular),
			Extra:      ExtraReducer.Subtract(base.WorkMap.Extra, day.WorkMap.Extra),
			Special:    SpecialReducer.Subtract(base.WorkMap.Special, day.WorkMap.Special),
			TotalHours: subtractHours(base.WorkMap.TotalHours, day.WorkMap.TotalHours),
		},
		Hours100Sick:     fixedReducer.Subtract(base.Hours100Sick, day.Hours100Sick),
		Hours100Vacation: fixedReducer.Subtract(base.Hours100Vacation, day.Hours100Vacation),
		Extra100Shabbat:  fixedReducer.Subtract(base.Extra100Shabbat, day.Extra100Shabbat),
		PerDiem:          r.perDiem.Subtract(base.PerDiem, day.PerDiem.DiemInfo),
		FieldDutyDays:    max(base.FieldDutyDays-fieldDutyDay(day), 0),
		TotalHours:       subtractHours(base.TotalHours, day.TotalHours),
		MealAllowance:    r.meals.Subtract(base.MealAllowance, day.MealAllowance),
	}
}

// Sum folds days into an empty month, the from-scratch alternative to
// incremental accumulate/subtract.
func (r MonthReducer) Sum(days []WorkDayMap) MonthPayMap {
	out := r.Empty()
	for _, d := range days {
		out = r.Accumulate(out, d)
	}
	return out
}

func fieldDutyDay(day WorkDayMap) int {
	if day.PerDiem.IsFieldDutyDay {
		return 1
	}
	return 0
}

func subtractHours(base, sub float64) float64 {
	return generic.RoundHours(max(base-sub, 0))
}
