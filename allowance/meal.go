package allowance

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/generic"
)

// nightPresenceHours is the night-premium volume that makes a day count as
// having a night presence.
const nightPresenceHours = 4

// ClassifyMealDay classifies a day's shift pattern from its total hours and
// its night-time hours (night premium plus Sabbath night premium).
//
// Below four night hours the day is a single morning shift. Otherwise it has
// a night presence, and also a morning presence when its whole hours are at
// least twice its whole night hours.
func ClassifyMealDay(totalHours, hours50, shabbat200 float64, isFieldDutyDay bool) MealDayInfo {
	info := MealDayInfo{TotalHours: totalHours, IsFieldDutyDay: isFieldDutyDay}

	nightHours := hours50 + shabbat200
	if nightHours < nightPresenceHours {
		info.HasMorning = true
		return info
	}

	nightInt := max(1, int(math.Floor(nightHours)))
	ratio := int(math.Floor(totalHours)) / nightInt
	info.HasNight = true
	info.HasMorning = ratio >= 2
	return info
}

// MealAllowanceResolver prices a classified day against a rate entry.
//
// Mapping:
//   - a day without hours earns nothing
//   - a morning presence earns one small meal, unless the day is a
//     field-duty day whose per-diem already covers it
//   - a night presence earns one large meal
type MealAllowanceResolver struct{}

func (MealAllowanceResolver) Resolve(info MealDayInfo, rates MealRates) MealAllowance {
	out := EmptyMealAllowance()
	if info.TotalHours <= 0 {
		return out
	}
	if info.HasMorning && !info.IsFieldDutyDay {
		out.Small = mealEntry(1, rates.Small)
	}
	if info.HasNight {
		out.Large = mealEntry(1, rates.Large)
	}
	return out
}

func mealEntry(points int, rate decimal.Decimal) MealAllowanceEntry {
	return MealAllowanceEntry{Points: points, Amount: rate.Mul(decimal.NewFromInt(int64(points)))}
}

func EmptyMealAllowance() MealAllowance {
	return MealAllowance{
		Small: MealAllowanceEntry{Amount: decimal.Zero},
		Large: MealAllowanceEntry{Amount: decimal.Zero},
	}
}

// =============================================================================
// MONTH REDUCER
// =============================================================================

// MealAllowanceReducer sums meal allowances across days.
type MealAllowanceReducer struct{}

var _ generic.Reducer[MealAllowance] = MealAllowanceReducer{}

func (MealAllowanceReducer) Empty() MealAllowance { return EmptyMealAllowance() }

func (MealAllowanceReducer) Accumulate(base, add MealAllowance) MealAllowance {
	return MealAllowance{
		Small: MealAllowanceEntry{Points: base.Small.Points + add.Small.Points, Amount: base.Small.Amount.Add(add.Small.Amount)},
		Large: MealAllowanceEntry{Points: base.Large.Points + add.Large.Points, Amount: base.Large.Amount.Add(add.Large.Amount)},
	}
}

func (MealAllowanceReducer) Subtract(base, sub MealAllowance) MealAllowance {
	return MealAllowance{
		Small: subtractEntry(base.Small, sub.Small),
		Large: subtractEntry(base.Large, sub.Large),
	}
}

func subtractEntry(base, sub MealAllowanceEntry) MealAllowanceEntry {
	return MealAllowanceEntry{
		Points: max(base.Points-sub.Points, 0),
		Amount: generic.ClampMoney(base.Amount.Sub(sub.Amount)),
	}
}
