package pay

import (
	"sort"

	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// MONTH AGGREGATE - Running month total keyed by date
// =============================================================================

// MonthAggregate keeps a running MonthPayMap together with the day maps it
// was built from, so that editing a day replaces its previous contribution
// and removing an unknown day is reported instead of silently clamped.
//
// A MonthAggregate is not safe for concurrent use. Its owner serializes
// calls, one aggregate per month being edited.
type MonthAggregate struct {
	reducer MonthReducer
	days    map[string]WorkDayMap
	total   MonthPayMap
}

func NewMonthAggregate() *MonthAggregate {
	var r MonthReducer
	return &MonthAggregate{
		reducer: r,
		days:    make(map[string]WorkDayMap),
		total:   r.Empty(),
	}
}

// Put accumulates day under date, first subtracting any map previously
// stored for the same date.
func (a *MonthAggregate) Put(date string, day WorkDayMap) error {
	if _, err := generic.ParseDate(date); err != nil {
		return err
	}
	if prev, ok := a.days[date]; ok {
		a.total = a.reducer.Subtract(a.total, prev)
	}
	a.days[date] = day
	a.total = a.reducer.Accumulate(a.total, day)
	return nil
}

// Remove subtracts the map stored for date.
func (a *MonthAggregate) Remove(date string) error {
	prev, ok := a.days[date]
	if !ok {
		return &generic.DayNotAccumulatedError{Date: date}
	}
	delete(a.days, date)
	a.total = a.reducer.Subtract(a.total, prev)
	return nil
}

// Total returns the running month pay map.
func (a *MonthAggregate) Total() MonthPayMap { return a.total }

// Day returns the map stored for date.
func (a *MonthAggregate) Day(date string) (WorkDayMap, bool) {
	d, ok := a.days[date]
	return d, ok
}

// Dates returns the accumulated dates in order.
func (a *MonthAggregate) Dates() []string {
	dates := make([]string, 0, len(a.days))
	for d := range a.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (a *MonthAggregate) Len() int { return len(a.days) }
