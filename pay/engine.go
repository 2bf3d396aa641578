package pay

import (
	"fmt"
	"time"

	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// ENGINE - Wires the pipeline from configuration
// =============================================================================

// EngineConfig holds the injected data of every calculator. Zero values fall
// back to the built-in defaults.
type EngineConfig struct {
	Zone         string
	Holidays     *calendar.HolidayTable
	PerDiemRates allowance.PerDiemRateResolver
	MealRates    allowance.MealRateResolver
}

// Engine bundles the calculators of the pipeline.
type Engine struct {
	Holidays *calendar.HolidayResolver
	WorkDays *calendar.WorkDaysBuilder
	Months   *calendar.MonthInfo
	Segments *SegmentResolver
	Shifts   *ShiftBuilder
	Days     *DayBuilder
	Reducer  MonthReducer

	perDiemRates allowance.PerDiemRateResolver
	mealRates    allowance.MealRateResolver
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	clock, err := calendar.NewSpecialClock(cfg.Zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load zone %q: %w", cfg.Zone, err)
	}
	table := calendar.DefaultHolidayTable()
	if cfg.Holidays != nil {
		table = *cfg.Holidays
	}
	perDiem := cfg.PerDiemRates
	if perDiem == nil {
		perDiem = allowance.DefaultPerDiemRates()
	}
	meal := cfg.MealRates
	if meal == nil {
		meal = allowance.DefaultMealRates()
	}

	holidays := calendar.NewHolidayResolver(table)
	segments := NewSegmentResolver(clock)
	shifts := NewShiftBuilder(segments)
	return &Engine{
		Holidays:     holidays,
		WorkDays:     calendar.NewWorkDaysBuilder(holidays),
		Months:       calendar.NewMonthInfo(holidays),
		Segments:     segments,
		Shifts:       shifts,
		Days:         NewDayBuilder(shifts, perDiem, meal),
		perDiemRates: perDiem,
		mealRates:    meal,
	}, nil
}

// WithRates returns a copy of the engine pricing allowances with other
// rate resolvers. Nil resolvers keep the current ones.
func (e *Engine) WithRates(perDiem allowance.PerDiemRateResolver, meal allowance.MealRateResolver) *Engine {
	cp := *e
	if perDiem != nil {
		cp.perDiemRates = perDiem
	}
	if meal != nil {
		cp.mealRates = meal
	}
	cp.Days = NewDayBuilder(e.Shifts, cp.perDiemRates, cp.mealRates)
	return &cp
}

func (e *Engine) PerDiemRates() allowance.PerDiemRateResolver { return e.perDiemRates }
func (e *Engine) MealRates() allowance.MealRateResolver       { return e.mealRates }

// =============================================================================
// MONTH CALCULATION
// =============================================================================

// DayEntry is one day of a month as entered by the user.
type DayEntry struct {
	Date   string     `json:"date"`
	Status DayStatus  `json:"status"`
	Shifts []DayShift `json:"shifts"`
}

// DayResult pairs a day's meta with its pay map.
type DayResult struct {
	Meta calendar.WorkDayMeta `json:"meta"`
	Map  WorkDayMap           `json:"map"`
}

// MonthResult is a month's day maps and their total.
type MonthResult struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Days  []DayResult `json:"days"`
	Total MonthPayMap `json:"total"`
}

// BuildMonth computes every entered day of a month and folds them through a
// MonthAggregate. Entries outside the month are rejected; an entry repeated
// for the same date replaces the earlier one.
func (e *Engine) BuildMonth(year int, month time.Month, events generic.EventMap, entries []DayEntry, standardHours float64) (MonthResult, error) {
	metas, err := e.WorkDays.Build(year, month, events)
	if err != nil {
		return MonthResult{}, err
	}
	byDate := make(map[string]calendar.WorkDayMeta, len(metas))
	for _, m := range metas {
		byDate[m.Date] = m
	}

	agg := NewMonthAggregate()
	metaOf := make(map[string]calendar.WorkDayMeta)
	for _, entry := range entries {
		meta, ok := byDate[entry.Date]
		if !ok {
			if _, err := generic.ParseDate(entry.Date); err != nil {
				return MonthResult{}, err
			}
			return MonthResult{}, fmt.Errorf("%w: %s is outside %d-%02d", generic.ErrInvalidDate, entry.Date, year, int(month))
		}
		day, err := e.Days.Build(DayInput{
			Shifts:        entry.Shifts,
			Status:        entry.Status,
			Meta:          meta,
			StandardHours: standardHours,
		})
		if err != nil {
			return MonthResult{}, fmt.Errorf("day %s: %w", entry.Date, err)
		}
		if err := agg.Put(entry.Date, day); err != nil {
			return MonthResult{}, err
		}
		metaOf[entry.Date] = meta
	}

	result := MonthResult{Year: year, Month: int(month), Total: agg.Total()}
	for _, date := range agg.Dates() {
		day, _ := agg.Day(date)
		result.Days = append(result.Days, DayResult{Meta: metaOf[date], Map: day})
	}
	return result, nil
}
