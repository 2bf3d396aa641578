package calendar

import (
	"fmt"
	"time"

	"github.com/warp/shift-pay/generic"
)

// =============================================================================
// MONTH INFO - Display-oriented month queries
// =============================================================================

var hebrewMonths = [...]string{
	"ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

// MonthOption is one entry of a month picker.
type MonthOption struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

// MonthInfo answers month-level questions for the builders and the UI.
type MonthInfo struct {
	holidays *HolidayResolver
}

func NewMonthInfo(holidays *HolidayResolver) *MonthInfo {
	return &MonthInfo{holidays: holidays}
}

// MonthName returns the Hebrew name of month.
func (mi *MonthInfo) MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return hebrewMonths[month-1]
}

// Options lists the month containing now and the count-1 months before it,
// newest first. A count below one yields nil.
func (mi *MonthInfo) Options(now time.Time, count int) []MonthOption {
	if count < 1 {
		return nil
	}
	first := generic.StartOfMonth(now.Year(), now.Month())
	opts := make([]MonthOption, 0, count)
	for i := 0; i < count; i++ {
		m := first.AddDate(0, -i, 0)
		opts = append(opts, MonthOption{
			Year:  m.Year(),
			Month: int(m.Month()),
			Label: fmt.Sprintf("%s %d", mi.MonthName(m.Month()), m.Year()),
		})
	}
	return opts
}

// IsSpecialFullDay reports whether date is a Saturday or a paid holiday.
func (mi *MonthInfo) IsSpecialFullDay(date time.Time, events generic.EventMap) bool {
	return mi.holidays.ResolveDate(date, events.Titles(generic.FormatDate(date))) == DaySpecialFull
}
