/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Shifts travel as
  "HH:MM" clock strings; the handlers convert them to minute ranges before
  calling the engine. Pay maps are returned as the engine's own types.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Shifts and days:
    ShiftDTO, ShiftPayRequest, DayPayRequest

  Months:
    MonthPayRequest, MonthDayDTO, WorkDaysResponse

  Events:
    SaveEventsRequest

  Rates:
    RatesResponse, RateScheduleDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rates.go: RateScheduleJSON type
*/
package api

import (
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/factory"
	"github.com/warp/shift-pay/generic"
	"github.com/warp/shift-pay/pay"
)

// =============================================================================
// SHIFTS AND DAYS
// =============================================================================

// ShiftDTO is one shift as entered. An end at or before the start ends on
// the next day.
type ShiftDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	IsFieldDuty bool   `json:"isFieldDuty"`
}

// MetaDTO overrides the day meta that would otherwise be resolved from the
// stored calendar events.
type MetaDTO struct {
	TypeDay              calendar.DayType `json:"typeDay"`
	CrossDayContinuation bool             `json:"crossDayContinuation"`
}

// ShiftPayRequest asks for one shift's pay map.
type ShiftPayRequest struct {
	Date          string   `json:"date"`
	Shift         ShiftDTO `json:"shift"`
	StandardHours *float64 `json:"standardHours,omitempty"`
	Meta          *MetaDTO `json:"meta,omitempty"`
	WithRanges    bool     `json:"withRanges,omitempty"`
}

// ShiftPayResponse pairs the resolved meta with the shift's pay map.
type ShiftPayResponse struct {
	Meta calendar.WorkDayMeta `json:"meta"`
	Map  pay.ShiftPayMap      `json:"map"`
}

// DayPayRequest asks for one day's pay map.
type DayPayRequest struct {
	Date          string        `json:"date"`
	Status        pay.DayStatus `json:"status"`
	Shifts        []ShiftDTO    `json:"shifts"`
	StandardHours *float64      `json:"standardHours,omitempty"`
	Meta          *MetaDTO      `json:"meta,omitempty"`
}

// DayPayResponse pairs the resolved meta with the day's pay map.
type DayPayResponse struct {
	Meta calendar.WorkDayMeta `json:"meta"`
	Map  pay.WorkDayMap       `json:"map"`
}

// =============================================================================
// MONTHS
// =============================================================================

// MonthDayDTO is one day of a month pay request.
type MonthDayDTO struct {
	Date   string        `json:"date"`
	Status pay.DayStatus `json:"status"`
	Shifts []ShiftDTO    `json:"shifts"`
}

// MonthPayRequest lists the entered days of a month.
type MonthPayRequest struct {
	Days          []MonthDayDTO `json:"days"`
	StandardHours *float64      `json:"standardHours,omitempty"`
}

// WorkDaysResponse is the day metas of a month.
type WorkDaysResponse struct {
	Year  int                    `json:"year"`
	Month int                    `json:"month"`
	Label string                 `json:"label"`
	Days  []calendar.WorkDayMeta `json:"days"`
}

// =============================================================================
// EVENTS
// =============================================================================

// SaveEventsRequest replaces the event titles of a date.
type SaveEventsRequest struct {
	Titles []string `json:"titles"`
}

// EventsResponse is the stored titles of a date range.
type EventsResponse struct {
	From   string           `json:"from"`
	To     string           `json:"to"`
	Events generic.EventMap `json:"events"`
}

// =============================================================================
// RATES
// =============================================================================

// RateScheduleDTO is a stored rate schedule version.
type RateScheduleDTO struct {
	ID        string                   `json:"id"`
	Kind      string                   `json:"kind"`
	Version   int                      `json:"version"`
	Schedule  factory.RateScheduleJSON `json:"schedule"`
	CreatedAt string                   `json:"createdAt,omitempty"`
}

// RatesResponse shows the schedules in effect and the stored history.
type RatesResponse struct {
	PerDiem factory.RateScheduleJSON `json:"perDiem"`
	Meal    factory.RateScheduleJSON `json:"meal"`
	History []RateScheduleDTO        `json:"history"`
}

// ErrorResponse is the error body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
