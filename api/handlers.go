/*
handlers.go - HTTP API handlers for the shift pay engine

PURPOSE:
  Exposes the pay engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the pay pipeline. Nothing calculated is
  persisted; the store only holds calendar events and rate schedules.

ENDPOINTS:
  Pay:
    POST   /api/shifts/pay                       One shift's pay map
    POST   /api/days/pay                         One day's pay map
    POST   /api/months/{year}/{month}/pay        Day maps and month total

  Months:
    GET    /api/months/options                   Month picker entries
    GET    /api/months/{year}/{month}/workdays   Day metas from stored events

  Events:
    GET    /api/events?from=&to=                 Stored event titles
    PUT    /api/events/{date}                    Replace a date's titles
    DELETE /api/events/{date}                    Clear a date

  Rates:
    GET    /api/rates                            Schedules in effect + history
    POST   /api/rates                            Publish a new schedule version

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Events and rate schedules
  - RateFactory: JSON to rate table conversion
  - engine: The pay pipeline, swapped when rates are reloaded

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Periodic rate reload
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-pay/allowance"
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/factory"
	"github.com/warp/shift-pay/generic"
	"github.com/warp/shift-pay/logger"
	"github.com/warp/shift-pay/pay"
)

const defaultMonthOptions = 12

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         generic.Store
	RateFactory   *factory.RateFactory
	StandardHours float64

	// Now is the clock used for month options.
	Now func() time.Time

	mu     sync.RWMutex
	engine *pay.Engine
}

// NewHandler creates a new handler over store and engine.
func NewHandler(store generic.Store, engine *pay.Engine, standardHours float64) *Handler {
	return &Handler{
		Store:         store,
		RateFactory:   factory.NewRateFactory(),
		StandardHours: standardHours,
		Now:           time.Now,
		engine:        engine,
	}
}

// Engine returns the engine currently serving requests.
func (h *Handler) Engine() *pay.Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

// ReloadRates loads the latest stored rate schedules into the engine.
func (h *Handler) ReloadRates(ctx context.Context) error {
	perDiem, meal, err := h.RateFactory.LoadRates(ctx, h.Store)
	if err != nil {
		return fmt.Errorf("failed to load rates: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = h.engine.WithRates(perDiem, meal)
	return nil
}

// =============================================================================
// PAY HANDLERS
// =============================================================================

// CalculateShift returns one shift's pay map.
func (h *Handler) CalculateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	engine := h.Engine()
	meta, err := h.resolveMeta(r.Context(), engine, req.Date, req.Meta)
	if err != nil {
		h.writeDomainError(w, r, "Failed to resolve day", err)
		return
	}
	shift, err := toDayShift(req.Shift)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	m, err := engine.Shifts.Build(pay.ShiftInput{
		Shift:            shift.Shift,
		Meta:             meta,
		StandardHours:    h.standardHours(req.StandardHours),
		IsFieldDutyShift: shift.IsFieldDuty,
	})
	if err != nil {
		h.writeDomainError(w, r, "Failed to calculate shift", err)
		return
	}
	if !req.WithRanges {
		m.Ranges = nil
	}

	writeJSON(w, http.StatusOK, ShiftPayResponse{Meta: meta, Map: m})
}

// CalculateDay returns one day's pay map.
func (h *Handler) CalculateDay(w http.ResponseWriter, r *http.Request) {
	var req DayPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	engine := h.Engine()
	meta, err := h.resolveMeta(r.Context(), engine, req.Date, req.Meta)
	if err != nil {
		h.writeDomainError(w, r, "Failed to resolve day", err)
		return
	}
	shifts, err := toDayShifts(req.Shifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	m, err := engine.Days.Build(pay.DayInput{
		Shifts:        shifts,
		Status:        req.Status,
		Meta:          meta,
		StandardHours: h.standardHours(req.StandardHours),
	})
	if err != nil {
		h.writeDomainError(w, r, "Failed to calculate day", err)
		return
	}

	writeJSON(w, http.StatusOK, DayPayResponse{Meta: meta, Map: m})
}

// CalculateMonth returns the day maps of a month and their total.
func (h *Handler) CalculateMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	var req MonthPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entries := make([]pay.DayEntry, 0, len(req.Days))
	for _, d := range req.Days {
		shifts, err := toDayShifts(d.Shifts)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid shift on %s", d.Date), err)
			return
		}
		entries = append(entries, pay.DayEntry{Date: d.Date, Status: d.Status, Shifts: shifts})
	}

	from, to := calendar.EventRange(year, month)
	events, err := h.Store.EventMap(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load events", err)
		return
	}

	result, err := h.Engine().BuildMonth(year, month, events, entries, h.standardHours(req.StandardHours))
	if err != nil {
		h.writeDomainError(w, r, "Failed to calculate month", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// MONTH HANDLERS
// =============================================================================

// ListMonthOptions returns the current month and the months before it.
func (h *Handler) ListMonthOptions(w http.ResponseWriter, r *http.Request) {
	count := defaultMonthOptions
	if s := r.URL.Query().Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 120 {
			writeError(w, http.StatusBadRequest, "Invalid count", err)
			return
		}
		count = n
	}

	writeJSON(w, http.StatusOK, h.Engine().Months.Options(h.Now(), count))
}

// GetWorkDays returns the day metas of a month from the stored events.
func (h *Handler) GetWorkDays(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	from, to := calendar.EventRange(year, month)
	events, err := h.Store.EventMap(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load events", err)
		return
	}

	engine := h.Engine()
	metas, err := engine.WorkDays.Build(year, month, events)
	if err != nil {
		h.writeDomainError(w, r, "Failed to build work days", err)
		return
	}

	writeJSON(w, http.StatusOK, WorkDaysResponse{
		Year:  year,
		Month: int(month),
		Label: fmt.Sprintf("%s %d", engine.Months.MonthName(month), year),
		Days:  metas,
	})
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// ListEvents returns the stored titles between from and to, inclusive.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := generic.ParseDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := generic.ParseDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Invalid range", errors.New("to is before from"))
		return
	}

	events, err := h.Store.EventMap(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, EventsResponse{
		From:   generic.FormatDate(from),
		To:     generic.FormatDate(to),
		Events: events,
	})
}

// SaveEvents replaces the titles of a date.
func (h *Handler) SaveEvents(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := generic.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	var req SaveEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Store.SaveEvents(r.Context(), date, req.Titles); err != nil {
		h.writeDomainError(w, r, "Failed to save events", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"date": date, "titles": req.Titles})
}

// DeleteEvents clears a date.
func (h *Handler) DeleteEvents(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := generic.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	if err := h.Store.DeleteEvents(r.Context(), date); err != nil {
		h.writeDomainError(w, r, "Failed to delete events", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// ListRates returns the schedules in effect and every stored version.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRateSchedules(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list rates", err)
		return
	}

	history := make([]RateScheduleDTO, 0, len(records))
	for _, rec := range records {
		var schedule factory.RateScheduleJSON
		if err := json.Unmarshal([]byte(rec.ConfigJSON), &schedule); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"id":      rec.ID,
				"kind":    rec.Kind,
				"version": rec.Version,
			}).Warn("Stored rate schedule is not valid JSON")
		}
		history = append(history, RateScheduleDTO{
			ID:        rec.ID,
			Kind:      rec.Kind,
			Version:   rec.Version,
			Schedule:  schedule,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}

	resp := RatesResponse{History: history}
	resp.PerDiem, resp.Meal = h.currentSchedules(h.Engine())

	writeJSON(w, http.StatusOK, resp)
}

// currentSchedules renders the engine's rate tables. Resolvers that are not
// tables render as an empty schedule of their kind.
func (h *Handler) currentSchedules(engine *pay.Engine) (perDiem, meal factory.RateScheduleJSON) {
	perDiem = factory.RateScheduleJSON{Kind: factory.KindPerDiem}
	meal = factory.RateScheduleJSON{Kind: factory.KindMeal}
	if t, ok := engine.PerDiemRates().(allowance.PerDiemRateTable); ok {
		perDiem = h.RateFactory.FromPerDiemTable(t)
	}
	if t, ok := engine.MealRates().(allowance.MealRateTable); ok {
		meal = h.RateFactory.FromMealTable(t)
	}
	return perDiem, meal
}

// CreateRates validates and stores a new schedule version, then reloads
// the engine's rates.
func (h *Handler) CreateRates(w http.ResponseWriter, r *http.Request) {
	var req factory.RateScheduleJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	configJSON, err := h.RateFactory.Marshal(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate schedule", err)
		return
	}

	// Validate by parsing
	if _, err := h.RateFactory.Parse(configJSON); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate schedule", err)
		return
	}

	rec := generic.RateScheduleRecord{Kind: req.Kind, ConfigJSON: configJSON}
	version, err := h.Store.SaveRateSchedule(r.Context(), rec)
	if err != nil {
		h.writeDomainError(w, r, "Failed to save rate schedule", err)
		return
	}

	if err := h.ReloadRates(r.Context()); err != nil {
		h.writeDomainError(w, r, "Failed to reload rates", err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"kind":    req.Kind,
		"version": version,
	}).Info("rate schedule published")

	saved, err := h.Store.LatestRateSchedule(r.Context(), req.Kind)
	if err != nil {
		h.writeDomainError(w, r, "Failed to read rate schedule", err)
		return
	}

	writeJSON(w, http.StatusCreated, RateScheduleDTO{
		ID:        saved.ID,
		Kind:      saved.Kind,
		Version:   saved.Version,
		Schedule:  req,
		CreatedAt: saved.CreatedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// resolveMeta returns the override meta when given, otherwise classifies
// date from the stored events of date and the day after.
func (h *Handler) resolveMeta(ctx context.Context, engine *pay.Engine, date string, override *MetaDTO) (calendar.WorkDayMeta, error) {
	d, err := generic.ParseDate(date)
	if err != nil {
		return calendar.WorkDayMeta{}, err
	}
	if override != nil {
		meta := calendar.WorkDayMeta{
			Date:                 date,
			TypeDay:              override.TypeDay,
			CrossDayContinuation: override.CrossDayContinuation,
		}
		if meta.TypeDay == "" {
			meta.TypeDay = calendar.DayRegular
		}
		return meta, meta.Validate()
	}

	events, err := h.Store.EventMap(ctx, d, d.AddDate(0, 0, 1))
	if err != nil {
		return calendar.WorkDayMeta{}, err
	}
	return engine.WorkDays.MetaFor(d, events), nil
}

func (h *Handler) standardHours(v *float64) float64 {
	if v == nil {
		return h.StandardHours
	}
	return max(*v, 0)
}

func toDayShift(s ShiftDTO) (pay.DayShift, error) {
	start, err := generic.ParseClock(s.Start)
	if err != nil {
		return pay.DayShift{}, err
	}
	end, err := generic.ParseClock(s.End)
	if err != nil {
		return pay.DayShift{}, err
	}
	return pay.DayShift{Shift: generic.ShiftRange(start, end), IsFieldDuty: s.IsFieldDuty}, nil
}

func toDayShifts(in []ShiftDTO) ([]pay.DayShift, error) {
	out := make([]pay.DayShift, 0, len(in))
	for _, s := range in {
		ds, err := toDayShift(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func monthParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year %q", generic.ErrInvalidMonth, chi.URLParam(r, "year"))
	}
	m, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", generic.ErrInvalidMonth, chi.URLParam(r, "month"))
	}
	month := time.Month(m)
	if err := generic.ValidateMonth(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and store errors to a status. Unexpected
// errors are logged with the request ID.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		logger.Log.WithError(err).
			WithField("request_id", middleware.GetReqID(r.Context())).
			WithField("path", r.URL.Path).
			Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
