// scheduler.go - Periodic rate schedule reload
//
// PURPOSE:
//   Rate schedules can be published by another instance sharing the database.
//   The scheduler periodically reloads the latest stored schedules into the
//   handler's engine so every instance prices allowances with the same rates.
//
// DESIGN:
//   - Runs on robfig/cron with a configurable spec
//   - Loads once immediately on Start
//   - A failed reload keeps the rates already in effect
//   - Records the last run for display
//
// CONFIGURATION:
//   - Spec:    cron spec (default: every 15 minutes)
//   - Enabled: Whether scheduler is active (default: true)
//
// USAGE:
//   scheduler := NewRateReloadScheduler(handler, "*/15 * * * *")
//   if err := scheduler.Start(); err != nil { ... }
//   // ... later
//   scheduler.Stop()
//
// SEE ALSO:
//   - handlers.go: ReloadRates, CreateRates (immediate reload)
//   - factory/rates.go: LoadRates
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/shift-pay/logger"
)

const reloadTimeout = 30 * time.Second

// ReloadRun is the outcome of one reload.
type ReloadRun struct {
	At       time.Time
	Duration time.Duration
	Err      error
}

// RateReloadScheduler reloads stored rate schedules on a cron spec.
type RateReloadScheduler struct {
	Handler *Handler
	Spec    string
	Enabled bool

	cron    *cron.Cron
	mu      sync.Mutex
	lastRun *ReloadRun
}

// NewRateReloadScheduler creates a new scheduler. An empty spec disables it.
func NewRateReloadScheduler(handler *Handler, spec string) *RateReloadScheduler {
	return &RateReloadScheduler{
		Handler: handler,
		Spec:    spec,
		Enabled: spec != "",
	}
}

// Start loads the rates once and schedules the reload job.
func (rs *RateReloadScheduler) Start() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		logger.Log.Info("[Scheduler] Rate reload disabled, not starting")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(rs.Spec, rs.reload); err != nil {
		return fmt.Errorf("invalid rate reload spec %q: %w", rs.Spec, err)
	}
	rs.cron = c

	go rs.reload()
	c.Start()

	logger.Log.WithField("spec", rs.Spec).Info("[Scheduler] Rate reload started")
	return nil
}

// Stop stops the scheduler and waits for a running reload.
func (rs *RateReloadScheduler) Stop() {
	rs.mu.Lock()
	c := rs.cron
	rs.cron = nil
	rs.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		logger.Log.Info("[Scheduler] Rate reload stopped")
	}
}

// RunNow triggers an immediate reload.
func (rs *RateReloadScheduler) RunNow() error {
	rs.reload()
	return rs.LastRun().Err
}

// LastRun returns the outcome of the latest reload, zero before the first.
func (rs *RateReloadScheduler) LastRun() ReloadRun {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.lastRun == nil {
		return ReloadRun{}
	}
	return *rs.lastRun
}

func (rs *RateReloadScheduler) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	start := time.Now()
	err := rs.Handler.ReloadRates(ctx)
	run := ReloadRun{At: start, Duration: time.Since(start), Err: err}

	rs.mu.Lock()
	rs.lastRun = &run
	rs.mu.Unlock()

	if err != nil {
		logger.Log.WithError(err).Error("[Scheduler] Rate reload failed, keeping current rates")
		return
	}
	logger.Log.WithField("duration", run.Duration).Debug("[Scheduler] Rates reloaded")
}
