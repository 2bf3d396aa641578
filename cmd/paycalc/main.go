// Command paycalc prints shift, day and work-day pay maps as JSON.
//
// Calendar events come from --event flags ("2024-04-23=Pesach I") and,
// when --db is given, from a SQLite store written by the server. Rates come
// from the same store or the built-in defaults.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/shift-pay/calendar"
	"github.com/warp/shift-pay/factory"
	"github.com/warp/shift-pay/generic"
	"github.com/warp/shift-pay/logger"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/store/sqlite"
)

const appVersion = "0.3.0"

type globalFlags struct {
	dbPath        string
	zone          string
	events        []string
	standardHours float64
	logLevel      string
}

func main() {
	var g globalFlags

	root := &cobra.Command{
		Use:           "paycalc",
		Short:         "Shift pay calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(g.logLevel, "development")
			logger.Log.SetOutput(os.Stderr)
		},
	}
	root.Version = appVersion
	root.SetVersionTemplate("paycalc v{{.Version}}\n")

	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "SQLite database with stored events and rates (optional)")
	root.PersistentFlags().StringVar(&g.zone, "zone", calendar.DefaultZone, "Time zone deciding the special-time cutoff")
	root.PersistentFlags().StringArrayVar(&g.events, "event", nil, "Calendar event as yyyy-MM-dd=Title (repeatable)")
	root.PersistentFlags().Float64Var(&g.standardHours, "standard-hours", 8, "Daily standard hours")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level")

	root.AddCommand(shiftCmd(&g), dayCmd(&g), workdaysCmd(&g))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func shiftCmd(g *globalFlags) *cobra.Command {
	var (
		dateStr    string
		startStr   string
		endStr     string
		fieldDuty  bool
		withRanges bool
	)

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Pay map of a single shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := generic.ParseDate(dateStr)
			if err != nil {
				return err
			}
			start, err := generic.ParseClock(startStr)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			end, err := generic.ParseClock(endStr)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			env, err := setup(cmd.Context(), g, date, date.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			defer env.close()

			m, err := env.engine.Shifts.Build(pay.ShiftInput{
				Shift:            generic.ShiftRange(start, end),
				Meta:             env.engine.WorkDays.MetaFor(date, env.events),
				StandardHours:    g.standardHours,
				IsFieldDutyShift: fieldDuty,
			})
			if err != nil {
				return err
			}
			if !withRanges {
				m.Ranges = nil
			}
			return printJSON(m)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Work day yyyy-MM-dd")
	cmd.Flags().StringVar(&startStr, "start", "", "Shift start HH:MM")
	cmd.Flags().StringVar(&endStr, "end", "", "Shift end HH:MM (at or before start ends next day)")
	cmd.Flags().BoolVar(&fieldDuty, "field-duty", false, "Field-duty shift")
	cmd.Flags().BoolVar(&withRanges, "ranges", false, "Include labeled ranges")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func dayCmd(g *globalFlags) *cobra.Command {
	var (
		dateStr   string
		shifts    []string
		fieldDuty []string
		statusStr string
	)

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Pay map of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := generic.ParseDate(dateStr)
			if err != nil {
				return err
			}
			status, err := pay.ParseDayStatus(statusStr)
			if err != nil {
				return err
			}

			var dayShifts []pay.DayShift
			for _, s := range shifts {
				r, err := generic.ParseShift(s)
				if err != nil {
					return fmt.Errorf("--shift: %w", err)
				}
				dayShifts = append(dayShifts, pay.DayShift{Shift: r})
			}
			for _, s := range fieldDuty {
				r, err := generic.ParseShift(s)
				if err != nil {
					return fmt.Errorf("--field-duty-shift: %w", err)
				}
				dayShifts = append(dayShifts, pay.DayShift{Shift: r, IsFieldDuty: true})
			}

			env, err := setup(cmd.Context(), g, date, date.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			defer env.close()

			m, err := env.engine.Days.Build(pay.DayInput{
				Shifts:        dayShifts,
				Status:        status,
				Meta:          env.engine.WorkDays.MetaFor(date, env.events),
				StandardHours: g.standardHours,
			})
			if err != nil {
				return err
			}
			return printJSON(m)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Work day yyyy-MM-dd")
	cmd.Flags().StringArrayVar(&shifts, "shift", nil, "Shift HH:MM-HH:MM (repeatable)")
	cmd.Flags().StringArrayVar(&fieldDuty, "field-duty-shift", nil, "Field-duty shift HH:MM-HH:MM (repeatable)")
	cmd.Flags().StringVar(&statusStr, "status", "normal", "Day status: normal, sick or vacation")
	cmd.MarkFlagRequired("date")
	return cmd
}

func workdaysCmd(g *globalFlags) *cobra.Command {
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "workdays",
		Short: "Day metas of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := generic.ValidateMonth(year, time.Month(month)); err != nil {
				return err
			}
			from, to := calendar.EventRange(year, time.Month(month))

			env, err := setup(cmd.Context(), g, from, to)
			if err != nil {
				return err
			}
			defer env.close()

			metas, err := env.engine.WorkDays.Build(year, time.Month(month), env.events)
			if err != nil {
				return err
			}
			return printJSON(metas)
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "Year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Month 1-12")
	return cmd
}

// =============================================================================
// SETUP
// =============================================================================

type environment struct {
	engine *pay.Engine
	events generic.EventMap
	close  func()
}

// setup builds the engine and collects the events of [from, to].
func setup(ctx context.Context, g *globalFlags, from, to time.Time) (*environment, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	flagEvents, err := parseEvents(g.events)
	if err != nil {
		return nil, err
	}

	engine, err := pay.NewEngine(pay.EngineConfig{Zone: g.zone})
	if err != nil {
		return nil, err
	}

	env := &environment{engine: engine, events: flagEvents, close: func() {}}
	if g.dbPath == "" {
		return env, nil
	}

	store, err := sqlite.New(g.dbPath)
	if err != nil {
		return nil, err
	}
	env.close = func() { store.Close() }

	stored, err := store.EventMap(ctx, from, to)
	if err != nil {
		store.Close()
		return nil, err
	}
	env.events = stored.Merge(flagEvents)

	perDiem, meal, err := factory.NewRateFactory().LoadRates(ctx, store)
	if err != nil {
		logger.Log.WithError(err).Warn("stored rates unusable, using defaults")
	} else {
		env.engine = engine.WithRates(perDiem, meal)
	}
	return env, nil
}

func parseEvents(raw []string) (generic.EventMap, error) {
	events := make(generic.EventMap)
	for _, e := range raw {
		date, title, ok := strings.Cut(e, "=")
		if !ok || strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("--event %q: expected yyyy-MM-dd=Title", e)
		}
		date = strings.TrimSpace(date)
		if _, err := generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("--event: %w", err)
		}
		events[date] = append(events[date], strings.TrimSpace(title))
	}
	return events, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
