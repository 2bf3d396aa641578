/*
Package generic provides the domain-agnostic building blocks of the pay engine.

PURPOSE:
  This package contains the small value types and algorithms that every
  calculator in the engine shares. Whether a breakdown describes overtime
  tiers, night premiums, or Sabbath premiums, it is made of the same
  percent-tagged Segments and is reduced with the same accumulate/subtract
  protocol.

KEY CONCEPTS IN THIS FILE (types.go):
  - Segment: hours paid at a fixed percent of the base rate
  - ClampMoney: decimal amounts never go below zero
  - EventMap: calendar titles keyed by yyyy-MM-dd date

DESIGN PRINCIPLES:
  1. Purity: calculators return new values, they never mutate their inputs
  2. Precision: money uses decimal.Decimal, hours are rounded to a micro-hour
  3. Totality: empty or partial input degrades to zero values

USAGE:
  seg := generic.NewSegment(150, 2.5)
  pay := decimal.NewFromFloat(seg.Hours).Mul(rate)

SEE ALSO:
  - reducer.go: Reducer protocol and the segment-field helper
  - time.go: Clock and date helpers
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SEGMENT - Hours paid at a fixed multiplier of the base rate
// =============================================================================

// Segment is an amount of time paid at Percent of the base hourly rate.
type Segment struct {
	Percent int     `json:"percent"`
	Hours   float64 `json:"hours"`
}

func NewSegment(percent int, hours float64) Segment {
	return Segment{Percent: percent, Hours: RoundHours(hours)}
}

func (s Segment) IsZero() bool { return s.Hours == 0 }

// WithHours returns a copy of s carrying hours, keeping the percent tag.
func (s Segment) WithHours(hours float64) Segment {
	return Segment{Percent: s.Percent, Hours: RoundHours(hours)}
}

// hourPrecision is one micro-hour. Rounding every stored value to it keeps
// accumulate/subtract exactly reversible despite binary floating point.
const hourPrecision = 1e6

// RoundHours rounds h to the engine's hour precision.
func RoundHours(h float64) float64 {
	return math.Round(h*hourPrecision) / hourPrecision
}

// MinutesToHours converts a minute count to rounded hours.
func MinutesToHours(minutes int) float64 {
	return RoundHours(float64(minutes) / 60)
}

// =============================================================================
// MONEY
// =============================================================================

// ClampMoney returns d, or zero when d is negative.
func ClampMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// CALENDAR EVENTS
// =============================================================================

// EventMap holds calendar event titles keyed by yyyy-MM-dd date. It is the
// already-resolved output of the external holiday source.
type EventMap map[string][]string

// Titles returns the titles for date, or nil when the date has no events.
func (m EventMap) Titles(date string) []string {
	if m == nil {
		return nil
	}
	return m[date]
}

// Merge returns a new map with the entries of m overlaid by other.
func (m EventMap) Merge(other EventMap) EventMap {
	out := make(EventMap, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
