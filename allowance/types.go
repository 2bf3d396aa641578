/*
Package allowance computes the point-based allowances paid on top of hours.

PURPOSE:
  Two allowances are priced in points, and points are priced by a
  date-versioned rate:

  Per-diem (field duty, אש״ל):
    Shifts flagged as field duty add up to a day's field-duty hours. The
    hours select a tier, the tier is worth points, and the points are
    multiplied by the month's per-diem rate.

  Meal allowance (כלכלה):
    The day's shift pattern (a morning presence, a night presence, a
    field-duty day) entitles it to small and large meal points, priced by
    the month's meal rates.

TIERS (per-diem, first match from the top):
  >= 12h  tier C  3 points
  >=  8h  tier B  2 points
  >=  4h  tier A  1 point
  else    none    0 points

MONTH LEVEL:
  Points and amounts sum across days. A tier is a property of one day and
  does not sum, so month aggregates always carry no tier.

SEE ALSO:
  - perdiem.go: Shift, day and month per-diem calculators
  - meal.go: Meal-day classification and allowance resolution
  - rates.go: Date-versioned rate tables
*/
package allowance

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PER-DIEM TYPES
// =============================================================================

// PerDiemTier is a day's field-duty tier. The zero value means no tier and
// encodes as JSON null.
type PerDiemTier string

const (
	TierNone PerDiemTier = ""
	TierA    PerDiemTier = "A"
	TierB    PerDiemTier = "B"
	TierC    PerDiemTier = "C"
)

func (t PerDiemTier) MarshalJSON() ([]byte, error) {
	if t == TierNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

func (t *PerDiemTier) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = TierNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch PerDiemTier(s) {
	case TierNone, TierA, TierB, TierC:
		*t = PerDiemTier(s)
		return nil
	}
	return fmt.Errorf("unknown per-diem tier %q", s)
}

// PerDiemShiftInfo is one shift's contribution to the day's field-duty hours.
type PerDiemShiftInfo struct {
	IsFieldDutyShift bool    `json:"isFieldDutyShift"`
	Hours            float64 `json:"hours"`
}

// PerDiemInfo is a day's or a month's per-diem entitlement.
type PerDiemInfo struct {
	Tier   PerDiemTier     `json:"tier"`
	Points int             `json:"points"`
	Amount decimal.Decimal `json:"amount"`
}

// PerDiemDay is a day's per-diem result.
type PerDiemDay struct {
	IsFieldDutyDay bool        `json:"isFieldDutyDay"`
	DiemInfo       PerDiemInfo `json:"diemInfo"`
}

// =============================================================================
// MEAL ALLOWANCE TYPES
// =============================================================================

type MealAllowanceEntry struct {
	Points int             `json:"points"`
	Amount decimal.Decimal `json:"amount"`
}

type MealAllowance struct {
	Small MealAllowanceEntry `json:"small"`
	Large MealAllowanceEntry `json:"large"`
}

// MealDayInfo is the shift-pattern classification of a day.
type MealDayInfo struct {
	TotalHours     float64 `json:"totalHours"`
	HasMorning     bool    `json:"hasMorning"`
	HasNight       bool    `json:"hasNight"`
	IsFieldDutyDay bool    `json:"isFieldDutyDay"`
}
