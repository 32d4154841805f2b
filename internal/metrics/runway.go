package metrics

import (
	"encoding/json"
	"fmt"
	"math"
)

// Runway is the months of operation left at the current burn. A zero or
// negative burn yields the infinite sentinel, which carries no number.
type Runway struct {
	months   float64
	infinite bool
}

// RunwayMonths projects cashBalance / monthlyBurn. A negative balance
// projects to zero months.
func RunwayMonths(cashBalance, monthlyBurn float64) Runway {
	if !(monthlyBurn > 0) || math.IsInf(monthlyBurn, 0) {
		return Runway{infinite: true}
	}
	m := cashBalance / monthlyBurn
	if m < 0 || math.IsNaN(m) {
		m = 0
	}
	return Runway{months: m}
}

// Months returns the projection and false for the infinite sentinel.
func (r Runway) Months() (float64, bool) {
	if r.infinite {
		return 0, false
	}
	return r.months, true
}

func (r Runway) Infinite() bool { return r.infinite }

func (r Runway) String() string {
	if r.infinite {
		return "infinite"
	}
	return fmt.Sprintf("%.1f months", r.months)
}

type runwayJSON struct {
	Months   *float64 `json:"months"`
	Infinite bool     `json:"infinite"`
}

func (r Runway) MarshalJSON() ([]byte, error) {
	out := runwayJSON{Infinite: r.infinite}
	if !r.infinite {
		m := math.Round(r.months*10) / 10
		out.Months = &m
	}
	return json.Marshal(out)
}
