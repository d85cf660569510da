package saturation

import (
	"encoding/json"
	"math"
)

// Phase labels a state's position relative to the saturation dome.
type Phase int

// Phases.
const (
	PhaseUnknown Phase = iota
	PhaseCompressedLiquid
	PhaseSaturatedLiquid
	PhaseSaturatedMixture
	PhaseSaturatedVapor
	PhaseSuperheatedVapor
)

var phaseLabels = map[Phase]string{
	PhaseUnknown:          "Unknown",
	PhaseCompressedLiquid: "Compressed liquid (subcooled)",
	PhaseSaturatedLiquid:  "Saturated liquid (x = 0)",
	PhaseSaturatedMixture: "Saturated mixture (0 < x < 1)",
	PhaseSaturatedVapor:   "Saturated vapor (x = 1)",
	PhaseSuperheatedVapor: "Superheated vapor",
}

// String returns the display label of the phase.
func (p Phase) String() string {
	if s, ok := phaseLabels[p]; ok {
		return s
	}
	return phaseLabels[PhaseUnknown]
}

// MarshalJSON encodes the phase as its label.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Saturated reports whether the phase lies on or inside the dome.
func (p Phase) Saturated() bool {
	return p == PhaseSaturatedLiquid || p == PhaseSaturatedMixture || p == PhaseSaturatedVapor
}

// Guidance is advice on which table to consult for a phase and what to
// supply next.
type Guidance struct {
	Table string `json:"table"`
	Next  string `json:"next"`
}

// Guidance returns table and next-step advice for the phase.
func (p Phase) Guidance() Guidance {
	switch p {
	case PhaseCompressedLiquid:
		return Guidance{
			Table: "Use compressed-liquid data if available; otherwise use saturated-liquid approximation cautiously.",
			Next:  "Bring a second independent property (for example T or h) to lock the state.",
		}
	case PhaseSuperheatedVapor:
		return Guidance{
			Table: "Use the superheated/PT table.",
			Next:  "Interpolate with pressure and one additional property or temperature.",
		}
	case PhaseSaturatedMixture:
		return Guidance{
			Table: "Use saturated table and quality relations.",
			Next:  "You need one extra property (x, h, s, u, or v) to locate the state in the dome.",
		}
	case PhaseSaturatedLiquid, PhaseSaturatedVapor:
		return Guidance{
			Table: "Use saturated table at the same T or P.",
			Next:  "Use f/g properties directly at the saturation state.",
		}
	default:
		return Guidance{
			Table: "Check available tables for this fluid and unit system.",
			Next:  "Reconfirm which two independent properties are known.",
		}
	}
}

// QualityRegion describes where a quality value falls. Values outside
// [0, 1] are described as the side of the dome they extrapolate to.
func QualityRegion(x float64) string {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return "Unknown"
	case x < 0:
		return "Compressed liquid side (x < 0)"
	case x > 1:
		return "Superheated vapor side (x > 1)"
	case math.Abs(x) < 1e-9:
		return "Saturated liquid (x = 0)"
	case math.Abs(x-1) < 1e-9:
		return "Saturated vapor (x = 1)"
	default:
		return "Saturated mixture (0 < x < 1)"
	}
}
