package workflow

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/internal/saturation"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

var statePropsPT = []string{"T", "P", "h", "s", "u", "v"}

// ReverseInput is a state known by pressure and one other property.
type ReverseInput struct {
	Fluid      string
	UnitSystem string
	Key        string // h or s
	P          float64
	Value      float64
}

// ReverseLookup recovers a state from (P, h) or (P, s). The value is first
// placed against the saturation dome at P; states on or inside the dome
// are resolved with quality relations and the rest by reverse
// interpolation on the PT table.
func (r *Runner) ReverseLookup(in ReverseInput) (types.WorkflowResult, error) {
	rep, _, err := r.reverseLookup(in)
	if err != nil {
		return types.WorkflowResult{}, err
	}
	return rep.result(ReverseLookup, reverseStatus(in)), nil
}

func reverseStatus(in ReverseInput) string {
	return fmt.Sprintf("Reverse lookup solved for %s (%s at fixed pressure).", in.Fluid, in.Key)
}

func (r *Runner) reverseLookup(in ReverseInput) (*report, saturation.Phase, error) {
	if _, ok := saturation.TripletFor(in.Key); !ok {
		return nil, saturation.PhaseUnknown, fmt.Errorf("%w: reverse lookup needs h or s, got %q", types.ErrUnknownProperty, in.Key)
	}
	if err := validate(field{"P", in.P}, field{in.Key, in.Value}); err != nil {
		return nil, saturation.PhaseUnknown, err
	}
	pt, err := r.ptTable(in.Fluid, in.UnitSystem)
	if err != nil {
		return nil, saturation.PhaseUnknown, err
	}
	satTbl, err := r.satTable(in.Fluid, in.UnitSystem)
	if err != nil {
		return nil, saturation.PhaseUnknown, err
	}

	rep := &report{}
	phase := saturation.PhaseUnknown
	var sat *types.LookupResult
	var cls *saturation.Classification

	lk, err := interp.Interpolate1D(satTbl.Rows, "P", in.P, satProps)
	if err == nil {
		sat = &lk
		var c saturation.Classification
		c, err = saturation.Classify(lk.Values, in.Key, in.Value)
		if err == nil {
			cls, phase = &c, c.Phase
		}
	}
	if err == nil {
		rep.step("Step 1: At P=%s, interpolate saturated properties.", fnum(in.P))
		rep.step("Step 2: Compare %s=%s to saturation bounds %s to %s.", in.Key, fnum(in.Value), fnum(cls.F), fnum(cls.G))
		rep.step("Phase classification: %s.", phase)
	} else {
		rep.warn("Could not classify phase from saturation data at this pressure: " + err.Error())
		rep.step("Saturation classification unavailable at P=%s. Proceeding with PT reverse lookup only.", fnum(in.P))
	}

	rep.text("Known Pair", "P + "+in.Key, "Reverse lookup inputs")
	rep.text("Phase Region", phase.String(), "From saturation comparison")
	if sat != nil {
		rep.num("Tsat(P)", optional(*sat, "T"), "Saturation temperature at given pressure")
	}
	if cls != nil {
		rep.num(in.Key+"_f", cls.F, "Saturated liquid limit")
		rep.num(in.Key+"_g", cls.G, "Saturated vapor limit")
	}
	if in.P <= 0 {
		rep.warn("Pressure should be positive for physical states.")
	}

	if cls != nil && phase.Saturated() {
		x := cls.X
		switch phase {
		case saturation.PhaseSaturatedLiquid:
			x = 0
		case saturation.PhaseSaturatedVapor:
			x = 1
		}
		rep.num("Quality x", x, saturation.QualityRegion(x))
		rep.num("T", optional(*sat, "T"), "For two-phase states, T = Tsat(P)")
		rep.step("Since the state is in the saturation dome, temperature is Tsat at the specified pressure.")
		rep.mixItems(sat.Values, x, func(key string) string { return key }, false)
		if x < 0 || x > 1 {
			rep.warn("Computed quality is outside 0..1; check the selected property value and units.")
		}
		return rep, phase, nil
	}

	solved, err := interp.Reverse(pt, in.P, in.Key, in.Value, statePropsPT)
	if err != nil {
		if phase == saturation.PhaseCompressedLiquid {
			return nil, phase, fmt.Errorf("reverse lookup could not recover temperature (the state is on the compressed-liquid side and PT tables often do not cover it): %w", err)
		}
		return nil, phase, fmt.Errorf("reverse lookup could not recover temperature: %w", err)
	}
	rep.num("T", optional(solved, "T"), "Recovered from reverse PT lookup")
	for _, k := range []string{"h", "s", "u", "v"} {
		rep.num(k, optional(solved, k), "Resolved state property")
	}
	rep.step("Step 3: Perform reverse lookup in PT table using known pair (P, %s).", in.Key)
	rep.steps = append(rep.steps, solved.Steps...)
	return rep, phase, nil
}

// Pair is a known pair of independent properties.
type Pair string

// Supported pairs.
const (
	PairTP Pair = "TP"
	PairPh Pair = "Ph"
	PairPs Pair = "Ps"
)

// ParsePair returns the pair named s, ignoring case.
func ParsePair(s string) (Pair, error) {
	for _, p := range []Pair{PairTP, PairPh, PairPs} {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported guided pair %q; use TP, Ph, or Ps", types.ErrInvalidInput, s)
}

// GuideInput is a state known by one of the supported pairs. Only the
// fields of the chosen pair are read.
type GuideInput struct {
	Fluid      string
	UnitSystem string
	Pair       Pair
	T, P, H, S float64
}

// StateGuide identifies the phase region of a state and recommends which
// table to consult next. TP runs a phase check; Ph and Ps run a reverse
// lookup.
func (r *Runner) StateGuide(in GuideInput) (types.WorkflowResult, error) {
	pair, err := ParsePair(string(in.Pair))
	if err != nil {
		return types.WorkflowResult{}, err
	}
	rep := &report{}
	rep.text("Known Pair", string(pair), "Guided state identification input")
	rep.step("Step A: Identify a valid pair of independent properties.")
	rep.step("Step B: Determine likely phase region before selecting a table.")

	var (
		sub   *report
		phase saturation.Phase
	)
	switch pair {
	case PairTP:
		sub, phase, err = r.phaseCheck(PhaseInput{Fluid: in.Fluid, UnitSystem: in.UnitSystem, T: in.T, P: in.P})
	case PairPh:
		sub, phase, err = r.reverseLookup(ReverseInput{Fluid: in.Fluid, UnitSystem: in.UnitSystem, Key: "h", P: in.P, Value: in.H})
	case PairPs:
		sub, phase, err = r.reverseLookup(ReverseInput{Fluid: in.Fluid, UnitSystem: in.UnitSystem, Key: "s", P: in.P, Value: in.S})
	}
	if err != nil {
		return types.WorkflowResult{}, err
	}
	rep.merge(sub)

	g := phase.Guidance()
	rep.text("Recommended Table", g.Table, "What to open next")
	rep.text("Next Step", g.Next, "How to continue the solution")
	rep.step("Step C: Recommended table path -> %s", g.Table)
	rep.step("Step D: Next action -> %s", g.Next)

	if phase == saturation.PhaseSaturatedMixture {
		rep.warn("State is in the two-phase dome; a second property (or quality) is needed for a unique state.")
	}
	return rep.result(StateGuide, fmt.Sprintf("Guided state identification completed for %s.", in.Fluid)), nil
}
