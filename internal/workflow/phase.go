package workflow

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/internal/saturation"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

var satProps = []string{"T", "P", "vf", "vfg", "vg", "uf", "ufg", "ug", "hf", "hfg", "hg", "sf", "sfg", "sg"}

// PhaseInput locates a state given by temperature and pressure. When
// QualityProperty is set, QualityValue is that property's value and the
// quality is computed from the saturation state at T.
type PhaseInput struct {
	Fluid           string
	UnitSystem      string
	T               float64
	P               float64
	QualityProperty string
	QualityValue    *float64
}

// pressure regions decided by comparing P against Psat(T).
const (
	regionCompressed  = "Compressed liquid (subcooled)"
	regionSuperheated = "Superheated vapor"
	regionMixture     = "Saturated mixture region"
)

// PhaseCheck decides the phase region of (T, P) by comparing P to the
// saturation pressure at T within max(1e-4, 1% of Psat).
func (r *Runner) PhaseCheck(in PhaseInput) (types.WorkflowResult, error) {
	rep, _, err := r.phaseCheck(in)
	if err != nil {
		return types.WorkflowResult{}, err
	}
	return rep.result(PhaseCheck, fmt.Sprintf("Phase workflow solved for %s.", in.Fluid)), nil
}

func (r *Runner) phaseCheck(in PhaseInput) (*report, saturation.Phase, error) {
	if err := validate(field{"T", in.T}, field{"P", in.P}); err != nil {
		return nil, saturation.PhaseUnknown, err
	}
	tbl, err := r.satTable(in.Fluid, in.UnitSystem)
	if err != nil {
		return nil, saturation.PhaseUnknown, err
	}
	lk, err := interp.Interpolate1D(tbl.Rows, "T", in.T, satProps[1:])
	if err != nil {
		return nil, saturation.PhaseUnknown, err
	}
	sat := lk.Values
	pSat, ok := lk.Value("P")
	if !ok {
		return nil, saturation.PhaseUnknown, fmt.Errorf("%w: saturation pressure was not found at the selected temperature", types.ErrInsufficientData)
	}

	deltaP := in.P - pSat
	deltaPct := types.SafeRatio(deltaP, pSat)
	tol := math.Max(1e-4, math.Abs(pSat)*0.01)

	region, phase := regionMixture, saturation.PhaseSaturatedMixture
	switch {
	case in.P > pSat+tol:
		region, phase = regionCompressed, saturation.PhaseCompressedLiquid
	case in.P < pSat-tol:
		region, phase = regionSuperheated, saturation.PhaseSuperheatedVapor
	}

	rep := &report{}
	rep.step("From saturated table at T=%s, Psat=%s.", fnum(in.T), fnum(pSat))
	rep.step("Compare given P=%s against Psat with tolerance %s.", fnum(in.P), fnum(tol))
	rep.step("Phase decision: %s.", region)

	x := math.NaN()
	if in.QualityProperty != "" {
		x, err = qualityFrom(sat, in.QualityProperty, in.QualityValue)
		if err != nil {
			return nil, saturation.PhaseUnknown, err
		}
		t, _ := saturation.TripletFor(in.QualityProperty)
		rep.step("Quality from %s: x = (%s - %s) / %s = %s.",
			in.QualityProperty, fnum(*in.QualityValue), fnum(sat[t.F]), fnum(sat[t.FG]), fnum(x))
		rep.step("Quality interpretation: %s.", saturation.QualityRegion(x))
	}

	rep.text("Phase Region", region, "From P vs Psat(T)")
	rep.num("Psat at T", pSat, "Saturation pressure")
	rep.num("Delta P", deltaP, "P - Psat")
	rep.numUnit("Delta P %", deltaPct*100, "%", "Relative pressure offset")

	if types.IsFinite(x) {
		rep.num("Quality x", x, saturation.QualityRegion(x))
		rep.mixItems(sat, x, func(key string) string { return key + " (from x)" }, false)
		if x < 0 || x > 1 {
			rep.warn("Quality is outside 0..1, which is not physically valid for a two-phase mixture.")
		}
	}
	if in.P <= 0 {
		rep.warn("Pressure should be positive for a physical state.")
	}
	if phase == saturation.PhaseSaturatedMixture && !types.IsFinite(x) {
		rep.warn("Region is saturated; add one more property (or x) to locate a unique state.")
	}
	return rep, phase, nil
}

// qualityFrom computes x = (value - f) / fg for property key.
func qualityFrom(sat map[string]float64, key string, value *float64) (float64, error) {
	t, ok := saturation.TripletFor(key)
	if !ok {
		return 0, fmt.Errorf("%w: unsupported quality property %q", types.ErrUnknownProperty, key)
	}
	if value == nil || !types.IsFinite(*value) {
		return 0, fmt.Errorf("%w: enter a %s value to compute quality", types.ErrInvalidInput, t.Name)
	}
	f, okF := sat[t.F]
	fg, okFG := sat[t.FG]
	if !okF || !okFG || math.Abs(fg) < 1e-12 {
		return 0, fmt.Errorf("%w: could not compute quality from %s", types.ErrUnresolvedSaturationData, key)
	}
	return (*value - f) / fg, nil
}

// Basis is the saturation property a two-phase state is anchored on.
type Basis string

// Bases.
const (
	BasisT Basis = "T"
	BasisP Basis = "P"
)

// TwoPhaseInput is a saturated mixture anchored at T or P. X gives the
// quality directly; otherwise QualityProperty and QualityValue derive it.
type TwoPhaseInput struct {
	Fluid           string
	UnitSystem      string
	Basis           Basis
	Value           float64
	X               *float64
	QualityProperty string
	QualityValue    *float64
}

// TwoPhase resolves a saturated mixture: the saturation state at the basis
// value and the mixture properties f + x*fg.
func (r *Runner) TwoPhase(in TwoPhaseInput) (types.WorkflowResult, error) {
	if in.Basis != BasisT && in.Basis != BasisP {
		return types.WorkflowResult{}, fmt.Errorf("%w: basis must be T or P, got %q", types.ErrInvalidInput, in.Basis)
	}
	if err := validate(field{string(in.Basis), in.Value}); err != nil {
		return types.WorkflowResult{}, err
	}
	tbl, err := r.satTable(in.Fluid, in.UnitSystem)
	if err != nil {
		return types.WorkflowResult{}, err
	}
	lk, err := interp.Interpolate1D(tbl.Rows, string(in.Basis), in.Value, satProps)
	if err != nil {
		return types.WorkflowResult{}, err
	}
	sat := lk.Values
	tSat := optional(lk, "T")
	pSat := optional(lk, "P")

	rep := &report{}
	rep.step("Saturation lookup using %s=%s.", in.Basis, fnum(in.Value))
	rep.step("Resolved state: Tsat=%s, Psat=%s.", fnum(tSat), fnum(pSat))

	var x float64
	switch {
	case in.X != nil:
		if !types.IsFinite(*in.X) {
			return types.WorkflowResult{}, fmt.Errorf("%w: quality x must be a finite number", types.ErrInvalidInput)
		}
		x = *in.X
		rep.step("Using provided quality x=%s.", fnum(x))
	case in.QualityProperty != "":
		x, err = qualityFrom(sat, in.QualityProperty, in.QualityValue)
		if err != nil {
			return types.WorkflowResult{}, err
		}
		t, _ := saturation.TripletFor(in.QualityProperty)
		rep.step("Computed quality from %s: x = (%s - %s) / %s = %s.",
			in.QualityProperty, fnum(*in.QualityValue), fnum(sat[t.F]), fnum(sat[t.FG]), fnum(x))
	default:
		return types.WorkflowResult{}, fmt.Errorf("%w: give quality x or a property to compute it from", types.ErrInvalidInput)
	}

	rep.num("Tsat", tSat, "Saturation temperature")
	rep.num("Psat", pSat, "Saturation pressure")
	rep.num("Quality x", x, saturation.QualityRegion(x))
	rep.text("Region", saturation.QualityRegion(x), "From quality")
	rep.mixItems(sat, x, func(key string) string { return key }, true)

	if x < 0 || x > 1 {
		rep.warn("Quality is outside 0..1, so this is not a physically valid saturated-mixture state.")
	}
	return rep.result(TwoPhase, fmt.Sprintf("Two-phase workflow solved for %s.", in.Fluid)), nil
}

// optional returns the value of prop in lk, or NaN when absent.
func optional(lk types.LookupResult, prop string) float64 {
	if v, ok := lk.Value(prop); ok {
		return v
	}
	return math.NaN()
}
