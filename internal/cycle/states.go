package cycle

import (
	"errors"
	"fmt"
	"math"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/internal/saturation"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// state is a resolved point before it is labeled. Unknown fields are NaN.
type state struct {
	T, P, H, S, U, V, X float64
	Region             string
}

func newState() state {
	nan := math.NaN()
	return state{T: nan, P: nan, H: nan, S: nan, U: nan, V: nan, X: nan}
}

func stateFrom(values map[string]float64, p float64, region string) state {
	st := newState()
	st.P = p
	st.Region = region
	st.T, st.H, st.S = value(values, "T"), value(values, "h"), value(values, "s")
	st.U, st.V = value(values, "u"), value(values, "v")
	return st
}

// value returns m[k], or NaN when k is absent or not finite.
func value(m map[string]float64, k string) float64 {
	v, ok := m[k]
	if !ok || !types.IsFinite(v) {
		return math.NaN()
	}
	return v
}

func optional(v float64) *float64 {
	if !types.IsFinite(v) {
		return nil
	}
	return &v
}

func (st state) point(id, label string) types.StatePoint {
	return types.StatePoint{
		ID:     id,
		Label:  label,
		T:      st.T,
		P:      st.P,
		H:      st.H,
		S:      st.S,
		U:      optional(st.U),
		V:      optional(st.V),
		X:      optional(st.X),
		Region: st.Region,
	}
}

var (
	ptProps  = []string{"T", "P", "h", "s", "u", "v"}
	satProps = []string{"T", "vf", "vfg", "uf", "ufg", "hf", "hfg", "sf", "sfg", "sg"}
)

// saturationAt interpolates a saturation table on pressure.
func saturationAt(sat types.Table, p float64, props []string) (map[string]float64, error) {
	res, err := interp.Interpolate1D(sat.Rows, "P", p, props)
	if err != nil {
		return nil, fmt.Errorf("saturation at P = %s: %w", types.FormatNumber(p), err)
	}
	return res.Values, nil
}

// clampTemperature limits t to the temperature span a PT table supports at p.
func clampTemperature(pt types.Table, p, t float64) (float64, error) {
	r, ok := interp.TableTemperatureRange(pt, p)
	if !ok {
		return math.NaN(), &types.RangeError{
			Key:    "P",
			Value:  p,
			Detail: fmt.Sprintf("no valid T range at P=%s for %s", types.FormatNumber(p), pt.SheetName),
		}
	}
	return types.Clamp(t, r.Min, r.Max), nil
}

// compressedLiquidTemperature estimates the pump outlet temperature from
// the enthalpy rise with a fixed liquid heat capacity.
func compressedLiquidTemperature(tRef, hRef, hOut float64) float64 {
	if !types.IsFinite(tRef) {
		return math.NaN()
	}
	if !types.IsFinite(hRef) || !types.IsFinite(hOut) {
		return tRef
	}
	return tRef + types.Clamp((hOut-hRef)/4.2, 0.2, 12)
}

// ptAtPressure solves a PT state at pressure p where key equals target. When
// the reverse lookup fails and fallbackT is finite, the state is taken at the
// clamped fallback temperature and tagged fallback-PT.
func ptAtPressure(pt types.Table, p float64, key string, target, fallbackT float64) (state, error) {
	res, err := interp.Reverse(pt, p, key, target, ptProps)
	if err == nil {
		return stateFrom(res.Values, p, types.RegionSinglePhase), nil
	}
	if !types.IsFinite(fallbackT) {
		return state{}, err
	}
	t, cerr := clampTemperature(pt, p, fallbackT)
	if cerr != nil {
		return state{}, errors.Join(err, cerr)
	}
	res, ferr := interp.InterpolatePT(pt.Rows, p, t, ptProps)
	if ferr != nil {
		return state{}, ferr
	}
	return stateFrom(res.Values, p, types.RegionFallbackPT), nil
}

// withSaturation places a state of known pressure and entropy or enthalpy
// against the dome. Compressed liquid is approximated from saturated liquid
// and two-phase states are mixed at quality x. Superheated states come from
// the PT table, falling back to the saturation temperature for entropy
// targets and to fallbackT for enthalpy targets.
func withSaturation(sat, pt types.Table, p float64, key string, target, fallbackT float64) (state, error) {
	sv, err := saturationAt(sat, p, satProps)
	if err != nil {
		return state{}, err
	}

	side, x := saturation.Locate(sv, key, target)
	switch side {
	case saturation.Below:
		st := newState()
		st.T, st.P = value(sv, "T"), p
		st.Region = types.RegionCompressedLiquid
		if key == "s" {
			st.H, st.S = value(sv, "hf"), target
		} else {
			st.H, st.S = target, value(sv, "sf")
		}
		st.U, st.V = value(sv, "uf"), value(sv, "vf")
		return st, nil

	case saturation.Inside:
		st := newState()
		st.T, st.P, st.X = value(sv, "T"), p, x
		st.Region = types.RegionSaturatedMixture
		mix := func(k string) float64 {
			v, ok := saturation.Mix(sv, k, x)
			if !ok {
				return math.NaN()
			}
			return v
		}
		st.H, st.S, st.U, st.V = mix("h"), mix("s"), mix("u"), mix("v")
		if key == "s" {
			st.S = target
		} else {
			st.H = target
		}
		return st, nil

	default:
		if key == "s" {
			fallbackT = value(sv, "T")
		}
		st, err := ptAtPressure(pt, p, key, target, fallbackT)
		if err != nil {
			return state{}, err
		}
		if st.Region != types.RegionFallbackPT {
			st.Region = types.RegionSuperheated
		}
		return st, nil
	}
}
