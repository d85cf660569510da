// Package saturation classifies a state against the saturation dome using
// the liquid (f), evaporation (fg), and vapor (g) values of one property at
// a saturation state, and derives vapor quality.
package saturation

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// minFG is the smallest evaporation span treated as resolvable.
const minFG = 1e-12

// Triplet names the saturated-liquid, evaporation, and saturated-vapor
// columns of one property.
type Triplet struct {
	Key  string
	F    string
	FG   string
	G    string
	Name string
}

// triplets lists the properties that support quality relations.
var triplets = map[string]Triplet{
	"h": {Key: "h", F: "hf", FG: "hfg", G: "hg", Name: "enthalpy"},
	"s": {Key: "s", F: "sf", FG: "sfg", G: "sg", Name: "entropy"},
	"u": {Key: "u", F: "uf", FG: "ufg", G: "ug", Name: "internal energy"},
	"v": {Key: "v", F: "vf", FG: "vfg", G: "vg", Name: "specific volume"},
}

// TripletFor returns the column names for property key.
func TripletFor(key string) (Triplet, bool) {
	t, ok := triplets[key]
	return t, ok
}

// QualityProperties returns the keys that support quality relations.
func QualityProperties() []string {
	return []string{"h", "s", "u", "v"}
}

// Values is a resolved f/fg/g triple.
type Values struct {
	F, FG, G float64
}

// Resolve reads the triplet for key from a saturation state. G falls back
// to F+FG when absent. It returns ErrUnknownProperty for keys without a
// triplet and ErrUnresolvedSaturationData when the values are missing or
// the evaporation span is effectively zero.
func Resolve(sat map[string]float64, key string) (Values, error) {
	t, ok := triplets[key]
	if !ok {
		return Values{}, fmt.Errorf("%w: %s is not supported for saturation classification", types.ErrUnknownProperty, key)
	}
	f, okF := finite(sat, t.F)
	fg, okFG := finite(sat, t.FG)
	g, okG := finite(sat, t.G)
	if !okG && okF && okFG {
		g, okG = f+fg, true
	}
	if !okF || !okG || !okFG || math.Abs(fg) < minFG {
		return Values{}, fmt.Errorf("%w: %s/%s/%s are unavailable", types.ErrUnresolvedSaturationData, t.F, t.G, t.FG)
	}
	return Values{F: f, FG: fg, G: g}, nil
}

func finite(m map[string]float64, key string) (float64, bool) {
	v, ok := m[key]
	return v, ok && types.IsFinite(v)
}

// Classification is the phase of a state relative to the dome.
type Classification struct {
	Phase     Phase   `json:"phase"`
	X         float64 `json:"x"`
	Tolerance float64 `json:"tolerance"`
	F         float64 `json:"f"`
	G         float64 `json:"g"`
}

// Classify places value of property key against the saturation state sat.
// Within tol = max(1e-9, 0.002*|g-f|) of either saturation line the quality
// is reported as exactly 0 or 1. Outside the dome the quality is the
// extrapolated (value-f)/fg, which may be negative or exceed 1.
func Classify(sat map[string]float64, key string, value float64) (Classification, error) {
	tv, err := Resolve(sat, key)
	if err != nil {
		return Classification{}, err
	}

	tol := math.Max(1e-9, 0.002*math.Abs(tv.G-tv.F))
	c := Classification{X: (value - tv.F) / tv.FG, Tolerance: tol, F: tv.F, G: tv.G}

	switch {
	case value < tv.F-tol:
		c.Phase = PhaseCompressedLiquid
	case value > tv.G+tol:
		c.Phase = PhaseSuperheatedVapor
	case math.Abs(value-tv.F) <= tol:
		c.Phase = PhaseSaturatedLiquid
		c.X = 0
	case math.Abs(value-tv.G) <= tol:
		c.Phase = PhaseSaturatedVapor
		c.X = 1
	default:
		c.Phase = PhaseSaturatedMixture
	}
	return c, nil
}

// Mix returns f + x*fg for property key, reporting false when the triplet
// cannot be resolved from sat.
func Mix(sat map[string]float64, key string, x float64) (float64, bool) {
	t, ok := triplets[key]
	if !ok {
		return 0, false
	}
	f, okF := finite(sat, t.F)
	fg, okFG := finite(sat, t.FG)
	if !okF || !okFG {
		return 0, false
	}
	return f + x*fg, true
}

// Side is where a value falls relative to the dome at fixed pressure.
type Side int

// Dome sides.
const (
	Above Side = iota // superheated, or the triplet could not be resolved
	Below             // compressed liquid
	Inside            // on or within the saturation lines
)

// locateTol is the fixed tolerance used when placing cycle states.
const locateTol = 1e-7

// Locate places value of property key relative to the dome and, when
// Inside, returns the quality clamped to [0, 1]. A state whose triplet
// cannot be resolved is reported as Above so callers fall through to a
// single-phase lookup.
func Locate(sat map[string]float64, key string, value float64) (Side, float64) {
	tv, err := Resolve(sat, key)
	if err != nil {
		return Above, math.NaN()
	}
	switch {
	case value < tv.F-locateTol:
		return Below, math.NaN()
	case value <= tv.G+locateTol:
		return Inside, types.Clamp((value-tv.F)/tv.FG, 0, 1)
	default:
		return Above, math.NaN()
	}
}
