// Package cycle builds thermodynamic cycles from the property tables in a
// tables.Store. Each template resolves its state points with the
// interpolation and saturation packages and reports derived metrics plus
// sanity warnings.
package cycle

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Template identifies a cycle model.
type Template int

// Supported templates.
const (
	RankineIdeal Template = iota
	RankineReheat
	VCR
	Brayton
	SteamLoop
)

// InputSpec describes one template input.
type InputSpec struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Unit    string          `json:"unit,omitempty"`
	Kind    types.InputKind `json:"-"`
	Default float64         `json:"default"`
}

// MetricSpec describes one metric a template can report as a solve target.
type MetricSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

type templateDef struct {
	id      string
	label   string
	fluid   string
	inputs  []InputSpec
	metrics []MetricSpec
}

var (
	inPLowCondenser = InputSpec{Key: "pLow", Label: "Condenser pressure P_low", Unit: "kPa", Kind: types.InputPressure, Default: 10}
	inEtaP          = InputSpec{Key: "etaP", Label: "Pump efficiency eta_p", Kind: types.InputEfficiency, Default: 1}

	mWnet  = MetricSpec{Key: "wnet", Label: "Net work", Unit: "kJ/kg"}
	mEta   = MetricSpec{Key: "eta_th", Label: "Thermal efficiency", Unit: "-"}
	mWt    = MetricSpec{Key: "wt", Label: "Turbine work", Unit: "kJ/kg"}
	mWp    = MetricSpec{Key: "wp", Label: "Pump work", Unit: "kJ/kg"}
	mQin   = MetricSpec{Key: "qin", Label: "Heat input", Unit: "kJ/kg"}
	mQout  = MetricSpec{Key: "qout", Label: "Heat rejected", Unit: "kJ/kg"}
	mBwr   = MetricSpec{Key: "bwr", Label: "Back work ratio", Unit: "-"}
	mWcomp = MetricSpec{Key: "wcomp", Label: "Compressor work", Unit: "kJ/kg"}
)

var templateDefs = [...]templateDef{
	RankineIdeal: {
		id:    "rankine-ideal",
		label: "Ideal Rankine",
		fluid: "Water",
		inputs: []InputSpec{
			inPLowCondenser,
			{Key: "pHigh", Label: "Boiler pressure P_high", Unit: "kPa", Kind: types.InputPressure, Default: 8000},
			{Key: "t3", Label: "Turbine inlet temperature T3", Unit: "C", Kind: types.InputTemperature, Default: 480},
			{Key: "etaT", Label: "Turbine efficiency eta_t", Kind: types.InputEfficiency, Default: 1},
			inEtaP,
		},
		metrics: []MetricSpec{mWnet, mEta, mWt, mWp, mQin, mQout, mBwr,
			{Key: "x4", Label: "Turbine exit quality", Unit: "-"}},
	},
	RankineReheat: {
		id:    "rankine-reheat",
		label: "Rankine with Reheat",
		fluid: "Water",
		inputs: []InputSpec{
			inPLowCondenser,
			{Key: "pMid", Label: "Reheat pressure P_mid", Unit: "kPa", Kind: types.InputPressure, Default: 2500},
			{Key: "pHigh", Label: "Boiler pressure P_high", Unit: "kPa", Kind: types.InputPressure, Default: 12000},
			{Key: "t3", Label: "HP turbine inlet temperature T3", Unit: "C", Kind: types.InputTemperature, Default: 520},
			{Key: "t5", Label: "Reheat temperature T5", Unit: "C", Kind: types.InputTemperature, Default: 520},
			{Key: "etaTHP", Label: "HP turbine efficiency", Kind: types.InputEfficiency, Default: 1},
			{Key: "etaTLP", Label: "LP turbine efficiency", Kind: types.InputEfficiency, Default: 1},
			inEtaP,
		},
		metrics: []MetricSpec{mWnet, mEta, mWt, mWp, mQin, mQout, mBwr,
			{Key: "x6", Label: "LP turbine exit quality", Unit: "-"}},
	},
	VCR: {
		id:    "vcr",
		label: "Vapor Compression Refrigeration",
		fluid: "R-134a",
		inputs: []InputSpec{
			{Key: "pLow", Label: "Evaporator pressure P_low", Unit: "kPa", Kind: types.InputPressure, Default: 220},
			{Key: "pHigh", Label: "Condenser pressure P_high", Unit: "kPa", Kind: types.InputPressure, Default: 900},
			{Key: "superheat", Label: "Evaporator outlet superheat DeltaT", Unit: "C", Kind: types.InputOther, Default: 0},
			{Key: "etaC", Label: "Compressor isentropic efficiency", Kind: types.InputEfficiency, Default: 1},
		},
		metrics: []MetricSpec{
			{Key: "cop", Label: "COP", Unit: "-"},
			{Key: "qL", Label: "Refrigerating effect", Unit: "kJ/kg"},
			mWcomp,
			{Key: "qH", Label: "Heat rejected", Unit: "kJ/kg"},
			{Key: "x4", Label: "Valve exit quality", Unit: "-"},
		},
	},
	Brayton: {
		id:    "brayton",
		label: "Brayton",
		fluid: "Nitrogen",
		inputs: []InputSpec{
			{Key: "pLow", Label: "Compressor inlet pressure P_low", Unit: "kPa", Kind: types.InputPressure, Default: 100},
			{Key: "pHigh", Label: "Compressor outlet pressure P_high", Unit: "kPa", Kind: types.InputPressure, Default: 1000},
			{Key: "t1", Label: "Compressor inlet temperature T1", Unit: "K", Kind: types.InputTemperature, Default: 300},
			{Key: "t3", Label: "Turbine inlet temperature T3", Unit: "K", Kind: types.InputTemperature, Default: 950},
			{Key: "etaC", Label: "Compressor efficiency eta_c", Kind: types.InputEfficiency, Default: 1},
			{Key: "etaT", Label: "Turbine efficiency eta_t", Kind: types.InputEfficiency, Default: 1},
		},
		metrics: []MetricSpec{mWnet, mEta, mWt, mWcomp,
			{Key: "pressure_ratio", Label: "Pressure ratio", Unit: "-"}},
	},
	SteamLoop: {
		id:    "steam-loop",
		label: "Simple Steam Loop",
		fluid: "Water",
		inputs: []InputSpec{
			{Key: "pLow", Label: "Low pressure P_low", Unit: "kPa", Kind: types.InputPressure, Default: 500},
			{Key: "pHigh", Label: "High pressure P_high", Unit: "kPa", Kind: types.InputPressure, Default: 5000},
			{Key: "t3", Label: "Heater outlet temperature T3", Unit: "C", Kind: types.InputTemperature, Default: 420},
			{Key: "etaT", Label: "Expansion efficiency eta_t", Kind: types.InputEfficiency, Default: 1},
			inEtaP,
		},
		metrics: []MetricSpec{
			{Key: "wnet", Label: "Net specific work", Unit: "kJ/kg"},
			mEta,
			{Key: "wt", Label: "Turbine-side work", Unit: "kJ/kg"},
			{Key: "wp", Label: "Pump-side work", Unit: "kJ/kg"},
			mQin, mQout,
			{Key: "x4", Label: "Expansion exit quality", Unit: "-"},
		},
	},
}

// Templates returns every template in display order.
func Templates() []Template {
	return []Template{RankineIdeal, RankineReheat, VCR, Brayton, SteamLoop}
}

// ParseTemplate returns the template with the given ID.
// Returns ErrUnknownTemplate if the ID is not recognized.
func ParseTemplate(id string) (Template, error) {
	for _, t := range Templates() {
		if strings.EqualFold(t.ID(), strings.TrimSpace(id)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", types.ErrUnknownTemplate, id)
}

func (t Template) def() templateDef {
	if t < 0 || int(t) >= len(templateDefs) {
		return templateDef{id: fmt.Sprintf("template(%d)", int(t))}
	}
	return templateDefs[t]
}

// ID returns the stable template identifier, for example "rankine-ideal".
func (t Template) ID() string { return t.def().id }

// String implements fmt.Stringer.
func (t Template) String() string { return t.ID() }

// Label returns the display name.
func (t Template) Label() string { return t.def().label }

// Fluid returns the working fluid the template reads tables for.
func (t Template) Fluid() string { return t.def().fluid }

// Inputs returns the input schema in display order.
func (t Template) Inputs() []InputSpec { return slices.Clone(t.def().inputs) }

// Metrics returns the metrics that may be used as solve targets.
func (t Template) Metrics() []MetricSpec { return slices.Clone(t.def().metrics) }

// Input returns the schema entry for key.
func (t Template) Input(key string) (InputSpec, bool) {
	for _, in := range t.def().inputs {
		if in.Key == key {
			return in, true
		}
	}
	return InputSpec{}, false
}

// HasMetric reports whether key is one of the template's target metrics.
func (t Template) HasMetric(key string) bool {
	return slices.ContainsFunc(t.def().metrics, func(m MetricSpec) bool { return m.Key == key })
}

// Defaults returns the default value of every input.
func (t Template) Defaults() map[string]float64 {
	out := make(map[string]float64, len(t.def().inputs))
	for _, in := range t.def().inputs {
		out[in.Key] = in.Default
	}
	return out
}

// Merge overlays inputs on the template defaults. Absent keys take their
// default. Unknown keys and non-finite values return ErrInvalidInput.
func (t Template) Merge(inputs map[string]float64) (map[string]float64, error) {
	merged := t.Defaults()
	for _, k := range slices.Sorted(maps.Keys(inputs)) {
		if _, ok := merged[k]; !ok {
			return nil, fmt.Errorf("%w: %s has no input %q", types.ErrInvalidInput, t.ID(), k)
		}
		v := inputs[k]
		if !types.IsFinite(v) {
			return nil, fmt.Errorf("%w: %s must be a finite number", types.ErrInvalidInput, k)
		}
		merged[k] = v
	}
	return merged, nil
}
