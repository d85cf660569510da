package interp

import (
	"fmt"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Lookup interpolates a table at the given index inputs: T for sat-T, P for
// sat-P, and both P and T for PT tables. A nil props list selects every
// table property in display order.
func Lookup(tbl types.Table, inputs map[string]float64, props []string) (types.LookupResult, error) {
	if props == nil {
		props = tbl.SortedProperties()
	}
	for _, k := range tbl.Mode.IndexKeys() {
		v, ok := inputs[k]
		if !ok || !types.IsFinite(v) {
			return types.LookupResult{}, fmt.Errorf("%w: %s requires a finite %s", types.ErrInvalidInput, tbl.Mode, k)
		}
	}

	switch tbl.Mode {
	case types.ModePT:
		return InterpolatePT(tbl.Rows, inputs["P"], inputs["T"], props)
	case types.ModeSatT:
		return Interpolate1D(tbl.Rows, "T", inputs["T"], props)
	case types.ModeSatP:
		return Interpolate1D(tbl.Rows, "P", inputs["P"], props)
	default:
		return types.LookupResult{}, fmt.Errorf("%w: unsupported table mode %q", types.ErrInvalidInput, tbl.Mode)
	}
}

// Reverse estimates props on a PT table at pressure p where property key
// equals target. A nil props list selects every table property.
func Reverse(tbl types.Table, p float64, key string, target float64, props []string) (types.LookupResult, error) {
	if tbl.Mode != types.ModePT {
		return types.LookupResult{}, fmt.Errorf("%w: reverse lookup needs a PT table, got %s", types.ErrInvalidInput, tbl.Mode)
	}
	if props == nil {
		props = tbl.SortedProperties()
	}
	return InterpolatePTByProperty(tbl.Rows, p, key, target, props)
}

// TableTemperatureRange returns TemperatureRangeAtPressure for a PT table.
func TableTemperatureRange(tbl types.Table, p float64) (types.Range, bool) {
	if tbl.Mode != types.ModePT {
		return types.Range{}, false
	}
	return TemperatureRangeAtPressure(BuildPressureGroups(tbl.Rows), p)
}

// TablePressureRange returns PressureRangeAtTemperature for a PT table.
func TablePressureRange(tbl types.Table, t float64) (types.Range, bool) {
	if tbl.Mode != types.ModePT {
		return types.Range{}, false
	}
	return PressureRangeAtTemperature(BuildPressureGroups(tbl.Rows), t)
}
