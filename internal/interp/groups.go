package interp

import (
	"math"
	"slices"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// PressureGroup is one isobar of a PT table: the rows sharing an exact
// pressure value, sorted by temperature.
type PressureGroup struct {
	Pressure float64
	Rows     []types.Row
	TMin     float64
	TMax     float64
}

// SupportsT reports whether t lies within the group's temperature span.
func (g PressureGroup) SupportsT(t float64) bool {
	return g.TMin <= t && t <= g.TMax
}

// BuildPressureGroups partitions rows by exact pressure value, skipping rows
// without finite P and T. Groups are ordered by ascending pressure.
func BuildPressureGroups(rows []types.Row) []PressureGroup {
	byP := make(map[float64][]types.Row)
	var order []float64
	for _, r := range rows {
		p, okP := r.Get("P")
		if _, okT := r.Get("T"); !okP || !okT {
			continue
		}
		if _, seen := byP[p]; !seen {
			order = append(order, p)
		}
		byP[p] = append(byP[p], r)
	}

	groups := make([]PressureGroup, 0, len(order))
	for _, p := range order {
		sorted := SortRowsByKey(byP[p], "T")
		groups = append(groups, PressureGroup{
			Pressure: p,
			Rows:     sorted,
			TMin:     sorted[0]["T"],
			TMax:     sorted[len(sorted)-1]["T"],
		})
	}
	slices.SortFunc(groups, func(a, b PressureGroup) int {
		switch {
		case a.Pressure < b.Pressure:
			return -1
		case a.Pressure > b.Pressure:
			return 1
		default:
			return 0
		}
	})
	return groups
}

// findExactGroup returns the index of the group within exactTol of p, or -1.
func findExactGroup(groups []PressureGroup, p float64) int {
	return slices.IndexFunc(groups, func(g PressureGroup) bool {
		return math.Abs(g.Pressure-p) < exactTol
	})
}

// TemperatureRangeAtPressure returns the temperatures a PT table can answer
// at pressure p. Between isobars this is the intersection of the two
// adjacent groups' spans. It reports false outside the pressure span or when
// the intersection is empty.
func TemperatureRangeAtPressure(groups []PressureGroup, p float64) (types.Range, bool) {
	if len(groups) == 0 {
		return types.Range{}, false
	}
	if p < groups[0].Pressure || p > groups[len(groups)-1].Pressure {
		return types.Range{}, false
	}
	if i := findExactGroup(groups, p); i >= 0 {
		return types.Range{Min: groups[i].TMin, Max: groups[i].TMax}, true
	}
	for i := 0; i < len(groups)-1; i++ {
		low, high := groups[i], groups[i+1]
		if low.Pressure <= p && p <= high.Pressure {
			r := types.Range{Min: math.Max(low.TMin, high.TMin), Max: math.Min(low.TMax, high.TMax)}
			if r.Min <= r.Max {
				return r, true
			}
			return types.Range{}, false
		}
	}
	return types.Range{}, false
}

// PressureRangeAtTemperature returns the lowest and highest isobar pressures
// whose temperature span contains t.
func PressureRangeAtTemperature(groups []PressureGroup, t float64) (types.Range, bool) {
	var ps []float64
	for _, g := range groups {
		if g.SupportsT(t) {
			ps = append(ps, g.Pressure)
		}
	}
	if len(ps) == 0 {
		return types.Range{}, false
	}
	return types.Range{Min: ps[0], Max: ps[len(ps)-1]}, true
}
