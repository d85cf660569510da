package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// slicer describes one flavour of two-stage lookup: which key is
// interpolated within an isobar, which isobars can answer the target, and
// how failures and methods are worded.
type slicer struct {
	key      string
	target   float64
	supports func(PressureGroup) bool

	exactMethod   string
	doubleMethod  string
	noGroupsError func(groups []PressureGroup) error
	noPairError   func(valid []float64) error
}

// InterpolatePT estimates props at pressure p and temperature t from a PT
// table's rows. When p matches an isobar that spans t, the result comes from
// that isobar alone. Otherwise the lookup interpolates on T within the two
// closest isobars bracketing p that both span t, then blends on pressure.
// Among equally close isobar pairs the first found wins.
func InterpolatePT(rows []types.Row, p, t float64, props []string) (types.LookupResult, error) {
	groups := BuildPressureGroups(rows)
	if len(groups) < 2 {
		return types.LookupResult{}, fmt.Errorf("%w: table needs at least two pressure groups for double interpolation",
			types.ErrInsufficientData)
	}
	return interpolateGroups(groups, p, props, slicer{
		key:          "T",
		target:       t,
		supports:     func(g PressureGroup) bool { return g.SupportsT(t) },
		exactMethod:  types.MethodLinearAtExactP,
		doubleMethod: types.MethodDoubleInterpPT,
		noGroupsError: func(groups []PressureGroup) error {
			lows := make([]float64, len(groups))
			highs := make([]float64, len(groups))
			for i, g := range groups {
				lows[i], highs[i] = g.TMin, g.TMax
			}
			tMin, tMax := floats.Min(lows), floats.Max(highs)
			return &types.RangeError{
				Key: "T", Value: t, Min: tMin, Max: tMax,
				Detail: fmt.Sprintf("T = %s is outside PT slices (%s to %s)", fmtNum(t), fmtNum(tMin), fmtNum(tMax)),
			}
		},
		noPairError: func(valid []float64) error {
			lo, hi := valid[0], valid[len(valid)-1]
			return &types.RangeError{
				Key: "P", Value: p, Min: lo, Max: hi,
				Detail: fmt.Sprintf("at T = %s, valid pressure range is %s to %s", fmtNum(t), fmtNum(lo), fmtNum(hi)),
			}
		},
	})
}

// InterpolatePTByProperty is the reverse of InterpolatePT: given pressure p
// and a target value for property key (typically h or s), it estimates props
// (typically including T) at that state. An isobar can answer the target
// when the value lies within the span of its finite key values.
func InterpolatePTByProperty(rows []types.Row, p float64, key string, target float64, props []string) (types.LookupResult, error) {
	groups := BuildPressureGroups(rows)
	if len(groups) < 2 {
		return types.LookupResult{}, fmt.Errorf("%w: table needs at least two pressure groups for reverse lookup",
			types.ErrInsufficientData)
	}
	return interpolateGroups(groups, p, props, slicer{
		key:    key,
		target: target,
		supports: func(g PressureGroup) bool {
			r, ok := ValueRange(g.Rows, key)
			return ok && r.Contains(target)
		},
		exactMethod:  types.MethodLinearAtExactPUsing(key),
		doubleMethod: types.MethodDoubleInterpP(key),
		noGroupsError: func([]PressureGroup) error {
			return fmt.Errorf("%w: %s = %s is not available in any pressure slice for this table",
				types.ErrOutOfRange, key, fmtNum(target))
		},
		noPairError: func(valid []float64) error {
			lo, hi := valid[0], valid[len(valid)-1]
			return &types.RangeError{
				Key: "P", Value: p, Min: lo, Max: hi,
				Detail: fmt.Sprintf("at %s=%s, valid P is %s to %s", key, fmtNum(target), fmtNum(lo), fmtNum(hi)),
			}
		},
	})
}

func interpolateGroups(groups []PressureGroup, p float64, props []string, s slicer) (types.LookupResult, error) {
	pMin, pMax := groups[0].Pressure, groups[len(groups)-1].Pressure
	if p < pMin || p > pMax || math.IsNaN(p) {
		return types.LookupResult{}, &types.RangeError{Key: "P", Value: p, Min: pMin, Max: pMax}
	}

	if i := findExactGroup(groups, p); i >= 0 && s.supports(groups[i]) {
		oneD, err := Interpolate1D(groups[i].Rows, s.key, s.target, props)
		if err != nil {
			return types.LookupResult{}, err
		}
		method := s.exactMethod
		if oneD.Meta.Stages == 0 {
			method = types.MethodExact
		}
		steps := append([]string{fmt.Sprintf("Exact pressure match at P = %s.", fmtNum(groups[i].Pressure))}, oneD.Steps...)
		return types.LookupResult{
			Values: oneD.Values,
			Steps:  steps,
			Meta:   types.LookupMeta{Method: method, Stages: oneD.Meta.Stages},
		}, nil
	}

	var lowerGroups, upperGroups []PressureGroup
	for _, g := range groups {
		if !s.supports(g) {
			continue
		}
		if g.Pressure <= p {
			lowerGroups = append(lowerGroups, g)
		}
		if g.Pressure >= p {
			upperGroups = append(upperGroups, g)
		}
	}

	var lower, upper *PressureGroup
	bestSpan := math.Inf(1)
	for i := range lowerGroups {
		for j := range upperGroups {
			low, high := &lowerGroups[i], &upperGroups[j]
			if low.Pressure == high.Pressure {
				continue
			}
			if span := high.Pressure - low.Pressure; span < bestSpan {
				bestSpan = span
				lower, upper = low, high
			}
		}
	}

	if lower == nil || upper == nil {
		var valid []float64
		for _, g := range groups {
			if s.supports(g) {
				valid = append(valid, g.Pressure)
			}
		}
		if len(valid) == 0 {
			return types.LookupResult{}, s.noGroupsError(groups)
		}
		return types.LookupResult{}, s.noPairError(valid)
	}

	lowInterp, err := Interpolate1D(lower.Rows, s.key, s.target, props)
	if err != nil {
		return types.LookupResult{}, err
	}
	highInterp, err := Interpolate1D(upper.Rows, s.key, s.target, props)
	if err != nil {
		return types.LookupResult{}, err
	}

	beta := (p - lower.Pressure) / (upper.Pressure - lower.Pressure)
	steps := []string{
		fmt.Sprintf("Pressure bracket: %s to %s.", fmtNum(lower.Pressure), fmtNum(upper.Pressure)),
		fmt.Sprintf("Interpolate on %s at P = %s.", s.key, fmtNum(lower.Pressure)),
		fmt.Sprintf("Interpolate on %s at P = %s.", s.key, fmtNum(upper.Pressure)),
		fmt.Sprintf("beta = (%s - %s) / (%s - %s) = %s.",
			fmtNum(p), fmtNum(lower.Pressure), fmtNum(upper.Pressure), fmtNum(lower.Pressure), fmtNum(beta)),
	}

	values := make(map[string]float64, len(props))
	for _, prop := range props {
		v1, ok1 := lowInterp.Value(prop)
		v2, ok2 := highInterp.Value(prop)
		if !ok1 || !ok2 {
			continue
		}
		values[prop] = v1 + beta*(v2-v1)
		steps = append(steps, fmt.Sprintf("%s: %s", prop, fmtNum(values[prop])))
	}

	return types.LookupResult{
		Values: values,
		Steps:  steps,
		Meta:   types.LookupMeta{Method: s.doubleMethod, Stages: 2},
	}, nil
}
