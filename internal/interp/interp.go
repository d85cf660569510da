// Package interp implements piecewise-linear lookups over property tables:
// one-dimensional interpolation on a single index key, grouping of PT rows
// into isobars, two-stage interpolation on pressure and temperature, and the
// reverse lookup that solves for the state at a given pressure and property
// value.
//
// Every function is pure. Results carry the interpolated values plus a
// human-readable step trace and a method tag describing how they were
// obtained.
package interp

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// exactTol is the absolute tolerance for treating a key value as an exact
// table hit.
const exactTol = 1e-9

var fmtNum = types.FormatNumber

// SortRowsByKey returns the rows with a finite key value, sorted ascending by
// that key. The sort is stable so equal keys keep table order.
func SortRowsByKey(rows []types.Row, key string) []types.Row {
	out := make([]types.Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := r.Get(key); ok {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b types.Row) int {
		switch {
		case a[key] < b[key]:
			return -1
		case a[key] > b[key]:
			return 1
		default:
			return 0
		}
	})
	return out
}

// bracket is either an exact row or a pair of adjacent rows around a target.
type bracket struct {
	exact     types.Row
	low, high types.Row
}

func findBracket(sorted []types.Row, key string, target float64) (bracket, error) {
	first := sorted[0][key]
	last := sorted[len(sorted)-1][key]
	if target < first || target > last || math.IsNaN(target) {
		return bracket{}, &types.RangeError{Key: key, Value: target, Min: first, Max: last}
	}

	for _, r := range sorted {
		if math.Abs(r[key]-target) < exactTol {
			return bracket{exact: r}, nil
		}
	}

	for i := 0; i < len(sorted)-1; i++ {
		x1, x2 := sorted[i][key], sorted[i+1][key]
		if x1 <= target && target <= x2 {
			return bracket{low: sorted[i], high: sorted[i+1]}, nil
		}
	}

	return bracket{}, fmt.Errorf("%w: %s = %s", types.ErrNoBracket, key, fmtNum(target))
}

// Interpolate1D estimates props at key = target from rows by linear
// interpolation between the two adjacent rows bracketing the target. Rows
// without a finite key are ignored. A row within 1e-9 of the target is
// returned directly with method "exact"; the first such row in sorted order
// wins.
//
// Returns ErrInsufficientData when fewer than two rows have a finite key and
// a *types.RangeError when target lies outside the key range.
func Interpolate1D(rows []types.Row, key string, target float64, props []string) (types.LookupResult, error) {
	sorted := SortRowsByKey(rows, key)
	if len(sorted) < 2 {
		return types.LookupResult{}, fmt.Errorf("%w: not enough rows to interpolate with %s", types.ErrInsufficientData, key)
	}

	b, err := findBracket(sorted, key, target)
	if err != nil {
		return types.LookupResult{}, err
	}

	values := make(map[string]float64, len(props))
	if b.exact != nil {
		for _, p := range props {
			if v, ok := b.exact.Get(p); ok {
				values[p] = v
			}
		}
		return types.LookupResult{
			Values: values,
			Steps:  []string{fmt.Sprintf("Exact match at %s = %s.", key, fmtNum(target))},
			Meta:   types.LookupMeta{Method: types.MethodExact, Stages: 0},
		}, nil
	}

	x1, x2 := b.low[key], b.high[key]
	alpha := (target - x1) / (x2 - x1)
	steps := []string{
		fmt.Sprintf("Bracket on %s: %s to %s.", key, fmtNum(x1), fmtNum(x2)),
		fmt.Sprintf("alpha = (%s - %s) / (%s - %s) = %s.",
			fmtNum(target), fmtNum(x1), fmtNum(x2), fmtNum(x1), fmtNum(alpha)),
	}

	for _, p := range props {
		y1, ok1 := b.low.Get(p)
		y2, ok2 := b.high.Get(p)
		if !ok1 || !ok2 {
			continue
		}
		values[p] = y1 + alpha*(y2-y1)
		steps = append(steps, fmt.Sprintf("%s: %s", p, fmtNum(values[p])))
	}

	return types.LookupResult{
		Values: values,
		Steps:  steps,
		Meta:   types.LookupMeta{Method: types.MethodLinear1D, Stages: 1},
	}, nil
}

// ValueRange returns the span of finite key values in rows. It reports false
// when fewer than two finite values exist.
func ValueRange(rows []types.Row, key string) (types.Range, bool) {
	vals := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Get(key); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) < 2 {
		return types.Range{}, false
	}
	return types.Range{Min: floats.Min(vals), Max: floats.Max(vals)}, true
}
