package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// point is a scalar sample with its residual.
type point struct {
	sample
	residual float64
}

// SolveOne finds the single unknown that drives the single target metric to
// its value. It samples 81 evenly spaced points, returns early on a sample
// within tolerance, brackets the first sign change, and bisects for up to 80
// iterations. The best point seen is returned even when it misses the
// tolerance; Converged reports whether it met it.
//
// Returns ErrInsufficientData when fewer than two samples evaluate and a
// NotBracketedError when no sign change is found.
func SolveOne(ctx context.Context, p Problem) (types.SolveResult, error) {
	if len(p.Unknowns) != 1 || len(p.Targets) != 1 {
		return types.SolveResult{}, fmt.Errorf("%w: single-unknown solve needs 1 unknown and 1 equation, got %d and %d",
			types.ErrDOFMismatch, len(p.Unknowns), len(p.Targets))
	}
	r, err := p.bounds(p.Unknowns[0])
	if err != nil {
		return types.SolveResult{}, err
	}
	target := p.Targets[0]
	tol := math.Max(1e-7, math.Abs(target.Value)*1e-5)
	evals := 0

	eval := func(x float64) (point, bool) {
		s, ok := p.evaluate(x)
		if !ok {
			return point{}, false
		}
		evals++
		return point{sample: s, residual: s.metrics[target.Key] - target.Value}, true
	}
	finish := func(pt point, iterations int, bracketed bool) types.SolveResult {
		res := p.result(pt.sample)
		res.Iterations = iterations
		res.Evaluations = evals
		res.Bracketed = bracketed
		res.Converged = math.Abs(pt.residual) <= tol
		return res
	}

	var points []point
	for i, x := range floats.Span(make([]float64, oneSamples), r.Min, r.Max) {
		if err := ctx.Err(); err != nil {
			return types.SolveResult{}, err
		}
		pt, ok := eval(x)
		if !ok {
			continue
		}
		if math.Abs(pt.residual) <= tol {
			return finish(pt, i, false), nil
		}
		points = append(points, pt)
	}

	if len(points) < 2 {
		return types.SolveResult{}, fmt.Errorf("%w: could not evaluate enough valid states in the search range; adjust bounds", types.ErrInsufficientData)
	}

	var left, right point
	bracketed := false
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.residual*b.residual < 0 {
			left, right, bracketed = a, b, true
			break
		}
	}
	if !bracketed {
		closest := points[0]
		for _, pt := range points[1:] {
			if math.Abs(pt.residual) < math.Abs(closest.residual) {
				closest = pt
			}
		}
		return types.SolveResult{}, &types.NotBracketedError{Min: r.Min, Max: r.Max, Closest: closest.residual}
	}

	best := left
	if math.Abs(right.residual) < math.Abs(left.residual) {
		best = right
	}

	iteration := 0
	for iteration < maxIterations {
		if err := ctx.Err(); err != nil {
			return types.SolveResult{}, err
		}
		iteration++

		lx, rx := left.x[0], right.x[0]
		midX := 0.5 * (lx + rx)
		mid, ok := eval(midX)
		if !ok {
			mid, ok = eval(0.5 * (lx + midX))
		}
		if !ok {
			mid, ok = eval(0.5 * (midX + rx))
		}
		if !ok {
			break
		}

		if math.Abs(mid.residual) < math.Abs(best.residual) {
			best = mid
		}
		if math.Abs(mid.residual) <= tol {
			return finish(mid, iteration, true), nil
		}

		if left.residual*mid.residual <= 0 {
			right = mid
		} else {
			left = mid
		}

		if math.Abs(right.x[0]-left.x[0]) <= 1e-8*math.Max(1, math.Abs(mid.x[0])) {
			break
		}
	}

	return finish(best, iteration, true), nil
}
