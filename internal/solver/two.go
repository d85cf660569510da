package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// candidate is a two-unknown sample scored by the weighted objective.
type candidate struct {
	sample
	r1, r2    float64
	objective float64
}

// SolveTwo finds two unknowns that satisfy two target equations at once by
// minimizing (r1/scale1)^2 + (r2/scale2)^2 with scale = max(|target|, 1).
// A 29x29 grid seeds coordinate descent over the eight neighboring moves,
// halving both steps whenever no move improves. It stops when both
// residuals are within max(1e-7, |target|*1e-4), both steps fall below 1e-8,
// or after 80 iterations.
//
// Returns ErrInsufficientData when no grid point evaluates.
func SolveTwo(ctx context.Context, p Problem) (types.SolveResult, error) {
	if len(p.Unknowns) != 2 || len(p.Targets) != 2 {
		return types.SolveResult{}, fmt.Errorf("%w: two-unknown solve needs 2 unknowns and 2 equations, got %d and %d",
			types.ErrDOFMismatch, len(p.Unknowns), len(p.Targets))
	}
	r1, err := p.bounds(p.Unknowns[0])
	if err != nil {
		return types.SolveResult{}, err
	}
	r2, err := p.bounds(p.Unknowns[1])
	if err != nil {
		return types.SolveResult{}, err
	}

	t1, t2 := p.Targets[0], p.Targets[1]
	scale1 := math.Max(math.Abs(t1.Value), 1)
	scale2 := math.Max(math.Abs(t2.Value), 1)
	tol1 := math.Max(1e-7, math.Abs(t1.Value)*1e-4)
	tol2 := math.Max(1e-7, math.Abs(t2.Value)*1e-4)

	evals := 0
	eval := func(x1, x2 float64) (candidate, bool) {
		s, ok := p.evaluate(x1, x2)
		if !ok {
			return candidate{}, false
		}
		evals++
		c := candidate{
			sample: s,
			r1:     s.metrics[t1.Key] - t1.Value,
			r2:     s.metrics[t2.Key] - t2.Value,
		}
		c.objective = math.Pow(c.r1/scale1, 2) + math.Pow(c.r2/scale2, 2)
		return c, true
	}

	var best candidate
	found := false
	xs1 := floats.Span(make([]float64, gridSamples), r1.Min, r1.Max)
	xs2 := floats.Span(make([]float64, gridSamples), r2.Min, r2.Max)
	for _, x1 := range xs1 {
		if err := ctx.Err(); err != nil {
			return types.SolveResult{}, err
		}
		for _, x2 := range xs2 {
			c, ok := eval(x1, x2)
			if !ok {
				continue
			}
			if !found || c.objective < best.objective {
				best, found = c, true
			}
		}
	}
	if !found {
		return types.SolveResult{}, fmt.Errorf("%w: could not evaluate valid states for the two-unknown solve; adjust search ranges", types.ErrInsufficientData)
	}

	step1 := (r1.Max - r1.Min) / descentDivisor
	step2 := (r2.Max - r2.Min) / descentDivisor
	converged := func() bool {
		return math.Abs(best.r1) <= tol1 && math.Abs(best.r2) <= tol2
	}

	iterations := 0
	for iterations < maxIterations {
		if err := ctx.Err(); err != nil {
			return types.SolveResult{}, err
		}
		iterations++
		improved := false

		for _, d1 := range []float64{0, -step1, step1} {
			for _, d2 := range []float64{0, -step2, step2} {
				if d1 == 0 && d2 == 0 {
					continue
				}
				x1 := types.Clamp(best.x[0]+d1, r1.Min, r1.Max)
				x2 := types.Clamp(best.x[1]+d2, r2.Min, r2.Max)
				c, ok := eval(x1, x2)
				if !ok {
					continue
				}
				if c.objective+1e-14 < best.objective {
					best = c
					improved = true
				}
			}
		}

		if !improved {
			step1 *= 0.5
			step2 *= 0.5
		}
		if converged() || (step1 < stepFloor && step2 < stepFloor) {
			break
		}
	}

	res := p.result(best.sample)
	res.Objective = best.objective
	res.Iterations = iterations
	res.Evaluations = evals
	res.Converged = converged()
	return res, nil
}
