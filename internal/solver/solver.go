// Package solver finds cycle inputs that drive chosen metrics to target
// values. It treats the cycle model as a black box behind Evaluator: one
// unknown is solved by sampling, bracketing, and bisection, two unknowns by a
// grid search refined with coordinate descent.
package solver

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Evaluator computes metrics for a full set of inputs. Errors mark an
// unusable sample and are skipped by the solver.
type Evaluator interface {
	Evaluate(inputs map[string]float64) (map[string]float64, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(inputs map[string]float64) (map[string]float64, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	return f(inputs)
}

// Unknown is a free input. Default seeds the search window when Known
// holds no value for Key. Min and Max override the window when non-nil.
type Unknown struct {
	Key     string
	Kind    types.InputKind
	Default float64
	Min     *float64
	Max     *float64
}

// Target is one equation: metric Key must equal Value.
type Target struct {
	Key   string
	Value float64
}

// Problem is an inverse solve: find values for Unknowns, with every other
// input fixed by Known, such that each Target holds.
type Problem struct {
	Evaluator Evaluator
	Known     map[string]float64
	Unknowns  []Unknown
	Targets   []Target
}

// Solver iteration limits.
const (
	oneSamples     = 81
	gridSamples    = 29
	maxIterations  = 80
	stepFloor      = 1e-8
	descentDivisor = 6
)

// SearchBounds returns the search window for an unknown of the given kind
// around baseline. Overrides replace the automatic ends when non-nil.
// Returns ErrSearchRangeInvalid if the result is non-finite or empty.
func SearchBounds(kind types.InputKind, baseline float64, lo, hi *float64) (types.Range, error) {
	if lo != nil && hi != nil && types.IsFinite(*lo) && types.IsFinite(*hi) && *lo >= *hi {
		return types.Range{}, fmt.Errorf("%w: search max must be greater than search min", types.ErrSearchRangeInvalid)
	}

	ref := math.Max(math.Abs(baseline), 1)
	var r types.Range
	switch kind {
	case types.InputEfficiency:
		r = types.Range{Min: 0.2, Max: 1.2}
	case types.InputTemperature:
		r = types.Range{Min: baseline - math.Max(120, 0.5*ref), Max: baseline + math.Max(220, 1.2*ref)}
	default:
		r = types.Range{Min: math.Max(1e-6, 0.2*ref), Max: 8 * ref}
	}
	if lo != nil {
		r.Min = *lo
	}
	if hi != nil {
		r.Max = *hi
	}

	if !types.IsFinite(r.Min) || !types.IsFinite(r.Max) || r.Min >= r.Max {
		return types.Range{}, fmt.Errorf("%w: could not construct a valid search range for the selected unknown", types.ErrSearchRangeInvalid)
	}
	return r, nil
}

// bounds resolves the search window of u against the known inputs.
func (p Problem) bounds(u Unknown) (types.Range, error) {
	baseline, _ := types.FirstFinite(u.Default, 1)
	if v, ok := p.Known[u.Key]; ok && types.IsFinite(v) {
		baseline = v
	}
	r, err := SearchBounds(u.Kind, baseline, u.Min, u.Max)
	if err != nil {
		return types.Range{}, fmt.Errorf("%s: %w", u.Key, err)
	}
	return r, nil
}

// sample is one successful evaluation.
type sample struct {
	x       []float64
	inputs  map[string]float64
	metrics map[string]float64
}

// evaluate runs the evaluator with the unknowns set to x. It reports false
// when the build fails or any target metric is missing or non-finite.
func (p Problem) evaluate(x ...float64) (sample, bool) {
	inputs := make(map[string]float64, len(p.Known)+len(x))
	maps.Copy(inputs, p.Known)
	for i, u := range p.Unknowns {
		inputs[u.Key] = x[i]
	}

	metrics, err := p.Evaluator.Evaluate(inputs)
	if err != nil {
		return sample{}, false
	}
	for _, t := range p.Targets {
		v, ok := metrics[t.Key]
		if !ok || !types.IsFinite(v) {
			return sample{}, false
		}
	}
	return sample{x: x, inputs: inputs, metrics: metrics}, true
}

// result assembles a SolveResult from the chosen sample.
func (p Problem) result(s sample) types.SolveResult {
	res := types.SolveResult{
		Unknowns:  make(map[string]float64, len(p.Unknowns)),
		Metrics:   maps.Clone(s.metrics),
		Residuals: make(map[string]float64, len(p.Targets)),
		Inputs:    s.inputs,
	}
	for i, u := range p.Unknowns {
		res.Unknowns[u.Key] = s.x[i]
	}
	for _, t := range p.Targets {
		res.Residuals[t.Key] = s.metrics[t.Key] - t.Value
	}
	return res
}

// Solve checks the problem's degrees of freedom and dispatches to SolveOne
// or SolveTwo.
func Solve(ctx context.Context, p Problem) (types.SolveResult, error) {
	switch {
	case len(p.Unknowns) == 1 && len(p.Targets) == 1:
		return SolveOne(ctx, p)
	case len(p.Unknowns) == 2 && len(p.Targets) == 2:
		return SolveTwo(ctx, p)
	default:
		return types.SolveResult{}, fmt.Errorf("%w: %d unknown(s), %d equation(s)", types.ErrDOFMismatch, len(p.Unknowns), len(p.Targets))
	}
}
