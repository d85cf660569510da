package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/cycle"
	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

func f64(v float64) *float64 { return &v }

// linear reports y = 3x + 2.
var linear = EvaluatorFunc(func(in map[string]float64) (map[string]float64, error) {
	return map[string]float64{"y": 3*in["x"] + 2}, nil
})

func oneUnknown(eval Evaluator, target float64) Problem {
	return Problem{
		Evaluator: eval,
		Known:     map[string]float64{},
		Unknowns:  []Unknown{{Key: "x", Kind: types.InputPressure, Default: 10}},
		Targets:   []Target{{Key: "y", Value: target}},
	}
}

func TestSearchBounds(t *testing.T) {
	tests := []struct {
		name     string
		kind     types.InputKind
		baseline float64
		lo, hi   *float64
		want     types.Range
	}{
		{"efficiency", types.InputEfficiency, 0.9, nil, nil, types.Range{Min: 0.2, Max: 1.2}},
		{"pressure", types.InputPressure, 10, nil, nil, types.Range{Min: 2, Max: 80}},
		{"small pressure", types.InputPressure, 0.5, nil, nil, types.Range{Min: 0.2, Max: 8}},
		{"temperature", types.InputTemperature, 480, nil, nil, types.Range{Min: 240, Max: 1056}},
		{"cold temperature", types.InputTemperature, 20, nil, nil, types.Range{Min: -100, Max: 240}},
		{"other", types.InputOther, 0, nil, nil, types.Range{Min: 0.2, Max: 8}},
		{"min override", types.InputPressure, 10, f64(5), nil, types.Range{Min: 5, Max: 80}},
		{"both overrides", types.InputEfficiency, 1, f64(0.5), f64(0.9), types.Range{Min: 0.5, Max: 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SearchBounds(tt.kind, tt.baseline, tt.lo, tt.hi)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-12)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-12)
		})
	}

	t.Run("inverted overrides", func(t *testing.T) {
		_, err := SearchBounds(types.InputPressure, 10, f64(9), f64(3))
		assert.ErrorIs(t, err, types.ErrSearchRangeInvalid)
	})
	t.Run("override past automatic end", func(t *testing.T) {
		_, err := SearchBounds(types.InputEfficiency, 1, f64(2), nil)
		assert.ErrorIs(t, err, types.ErrSearchRangeInvalid)
	})
	t.Run("non-finite override", func(t *testing.T) {
		_, err := SearchBounds(types.InputEfficiency, 1, f64(math.NaN()), nil)
		assert.ErrorIs(t, err, types.ErrSearchRangeInvalid)
	})
}

func TestSolveOneLinear(t *testing.T) {
	res, err := SolveOne(context.Background(), oneUnknown(linear, 50))
	require.NoError(t, err)

	assert.InDelta(t, 16, res.Unknowns["x"], 1e-3)
	assert.InDelta(t, 0, res.Residuals["y"], 5e-4)
	assert.InDelta(t, 50, res.Metrics["y"], 5e-4)
	assert.Equal(t, res.Unknowns["x"], res.Inputs["x"])
	assert.True(t, res.Bracketed)
	assert.True(t, res.Converged)
	assert.Positive(t, res.Iterations)
	assert.LessOrEqual(t, res.Iterations, maxIterations)
}

func TestSolveOneSampleHit(t *testing.T) {
	// Bounds for a pressure default of 10 start at 2, so the first sample
	// already satisfies y = 8.
	res, err := SolveOne(context.Background(), oneUnknown(linear, 8))
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Unknowns["x"])
	assert.False(t, res.Bracketed)
	assert.Equal(t, 0, res.Iterations)
}

func TestSolveOneNotBracketed(t *testing.T) {
	square := EvaluatorFunc(func(in map[string]float64) (map[string]float64, error) {
		x := in["x"]
		return map[string]float64{"y": x*x + 1}, nil
	})
	_, err := SolveOne(context.Background(), oneUnknown(square, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotBracketed)

	var nb *types.NotBracketedError
	require.True(t, errors.As(err, &nb))
	assert.Equal(t, 2.0, nb.Min)
	assert.Equal(t, 80.0, nb.Max)
	assert.InDelta(t, 5, nb.Closest, 1e-12)
}

func TestSolveOneSkipsFailedSamples(t *testing.T) {
	partial := EvaluatorFunc(func(in map[string]float64) (map[string]float64, error) {
		if in["x"] < 30 {
			return nil, types.ErrTopologyInvalid
		}
		return linear(in)
	})
	res, err := SolveOne(context.Background(), oneUnknown(partial, 100))
	require.NoError(t, err)
	assert.InDelta(t, 98.0/3, res.Unknowns["x"], 1e-3)
}

func TestSolveOneMidpointFallback(t *testing.T) {
	// The root of y = 50 lies at x = 16, bracketed by samples 15.65 and
	// 16.625; their midpoint is 16.1375.
	holed := func(fails func(x float64) bool) (Evaluator, *int) {
		misses := 0
		return EvaluatorFunc(func(in map[string]float64) (map[string]float64, error) {
			if fails(in["x"]) {
				misses++
				return nil, types.ErrTopologyInvalid
			}
			return linear(in)
		}), &misses
	}

	t.Run("quarter point recovers", func(t *testing.T) {
		eval, misses := holed(func(x float64) bool { return math.Abs(x-16.1375) < 1e-9 })
		res, err := SolveOne(context.Background(), oneUnknown(eval, 50))
		require.NoError(t, err)
		assert.Equal(t, 1, *misses)
		assert.True(t, res.Converged)
		assert.True(t, res.Bracketed)
		assert.InDelta(t, 16, res.Unknowns["x"], 1e-3)
	})

	t.Run("midpoint and quarter points fail", func(t *testing.T) {
		eval, misses := holed(func(x float64) bool { return x > 15.7 && x < 16.6 })
		res, err := SolveOne(context.Background(), oneUnknown(eval, 50))
		require.NoError(t, err)
		assert.Equal(t, 3, *misses)
		assert.False(t, res.Converged)
		assert.True(t, res.Bracketed)
		assert.Equal(t, 1, res.Iterations)
		assert.InDelta(t, 15.65, res.Unknowns["x"], 1e-9)
		assert.InDelta(t, -1.05, res.Residuals["y"], 1e-9)
	})
}

func TestSolveOneInsufficientData(t *testing.T) {
	broken := EvaluatorFunc(func(map[string]float64) (map[string]float64, error) {
		return nil, types.ErrMissingTable
	})
	_, err := SolveOne(context.Background(), oneUnknown(broken, 1))
	assert.ErrorIs(t, err, types.ErrInsufficientData)

	missingMetric := EvaluatorFunc(func(map[string]float64) (map[string]float64, error) {
		return map[string]float64{"z": 1}, nil
	})
	_, err = SolveOne(context.Background(), oneUnknown(missingMetric, 1))
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}

func TestSolveOneCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SolveOne(ctx, oneUnknown(linear, 50))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveOneInvalidRange(t *testing.T) {
	p := oneUnknown(linear, 50)
	p.Unknowns[0].Min, p.Unknowns[0].Max = f64(10), f64(1)
	_, err := SolveOne(context.Background(), p)
	assert.ErrorIs(t, err, types.ErrSearchRangeInvalid)
}

func TestSolveTwoLinearSystem(t *testing.T) {
	sumDiff := EvaluatorFunc(func(in map[string]float64) (map[string]float64, error) {
		return map[string]float64{"a": in["x"] + in["y"], "b": in["x"] - in["y"]}, nil
	})
	p := Problem{
		Evaluator: sumDiff,
		Known:     map[string]float64{"c": 1},
		Unknowns: []Unknown{
			{Key: "x", Kind: types.InputOther, Default: 5},
			{Key: "y", Kind: types.InputOther, Default: 5},
		},
		Targets: []Target{{Key: "a", Value: 10}, {Key: "b", Value: 2}},
	}

	res, err := SolveTwo(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 6, res.Unknowns["x"], 1e-2)
	assert.InDelta(t, 4, res.Unknowns["y"], 1e-2)
	assert.LessOrEqual(t, math.Abs(res.Residuals["a"]), 1e-3)
	assert.LessOrEqual(t, math.Abs(res.Residuals["b"]), 2e-4)
	assert.Equal(t, 1.0, res.Inputs["c"])
	assert.GreaterOrEqual(t, res.Evaluations, gridSamples*gridSamples)
}

func TestSolveTwoNoValidGrid(t *testing.T) {
	broken := EvaluatorFunc(func(map[string]float64) (map[string]float64, error) {
		return nil, types.ErrTopologyInvalid
	})
	p := Problem{
		Evaluator: broken,
		Unknowns:  []Unknown{{Key: "x"}, {Key: "y"}},
		Targets:   []Target{{Key: "a"}, {Key: "b"}},
	}
	_, err := SolveTwo(context.Background(), p)
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}

func TestSolveDispatch(t *testing.T) {
	p := oneUnknown(linear, 50)
	p.Targets = append(p.Targets, Target{Key: "z", Value: 1})
	_, err := Solve(context.Background(), p)
	assert.ErrorIs(t, err, types.ErrDOFMismatch)

	_, err = SolveTwo(context.Background(), oneUnknown(linear, 50))
	assert.ErrorIs(t, err, types.ErrDOFMismatch)

	res, err := Solve(context.Background(), oneUnknown(linear, 50))
	require.NoError(t, err)
	assert.InDelta(t, 16, res.Unknowns["x"], 1e-3)
}

func TestCheckDOF(t *testing.T) {
	tests := []struct {
		name      string
		sel       Selection
		canSolve  bool
		kind      types.DOFKind
		message   string
		unknowns  int
		equations int
	}{
		{"nothing selected", Selection{}, false, types.DOFWarn, "Select unknown input #1.", 0, 0},
		{"bad value", Selection{Unknown1: "etaT", Target1: "wnet", Value1: f64(math.NaN())}, false, types.DOFError, "Target value #1 must be numeric.", 0, 0},
		{"duplicate unknowns", Selection{Unknown1: "t3", Unknown2: "t3"}, false, types.DOFWarn, "Unknown inputs must be different.", 2, 0},
		{"no target", Selection{Unknown1: "t3"}, false, types.DOFWarn, "Select target metric #1.", 1, 0},
		{"no value", Selection{Unknown1: "t3", Target1: "wnet"}, false, types.DOFWarn, "Enter target value #1.", 1, 0},
		{"value without second target", Selection{Unknown1: "t3", Target1: "wnet", Value1: f64(1), Value2: f64(2)}, false, types.DOFWarn, "Choose target metric #2 or clear target value #2.", 1, 1},
		{"second target without value", Selection{Unknown1: "t3", Target1: "wnet", Value1: f64(1), Target2: "qin"}, false, types.DOFWarn, "Enter target value #2 for the second equation.", 1, 1},
		{"duplicate targets", Selection{Unknown1: "t3", Unknown2: "pHigh", Target1: "wnet", Value1: f64(1), Target2: "wnet", Value2: f64(2)}, false, types.DOFWarn, "Target metrics must be different.", 2, 1},
		{"one unknown two targets", Selection{Unknown1: "t3", Target1: "wnet", Value1: f64(1), Target2: "qin", Value2: f64(2)}, false, types.DOFWarn, "DOF mismatch: 1 unknown(s), 2 equation(s).", 1, 2},
		{"two unknowns one target", Selection{Unknown1: "t3", Unknown2: "pHigh", Target1: "wnet", Value1: f64(1)}, false, types.DOFWarn, "DOF mismatch: 2 unknown(s), 1 equation(s).", 2, 1},
		{"one by one", Selection{Unknown1: "t3", Target1: "wnet", Value1: f64(1)}, true, types.DOFOK, "DOF balanced: 1 unknown(s), 1 equation(s). Ready to solve.", 1, 1},
		{"two by two", Selection{Unknown1: "t3", Unknown2: "pHigh", Target1: "wnet", Value1: f64(1), Target2: "eta_th", Value2: f64(0.4)}, true, types.DOFOK, "DOF balanced: 2 unknown(s), 2 equation(s). Ready to solve.", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := CheckDOF(tt.sel)
			assert.Equal(t, tt.canSolve, st.CanSolve)
			assert.Equal(t, tt.kind, st.Kind)
			assert.Equal(t, tt.message, st.Message)
			assert.Equal(t, tt.unknowns, st.UnknownCount)
			assert.Equal(t, tt.equations, st.EquationCount)
			if tt.canSolve {
				assert.NoError(t, Err(st))
			} else {
				assert.ErrorIs(t, Err(st), types.ErrDOFMismatch)
			}
		})
	}
}

func TestSolveRankineTurbineEfficiency(t *testing.T) {
	model := cycle.NewModel(tables.NewStore(fixture.Tables()))
	eval := cycle.Evaluator{Model: model, Template: cycle.RankineIdeal}
	sel := Selection{Unknown1: "etaT", Target1: "wnet", Value1: f64(1000)}

	p, err := sel.Problem(eval, map[string]float64{}, func(key string) Unknown {
		in, _ := cycle.RankineIdeal.Input(key)
		return Unknown{Key: in.Key, Kind: in.Kind, Default: in.Default}
	})
	require.NoError(t, err)

	res, err := Solve(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.8128, res.Unknowns["etaT"], 0.002)
	assert.InDelta(t, 1000, res.Metrics["wnet"], 0.01)

	c, err := model.Build(cycle.RankineIdeal, res.Inputs)
	require.NoError(t, err)
	wnet, _ := c.Metric("wnet")
	assert.InDelta(t, 1000, wnet, 0.01)
}

func TestSelectionProblemRejectsMismatch(t *testing.T) {
	sel := Selection{Unknown1: "etaT", Target1: "wnet"}
	_, err := sel.Problem(linear, nil, func(key string) Unknown { return Unknown{Key: key} })
	assert.ErrorIs(t, err, types.ErrDOFMismatch)
}
