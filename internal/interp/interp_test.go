package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

func TestInterpolate1DExactMatch(t *testing.T) {
	tbl := fixture.WaterSatP()
	props := tbl.SortedProperties()

	for _, row := range tbl.Rows {
		p := row["P"]
		res, err := Interpolate1D(tbl.Rows, "P", p, props)
		require.NoError(t, err)
		assert.Equal(t, types.MethodExact, res.Meta.Method)
		assert.Equal(t, 0, res.Meta.Stages)
		for _, prop := range props {
			assert.Equal(t, row[prop], res.Values[prop], "P=%v prop=%s", p, prop)
		}
	}
}

func TestInterpolate1DLinear(t *testing.T) {
	tbl := fixture.WaterSatP()
	props := []string{"T", "hf", "sg"}

	tests := []struct {
		name   string
		target float64
		lo, hi int
	}{
		{"midpoint 10-20 kPa", 15, 0, 1},
		{"quarter 100-500 kPa", 200, 3, 4},
		{"near top", 9999, 8, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high := tbl.Rows[tt.lo], tbl.Rows[tt.hi]
			alpha := (tt.target - low["P"]) / (high["P"] - low["P"])

			res, err := Interpolate1D(tbl.Rows, "P", tt.target, props)
			require.NoError(t, err)
			assert.Equal(t, types.MethodLinear1D, res.Meta.Method)
			assert.Equal(t, 1, res.Meta.Stages)
			for _, prop := range props {
				want := low[prop] + alpha*(high[prop]-low[prop])
				assert.InDelta(t, want, res.Values[prop], 1e-9, prop)
			}
		})
	}
}

func TestInterpolate1DSteps(t *testing.T) {
	res, err := Interpolate1D(fixture.WaterSatP().Rows, "P", 15, []string{"T"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Bracket on P: 10 to 20.",
		"alpha = (15 - 10) / (20 - 10) = 0.5.",
		"T: 52.935",
	}, res.Steps)
}

func TestInterpolate1DErrors(t *testing.T) {
	rows := fixture.WaterSatP().Rows

	t.Run("below range", func(t *testing.T) {
		_, err := Interpolate1D(rows, "P", 5, []string{"T"})
		var re *types.RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 10.0, re.Min)
		assert.Equal(t, 10000.0, re.Max)
		assert.ErrorIs(t, err, types.ErrOutOfRange)
		assert.EqualError(t, err, "P = 5 is outside 10 to 10000")
	})

	t.Run("one finite row", func(t *testing.T) {
		_, err := Interpolate1D([]types.Row{{"P": 1}, {"T": 2}}, "P", 1, nil)
		assert.ErrorIs(t, err, types.ErrInsufficientData)
	})

	t.Run("no rows", func(t *testing.T) {
		_, err := Interpolate1D(nil, "T", 1, nil)
		assert.ErrorIs(t, err, types.ErrInsufficientData)
	})
}

func TestInterpolate1DSkipsAbsentValues(t *testing.T) {
	rows := []types.Row{
		{"T": 10, "h": 100, "s": 1},
		{"T": 15},
		{"T": 20, "h": 200},
	}
	for _, target := range []float64{12, 17} {
		res, err := Interpolate1D(rows, "T", target, []string{"h", "s"})
		require.NoError(t, err)
		assert.NotContains(t, res.Values, "h", "T=%v", target)
		assert.NotContains(t, res.Values, "s", "T=%v", target)
	}

	res, err := Interpolate1D(rows, "T", 20, []string{"h"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.Values["h"])
}

func TestInterpolate1DFirstExactWins(t *testing.T) {
	rows := []types.Row{
		{"T": 20, "h": 5},
		{"T": 10, "h": 1},
		{"T": 10 + 1e-12, "h": 2},
	}
	res, err := Interpolate1D(rows, "T", 10, []string{"h"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Values["h"])
}

func TestRoundTrip(t *testing.T) {
	isobar := BuildPressureGroups(fixture.WaterSuperheated().Rows)
	require.NotEmpty(t, isobar)

	for _, g := range isobar {
		for _, target := range []float64{g.TMin + 0.37*(g.TMax-g.TMin), g.TMin + 0.81*(g.TMax-g.TMin)} {
			fwd, err := Interpolate1D(g.Rows, "T", target, []string{"h", "s"})
			require.NoError(t, err)

			for _, key := range []string{"h", "s"} {
				back, err := Interpolate1D(g.Rows, key, fwd.Values[key], []string{"T"})
				require.NoError(t, err)
				assert.InEpsilon(t, target, back.Values["T"], 1e-6, "P=%v key=%s", g.Pressure, key)
			}
		}
	}
}

func TestValueRange(t *testing.T) {
	r, ok := ValueRange([]types.Row{{"h": 3}, {"h": 1}, {"s": 9}, {"h": 2}}, "h")
	require.True(t, ok)
	assert.Equal(t, types.Range{Min: 1, Max: 3}, r)

	_, ok = ValueRange([]types.Row{{"h": 3}}, "h")
	assert.False(t, ok)
}
