package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

var ptProps = []string{"T", "P", "h", "s", "u", "v"}

func TestBuildPressureGroups(t *testing.T) {
	rows := []types.Row{
		{"P": 200, "T": 30, "h": 3},
		{"P": 100, "T": 50, "h": 2},
		{"P": 100, "T": 10, "h": 1},
		{"P": 100},
		{"T": 20},
		{"P": 200, "T": 10, "h": 4},
	}
	groups := BuildPressureGroups(rows)
	require.Len(t, groups, 2)

	assert.Equal(t, 100.0, groups[0].Pressure)
	assert.Equal(t, 10.0, groups[0].TMin)
	assert.Equal(t, 50.0, groups[0].TMax)
	assert.Equal(t, 1.0, groups[0].Rows[0]["h"])

	assert.Equal(t, 200.0, groups[1].Pressure)
	assert.Len(t, groups[1].Rows, 2)
}

func TestInterpolatePTExactPressure(t *testing.T) {
	rows := fixture.WaterSuperheated().Rows

	t.Run("exact P and T", func(t *testing.T) {
		res, err := InterpolatePT(rows, 8000, 450, ptProps)
		require.NoError(t, err)
		assert.Equal(t, types.MethodExact, res.Meta.Method)
		assert.Equal(t, 0, res.Meta.Stages)
		assert.Equal(t, 3273.3, res.Values["h"])
	})

	t.Run("exact P linear T", func(t *testing.T) {
		res, err := InterpolatePT(rows, 8000, 480, ptProps)
		require.NoError(t, err)
		assert.Equal(t, types.MethodLinearAtExactP, res.Meta.Method)
		assert.Equal(t, 1, res.Meta.Stages)
		assert.Equal(t, "Exact pressure match at P = 8000.", res.Steps[0])
		assert.InDelta(t, 3273.3+0.6*(3399.5-3273.3), res.Values["h"], 1e-9)
		assert.InDelta(t, 6.5579+0.6*(6.7266-6.5579), res.Values["s"], 1e-9)
	})
}

func TestInterpolatePTDouble(t *testing.T) {
	res, err := InterpolatePT(fixture.WaterSuperheated().Rows, 7000, 450, ptProps)
	require.NoError(t, err)

	assert.Equal(t, types.MethodDoubleInterpPT, res.Meta.Method)
	assert.Equal(t, 2, res.Meta.Stages)
	assert.InDelta(t, (3302.9+3273.3)/2, res.Values["h"], 1e-9)
	assert.InDelta(t, 7000.0, res.Values["P"], 1e-9)
	assert.Equal(t, "Pressure bracket: 6000 to 8000.", res.Steps[0])
	assert.Equal(t, "beta = (7000 - 6000) / (8000 - 6000) = 0.5.", res.Steps[3])
}

func bracketTable() []types.Row {
	var rows []types.Row
	add := func(p, tMin, tMax float64) {
		for t := tMin; t <= tMax; t += 50 {
			rows = append(rows, types.Row{"P": p, "T": t, "h": p + t})
		}
	}
	add(1000, 100, 300)
	add(1500, 100, 200)
	add(2000, 100, 300)
	return rows
}

func TestInterpolatePTMinimalSpan(t *testing.T) {
	rows := bracketTable()

	t.Run("tighter pair preferred", func(t *testing.T) {
		res, err := InterpolatePT(rows, 1700, 150, []string{"h"})
		require.NoError(t, err)
		assert.Equal(t, "Pressure bracket: 1500 to 2000.", res.Steps[0])
		assert.InDelta(t, 1850.0, res.Values["h"], 1e-9)
	})

	t.Run("wide pair when it is the only valid one", func(t *testing.T) {
		res, err := InterpolatePT(rows, 1700, 250, []string{"h"})
		require.NoError(t, err)
		assert.Equal(t, "Pressure bracket: 1000 to 2000.", res.Steps[0])
		assert.InDelta(t, 1950.0, res.Values["h"], 1e-9)
	})

	t.Run("exact group that cannot answer T falls through", func(t *testing.T) {
		res, err := InterpolatePT(rows, 1500, 250, []string{"h"})
		require.NoError(t, err)
		assert.Equal(t, types.MethodDoubleInterpPT, res.Meta.Method)
		assert.InDelta(t, 1750.0, res.Values["h"], 1e-9)
	})
}

func TestInterpolatePTErrors(t *testing.T) {
	rows := fixture.WaterSuperheated().Rows

	t.Run("too few groups", func(t *testing.T) {
		_, err := InterpolatePT([]types.Row{{"P": 1, "T": 1}, {"P": 1, "T": 2}}, 1, 1, nil)
		assert.ErrorIs(t, err, types.ErrInsufficientData)
	})

	t.Run("pressure outside span", func(t *testing.T) {
		_, err := InterpolatePT(rows, 20000, 400, ptProps)
		var re *types.RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "P", re.Key)
		assert.Equal(t, types.Range{Min: 10, Max: 10000}, re.Range())
	})

	t.Run("temperature outside every slice", func(t *testing.T) {
		_, err := InterpolatePT(rows, 7000, 1000, ptProps)
		var re *types.RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "T", re.Key)
		assert.Equal(t, types.Range{Min: 50, Max: 600}, re.Range())
		assert.Contains(t, err.Error(), "outside PT slices")
	})

	t.Run("temperature supported by too few slices", func(t *testing.T) {
		_, err := InterpolatePT(rows, 7000, 100, ptProps)
		var re *types.RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, types.Range{Min: 10, Max: 10}, re.Range())
		assert.EqualError(t, err, "at T = 100, valid pressure range is 10 to 10")
	})
}

func TestInterpolatePTByProperty(t *testing.T) {
	rows := fixture.WaterSuperheated().Rows

	t.Run("exact isobar", func(t *testing.T) {
		res, err := InterpolatePTByProperty(rows, 8000, "s", 6.65912, ptProps)
		require.NoError(t, err)
		assert.Equal(t, types.MethodLinearAtExactPUsing("s"), res.Meta.Method)
		assert.Equal(t, "linear-1d-at-exact-P-using-s", res.Meta.Method)
		assert.InDelta(t, 480.0, res.Values["T"], 1e-3)
	})

	t.Run("double", func(t *testing.T) {
		fwd, err := InterpolatePT(rows, 2000, 400, ptProps)
		require.NoError(t, err)
		res, err := InterpolatePTByProperty(rows, 3000, "h", fwd.Values["h"], ptProps)
		require.NoError(t, err)
		assert.Equal(t, "double-interpolation-Ph", res.Meta.Method)
		assert.Equal(t, 2, res.Meta.Stages)
		assert.InDelta(t, 3000.0, res.Values["P"], 1e-9)
	})

	t.Run("value in no slice", func(t *testing.T) {
		_, err := InterpolatePTByProperty(rows, 3000, "s", 42, ptProps)
		assert.ErrorIs(t, err, types.ErrOutOfRange)
		assert.Contains(t, err.Error(), "not available in any pressure slice")
	})

	t.Run("value in one slice only", func(t *testing.T) {
		_, err := InterpolatePTByProperty(rows, 3000, "s", 9.5, ptProps)
		var re *types.RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, types.Range{Min: 10, Max: 10}, re.Range())
	})
}

func TestTemperatureRangeAtPressure(t *testing.T) {
	groups := BuildPressureGroups(fixture.WaterSuperheated().Rows)

	r, ok := TemperatureRangeAtPressure(groups, 8000)
	require.True(t, ok)
	assert.Equal(t, types.Range{Min: 295.01, Max: 600}, r)

	r, ok = TemperatureRangeAtPressure(groups, 9000)
	require.True(t, ok)
	assert.Equal(t, types.Range{Min: 325, Max: 600}, r)

	_, ok = TemperatureRangeAtPressure(groups, 5)
	assert.False(t, ok)

	disjoint := BuildPressureGroups([]types.Row{
		{"P": 1, "T": 1}, {"P": 1, "T": 2},
		{"P": 2, "T": 5}, {"P": 2, "T": 6},
	})
	_, ok = TemperatureRangeAtPressure(disjoint, 1.5)
	assert.False(t, ok)
}

func TestPressureRangeAtTemperature(t *testing.T) {
	groups := BuildPressureGroups(fixture.WaterSuperheated().Rows)

	r, ok := PressureRangeAtTemperature(groups, 300)
	require.True(t, ok)
	assert.Equal(t, types.Range{Min: 10, Max: 8000}, r)

	_, ok = PressureRangeAtTemperature(groups, 900)
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	res, err := Lookup(fixture.WaterSatT(), map[string]float64{"T": 99.61}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Values["P"])

	res, err = Lookup(fixture.WaterSuperheated(), map[string]float64{"P": 7000, "T": 450}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.MethodDoubleInterpPT, res.Meta.Method)

	_, err = Lookup(fixture.WaterSuperheated(), map[string]float64{"P": 7000}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = Reverse(fixture.WaterSatP(), 100, "h", 1000, nil)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}
