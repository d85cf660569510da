package cycle

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

func newTestModel() *Model {
	return NewModel(tables.NewStore(fixture.Tables()))
}

func metric(t *testing.T, c *types.Cycle, key string) float64 {
	t.Helper()
	v, ok := c.Metric(key)
	require.True(t, ok, "metric %s", key)
	return v
}

func TestParseTemplate(t *testing.T) {
	for _, tpl := range Templates() {
		got, err := ParseTemplate(tpl.ID())
		require.NoError(t, err)
		assert.Equal(t, tpl, got)
	}

	got, err := ParseTemplate(" VCR ")
	require.NoError(t, err)
	assert.Equal(t, VCR, got)

	_, err = ParseTemplate("otto")
	assert.ErrorIs(t, err, types.ErrUnknownTemplate)
}

func TestMerge(t *testing.T) {
	t.Run("absent keys take defaults", func(t *testing.T) {
		in, err := RankineIdeal.Merge(map[string]float64{"t3": 500})
		require.NoError(t, err)
		assert.Equal(t, 500.0, in["t3"])
		assert.Equal(t, 8000.0, in["pHigh"])
		assert.Equal(t, 10.0, in["pLow"])
		assert.Len(t, in, len(RankineIdeal.Inputs()))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := RankineIdeal.Merge(map[string]float64{"pMid": 500})
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("non-finite value", func(t *testing.T) {
		_, err := Brayton.Merge(map[string]float64{"t1": math.NaN()})
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})
}

func TestTemplateSchema(t *testing.T) {
	in, ok := VCR.Input("superheat")
	require.True(t, ok)
	assert.Equal(t, types.InputOther, in.Kind)

	in, ok = RankineReheat.Input("t5")
	require.True(t, ok)
	assert.Equal(t, types.InputTemperature, in.Kind)
	assert.Equal(t, 520.0, in.Default)

	assert.True(t, SteamLoop.HasMetric("wnet"))
	assert.False(t, SteamLoop.HasMetric("bwr"))
	assert.True(t, RankineIdeal.HasMetric("bwr"))
}

func TestBuildIdealRankine(t *testing.T) {
	m := newTestModel()
	c, err := m.Build(RankineIdeal, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "rankine-ideal", c.Template)
	assert.Equal(t, "Water", c.Fluid)
	require.Len(t, c.Points, 4)

	p1, _ := c.Point("1")
	assert.InDelta(t, 45.81, p1.T, 1e-9)
	assert.InDelta(t, 191.81, p1.H, 1e-9)

	p3, _ := c.Point("3")
	assert.InDelta(t, 480, p3.T, 1e-9)
	assert.InDelta(t, 3349.02, p3.H, 0.01)

	p4, _ := c.Point("4")
	assert.Equal(t, types.RegionSaturatedMixture, p4.Region)
	x4, ok := p4.Quality()
	require.True(t, ok)
	assert.InDelta(t, 0.8014, x4, 0.002)
	assert.InDelta(t, p3.S, p4.S, 1e-6)

	assert.InDelta(t, 1240.2, metric(t, c, "wt"), 1)
	assert.InDelta(t, 8.07, metric(t, c, "wp"), 0.05)
	assert.InDelta(t, 0.391, metric(t, c, "eta_th"), 0.002)
	assert.InDelta(t, metric(t, c, "wt")-metric(t, c, "wp"), metric(t, c, "wnet"), 1e-9)
	assert.InDelta(t, metric(t, c, "qin")-metric(t, c, "qout"), metric(t, c, "wnet"), 1e-6)
	assert.Equal(t, 1.0, metric(t, c, "eta_t"))
	assert.Empty(t, c.Warnings)
}

func TestBuildAssignsFreshIDs(t *testing.T) {
	m := newTestModel()
	a, err := m.Build(RankineIdeal, nil)
	require.NoError(t, err)
	b, err := m.Build(RankineIdeal, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBuildIrreversibleTurbine(t *testing.T) {
	m := newTestModel()
	ideal, err := m.Build(RankineIdeal, nil)
	require.NoError(t, err)
	real, err := m.Build(RankineIdeal, map[string]float64{"etaT": 0.85})
	require.NoError(t, err)

	assert.InDelta(t, 0.85*metric(t, ideal, "wt"), metric(t, real, "wt"), 1e-6)
	assert.Less(t, metric(t, real, "eta_th"), metric(t, ideal, "eta_th"))

	p3, _ := real.Point("3")
	p4, _ := real.Point("4")
	assert.Greater(t, p4.S, p3.S)
	assert.Empty(t, real.Warnings)
}

func TestBuildRankineReheat(t *testing.T) {
	m := newTestModel()
	c, err := m.Build(RankineReheat, map[string]float64{
		"pHigh": 10000, "pMid": 2000, "t3": 500, "t5": 500,
	})
	require.NoError(t, err)
	require.Len(t, c.Points, 6)

	p4, _ := c.Point("4")
	assert.Equal(t, types.RegionSuperheated, p4.Region)
	assert.Equal(t, 2000.0, p4.P)

	assert.InDelta(t, 1555.8, metric(t, c, "wt"), 2)
	assert.InDelta(t, 0.4167, metric(t, c, "eta_th"), 0.003)
	_, ok := c.Metric("x6")
	assert.True(t, ok)
	assert.Equal(t, 1.0, metric(t, c, "eta_t_lp"))
}

func TestBuildRankineReheatDefaultsLeaveTable(t *testing.T) {
	// Boiler pressure 12000 is beyond the highest water isobar.
	_, err := newTestModel().Build(RankineReheat, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestBuildSteamLoop(t *testing.T) {
	c, err := newTestModel().Build(SteamLoop, nil)
	require.NoError(t, err)

	assert.Equal(t, "Feedwater", c.Points[0].Label)
	assert.InDelta(t, 540.7, metric(t, c, "wt"), 1)
	assert.InDelta(t, 0.979, metric(t, c, "x4"), 0.003)
	_, ok := c.Metric("bwr")
	assert.False(t, ok)
}

func TestBuildVCR(t *testing.T) {
	c, err := newTestModel().Build(VCR, nil)
	require.NoError(t, err)
	require.Len(t, c.Points, 4)

	assert.InDelta(t, 29.66, metric(t, c, "wcomp"), 0.3)
	assert.InDelta(t, 144.41, metric(t, c, "qL"), 0.3)
	assert.InDelta(t, 4.87, metric(t, c, "cop"), 0.05)
	assert.InDelta(t, 0.294, metric(t, c, "x4"), 0.003)
	assert.InDelta(t, metric(t, c, "qL")+metric(t, c, "wcomp"), metric(t, c, "qH"), 1e-6)

	p3, _ := c.Point("3")
	p4, _ := c.Point("4")
	assert.Equal(t, p3.H, p4.H)
	assert.NotContains(t, c.Warnings, "COP is non-positive; check state points and pressures.")
}

func TestBuildVCRSuperheatNeedsSuperheatedIsobar(t *testing.T) {
	// The superheated R-134a table starts at 800 kPa, so a superheated
	// evaporator outlet at 220 kPa cannot be resolved.
	_, err := newTestModel().Build(VCR, map[string]float64{"superheat": 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestBuildBrayton(t *testing.T) {
	c, err := newTestModel().Build(Brayton, nil)
	require.NoError(t, err)

	assert.Equal(t, 10.0, metric(t, c, "pressure_ratio"))
	assert.InDelta(t, 0.4816, metric(t, c, "eta_th"), 0.01)
	assert.InDelta(t, 186, metric(t, c, "wnet"), 4)

	p2, _ := c.Point("2")
	assert.Equal(t, types.RegionSinglePhase, p2.Region)
	assert.InDelta(t, 578.7, p2.T, 3)
	assert.Empty(t, c.Warnings)
}

func TestBuildBraytonFallback(t *testing.T) {
	// A poor compressor pushes the outlet enthalpy past the table, so the
	// outlet is taken at the isentropic temperature instead.
	c, err := newTestModel().Build(Brayton, map[string]float64{"etaC": 0.3})
	require.NoError(t, err)

	p2, _ := c.Point("2")
	assert.Equal(t, types.RegionFallbackPT, p2.Region)
}

func TestBuildErrors(t *testing.T) {
	m := newTestModel()

	tests := []struct {
		name   string
		model  *Model
		tpl    Template
		inputs map[string]float64
		want   error
	}{
		{"rankine topology", m, RankineIdeal, map[string]float64{"pHigh": 5}, types.ErrTopologyInvalid},
		{"reheat topology", m, RankineReheat, map[string]float64{"pMid": 20000}, types.ErrTopologyInvalid},
		{"vcr topology", m, VCR, map[string]float64{"pHigh": 200}, types.ErrTopologyInvalid},
		{"brayton topology", m, Brayton, map[string]float64{"pHigh": 100}, types.ErrTopologyInvalid},
		{"steam loop topology", m, SteamLoop, map[string]float64{"pLow": 6000}, types.ErrTopologyInvalid},
		{"zero efficiency", m, RankineIdeal, map[string]float64{"etaT": 0}, types.ErrEfficiencyInvalid},
		{"negative efficiency", m, Brayton, map[string]float64{"etaC": -1}, types.ErrEfficiencyInvalid},
		{"unknown input", m, VCR, map[string]float64{"t3": 1}, types.ErrInvalidInput},
		{"missing water", NewModel(tables.NewStore(nil)), RankineIdeal, nil, types.ErrMissingTable},
		{"missing nitrogen", NewModel(tables.NewStore([]types.Table{fixture.WaterSatP()})), Brayton, nil, types.ErrMissingTable},
		{"unknown template", m, Template(42), nil, types.ErrUnknownTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.model.Build(tt.tpl, tt.inputs)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEvaluator(t *testing.T) {
	e := Evaluator{Model: newTestModel(), Template: RankineIdeal}
	metrics, err := e.Evaluate(map[string]float64{"etaT": 0.9})
	require.NoError(t, err)
	assert.Contains(t, metrics, "wnet")
	assert.Equal(t, 0.9, metrics["eta_t"])

	_, err = e.Evaluate(map[string]float64{"pHigh": 1})
	assert.ErrorIs(t, err, types.ErrTopologyInvalid)
}

func TestSanityWarnings(t *testing.T) {
	b := built{
		points: []types.StatePoint{
			{ID: "1", S: 1},
			{ID: "2", S: 0.5, X: ptr(1.2)},
		},
		metrics: []types.Metric{
			{Key: "wcomp", Value: -1},
			{Key: "cop", Value: -2},
			{Key: "eta_th", Value: 1.5},
		},
	}
	got := sanityWarnings(VCR, map[string]float64{}, b)
	assert.Equal(t, []string{
		"Point 2: quality x=1.2 is outside 0..1.",
		"Thermal efficiency 1.5 looks outside a typical range.",
		"Compressor work is non-positive; this is physically unlikely for standard VCR operation.",
		"COP is non-positive; check state points and pressures.",
		"Compressor outlet entropy is lower than inlet entropy; verify compressor model assumptions.",
	}, got)

	gas := built{
		points: []types.StatePoint{{ID: "1", S: 6}, {ID: "2", S: 6}, {ID: "3", S: 7}, {ID: "4", S: 7}},
		metrics: []types.Metric{
			{Key: "wt", Value: 0},
			{Key: "wcomp", Value: -3},
			{Key: "pressure_ratio", Value: 8},
			{Key: "wnet", Value: 3},
		},
	}
	assert.Equal(t, []string{
		"Turbine work is non-positive; check turbine inlet temperature and pressure ratio.",
		"Compressor work is non-positive; check compressor inlet state and pressure ratio.",
	}, sanityWarnings(Brayton, map[string]float64{"etaT": 1}, gas))

	turbine := built{points: []types.StatePoint{{ID: "1"}, {ID: "2"}, {ID: "3", S: 7}, {ID: "4", S: 6}}}
	assert.Len(t, sanityWarnings(RankineIdeal, map[string]float64{"etaT": 0.8}, turbine), 1)
	assert.Empty(t, sanityWarnings(RankineIdeal, map[string]float64{"etaT": 1}, turbine))
}

func ptr(v float64) *float64 { return &v }
