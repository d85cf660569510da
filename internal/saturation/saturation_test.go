package saturation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// satAt100kPa returns the saturated water row at 100 kPa.
func satAt100kPa(t *testing.T) types.Row {
	t.Helper()
	for _, r := range fixture.WaterSatP().Rows {
		if r["P"] == 100 {
			return r
		}
	}
	t.Fatal("fixture row at 100 kPa missing")
	return nil
}

func TestClassifyDomeLines(t *testing.T) {
	sat := satAt100kPa(t)

	for _, key := range QualityProperties() {
		tr, _ := TripletFor(key)
		f, fg, g := sat[tr.F], sat[tr.FG], sat[tr.G]

		t.Run(key, func(t *testing.T) {
			c, err := Classify(sat, key, f)
			require.NoError(t, err)
			assert.Equal(t, PhaseSaturatedLiquid, c.Phase)
			assert.Equal(t, 0.0, c.X)

			c, err = Classify(sat, key, g)
			require.NoError(t, err)
			assert.Equal(t, PhaseSaturatedVapor, c.Phase)
			assert.Equal(t, 1.0, c.X)

			c, err = Classify(sat, key, (f+g)/2)
			require.NoError(t, err)
			assert.Equal(t, PhaseSaturatedMixture, c.Phase)
			assert.InDelta(t, 0.5, c.X, 1e-3)

			c, err = Classify(sat, key, f-10*fg)
			require.NoError(t, err)
			assert.Equal(t, PhaseCompressedLiquid, c.Phase)
			assert.Less(t, c.X, 0.0)

			c, err = Classify(sat, key, g+fg)
			require.NoError(t, err)
			assert.Equal(t, PhaseSuperheatedVapor, c.Phase)
			assert.Greater(t, c.X, 1.0)
		})
	}
}

func TestClassifyTolerance(t *testing.T) {
	sat := map[string]float64{"hf": 100, "hfg": 1000, "hg": 1100}

	c, err := Classify(sat, "h", 101.9)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, c.Tolerance, 1e-12)
	assert.Equal(t, PhaseSaturatedLiquid, c.Phase)

	c, err = Classify(sat, "h", 97.9)
	require.NoError(t, err)
	assert.Equal(t, PhaseCompressedLiquid, c.Phase)
}

func TestClassifyVaporFallback(t *testing.T) {
	c, err := Classify(map[string]float64{"sf": 1, "sfg": 5}, "s", 6)
	require.NoError(t, err)
	assert.Equal(t, PhaseSaturatedVapor, c.Phase)
	assert.Equal(t, 6.0, c.G)
}

func TestClassifyErrors(t *testing.T) {
	_, err := Classify(map[string]float64{"hf": 1, "hg": 2}, "h", 1.5)
	assert.ErrorIs(t, err, types.ErrUnresolvedSaturationData)

	_, err = Classify(map[string]float64{"hf": 1, "hfg": 0, "hg": 1}, "h", 1)
	assert.ErrorIs(t, err, types.ErrUnresolvedSaturationData)

	_, err = Classify(map[string]float64{"hf": math.NaN(), "hfg": 1, "hg": 2}, "h", 1)
	assert.ErrorIs(t, err, types.ErrUnresolvedSaturationData)

	_, err = Classify(map[string]float64{}, "T", 1)
	assert.ErrorIs(t, err, types.ErrUnknownProperty)
}

func TestLocate(t *testing.T) {
	sat := map[string]float64{"sf": 1, "sfg": 6, "sg": 7}

	side, _ := Locate(sat, "s", 0.5)
	assert.Equal(t, Below, side)

	side, x := Locate(sat, "s", 4)
	assert.Equal(t, Inside, side)
	assert.InDelta(t, 0.5, x, 1e-12)

	side, x = Locate(sat, "s", 7+5e-8)
	assert.Equal(t, Inside, side)
	assert.Equal(t, 1.0, x)

	side, _ = Locate(sat, "s", 8)
	assert.Equal(t, Above, side)

	side, _ = Locate(map[string]float64{}, "s", 4)
	assert.Equal(t, Above, side)
}

func TestMix(t *testing.T) {
	v, ok := Mix(map[string]float64{"hf": 100, "hfg": 1000}, "h", 0.25)
	require.True(t, ok)
	assert.Equal(t, 350.0, v)

	_, ok = Mix(map[string]float64{"hf": 100}, "h", 0.25)
	assert.False(t, ok)
}

func TestQualityRegion(t *testing.T) {
	assert.Equal(t, "Unknown", QualityRegion(math.NaN()))
	assert.Equal(t, "Compressed liquid side (x < 0)", QualityRegion(-0.1))
	assert.Equal(t, "Superheated vapor side (x > 1)", QualityRegion(1.1))
	assert.Equal(t, "Saturated liquid (x = 0)", QualityRegion(0))
	assert.Equal(t, "Saturated vapor (x = 1)", QualityRegion(1))
	assert.Equal(t, "Saturated mixture (0 < x < 1)", QualityRegion(0.4))
}

func TestPhaseGuidanceAndJSON(t *testing.T) {
	assert.Equal(t, "Use the superheated/PT table.", PhaseSuperheatedVapor.Guidance().Table)
	assert.Equal(t, PhaseSaturatedLiquid.Guidance(), PhaseSaturatedVapor.Guidance())
	assert.Contains(t, PhaseUnknown.Guidance().Next, "two independent properties")
	assert.True(t, PhaseSaturatedMixture.Saturated())
	assert.False(t, PhaseSuperheatedVapor.Saturated())

	data, err := json.Marshal(Classification{Phase: PhaseSaturatedMixture})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Saturated mixture (0 < x < 1)", decoded["phase"])
}
