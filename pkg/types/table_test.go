package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowUnmarshalDropsNulls(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"T": 100, "P": null, "h": "n/a", "s": 7.35}`), &row))

	assert.Len(t, row, 2)
	v, ok := row.Get("T")
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)

	_, ok = row.Get("P")
	assert.False(t, ok)
}

func TestRowGetNonFinite(t *testing.T) {
	row := Row{"T": math.NaN(), "P": math.Inf(1), "h": 1}
	_, ok := row.Get("T")
	assert.False(t, ok)
	_, ok = row.Get("P")
	assert.False(t, ok)
	_, ok = row.Get("h")
	assert.True(t, ok)
}

func TestTableJSONIncludesRowCount(t *testing.T) {
	tbl := Table{
		ID:         "water-sat-t",
		Fluid:      "Water",
		UnitSystem: UnitSystemSI,
		Mode:       ModeSatT,
		Properties: []string{"T", "P"},
		Rows:       []Row{{"T": 10, "P": 1.2}, {"T": 20, "P": 2.3}},
	}
	data, err := json.Marshal(tbl)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 2.0, raw["row_count"])
	assert.Equal(t, "sat-T", raw["mode"])

	var back Table
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2, back.RowCount())
	assert.Equal(t, ModeSatT, back.Mode)
}

func TestModeIndexKeys(t *testing.T) {
	assert.Equal(t, []string{"T"}, ModeSatT.IndexKeys())
	assert.Equal(t, []string{"P"}, ModeSatP.IndexKeys())
	assert.Equal(t, []string{"P", "T"}, ModePT.IndexKeys())
	assert.Nil(t, Mode("other").IndexKeys())
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 1, Max: 2}
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(2.0001))
}
