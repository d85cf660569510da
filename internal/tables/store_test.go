package tables

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

func rows(n int) []types.Row {
	out := make([]types.Row, n)
	for i := range out {
		out[i] = types.Row{"T": float64(i)}
	}
	return out
}

func TestFind(t *testing.T) {
	store := NewStore([]types.Table{
		{ID: "small", Fluid: "Water", UnitSystem: "SI", Mode: types.ModePT, SheetName: "Compressed Water", Rows: rows(3)},
		{ID: "big", Fluid: "Water", UnitSystem: "SI", Mode: types.ModePT, SheetName: "Superheated Water", Rows: rows(5)},
		{ID: "tie", Fluid: "Water", UnitSystem: "SI", Mode: types.ModePT, SheetName: "Superheated Water 2", Rows: rows(5)},
		{ID: "eng", Fluid: "Water", UnitSystem: "ENG", Mode: types.ModePT, SheetName: "Superheated Water", Rows: rows(9)},
		{ID: "noUnit", Fluid: "Ammonia", Mode: types.ModeSatT, Rows: rows(2)},
	})

	tests := []struct {
		name    string
		query   Query
		wantID  string
		wantErr error
	}{
		{
			name:   "largest row count wins and ties keep load order",
			query:  Query{Mode: types.ModePT, Fluid: regexp.MustCompile(`(?i)water`)},
			wantID: "big",
		},
		{
			name:   "unit system filters",
			query:  Query{Mode: types.ModePT, Fluid: regexp.MustCompile(`(?i)water`), UnitSystem: "ENG"},
			wantID: "eng",
		},
		{
			name:   "sheet narrows when it matches",
			query:  Query{Mode: types.ModePT, Fluid: regexp.MustCompile(`(?i)water`), Sheet: regexp.MustCompile(`(?i)compressed`)},
			wantID: "small",
		},
		{
			name:   "sheet ignored when nothing matches",
			query:  Query{Mode: types.ModePT, Fluid: regexp.MustCompile(`(?i)water`), Sheet: regexp.MustCompile(`(?i)nope`)},
			wantID: "big",
		},
		{
			name:   "empty unit system in table means SI",
			query:  Query{Mode: types.ModeSatT, Fluid: regexp.MustCompile(`(?i)ammonia`)},
			wantID: "noUnit",
		},
		{
			name:    "no candidates returns ErrMissingTable",
			query:   Query{Mode: types.ModeSatP, Fluid: regexp.MustCompile(`(?i)water`)},
			wantErr: types.ErrMissingTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Find(tt.query)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestGet(t *testing.T) {
	store := NewStore(fixture.Tables())

	got, err := store.Get(fixture.WaterSatPID)
	require.NoError(t, err)
	assert.Equal(t, types.ModeSatP, got.Mode)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestGetDuplicateIDs(t *testing.T) {
	first, second, unnamed := fixture.WaterSatT(), fixture.WaterSatP(), fixture.NitrogenPT()
	second.ID = first.ID
	unnamed.ID = ""
	store := NewStore([]types.Table{first, second, unnamed})

	got, err := store.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ModeSatT, got.Mode)
	assert.Equal(t, 3, store.Len())

	_, err = store.Get("")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestFilterAndFluids(t *testing.T) {
	store := NewStore(fixture.Tables())

	assert.Equal(t, []string{"Nitrogen", "R-134a", "Water"}, store.Fluids())
	assert.Len(t, store.Filter(types.ModePT, ""), 3)
	assert.Len(t, store.Filter("", "water"), 3)
	assert.Len(t, store.Filter(types.ModeSatT, "R-134a"), 1)

	assert.True(t, store.HasMode("r-134a", types.ModePT, ""))
	assert.False(t, store.HasMode("Nitrogen", types.ModeSatT, ""))
}

func TestExactFluidQuotesMeta(t *testing.T) {
	re := ExactFluid("R-134a (pure)")
	assert.True(t, re.MatchString("r-134a (pure)"))
	assert.False(t, re.MatchString("R-134a"))
}

func TestStoreIsolatedFromInput(t *testing.T) {
	in := fixture.Tables()
	store := NewStore(in)
	in[0].ID = "mutated"

	_, err := store.Get(fixture.WaterSatPID)
	assert.NoError(t, err)
}

func TestDecodeAndEncode(t *testing.T) {
	src := `{
  "generated_at_utc": "2025-01-01T00:00:00Z",
  "source_workbook": "tables.xlsx",
  "tables": [
    {"id": "w", "sheet_name": "Sat", "fluid": "Water", "unit_system": "SI", "mode": "sat-T",
     "properties": ["T", "P"], "row_count": 2,
     "rows": [{"T": 10, "P": 1.2276}, {"T": 20, "P": null}],
     "inputs": {"T": {"min": 10, "max": 20}}}
  ]
}`
	ds, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.TableCount)
	require.Len(t, ds.Tables, 1)
	assert.Equal(t, types.Range{Min: 10, Max: 20}, ds.Tables[0].Inputs["T"])
	_, ok := ds.Tables[0].Rows[1].Get("P")
	assert.False(t, ok)

	var sb strings.Builder
	require.NoError(t, NewStore(ds.Tables).Encode(&sb))
	again, err := Decode(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, "w", again.Tables[0].ID)
	assert.Equal(t, 2, again.Tables[0].RowCount())
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"tables": [`))
	assert.Error(t, err)
}
