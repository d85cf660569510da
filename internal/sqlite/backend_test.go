package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

func openTemp(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "nested", "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestImportRoundTrip(t *testing.T) {
	b := openTemp(t)
	in := types.Dataset{
		GeneratedAt:    "2026-01-02T03:04:05Z",
		SourceWorkbook: "tables.xlsx",
		Tables:         fixture.Tables(),
	}

	id, err := b.Import(in)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := b.Dataset()
	require.NoError(t, err)
	assert.Equal(t, in.GeneratedAt, got.GeneratedAt)
	assert.Equal(t, in.SourceWorkbook, got.SourceWorkbook)
	assert.Equal(t, len(in.Tables), got.TableCount)
	assert.Equal(t, in.Tables, got.Tables)

	stored, err := b.ImportID()
	require.NoError(t, err)
	assert.Equal(t, id, stored)
}

func TestImportPreservesShape(t *testing.T) {
	b := openTemp(t)
	tbl := types.Table{
		SheetName:  "Sparse",
		Fluid:      "Water",
		UnitSystem: types.UnitSystemSI,
		Mode:       types.ModeSatT,
		Columns:    []string{"T (C)", "P (kPa)"},
		Properties: []string{"T", "P"},
		Inputs:     map[string]types.Range{"T": {Min: 10, Max: 20}},
		Rows:       []types.Row{{"T": 10, "P": 1.2}, {}, {"T": 20}},
	}
	_, err := b.Import(types.Dataset{Tables: []types.Table{tbl, tbl}})
	require.NoError(t, err)

	got, err := b.Dataset()
	require.NoError(t, err)
	require.Len(t, got.Tables, 2)
	first := got.Tables[0]
	assert.NotEmpty(t, first.ID, "missing IDs are generated")
	assert.NotEqual(t, first.ID, got.Tables[1].ID)
	assert.Equal(t, tbl.Columns, first.Columns)
	assert.Equal(t, tbl.Inputs, first.Inputs)
	require.Len(t, first.Rows, 3)
	assert.Empty(t, first.Rows[1])
	assert.Equal(t, 20.0, first.Rows[2]["T"])
}

func TestImportReplaces(t *testing.T) {
	b := openTemp(t)
	_, err := b.Import(types.Dataset{Tables: fixture.Tables()})
	require.NoError(t, err)
	_, err = b.Import(types.Dataset{Tables: []types.Table{fixture.WaterSatT()}})
	require.NoError(t, err)

	store, err := b.Store()
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	_, err = store.Get(fixture.WaterSatTID)
	assert.NoError(t, err)
}

func TestEmptyAndClosed(t *testing.T) {
	b := openTemp(t)

	_, err := b.Import(types.Dataset{})
	assert.ErrorIs(t, err, types.ErrNoTables)

	_, err = b.Store()
	assert.ErrorIs(t, err, types.ErrNoTables)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err = b.Dataset()
	assert.ErrorIs(t, err, types.ErrDatabaseClosed)
	_, err = b.Import(types.Dataset{Tables: fixture.Tables()})
	assert.ErrorIs(t, err, types.ErrDatabaseClosed)
	_, err = b.ImportID()
	assert.ErrorIs(t, err, types.ErrDatabaseClosed)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.db")
	b, err := Open(path)
	require.NoError(t, err)
	_, err = b.Import(types.Dataset{Tables: fixture.Tables()})
	require.NoError(t, err)
	require.NoError(t, b.Close())

	b, err = Open(path)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, path, b.Path())

	store, err := b.Store()
	require.NoError(t, err)
	assert.Equal(t, len(fixture.Tables()), store.Len())
}
