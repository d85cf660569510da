package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/sqlite"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// loadStore reads the dataset at path according to its extension.
func loadStore(path string) (*tables.Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist (import one with 'thermo dataset import')", types.ErrNoTables, path)
		}
		return nil, err
	}

	switch types.DatasetFormat(path) {
	case types.DatasetFormatJSON:
		return tables.LoadFile(path)
	case types.DatasetFormatJSONL:
		return tables.LoadJSONLFile(path)
	case types.DatasetFormatSQLite:
		ds, err := readDatabase(path)
		if err != nil {
			return nil, err
		}
		if len(ds.Tables) == 0 {
			return nil, fmt.Errorf("%w: %s", types.ErrNoTables, path)
		}
		return tables.NewStore(ds.Tables), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrDatasetFormatUnknown, path)
	}
}

// readDatasetFile reads a whole dataset, keeping its metadata, from a
// JSON, JSONL or SQLite file.
func readDatasetFile(path string) (types.Dataset, error) {
	switch types.DatasetFormat(path) {
	case types.DatasetFormatJSON:
		f, err := os.Open(path)
		if err != nil {
			return types.Dataset{}, fmt.Errorf("opening dataset: %w", err)
		}
		defer f.Close()
		return tables.Decode(f)
	case types.DatasetFormatJSONL:
		f, err := os.Open(path)
		if err != nil {
			return types.Dataset{}, fmt.Errorf("opening dataset: %w", err)
		}
		defer f.Close()
		tbls, _, err := tables.ReadJSONL(f)
		if err != nil {
			return types.Dataset{}, err
		}
		return types.Dataset{TableCount: len(tbls), Tables: tbls}, nil
	case types.DatasetFormatSQLite:
		if _, err := os.Stat(path); err != nil {
			return types.Dataset{}, err
		}
		return readDatabase(path)
	default:
		return types.Dataset{}, fmt.Errorf("%w: %s", types.ErrDatasetFormatUnknown, path)
	}
}

func readDatabase(path string) (types.Dataset, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return types.Dataset{}, err
	}
	defer db.Close()
	return db.Dataset()
}
