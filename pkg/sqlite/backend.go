// Package sqlite opens SQLite-backed dataset stores while keeping the
// schema and query code internal.
package sqlite

import (
	"github.com/mesh-intelligence/thermocycle/internal/sqlite"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Open opens or creates the dataset database at path.
//
// Example:
//
//	store, err := sqlite.Open(".thermocycle/tables.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	_, err = store.Import(ds)
func Open(path string) (types.DatasetStore, error) {
	b, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	return b, nil
}
