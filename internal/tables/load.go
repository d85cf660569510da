package tables

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Decode reads a JSON dataset from r.
func Decode(r io.Reader) (types.Dataset, error) {
	var ds types.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return types.Dataset{}, fmt.Errorf("decoding dataset: %w", err)
	}
	if ds.TableCount == 0 {
		ds.TableCount = len(ds.Tables)
	}
	return ds, nil
}

// LoadFile reads a JSON dataset file and returns a Store over its tables.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewStore(ds.Tables), nil
}

// Encode writes the store's tables to w as an indented JSON dataset.
func (s *Store) Encode(w io.Writer) error {
	ds := types.Dataset{TableCount: len(s.tables), Tables: s.tables}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}
