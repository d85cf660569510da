// Package tables holds the immutable in-memory set of property tables and
// answers queries for the best table matching a mode, fluid, unit system,
// and optional sheet name.
package tables

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Store is a read-only collection of tables. It is safe for concurrent use
// because it is never mutated after construction.
type Store struct {
	tables []types.Table
	byID   map[string]int
}

// NewStore builds a Store over a copy of the given tables. Tables with an
// empty unit system are treated as SI. When IDs repeat, Get returns the first
// table with that ID; tables without an ID are reachable only through Find,
// Filter and Tables.
func NewStore(tables []types.Table) *Store {
	s := &Store{
		tables: make([]types.Table, len(tables)),
		byID:   make(map[string]int, len(tables)),
	}
	for i, t := range tables {
		if t.UnitSystem == "" {
			t.UnitSystem = types.UnitSystemSI
		}
		s.tables[i] = t
		if _, dup := s.byID[t.ID]; t.ID != "" && !dup {
			s.byID[t.ID] = i
		}
	}
	return s
}

// Query selects tables. Zero-valued fields do not filter, except UnitSystem
// which defaults to SI.
type Query struct {
	Mode       types.Mode
	Fluid      *regexp.Regexp
	UnitSystem string

	// Sheet narrows the candidates only when at least one of them matches.
	Sheet *regexp.Regexp
}

// Tables returns all tables in load order.
func (s *Store) Tables() []types.Table {
	return slices.Clone(s.tables)
}

// Len returns the number of tables.
func (s *Store) Len() int {
	return len(s.tables)
}

// Get returns the table with the given ID.
// Returns ErrTableNotFound if no such table exists.
func (s *Store) Get(id string) (types.Table, error) {
	i, ok := s.byID[id]
	if !ok {
		return types.Table{}, fmt.Errorf("%w: %q", types.ErrTableNotFound, id)
	}
	return s.tables[i], nil
}

// Find returns the best table for q: the candidate with the most rows, ties
// resolved by load order. Returns ErrMissingTable when nothing matches.
func (s *Store) Find(q Query) (types.Table, error) {
	unit := q.UnitSystem
	if unit == "" {
		unit = types.UnitSystemSI
	}

	var candidates []types.Table
	for _, t := range s.tables {
		if q.Mode != "" && t.Mode != q.Mode {
			continue
		}
		if t.UnitSystem != unit {
			continue
		}
		if q.Fluid != nil && !q.Fluid.MatchString(t.Fluid) {
			continue
		}
		candidates = append(candidates, t)
	}

	if q.Sheet != nil {
		var narrowed []types.Table
		for _, t := range candidates {
			if q.Sheet.MatchString(t.SheetName) {
				narrowed = append(narrowed, t)
			}
		}
		if len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	if len(candidates) == 0 {
		return types.Table{}, fmt.Errorf("%w: %s", types.ErrMissingTable, q)
	}

	slices.SortStableFunc(candidates, func(a, b types.Table) int {
		return b.RowCount() - a.RowCount()
	})
	return candidates[0], nil
}

// String describes the query for error messages.
func (q Query) String() string {
	var parts []string
	if q.Mode != "" {
		parts = append(parts, "mode "+string(q.Mode))
	}
	if q.Fluid != nil {
		parts = append(parts, "fluid /"+q.Fluid.String()+"/")
	}
	unit := q.UnitSystem
	if unit == "" {
		unit = types.UnitSystemSI
	}
	parts = append(parts, "units "+unit)
	if q.Sheet != nil {
		parts = append(parts, "sheet /"+q.Sheet.String()+"/")
	}
	return strings.Join(parts, ", ")
}

// Filter returns the tables whose mode and fluid match. An empty mode or
// fluid matches everything; fluid is compared case-insensitively.
func (s *Store) Filter(mode types.Mode, fluid string) []types.Table {
	var out []types.Table
	for _, t := range s.tables {
		if mode != "" && t.Mode != mode {
			continue
		}
		if fluid != "" && !strings.EqualFold(t.Fluid, fluid) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Fluids returns the distinct fluid names, sorted.
func (s *Store) Fluids() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.tables {
		if !seen[t.Fluid] {
			seen[t.Fluid] = true
			out = append(out, t.Fluid)
		}
	}
	slices.Sort(out)
	return out
}

// HasMode reports whether fluid has at least one table of the given mode in
// the given unit system.
func (s *Store) HasMode(fluid string, mode types.Mode, unitSystem string) bool {
	_, err := s.Find(Query{Mode: mode, Fluid: ExactFluid(fluid), UnitSystem: unitSystem})
	return err == nil
}

// ExactFluid returns a case-insensitive pattern matching exactly name.
func ExactFluid(name string) *regexp.Regexp {
	return regexp.MustCompile("(?i)^" + regexp.QuoteMeta(name) + "$")
}
