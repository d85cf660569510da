package types

import (
	"encoding/json"
	"math"
)

// Mode identifies how a table is indexed.
type Mode string

// Table modes.
const (
	ModeSatT Mode = "sat-T" // saturated, indexed by temperature
	ModeSatP Mode = "sat-P" // saturated, indexed by pressure
	ModePT   Mode = "PT"    // superheated or compressed, indexed by P and T
)

// Label returns a human-readable description of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeSatT:
		return "Saturated (T input)"
	case ModeSatP:
		return "Saturated (P input)"
	case ModePT:
		return "Superheated / PT (T + P)"
	default:
		return string(m)
	}
}

// IndexKeys returns the property keys a lookup on this mode takes as input.
func (m Mode) IndexKeys() []string {
	switch m {
	case ModeSatT:
		return []string{"T"}
	case ModeSatP:
		return []string{"P"}
	case ModePT:
		return []string{"P", "T"}
	default:
		return nil
	}
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range, inclusive.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Row maps property symbols to values. A key that is missing or holds a
// non-finite value is treated as absent.
type Row map[string]float64

// Get returns the value for key and whether it is present and finite.
func (r Row) Get(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON decodes a row, dropping null and non-numeric cells.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	row := make(Row, len(raw))
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			row[k] = f
		}
	}
	*r = row
	return nil
}

// MarshalJSON encodes a row, omitting non-finite values.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, len(r))
	for k, v := range r {
		if IsFinite(v) {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// Table is one discretized property table for a single fluid and mode.
type Table struct {
	ID         string           `json:"id"`
	SheetName  string           `json:"sheet_name"`
	Fluid      string           `json:"fluid"`
	UnitSystem string           `json:"unit_system"`
	Mode       Mode             `json:"mode"`
	Columns    []string         `json:"columns,omitempty"`
	Properties []string         `json:"properties"`
	Rows       []Row            `json:"rows"`
	Inputs     map[string]Range `json:"inputs,omitempty"`
}

// RowCount returns the number of rows in the table.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// SortedProperties returns the table's properties in display order.
func (t Table) SortedProperties() []string {
	return SortProperties(t.Properties)
}

// Label returns a short description used in listings.
func (t Table) Label() string {
	return t.Fluid + " | " + t.UnitSystem + " | " + t.Mode.Label() + " | " + t.SheetName
}

// MarshalJSON writes the table with its row_count.
func (t Table) MarshalJSON() ([]byte, error) {
	type plain Table
	return json.Marshal(struct {
		plain
		RowCount int `json:"row_count"`
	}{plain(t), len(t.Rows)})
}

// Dataset is the on-disk collection of tables.
type Dataset struct {
	GeneratedAt    string  `json:"generated_at_utc,omitempty"`
	SourceWorkbook string  `json:"source_workbook,omitempty"`
	TableCount     int     `json:"table_count"`
	Tables         []Table `json:"tables"`
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
