package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

var propertyTableColumns = []string{
	"table_id", "ordinal", "sheet_name", "fluid", "unit_system", "mode",
	"columns", "properties", "inputs", "row_count",
}

var tableRowColumns = []string{"table_id", "row_index", "property", "value"}

// saveDataset replaces everything in the database with tbls and meta.
// Loading is transactional: either the whole dataset is stored or the
// previous one remains.
func saveDataset(db *sql.DB, meta map[string]string, tbls []types.Table) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM table_rows",
		"DELETE FROM property_tables",
		"DELETE FROM dataset",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing previous dataset: %w", err)
		}
	}

	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO dataset (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("writing dataset key %s: %w", k, err)
		}
	}

	tableStmt, err := tx.Prepare(insertSQL("property_tables", propertyTableColumns))
	if err != nil {
		return fmt.Errorf("preparing table insert: %w", err)
	}
	defer tableStmt.Close()

	rowStmt, err := tx.Prepare(insertSQL("table_rows", tableRowColumns))
	if err != nil {
		return fmt.Errorf("preparing row insert: %w", err)
	}
	defer rowStmt.Close()

	seen := make(map[string]bool, len(tbls))
	for i, t := range tbls {
		id := t.ID
		if id == "" || seen[id] {
			id = generateUUID()
		}
		seen[id] = true

		if err := insertTable(tableStmt, rowStmt, id, i, t); err != nil {
			return fmt.Errorf("storing table %q: %w", t.SheetName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import transaction: %w", err)
	}
	return nil
}

func insertTable(tableStmt, rowStmt *sql.Stmt, id string, ordinal int, t types.Table) error {
	columns, err := encodeJSON(t.Columns)
	if err != nil {
		return err
	}
	properties, err := encodeJSON(t.Properties)
	if err != nil {
		return err
	}
	inputs, err := encodeJSON(t.Inputs)
	if err != nil {
		return err
	}

	if _, err := tableStmt.Exec(id, ordinal, t.SheetName, t.Fluid, t.UnitSystem,
		string(t.Mode), columns, properties, inputs, len(t.Rows)); err != nil {
		return err
	}

	for ri, row := range t.Rows {
		for prop, v := range row {
			if !types.IsFinite(v) {
				continue
			}
			if _, err := rowStmt.Exec(id, ri, prop, v); err != nil {
				return fmt.Errorf("row %d %s: %w", ri, prop, err)
			}
		}
	}
	return nil
}

// loadMeta reads the dataset key/value table.
func loadMeta(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT key, value FROM dataset")
	if err != nil {
		return nil, fmt.Errorf("querying dataset keys: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning dataset key: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// loadTables reads every table with its rows, in import order. Rows that
// held no finite values come back as empty rows so row counts survive.
func loadTables(db *sql.DB) ([]types.Table, error) {
	rows, err := db.Query("SELECT " + joinColumns(propertyTableColumns) +
		" FROM property_tables ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}

	var tbls []types.Table
	for rows.Next() {
		var (
			t                           types.Table
			ordinal, rowCount           int
			mode                        string
			columns, properties, inputs string
		)
		if err := rows.Scan(&t.ID, &ordinal, &t.SheetName, &t.Fluid, &t.UnitSystem,
			&mode, &columns, &properties, &inputs, &rowCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		t.Mode = types.Mode(mode)
		if err := decodeJSON(columns, &t.Columns); err != nil {
			rows.Close()
			return nil, fmt.Errorf("table %s columns: %w", t.ID, err)
		}
		if err := decodeJSON(properties, &t.Properties); err != nil {
			rows.Close()
			return nil, fmt.Errorf("table %s properties: %w", t.ID, err)
		}
		if err := decodeJSON(inputs, &t.Inputs); err != nil {
			rows.Close()
			return nil, fmt.Errorf("table %s inputs: %w", t.ID, err)
		}
		t.Rows = make([]types.Row, rowCount)
		for i := range t.Rows {
			t.Rows[i] = types.Row{}
		}
		tbls = append(tbls, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range tbls {
		if err := loadRows(db, &tbls[i]); err != nil {
			return nil, err
		}
	}
	return tbls, nil
}

func loadRows(db *sql.DB, t *types.Table) error {
	rows, err := db.Query(
		"SELECT row_index, property, value FROM table_rows WHERE table_id = ? ORDER BY row_index",
		t.ID)
	if err != nil {
		return fmt.Errorf("querying rows of %s: %w", t.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx  int
			prop string
			v    float64
		)
		if err := rows.Scan(&idx, &prop, &v); err != nil {
			return fmt.Errorf("scanning row of %s: %w", t.ID, err)
		}
		if idx < 0 || idx >= len(t.Rows) {
			return fmt.Errorf("table %s: row index %d out of range", t.ID, idx)
		}
		t.Rows[idx][prop] = v
	}
	return rows.Err()
}

func insertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, joinColumns(columns), strings.Join(placeholders, ", "))
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding column: %w", err)
	}
	return string(data), nil
}

func decodeJSON(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
