// Package sqlite stores a property-table dataset in a SQLite database so the
// CLI can open a large dataset without re-parsing JSON on every run.
package sqlite

// Schema DDL.
const (
	createDataset = `CREATE TABLE IF NOT EXISTS dataset (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createPropertyTables = `CREATE TABLE IF NOT EXISTS property_tables (
    table_id TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL,
    sheet_name TEXT NOT NULL,
    fluid TEXT NOT NULL,
    unit_system TEXT NOT NULL,
    mode TEXT NOT NULL,
    columns TEXT NOT NULL,
    properties TEXT NOT NULL,
    inputs TEXT NOT NULL,
    row_count INTEGER NOT NULL
);`

	createTableRows = `CREATE TABLE IF NOT EXISTS table_rows (
    table_id TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    property TEXT NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (table_id, row_index, property),
    FOREIGN KEY (table_id) REFERENCES property_tables(table_id) ON DELETE CASCADE
);`
)

// Index DDL.
const (
	idxPropertyTablesLookup = `CREATE INDEX IF NOT EXISTS idx_property_tables_lookup ON property_tables(fluid, mode, unit_system);`
	idxTableRowsTable       = `CREATE INDEX IF NOT EXISTS idx_table_rows_table ON table_rows(table_id, row_index);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createDataset,
	createPropertyTables,
	createTableRows,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxPropertyTablesLookup,
	idxTableRowsTable,
}

// Keys of the dataset table.
const (
	keyGeneratedAt    = "generated_at_utc"
	keySourceWorkbook = "source_workbook"
	keyImportID       = "import_id"
	keyImportedAt     = "imported_at"
)
