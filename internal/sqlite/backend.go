package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Backend is an open dataset database. It is safe for concurrent use.
type Backend struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Open opens the database at path, creating the file, its directory, and
// the schema when they do not exist.
func Open(path string) (*Backend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &Backend{db: db, path: path}, nil
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.path
}

// Close releases the database. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Import replaces the stored dataset with ds in one transaction. Tables
// without an ID are given a generated one. It returns the import ID.
// Returns ErrNoTables if ds is empty.
func (b *Backend) Import(ds types.Dataset) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return "", types.ErrDatabaseClosed
	}
	if len(ds.Tables) == 0 {
		return "", types.ErrNoTables
	}

	importID := generateUUID()
	meta := map[string]string{
		keyGeneratedAt:    ds.GeneratedAt,
		keySourceWorkbook: ds.SourceWorkbook,
		keyImportID:       importID,
		keyImportedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := saveDataset(b.db, meta, ds.Tables); err != nil {
		return "", err
	}
	return importID, nil
}

// Dataset reads the stored dataset. Tables come back in import order.
func (b *Backend) Dataset() (types.Dataset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return types.Dataset{}, types.ErrDatabaseClosed
	}
	meta, err := loadMeta(b.db)
	if err != nil {
		return types.Dataset{}, err
	}
	tbls, err := loadTables(b.db)
	if err != nil {
		return types.Dataset{}, err
	}
	return types.Dataset{
		GeneratedAt:    meta[keyGeneratedAt],
		SourceWorkbook: meta[keySourceWorkbook],
		TableCount:     len(tbls),
		Tables:         tbls,
	}, nil
}

// ImportID returns the ID of the last import, or "" for an empty database.
func (b *Backend) ImportID() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return "", types.ErrDatabaseClosed
	}
	meta, err := loadMeta(b.db)
	if err != nil {
		return "", err
	}
	return meta[keyImportID], nil
}

// Store loads the stored dataset into a table store.
// Returns ErrNoTables if nothing has been imported.
func (b *Backend) Store() (*tables.Store, error) {
	ds, err := b.Dataset()
	if err != nil {
		return nil, err
	}
	if len(ds.Tables) == 0 {
		return nil, fmt.Errorf("%w: %s holds no imported dataset", types.ErrNoTables, b.path)
	}
	return tables.NewStore(ds.Tables), nil
}

// generateUUID generates a new UUID v7 for imports and unnamed tables.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
