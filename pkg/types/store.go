package types

// DatasetStore persists one imported dataset. Import replaces whatever was
// stored before and returns an identifier for the import.
type DatasetStore interface {
	Import(ds Dataset) (string, error)
	Dataset() (Dataset, error)
	Close() error
}
