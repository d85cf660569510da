package types

import (
	"errors"
	"path/filepath"
	"strings"
)

// Config holds the dataset selection used by the CLI and library callers.
type Config struct {
	Dataset    string `json:"dataset" yaml:"dataset"`
	UnitSystem string `json:"unit_system" yaml:"unit_system"`
}

// Unit systems present in the dataset.
const (
	UnitSystemSI  = "SI"
	UnitSystemENG = "ENG"
)

// Dataset file formats accepted by the loaders, keyed by file extension.
const (
	DatasetFormatJSON   = ".json"
	DatasetFormatJSONL  = ".jsonl"
	DatasetFormatSQLite = ".db"
)

// Config validation errors.
var (
	ErrDatasetEmpty         = errors.New("dataset path must not be empty")
	ErrUnitSystemUnknown    = errors.New("unknown unit system")
	ErrDatasetFormatUnknown = errors.New("unknown dataset format")
)

// knownUnitSystems lists the unit systems that Validate accepts.
var knownUnitSystems = map[string]bool{
	UnitSystemSI:  true,
	UnitSystemENG: true,
}

// knownDatasetFormats lists the dataset extensions that Validate accepts.
var knownDatasetFormats = map[string]bool{
	DatasetFormatJSON:   true,
	DatasetFormatJSONL:  true,
	DatasetFormatSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty unit system is accepted and means SI.
func (c Config) Validate() error {
	if c.Dataset == "" {
		return ErrDatasetEmpty
	}
	if !knownDatasetFormats[DatasetFormat(c.Dataset)] {
		return ErrDatasetFormatUnknown
	}
	return ValidateUnitSystem(c.UnitSystem)
}

// ValidateUnitSystem returns ErrUnitSystemUnknown unless us is empty or a
// known unit system.
func ValidateUnitSystem(us string) error {
	if us != "" && !knownUnitSystems[us] {
		return ErrUnitSystemUnknown
	}
	return nil
}

// DatasetFormat returns the lower-cased extension of a dataset path,
// folding ".sqlite" into DatasetFormatSQLite.
func DatasetFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".sqlite" {
		return DatasetFormatSQLite
	}
	return ext
}
