package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty dataset returns ErrDatasetEmpty",
			config:  Config{Dataset: "", UnitSystem: UnitSystemSI},
			wantErr: ErrDatasetEmpty,
		},
		{
			name:    "unknown extension returns ErrDatasetFormatUnknown",
			config:  Config{Dataset: "tables.csv"},
			wantErr: ErrDatasetFormatUnknown,
		},
		{
			name:    "unknown unit system returns ErrUnitSystemUnknown",
			config:  Config{Dataset: "tables.json", UnitSystem: "CGS"},
			wantErr: ErrUnitSystemUnknown,
		},
		{
			name:    "valid json dataset",
			config:  Config{Dataset: "data/thermo_tables.json", UnitSystem: UnitSystemSI},
			wantErr: nil,
		},
		{
			name:    "sqlite dataset with empty unit system is valid",
			config:  Config{Dataset: "/tmp/tables.SQLite"},
			wantErr: nil,
		},
		{
			name:    "db dataset in ENG units",
			config:  Config{Dataset: "tables.db", UnitSystem: UnitSystemENG},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDatasetFormat(t *testing.T) {
	tests := map[string]string{
		"a/b/tables.json":   DatasetFormatJSON,
		"tables.JSON":       DatasetFormatJSON,
		"tables.jsonl":      DatasetFormatJSONL,
		"tables.sqlite":     DatasetFormatSQLite,
		"tables.db":         DatasetFormatSQLite,
		"tables":            "",
		"dir.v2/tables.csv": ".csv",
	}
	for path, want := range tests {
		if got := DatasetFormat(path); got != want {
			t.Errorf("DatasetFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestValidateUnitSystem(t *testing.T) {
	for _, us := range []string{"", UnitSystemSI, UnitSystemENG} {
		if err := ValidateUnitSystem(us); err != nil {
			t.Errorf("ValidateUnitSystem(%q) = %v, want nil", us, err)
		}
	}
	if err := ValidateUnitSystem("si"); !errors.Is(err, ErrUnitSystemUnknown) {
		t.Errorf("ValidateUnitSystem(%q) = %v, want ErrUnitSystemUnknown", "si", err)
	}
}
