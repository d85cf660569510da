// Package paths resolves where thermo keeps its configuration and where
// imported datasets live.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under the platform config and data
// roots.
const appName = "thermocycle"

// Default file and directory names.
const (
	DefaultDataDirName = ".thermocycle"
	DefaultDatabase    = "tables.db"
	ConfigFileName     = "config.yaml"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "THERMO_CONFIG_DIR"
	EnvDataDir   = "THERMO_DATA_DIR"
)

// platformDir holds platform lookups that tests can override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/thermocycle (fallback ~/.config/thermocycle)
// macOS:   ~/Library/Application Support/thermocycle
// Windows: %APPDATA%/thermocycle
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/thermocycle (fallback ~/.local/share/thermocycle)
// Others:  same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return DefaultConfigDir()
}

func xdgDir(env, homeRel string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appName), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// THERMO_CONFIG_DIR, then the platform default.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the directory that holds imported databases: flag,
// then THERMO_DATA_DIR, then .thermocycle in the working directory.
func ResolveDataDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveDataset returns the dataset file to open: the explicit path when
// set, otherwise the default database in the data directory.
func ResolveDataset(path, dataDirFlag string) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	dir, err := ResolveDataDir(dataDirFlag)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultDatabase), nil
}
