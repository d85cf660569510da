package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/thermocycle/internal/paths"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Dataset    string `yaml:"dataset,omitempty"`
	UnitSystem string `yaml:"unit_system"`
	DataDir    string `yaml:"data_dir,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and data directory",
		Long: `Create the configuration directory with a default config.yaml and the
data directory that holds imported databases. Existing files are kept.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return err
			}
			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}

			cfg := configFile{
				Dataset:    a.flags.dataset,
				UnitSystem: a.unitSystem(),
				DataDir:    a.flags.dataDir,
			}
			if err := types.ValidateUnitSystem(cfg.UnitSystem); err != nil {
				return fmt.Errorf("%w: %q", err, cfg.UnitSystem)
			}

			configPath := filepath.Join(configDir, paths.ConfigFileName)
			written, err := writeConfigIfMissing(configPath, cfg)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote %s\n", configPath)
			} else {
				fmt.Fprintf(out, "Kept existing %s\n", configPath)
			}
			fmt.Fprintf(out, "Data directory: %s\n", dataDir)
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml if the file does not exist. It
// reports whether the file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# thermo configuration\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}
