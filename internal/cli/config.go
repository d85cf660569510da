package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/thermocycle/internal/paths"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "THERMO"

	cfgKeyDataset    = "dataset"
	cfgKeyUnitSystem = "unit_system"
	cfgKeyDataDir    = "data_dir"
)

// loadConfig reads config.yaml from the resolved config directory. A
// missing file is not an error. THERMO_DATASET, THERMO_UNIT_SYSTEM and
// THERMO_DATA_DIR override the file.
func (a *app) loadConfig() (*viper.Viper, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyUnitSystem, types.UnitSystemSI)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		a.logger.Printf("no config.yaml in %s", configDir)
	} else {
		a.logger.Printf("using config %s", v.ConfigFileUsed())
	}
	return v, nil
}

// dataDir returns the data directory: --data-dir, then config data_dir,
// then THERMO_DATA_DIR, then the working-directory default.
func (a *app) dataDir() (string, error) {
	flag := a.flags.dataDir
	if flag == "" && a.config != nil {
		flag = a.config.GetString(cfgKeyDataDir)
	}
	return paths.ResolveDataDir(flag)
}

// resolveConfig returns the validated dataset selection for this run.
// The dataset is --dataset, then the config/env value, then the default
// database in the data directory.
func (a *app) resolveConfig() (types.Config, error) {
	dataset := a.flags.dataset
	if dataset == "" && a.config != nil {
		dataset = a.config.GetString(cfgKeyDataset)
	}
	if dataset == "" {
		dir, err := a.dataDir()
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		dataset = filepath.Join(dir, paths.DefaultDatabase)
	}
	path, err := paths.ResolveDataset(dataset, "")
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{Dataset: path, UnitSystem: a.unitSystem()}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("%w: %s", err, describeConfig(cfg))
	}
	return cfg, nil
}

func describeConfig(cfg types.Config) string {
	return fmt.Sprintf("dataset=%q unit_system=%q", cfg.Dataset, cfg.UnitSystem)
}
