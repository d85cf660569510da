// Package cli implements the thermo command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir  string
	dataDir    string
	dataset    string
	unitSystem string
	jsonMode   bool
	verbose    bool
}

// app carries the state shared by one command invocation.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *log.Logger
}

// NewRootCmd creates the top-level "thermo" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: log.New(io.Discard, "", 0)}

	root := &cobra.Command{
		Use:   "thermo",
		Short: "Thermodynamic property tables and cycle analysis",
		Long: "Thermo interpolates tabulated fluid properties, classifies saturation\n" +
			"states, evaluates Rankine, refrigeration and Brayton cycles, and solves\n" +
			"for cycle inputs that hit target metrics.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.verbose {
				a.logger = log.New(cmd.ErrOrStderr(), "thermo: ", log.Ltime)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.config = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding imported databases (default: $(CWD)/.thermocycle)")
	pf.StringVar(&a.flags.dataset, "dataset", "", "dataset file (.json, .jsonl or .db)")
	pf.StringVar(&a.flags.unitSystem, "unit-system", "", "unit system: SI or ENG (default: SI)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "trace lookups and solver progress on stderr")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newTablesCmd(a))
	root.AddCommand(newLookupCmd(a))
	root.AddCommand(newTemplatesCmd(a))
	root.AddCommand(newCycleCmd(a))
	root.AddCommand(newSolveCmd(a))
	root.AddCommand(newWorkflowCmd(a))
	root.AddCommand(newDatasetCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// userErrors are the sentinels that mean the caller asked for something
// the data cannot answer.
var userErrors = []error{
	types.ErrOutOfRange,
	types.ErrNoBracket,
	types.ErrInsufficientData,
	types.ErrMissingTable,
	types.ErrUnresolvedSaturationData,
	types.ErrEfficiencyInvalid,
	types.ErrTopologyInvalid,
	types.ErrSearchRangeInvalid,
	types.ErrNotBracketed,
	types.ErrDOFMismatch,
	types.ErrUnknownTemplate,
	types.ErrUnknownProperty,
	types.ErrInvalidInput,
	types.ErrTableNotFound,
	types.ErrUnknownWorkflow,
	types.ErrNoTables,
	types.ErrDatasetEmpty,
	types.ErrUnitSystemUnknown,
	types.ErrDatasetFormatUnknown,
	errUsage,
}

// errUsage marks malformed command lines.
var errUsage = errors.New("usage")

// usageArgs marks argument validation failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// openStore opens the configured dataset as a table store.
func (a *app) openStore() (*tables.Store, error) {
	cfg, err := a.resolveConfig()
	if err != nil {
		return nil, err
	}
	a.logger.Printf("loading dataset %s", cfg.Dataset)
	store, err := loadStore(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	a.logger.Printf("loaded %d table(s)", store.Len())
	return store, nil
}

// unitSystem returns the resolved unit system.
func (a *app) unitSystem() string {
	if a.flags.unitSystem != "" {
		return a.flags.unitSystem
	}
	if a.config != nil {
		if us := a.config.GetString(cfgKeyUnitSystem); us != "" {
			return us
		}
	}
	return types.UnitSystemSI
}
