package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// tableSummary is the listing form of a table.
type tableSummary struct {
	ID         string                 `json:"id"`
	Fluid      string                 `json:"fluid"`
	UnitSystem string                 `json:"unit_system"`
	Mode       types.Mode             `json:"mode"`
	SheetName  string                 `json:"sheet_name"`
	Rows       int                    `json:"row_count"`
	Properties []string               `json:"properties"`
	Inputs     map[string]types.Range `json:"inputs,omitempty"`
}

func newTablesCmd(a *app) *cobra.Command {
	var mode, fluid string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the property tables in the dataset",
		Long: `List the tables in the dataset, optionally filtered by mode and fluid.

Example:
  thermo tables
  thermo tables --mode PT
  thermo tables --fluid water --json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if mode != "" && types.Mode(mode).IndexKeys() == nil {
				return fmt.Errorf("%w: mode %q (valid: sat-T, sat-P, PT)", types.ErrInvalidInput, mode)
			}

			var out []tableSummary
			for _, t := range store.Tables() {
				if mode != "" && t.Mode != types.Mode(mode) {
					continue
				}
				if fluid != "" && !strings.Contains(strings.ToLower(t.Fluid), strings.ToLower(fluid)) {
					continue
				}
				out = append(out, tableSummary{
					ID:         t.ID,
					Fluid:      t.Fluid,
					UnitSystem: t.UnitSystem,
					Mode:       t.Mode,
					SheetName:  t.SheetName,
					Rows:       t.RowCount(),
					Properties: t.SortedProperties(),
					Inputs:     t.Inputs,
				})
			}

			if a.flags.jsonMode {
				if out == nil {
					out = []tableSummary{}
				}
				return printJSON(cmd, out)
			}
			if len(out) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tables found")
				return nil
			}
			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tFLUID\tUNITS\tMODE\tROWS\tSHEET")
			for _, t := range out {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", t.ID, t.Fluid, t.UnitSystem, t.Mode, t.Rows, t.SheetName)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "filter by mode (sat-T, sat-P, PT)")
	cmd.Flags().StringVar(&fluid, "fluid", "", "filter by fluid name (case-insensitive substring)")
	return cmd
}
