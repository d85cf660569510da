package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// lookupOutput is the JSON form of a lookup.
type lookupOutput struct {
	Table string `json:"table"`
	types.LookupResult
}

func newLookupCmd(a *app) *cobra.Command {
	var (
		tableID string
		sheet   string
		props   []string
		reverse string
	)

	cmd := &cobra.Command{
		Use:   "lookup <fluid> <mode> key=value...",
		Short: "Interpolate properties from a table",
		Long: `Interpolate fluid properties at the given inputs.

Modes take these inputs: sat-T needs T, sat-P needs P, PT needs P and T.
With --reverse, a PT table is searched at pressure P for the temperature
where the named property reaches the given value.

Example:
  thermo lookup water sat-T T=100
  thermo lookup water PT P=2000 T=350 --props h,s
  thermo lookup water PT P=2000 h=3137.7 --reverse h
  thermo lookup - - T=100 --table water-sat-t`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}

			tbl, err := a.selectTable(store, tableID, args[0], types.Mode(args[1]), sheet)
			if err != nil {
				return err
			}
			a.logger.Printf("using table %s (%s)", tbl.ID, tbl.Label())

			var res types.LookupResult
			if reverse != "" {
				res, err = reverseLookup(tbl, inputs, reverse, props)
			} else {
				res, err = interp.Lookup(tbl, inputs, props)
			}
			if err != nil {
				return err
			}
			for _, s := range res.Steps {
				a.logger.Print(s)
			}

			if a.flags.jsonMode {
				return printJSON(cmd, lookupOutput{Table: tbl.ID, LookupResult: res})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\nMethod: %s (%d stage(s))\n\n", tbl.Label(), res.Meta.Method, res.Meta.Stages)
			w := newTabWriter(out)
			fmt.Fprintln(w, "PROPERTY\tSYMBOL\tVALUE")
			for _, p := range res.Properties() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", types.PropertyName(p), p, types.FormatNumber(res.Values[p]))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			writeSteps(out, res.Steps)
			return nil
		},
	}

	cmd.Flags().StringVar(&tableID, "table", "", "table ID; overrides fluid and mode")
	cmd.Flags().StringVar(&sheet, "sheet", "", "prefer tables whose sheet name matches this pattern")
	cmd.Flags().StringSliceVar(&props, "props", nil, "properties to report (default: all)")
	cmd.Flags().StringVar(&reverse, "reverse", "", "property to invert on a PT table (h, s, u or v)")
	return cmd
}

// selectTable picks the table by ID when given, otherwise the best match
// for fluid, mode and the run's unit system.
func (a *app) selectTable(store *tables.Store, id, fluid string, mode types.Mode, sheet string) (types.Table, error) {
	if id != "" {
		return store.Get(id)
	}
	if mode.IndexKeys() == nil {
		return types.Table{}, fmt.Errorf("%w: mode %q (valid: sat-T, sat-P, PT)", types.ErrInvalidInput, mode)
	}
	q := tables.Query{Mode: mode, Fluid: tables.ExactFluid(fluid), UnitSystem: a.unitSystem()}
	if sheet != "" {
		re, err := regexp.Compile("(?i)" + sheet)
		if err != nil {
			return types.Table{}, fmt.Errorf("%w: sheet pattern: %v", types.ErrInvalidInput, err)
		}
		q.Sheet = re
	}
	return store.Find(q)
}

func reverseLookup(tbl types.Table, inputs map[string]float64, key string, props []string) (types.LookupResult, error) {
	key = strings.TrimSpace(key)
	p, ok := inputs["P"]
	if !ok {
		return types.LookupResult{}, fmt.Errorf("%w: reverse lookup requires P", types.ErrInvalidInput)
	}
	target, ok := inputs[key]
	if !ok {
		return types.LookupResult{}, fmt.Errorf("%w: reverse lookup on %s requires %s=value", types.ErrInvalidInput, key, key)
	}
	return interp.Reverse(tbl, p, key, target, props)
}
