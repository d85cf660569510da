package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thermocycle/internal/cycle"
	"github.com/mesh-intelligence/thermocycle/internal/solver"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// solveOutput is the JSON form of a solve.
type solveOutput struct {
	Template string          `json:"template"`
	DOF      types.DOFStatus `json:"dof"`
	*types.SolveResult
}

func newSolveCmd(a *app) *cobra.Command {
	var (
		unknowns []string
		targets  []string
		mins     []string
		maxs     []string
		check    bool
	)

	cmd := &cobra.Command{
		Use:   "solve <template> [key=value...]",
		Short: "Solve for cycle inputs that hit target metrics",
		Long: `Find one or two template inputs that drive the same number of metrics to
their target values. Other inputs are fixed by key=value arguments or keep
their defaults. With --check only the degree-of-freedom status is reported.

Example:
  thermo solve rankine-ideal --unknown pHigh --target eta_th=0.38
  thermo solve rankine-ideal --unknown pHigh --unknown t3 \
      --target eta_th=0.38 --target wnet=1250
  thermo solve vcr --unknown pHigh --target cop=4 --min pHigh=600 --max pHigh=1600`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := cycle.ParseTemplate(args[0])
			if err != nil {
				return err
			}
			fixed, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			sel, err := selection(tpl, unknowns, targets)
			if err != nil {
				return err
			}
			lo, err := parseAssignments(mins)
			if err != nil {
				return err
			}
			hi, err := parseAssignments(maxs)
			if err != nil {
				return err
			}

			status := solver.CheckDOF(sel)
			a.logger.Printf("dof: %s", status.Message)
			if check {
				if a.flags.jsonMode {
					if err := printJSON(cmd, status); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", status.Kind, status.Message)
				}
				return solver.Err(status)
			}

			known, err := tpl.Merge(fixed)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			eval := cycle.Evaluator{Model: cycle.NewModel(store), Template: tpl}
			p, err := sel.Problem(eval, known, func(key string) solver.Unknown {
				spec, _ := tpl.Input(key)
				u := solver.Unknown{Key: key, Kind: spec.Kind, Default: spec.Default}
				if v, ok := lo[key]; ok {
					u.Min = &v
				}
				if v, ok := hi[key]; ok {
					u.Max = &v
				}
				return u
			})
			if err != nil {
				return err
			}

			res, err := solver.Solve(cmd.Context(), p)
			if err != nil {
				return err
			}
			a.logger.Printf("solve finished: %d iteration(s), %d evaluation(s), converged=%t",
				res.Iterations, res.Evaluations, res.Converged)

			if a.flags.jsonMode {
				return printJSON(cmd, solveOutput{Template: tpl.ID(), DOF: status, SolveResult: &res})
			}
			writeSolve(cmd, tpl, p, res)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&unknowns, "unknown", nil, "input to solve for (once or twice)")
	cmd.Flags().StringArrayVar(&targets, "target", nil, "metric=value equation (once or twice)")
	cmd.Flags().StringArrayVar(&mins, "min", nil, "search minimum for an unknown, key=value")
	cmd.Flags().StringArrayVar(&maxs, "max", nil, "search maximum for an unknown, key=value")
	cmd.Flags().BoolVar(&check, "check", false, "only report the degree-of-freedom status")
	return cmd
}

// selection validates the unknown and target flags against the template
// and builds the solver selection.
func selection(tpl cycle.Template, unknowns, targets []string) (solver.Selection, error) {
	var sel solver.Selection
	if len(unknowns) > 2 || len(targets) > 2 {
		return sel, fmt.Errorf("%w: at most two unknowns and two targets", errUsage)
	}
	for i, key := range unknowns {
		if _, ok := tpl.Input(key); !ok {
			return sel, fmt.Errorf("%w: %s has no input %q", types.ErrInvalidInput, tpl.ID(), key)
		}
		if i == 0 {
			sel.Unknown1 = key
		} else {
			sel.Unknown2 = key
		}
	}
	for i, raw := range targets {
		key, val, ok := splitKeyValue(raw)
		if !ok {
			return sel, fmt.Errorf("%w: invalid target %q (expected metric=value)", errUsage, raw)
		}
		if !tpl.HasMetric(key) {
			return sel, fmt.Errorf("%w: %s has no metric %q", types.ErrInvalidInput, tpl.ID(), key)
		}
		v, err := parseNumber(val)
		if err != nil {
			return sel, fmt.Errorf("%w: target %s: %v", types.ErrInvalidInput, key, err)
		}
		if i == 0 {
			sel.Target1, sel.Value1 = key, &v
		} else {
			sel.Target2, sel.Value2 = key, &v
		}
	}
	return sel, nil
}

func writeSolve(cmd *cobra.Command, tpl cycle.Template, p solver.Problem, res types.SolveResult) {
	out := cmd.OutOrStdout()
	status := "converged"
	if !res.Converged {
		status = "best point found (did not converge)"
	}
	fmt.Fprintf(out, "%s: %s\n\n", tpl.Label(), status)

	w := newTabWriter(out)
	fmt.Fprintln(w, "UNKNOWN\tVALUE\tUNIT")
	for _, u := range p.Unknowns {
		spec, _ := tpl.Input(u.Key)
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Key, types.FormatNumber(res.Unknowns[u.Key]), unitOrDash(spec.Unit))
	}
	w.Flush()

	fmt.Fprintln(out)
	w = newTabWriter(out)
	fmt.Fprintln(w, "TARGET\tWANTED\tACHIEVED\tRESIDUAL")
	for _, t := range p.Targets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Key, types.FormatNumber(t.Value),
			types.FormatNumber(res.Metrics[t.Key]), types.FormatNumber(res.Residuals[t.Key]))
	}
	w.Flush()

	fmt.Fprintf(out, "\nIterations: %d  Evaluations: %d\n", res.Iterations, res.Evaluations)
	if len(res.Inputs) > 0 {
		fmt.Fprintln(out, "\nInputs at solution:")
		for _, k := range slices.Sorted(maps.Keys(res.Inputs)) {
			fmt.Fprintf(out, "  %s = %s\n", k, types.FormatNumber(res.Inputs[k]))
		}
	}
}
