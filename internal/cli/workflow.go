package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thermocycle/internal/workflow"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

const defaultFluid = "Water"

func newWorkflowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Guided property workflows",
		Long: `Guided workflows combine table lookups with saturation checks and report
each result with the steps taken. Run 'thermo workflow list' to see which
fluids each workflow supports in the current dataset.`,
	}

	cmd.AddCommand(newWorkflowListCmd(a))
	cmd.AddCommand(newPhaseCheckCmd(a))
	cmd.AddCommand(newTwoPhaseCmd(a))
	cmd.AddCommand(newReverseLookupCmd(a))
	cmd.AddCommand(newStateGuideCmd(a))
	cmd.AddCommand(newIsentropicDeviceCmd(a))
	cmd.AddCommand(newPropertyDeltaCmd(a))
	return cmd
}

// workflowInfo is the listing form of a workflow.
type workflowInfo struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Fluids []string `json:"fluids"`
}

func newWorkflowListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workflows and the fluids they support",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			runner := workflow.NewRunner(store)

			var infos []workflowInfo
			for _, id := range workflow.IDs() {
				fluids := runner.Fluids(id, a.unitSystem())
				if fluids == nil {
					fluids = []string{}
				}
				infos = append(infos, workflowInfo{ID: string(id), Label: id.Label(), Fluids: fluids})
			}
			if a.flags.jsonMode {
				return printJSON(cmd, infos)
			}
			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tWORKFLOW\tFLUIDS")
			for _, info := range infos {
				fluids := strings.Join(info.Fluids, ", ")
				if fluids == "" {
					fluids = "(none)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.ID, info.Label, fluids)
			}
			return w.Flush()
		},
	}
}

// runWorkflow opens the dataset, runs fn and prints its result.
func (a *app) runWorkflow(cmd *cobra.Command, fn func(r *workflow.Runner) (types.WorkflowResult, error)) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	res, err := fn(workflow.NewRunner(store))
	if err != nil {
		return err
	}
	for _, s := range res.Steps {
		a.logger.Print(s)
	}
	if a.flags.jsonMode {
		return printJSON(cmd, res)
	}
	writeWorkflow(cmd, res)
	return nil
}

func writeWorkflow(cmd *cobra.Command, res types.WorkflowResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n\n", res.Workflow, res.Status)

	w := newTabWriter(out)
	for _, it := range res.Items {
		v := it.Text
		if n, ok := it.Number(); ok {
			v = types.FormatNumber(n)
		} else if v == "" {
			v = "-"
		}
		if it.Unit != "" {
			v += " " + it.Unit
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.Label, v, it.Desc)
	}
	w.Flush()

	writeSteps(out, res.Steps)
	writeWarnings(out, res.Warnings)
}

func newPhaseCheckCmd(a *app) *cobra.Command {
	var (
		fluid string
		t, p  float64
		qProp string
	)
	cmd := &cobra.Command{
		Use:   "phase-check",
		Short: workflow.PhaseCheck.Label() + " from temperature and pressure",
		Example: `  thermo workflow phase-check --T 100 --P 50
  thermo workflow phase-check --T 100 --P 101.42 --quality-prop h --quality-value 1500`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "T", "P"); err != nil {
				return err
			}
			qv, err := optionalFloat(cmd, "quality-value")
			if err != nil {
				return err
			}
			return a.runWorkflow(cmd, func(r *workflow.Runner) (types.WorkflowResult, error) {
				return r.PhaseCheck(workflow.PhaseInput{
					Fluid: fluid, UnitSystem: a.unitSystem(),
					T: t, P: p, QualityProperty: qProp, QualityValue: qv,
				})
			})
		},
	}
	cmd.Flags().StringVar(&fluid, "fluid", defaultFluid, "fluid name")
	cmd.Flags().Float64Var(&t, "T", 0, "temperature")
	cmd.Flags().Float64Var(&p, "P", 0, "pressure")
	cmd.Flags().StringVar(&qProp, "quality-prop", "", "property used to derive quality (v, u, h, s)")
	cmd.Flags().Float64("quality-value", 0, "value of --quality-prop")
	return cmd
}

func newTwoPhaseCmd(a *app) *cobra.Command {
	var (
		fluid string
		basis string
		value float64
		qProp string
	)
	cmd := &cobra.Command{
		Use:   "two-phase",
		Short: workflow.TwoPhase.Label() + " at a saturation temperature or pressure",
		Example: `  thermo workflow two-phase --basis P --value 100 --x 0.5
  thermo workflow two-phase --basis T --value 120 --quality-prop h --quality-value 1500`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "value"); err != nil {
				return err
			}
			var b workflow.Basis
			switch strings.ToUpper(strings.TrimSpace(basis)) {
			case "T":
				b = workflow.BasisT
			case "P":
				b = workflow.BasisP
			default:
				return fmt.Errorf("%w: basis %q (use T or P)", types.ErrInvalidInput, basis)
			}
			x, err := optionalFloat(cmd, "x")
			if err != nil {
				return err
			}
			qv, err := optionalFloat(cmd, "quality-value")
			if err != nil {
				return err
			}
			return a.runWorkflow(cmd, func(r *workflow.Runner) (types.WorkflowResult, error) {
				return r.TwoPhase(workflow.TwoPhaseInput{
					Fluid: fluid, UnitSystem: a.unitSystem(),
					Basis: b, Value: value, X: x,
					QualityProperty: qProp, QualityValue: qv,
				})
			})
		},
	}
	cmd.Flags().StringVar(&fluid, "fluid", defaultFluid, "fluid name")
	cmd.Flags().StringVar(&basis, "basis", "T", "saturation basis: T or P")
	cmd.Flags().Float64Var(&value, "value", 0, "saturation temperature or pressure")
	cmd.Flags().Float64("x", 0, "vapor quality (0 to 1)")
	cmd.Flags().StringVar(&qProp, "quality-prop", "", "property used to derive quality (v, u, h, s)")
	cmd.Flags().Float64("quality-value", 0, "value of --quality-prop")
	return cmd
}

func newReverseLookupCmd(a *app) *cobra.Command {
	var (
		fluid string
		key   string
		p, v  float64
	)
	cmd := &cobra.Command{
		Use:     "reverse-lookup",
		Short:   workflow.ReverseLookup.Label(),
		Example: `  thermo workflow reverse-lookup --P 2000 --key h --value 3137.7`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "P", "value"); err != nil {
				return err
			}
			return a.runWorkflow(cmd, func(r *workflow.Runner) (types.WorkflowResult, error) {
				return r.ReverseLookup(workflow.ReverseInput{
					Fluid: fluid, UnitSystem: a.unitSystem(),
					Key: key, P: p, Value: v,
				})
			})
		},
	}
	cmd.Flags().StringVar(&fluid, "fluid", defaultFluid, "fluid name")
	cmd.Flags().StringVar(&key, "key", "h", "known property: h or s")
	cmd.Flags().Float64Var(&p, "P", 0, "pressure")
	cmd.Flags().Float64Var(&v, "value", 0, "value of --key")
	return cmd
}

func newStateGuideCmd(a *app) *cobra.Command {
	var (
		fluid      string
		pair       string
		t, p, h, s float64
	)
	cmd := &cobra.Command{
		Use:   "state-guide",
		Short: workflow.StateGuide.Label() + " from a TP, Ph or Ps pair",
		Example: `  thermo workflow state-guide --pair TP --T 100 --P 50
  thermo workflow state-guide --pair Ph --P 100 --h 1500`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := workflow.ParsePair(pair)
			if err != nil {
				return err
			}
			need := map[workflow.Pair][]string{
				workflow.PairTP: {"T", "P"},
				workflow.PairPh: {"P", "h"},
				workflow.PairPs: {"P", "s"},
			}[pr]
			if err := requireFlags(cmd, need...); err != nil {
				return err
			}
			return a.runWorkflow(cmd, func(r *workflow.Runner) (types.WorkflowResult, error) {
				return r.StateGuide(workflow.GuideInput{
					Fluid: fluid, UnitSystem: a.unitSystem(),
					Pair: pr, T: t, P: p, H: h, S: s,
				})
			})
		},
	}
	cmd.Flags().StringVar(&fluid, "fluid", defaultFluid, "fluid name")
	cmd.Flags().StringVar(&pair, "pair", string(workflow.PairTP), "known pair: TP, Ph or Ps")
	cmd.Flags().Float64Var(&t, "T", 0, "temperature")
	cmd.Flags().Float64Var(&p, "P", 0, "pressure")
	cmd.Flags().Float64Var(&h, "h", 0, "specific enthalpy")
	cmd.Flags().Float64Var(&s, "s", 0, "specific entropy")
	return cmd
}

func newIsentropicDeviceCmd(a *app) *cobra.Command {
	var (
		fluid, device   string
		t1, p1, p2, eta float64
	)
	cmd := &cobra.Command{
		Use:     "isentropic-device",
		Short:   workflow.IsentropicDevice.Label(),
		Example: `  thermo workflow isentropic-device --device turbine --T1 480 --P1 8000 --P2 2000 --eta 0.85`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "T1", "P1", "P2"); err != nil {
				return err
			}
			d, err := workflow.ParseDevice(device)
			if err != nil {
				return err
			}
			return a.runWorkflow(cmd, func(r *workflow.Runner) (types.WorkflowResult, error) {
				return r.IsentropicDevice(workflow.DeviceInput{
					Fluid: fluid, UnitSystem: a.unitSystem(),
					Device: d, T1: t1, P1: p1, P2: p2, Eta: eta,
				})
			})
		},
	}
	cmd.Flags().StringVar(&fluid, "fluid", defaultFluid, "fluid name")
	cmd.Flags().StringVar(&device, "device", string(workflow.Turbine), "turbine or compressor")
	cmd.Flags().Float64Var(&t1, "T1", 0, "inlet temperature")
	cmd.Flags().Float64Var(&p1, "P1", 0, "inlet pressure")
	cmd.Flags().Float64Var(&p2, "P2", 0, "exit pressure")
	cmd.Flags().Float64Var(&eta, "eta", 1, "isentropic efficiency")
	return cmd
}

func newPropertyDeltaCmd(a *app) *cobra.Command {
	var (
		fluid          string
		t1, p1, t2, p2 float64
	)
	cmd := &cobra.Command{
		Use:     "property-delta",
		Short:   workflow.PropertyDelta.Label() + " between two PT states",
		Example: `  thermo workflow property-delta --T1 300 --P1 2000 --T2 400 --P2 2000`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "T1", "P1", "T2", "P2"); err != nil {
				return err
			}
			return a.runWorkflow(cmd, func(r *workflow.Runner) (types.WorkflowResult, error) {
				return r.PropertyDelta(workflow.DeltaInput{
					Fluid: fluid, UnitSystem: a.unitSystem(),
					T1: t1, P1: p1, T2: t2, P2: p2,
				})
			})
		},
	}
	cmd.Flags().StringVar(&fluid, "fluid", defaultFluid, "fluid name")
	cmd.Flags().Float64Var(&t1, "T1", 0, "first state temperature")
	cmd.Flags().Float64Var(&p1, "P1", 0, "first state pressure")
	cmd.Flags().Float64Var(&t2, "T2", 0, "second state temperature")
	cmd.Flags().Float64Var(&p2, "P2", 0, "second state pressure")
	return cmd
}
