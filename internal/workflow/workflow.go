// Package workflow runs guided single-state calculations over the loaded
// tables. Each workflow returns labelled items, a step-by-step trace, and
// sanity warnings that flag inputs which are legal but physically doubtful.
package workflow

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mesh-intelligence/thermocycle/internal/saturation"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// ID identifies a workflow.
type ID string

// Workflows.
const (
	PhaseCheck       ID = "phase-check"
	TwoPhase         ID = "two-phase"
	ReverseLookup    ID = "reverse-lookup"
	StateGuide       ID = "state-guide"
	IsentropicDevice ID = "isentropic-device"
	PropertyDelta    ID = "property-delta"
)

var workflowLabels = []struct {
	id    ID
	label string
}{
	{PhaseCheck, "Phase Determination"},
	{TwoPhase, "Two-Phase Mixture"},
	{ReverseLookup, "Reverse Lookup (P+h / P+s)"},
	{StateGuide, "Guided State Identification"},
	{IsentropicDevice, "Isentropic Turbine / Compressor"},
	{PropertyDelta, "Property Differences"},
}

// IDs returns every workflow in display order.
func IDs() []ID {
	out := make([]ID, len(workflowLabels))
	for i, w := range workflowLabels {
		out[i] = w.id
	}
	return out
}

// ParseID returns the workflow named s, ignoring case.
// Returns ErrUnknownWorkflow if s names none.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, w := range workflowLabels {
		if strings.EqualFold(string(w.id), s) {
			return w.id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", types.ErrUnknownWorkflow, s)
}

// Label returns the display name of the workflow.
func (id ID) Label() string {
	for _, w := range workflowLabels {
		if w.id == id {
			return w.label
		}
	}
	return string(id)
}

// Modes returns the table modes the workflow reads.
func (id ID) Modes() []types.Mode {
	switch id {
	case PhaseCheck, TwoPhase:
		return []types.Mode{types.ModeSatT}
	case ReverseLookup, StateGuide:
		return []types.Mode{types.ModePT, types.ModeSatT}
	default:
		return []types.Mode{types.ModePT}
	}
}

// Runner executes workflows against a table store.
type Runner struct {
	store *tables.Store
}

// NewRunner returns a Runner reading tables from store.
func NewRunner(store *tables.Store) *Runner {
	return &Runner{store: store}
}

// Fluids returns the fluids that have every table mode id needs in the
// given unit system, sorted by name.
func (r *Runner) Fluids(id ID, unitSystem string) []string {
	var out []string
	for _, f := range r.store.Fluids() {
		ok := true
		for _, m := range id.Modes() {
			if !r.store.HasMode(f, m, unitSystem) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}

func (r *Runner) satTable(fluid, unitSystem string) (types.Table, error) {
	t, err := r.store.Find(tables.Query{Mode: types.ModeSatT, Fluid: tables.ExactFluid(fluid), UnitSystem: unitSystem})
	if err != nil {
		return types.Table{}, fmt.Errorf("%w: no saturated table found for %s (%s)", types.ErrMissingTable, fluid, unitLabel(unitSystem))
	}
	return t, nil
}

func (r *Runner) ptTable(fluid, unitSystem string) (types.Table, error) {
	t, err := r.store.Find(tables.Query{Mode: types.ModePT, Fluid: tables.ExactFluid(fluid), UnitSystem: unitSystem})
	if err != nil {
		return types.Table{}, fmt.Errorf("%w: no PT table found for %s (%s)", types.ErrMissingTable, fluid, unitLabel(unitSystem))
	}
	return t, nil
}

func unitLabel(unitSystem string) string {
	if unitSystem == "" {
		return types.UnitSystemSI
	}
	return unitSystem
}

// report accumulates the output of a workflow before it is finalized.
type report struct {
	items    []types.WorkflowItem
	steps    []string
	warnings []string
}

func (rep *report) num(label string, v float64, desc string) {
	rep.numUnit(label, v, "", desc)
}

func (rep *report) numUnit(label string, v float64, unit, desc string) {
	it := types.WorkflowItem{Label: label, Unit: unit, Desc: desc}
	if types.IsFinite(v) {
		it.Value = &v
	}
	rep.items = append(rep.items, it)
}

func (rep *report) text(label, v, desc string) {
	rep.items = append(rep.items, types.WorkflowItem{Label: label, Text: v, Desc: desc})
}

func (rep *report) step(format string, args ...any) {
	rep.steps = append(rep.steps, fmt.Sprintf(format, args...))
}

func (rep *report) warn(msg string) {
	rep.warnings = append(rep.warnings, msg)
}

// merge appends the items, steps, and warnings of sub.
func (rep *report) merge(sub *report) {
	rep.items = append(rep.items, sub.items...)
	rep.steps = append(rep.steps, sub.steps...)
	rep.warnings = append(rep.warnings, sub.warnings...)
}

// mixItems adds f + x*fg for every quality property resolvable from sat.
// label formats the item label from the property key; withSteps adds the
// relation to the trace.
func (rep *report) mixItems(sat map[string]float64, x float64, label func(key string) string, withSteps bool) {
	for _, key := range saturation.QualityProperties() {
		v, ok := saturation.Mix(sat, key, x)
		if !ok {
			continue
		}
		t, _ := saturation.TripletFor(key)
		rep.num(label(key), v, t.F+" + x*"+t.FG)
		if withSteps {
			rep.step("%s = %s + x*%s.", key, t.F, t.FG)
		}
	}
}

// result finalizes the report. Warnings are echoed into the steps and as
// numbered sanity items.
func (rep *report) result(id ID, status string) types.WorkflowResult {
	res := types.WorkflowResult{
		Workflow: string(id),
		Status:   status,
		Items:    slices.Clone(rep.items),
		Steps:    slices.Clone(rep.steps),
		Warnings: slices.Clone(rep.warnings),
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	if len(rep.warnings) == 0 {
		return res
	}
	res.Steps = append(res.Steps, fmt.Sprintf("Sanity checks flagged %d potential issue(s).", len(rep.warnings)))
	for i, w := range rep.warnings {
		label := fmt.Sprintf("Sanity %d", i+1)
		res.Items = append(res.Items, types.WorkflowItem{Label: label, Text: w, Desc: "Review assumptions"})
		res.Steps = append(res.Steps, label+": "+w)
	}
	return res
}

// field is a named numeric input.
type field struct {
	name  string
	value float64
}

// validate checks that every field is a finite number.
func validate(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", types.ErrInvalidInput, f.name)
		}
	}
	return nil
}

var fnum = types.FormatNumber
