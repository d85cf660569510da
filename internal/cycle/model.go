package cycle

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Table selectors shared by the templates.
var (
	waterFluid    = regexp.MustCompile(`(?i)water`)
	r134aFluid    = regexp.MustCompile(`(?i)r[\s-]*134a`)
	nitrogenFluid = regexp.MustCompile(`(?i)nitrogen`)
	superheated   = regexp.MustCompile(`(?i)superheated`)
)

// Model builds cycles against a table store. It holds no mutable state and
// is safe for concurrent use.
type Model struct {
	store *tables.Store
}

// NewModel returns a Model reading tables from store.
func NewModel(store *tables.Store) *Model {
	return &Model{store: store}
}

// Store returns the table store the model reads from.
func (m *Model) Store() *tables.Store {
	return m.store
}

// Build evaluates tpl with inputs overlaid on the template defaults and
// returns a new Cycle with a fresh ID.
func (m *Model) Build(tpl Template, inputs map[string]float64) (*types.Cycle, error) {
	c, err := m.build(tpl, inputs)
	if err != nil {
		return nil, err
	}
	c.ID = generateUUID()
	return c, nil
}

// Evaluate builds tpl and returns its finite metrics keyed by metric key.
func (m *Model) Evaluate(tpl Template, inputs map[string]float64) (map[string]float64, error) {
	c, err := m.build(tpl, inputs)
	if err != nil {
		return nil, err
	}
	return c.MetricValues(), nil
}

// Evaluator binds a model to one template so it can be handed to a solver.
type Evaluator struct {
	Model    *Model
	Template Template
}

// Evaluate builds the bound template.
func (e Evaluator) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	return e.Model.Evaluate(e.Template, inputs)
}

// built is what a template builder produces before sanity checks.
type built struct {
	points  []types.StatePoint
	metrics []types.Metric
}

func (b *built) metric(key, label, unit string, v float64) {
	b.metrics = append(b.metrics, types.Metric{Key: key, Label: label, Unit: unit, Value: v})
}

func (m *Model) build(tpl Template, inputs map[string]float64) (*types.Cycle, error) {
	in, err := tpl.Merge(inputs)
	if err != nil {
		return nil, err
	}

	var b built
	switch tpl {
	case RankineIdeal:
		b, err = m.rankine(in, idealLayout)
	case SteamLoop:
		b, err = m.rankine(in, steamLoopLayout)
	case RankineReheat:
		b, err = m.rankineReheat(in)
	case VCR:
		b, err = m.vcr(in)
	case Brayton:
		b, err = m.brayton(in)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownTemplate, tpl)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tpl, err)
	}

	return &types.Cycle{
		Template: tpl.ID(),
		Label:    tpl.Label(),
		Fluid:    tpl.Fluid(),
		Inputs:   in,
		Points:   b.points,
		Metrics:  b.metrics,
		Warnings: sanityWarnings(tpl, in, b),
	}, nil
}

// findPair returns the saturation and PT tables for a template.
func (m *Model) findPair(sat tables.Query, pt tables.Query, missing string) (types.Table, types.Table, error) {
	s, err := m.store.Find(sat)
	if err != nil {
		return types.Table{}, types.Table{}, fmt.Errorf("%w: %s", types.ErrMissingTable, missing)
	}
	p, err := m.store.Find(pt)
	if err != nil {
		return types.Table{}, types.Table{}, fmt.Errorf("%w: %s", types.ErrMissingTable, missing)
	}
	return s, p, nil
}

func (m *Model) waterTables(templateLabel string) (types.Table, types.Table, error) {
	return m.findPair(
		tables.Query{Mode: types.ModeSatP, Fluid: waterFluid},
		tables.Query{Mode: types.ModePT, Fluid: waterFluid, Sheet: superheated},
		"missing SI water tables for "+templateLabel+" template",
	)
}

// efficiency validates an efficiency input.
func efficiency(in map[string]float64, key, name string) (float64, error) {
	v := in[key]
	if !types.IsFinite(v) || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be greater than 0", types.ErrEfficiencyInvalid, name)
	}
	return v, nil
}

// generateUUID generates a new UUID v7 for cycle IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
