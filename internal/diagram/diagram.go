// Package diagram draws property diagrams of a built cycle: T-s, P-h with a
// logarithmic pressure axis, and h-s. The cycle path is overlaid on the
// saturation dome and a handful of isobars taken from the fluid's tables.
package diagram

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/plot/plotter"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Kind selects the diagram axes.
type Kind string

// Diagram kinds.
const (
	TS Kind = "Ts"
	PH Kind = "Ph"
	HS Kind = "hs"
)

// ParseKind returns the diagram named s, ignoring case.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{TS, PH, HS} {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown diagram %q; use Ts, Ph, or hs", types.ErrInvalidInput, s)
}

// Axes returns the x and y axis labels.
func (k Kind) Axes() (x, y string) {
	switch k {
	case PH:
		return "h", "P (log)"
	case HS:
		return "s", "h"
	default:
		return "s", "T"
	}
}

// Log reports whether the y axis is logarithmic.
func (k Kind) Log() bool {
	return k == PH
}

// xy maps a state given by its properties onto the diagram axes. It reports
// false when a needed property is missing or, on P-h, the pressure is not
// positive.
func (k Kind) xy(t, p, h, s float64) (float64, float64, bool) {
	var x, y float64
	switch k {
	case PH:
		x, y = h, p
		if !(p > 0) {
			return 0, 0, false
		}
	case HS:
		x, y = s, h
	default:
		x, y = s, t
	}
	return x, y, types.IsFinite(x) && types.IsFinite(y)
}

// Point is a labelled cycle state on the diagram.
type Point struct {
	ID   string
	X, Y float64
}

// Isobar is one constant-pressure curve.
type Isobar struct {
	Pressure float64
	XYs      plotter.XYs
}

// Data is the plottable content of a diagram.
type Data struct {
	Kind    Kind
	Title   string
	Points  []Point
	Liquid  plotter.XYs
	Vapor   plotter.XYs
	Isobars []Isobar
}

// Options controls which reference curves are drawn.
type Options struct {
	Dome       bool
	Isobars    bool
	UnitSystem string
}

// maxIsobars is the most constant-pressure curves drawn.
const maxIsobars = 6

// Build maps the points of c onto kind's axes and collects the reference
// curves for the cycle's fluid from store. Water tables serve as the
// reference when the fluid has none.
func Build(store *tables.Store, c *types.Cycle, kind Kind, opts Options) Data {
	d := Data{Kind: kind, Title: c.Label}
	for _, p := range c.Points {
		if x, y, ok := kind.xy(p.T, p.P, p.H, p.S); ok {
			d.Points = append(d.Points, Point{ID: p.ID, X: x, Y: y})
		}
	}

	fluid := tables.ExactFluid(c.Fluid)
	if opts.Dome {
		if sat, err := referenceTable(store, types.ModeSatT, fluid, opts.UnitSystem, regexp.MustCompile(`(?i)saturated water`)); err == nil {
			d.Liquid, d.Vapor = dome(sat, kind)
		}
	}
	if opts.Isobars {
		if pt, err := referenceTable(store, types.ModePT, fluid, opts.UnitSystem, regexp.MustCompile(`(?i)superheated`)); err == nil {
			d.Isobars = isobars(pt, kind)
		}
	}
	return d
}

var waterFluid = regexp.MustCompile(`(?i)water`)

func referenceTable(store *tables.Store, mode types.Mode, fluid *regexp.Regexp, unitSystem string, waterSheet *regexp.Regexp) (types.Table, error) {
	t, err := store.Find(tables.Query{Mode: mode, Fluid: fluid, UnitSystem: unitSystem})
	if err == nil {
		return t, nil
	}
	return store.Find(tables.Query{Mode: mode, Fluid: waterFluid, UnitSystem: unitSystem, Sheet: waterSheet})
}

// dome returns the saturated-liquid and saturated-vapor lines in order of
// rising temperature.
func dome(sat types.Table, kind Kind) (liquid, vapor plotter.XYs) {
	rows := interp.SortRowsByKey(sat.Rows, "T")
	for _, r := range rows {
		t, p := rowValue(r, "T"), rowValue(r, "P")
		if x, y, ok := kind.xy(t, p, rowValue(r, "hf"), rowValue(r, "sf")); ok {
			liquid = append(liquid, plotter.XY{X: x, Y: y})
		}
		if x, y, ok := kind.xy(t, p, rowValue(r, "hg"), rowValue(r, "sg")); ok {
			vapor = append(vapor, plotter.XY{X: x, Y: y})
		}
	}
	return liquid, vapor
}

// isobars picks up to six evenly spaced pressure groups of a PT table.
func isobars(pt types.Table, kind Kind) []Isobar {
	groups := interp.BuildPressureGroups(pt.Rows)
	step := max(1, len(groups)/maxIsobars)

	var out []Isobar
	for i := 0; i < len(groups) && len(out) < maxIsobars; i += step {
		g := groups[i]
		var xys plotter.XYs
		for _, r := range g.Rows {
			if x, y, ok := kind.xy(rowValue(r, "T"), rowValue(r, "P"), rowValue(r, "h"), rowValue(r, "s")); ok {
				xys = append(xys, plotter.XY{X: x, Y: y})
			}
		}
		if len(xys) >= 2 {
			out = append(out, Isobar{Pressure: g.Pressure, XYs: xys})
		}
	}
	return out
}

func rowValue(r types.Row, key string) float64 {
	if v, ok := r.Get(key); ok {
		return v
	}
	return math.NaN()
}

// Bounds returns the axis limits in data units. The cycle points set the
// window, widened by nearby dome points so the dome stays in context, then
// padded by 8% in x and 10% in y. On P-h the y limits are computed in log
// space.
func (d Data) Bounds() (xmin, xmax, ymin, ymax float64, ok bool) {
	ty, inv := d.transform()

	var all []plotter.XY
	domePts := append(append(plotter.XYs{}, d.Liquid...), d.Vapor...)
	for _, p := range d.Points {
		all = append(all, plotter.XY{X: p.X, Y: p.Y})
	}
	if len(all) > 0 && len(domePts) > 0 {
		pxMin, pxMax, pyMin, pyMax := extent(all, ty)
		spanX := math.Max(pxMax-pxMin, 1e-9)
		spanY := math.Max(pyMax-pyMin, 1e-9)
		for _, p := range domePts {
			y := ty(p.Y)
			if p.X >= pxMin-0.7*spanX && p.X <= pxMax+0.7*spanX && y >= pyMin-0.8*spanY && y <= pyMax+0.8*spanY {
				all = append(all, p)
			}
		}
	}
	if len(all) == 0 {
		all = append(all, domePts...)
		for _, iso := range d.Isobars {
			all = append(all, iso.XYs...)
		}
	}
	if len(all) == 0 {
		return 0, 0, 0, 0, false
	}

	xmin, xmax, ymin, ymax = extent(all, ty)
	if math.Abs(xmax-xmin) < 1e-9 {
		xmin, xmax = xmin-1, xmax+1
	}
	if math.Abs(ymax-ymin) < 1e-9 {
		ymin, ymax = ymin-1, ymax+1
	}
	xPad := (xmax - xmin) * 0.08
	yPad := (ymax - ymin) * 0.1
	return xmin - xPad, xmax + xPad, inv(ymin - yPad), inv(ymax + yPad), true
}

// transform returns the y mapping used for bounds and its inverse.
func (d Data) transform() (func(float64) float64, func(float64) float64) {
	if d.Kind.Log() {
		return math.Log10, func(v float64) float64 { return math.Pow(10, v) }
	}
	id := func(v float64) float64 { return v }
	return id, id
}

func extent(pts []plotter.XY, ty func(float64) float64) (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		y := ty(p.Y)
		if !types.IsFinite(p.X) || !types.IsFinite(y) {
			continue
		}
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	return xmin, xmax, ymin, ymax
}
