package diagram

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

var (
	domeColor   = color.RGBA{R: 0x22, G: 0xb8, B: 0xcf, A: 0xff}
	isobarColor = color.RGBA{R: 15, G: 138, B: 106, A: 72}
	cycleColor  = color.RGBA{R: 0x10, G: 0xa3, B: 0x7f, A: 0xff}
)

// Plot assembles the diagram. The cycle path is closed back to its first
// point.
func (d Data) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = strings.TrimSpace(d.Title + " " + string(d.Kind) + " diagram")
	xl, yl := d.Kind.Axes()
	p.X.Label.Text = xl
	p.Y.Label.Text = yl
	p.Add(plotter.NewGrid())
	if d.Kind.Log() {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	for _, side := range []plotter.XYs{d.Liquid, d.Vapor} {
		if len(side) < 2 {
			continue
		}
		l, err := plotter.NewLine(side)
		if err != nil {
			return nil, fmt.Errorf("dome: %w", err)
		}
		l.Color = domeColor
		l.Width = vg.Points(2.2)
		p.Add(l)
	}

	for _, iso := range d.Isobars {
		l, err := plotter.NewLine(iso.XYs)
		if err != nil {
			return nil, fmt.Errorf("isobar P=%s: %w", types.FormatNumber(iso.Pressure), err)
		}
		l.Color = isobarColor
		l.Width = vg.Points(1.1)
		p.Add(l)
	}

	if len(d.Points) > 0 {
		xys := make(plotter.XYs, len(d.Points))
		labels := make([]string, len(d.Points))
		for i, pt := range d.Points {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
			labels[i] = pt.ID
		}

		if len(xys) >= 2 {
			path := append(append(plotter.XYs{}, xys...), xys[0])
			l, err := plotter.NewLine(path)
			if err != nil {
				return nil, fmt.Errorf("cycle path: %w", err)
			}
			l.Color = cycleColor
			l.Width = vg.Points(2.6)
			p.Add(l)
			p.Legend.Add("cycle", l)
		}

		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("cycle points: %w", err)
		}
		s.Color = cycleColor
		p.Add(s)

		lb, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("point labels: %w", err)
		}
		p.Add(lb)
	}

	if xmin, xmax, ymin, ymax, ok := d.Bounds(); ok {
		p.X.Min, p.X.Max = xmin, xmax
		p.Y.Min, p.Y.Max = ymin, ymax
	}
	return p, nil
}

// Render writes the diagram to w in the given image format (png, svg,
// pdf, and the other formats gonum/plot supports).
func (d Data) Render(w io.Writer, format string, width, height vg.Length) error {
	p, err := d.Plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, strings.ToLower(format))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes the diagram to path; the format follows the file extension.
func (d Data) Save(path string, width, height vg.Length) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: %s has no image extension", types.ErrInvalidInput, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := d.Render(f, format, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
