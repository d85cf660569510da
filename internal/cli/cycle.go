package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thermocycle/internal/cycle"
	"github.com/mesh-intelligence/thermocycle/internal/diagram"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// templateInfo is the catalogue form of a template.
type templateInfo struct {
	ID      string             `json:"id"`
	Label   string             `json:"label"`
	Fluid   string             `json:"fluid"`
	Inputs  []cycle.InputSpec  `json:"inputs"`
	Metrics []cycle.MetricSpec `json:"metrics"`
}

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List cycle templates with their inputs and target metrics",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []templateInfo
			for _, t := range cycle.Templates() {
				infos = append(infos, templateInfo{
					ID:      t.ID(),
					Label:   t.Label(),
					Fluid:   t.Fluid(),
					Inputs:  t.Inputs(),
					Metrics: t.Metrics(),
				})
			}
			if a.flags.jsonMode {
				return printJSON(cmd, infos)
			}

			out := cmd.OutOrStdout()
			for i, info := range infos {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s  %s (%s)\n", info.ID, info.Label, info.Fluid)
				w := newTabWriter(out)
				for _, in := range info.Inputs {
					fmt.Fprintf(w, "  input\t%s\t%s\t%s\t%s\n", in.Key, types.FormatNumber(in.Default), unitOrDash(in.Unit), in.Label)
				}
				for _, m := range info.Metrics {
					fmt.Fprintf(w, "  metric\t%s\t\t%s\t%s\n", m.Key, unitOrDash(m.Unit), m.Label)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func unitOrDash(u string) string {
	if u == "" {
		return "-"
	}
	return u
}

func newCycleCmd(a *app) *cobra.Command {
	var (
		diagramKind string
		plotPath    string
		noDome      bool
		noIsobars   bool
	)

	cmd := &cobra.Command{
		Use:   "cycle <template> [key=value...]",
		Short: "Evaluate a cycle template",
		Long: `Evaluate a cycle template. Inputs not given keep their defaults
(see 'thermo templates').

Example:
  thermo cycle rankine-ideal
  thermo cycle rankine-ideal pHigh=10000 tHigh=550
  thermo cycle vcr --plot vcr.png --diagram Ph`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := cycle.ParseTemplate(args[0])
			if err != nil {
				return err
			}
			inputs, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			kind, err := diagram.ParseKind(diagramKind)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}

			c, err := cycle.NewModel(store).Build(tpl, inputs)
			if err != nil {
				return err
			}
			a.logger.Printf("built cycle %s (%s)", c.ID, tpl.ID())

			if plotPath != "" {
				d := diagram.Build(store, c, kind, diagram.Options{
					Dome:       !noDome,
					Isobars:    !noIsobars,
					UnitSystem: a.unitSystem(),
				})
				if err := d.Save(plotPath, diagram.DefaultWidth, diagram.DefaultHeight); err != nil {
					return err
				}
				a.logger.Printf("wrote %s diagram to %s", kind, plotPath)
			}

			if a.flags.jsonMode {
				return printJSON(cmd, c)
			}
			writeCycle(cmd.OutOrStdout(), c)
			if plotPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nDiagram written to %s\n", filepath.Clean(plotPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&diagramKind, "diagram", string(diagram.TS), "diagram kind for --plot: Ts, Ph or hs")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a diagram to this file (.png, .svg, .pdf)")
	cmd.Flags().BoolVar(&noDome, "no-dome", false, "omit the saturation dome from the diagram")
	cmd.Flags().BoolVar(&noIsobars, "no-isobars", false, "omit isobars from the diagram")
	return cmd
}

func writeCycle(out io.Writer, c *types.Cycle) {
	fmt.Fprintf(out, "%s (%s)\nID: %s\n\n", c.Label, c.Fluid, c.ID)

	w := newTabWriter(out)
	fmt.Fprintln(w, "STATE\tT\tP\th\ts\tx\tREGION")
	for _, p := range c.Points {
		x := "-"
		if q, ok := p.Quality(); ok {
			x = types.FormatNumber(q)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID,
			types.FormatNumber(p.T), types.FormatNumber(p.P),
			types.FormatNumber(p.H), types.FormatNumber(p.S), x, p.Region)
	}
	w.Flush()

	fmt.Fprintln(out)
	w = newTabWriter(out)
	fmt.Fprintln(w, "METRIC\tVALUE\tUNIT")
	for _, m := range c.Metrics {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Label, types.FormatNumber(m.Value), unitOrDash(m.Unit))
	}
	w.Flush()

	writeWarnings(out, c.Warnings)
}

// splitKeyValue splits "key=value" into its parts.
func splitKeyValue(s string) (string, string, bool) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", false
	}
	return k, strings.TrimSpace(v), true
}
