package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thermocycle/internal/paths"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/sqlite"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

func newDatasetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Import, export and inspect datasets",
	}
	cmd.AddCommand(newDatasetImportCmd(a))
	cmd.AddCommand(newDatasetExportCmd(a))
	cmd.AddCommand(newDatasetInfoCmd(a))
	return cmd
}

// importOutput is the JSON form of an import.
type importOutput struct {
	ImportID string `json:"import_id"`
	Source   string `json:"source"`
	Database string `json:"database"`
	Tables   int    `json:"table_count"`
}

func newDatasetImportCmd(a *app) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON or JSONL dataset into a SQLite database",
		Long: `Import replaces the contents of the target database with the tables in
<file>. The target defaults to tables.db in the data directory.

Example:
  thermo dataset import tables.json
  thermo dataset import tables.jsonl --to /srv/thermo/tables.db`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			ds, err := readDatasetFile(src)
			if err != nil {
				return err
			}
			if len(ds.Tables) == 0 {
				return fmt.Errorf("%w: %s", types.ErrNoTables, src)
			}

			target := to
			if target == "" {
				dir, err := a.dataDir()
				if err != nil {
					return err
				}
				target = filepath.Join(dir, paths.DefaultDatabase)
			}
			if types.DatasetFormat(target) != types.DatasetFormatSQLite {
				return fmt.Errorf("%w: import target %s must be a .db file", types.ErrDatasetFormatUnknown, target)
			}

			db, err := sqlite.Open(target)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := db.Import(ds)
			if err != nil {
				return err
			}
			a.logger.Printf("imported %d table(s) from %s as %s", len(ds.Tables), src, id)

			out := importOutput{ImportID: id, Source: src, Database: target, Tables: len(ds.Tables)}
			if a.flags.jsonMode {
				return printJSON(cmd, out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d table(s) into %s (import %s)\n", out.Tables, out.Database, out.ImportID)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target database (default: <data-dir>/tables.db)")
	return cmd
}

func newDatasetExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export the current dataset as JSON or JSONL",
		Long: `Export writes the configured dataset to <file>. The extension selects
the format: .json for one document, .jsonl for one table per line.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig()
			if err != nil {
				return err
			}
			ds, err := readDatasetFile(cfg.Dataset)
			if err != nil {
				return err
			}
			ds.TableCount = len(ds.Tables)

			dst := args[0]
			switch types.DatasetFormat(dst) {
			case types.DatasetFormatJSON:
				err = writeJSONDataset(dst, ds)
			case types.DatasetFormatJSONL:
				err = tables.WriteJSONL(dst, ds.Tables)
			default:
				err = fmt.Errorf("%w: export target %s must be .json or .jsonl", types.ErrDatasetFormatUnknown, dst)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d table(s) to %s\n", ds.TableCount, dst)
			return nil
		},
	}
}

func writeJSONDataset(path string, ds types.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// datasetInfo describes the configured dataset.
type datasetInfo struct {
	Path           string         `json:"path"`
	Format         string         `json:"format"`
	GeneratedAt    string         `json:"generated_at_utc,omitempty"`
	SourceWorkbook string         `json:"source_workbook,omitempty"`
	TableCount     int            `json:"table_count"`
	Fluids         []string       `json:"fluids"`
	Modes          map[string]int `json:"modes"`
}

func newDatasetInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the configured dataset",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig()
			if err != nil {
				return err
			}
			ds, err := readDatasetFile(cfg.Dataset)
			if err != nil {
				return err
			}
			store := tables.NewStore(ds.Tables)

			info := datasetInfo{
				Path:           cfg.Dataset,
				Format:         types.DatasetFormat(cfg.Dataset),
				GeneratedAt:    ds.GeneratedAt,
				SourceWorkbook: ds.SourceWorkbook,
				TableCount:     store.Len(),
				Fluids:         store.Fluids(),
				Modes:          map[string]int{},
			}
			for _, t := range ds.Tables {
				info.Modes[string(t.Mode)]++
			}
			if info.Fluids == nil {
				info.Fluids = []string{}
			}

			if a.flags.jsonMode {
				return printJSON(cmd, info)
			}
			out := cmd.OutOrStdout()
			w := newTabWriter(out)
			fmt.Fprintf(w, "Path:\t%s\n", info.Path)
			fmt.Fprintf(w, "Format:\t%s\n", info.Format)
			if info.GeneratedAt != "" {
				fmt.Fprintf(w, "Generated:\t%s\n", info.GeneratedAt)
			}
			if info.SourceWorkbook != "" {
				fmt.Fprintf(w, "Source:\t%s\n", info.SourceWorkbook)
			}
			fmt.Fprintf(w, "Tables:\t%d\n", info.TableCount)
			for _, m := range []types.Mode{types.ModeSatT, types.ModeSatP, types.ModePT} {
				fmt.Fprintf(w, "  %s:\t%d\n", m.Label(), info.Modes[string(m)])
			}
			fmt.Fprintf(w, "Fluids:\t%d\n", len(info.Fluids))
			for _, f := range info.Fluids {
				fmt.Fprintf(w, "  %s\t\n", f)
			}
			return w.Flush()
		},
	}
}
