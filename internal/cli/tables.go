package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/spreadtable/internal/application"
	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/core"
)

// Table availability as reported by "tables --check".
const (
	statusOK      = "ok"
	statusMissing = "missing"
)

type tableRow struct {
	ID      string `json:"id" yaml:"id"`
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`
	Label   string `json:"label" yaml:"label"`
	Variant string `json:"variant" yaml:"variant"`
	Kind    string `json:"kind" yaml:"kind"`
	Rows    *int   `json:"rows,omitempty" yaml:"rows,omitempty"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
}

func newTablesCommand(cfg *config.Config) *cobra.Command {
	var (
		manifest string
		output   string
		check    bool
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables declared in the manifest",
		Long: `List the tables declared in the manifest. With --check every table is
read once and its row count or failure is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return userFacing(runTables(cmd, cfg, manifest, output, check))
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "Table manifest (default: $TABLES_MANIFEST)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&check, "check", false, "Read every table and report its status")
	return cmd
}

func runTables(cmd *cobra.Command, cfg *config.Config, manifest, output string, check bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if manifest == "" {
		manifest = cfg.Sources.Manifest
	}

	tables, err := application.LoadTables(ctx, cfg, manifest)
	if err != nil {
		return err
	}
	defer tables.Close()

	rows := make([]tableRow, 0, len(tables.Manifest.Tables))
	for _, spec := range tables.Manifest.Tables {
		def, _ := tables.Registry.Get(spec.ID)
		row := tableRow{
			ID:      spec.ID,
			Group:   def.Info.Group,
			Label:   def.Info.Label,
			Variant: string(def.Info.Variant),
			Kind:    spec.ResolvedKind(),
		}
		if check {
			row.Rows, row.Status = checkTable(ctx, tables.Registry, spec.ID)
		}
		rows = append(rows, row)
	}
	return writeTables(cmd.OutOrStdout(), output, rows, check)
}

func checkTable(ctx context.Context, src core.TableSource, id string) (*int, string) {
	t, err := src.Lookup(ctx, id)
	switch {
	case errors.Is(err, core.ErrTableNotFound):
		return nil, statusMissing
	case err != nil:
		return nil, core.FormatUserError(err)
	}
	n := len(t.Body)
	return &n, statusOK
}

func writeTables(w io.Writer, format string, rows []tableRow, check bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if check {
			fmt.Fprintln(tw, "ID\tGROUP\tLABEL\tVARIANT\tKIND\tROWS\tSTATUS")
		} else {
			fmt.Fprintln(tw, "ID\tGROUP\tLABEL\tVARIANT\tKIND")
		}
		for _, r := range rows {
			if check {
				count := "-"
				if r.Rows != nil {
					count = fmt.Sprint(*r.Rows)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Group, r.Label, r.Variant, r.Kind, count, r.Status)
			} else {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Group, r.Label, r.Variant, r.Kind)
			}
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}
