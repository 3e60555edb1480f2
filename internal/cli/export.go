package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/spreadtable/internal/application"
	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/dom"
	"github.com/JonMunkholm/spreadtable/internal/export"
)

type exportFlags struct {
	html     string
	manifest string
	table    string
	out      string
	sheet    string
}

func newExportCommand(cfg *config.Config) *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a table to an xlsx workbook",
		Long: `Write the current contents of a table to a single-sheet workbook.

The table is read from an HTML page (--html) or from the manifest
(--manifest, default $TABLES_MANIFEST). When the table is not present the
alert text is printed to stderr and nothing is written.`,
		Example: `  spreadtable export --html summary.html --table summaryTable
  spreadtable export --manifest tables.yaml --table ipcaTable --out ipca.xlsx
  spreadtable export --table summaryTable --out - > resumo.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return userFacing(runExport(cmd, cfg, f))
		},
	}

	cmd.Flags().StringVar(&f.html, "html", "", "HTML page holding the table")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "Table manifest (default: $TABLES_MANIFEST)")
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Table identifier (required)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", `Output file, "-" for stdout (default: $EXPORT_DEFAULT_FILENAME)`)
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name (default: $EXPORT_SHEET_NAME)")
	cmd.MarkFlagsMutuallyExclusive("html", "manifest")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runExport(cmd *cobra.Command, cfg *config.Config, f exportFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, closeSrc, err := openSource(ctx, cfg, f.html, f.manifest)
	if err != nil {
		return err
	}
	defer closeSrc()

	defaults := export.Defaults{
		Filename:            cfg.Export.DefaultFilename,
		Sheet:               cfg.Export.SheetName,
		MissingTableMessage: cfg.Export.MissingTableMessage,
	}
	if f.sheet != "" {
		defaults.Sheet = f.sheet
	}

	ex := &export.Exporter{
		Source: src,
		Alerter: export.AlerterFunc(func(_ context.Context, message string) error {
			_, err := fmt.Fprintln(cmd.ErrOrStderr(), message)
			return err
		}),
		Defaults: defaults,
	}

	var store *export.DirSaver
	filename := ""
	if f.out == "-" {
		ex.Saver = export.WriterSaver{W: cmd.OutOrStdout()}
	} else {
		dir := "."
		if f.out != "" {
			dir, filename = filepath.Split(f.out)
			if dir == "" {
				dir = "."
			}
		}
		store = export.NewDirSaver(dir)
		ex.Saver = store
	}

	res, err := ex.Run(ctx, f.table, filename)
	if err != nil {
		return err
	}
	if res != nil && store != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", store.Path(res.Filename), res.Rows)
	}
	return nil
}

// openSource returns the table source for an HTML page or a manifest.
func openSource(ctx context.Context, cfg *config.Config, html, manifest string) (core.TableSource, func(), error) {
	if html != "" {
		return dom.NewFileSource(html), func() {}, nil
	}
	if manifest == "" {
		manifest = cfg.Sources.Manifest
	}
	if manifest == "" {
		return nil, nil, errors.New("no table source: pass --html or --manifest")
	}
	tables, err := application.LoadTables(ctx, cfg, manifest)
	if err != nil {
		return nil, nil, err
	}
	return tables.Registry, tables.Close, nil
}
