// Package cli implements the spreadtable command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/core"
)

// Version is set at build time.
var Version = "dev"

// NewRootCommand builds the command tree. cfg supplies export defaults,
// the manifest location and the database settings.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "spreadtable",
		Short: "Export and inspect HTML, workbook and query tables",
		Long: `spreadtable reads the tables declared in a manifest (or a single HTML
page) and writes them as single-sheet workbooks, the same files the web
UI's export button produces.

Environment Variables:
  TABLES_MANIFEST          Default manifest path (tables.yaml)
  EXPORT_DEFAULT_FILENAME  Workbook name when --out is not given
  EXPORT_SHEET_NAME        Worksheet name
  DATABASE_URL             PostgreSQL connection for query tables`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExportCommand(cfg))
	root.AddCommand(newTablesCommand(cfg))
	return root
}

// userFacing wraps errors with a known cause so the user sees the mapped
// message and code. Other errors pass through unchanged.
func userFacing(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return core.NewUserError(err)
}
