package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the entitygen command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "entitygen",
		Short:   "Generate ORM entity sources from a database schema",
		Version: version,
		Long: `entitygen reads tables, columns, primary keys and foreign keys from a
PostgreSQL, MySQL or SQLite database and writes one entity type per table.

Settings are read from a YAML file (--config), ENTITYGEN_* environment variables
(also loaded from .env) and command-line flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(GenerateCmd())
	rootCmd.AddCommand(TablesCmd())
	rootCmd.AddCommand(PreviewCmd())

	return rootCmd
}
