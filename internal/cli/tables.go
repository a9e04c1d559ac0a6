package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/entitygen/internal/generate"
)

// TablesCmd returns the tables command
func TablesCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables and the types generated for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			logger := loggerFor(cmd)

			conn, err := connect(cmd, cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			summaries, err := generate.New(conn, nil, nil, generate.WithLogger(logger)).Describe(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tCLASS\tKEY\tFIELDS\tRELATIONS")
			fmt.Fprintln(w, "-----\t-----\t---\t------\t---------")
			for _, s := range summaries {
				key := s.KeyClass
				if key == "" {
					key = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", s.Table, s.Class, key, s.Fields, s.Relations)
			}
			return w.Flush()
		},
	}

	o.bindConnection(cmd)

	return cmd
}
