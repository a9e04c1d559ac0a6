package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/entitygen/internal/emit"
	"github.com/JonMunkholm/entitygen/internal/generate"
)

// PreviewCmd returns the preview command
func PreviewCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "preview <table>",
		Short: "Print the source generated for one table without writing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			logger := loggerFor(cmd)

			emitter, err := emit.New(cfg.Language, cfg.Package)
			if err != nil {
				return err
			}

			conn, err := connect(cmd, cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			artifacts, err := generate.New(conn, emitter, nil,
				generate.WithStrict(cfg.Strict),
				generate.WithLogger(logger),
			).Render(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, a := range artifacts {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, color.New(color.FgCyan).Sprintf("// ==> %s", a.File))
				fmt.Fprint(out, a.Source)
			}
			return nil
		},
	}

	o.bindConnection(cmd)
	o.bindOutput(cmd)
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail on inconsistent table metadata instead of warning")

	return cmd
}
