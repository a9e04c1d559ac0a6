package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/entitygen/internal/emit"
	"github.com/JonMunkholm/entitygen/internal/generate"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one entity source file per database table",
		Long: `Read every table of the database and write one entity file per table to the
output directory. Tables with a composite primary key get an additional key file.

Existing files are overwritten; generation is repeatable.`,
		Args: cobra.NoArgs,
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

			writer, err := generate.NewDirWriter(cfg.OutputDir)
			if err != nil {
				return err
			}

			logger.Info("generating entities",
				"language", emitter.Language(),
				"out", cfg.OutputDir,
				"workers", cfg.Workers,
			)
			result, err := generate.New(conn, emitter, writer,
				generate.WithWorkers(cfg.Workers),
				generate.WithStrict(cfg.Strict),
				generate.WithLogger(logger),
			).Run(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info("generation complete",
				"tables", result.Tables,
				"files", len(result.Files),
				"warnings", result.Warnings,
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				color.New(color.FgGreen).Sprint("Entities generated in:"), cfg.OutputDir)
			return nil
		},
	}

	o.bindConnection(cmd)
	o.bindOutput(cmd)
	cmd.Flags().StringVarP(&o.out, "out", "o", "generated", "Output directory")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "Tables processed concurrently (default: number of CPUs)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail on inconsistent table metadata instead of warning")

	return cmd
}
