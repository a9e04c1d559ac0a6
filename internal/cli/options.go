package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/entitygen/internal/config"
	"github.com/JonMunkholm/entitygen/internal/schema"
)

// options mirrors config.Config for command-line flags. Only flags that were
// set on the command line override the loaded configuration.
type options struct {
	url          string
	user         string
	password     string
	schema       string
	queryTimeout time.Duration
	pkg          string
	out          string
	lang         string
	workers      int
	strict       bool
}

func (o *options) bindConnection(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.url, "url", "", "Database URL (postgres://, mysql://, sqlite://)")
	cmd.Flags().StringVarP(&o.user, "user", "u", "", "Database user")
	cmd.Flags().StringVarP(&o.password, "password", "p", "", "Database password")
	cmd.Flags().StringVar(&o.schema, "schema", "public", "PostgreSQL schema to read")
	cmd.Flags().DurationVar(&o.queryTimeout, "query-timeout", 30*time.Second, "Timeout per metadata query")
}

func (o *options) bindOutput(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pkg, "package", "", "Package of the generated sources (Go default: models)")
	cmd.Flags().StringVarP(&o.lang, "lang", "l", "go", "Output language: go or java")
}

// load reads the configuration and applies the flags that were set.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(envFile, configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	for name, apply := range map[string]func(){
		"url":           func() { cfg.DatabaseURL = o.url },
		"user":          func() { cfg.Username = o.user },
		"password":      func() { cfg.Password = o.password },
		"schema":        func() { cfg.Schema = o.schema },
		"query-timeout": func() { cfg.QueryTimeout = o.queryTimeout },
		"package":       func() { cfg.Package = o.pkg },
		"lang":          func() { cfg.Language = o.lang },
		"out":           func() { cfg.OutputDir = o.out },
		"workers":       func() { cfg.Workers = o.workers },
		"strict":        func() { cfg.Strict = o.strict },
	} {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect opens the metadata provider described by cfg.
func connect(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*schema.Connection, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.ConnString()
	if err != nil {
		return nil, err
	}

	logger.Debug("connecting", "dialect", dialect, "schema", cfg.Schema)
	return schema.Open(cmd.Context(), dialect, dsn, cfg.Schema, cfg.QueryTimeout)
}

// newLogger writes text logs to w; verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loggerFor(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return newLogger(cmd.ErrOrStderr(), verbose)
}

// AddGlobalFlags registers the flags shared by every command on root.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	root.PersistentFlags().String("env-file", "", "Environment file to load (default .env if present)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}
