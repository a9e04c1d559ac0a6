package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/entitygen/internal/schema"
)

var (
	// ErrMissingURL is returned when no database URL is configured.
	ErrMissingURL = errors.New("database URL is required (--url, ENTITYGEN_DATABASE_URL or DATABASE_URL)")
	// ErrUnsupportedDialect is returned when the database URL matches no supported database.
	ErrUnsupportedDialect = errors.New("unsupported database URL")
)

// Config holds the generator configuration.
type Config struct {
	DatabaseURL  string        `yaml:"database_url"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Package      string        `yaml:"package"`
	OutputDir    string        `yaml:"output_dir"`
	Language     string        `yaml:"language"`
	Schema       string        `yaml:"schema"`
	Workers      int           `yaml:"workers"`
	Strict       bool          `yaml:"strict"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		OutputDir:    "generated",
		Language:     "go",
		Schema:       "public",
		Workers:      runtime.GOMAXPROCS(0),
		QueryTimeout: 30 * time.Second,
	}
}

// Load builds the configuration from defaults, the optional YAML configFile,
// then environment variables. Variables from envFile are loaded first; an
// empty envFile loads ".env" if it exists.
func Load(envFile, configFile string) (*Config, error) {
	if envFile == "" {
		// Load .env file if it exists (silently ignore if missing)
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := Default()
	if configFile != "" {
		if err := cfg.loadFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("ENTITYGEN_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	} else if v := os.Getenv("DATABASE_URL"); v != "" && c.DatabaseURL == "" {
		c.DatabaseURL = v
	}

	for name, dst := range map[string]*string{
		"ENTITYGEN_USER":     &c.Username,
		"ENTITYGEN_PASSWORD": &c.Password,
		"ENTITYGEN_PACKAGE":  &c.Package,
		"ENTITYGEN_OUT":      &c.OutputDir,
		"ENTITYGEN_LANG":     &c.Language,
		"ENTITYGEN_SCHEMA":   &c.Schema,
	} {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("ENTITYGEN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ENTITYGEN_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("ENTITYGEN_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ENTITYGEN_STRICT: %w", err)
		}
		c.Strict = b
	}
	if v := os.Getenv("ENTITYGEN_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ENTITYGEN_QUERY_TIMEOUT: %w", err)
		}
		c.QueryTimeout = d
	}
	return nil
}

// Validate checks the settings needed to connect and generate.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingURL
	}
	if _, err := c.Dialect(); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %s", c.QueryTimeout)
	}
	return nil
}

// Dialect derives the database dialect from the URL scheme.
func (c *Config) Dialect() (string, error) {
	u := strings.ToLower(c.DatabaseURL)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return schema.Postgres, nil
	case strings.HasPrefix(u, "mysql://"):
		return schema.MySQL, nil
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"), u == ":memory:",
		strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"), strings.HasSuffix(u, ".sqlite3"):
		return schema.SQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, redact(c.DatabaseURL))
}

// ConnString returns the driver connection string with Username and Password
// applied. Credentials already present in the URL are kept unless overridden.
func (c *Config) ConnString() (string, error) {
	dialect, err := c.Dialect()
	if err != nil {
		return "", err
	}

	switch dialect {
	case schema.Postgres:
		u, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return "", fmt.Errorf("invalid database URL: %w", err)
		}
		if c.Username != "" {
			if c.Password != "" {
				u.User = url.UserPassword(c.Username, c.Password)
			} else {
				u.User = url.User(c.Username)
			}
		}
		return u.String(), nil

	case schema.MySQL:
		dsn := c.DatabaseURL[len("mysql://"):]
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid MySQL DSN: %w", err)
		}
		if c.Username != "" {
			mc.User = c.Username
		}
		if c.Password != "" {
			mc.Passwd = c.Password
		}
		return mc.FormatDSN(), nil

	default:
		dsn := c.DatabaseURL
		if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
			dsn = dsn[len("sqlite://"):]
		} else if strings.HasPrefix(strings.ToLower(dsn), "sqlite:") {
			dsn = dsn[len("sqlite:"):]
		}
		return dsn, nil
	}
}

// redact hides a password embedded in a URL.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
