package schema

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Supported database dialects.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Connection is an open Provider together with the pool backing it.
type Connection struct {
	Provider
	close func()
}

// Close releases the underlying connection pool.
func (c *Connection) Close() {
	if c.close != nil {
		c.close()
	}
}

// Open connects to the database described by dialect and dsn and verifies the
// connection. schemaName only applies to PostgreSQL.
func Open(ctx context.Context, dialect, dsn, schemaName string, queryTimeout time.Duration) (*Connection, error) {
	switch dialect {
	case Postgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return &Connection{
			Provider: NewIntrospector(pool, schemaName, queryTimeout),
			close:    pool.Close,
		}, nil

	case MySQL, SQLite:
		db, err := sql.Open(dialect, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if dialect == SQLite {
			// Each connection of an in-memory database is a separate database.
			db.SetMaxOpenConns(1)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		c := &Connection{close: func() { _ = db.Close() }}
		if dialect == MySQL {
			c.Provider = NewMySQLReader(db, queryTimeout)
		} else {
			c.Provider = NewSQLiteReader(db, queryTimeout)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
}
