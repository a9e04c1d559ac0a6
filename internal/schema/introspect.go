package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Introspector queries PostgreSQL's information_schema for table metadata.
type Introspector struct {
	pool         *pgxpool.Pool
	schemaName   string
	queryTimeout time.Duration
}

// NewIntrospector creates a PostgreSQL metadata provider for schemaName.
func NewIntrospector(pool *pgxpool.Pool, schemaName string, queryTimeout time.Duration) *Introspector {
	if schemaName == "" {
		schemaName = "public"
	}
	return &Introspector{pool: pool, schemaName: schemaName, queryTimeout: queryTimeout}
}

// withTimeout returns a context with the query timeout applied.
// If the parent context already has a shorter deadline, that deadline is preserved.
func (i *Introspector) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return queryContext(parent, i.queryTimeout)
}

// ListTables returns the base tables of the schema ordered by name.
func (i *Introspector) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := i.pool.Query(ctx, query, i.schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0, 64) // Pre-allocate for typical schema
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ListColumns returns the columns of table in ordinal order. Columns fed by a
// sequence or declared as identity are flagged AutoIncrement.
func (i *Introspector) ListColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			c.column_name,
			c.udt_name,
			COALESCE(c.character_maximum_length, c.numeric_precision, c.datetime_precision, 0)::int AS column_size,
			(c.is_identity = 'YES' OR COALESCE(c.column_default, '') LIKE 'nextval(%') AS auto_increment
		FROM information_schema.columns c
		WHERE c.table_schema = $1
		  AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := i.pool.Query(ctx, query, i.schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var size int32
		if err := rows.Scan(&col.Name, &col.SQLType, &size, &col.AutoIncrement); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Size = int(size)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// ListPrimaryKeyColumns returns the primary key columns of table in key order.
func (i *Introspector) ListPrimaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema = kcu.table_schema
		 AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := i.pool.Query(ctx, query, i.schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get primary key: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan primary key column: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// foreignKeysQuery resolves foreign keys through pg_constraint by the owning
// relation's oid. Constraint names are only unique per table, so joining the
// information_schema views on constraint_name can pair a column with another
// table's target.
const foreignKeysQuery = `
	SELECT a.attname, target.relname
	FROM pg_catalog.pg_constraint con
	JOIN pg_catalog.pg_class src ON src.oid = con.conrelid
	JOIN pg_catalog.pg_namespace ns ON ns.oid = src.relnamespace
	JOIN pg_catalog.pg_class target ON target.oid = con.confrelid
	CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
	JOIN pg_catalog.pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
	WHERE con.contype = 'f'
	  AND ns.nspname = $1
	  AND src.relname = $2
	ORDER BY con.conname, k.ord
`

// ListImportedForeignKeys returns the foreign keys declared on table.
func (i *Introspector) ListImportedForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, foreignKeysQuery, i.schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.ColumnName, &fk.ReferencesTable); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// queryContext applies timeout to parent unless parent already expires sooner.
// Returns the context and a cancel function that must be called.
func queryContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	if deadline, ok := parent.Deadline(); ok && time.Until(deadline) <= timeout {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
