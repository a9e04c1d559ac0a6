package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLReader reads table metadata from MySQL's information_schema for the
// database selected by the connection.
type MySQLReader struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewMySQLReader creates a MySQL metadata provider.
func NewMySQLReader(db *sql.DB, queryTimeout time.Duration) *MySQLReader {
	return &MySQLReader{db: db, queryTimeout: queryTimeout}
}

// ListTables returns the base tables of the current database ordered by name.
func (r *MySQLReader) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ListColumns returns the columns of table in ordinal order. AUTO_INCREMENT
// columns are flagged AutoIncrement.
func (r *MySQLReader) ListColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT column_name, data_type, extra,
		       COALESCE(character_maximum_length, numeric_precision, datetime_precision, 0)
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			col   ColumnInfo
			extra string
			size  int64
		)
		if err := rows.Scan(&col.Name, &col.SQLType, &extra, &size); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		col.Size = int(size)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// ListPrimaryKeyColumns returns the PRIMARY constraint columns in key order.
func (r *MySQLReader) ListPrimaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`, table)
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

// ListImportedForeignKeys returns the foreign keys declared on table.
func (r *MySQLReader) ListImportedForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT column_name, referenced_table_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position`, table)
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
