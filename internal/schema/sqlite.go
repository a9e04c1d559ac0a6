package schema

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteReader reads table metadata through SQLite's catalog and PRAGMAs.
type SQLiteReader struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewSQLiteReader creates a SQLite metadata provider.
func NewSQLiteReader(db *sql.DB, queryTimeout time.Duration) *SQLiteReader {
	return &SQLiteReader{db: db, queryTimeout: queryTimeout}
}

// ListTables returns user tables ordered by name; internal sqlite_ tables are skipped.
func (r *SQLiteReader) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`)
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

type sqliteColumn struct {
	ColumnInfo
	pk int
}

// tableInfo runs PRAGMA table_info, which reports columns in declaration order.
func (r *SQLiteReader) tableInfo(ctx context.Context, table string) ([]sqliteColumn, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info("+sanitizeIdentifier(table)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []sqliteColumn
	for rows.Next() {
		var (
			cid      int
			col      sqliteColumn
			declType string
			notNull  bool
			dflt     sql.NullString
		)
		if err := rows.Scan(&cid, &col.Name, &declType, &notNull, &dflt, &col.pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.SQLType, col.Size = splitDeclaredType(declType)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// ListColumns returns the columns of table. A lone INTEGER primary key on a
// rowid table aliases the rowid and is flagged AutoIncrement, with or without
// the AUTOINCREMENT keyword.
func (r *SQLiteReader) ListColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	info, err := r.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	pkCount := 0
	for _, c := range info {
		if c.pk > 0 {
			pkCount++
		}
	}

	var rowidAlias bool
	if pkCount == 1 {
		indexed, err := r.hasPrimaryKeyIndex(ctx, table)
		if err != nil {
			return nil, err
		}
		rowidAlias = !indexed
	}

	columns := make([]ColumnInfo, 0, len(info))
	for _, c := range info {
		if rowidAlias && c.pk == 1 && strings.EqualFold(c.SQLType, "INTEGER") {
			c.AutoIncrement = true
		}
		columns = append(columns, c.ColumnInfo)
	}
	return columns, nil
}

// hasPrimaryKeyIndex reports whether SQLite keeps a separate index for the
// primary key of table. An INTEGER primary key has none exactly when it
// aliases the rowid; WITHOUT ROWID tables and INTEGER PRIMARY KEY DESC do.
func (r *SQLiteReader) hasPrimaryKeyIndex(ctx context.Context, table string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pragma_index_list(?) WHERE origin = 'pk'", table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to get table indexes: %w", err)
	}
	return n > 0, nil
}

// ListPrimaryKeyColumns returns the primary key columns ordered by key position.
func (r *SQLiteReader) ListPrimaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	info, err := r.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	var pk []sqliteColumn
	for _, c := range info {
		if c.pk > 0 {
			pk = append(pk, c)
		}
	}
	slices.SortFunc(pk, func(a, b sqliteColumn) int { return a.pk - b.pk })

	columns := make([]string, len(pk))
	for idx, c := range pk {
		columns[idx] = c.Name
	}
	return columns, nil
}

// ListImportedForeignKeys returns the foreign keys declared on table.
func (r *SQLiteReader) ListImportedForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	ctx, cancel := queryContext(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "PRAGMA foreign_key_list("+sanitizeIdentifier(table)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to get foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var (
			id, seq                   int
			target, from              string
			to                        sql.NullString
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &target, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks = append(fks, ForeignKey{ColumnName: from, ReferencesTable: target})
	}
	return fks, rows.Err()
}

// splitDeclaredType splits "VARCHAR(255)" into ("VARCHAR", 255). Only the first
// size argument is kept, so "DECIMAL(10,2)" yields ("DECIMAL", 10).
func splitDeclaredType(declared string) (string, int) {
	declared = strings.TrimSpace(declared)
	open := strings.IndexByte(declared, '(')
	if open < 0 {
		return declared, 0
	}
	name := strings.TrimSpace(declared[:open])
	args := strings.TrimSuffix(strings.TrimSpace(declared[open+1:]), ")")
	if comma := strings.IndexByte(args, ','); comma >= 0 {
		args = args[:comma]
	}
	size, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return name, 0
	}
	return name, size
}
