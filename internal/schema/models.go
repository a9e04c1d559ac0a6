package schema

import "context"

// ColumnInfo describes one column as reported by the metadata provider.
// AutoIncrement is set when the database assigns the column's values itself
// (sequence default, identity, AUTO_INCREMENT, SQLite rowid alias); SQLType
// keeps the declared type.
type ColumnInfo struct {
	Name          string `json:"name" yaml:"name"`
	SQLType       string `json:"sqlType" yaml:"sqlType"`
	Size          int    `json:"size" yaml:"size"`
	AutoIncrement bool   `json:"autoIncrement,omitempty" yaml:"autoIncrement,omitempty"`
}

// ForeignKey is one imported single-column foreign key.
type ForeignKey struct {
	ColumnName      string `json:"columnName"`
	ReferencesTable string `json:"referencesTable"`
}

// PrimaryKeyInfo is the ordered list of primary key columns. Empty means the
// table declares no primary key.
type PrimaryKeyInfo []string

// Contains reports whether column is part of the key.
func (pk PrimaryKeyInfo) Contains(column string) bool {
	for _, c := range pk {
		if c == column {
			return true
		}
	}
	return false
}

// Composite reports whether the key spans more than one column.
func (pk PrimaryKeyInfo) Composite() bool {
	return len(pk) > 1
}

// ForeignKeyInfo maps a child column name to the table it references.
type ForeignKeyInfo map[string]string

// Table is the typed metadata snapshot of one table.
type Table struct {
	Name        string         `json:"name"`
	Columns     []ColumnInfo   `json:"columns"`
	PrimaryKey  PrimaryKeyInfo `json:"primaryKey"`
	ForeignKeys ForeignKeyInfo `json:"foreignKeys"`
}

// Provider exposes the raw schema metadata of one database connection.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ListTables returns base table names; views are excluded.
	ListTables(ctx context.Context) ([]string, error)
	// ListColumns returns the columns of table in a stable scan order.
	ListColumns(ctx context.Context, table string) ([]ColumnInfo, error)
	// ListPrimaryKeyColumns returns the primary key columns in engine order.
	ListPrimaryKeyColumns(ctx context.Context, table string) ([]string, error)
	// ListImportedForeignKeys returns (child column, target table) pairs.
	ListImportedForeignKeys(ctx context.Context, table string) ([]ForeignKey, error)
}
