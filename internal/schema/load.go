package schema

import (
	"context"
	"fmt"
	"strings"
)

// Load queries p for everything known about table and normalizes the answers
// into a Table. Blank names are dropped, SQL type names are trimmed, and when
// the same child column is reported twice the last target wins.
func Load(ctx context.Context, p Provider, table string) (Table, error) {
	columns, err := p.ListColumns(ctx, table)
	if err != nil {
		return Table{}, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}

	pkColumns, err := p.ListPrimaryKeyColumns(ctx, table)
	if err != nil {
		return Table{}, fmt.Errorf("failed to list primary key of %s: %w", table, err)
	}

	fks, err := p.ListImportedForeignKeys(ctx, table)
	if err != nil {
		return Table{}, fmt.Errorf("failed to list foreign keys of %s: %w", table, err)
	}

	t := Table{
		Name:        table,
		Columns:     make([]ColumnInfo, 0, len(columns)),
		PrimaryKey:  make(PrimaryKeyInfo, 0, len(pkColumns)),
		ForeignKeys: make(ForeignKeyInfo, len(fks)),
	}
	for _, c := range columns {
		if c.Name == "" {
			continue
		}
		c.SQLType = strings.TrimSpace(c.SQLType)
		t.Columns = append(t.Columns, c)
	}
	for _, name := range pkColumns {
		if name == "" || t.PrimaryKey.Contains(name) {
			continue
		}
		t.PrimaryKey = append(t.PrimaryKey, name)
	}
	for _, fk := range fks {
		if fk.ColumnName == "" || fk.ReferencesTable == "" {
			continue
		}
		t.ForeignKeys[fk.ColumnName] = fk.ReferencesTable
	}
	return t, nil
}
