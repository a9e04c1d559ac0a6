package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInconsistentMetadata is reported when the provider's answers contradict
// each other, e.g. a primary key column that is missing from the column list.
var ErrInconsistentMetadata = errors.New("inconsistent schema metadata")

// Column returns the column called name.
func (t Table) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Validate checks that every primary key and foreign key column is present in
// the column list. The returned error wraps ErrInconsistentMetadata.
func (t Table) Validate() error {
	var missing []string
	for _, name := range t.PrimaryKey {
		if _, ok := t.Column(name); !ok {
			missing = append(missing, "primary key column "+name)
		}
	}
	for name := range t.ForeignKeys {
		if _, ok := t.Column(name); !ok {
			missing = append(missing, "foreign key column "+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: table %s: %s not in column list", ErrInconsistentMetadata, t.Name, strings.Join(missing, ", "))
}

// sanitizeIdentifier ensures the identifier is safe for SQL.
// Escapes double quotes and wraps in quotes to prevent injection.
func sanitizeIdentifier(name string) string {
	// Escape any double quotes by doubling them (SQL standard)
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}
