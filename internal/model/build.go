package model

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/entitygen/internal/naming"
	"github.com/JonMunkholm/entitygen/internal/schema"
	"github.com/JonMunkholm/entitygen/internal/typemap"
)

// EmbeddedKeyName is the preferred member name of a composite key inside its
// entity. A column already named id pushes the key to EmbeddedKeyFallback.
const (
	EmbeddedKeyName     = "id"
	EmbeddedKeyFallback = "compositeId"
)

// Collisions counts, per target table, the foreign keys already turned into
// relation members while building one table.
type Collisions map[string]int

// memberNames tracks the member identifiers already used by one generated type.
type memberNames map[string]bool

// claim reserves name, appending the smallest free numeric suffix from 2 when
// name is taken.
func (m memberNames) claim(name string) string {
	candidate := name
	for i := 2; m[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	m[candidate] = true
	return candidate
}

// Build derives the entity model of t and, for composite primary keys, the
// model of its key type. Build never fails: a primary key column missing from
// the column list simply never matches (see schema.Table.Validate).
//
// Member names are unique within each generated type. Scalar columns claim
// their names first in column order, then the embedded key, then relations.
func Build(t schema.Table) (*Entity, *Key) {
	className := naming.Pascal(t.Name)
	composite := t.PrimaryKey.Composite()

	entity := &Entity{
		Table:        t.Name,
		ClassName:    className,
		CompositeKey: composite,
	}

	names := memberNames{}
	scalarNames := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if (composite && t.PrimaryKey.Contains(c.Name)) || hasKey(t.ForeignKeys, c.Name) {
			continue
		}
		scalarNames[c.Name] = names.claim(naming.Camel(c.Name))
	}

	var key *Key
	if composite {
		key = &Key{Table: t.Name, ClassName: className + "Id"}
		keyNames := memberNames{}
		for _, c := range t.Columns {
			if t.PrimaryKey.Contains(c.Name) {
				f := scalar(c, false, false)
				f.Name = keyNames.claim(f.Name)
				key.Fields = append(key.Fields, f)
			}
		}
		name := EmbeddedKeyName
		if names[name] {
			name = EmbeddedKeyFallback
		}
		entity.Fields = append(entity.Fields, &EmbeddedKeyField{
			Name:    names.claim(name),
			KeyType: key.ClassName,
		})
	}

	var singlePK string
	if len(t.PrimaryKey) == 1 {
		singlePK = t.PrimaryKey[0]
	}

	seen := Collisions{}
	for _, c := range t.Columns {
		var f *ScalarField
		switch {
		case composite && t.PrimaryKey.Contains(c.Name):
			continue
		case hasKey(t.ForeignKeys, c.Name):
			var rel *RelationField
			rel, seen = relation(c.Name, t.ForeignKeys[c.Name], seen, names)
			entity.Fields = append(entity.Fields, rel)
			continue
		case !composite && singlePK != "" && c.Name == singlePK:
			f = scalar(c, true, autoGenerated(c))
		default:
			f = scalar(c, false, false)
		}
		f.Name = scalarNames[c.Name]
		entity.Fields = append(entity.Fields, f)
	}

	return entity, key
}

// relation names the relation member for column referencing target. The first
// foreign key to a target gets the plain camelCase target name, later ones and
// ones whose plain name is already a member are qualified with "By" plus the
// PascalCase column name.
func relation(column, target string, seen Collisions, names memberNames) (*RelationField, Collisions) {
	seen[target]++
	name := naming.Camel(target)
	if seen[target] > 1 || names[name] {
		name += "By" + naming.Pascal(column)
	}
	return &RelationField{
		Column:      column,
		TargetTable: target,
		Name:        names.claim(name),
		TargetType:  naming.Pascal(target),
	}, seen
}

func scalar(c schema.ColumnInfo, pk, auto bool) *ScalarField {
	return &ScalarField{
		Column:        c.Name,
		Name:          naming.Camel(c.Name),
		SQLType:       c.SQLType,
		Kind:          typemap.Lookup(c.SQLType, c.Size),
		PrimaryKey:    pk,
		AutoGenerated: auto,
	}
}

// autoGenerated reports whether the database assigns values of the key column,
// either as reported by the provider or as spelled in the declared type.
func autoGenerated(c schema.ColumnInfo) bool {
	if c.AutoIncrement {
		return true
	}
	upper := strings.ToUpper(c.SQLType)
	return strings.Contains(upper, "SERIAL") || strings.Contains(upper, "IDENTITY")
}

func hasKey(fks schema.ForeignKeyInfo, column string) bool {
	_, ok := fks[column]
	return ok
}
