// Package model turns typed table metadata into the entity model consumed by
// the source emitters.
package model

import "github.com/JonMunkholm/entitygen/internal/typemap"

// Field is one member of a generated type: a *ScalarField, *RelationField or
// *EmbeddedKeyField.
type Field interface {
	// FieldName is the member identifier in camelCase.
	FieldName() string
	isField()
}

// ScalarField is a member backed directly by one column.
type ScalarField struct {
	Column        string
	Name          string
	SQLType       string
	Kind          typemap.Kind
	PrimaryKey    bool
	AutoGenerated bool
}

// Type returns the Go type name of the field.
func (f *ScalarField) Type() string { return f.Kind.GoType() }

// RelationField navigates a foreign key to the type generated for TargetTable.
type RelationField struct {
	Column      string
	TargetTable string
	Name        string
	TargetType  string
}

// EmbeddedKeyField holds the composite primary key of an entity.
type EmbeddedKeyField struct {
	Name    string
	KeyType string
}

func (f *ScalarField) FieldName() string      { return f.Name }
func (f *RelationField) FieldName() string    { return f.Name }
func (f *EmbeddedKeyField) FieldName() string { return f.Name }

func (*ScalarField) isField()      {}
func (*RelationField) isField()    {}
func (*EmbeddedKeyField) isField() {}

// Entity describes the type generated for one table.
type Entity struct {
	Table        string
	ClassName    string
	Fields       []Field
	CompositeKey bool
}

// Key describes the type generated for a composite primary key.
type Key struct {
	Table     string
	ClassName string
	Fields    []*ScalarField
}

// PrimaryKey returns the single primary key field, or nil when the entity has
// no scalar primary key.
func (e *Entity) PrimaryKey() *ScalarField {
	for _, f := range e.Fields {
		if s, ok := f.(*ScalarField); ok && s.PrimaryKey {
			return s
		}
	}
	return nil
}

// EmbeddedKey returns the composite key member, or nil.
func (e *Entity) EmbeddedKey() *EmbeddedKeyField {
	for _, f := range e.Fields {
		if k, ok := f.(*EmbeddedKeyField); ok {
			return k
		}
	}
	return nil
}

// Relations returns the relation members in model order.
func (e *Entity) Relations() []*RelationField {
	var out []*RelationField
	for _, f := range e.Fields {
		if r, ok := f.(*RelationField); ok {
			out = append(out, r)
		}
	}
	return out
}
