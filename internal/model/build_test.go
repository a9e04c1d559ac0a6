package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/entitygen/internal/schema"
	"github.com/JonMunkholm/entitygen/internal/typemap"
)

func TestBuildSinglePrimaryKey(t *testing.T) {
	entity, key := Build(schema.Table{
		Name: "users",
		Columns: []schema.ColumnInfo{
			{Name: "id", SQLType: "INT"},
			{Name: "name", SQLType: "VARCHAR", Size: 100},
		},
		PrimaryKey: schema.PrimaryKeyInfo{"id"},
	})

	assert.Nil(t, key)
	assert.Equal(t, "users", entity.Table)
	assert.Equal(t, "Users", entity.ClassName)
	assert.False(t, entity.CompositeKey)
	require.Len(t, entity.Fields, 2)

	assert.Equal(t, &ScalarField{
		Column: "id", Name: "id", SQLType: "INT", Kind: typemap.Int32,
		PrimaryKey: true, AutoGenerated: false,
	}, entity.Fields[0])
	assert.Equal(t, &ScalarField{
		Column: "name", Name: "name", SQLType: "VARCHAR", Kind: typemap.String,
	}, entity.Fields[1])
	assert.Same(t, entity.Fields[0], entity.PrimaryKey())
	assert.Equal(t, "int32", entity.PrimaryKey().Type())
}

func TestBuildAutoGeneratedPrimaryKey(t *testing.T) {
	for _, sqlType := range []string{"SERIAL", "bigserial", "int identity"} {
		t.Run(sqlType, func(t *testing.T) {
			entity, _ := Build(schema.Table{
				Name:       "users",
				Columns:    []schema.ColumnInfo{{Name: "id", SQLType: sqlType}},
				PrimaryKey: schema.PrimaryKeyInfo{"id"},
			})
			pk := entity.PrimaryKey()
			require.NotNil(t, pk)
			assert.True(t, pk.AutoGenerated)
		})
	}
}

func TestBuildAutoIncrementColumn(t *testing.T) {
	entity, _ := Build(schema.Table{
		Name: "users",
		Columns: []schema.ColumnInfo{
			{Name: "id", SQLType: "int8", AutoIncrement: true},
			{Name: "seq", SQLType: "int4", AutoIncrement: true},
		},
		PrimaryKey: schema.PrimaryKeyInfo{"id"},
	})

	pk := entity.PrimaryKey()
	require.NotNil(t, pk)
	assert.True(t, pk.AutoGenerated)
	assert.Equal(t, typemap.Int64, pk.Kind)
	assert.Equal(t, "int8", pk.SQLType)

	// Only the primary key is generated.
	assert.False(t, entity.Fields[1].(*ScalarField).AutoGenerated)
}

func TestBuildCompositePrimaryKey(t *testing.T) {
	entity, key := Build(schema.Table{
		Name: "order_items",
		Columns: []schema.ColumnInfo{
			{Name: "order_id", SQLType: "INT"},
			{Name: "product_id", SQLType: "INT"},
			{Name: "qty", SQLType: "INT"},
		},
		// Engine order differs from the column scan order.
		PrimaryKey: schema.PrimaryKeyInfo{"product_id", "order_id"},
	})

	require.NotNil(t, key)
	assert.Equal(t, "OrderItemsId", key.ClassName)
	assert.Equal(t, "order_items", key.Table)
	require.Len(t, key.Fields, 2)
	assert.Equal(t, "order_id", key.Fields[0].Column)
	assert.Equal(t, "orderId", key.Fields[0].Name)
	assert.Equal(t, "product_id", key.Fields[1].Column)
	assert.Equal(t, "productId", key.Fields[1].Name)
	for _, f := range key.Fields {
		assert.False(t, f.PrimaryKey)
		assert.False(t, f.AutoGenerated)
		assert.Equal(t, typemap.Int32, f.Kind)
	}

	assert.True(t, entity.CompositeKey)
	require.Len(t, entity.Fields, 2)
	assert.Equal(t, &EmbeddedKeyField{Name: "id", KeyType: "OrderItemsId"}, entity.Fields[0])
	assert.Equal(t, "qty", entity.Fields[1].FieldName())
	assert.Nil(t, entity.PrimaryKey())
	assert.NotNil(t, entity.EmbeddedKey())

	embedded := 0
	for _, f := range entity.Fields {
		switch f := f.(type) {
		case *EmbeddedKeyField:
			embedded++
		case *ScalarField:
			assert.NotContains(t, []string{"order_id", "product_id"}, f.Column)
		}
	}
	assert.Equal(t, 1, embedded)
}

func TestBuildForeignKeyDisambiguation(t *testing.T) {
	entity, _ := Build(schema.Table{
		Name: "shipment",
		Columns: []schema.ColumnInfo{
			{Name: "id", SQLType: "serial"},
			{Name: "from_warehouse_id", SQLType: "INT"},
			{Name: "to_warehouse_id", SQLType: "INT"},
			{Name: "carrier_id", SQLType: "INT"},
			{Name: "return_warehouse_id", SQLType: "INT"},
		},
		PrimaryKey: schema.PrimaryKeyInfo{"id"},
		ForeignKeys: schema.ForeignKeyInfo{
			"to_warehouse_id":     "warehouse",
			"from_warehouse_id":   "warehouse",
			"return_warehouse_id": "warehouse",
			"carrier_id":          "shipping_carrier",
		},
	})

	rels := entity.Relations()
	require.Len(t, rels, 4)
	assert.Equal(t, &RelationField{
		Column: "from_warehouse_id", TargetTable: "warehouse", Name: "warehouse", TargetType: "Warehouse",
	}, rels[0])
	assert.Equal(t, "warehouseByToWarehouseId", rels[1].Name)
	assert.Equal(t, "shippingCarrier", rels[2].Name)
	assert.Equal(t, "ShippingCarrier", rels[2].TargetType)
	assert.Equal(t, "warehouseByReturnWarehouseId", rels[3].Name)

	names := map[string]bool{}
	for _, f := range entity.Fields {
		assert.False(t, names[f.FieldName()], "duplicate member %s", f.FieldName())
		names[f.FieldName()] = true
	}
}

func TestBuildNoPrimaryKey(t *testing.T) {
	entity, key := Build(schema.Table{
		Name: "audit_log",
		Columns: []schema.ColumnInfo{
			{Name: "message", SQLType: "TEXT"},
			{Name: "logged_at", SQLType: "TIMESTAMPTZ"},
		},
	})

	assert.Nil(t, key)
	assert.False(t, entity.CompositeKey)
	assert.Nil(t, entity.PrimaryKey())
	assert.Nil(t, entity.EmbeddedKey())
	require.Len(t, entity.Fields, 2)
	assert.Equal(t, typemap.Timestamp, entity.Fields[1].(*ScalarField).Kind)
}

func TestBuildMissingPrimaryKeyColumn(t *testing.T) {
	entity, key := Build(schema.Table{
		Name:       "orphan",
		Columns:    []schema.ColumnInfo{{Name: "value", SQLType: "TEXT"}},
		PrimaryKey: schema.PrimaryKeyInfo{"id"},
	})

	assert.Nil(t, key)
	assert.Nil(t, entity.PrimaryKey())
	assert.Len(t, entity.Fields, 1)
}

func TestBuildForeignKeyOnPrimaryKeyColumn(t *testing.T) {
	// A one-to-one table whose key is also a foreign key becomes a relation.
	entity, _ := Build(schema.Table{
		Name:        "user_profile",
		Columns:     []schema.ColumnInfo{{Name: "user_id", SQLType: "INT"}, {Name: "bio", SQLType: "TEXT"}},
		PrimaryKey:  schema.PrimaryKeyInfo{"user_id"},
		ForeignKeys: schema.ForeignKeyInfo{"user_id": "users"},
	})

	require.Len(t, entity.Relations(), 1)
	assert.Nil(t, entity.PrimaryKey())
}

func TestBuildIsDeterministic(t *testing.T) {
	table := schema.Table{
		Name: "shipment",
		Columns: []schema.ColumnInfo{
			{Name: "a_id", SQLType: "INT"},
			{Name: "b_id", SQLType: "INT"},
			{Name: "c_id", SQLType: "INT"},
		},
		ForeignKeys: schema.ForeignKeyInfo{"a_id": "node", "b_id": "node", "c_id": "node"},
	}

	first, _ := Build(table)
	for range 20 {
		again, _ := Build(table)
		assert.Equal(t, first, again)
	}
}

func TestRelationCollisions(t *testing.T) {
	seen := Collisions{}
	names := memberNames{}
	rel, seen := relation("parent_id", "category", seen, names)
	assert.Equal(t, "category", rel.Name)
	rel, seen = relation("root_id", "category", seen, names)
	assert.Equal(t, "categoryByRootId", rel.Name)
	assert.Equal(t, Collisions{"category": 2}, seen)
	assert.Equal(t, memberNames{"category": true, "categoryByRootId": true}, names)
}

func TestRelationNameTakenByScalar(t *testing.T) {
	names := memberNames{"category": true}
	rel, _ := relation("category_id", "category", Collisions{}, names)
	assert.Equal(t, "categoryByCategoryId", rel.Name)
}

func TestMemberNamesClaim(t *testing.T) {
	names := memberNames{}
	assert.Equal(t, "orderId", names.claim("orderId"))
	assert.Equal(t, "orderId2", names.claim("orderId"))
	assert.Equal(t, "orderId3", names.claim("orderId"))
	assert.Equal(t, "qty", names.claim("qty"))
}

func fieldNames(e *Entity) []string {
	var out []string
	for _, f := range e.Fields {
		out = append(out, f.FieldName())
	}
	return out
}

func TestBuildScalarAndRelationShareName(t *testing.T) {
	entity, _ := Build(schema.Table{
		Name: "shipment",
		Columns: []schema.ColumnInfo{
			{Name: "id", SQLType: "INT"},
			{Name: "warehouse_id", SQLType: "INT"},
			{Name: "warehouse", SQLType: "TEXT"},
		},
		PrimaryKey:  schema.PrimaryKeyInfo{"id"},
		ForeignKeys: schema.ForeignKeyInfo{"warehouse_id": "warehouse"},
	})

	assert.Equal(t, []string{"id", "warehouseByWarehouseId", "warehouse"}, fieldNames(entity))
	rels := entity.Relations()
	require.Len(t, rels, 1)
	assert.Equal(t, "warehouse_id", rels[0].Column)
	assert.Equal(t, "Warehouse", rels[0].TargetType)
}

func TestBuildQualifiedRelationNameTaken(t *testing.T) {
	// The second relation's qualified name is already a scalar member.
	entity, _ := Build(schema.Table{
		Name: "transfer",
		Columns: []schema.ColumnInfo{
			{Name: "from_id", SQLType: "INT"},
			{Name: "to_id", SQLType: "INT"},
			{Name: "account_by_to_id", SQLType: "TEXT"},
		},
		ForeignKeys: schema.ForeignKeyInfo{"from_id": "account", "to_id": "account"},
	})

	assert.Equal(t, []string{"account", "accountByToId2", "accountByToId"}, fieldNames(entity))
}

func TestBuildScalarNamesCollide(t *testing.T) {
	entity, _ := Build(schema.Table{
		Name: "legacy",
		Columns: []schema.ColumnInfo{
			{Name: "order_id", SQLType: "INT"},
			{Name: "ORDER_ID", SQLType: "INT"},
		},
	})

	assert.Equal(t, []string{"orderId", "orderId2"}, fieldNames(entity))
}

func TestBuildCompositeKeyWithIdColumn(t *testing.T) {
	entity, key := Build(schema.Table{
		Name: "pair",
		Columns: []schema.ColumnInfo{
			{Name: "o", SQLType: "INT"},
			{Name: "that", SQLType: "INT"},
			{Name: "id", SQLType: "TEXT"},
		},
		PrimaryKey: schema.PrimaryKeyInfo{"o", "that"},
	})

	require.NotNil(t, key)
	assert.Equal(t, []string{EmbeddedKeyFallback, "id"}, fieldNames(entity))
	assert.Equal(t, &EmbeddedKeyField{Name: "compositeId", KeyType: "PairId"}, entity.EmbeddedKey())
	require.Len(t, key.Fields, 2)
	assert.Equal(t, "o", key.Fields[0].Name)
	assert.Equal(t, "that", key.Fields[1].Name)
}
