package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/entitygen/internal/model"
	"github.com/JonMunkholm/entitygen/internal/schema"
)

func TestJavaEmitEntity(t *testing.T) {
	users, _, _, _ := fixture(t)
	j := NewJavaEmitter("com.example.entities")

	src, err := j.Emit(users)
	require.NoError(t, err)

	assert.Contains(t, src, "package com.example.entities;")
	assert.Contains(t, src, "@Entity\n@Table(name = \"users\")\npublic class Users implements Serializable {")
	assert.Contains(t, src, "    @Id\n    @Column(name = \"id\")\n    @GeneratedValue(strategy = GenerationType.IDENTITY)\n    private Long id;")
	assert.Contains(t, src, "    @Column(name = \"email\")\n    private String email;")
	assert.Contains(t, src, "private java.math.BigDecimal balance;")
	assert.Contains(t, src, "private java.time.LocalDateTime createdAt;")
	assert.Contains(t, src, "public Long getId() {\n        return id;\n    }")
	assert.Contains(t, src, "public void setCreatedAt(java.time.LocalDateTime createdAt) {\n        this.createdAt = createdAt;\n    }")

	// "type" is not reserved in Java, "class" is.
	assert.Contains(t, src, "private String type;")
	assert.Equal(t, "_class", javaField("class"))
	assert.Equal(t, "Users.java", j.EntityFile(users))
}

func TestJavaEmitRelations(t *testing.T) {
	_, shipment, _, _ := fixture(t)

	src, err := NewJavaEmitter("app").Emit(shipment)
	require.NoError(t, err)

	assert.Contains(t, src, "    @ManyToOne(fetch = FetchType.LAZY)\n    @JoinColumn(name = \"from_warehouse_id\")\n    private Warehouse warehouse;")
	assert.Contains(t, src, "    @JoinColumn(name = \"to_warehouse_id\")\n    private Warehouse warehouseByToWarehouseId;")
	assert.Contains(t, src, "public Warehouse getWarehouseByToWarehouseId() {")
	assert.NotContains(t, src, "@GeneratedValue")
}

func TestJavaEmitCompositeKey(t *testing.T) {
	_, _, orderItems, key := fixture(t)
	j := NewJavaEmitter("app")

	src, err := j.Emit(orderItems)
	require.NoError(t, err)
	assert.Contains(t, src, "    @EmbeddedId\n    private OrderItemsId id;")
	assert.NotContains(t, src, "@Id\n")

	keySrc, err := j.EmitKey(key)
	require.NoError(t, err)
	assert.Contains(t, keySrc, "@Embeddable\npublic class OrderItemsId implements Serializable {")
	assert.Contains(t, keySrc, "    public OrderItemsId() {\n    }")
	assert.Contains(t, keySrc, "private Integer orderId;")
	assert.Contains(t, keySrc, "private java.time.LocalDate shippedOn;")
	assert.Contains(t, keySrc, "if (!(o instanceof OrderItemsId)) return false;")
	assert.Contains(t, keySrc, "return Objects.equals(this.orderId, that.orderId)\n            && Objects.equals(this.shippedOn, that.shippedOn);")
	assert.Contains(t, keySrc, "return Objects.hash(this.orderId, this.shippedOn);")
	assert.NotContains(t, keySrc, "@Id")

	assert.Equal(t, "OrderItems.java", j.EntityFile(orderItems))
	assert.Equal(t, "OrderItemsId.java", j.KeyFile(key))
}

func TestJavaEmitKeyMembersShadowingEqualsLocals(t *testing.T) {
	// Members named like the equals parameter and local must not be
	// resolved against them.
	entity, key := model.Build(schema.Table{
		Name: "pair",
		Columns: []schema.ColumnInfo{
			{Name: "o", SQLType: "INT"},
			{Name: "that", SQLType: "INT"},
			{Name: "id", SQLType: "TEXT"},
		},
		PrimaryKey: schema.PrimaryKeyInfo{"o", "that"},
	})
	j := NewJavaEmitter("app")

	keySrc, err := j.EmitKey(key)
	require.NoError(t, err)
	assert.Contains(t, keySrc, "return Objects.equals(this.o, that.o)\n            && Objects.equals(this.that, that.that);")
	assert.Contains(t, keySrc, "return Objects.hash(this.o, this.that);")

	src, err := j.Emit(entity)
	require.NoError(t, err)
	assert.Contains(t, src, "    @EmbeddedId\n    private PairId compositeId;")
	assert.Contains(t, src, "    @Column(name = \"id\")\n    private String id;")
}

func TestJavaEmitRelationNamedLikeScalar(t *testing.T) {
	entity, _ := model.Build(schema.Table{
		Name: "shipment",
		Columns: []schema.ColumnInfo{
			{Name: "id", SQLType: "INT"},
			{Name: "warehouse_id", SQLType: "INT"},
			{Name: "warehouse", SQLType: "TEXT"},
		},
		PrimaryKey:  schema.PrimaryKeyInfo{"id"},
		ForeignKeys: schema.ForeignKeyInfo{"warehouse_id": "warehouse"},
	})

	src, err := NewJavaEmitter("app").Emit(entity)
	require.NoError(t, err)
	assert.Contains(t, src, "    @JoinColumn(name = \"warehouse_id\")\n    private Warehouse warehouseByWarehouseId;")
	assert.Contains(t, src, "    @Column(name = \"warehouse\")\n    private String warehouse;")
	assert.Equal(t, 1, strings.Count(src, "private String warehouse;"))
}

func TestJavaEmitIsDeterministic(t *testing.T) {
	users, _, _, key := fixture(t)
	j := NewJavaEmitter("app")

	first, err := j.Emit(users)
	require.NoError(t, err)
	second, err := j.Emit(users)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first, err = j.EmitKey(key)
	require.NoError(t, err)
	second, err = j.EmitKey(key)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidJavaPackage(t *testing.T) {
	assert.True(t, validJavaPackage("com.example.entities"))
	assert.True(t, validJavaPackage("$gen._v2"))
	assert.False(t, validJavaPackage(""))
	assert.False(t, validJavaPackage("com.example."))
	assert.False(t, validJavaPackage("com.new"))
}
