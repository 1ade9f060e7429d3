package schema_test

import (
	"errors"
	"testing"

	"github.com/relgraph/relgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopEntities() []*schema.Entity {
	return []*schema.Entity{
		{
			Name: "Customer",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "name", Size: 64, NotNull: true},
				{Name: "orders", Kind: schema.OneToMany, Target: "Order", Cascade: schema.CascadeAll},
			},
		},
		{
			Name: "Order",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "note"},
				{Name: "total", DataType: schema.Float},
				{Name: "customer_id", DataType: schema.Int},
				{Name: "customer", Kind: schema.Pointer, Target: "Customer", Cascade: schema.CascadeInsert},
				{Name: "shipping_info", Kind: schema.OneToOne, Target: "ShippingInfo", Cascade: schema.CascadeInsert | schema.CascadeDelete},
			},
		},
		{
			Name: "ShippingInfo",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "address"},
				{Name: "order_id", DataType: schema.Int},
			},
		},
	}
}

func TestRegistryBuild(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(shopEntities()...))
	require.NoError(t, registry.Build())
	assert.True(t, registry.Built())

	order := registry.MustLookup("Order")
	assert.Equal(t, "orders", order.Table)
	assert.Equal(t, []string{"id", "note", "total", "customer_id", "customer", "shipping_info"}, order.FieldNames)
	assert.Equal(t, "id", order.KeyField.Column)

	customer := order.FieldsByName["customer"]
	assert.Equal(t, "customer_id", customer.ForeignKey)
	assert.Same(t, order.FieldsByName["customer_id"], customer.ForeignField)
	assert.Same(t, order, customer.Holder())
	assert.Same(t, registry.MustLookup("Customer"), customer.TargetEntity)

	shipping := order.FieldsByName["shipping_info"]
	assert.Equal(t, "order_id", shipping.ForeignKey)
	assert.Same(t, registry.MustLookup("ShippingInfo"), shipping.Holder())
	assert.True(t, shipping.Cascade.Has(schema.CascadeDelete))
	assert.False(t, shipping.Cascade.Has(schema.CascadeUpdate))

	orders := registry.MustLookup("Customer").FieldsByName["orders"]
	assert.Equal(t, "customer_id", orders.ForeignKey)
	assert.Same(t, order.FieldsByName["customer_id"], orders.ForeignField)

	assert.Len(t, order.Pointers, 1)
	assert.Len(t, order.OneToOnes, 1)
	assert.Len(t, registry.MustLookup("Customer").OneToManys, 1)

	var names []string
	for _, f := range order.ValueFields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"note", "total", "customer_id"}, names)
	assert.Len(t, order.Columns(), 4)
	assert.Len(t, order.Relations(), 2)

	assert.ErrorIs(t, registry.Register(&schema.Entity{Name: "Late"}), schema.ErrRegistryFrozen)
	assert.ErrorIs(t, registry.Build(), schema.ErrRegistryFrozen)
}

func TestColumnDef(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(shopEntities()...))
	require.NoError(t, registry.Build())

	customer := registry.MustLookup("Customer")
	assert.Equal(t, "`id` BIGINT PRIMARY KEY AUTO_INCREMENT", customer.FieldsByName["id"].ColumnDef())
	assert.Equal(t, "`name` VARCHAR(64) NOT NULL", customer.FieldsByName["name"].ColumnDef())

	order := registry.MustLookup("Order")
	assert.Equal(t, "`total` DOUBLE", order.FieldsByName["total"].ColumnDef())
	assert.Equal(t, "`note` VARCHAR(255)", order.FieldsByName["note"].ColumnDef())

	field := &schema.Field{Name: "flag", Column: "flag", DataType: schema.Bool, Default: "0"}
	assert.Equal(t, "`flag` TINYINT(1) DEFAULT 0", field.ColumnDef())

	field = &schema.Field{Name: "id", Column: "id", Kind: schema.Key, Type: "INTEGER PRIMARY KEY AUTOINCREMENT"}
	assert.Equal(t, "`id` INTEGER PRIMARY KEY AUTOINCREMENT", field.ColumnDef())
}

func TestForeignKeyTypeFollowsKey(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(
		&schema.Entity{Name: "Team", Fields: []*schema.Field{
			{Name: "id", Kind: schema.Key},
			{Name: "players", Kind: schema.OneToMany, Target: "Player"},
		}},
		&schema.Entity{Name: "Player", Fields: []*schema.Field{
			{Name: "id", Kind: schema.Key},
			{Name: "nick"},
			{Name: "team_id"},
			{Name: "badge_id"},
			{Name: "badge", Kind: schema.Pointer, Target: "Badge"},
		}},
		&schema.Entity{Name: "Badge", Fields: []*schema.Field{
			{Name: "id", Kind: schema.Key, DataType: schema.Uint},
		}},
	))
	require.NoError(t, registry.Build())

	player := registry.MustLookup("Player")
	assert.Equal(t, schema.Int, player.FieldsByName["team_id"].DataType)
	assert.Equal(t, "`team_id` BIGINT", player.FieldsByName["team_id"].ColumnDef())
	assert.Equal(t, schema.Uint, player.FieldsByName["badge_id"].DataType)
	assert.Equal(t, "`badge_id` BIGINT UNSIGNED", player.FieldsByName["badge_id"].ColumnDef())
	assert.Equal(t, schema.String, player.FieldsByName["nick"].DataType)
}

func TestRegistryValidation(t *testing.T) {
	cases := []struct {
		name     string
		entities []*schema.Entity
		message  string
	}{
		{
			name:     "no key",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{{Name: "x"}}}},
			message:  "A has no key field",
		},
		{
			name: "two keys",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key}, {Name: "id2", Kind: schema.Key},
			}}},
			message: "more than one key field",
		},
		{
			name: "duplicate field",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key}, {Name: "id"},
			}}},
			message: "duplicate field A.id",
		},
		{
			name: "unknown target",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key}, {Name: "b_id"}, {Name: "b", Kind: schema.Pointer, Target: "B"},
			}}},
			message: `targets unknown entity "B"`,
		},
		{
			name: "missing foreign key",
			entities: []*schema.Entity{
				{Name: "A", Fields: []*schema.Field{{Name: "id", Kind: schema.Key}, {Name: "bs", Kind: schema.OneToMany, Target: "B"}}},
				{Name: "B", Fields: []*schema.Field{{Name: "id", Kind: schema.Key}}},
			},
			message: "foreign key B.a_id does not exist",
		},
		{
			name: "foreign key is a relation",
			entities: []*schema.Entity{
				{Name: "A", Fields: []*schema.Field{
					{Name: "id", Kind: schema.Key},
					{Name: "b", Kind: schema.Pointer, Target: "B", ForeignKey: "other"},
					{Name: "other", Kind: schema.Pointer, Target: "B", ForeignKey: "id"},
				}},
				{Name: "B", Fields: []*schema.Field{{Name: "id", Kind: schema.Key}}},
			},
			message: "must be a plain field",
		},
		{
			name: "foreign key type differs from key",
			entities: []*schema.Entity{
				{Name: "A", Fields: []*schema.Field{{Name: "id", Kind: schema.Key}, {Name: "bs", Kind: schema.OneToMany, Target: "B"}}},
				{Name: "B", Fields: []*schema.Field{{Name: "id", Kind: schema.Key}, {Name: "a_id", DataType: schema.String}}},
			},
			message: "foreign key B.a_id is string but mirrors a int key",
		},
		{
			name: "column not usable as parameter",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key}, {Name: "price", Column: "price$usd"},
			}}},
			message: `invalid column name "price$usd"`,
		},
		{
			name:     "bad table name",
			entities: []*schema.Entity{{Name: "A", Table: "a b", Fields: []*schema.Field{{Name: "id", Kind: schema.Key}}}},
			message:  "invalid table name",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			registry := schema.NewRegistry(schema.NamingStrategy{})
			require.NoError(t, registry.Register(c.entities...))
			err := registry.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrInvalidSchema))
			assert.Contains(t, err.Error(), c.message)
			assert.False(t, registry.Built())
		})
	}
}

func TestRegisterDuplicateEntity(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(&schema.Entity{Name: "A"}))
	assert.ErrorIs(t, registry.Register(&schema.Entity{Name: "A"}), schema.ErrInvalidSchema)
}

func TestCascade(t *testing.T) {
	c, err := schema.ParseCascade("insert", "DELETE")
	require.NoError(t, err)
	assert.Equal(t, schema.CascadeInsert|schema.CascadeDelete, c)
	assert.Equal(t, "insert,delete", c.String())

	c, err = schema.ParseCascade("all")
	require.NoError(t, err)
	assert.Equal(t, schema.CascadeAll, c)

	c, err = schema.ParseCascade()
	require.NoError(t, err)
	assert.Equal(t, "none", c.String())
	assert.False(t, c.Has(schema.CascadeNone))

	_, err = schema.ParseCascade("sideways")
	assert.ErrorIs(t, err, schema.ErrInvalidSchema)
}

func TestParseFieldKind(t *testing.T) {
	for name, want := range map[string]schema.FieldKind{
		"":            schema.Plain,
		"key":         schema.Key,
		"pointer":     schema.Pointer,
		"belongs_to":  schema.Pointer,
		"one_to_one":  schema.OneToOne,
		"has_many":    schema.OneToMany,
		"one_to_many": schema.OneToMany,
	} {
		got, err := schema.ParseFieldKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := schema.ParseFieldKind("many_to_many")
	assert.ErrorIs(t, err, schema.ErrInvalidSchema)
	assert.Equal(t, "one_to_many", schema.OneToMany.String())
}
