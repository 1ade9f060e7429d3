package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/dialects"
	"github.com/relgraph/relgraph/dialects/sqlite"
	"github.com/relgraph/relgraph/logger"
	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/utils/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openShop(t *testing.T) (*relgraph.DB, *sql.DB) {
	t.Helper()
	return openEntities(t, tests.Entities()...)
}

func openEntities(t *testing.T, entities ...*schema.Entity) (*relgraph.DB, *sql.DB) {
	t.Helper()
	dialector := sqlite.Open(":memory:")
	dialector.Adapt(entities)
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(entities...))

	pool, sqlDB, err := dialects.Open(dialector)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := relgraph.Open(pool, registry, relgraph.WithLogger(logger.Discard))
	require.NoError(t, err)

	_, err = db.CreateSchema(context.Background())
	require.NoError(t, err)
	return db, sqlDB
}

func TestAdapt(t *testing.T) {
	entities := tests.Entities()
	entities[1].Fields[0].Type = "BIGINT"
	sqlite.Open("").Adapt(entities)

	assert.Equal(t, sqlite.KeyType, entities[0].Fields[0].Type)
	assert.Equal(t, "BIGINT", entities[1].Fields[0].Type)
	assert.Empty(t, entities[0].Fields[1].Type)
}

func TestRoundTrip(t *testing.T) {
	db, _ := openShop(t)
	ctx := context.Background()
	registry := db.Registry()

	customer := relgraph.Default(registry.MustLookup("Customer"))
	customer.Set("name", "ada")
	customer.Set("email", "ada@example.com")

	order := relgraph.Default(registry.MustLookup("Order"))
	order.Set("note", "books")
	order.Set("total", 42.5)
	order.SetPointer("customer", customer)

	info := relgraph.Default(registry.MustLookup("ShippingInfo"))
	info.Set("address", "1 main street")
	order.SetOneOne("shipping_info", info)

	require.NoError(t, db.Insert(ctx, order))

	orderKey := tests.MustKey(t, order)
	customerKey := tests.MustKey(t, customer)
	infoKey := tests.MustKey(t, info)

	got, err := db.Get(ctx, registry.MustLookup("Order"), orderKey)
	require.NoError(t, err)
	tests.AssertScalarsEqual(t, got, order, "id", "note", "total", "customer_id")

	fk, ok := got.Value("customer_id").Int64()
	require.True(t, ok)
	assert.Equal(t, customerKey, fk)

	gotInfo, err := db.Get(ctx, registry.MustLookup("ShippingInfo"), infoKey)
	require.NoError(t, err)
	tests.AssertScalarsEqual(t, gotInfo, info, "address", "order_id")

	order.Set("note", "more books")
	require.NoError(t, db.Update(ctx, order))
	got, err = db.Get(ctx, registry.MustLookup("Order"), orderKey)
	require.NoError(t, err)
	text, _ := got.Value("note").Text()
	assert.Equal(t, "more books", text)

	require.NoError(t, db.WithCascade(relgraph.CascadeDelete).Delete(ctx, order))
	_, err = db.Get(ctx, registry.MustLookup("Order"), orderKey)
	assert.True(t, relgraph.IsNotFound(err))
	_, err = db.Get(ctx, registry.MustLookup("ShippingInfo"), infoKey)
	assert.True(t, relgraph.IsNotFound(err))

	// the customer is not a dependent of the order
	_, err = db.Get(ctx, registry.MustLookup("Customer"), customerKey)
	assert.NoError(t, err)
}

func TestCascadeNullKeepsDependents(t *testing.T) {
	db, sqlDB := openShop(t)
	ctx := context.Background()
	registry := db.Registry()

	customer := relgraph.Default(registry.MustLookup("Customer"))
	customer.Set("name", "bob")
	var orders []*relgraph.Entity
	for _, note := range []string{"a", "b"} {
		o := relgraph.Default(registry.MustLookup("Order"))
		o.Set("note", note)
		orders = append(orders, o)
	}
	customer.SetOneMany("orders", orders)
	require.NoError(t, db.Insert(ctx, customer))

	var linked int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM orders WHERE customer_id IS NOT NULL").Scan(&linked))
	assert.Equal(t, 2, linked)

	require.NoError(t, db.WithCascade(relgraph.CascadeNull).Delete(ctx, customer))

	var total, orphaned int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*), SUM(customer_id IS NULL) FROM orders").Scan(&total, &orphaned))
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, orphaned)
}

func TestSchemaLifecycle(t *testing.T) {
	db, sqlDB := openShop(t)
	ctx := context.Background()

	_, err := db.DropSchema(ctx)
	require.NoError(t, err)

	var count int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'orders'").Scan(&count))
	assert.Zero(t, count)

	_, err = db.RebuildSchema(ctx)
	require.NoError(t, err)
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('customers', 'orders', 'shipping_infos')").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestEntityWithoutColumns(t *testing.T) {
	db, sqlDB := openEntities(t, tests.GroupEntities()...)
	ctx := context.Background()
	registry := db.Registry()

	group := relgraph.Default(registry.MustLookup("Group"))
	member := relgraph.Default(registry.MustLookup("Member"))
	member.Set("name", "ada")
	group.SetOneMany("members", []*relgraph.Entity{member})
	require.NoError(t, db.Insert(ctx, group))

	groupKey := tests.MustKey(t, group)
	_, err := db.Get(ctx, registry.MustLookup("Group"), groupKey)
	require.NoError(t, err)

	member.Set("name", "grace")
	require.NoError(t, db.WithCascade(relgraph.CascadeUpdate).Update(ctx, group))

	got, err := db.Get(ctx, registry.MustLookup("Member"), tests.MustKey(t, member))
	require.NoError(t, err)
	tests.AssertScalarsEqual(t, got, member, "id", "name", "group_id")

	var columnType string
	require.NoError(t, sqlDB.QueryRow("SELECT type FROM pragma_table_info('members') WHERE name = 'group_id'").Scan(&columnType))
	assert.Equal(t, "BIGINT", columnType)
}

func TestReservedColumnNames(t *testing.T) {
	db, _ := openEntities(t, &schema.Entity{Name: "Slot", Fields: []*schema.Field{
		{Name: "key", Kind: schema.Key},
		{Name: "order", DataType: schema.Int},
		{Name: "group"},
	}})
	ctx := context.Background()
	meta := db.Registry().MustLookup("Slot")

	slot := relgraph.Default(meta)
	slot.Set("order", 2)
	slot.Set("group", "top")
	require.NoError(t, db.Insert(ctx, slot))

	slot.Set("order", 3)
	require.NoError(t, db.Update(ctx, slot))

	key := tests.MustKey(t, slot)
	got, err := db.Get(ctx, meta, key)
	require.NoError(t, err)
	tests.AssertScalarsEqual(t, got, slot, "key", "order", "group")

	require.NoError(t, db.Delete(ctx, slot))
	_, err = db.Get(ctx, meta, key)
	assert.True(t, relgraph.IsNotFound(err))
}
