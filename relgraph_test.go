package relgraph_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/logger"
	"github.com/relgraph/relgraph/schema"
	. "github.com/relgraph/relgraph/utils/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	lines []string
}

func (r *recorder) Printf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recorder) joined() string {
	return strings.Join(r.lines, "\n")
}

func TestOpen(t *testing.T) {
	_, err := relgraph.Open(nil, Registry)
	assert.Error(t, err)

	_, err = relgraph.Open(NewStore(Registry), nil)
	assert.Error(t, err)

	broken := schema.NewRegistry(nil)
	require.NoError(t, broken.Register(&schema.Entity{Name: "Broken"}))
	_, err = relgraph.Open(NewStore(Registry), broken)
	assert.ErrorIs(t, err, schema.ErrInvalidSchema)

	db, err := relgraph.Open(NewStore(Registry), Registry)
	require.NoError(t, err)
	assert.Equal(t, logger.Default, db.Logger)
	assert.Same(t, Registry, db.Registry())
}

func TestEveryStatementIsTraced(t *testing.T) {
	rec := &recorder{}
	db, store := newDB(t, relgraph.WithLogger(logger.New(rec, logger.Config{LogLevel: logger.Info})))

	order := NewOrder("it's", 2.5)
	require.NoError(t, db.Insert(context.Background(), order))
	assert.Contains(t, rec.joined(), "INSERT INTO `orders`(`note`, `total`, `customer_id`) VALUES ('it\\'s', 2.500000, NULL)")

	store.FailOn("DELETE", errors.New("locked"))
	require.Error(t, db.Delete(context.Background(), order))
	assert.Contains(t, rec.joined(), "locked")
	assert.Contains(t, rec.joined(), fmt.Sprintf("DELETE FROM `orders` WHERE `id` = %d", MustKey(t, order)))

	_, err := db.Get(context.Background(), OrderMeta, 404)
	require.Error(t, err)
	assert.Contains(t, rec.joined(), "Order with key 404: record not found")
}

func TestParameterizedQueries(t *testing.T) {
	rec := &recorder{}
	db, _ := newDB(t, relgraph.WithLogger(logger.New(rec, logger.Config{LogLevel: logger.Info, ParameterizedQueries: true})))

	require.NoError(t, db.Insert(context.Background(), NewOrder("secret", 1)))
	assert.Contains(t, rec.joined(), "VALUES (:note, :total, :customer_id)")
	assert.NotContains(t, rec.joined(), "secret")
}

func TestDump(t *testing.T) {
	rec := &recorder{}
	db, _ := newDB(t, relgraph.WithLogger(logger.New(rec, logger.Config{LogLevel: logger.Info})))

	customer := NewCustomer("ada")
	db.Dump(context.Background(), customer)
	assert.Contains(t, rec.joined(), `[Customer] {id: null, name: "ada", email: null, orders: []}`)

	db.Dump(context.Background(), nil)
	assert.Len(t, rec.lines, 1)
}

func TestCascadeModeNames(t *testing.T) {
	for _, mode := range []relgraph.CascadeMode{
		relgraph.CascadeDefault, relgraph.CascadeNone, relgraph.CascadeInsert,
		relgraph.CascadeUpdate, relgraph.CascadeDelete, relgraph.CascadeNull,
	} {
		parsed, err := relgraph.ParseCascadeMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := relgraph.ParseCascadeMode("sideways")
	assert.Error(t, err)
	assert.Equal(t, "CascadeMode(9)", relgraph.CascadeMode(9).String())
}
