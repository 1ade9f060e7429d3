package relgraph_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/logger"
	. "github.com/relgraph/relgraph/utils/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindNamed(t *testing.T) {
	params := relgraph.Params{{Column: "note", Value: "x"}, {Column: "id", Value: int64(3)}}

	query, args, err := relgraph.BindNamed("UPDATE `o:t` SET note = :note WHERE `id` = :id", params)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `o:t` SET note = ? WHERE `id` = ?", query)
	assert.Equal(t, []interface{}{"x", int64(3)}, args)

	query, args, err = relgraph.BindNamed("SELECT ':note', id::text FROM t WHERE `id` = :id AND id = :id", params)
	require.NoError(t, err)
	assert.Equal(t, "SELECT ':note', id::text FROM t WHERE id = ? AND id = ?", query)
	assert.Equal(t, []interface{}{int64(3), int64(3)}, args)

	_, _, err = relgraph.BindNamed("DELETE FROM t WHERE id = :key", params)
	assert.ErrorIs(t, err, relgraph.ErrMissingParam)
}

func TestOpenDB(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := relgraph.Open(relgraph.OpenDB(sqlDB), Registry, relgraph.WithLogger(logger.Discard))
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO `orders`(`note`, `total`, `customer_id`) VALUES (?, ?, ?)").
		WithArgs("books", 2.5, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT `id`, `note`, `total`, `customer_id` FROM `orders` WHERE `id` = ?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "note", "total", "customer_id"}).AddRow(int64(7), []byte("books"), 2.5, nil))
	mock.ExpectQuery("SELECT `id`, `note`, `total`, `customer_id` FROM `orders` WHERE `id` = ?").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "note", "total", "customer_id"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `customers`(`id` BIGINT PRIMARY KEY AUTO_INCREMENT, `name` VARCHAR(64) NOT NULL, `email` VARCHAR(255))").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `orders`(`id` BIGINT PRIMARY KEY AUTO_INCREMENT, `note` VARCHAR(255), `total` DOUBLE, `customer_id` BIGINT)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `shipping_infos`(`id` BIGINT PRIMARY KEY AUTO_INCREMENT, `address` VARCHAR(255), `order_id` BIGINT)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	order := NewOrder("books", 2.5)
	require.NoError(t, db.Insert(context.Background(), order))
	assert.Equal(t, int64(7), MustKey(t, order))

	got, err := db.Get(context.Background(), OrderMeta, 7)
	require.NoError(t, err)
	assert.Equal(t, "books", Order{Entity: got}.Note())
	assert.Equal(t, 2.5, Order{Entity: got}.Total())
	assert.True(t, got.IsNull("customer_id"))

	_, err = db.Get(context.Background(), OrderMeta, 8)
	assert.True(t, relgraph.IsNotFound(err))

	_, err = db.CreateSchema(context.Background())
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
