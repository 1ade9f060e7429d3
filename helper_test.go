package relgraph_test

import (
	"testing"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/logger"
	. "github.com/relgraph/relgraph/utils/tests"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T, opts ...relgraph.ConfigOption) (*relgraph.DB, *Store) {
	t.Helper()
	store := NewStore(Registry)
	db, err := relgraph.Open(store, Registry, append([]relgraph.ConfigOption{relgraph.WithLogger(logger.Discard)}, opts...)...)
	require.NoError(t, err)
	return db, store
}

// assertReleased every connection handed out was closed
func assertReleased(t *testing.T, store *Store) {
	t.Helper()
	opened, open := store.Conns()
	require.Positive(t, opened)
	require.Zero(t, open)
}
