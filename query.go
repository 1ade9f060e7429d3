package relgraph

import (
	"context"
	"fmt"

	"github.com/relgraph/relgraph/builder"
	"github.com/relgraph/relgraph/schema"
)

// Get fetch the row with key. The result has its scalars set and every
// relation unloaded; a missing row is a *NotFoundError.
func (db *DB) Get(ctx context.Context, meta *schema.Entity, key int64) (*Entity, error) {
	if meta == nil {
		return nil, fmt.Errorf("%w: nil metadata", ErrUnknownEntity)
	}
	if registered, ok := db.registry.Lookup(meta.Name); !ok || registered != meta {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, meta.Name)
	}

	s, release, err := db.session(ctx, CascadeNone)
	if err != nil {
		return nil, err
	}
	defer release()

	row, err := s.queryRow(
		builder.Get(meta),
		Params{{Column: meta.KeyField.Column, Value: key}},
		&NotFoundError{Entity: meta.Name, Key: key},
	)
	if err != nil {
		return nil, err
	}

	e := New(meta)
	e.setValues(row)
	return e, nil
}

// GetByName like Get, looking the entity type up by name
func (db *DB) GetByName(ctx context.Context, name string, key int64) (*Entity, error) {
	meta, ok := db.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, name)
	}
	return db.Get(ctx, meta, key)
}
