package relgraph

import (
	"context"
	"fmt"

	"github.com/relgraph/relgraph/logger"
	"github.com/relgraph/relgraph/schema"
)

// DB persistence engine over one registry and one pool. Copies made by
// WithCascade and Synced share the pool and the config.
type DB struct {
	*Config
	pool     Pool
	registry *schema.Registry
	cascade  CascadeMode
	synced   map[uint64]struct{}
}

// Open initialize the engine, the registry is built when it was not yet
func Open(pool Pool, registry *schema.Registry, opts ...ConfigOption) (*DB, error) {
	if pool == nil {
		return nil, fmt.Errorf("relgraph: nil pool")
	}
	if registry == nil {
		return nil, fmt.Errorf("relgraph: nil registry")
	}
	if !registry.Built() {
		if err := registry.Build(); err != nil {
			return nil, err
		}
	}

	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}
	if config.Logger == nil {
		config.Logger = logger.Default
	}

	return &DB{Config: config, pool: pool, registry: registry}, nil
}

// Registry entity types known to the engine
func (db *DB) Registry() *schema.Registry {
	return db.registry
}

// WithCascade copy of db whose calls use mode
func (db *DB) WithCascade(mode CascadeMode) *DB {
	tx := *db
	tx.cascade = mode
	return &tx
}

// Synced copy of db that treats models, and every entity reachable from
// them, as already written: cascades made through the copy stop there.
// The entity passed to a call is still written.
func (db *DB) Synced(models ...Model) *DB {
	tx := *db
	tx.synced = make(map[uint64]struct{}, len(db.synced)+len(models))
	for id := range db.synced {
		tx.synced[id] = struct{}{}
	}

	stack := Inners(models)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := tx.synced[e.id]; ok {
			continue
		}
		tx.synced[e.id] = struct{}{}
		stack = append(stack, e.Linked()...)
	}
	return &tx
}

// Dump log the entity at info level
func (db *DB) Dump(ctx context.Context, m Model) {
	e := inner(m)
	if e == nil {
		return
	}
	db.Logger.Info(ctx, "[%s] %s", e.meta.Name, e.String())
}

func (db *DB) mode(fallback CascadeMode) CascadeMode {
	return db.cascade.or(db.Config.Cascade).or(fallback)
}

// entity validate a call argument against the registry
func (db *DB) entity(m Model) (*Entity, error) {
	e := inner(m)
	if e == nil {
		return nil, fmt.Errorf("relgraph: nil entity")
	}
	if meta, ok := db.registry.Lookup(e.meta.Name); !ok || meta != e.meta {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, e.meta.Name)
	}
	return e, nil
}
