package relgraph

import (
	"context"

	"github.com/relgraph/relgraph/builder"
	"github.com/relgraph/relgraph/schema"
)

// CreateSchema create the table of every registered entity, in
// registration order, and return the summed affected rows
func (db *DB) CreateSchema(ctx context.Context) (int64, error) {
	return db.eachTable(ctx, builder.CreateTable)
}

// DropSchema drop the table of every registered entity
func (db *DB) DropSchema(ctx context.Context) (int64, error) {
	return db.eachTable(ctx, builder.DropTable)
}

// RebuildSchema drop then create every table
func (db *DB) RebuildSchema(ctx context.Context) (int64, error) {
	if _, err := db.DropSchema(ctx); err != nil {
		return 0, err
	}
	return db.CreateSchema(ctx)
}

// DDL the CREATE TABLE statement of every registered entity
func (db *DB) DDL() []string {
	entities := db.registry.Entities()
	statements := make([]string, 0, len(entities))
	for _, entity := range entities {
		statements = append(statements, builder.CreateTable(entity))
	}
	return statements
}

func (db *DB) eachTable(ctx context.Context, render func(*schema.Entity) string) (int64, error) {
	s, release, err := db.session(ctx, CascadeNone)
	if err != nil {
		return 0, err
	}
	defer release()

	var affected int64
	for _, entity := range db.registry.Entities() {
		result, err := s.exec(render(entity), nil)
		if err != nil {
			return affected, err
		}
		affected += result.RowsAffected
	}
	return affected, nil
}
