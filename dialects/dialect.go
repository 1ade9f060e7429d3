// Package dialects connects relgraph to concrete databases.
package dialects

import (
	"database/sql"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/schema"
)

// Dialector opens a database and adapts metadata to its column types
type Dialector interface {
	Name() string
	Open() (*sql.DB, error)
	// Adapt adjust storage types, called before the entities are registered
	Adapt(entities []*schema.Entity)
}

// Open connect through the dialector and wrap the handle for relgraph.
// The caller closes the returned *sql.DB.
func Open(d Dialector) (relgraph.Pool, *sql.DB, error) {
	db, err := d.Open()
	if err != nil {
		return nil, nil, err
	}
	return relgraph.OpenDB(db), db, nil
}
