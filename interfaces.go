package relgraph

import "context"

// Pool hands out one connection per top-level call
type Pool interface {
	Conn(ctx context.Context) (Conn, error)
}

// Conn a connection held for the duration of one call, Close releases it
type Conn interface {
	Exec(ctx context.Context, sql string, params Params) (Result, error)
	Query(ctx context.Context, sql string, params Params) (Rows, error)
	Close() error
}

// Result outcome of Exec
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Rows cursor returned by Query
type Rows interface {
	Next() bool
	Row() (Row, error)
	Err() error
	Close() error
}

// Row one fetched row keyed by column
type Row map[string]interface{}

// Param value bound to the :column placeholder
type Param struct {
	Column string
	Value  interface{}
}

// Params statement parameters in placeholder order
type Params []Param

// Lookup value bound to column
func (params Params) Lookup(column string) (interface{}, bool) {
	for _, p := range params {
		if p.Column == column {
			return p.Value, true
		}
	}
	return nil, false
}

// Map params keyed by column
func (params Params) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(params))
	for _, p := range params {
		m[p.Column] = p.Value
	}
	return m
}
