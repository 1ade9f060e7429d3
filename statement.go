package relgraph

import (
	"context"
	"time"

	"github.com/relgraph/relgraph/logger"
	"github.com/relgraph/relgraph/schema"
)

// session state of one top-level call: the connection it holds, the
// cascade mode in force and the entities already written
type session struct {
	db      *DB
	ctx     context.Context
	conn    Conn
	mode    CascadeMode
	visited map[uint64]struct{}
}

// session acquire a connection for one call, release hands it back
func (db *DB) session(ctx context.Context, fallback CascadeMode) (s *session, release func(), err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := db.pool.Conn(ctx)
	if err != nil {
		return nil, nil, err
	}

	s = &session{
		db:      db,
		ctx:     ctx,
		conn:    conn,
		mode:    db.mode(fallback),
		visited: map[uint64]struct{}{},
	}
	release = func() {
		if err := conn.Close(); err != nil {
			db.Logger.Warn(ctx, "release connection: %v", err)
		}
	}
	return s, release, nil
}

// enter mark e as written by this call, false when it already was or
// when the caller declared it synchronized
func (s *session) enter(e *Entity) bool {
	if _, ok := s.visited[e.id]; ok {
		return false
	}
	s.visited[e.id] = struct{}{}
	return true
}

// synced reports whether the caller declared e already written
func (s *session) synced(e *Entity) bool {
	_, ok := s.db.synced[e.id]
	return ok
}

// skip reports whether a cascade must not reach e
func (s *session) skip(e *Entity) bool {
	if s.synced(e) {
		return true
	}
	_, ok := s.visited[e.id]
	return ok
}

// pointer the loaded target of a single reference
func (s *session) pointer(e *Entity, field *schema.Field) *Entity {
	defer e.acquire()()
	return e.fields[field.Name].ref
}

// dependents the loaded targets of a one-to-one or one-to-many relation
func (s *session) dependents(e *Entity, field *schema.Field) []*Entity {
	defer e.acquire()()
	v := e.fields[field.Name]
	if v.ref != nil {
		return []*Entity{v.ref}
	}
	return append([]*Entity(nil), v.refs...)
}

// link store the owner's key in the dependent's foreign key
func (s *session) link(owner, dep *Entity, field *schema.Field) {
	g := lock(owner, dep)
	defer g.release()
	dep.fields[field.ForeignField.Name] = owner.keyValue().As(field.ForeignField.DataType)
}

func (s *session) exec(sql string, params Params) (Result, error) {
	begin := time.Now()
	result, err := s.conn.Exec(s.ctx, sql, params)
	rows := result.RowsAffected
	if err != nil {
		rows = -1
	}
	s.trace(begin, sql, params, rows, err)
	return result, err
}

// queryRow run a query expected to return one row, notFound when there is none
func (s *session) queryRow(sql string, params Params, notFound error) (row Row, err error) {
	begin := time.Now()
	var count int64 = -1
	defer func() {
		s.trace(begin, sql, params, count, err)
	}()

	rows, err := s.conn.Query(s.ctx, sql, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	count = 0
	if rows.Next() {
		count = 1
		if row, err = rows.Row(); err != nil {
			return nil, err
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound
	}
	return row, nil
}

func (s *session) trace(begin time.Time, sql string, params Params, rows int64, err error) {
	s.db.Logger.Trace(s.ctx, begin, func() (string, int64) {
		vars := make([]interface{}, len(params))
		for i, p := range params {
			vars[i] = logger.NamedVar{Name: p.Column, Value: p.Value}
		}
		if filter, ok := s.db.Logger.(logger.ParamsFilter); ok {
			sql, vars = filter.ParamsFilter(s.ctx, sql, vars...)
		}
		return logger.ExplainSQL(sql, `'`, vars...), rows
	}, err)
}
