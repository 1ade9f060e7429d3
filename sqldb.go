package relgraph

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// NamedCacheSize parsed queries kept by each pool returned from OpenDB
const NamedCacheSize = 512

// OpenDB adapt a database/sql handle. Statements are rebound like
// BindNamed before they reach the driver, parsed queries are cached.
func OpenDB(db *sql.DB) Pool {
	named, _ := lru.New[string, *namedQuery](NamedCacheSize)
	return &sqlPool{db: db, named: named}
}

type sqlPool struct {
	db    *sql.DB
	named *lru.Cache[string, *namedQuery]
}

func (p *sqlPool) bind(query string, params Params) (string, []interface{}, error) {
	q, ok := p.named.Get(query)
	if !ok {
		q = parseNamed(query)
		p.named.Add(query, q)
	}
	return q.bind(params)
}

func (p *sqlPool) Conn(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{pool: p, conn: conn}, nil
}

type sqlConn struct {
	pool *sqlPool
	conn *sql.Conn
}

func (c *sqlConn) Exec(ctx context.Context, query string, params Params) (Result, error) {
	query, args, err := c.pool.bind(query, params)
	if err != nil {
		return Result{}, err
	}

	res, err := c.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}

	var result Result
	// drivers may not report either value for DDL
	if n, err := res.RowsAffected(); err == nil {
		result.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		result.LastInsertID = id
	}
	return result, nil
}

func (c *sqlConn) Query(ctx context.Context, query string, params Params) (Rows, error) {
	query, args, err := c.pool.bind(query, params)
	if err != nil {
		return nil, err
	}

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (c *sqlConn) Close() error {
	return c.conn.Close()
}

type sqlRows struct {
	rows    *sql.Rows
	columns []string
}

func (r *sqlRows) Next() bool {
	return r.rows.Next()
}

func (r *sqlRows) Row() (Row, error) {
	if r.columns == nil {
		columns, err := r.rows.Columns()
		if err != nil {
			return nil, err
		}
		r.columns = columns
	}

	values := make([]interface{}, len(r.columns))
	dest := make([]interface{}, len(r.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(Row, len(r.columns))
	for i, column := range r.columns {
		row[column] = values[i]
	}
	return row, nil
}

func (r *sqlRows) Err() error {
	return r.rows.Err()
}

func (r *sqlRows) Close() error {
	return r.rows.Close()
}

// BindNamed rewrite :column placeholders to ? and collect their values in
// order. Quoted and backticked text is copied as is, :: is kept for casts.
func BindNamed(query string, params Params) (string, []interface{}, error) {
	return parseNamed(query).bind(params)
}

// namedQuery a query with its placeholders rewritten, names in placeholder order
type namedQuery struct {
	sql   string
	names []string
}

func (q *namedQuery) bind(params Params) (string, []interface{}, error) {
	args := make([]interface{}, 0, len(q.names))
	for _, name := range q.names {
		value, ok := params.Lookup(name)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		args = append(args, value)
	}
	return q.sql, args, nil
}

func parseNamed(query string) *namedQuery {
	var (
		buf   strings.Builder
		names []string
		quote rune
		runes = []rune(query)
	)
	buf.Grow(len(query))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			buf.WriteRune(r)
		case r == '`' || r == '\'' || r == '"':
			quote = r
			buf.WriteRune(r)
		case r == ':' && i+1 < len(runes) && runes[i+1] == ':':
			buf.WriteString("::")
			i++
		case r == ':' && i+1 < len(runes) && isParamStart(runes[i+1]):
			j := i + 1
			for j < len(runes) && isParamPart(runes[j]) {
				j++
			}
			buf.WriteByte('?')
			names = append(names, string(runes[i+1:j]))
			i = j - 1
		default:
			buf.WriteRune(r)
		}
	}

	return &namedQuery{sql: buf.String(), names: names}
}

func isParamStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isParamPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
