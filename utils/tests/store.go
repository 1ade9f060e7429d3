package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/schema"
)

// ErrNoTable statement against a table that does not exist
var ErrNoTable = errors.New("no such table")

// Statement one statement received by a Store
type Statement struct {
	SQL    string
	Params relgraph.Params
}

// Store in-memory relgraph.Pool that understands the statements the
// engine renders and records every one of them
type Store struct {
	mu         sync.Mutex
	registry   *schema.Registry
	tables     map[string]map[int64]relgraph.Row
	lastID     map[string]int64
	statements []Statement
	failures   map[string]error
	connErr    error
	opened     int
	closed     int
}

// NewStore create a store whose tables already exist
func NewStore(registry *schema.Registry) *Store {
	s := &Store{
		registry: registry,
		tables:   map[string]map[int64]relgraph.Row{},
		lastID:   map[string]int64{},
		failures: map[string]error{},
	}
	for _, entity := range registry.Entities() {
		s.tables[entity.Table] = map[int64]relgraph.Row{}
	}
	return s
}

// FailOn make every statement starting with prefix fail with err
func (s *Store) FailOn(prefix string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[prefix] = err
}

// FailConn make Conn fail with err
func (s *Store) FailConn(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connErr = err
}

// Statements every statement received so far
func (s *Store) Statements() []Statement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Statement(nil), s.statements...)
}

// SQL the text of every statement received so far
func (s *Store) SQL() []string {
	statements := s.Statements()
	sqls := make([]string, len(statements))
	for i, stmt := range statements {
		sqls[i] = stmt.SQL
	}
	return sqls
}

// Reset forget recorded statements
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = nil
}

// Conns connections handed out and connections still open
func (s *Store) Conns() (opened, open int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.opened - s.closed
}

// Row a copy of the stored row, nil when absent
func (s *Store) Row(table string, key int64) relgraph.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRow(s.tables[table][key])
}

// Keys stored keys of table in ascending order
func (s *Store) Keys(table string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]int64, 0, len(s.tables[table]))
	for key := range s.tables[table] {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// HasTable reports whether table exists
func (s *Store) HasTable(table string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tables[table]
	return ok
}

func (s *Store) Conn(ctx context.Context) (relgraph.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connErr != nil {
		return nil, s.connErr
	}
	s.opened++
	return &storeConn{store: s}, nil
}

type storeConn struct {
	store  *Store
	closed bool
}

func (c *storeConn) Exec(ctx context.Context, sql string, params relgraph.Params) (relgraph.Result, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(c, sql, params); err != nil {
		return relgraph.Result{}, err
	}

	table := tableOf(sql)
	switch {
	case strings.HasPrefix(sql, "CREATE TABLE"):
		if _, ok := s.tables[table]; !ok {
			s.tables[table] = map[int64]relgraph.Row{}
		}
		return relgraph.Result{}, nil
	case strings.HasPrefix(sql, "DROP TABLE"):
		delete(s.tables, table)
		delete(s.lastID, table)
		return relgraph.Result{}, nil
	}

	rows, ok := s.tables[table]
	if !ok {
		return relgraph.Result{}, fmt.Errorf("%w: %s", ErrNoTable, table)
	}
	keyColumn := s.keyColumn(table)

	switch {
	case strings.HasPrefix(sql, "INSERT"):
		s.lastID[table]++
		key := s.lastID[table]
		row := relgraph.Row(params.Map())
		row[keyColumn] = key
		rows[key] = row
		return relgraph.Result{RowsAffected: 1, LastInsertID: key}, nil
	case strings.HasPrefix(sql, "UPDATE"):
		key := paramKey(params, keyColumn)
		row, ok := rows[key]
		if !ok {
			return relgraph.Result{}, nil
		}
		for _, p := range params {
			row[p.Column] = p.Value
		}
		return relgraph.Result{RowsAffected: 1}, nil
	case strings.HasPrefix(sql, "DELETE"):
		key := paramKey(params, keyColumn)
		if _, ok := rows[key]; !ok {
			return relgraph.Result{}, nil
		}
		delete(rows, key)
		return relgraph.Result{RowsAffected: 1}, nil
	}
	return relgraph.Result{}, fmt.Errorf("unsupported statement %q", sql)
}

func (c *storeConn) Query(ctx context.Context, sql string, params relgraph.Params) (relgraph.Rows, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(c, sql, params); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(sql, "SELECT") {
		return nil, fmt.Errorf("unsupported query %q", sql)
	}

	table := tableOf(sql)
	rows, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, table)
	}

	result := &storeRows{}
	if row, ok := rows[paramKey(params, s.keyColumn(table))]; ok {
		result.rows = append(result.rows, copyRow(row))
	}
	return result, nil
}

func (c *storeConn) Close() error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.closed {
		return errors.New("connection closed twice")
	}
	c.closed = true
	c.store.closed++
	return nil
}

// record must be called with s.mu held
func (s *Store) record(c *storeConn, sql string, params relgraph.Params) error {
	if c.closed {
		return errors.New("connection is closed")
	}
	s.statements = append(s.statements, Statement{SQL: sql, Params: append(relgraph.Params(nil), params...)})
	for prefix, err := range s.failures {
		if strings.HasPrefix(sql, prefix) {
			return err
		}
	}
	return nil
}

func (s *Store) keyColumn(table string) string {
	for _, entity := range s.registry.Entities() {
		if entity.Table == table {
			return entity.KeyField.Column
		}
	}
	return "id"
}

type storeRows struct {
	rows []relgraph.Row
	idx  int
}

func (r *storeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *storeRows) Row() (relgraph.Row, error) {
	if r.idx == 0 || r.idx > len(r.rows) {
		return nil, errors.New("no current row")
	}
	return r.rows[r.idx-1], nil
}

func (r *storeRows) Err() error {
	return nil
}

func (r *storeRows) Close() error {
	return nil
}

// tableOf the backticked name following the table clause of sql
func tableOf(sql string) string {
	for _, clause := range []string{" FROM ", "INTO ", "UPDATE ", " EXISTS "} {
		if idx := strings.Index(sql, clause); idx >= 0 {
			return firstQuoted(sql[idx+len(clause):])
		}
	}
	return firstQuoted(sql)
}

func firstQuoted(sql string) string {
	start := strings.IndexByte(sql, '`')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(sql[start+1:], '`')
	if end < 0 {
		return ""
	}
	return sql[start+1 : start+1+end]
}

func paramKey(params relgraph.Params, column string) int64 {
	v, _ := params.Lookup(column)
	key, _ := relgraph.Scalar(v).Int64()
	return key
}

func copyRow(row relgraph.Row) relgraph.Row {
	if row == nil {
		return nil
	}
	c := make(relgraph.Row, len(row))
	for k, v := range row {
		c[k] = v
	}
	return c
}
