package relgraph

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/relgraph/relgraph/schema"
)

var lastNodeID atomic.Uint64

// Model anything that wraps an entity node, typed wrappers embed *Entity
type Model interface {
	Inner() *Entity
}

// Entity a shared, mutable record: field values plus links to other
// entities. Identity is the node id, never the field contents.
type Entity struct {
	id     uint64
	meta   *schema.Entity
	fields map[string]Value
	busy   atomic.Bool
}

// New create an empty entity, every relation is unloaded
func New(meta *schema.Entity) *Entity {
	if meta == nil || meta.KeyField == nil {
		panic(fmt.Sprintf("relgraph: entity metadata %v is not built", meta))
	}
	return &Entity{
		id:     lastNodeID.Add(1),
		meta:   meta,
		fields: make(map[string]Value, len(meta.Fields)),
	}
}

// Default create an entity whose scalars are NULL and whose relations are loaded and empty
func Default(meta *schema.Entity) *Entity {
	e := New(meta)
	for _, field := range meta.Fields {
		switch field.Kind {
		case schema.Pointer, schema.OneToOne:
			e.fields[field.Name] = Ref(nil)
		case schema.OneToMany:
			e.fields[field.Name] = Refs(nil)
		default:
			e.fields[field.Name] = Null()
		}
	}
	return e
}

// Inner implements Model
func (e *Entity) Inner() *Entity {
	return e
}

// ID process local identity of the node
func (e *Entity) ID() uint64 {
	return e.id
}

// Meta the entity type
func (e *Entity) Meta() *schema.Entity {
	return e.meta
}

// Equal reports whether both handles point at the same node
func (e *Entity) Equal(other Model) bool {
	o := inner(other)
	if e == nil || o == nil {
		return e == nil && o == nil
	}
	return e.id == o.id
}

// Get scalar value of a key or plain field, false when NULL or unset
func (e *Entity) Get(name string) (interface{}, bool) {
	v := e.Value(name)
	return v.Interface(), !v.IsNull()
}

// Value scalar value of a key or plain field, NULL when unset
func (e *Entity) Value(name string) Value {
	field := e.column(name)
	defer e.acquire()()
	return e.fields[field.Name]
}

// IsNull reports whether a key or plain field is NULL or unset
func (e *Entity) IsNull(name string) bool {
	return e.Value(name).IsNull()
}

// Set assign a key or plain field, nil stores NULL
func (e *Entity) Set(name string, value interface{}) {
	field := e.column(name)
	v := Scalar(value).As(field.DataType)
	defer e.acquire()()
	e.fields[field.Name] = v
}

// Key the store assigned key, false before insert
func (e *Entity) Key() (int64, bool) {
	defer e.acquire()()
	return e.key()
}

// Values every non-key scalar in field order, unset fields are nil
func (e *Entity) Values() []interface{} {
	defer e.acquire()()
	params := e.params()
	values := make([]interface{}, len(params))
	for i, p := range params {
		values[i] = p.Value
	}
	return values
}

// Params every non-key scalar in field order, paired with its column
func (e *Entity) Params() Params {
	defer e.acquire()()
	return e.params()
}

// SetValues hydrate key and plain fields from a row keyed by column,
// unknown columns are ignored and missing columns leave fields untouched
func (e *Entity) SetValues(row Row) {
	defer e.acquire()()
	e.setValues(row)
}

// Linked every loaded neighbour, in field order
func (e *Entity) Linked() []*Entity {
	defer e.acquire()()
	return e.linked()
}

// String renders the set fields as {name: value, ...} in field order
func (e *Entity) String() string {
	defer e.acquire()()

	pairs := make([]string, 0, len(e.fields))
	for _, name := range e.meta.FieldNames {
		if v, ok := e.fields[name]; ok {
			pairs = append(pairs, name+": "+v.String())
		}
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (e *Entity) label() string {
	return fmt.Sprintf("<%s#%d>", e.meta.Name, e.id)
}

func (e *Entity) key() (int64, bool) {
	v, ok := e.fields[e.meta.KeyField.Name]
	if !ok || v.IsNull() {
		return 0, false
	}
	return v.Int64()
}

func (e *Entity) keyValue() Value {
	return e.fields[e.meta.KeyField.Name]
}

func (e *Entity) setKey(key int64) {
	e.fields[e.meta.KeyField.Name] = Scalar(key)
}

func (e *Entity) clearKey() {
	e.fields[e.meta.KeyField.Name] = Null()
}

func (e *Entity) params() Params {
	fields := e.meta.ValueFields()
	params := make(Params, 0, len(fields))
	for _, field := range fields {
		params = append(params, Param{Column: field.Column, Value: e.fields[field.Name].Interface()})
	}
	return params
}

func (e *Entity) setValues(row Row) {
	for column, raw := range row {
		field, ok := e.meta.FieldsByColumn[column]
		if !ok {
			continue
		}
		e.fields[field.Name] = Scalar(raw).As(field.DataType)
	}
}

func (e *Entity) linked() []*Entity {
	var linked []*Entity
	for _, field := range e.meta.Relations() {
		v, ok := e.fields[field.Name]
		if !ok {
			continue
		}
		if v.kind == RefValue && v.ref != nil {
			linked = append(linked, v.ref)
		}
		linked = append(linked, v.refs...)
	}
	return linked
}

// column field descriptor of a key or plain field, panics otherwise
func (e *Entity) column(name string) *schema.Field {
	field := e.field(name)
	if !field.IsColumn() {
		panic(&SchemaMismatchError{Entity: e.meta.Name, Field: name, Want: "a scalar field", Got: field.Kind.String()})
	}
	return field
}

func (e *Entity) field(name string) *schema.Field {
	field, ok := e.meta.FieldsByName[name]
	if !ok {
		panic(&SchemaMismatchError{Entity: e.meta.Name, Field: name, Want: "a declared field", Got: "undefined"})
	}
	return field
}

func inner(m Model) *Entity {
	if m == nil {
		return nil
	}
	return m.Inner()
}
