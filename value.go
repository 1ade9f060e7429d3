package relgraph

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/relgraph/relgraph/schema"
)

// ValueKind variant held by a Value
type ValueKind uint8

const (
	NullValue ValueKind = iota
	ScalarValue
	RefValue
	RefsValue
)

// Value the content of one field: NULL, a scalar, a reference to one entity
// or a collection of entities. The zero Value is NULL.
type Value struct {
	kind   ValueKind
	scalar interface{}
	ref    *Entity
	refs   []*Entity
}

// Null the NULL value
func Null() Value {
	return Value{}
}

// Scalar box a primitive. Integers widen to int64/uint64, float32 to
// float64, driver.Valuer is unwrapped and nil becomes NULL.
func Scalar(v interface{}) Value {
	v = normalize(v)
	if v == nil {
		return Value{}
	}
	return Value{kind: ScalarValue, scalar: v}
}

// Ref box a link to one entity, nil is a loaded but empty link
func Ref(e *Entity) Value {
	return Value{kind: RefValue, ref: e}
}

// Refs box a collection of entities
func Refs(es []*Entity) Value {
	return Value{kind: RefsValue, refs: append([]*Entity(nil), es...)}
}

func normalize(v interface{}) interface{} {
	if valuer, ok := v.(driver.Valuer); ok {
		var err error
		if v, err = valuer.Value(); err != nil {
			return nil
		}
	}

	switch v := v.(type) {
	case nil:
		return nil
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case float32:
		return float64(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return *v
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case *int64:
		if v == nil {
			return nil
		}
		return *v
	case []byte:
		if v == nil {
			return nil
		}
		return append([]byte(nil), v...)
	default:
		return v
	}
}

// Kind the variant held
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether v is NULL
func (v Value) IsNull() bool {
	return v.kind == NullValue
}

// Interface the boxed scalar, nil for NULL and relation values
func (v Value) Interface() interface{} {
	return v.scalar
}

// Entity the referenced entity of a Ref value
func (v Value) Entity() *Entity {
	return v.ref
}

// Entities the members of a Refs value
func (v Value) Entities() []*Entity {
	return append([]*Entity(nil), v.refs...)
}

// Int64 the scalar as int64, converting numbers, booleans and numeric text
func (v Value) Int64() (int64, bool) {
	switch s := v.scalar.(type) {
	case int64:
		return s, true
	case uint64:
		if s > math.MaxInt64 {
			return 0, false
		}
		return int64(s), true
	case float64:
		return int64(s), true
	case bool:
		if s {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// Uint64 the scalar as uint64
func (v Value) Uint64() (uint64, bool) {
	switch s := v.scalar.(type) {
	case uint64:
		return s, true
	case string:
		u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		return u, err == nil
	case []byte:
		u, err := strconv.ParseUint(strings.TrimSpace(string(s)), 10, 64)
		return u, err == nil
	}
	if i, ok := v.Int64(); ok && i >= 0 {
		return uint64(i), true
	}
	return 0, false
}

// Float64 the scalar as float64
func (v Value) Float64() (float64, bool) {
	switch s := v.scalar.(type) {
	case float64:
		return s, true
	case int64:
		return float64(s), true
	case uint64:
		return float64(s), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		return f, err == nil
	}
	return 0, false
}

// Bool the scalar as bool, numbers are true when not zero
func (v Value) Bool() (bool, bool) {
	switch s := v.scalar.(type) {
	case bool:
		return s, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		return b, err == nil
	case []byte:
		b, err := strconv.ParseBool(strings.TrimSpace(string(s)))
		return b, err == nil
	}
	if i, ok := v.Int64(); ok {
		return i != 0, true
	}
	return false, false
}

// Text the scalar as string
func (v Value) Text() (string, bool) {
	switch s := v.scalar.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case []byte:
		return string(s), true
	case time.Time:
		return s.Format(time.RFC3339Nano), true
	default:
		return fmt.Sprint(s), true
	}
}

// Time the scalar as time.Time, text is parsed with jinzhu/now
func (v Value) Time() (time.Time, bool) {
	switch s := v.scalar.(type) {
	case time.Time:
		return s, true
	case string:
		return parseTime(s)
	case []byte:
		return parseTime(string(s))
	case int64:
		return time.Unix(s, 0), true
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	t, err := now.Parse(s)
	return t, err == nil
}

// As convert the scalar to the representation of a column data type,
// values that cannot be converted are kept as they are
func (v Value) As(dataType schema.DataType) Value {
	if v.kind != ScalarValue {
		return v
	}

	var (
		converted interface{}
		ok        bool
	)
	switch dataType {
	case schema.Int:
		converted, ok = v.Int64()
	case schema.Uint:
		converted, ok = v.Uint64()
	case schema.Float:
		converted, ok = v.Float64()
	case schema.Bool:
		converted, ok = v.Bool()
	case schema.String:
		converted, ok = v.Text()
	case schema.Time:
		converted, ok = v.Time()
	case schema.Bytes:
		if s, isString := v.scalar.(string); isString {
			converted, ok = []byte(s), true
		}
	}
	if !ok {
		return v
	}
	return Value{kind: ScalarValue, scalar: converted}
}

func (v Value) String() string {
	switch v.kind {
	case RefValue:
		if v.ref == nil {
			return "null"
		}
		return v.ref.label()
	case RefsValue:
		labels := make([]string, len(v.refs))
		for i, e := range v.refs {
			labels[i] = e.label()
		}
		return "[" + strings.Join(labels, ", ") + "]"
	case ScalarValue:
		switch s := v.scalar.(type) {
		case string:
			return strconv.Quote(s)
		case []byte:
			return strconv.Quote(string(s))
		case time.Time:
			return strconv.Quote(s.Format("2006-01-02 15:04:05.999"))
		default:
			return fmt.Sprint(s)
		}
	default:
		return "null"
	}
}
