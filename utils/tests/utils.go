package tests

import (
	"fmt"
	"testing"
	"time"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/utils"
)

// AssertScalarsEqual compare the named scalar fields of two entities
func AssertScalarsEqual(t *testing.T, got, expect relgraph.Model, names ...string) {
	t.Helper()
	for _, name := range names {
		g := got.Inner().Value(name)
		e := expect.Inner().Value(name)
		t.Run(name, func(t *testing.T) {
			AssertValueEqual(t, g, e)
		})
	}
}

// AssertValueEqual compare two scalars the way a store hands them back:
// numbers by value, times to the second
func AssertValueEqual(t *testing.T, got, expect relgraph.Value) {
	t.Helper()
	if got.IsNull() || expect.IsNull() {
		if got.IsNull() != expect.IsNull() {
			t.Errorf("%v: expect: %v, got %v", utils.FileWithLineNum(), expect, got)
		}
		return
	}

	if et, ok := expect.Interface().(time.Time); ok {
		gt, ok := got.Time()
		if !ok || !gt.Truncate(time.Second).Equal(et.Truncate(time.Second)) {
			t.Errorf("%v: expect: %v, got %v after time round", utils.FileWithLineNum(), et, got)
		}
		return
	}

	if ef, ok := expect.Float64(); ok {
		if gf, ok := got.Float64(); ok && gf == ef {
			return
		}
	}

	if fmt.Sprint(got.Interface()) != fmt.Sprint(expect.Interface()) {
		t.Errorf("%v: expect: %#v, got %#v", utils.FileWithLineNum(), expect.Interface(), got.Interface())
	}
}

// MustKey the key of m, failing the test when it has none
func MustKey(t *testing.T, m relgraph.Model) int64 {
	t.Helper()
	key, ok := m.Inner().Key()
	if !ok {
		t.Fatalf("%v: %s has no key", utils.FileWithLineNum(), m.Inner().Meta().Name)
	}
	return key
}

func Now() time.Time {
	return time.Now().Truncate(time.Second)
}
