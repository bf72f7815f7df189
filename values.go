package params

import (
	"fmt"
	"maps"
	"slices"
)

// RawValue is an immutable snapshot of one submitted value before
// preparation.
type RawValue struct {
	Name  string
	Value any
}

// Values is the per-request collection of submitted values.
//
// It is built once per request and holds the raw values keyed by name, an
// optional back reference to the Context they came from and the prepared
// values, which are filled in as preparation proceeds so that later
// parameters can read the results of earlier ones.
//
// A prepared value, once recorded, is never replaced. Values must not be
// shared between concurrent preparation calls.
type Values struct {
	raw      map[string]RawValue
	prepared map[string]any
	context  Context
}

// NewValues wraps raw for preparation. ctx may be nil.
func NewValues(raw map[string]any, ctx Context) *Values {
	v := &Values{
		raw:      make(map[string]RawValue, len(raw)),
		prepared: make(map[string]any, len(raw)),
		context:  ctx,
	}
	for name, value := range raw {
		v.raw[name] = RawValue{Name: name, Value: value}
	}
	return v
}

// Context returns the source context, or nil.
func (v *Values) Context() Context {
	return v.context
}

// Has reports whether a value was submitted under name.
func (v *Values) Has(name string) bool {
	_, ok := v.raw[name]
	return ok
}

// Get returns the submitted value for name.
func (v *Values) Get(name string) (RawValue, bool) {
	rv, ok := v.raw[name]
	return rv, ok
}

// Names lists every submitted name in sorted order.
func (v *Values) Names() []string {
	return slices.Sorted(maps.Keys(v.raw))
}

// Len returns the number of submitted values.
func (v *Values) Len() int {
	return len(v.raw)
}

// Prepared returns the prepared value for name. The second result is false
// if the parameter has not been (successfully) prepared yet.
func (v *Values) Prepared(name string) (any, bool) {
	value, ok := v.prepared[name]
	return value, ok
}

// HasPrepared reports whether name has a prepared value.
func (v *Values) HasPrepared(name string) bool {
	_, ok := v.prepared[name]
	return ok
}

// MustPrepared returns the prepared value for name and panics if there is
// none. Use it only after a successful ParameterList.Prepare.
func (v *Values) MustPrepared(name string) any {
	value, ok := v.prepared[name]
	if !ok {
		panic(fmt.Sprintf("params: no prepared value for %q", name))
	}
	return value
}

// PreparedValues returns a copy of every prepared value.
func (v *Values) PreparedValues() map[string]any {
	return maps.Clone(v.prepared)
}

// setPrepared records the prepared value for name unless one exists.
func (v *Values) setPrepared(name string, value any) bool {
	if _, exists := v.prepared[name]; exists {
		return false
	}
	v.prepared[name] = value
	return true
}

// PreparedAs returns the prepared value for name asserted to T.
func PreparedAs[T any](v *Values, name string) (T, bool) {
	var zero T
	value, ok := v.Prepared(name)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}
