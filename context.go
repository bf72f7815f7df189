package params

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// Context interfaces
///////////////////////////////////////////////////////////////////////////////

// Context describes where a set of values comes from (query string, JSON
// body, path segments, headers). Its name is used in error messages and
// documentation.
type Context interface {
	Name() string
	// Deserializer returns the hook that turns the raw wire format into a
	// mapping, or nil if the context has none.
	Deserializer() Deserializer
}

// Deserializer turns a raw payload into name/value pairs.
type Deserializer interface {
	Deserialize(data []byte) (map[string]any, error)
}

// DeserializerFunc adapts a function to Deserializer.
type DeserializerFunc func(data []byte) (map[string]any, error)

func (f DeserializerFunc) Deserialize(data []byte) (map[string]any, error) {
	return f(data)
}

// ValueDeserializer is implemented by contexts whose values arrive as
// strings and need expanding before validation (for example "a,b,c" into a
// list for an array parameter). It runs first in every parameter pipeline.
type ValueDeserializer interface {
	DeserializeValue(p *Parameter, value any) (any, error)
}

var (
	_ ValueDeserializer = (*QueryContext)(nil)
	_ ValueDeserializer = (*PathContext)(nil)
	_ ValueDeserializer = (*HeaderContext)(nil)

	_ Context = (*QueryContext)(nil)
	_ Context = (*PathContext)(nil)
	_ Context = (*HeaderContext)(nil)
	_ Context = (*BodyContext)(nil)
)

///////////////////////////////////////////////////////////////////////////////
// Query
///////////////////////////////////////////////////////////////////////////////

// QueryContext is the context for URL query strings.
//
// Values arrive as strings: integers, numbers and booleans are converted
// when they parse, arrays are split on commas ("a,b,c") and objects are
// read from comma separated key=value pairs ("a=apple,b=banana").
type QueryContext struct{}

// NewQueryContext returns the query string context.
func NewQueryContext() *QueryContext { return &QueryContext{} }

func (qc *QueryContext) Name() string { return QueryContextName }

func (qc *QueryContext) Deserializer() Deserializer {
	return DeserializerFunc(func(data []byte) (map[string]any, error) {
		query, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, fmt.Errorf("error parsing query string: %w", err)
		}
		return flattenMultiValues(query), nil
	})
}

func (qc *QueryContext) DeserializeValue(p *Parameter, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}

	switch p.Type() {
	case TypeArray:
		return splitList(s), nil
	case TypeObject:
		return splitPairs(s)
	default:
		return castScalar(p.Type(), s), nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// Path and header
///////////////////////////////////////////////////////////////////////////////

// PathContext is the context for path segments. Scalars are converted like
// query values.
type PathContext struct{}

// NewPathContext returns the path context.
func NewPathContext() *PathContext { return &PathContext{} }

func (pc *PathContext) Name() string { return PathContextName }

func (pc *PathContext) Deserializer() Deserializer { return nil }

func (pc *PathContext) DeserializeValue(p *Parameter, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if p.Type() == TypeArray {
		return splitList(s), nil
	}
	return castScalar(p.Type(), s), nil
}

// HeaderContext is the context for HTTP headers. Scalars are converted
// like query values, arrays are comma separated.
type HeaderContext struct{}

// NewHeaderContext returns the header context.
func NewHeaderContext() *HeaderContext { return &HeaderContext{} }

func (hc *HeaderContext) Name() string { return HeaderContextName }

func (hc *HeaderContext) Deserializer() Deserializer { return nil }

func (hc *HeaderContext) DeserializeValue(p *Parameter, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if p.Type() == TypeArray {
		return splitList(s), nil
	}
	return castScalar(p.Type(), s), nil
}

///////////////////////////////////////////////////////////////////////////////
// Body
///////////////////////////////////////////////////////////////////////////////

var (
	ErrInvalidJSON   = errors.New("body is not valid JSON")
	ErrBodyNotObject = errors.New("JSON body must be an object")
)

// BodyContext is the context for JSON request bodies. Values keep their
// JSON types; numbers arrive as float64.
type BodyContext struct{}

// NewBodyContext returns the body context.
func NewBodyContext() *BodyContext { return &BodyContext{} }

func (bc *BodyContext) Name() string { return BodyContextName }

func (bc *BodyContext) Deserializer() Deserializer {
	return DeserializerFunc(parseJSONObject)
}

// parseJSONObject parses a JSON object into a map. An empty payload is an
// empty object.
func parseJSONObject(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, ErrBodyNotObject
	}

	out, ok := result.Value().(map[string]any)
	if !ok {
		return nil, ErrBodyNotObject
	}
	return out, nil
}

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// flattenMultiValues keeps single values as strings and repeated keys as
// lists.
func flattenMultiValues(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for name, vals := range values {
		switch len(vals) {
		case 0:
			out[name] = ""
		case 1:
			out[name] = vals[0]
		default:
			items := make([]any, len(vals))
			for i, v := range vals {
				items[i] = v
			}
			out[name] = items
		}
	}
	return out
}

// splitList splits a comma separated string into trimmed items. An empty
// string is an empty list.
func splitList(s string) []any {
	if strings.TrimSpace(s) == "" {
		return []any{}
	}
	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}

// splitPairs reads "a=apple,b=banana" into a map.
func splitPairs(s string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("value must be a list of key=value pairs (invalid pair %q)", pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// castScalar converts s for integer, number and boolean parameters and
// returns s unchanged when it does not parse; the type rule reports it.
func castScalar(t Type, s string) any {
	switch t {
	case TypeInteger, TypeNumber, TypeBoolean:
		if cast, err := castValue(t, s); err == nil {
			return cast
		}
	}
	return s
}
