package params

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var ErrInvalidBindTag = errors.New("invalid bind tag")

// bindField is one tagged struct field.
type bindField struct {
	index  []int
	name   string
	nested bool // plain struct filled from an object value
}

// bindPlans caches the tagged fields per struct type.
var bindPlans sync.Map // reflect.Type -> []bindField

// Bind copies the prepared values into the struct dest points to. Fields
// are matched by their `param:"name"` tag; untagged fields and fields
// tagged "-" are left alone, as are fields whose parameter has no
// prepared value.
//
//	type Search struct {
//	    Limit int       `param:"limit"`
//	    Tags  []string  `param:"tags"`
//	    Owner uuid.UUID `param:"owner"`
//	}
//
// Struct fields tagged with the name of an object parameter are filled
// from its prepared properties the same way.
func (v *Values) Bind(dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrInvalidDestination, dest)
	}
	return bindStruct(rv.Elem(), v.prepared)
}

func bindStruct(target reflect.Value, values map[string]any) error {
	fields, err := bindPlan(target.Type())
	if err != nil {
		return err
	}

	for _, f := range fields {
		value, ok := values[f.name]
		if !ok {
			continue
		}
		field := target.FieldByIndex(f.index)

		if f.nested {
			if m, isMap := toMap(value); isMap {
				if err := bindStruct(field, m); err != nil {
					return fmt.Errorf("error binding %s: %w", f.name, err)
				}
				continue
			}
		}

		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("error binding %s: %w", f.name, err)
		}
	}
	return nil
}

// bindPlan returns the tagged fields of t, building and caching them on
// first use.
func bindPlan(t reflect.Type) ([]bindField, error) {
	if cached, ok := bindPlans.Load(t); ok {
		return cached.([]bindField), nil
	}

	var fields []bindField
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, ok := sf.Tag.Lookup(BindTagName)
		if !ok || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: field %s of %s has an empty name", ErrInvalidBindTag, sf.Name, t)
		}

		fields = append(fields, bindField{
			index:  sf.Index,
			name:   name,
			nested: isNestedStruct(sf.Type),
		})
	}

	actual, _ := bindPlans.LoadOrStore(t, fields)
	return actual.([]bindField), nil
}

// isNestedStruct reports whether t is a struct bound property by property
// rather than a value type like time.Time.
func isNestedStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == TimeType || t == UUIDType {
		return false
	}
	_, ok := reflect.New(t).Interface().(interface{ UnmarshalText([]byte) error })
	return !ok
}
