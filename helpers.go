package params

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Shape helpers
///////////////////////////////////////////////////////////////////////////////

// toFloat converts any Go numeric kind (and json.Number) to float64.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case bool, string:
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// toInt converts integer kinds, and floats without a fractional part, to int.
func toInt(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	if n, ok := value.(json.Number); ok {
		i, err := n.Int64()
		return int(i), err == nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		// float64(math.MaxInt64) rounds up to 2^63, which int cannot hold
		if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// toSlice converts any slice or array to []any.
func toSlice(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if s, ok := value.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toMap converts any map with string keys to map[string]any.
func toMap(value any) (map[string]any, bool) {
	if value == nil {
		return nil, false
	}
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// isShape reports whether value already has the Go shape of t.
func isShape(t Type, value any) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeInteger:
		_, ok := toInt(value)
		return ok
	case TypeNumber:
		_, ok := toFloat(value)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeArray:
		_, ok := toSlice(value)
		return ok
	case TypeObject:
		_, ok := toMap(value)
		return ok
	default:
		return false
	}
}

///////////////////////////////////////////////////////////////////////////////
// Type casting
///////////////////////////////////////////////////////////////////////////////

// castValue makes a single attempt to coerce value toward t.
//
// Currently supports:
//   - scalar to string
//   - string to integer (base 10) and float without fraction to integer
//   - string to number
//   - string and 0/1 to boolean
//   - scalar to single item array
//
// Values that already have the right shape are returned unchanged.
func castValue(t Type, value any) (any, error) {
	if value == nil || isShape(t, value) {
		return value, nil
	}

	switch t {
	case TypeString:
		return castToString(value)
	case TypeInteger:
		return castToInteger(value)
	case TypeNumber:
		return castToNumber(value)
	case TypeBoolean:
		return castToBoolean(value)
	case TypeArray:
		return []any{value}, nil
	default:
		return nil, fmt.Errorf("value cannot be converted to %s", t)
	}
}

func castToString(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if i, ok := toInt(value); ok {
		return strconv.Itoa(i), nil
	}
	if f, ok := toFloat(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return nil, fmt.Errorf("value of type %T cannot be converted to string", value)
}

func castToInteger(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("value of type %T cannot be converted to integer", value)
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q cannot be converted to integer", s)
	}
	if i > math.MaxInt || i < math.MinInt {
		return nil, fmt.Errorf("value %d overflows integer", i)
	}
	return int(i), nil
}

func castToNumber(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("value of type %T cannot be converted to number", value)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("value %q cannot be converted to number", s)
	}
	return f, nil
}

func castToBoolean(value any) (any, error) {
	if s, ok := value.(string); ok {
		b, err := parseBool(s)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	if i, ok := toInt(value); ok && (i == 0 || i == 1) {
		return i == 1, nil
	}
	return nil, fmt.Errorf("value of type %T cannot be converted to boolean", value)
}

// parseBool parses the common boolean representations:
//   - "true", "1", "yes", "y", "on" (case insensitive)
//   - "false", "0", "no", "n", "off" (case insensitive)
func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("value %q cannot be converted to boolean", value)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Field assignment (used by Values.Bind)
///////////////////////////////////////////////////////////////////////////////

// setFieldValue assigns a prepared value to a struct field.
//
// Assignable and convertible values are set directly; strings fall back to
// text parsing (TextUnmarshaler, uuid.UUID, time.Time and scalar kinds);
// slices are converted element by element.
func setFieldValue(field reflect.Value, value any) error {
	if value == nil {
		field.SetZero()
		return nil
	}

	rv := reflect.ValueOf(value)
	ft := field.Type()

	if rv.Type().AssignableTo(ft) {
		field.Set(rv)
		return nil
	}

	if ft.Kind() == reflect.Ptr {
		elem := reflect.New(ft.Elem())
		if err := setFieldValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if isNumericKind(rv.Kind()) && isNumericKind(ft.Kind()) {
		return setNumericValue(field, value)
	}

	if s, ok := value.(string); ok {
		return setFieldFromString(field, s)
	}

	if ft.Kind() == reflect.Slice {
		if items, ok := toSlice(value); ok {
			out := reflect.MakeSlice(ft, len(items), len(items))
			for i, item := range items {
				if err := setFieldValue(out.Index(i), item); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
			}
			field.Set(out)
			return nil
		}
	}

	if rv.Type().ConvertibleTo(ft) && rv.Kind() == ft.Kind() {
		field.Set(rv.Convert(ft))
		return nil
	}

	return fmt.Errorf("cannot assign %T to field of type %s", value, ft)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// setNumericValue sets numeric fields with overflow checking
func setNumericValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f, _ := toFloat(value)
		if field.OverflowFloat(f) {
			return fmt.Errorf("value %v overflows %s", f, field.Type().Name())
		}
		field.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := toInt(value)
		if !ok {
			return fmt.Errorf("value %v is not an integer", value)
		}
		if field.OverflowInt(int64(i)) {
			return fmt.Errorf("value %d overflows %s", i, field.Type().Name())
		}
		field.SetInt(int64(i))
	default:
		i, ok := toInt(value)
		if !ok || i < 0 {
			return fmt.Errorf("value %v is not an unsigned integer", value)
		}
		if field.OverflowUint(uint64(i)) {
			return fmt.Errorf("value %d overflows %s", i, field.Type().Name())
		}
		field.SetUint(uint64(i))
	}
	return nil
}

// setFieldFromString parses a string into the field's type
func setFieldFromString(field reflect.Value, value string) error {
	if field.CanAddr() {
		if unmarshaler, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return unmarshaler.UnmarshalText([]byte(value))
		}
	}

	switch field.Type() {
	case UUIDType:
		id, err := uuid.Parse(value)
		if err != nil {
			return fmt.Errorf("error converting value to UUID: %w", err)
		}
		field.Set(reflect.ValueOf(id))
		return nil
	case TimeType:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("error converting value to time.Time: %w", err)
		}
		field.Set(reflect.ValueOf(t))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting value to int: %w", err)
		}
		if field.OverflowInt(i) {
			return fmt.Errorf("value %d overflows %s", i, field.Type().Name())
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting value to uint: %w", err)
		}
		if field.OverflowUint(u) {
			return fmt.Errorf("value %d overflows %s", u, field.Type().Name())
		}
		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("error converting value to float: %w", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		field.SetBytes([]byte(value))
	case reflect.Interface:
		if field.NumMethod() != 0 {
			return fmt.Errorf("cannot set value for interface with methods: %s", field.Type())
		}
		field.Set(reflect.ValueOf(value))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
	return nil
}
