package params

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Custom type that implements TextUnmarshaler
type CustomTextType struct {
	Value string
}

func (c *CustomTextType) UnmarshalText(text []byte) error {
	if string(text) == "error" {
		return errors.New("custom error")
	}
	c.Value = "custom:" + string(text)
	return nil
}

// Helper function to create a reflect.Value from any type
func valueFromInterface(v any) reflect.Value {
	return reflect.ValueOf(v).Elem()
}

func TestSetFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		value   any
		want    any
		wantErr bool
	}{
		// Strings
		{"string_basic", ptr(""), "hello", "hello", false},
		{"string_empty", ptr(""), "", "", false},

		// Integers from strings
		{"int_from_string", ptr(int(0)), "42", int(42), false},
		{"int8_overflow", ptr(int8(0)), "128", int8(0), true},
		{"int_invalid", ptr(int(0)), "abc", int(0), true},
		{"uint_from_string", ptr(uint(0)), "42", uint(42), false},
		{"uint8_overflow", ptr(uint8(0)), "256", uint8(0), true},

		// Numeric conversions
		{"int_to_int32", ptr(int32(0)), 42, int32(42), false},
		{"int_to_int8_overflow", ptr(int8(0)), 300, int8(0), true},
		{"float_to_int", ptr(int(0)), 3.0, int(3), false},
		{"fraction_to_int", ptr(int(0)), 3.5, int(0), true},
		{"int_to_float32", ptr(float32(0)), 2, float32(2), false},
		{"float_to_float32_overflow", ptr(float32(0)), 1e300, float32(0), true},
		{"int_to_uint16", ptr(uint16(0)), 65535, uint16(65535), false},
		{"negative_to_uint", ptr(uint(0)), -1, uint(0), true},

		// Floats from strings
		{"float32_from_string", ptr(float32(0)), "3.14", float32(3.14), false},
		{"float32_overflow", ptr(float32(0)), "3.4028235e+39", float32(0), true},

		// Booleans
		{"bool_direct", ptr(false), true, true, false},
		{"bool_yes", ptr(false), "yes", true, false},
		{"bool_off", ptr(true), "off", false, false},
		{"bool_invalid", ptr(false), "maybe", false, true},

		// Slices
		{"bytes_from_string", ptr([]byte{}), "hello", []byte("hello"), false},
		{"strings_from_items", ptr([]string{}), []any{"a", "b"}, []string{"a", "b"}, false},
		{"ints_from_items", ptr([]int{}), []any{1, 2.0}, []int{1, 2}, false},
		{"ints_from_bad_items", ptr([]int{}), []any{1, "x"}, []int{}, true},

		// Pointers
		{"pointer_int", ptr((*int)(nil)), 5, ptr(5), false},

		// UUID and time
		{"uuid_valid", ptr(uuid.UUID{}), "550e8400-e29b-41d4-a716-446655440000", uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), false},
		{"uuid_invalid", ptr(uuid.UUID{}), "invalid-uuid", uuid.UUID{}, true},
		{"time_rfc3339", ptr(time.Time{}), "2023-01-01T00:00:00Z", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"time_invalid", ptr(time.Time{}), "invalid-time", time.Time{}, true},
		{"time_direct", ptr(time.Time{}), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},

		// Interfaces
		{"interface_empty", ptr(any(nil)), "hello", "hello", false},

		// TextUnmarshaler
		{"custom_text_unmarshaler", ptr(CustomTextType{}), "test", CustomTextType{Value: "custom:test"}, false},
		{"custom_text_error", ptr(CustomTextType{}), "error", CustomTextType{}, true},

		// Unsupported
		{"map_to_int", ptr(int(0)), map[string]any{}, int(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := valueFromInterface(tt.field)
			err := setFieldValue(field, tt.value)

			if (err != nil) != tt.wantErr {
				t.Errorf("setFieldValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				got := field.Interface()
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("setFieldValue() got = %v, want %v", got, tt.want)
				}
			}
		})
	}

	t.Run("nil_resets_field", func(t *testing.T) {
		s := "set"
		require.NoError(t, setFieldValue(reflect.ValueOf(&s).Elem(), nil))
		assert.Empty(t, s)
	})
}

func TestCastValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		value   any
		want    any
		wantErr bool
	}{
		{"nil", TypeInteger, nil, nil, false},
		{"shaped_is_unchanged", TypeInteger, 3.0, 3.0, false},

		{"int_to_string", TypeString, 5, "5", false},
		{"float_to_string", TypeString, 1.5, "1.5", false},
		{"bool_to_string", TypeString, true, "true", false},
		{"slice_to_string", TypeString, []any{1}, nil, true},

		{"string_to_integer", TypeInteger, "42", 42, false},
		{"padded_string_to_integer", TypeInteger, " 7 ", 7, false},
		{"fraction_string_to_integer", TypeInteger, "4.5", nil, true},
		{"bool_to_integer", TypeInteger, true, nil, true},

		{"string_to_number", TypeNumber, "1.5", 1.5, false},
		{"bad_string_to_number", TypeNumber, "x", nil, true},

		{"string_to_boolean", TypeBoolean, "yes", true, false},
		{"zero_to_boolean", TypeBoolean, 0, false, false},
		{"two_to_boolean", TypeBoolean, 2, nil, true},

		{"scalar_to_array", TypeArray, "x", []any{"x"}, false},
		{"string_to_object", TypeObject, "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := castValue(tt.typ, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShapeHelpers(t *testing.T) {
	t.Run("ToInt", func(t *testing.T) {
		for _, v := range []any{3, int8(3), uint16(3), 3.0, float32(3), json.Number("3")} {
			i, ok := toInt(v)
			assert.True(t, ok, "%T", v)
			assert.Equal(t, 3, i)
		}
		for _, v := range []any{nil, 3.5, "3", true, uint64(math.MaxUint64), math.Inf(1), float64(1 << 63), json.Number("3.5")} {
			_, ok := toInt(v)
			assert.False(t, ok, "%T %v", v, v)
		}
	})

	t.Run("ToFloat", func(t *testing.T) {
		for _, v := range []any{1.5, float32(1.5), json.Number("1.5")} {
			f, ok := toFloat(v)
			assert.True(t, ok)
			assert.Equal(t, 1.5, f)
		}
		for _, v := range []any{nil, "1.5", true, []any{}} {
			_, ok := toFloat(v)
			assert.False(t, ok)
		}
	})

	t.Run("ToSlice", func(t *testing.T) {
		got, ok := toSlice([]string{"a", "b"})
		assert.True(t, ok)
		assert.Equal(t, []any{"a", "b"}, got)

		got, ok = toSlice([2]int{1, 2})
		assert.True(t, ok)
		assert.Equal(t, []any{1, 2}, got)

		_, ok = toSlice("ab")
		assert.False(t, ok)
	})

	t.Run("ToMap", func(t *testing.T) {
		got, ok := toMap(map[string]int{"a": 1})
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"a": 1}, got)

		_, ok = toMap(map[int]int{1: 1})
		assert.False(t, ok)
	})

	t.Run("IsShape", func(t *testing.T) {
		assert.True(t, isShape(TypeInteger, 2.0))
		assert.False(t, isShape(TypeInteger, 2.5))
		assert.True(t, isShape(TypeNumber, 2))
		assert.False(t, isShape(TypeBoolean, "true"))
		assert.True(t, isShape(TypeObject, map[string]string{}))
		assert.False(t, isShape(Type("tuple"), []any{}))
	})
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    bool
		wantErr bool
	}{
		// True values
		{"true_lowercase", "true", true, false},
		{"true_uppercase", "TRUE", true, false},
		{"one", "1", true, false},
		{"yes", "yes", true, false},
		{"y", "Y", true, false},
		{"on_padded", " on ", true, false},

		// False values
		{"false_mixed", "False", false, false},
		{"zero", "0", false, false},
		{"no", "NO", false, false},
		{"n", "n", false, false},
		{"off", "off", false, false},

		// Invalid values
		{"invalid", "maybe", false, true},
		{"empty", "", false, true},
		{"t", "t", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBool(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseBool() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseBool() got = %v, want %v", got, tt.want)
			}
		})
	}
}

// Helper function to get pointer to value
func ptr[T any](v T) *T {
	return &v
}
