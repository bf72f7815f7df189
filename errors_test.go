package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing", &MissingParameterError{Parameter: "name"}, "Missing required parameter: name"},
		{"invalid", newInvalidValueError("age", "x", "", "a", "b"), "Invalid value for parameter age: a; b"},
		{"undefined_one", &UndefinedParametersError{Names: []string{"x"}}, "Undefined parameter: x"},
		{"undefined_many", &UndefinedParametersError{Names: []string{"x", "y"}}, "Undefined parameters: x, y"},
		{"parameter_error", ParameterError{Kind: KindInvalid, Parameter: "p", Message: "bad"}, "p: bad"},
		{"parameter_error_no_name", ParameterError{Kind: KindInvalid, Message: "bad"}, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAggregateError(t *testing.T) {
	missing := &MissingParameterError{Parameter: "name"}
	invalid := newInvalidValueError("age", "x", "", "value must be an integer", "value must be at least 1")
	undefined := &UndefinedParametersError{Names: []string{"extra"}}
	plain := errors.New("something else")

	agg := NewAggregateError(undefined, nil, missing, invalid, plain)

	t.Run("Order", func(t *testing.T) {
		require.Equal(t, 4, agg.Len())
		assert.Equal(t, []error{undefined, missing, invalid, plain}, agg.Errors())
	})

	t.Run("Unwrap", func(t *testing.T) {
		assert.ErrorIs(t, agg, plain)

		var target *InvalidValueError
		require.ErrorAs(t, agg, &target)
		assert.Equal(t, "age", target.Parameter)

		wrapped := fmt.Errorf("request failed: %w", agg)
		assert.True(t, IsValidationError(wrapped))
	})

	t.Run("ParameterErrors", func(t *testing.T) {
		assert.Equal(t, []ParameterError{
			{Kind: KindUndefined, Parameter: "extra", Message: "parameter is not defined"},
			{Kind: KindMissing, Parameter: "name", Message: "parameter is required"},
			{Kind: KindInvalid, Parameter: "age", Message: "value must be an integer"},
			{Kind: KindInvalid, Parameter: "age", Message: "value must be at least 1"},
			{Kind: KindInvalid, Message: "something else"},
		}, agg.ParameterErrors())
	})

	t.Run("Message", func(t *testing.T) {
		assert.Equal(t, "There were 4 validation errors", agg.Summary())
		assert.Equal(t,
			"There were 4 validation errors: Undefined parameter: extra; Missing required parameter: name; "+
				"Invalid value for parameter age: value must be an integer; value must be at least 1; something else",
			agg.Error(),
		)
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(NewAggregateError(missing))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"message": "There were 1 validation errors",
			"errors": [{"kind": "missing", "parameter": "name", "message": "parameter is required"}]
		}`, string(data))
	})

	t.Run("ErrorsIsACopy", func(t *testing.T) {
		errs := agg.Errors()
		errs[0] = nil
		assert.Equal(t, undefined, agg.Errors()[0])
	})
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{List: "search", Names: []string{"a", "b"}, Err: ErrCircularDependency}

	assert.Equal(t, `invalid parameter list "search": circular dependency between parameters (a, b)`, err.Error())
	assert.ErrorIs(t, err, ErrCircularDependency)
	assert.True(t, IsConfigurationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(err))

	assert.False(t, IsConfigurationError(&MissingParameterError{Parameter: "x"}))
	assert.True(t, IsValidationError(&MissingParameterError{Parameter: "x"}))
	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(errors.New("plain")))
}
