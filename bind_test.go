package params

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindFilter struct {
	Name string `param:"name"`
	Age  int    `param:"age"`
}

type bindSearch struct {
	Limit   int        `param:"limit"`
	Ratio   float32    `param:"ratio"`
	Tags    []string   `param:"tags"`
	Owner   uuid.UUID  `param:"owner"`
	Since   time.Time  `param:"since"`
	Filter  bindFilter `param:"filter"`
	Verbose *bool      `param:"verbose"`
	Ignored string     `param:"-"`
	Untyped string
}

func TestValues_Bind(t *testing.T) {
	list := NewParameterList("search", ParameterListOpts{})
	list.AddInteger("limit", false).SetDefault(10)
	list.AddNumber("ratio", false)
	list.AddArray("tags", false).AddAllowedItem(NewString(""))
	list.AddUUID("owner", true)
	list.AddDate("since", true)
	list.AddObject("filter", false).AddProperty(NewString("name"), NewInteger("age"))
	list.AddBoolean("verbose", false)

	values, err := list.PrepareNonStrict(map[string]any{
		"ratio":   0.5,
		"tags":    []any{"a", "b"},
		"owner":   "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"since":   "2017-03-04",
		"filter":  map[string]any{"name": "ada", "age": 36},
		"verbose": true,
		"Untyped": "x",
	})
	require.NoError(t, err)

	dest := bindSearch{Ignored: "keep", Untyped: "keep"}
	require.NoError(t, values.Bind(&dest))

	assert.Equal(t, 10, dest.Limit)
	assert.Equal(t, float32(0.5), dest.Ratio)
	assert.Equal(t, []string{"a", "b"}, dest.Tags)
	assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), dest.Owner)
	assert.Equal(t, time.Date(2017, 3, 4, 0, 0, 0, 0, time.UTC), dest.Since)
	assert.Equal(t, bindFilter{Name: "ada", Age: 36}, dest.Filter)
	require.NotNil(t, dest.Verbose)
	assert.True(t, *dest.Verbose)
	assert.Equal(t, "keep", dest.Ignored)
	assert.Equal(t, "keep", dest.Untyped)
}

func TestValues_Bind_Errors(t *testing.T) {
	values := NewValues(nil, nil)
	values.setPrepared("limit", "ten")

	t.Run("InvalidDestination", func(t *testing.T) {
		var nilSearch *bindSearch
		n := 1
		for _, dest := range []any{bindSearch{}, nilSearch, &n, nil} {
			assert.ErrorIs(t, values.Bind(dest), ErrInvalidDestination)
		}
	})

	t.Run("ConversionFailure", func(t *testing.T) {
		var dest bindSearch
		err := values.Bind(&dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error binding limit")
	})

	t.Run("EmptyTagName", func(t *testing.T) {
		var dest struct {
			Limit int `param:""`
		}
		assert.ErrorIs(t, values.Bind(&dest), ErrInvalidBindTag)
	})

	t.Run("MissingValuesLeaveFields", func(t *testing.T) {
		dest := bindFilter{Name: "unchanged"}
		require.NoError(t, NewValues(nil, nil).Bind(&dest))
		assert.Equal(t, "unchanged", dest.Name)
	})
}
