package params

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestExtractors(t *testing.T) {
	t.Run("Query", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?a=1&b=x&b=y", nil)
		got, err := NewQueryContext().Extract(r, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": "1", "b": []any{"x", "y"}}, got)
	})

	t.Run("Path", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/users/7", nil)
		r.SetPathValue("id", "7")
		got, err := NewPathContext().Extract(r, []string{"id", "missing"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": "7"}, got)
	})

	t.Run("PathThroughServeMux", func(t *testing.T) {
		list := NewParameterList("user", ParameterListOpts{Context: NewPathContext()})
		list.AddInteger("id", true).SetMinimum(1)

		var got any
		mux := http.NewServeMux()
		mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
			values, err := list.PrepareRequest(r, true)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			got = values.MustPrepared("id")
		})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/12", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 12, got)

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/0", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "There were 1 validation errors")
	})

	t.Run("Header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Limit", "5")
		r.Header.Add("X-Tag", "a")
		r.Header.Add("X-Tag", "b")
		r.Header.Set("Accept", "*/*")

		got, err := NewHeaderContext().Extract(r, []string{"X-Limit", "x-tag", "X-Missing"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"X-Limit": "5", "x-tag": []any{"a", "b"}}, got)
	})

	t.Run("Body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a": "b"}`))
		r.Header.Set("Content-Type", ContentTypeApplicationJSON)
		got, err := NewBodyContext().Extract(r, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": "b"}, got)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		got, err := NewBodyContext().Extract(r, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("BodyWithoutContentType", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a": "b"}`))
		_, err := NewBodyContext().Extract(r, nil)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	})
}
