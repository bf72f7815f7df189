package params

import (
	"fmt"
	"io"
	"net/http"

	"github.com/elnormous/contenttype"
)

var (
	jsonMediaType = contenttype.NewMediaType(ContentTypeApplicationJSON)

	_ RequestExtractor = (*QueryContext)(nil)
	_ RequestExtractor = (*PathContext)(nil)
	_ RequestExtractor = (*HeaderContext)(nil)
	_ RequestExtractor = (*BodyContext)(nil)
)

// RequestExtractor is implemented by contexts that can read their raw
// values straight from an HTTP request. declared holds the names of the
// parameters in the list, for sources that can only be read by key.
type RequestExtractor interface {
	Extract(r *http.Request, declared []string) (map[string]any, error)
}

// Extract reads every query parameter of r.
func (qc *QueryContext) Extract(r *http.Request, _ []string) (map[string]any, error) {
	return flattenMultiValues(r.URL.Query()), nil
}

// Extract reads the declared names from the path wildcards of r, as
// matched by http.ServeMux. Empty segments count as absent.
func (pc *PathContext) Extract(r *http.Request, declared []string) (map[string]any, error) {
	out := make(map[string]any, len(declared))
	for _, name := range declared {
		if value := r.PathValue(name); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Extract reads the declared names from the headers of r. Only declared
// headers are returned since every request carries transport headers.
func (hc *HeaderContext) Extract(r *http.Request, declared []string) (map[string]any, error) {
	out := make(map[string]any, len(declared))
	for _, name := range declared {
		values := r.Header.Values(name)
		switch len(values) {
		case 0:
		case 1:
			out[name] = values[0]
		default:
			items := make([]any, len(values))
			for i, v := range values {
				items[i] = v
			}
			out[name] = items
		}
	}
	return out, nil
}

// Extract reads the JSON object in the body of r. A request without a body
// has no values; any other content type is rejected.
func (bc *BodyContext) Extract(r *http.Request, _ []string) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading request body: %w", err)
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	ctype, err := contenttype.GetMediaType(r)
	if err != nil || !ctype.Matches(jsonMediaType) {
		return nil, fmt.Errorf("%w: expected %s", ErrUnsupportedMediaType, ContentTypeApplicationJSON)
	}

	return parseJSONObject(data)
}
