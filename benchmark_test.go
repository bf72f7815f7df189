package params

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func benchmarkSearchList() *ParameterList {
	list := NewParameterList("search", ParameterListOpts{Context: NewQueryContext()})
	list.AddInteger("limit", false).SetMinimum(1).SetMaximum(100).SetDefault(10)
	list.AddInteger("offset", false).SetMinimum(0)
	list.AddCSV("tags", false, ",")
	list.AddUUID("owner", false)
	list.AddDate("from", false)
	list.AddDate("to", false).AddPreparationStep(MustBeAfter("from"))
	list.AddString("q", true).SetMaxLength(64)
	return list
}

// BenchmarkParameterList_PrepareRequest measures a full query string pass
func BenchmarkParameterList_PrepareRequest(b *testing.B) {
	list := benchmarkSearchList()
	req := httptest.NewRequest(http.MethodGet,
		"/search?q=go&limit=20&offset=40&tags=a,b,c&owner=123e4567-e89b-12d3-a456-426614174000&from=2024-01-01&to=2024-02-01",
		nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := list.PrepareRequest(req, true); err != nil {
			b.Fatalf("Failed to prepare: %v", err)
		}
	}
}

// BenchmarkParameterList_PrepareErrors measures a pass where every parameter fails
func BenchmarkParameterList_PrepareErrors(b *testing.B) {
	list := benchmarkSearchList()
	raw := map[string]any{
		"limit":  "500",
		"offset": "-1",
		"owner":  "nope",
		"from":   "2024-02-30",
		"extra":  "x",
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := list.Prepare(raw); err == nil {
			b.Fatal("expected validation errors")
		}
	}
}

// BenchmarkBodyContext_Extract measures JSON body extraction
func BenchmarkBodyContext_Extract(b *testing.B) {
	body := `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "John Doe", "email": "john@example.com", "age": 30}`
	ctx := NewBodyContext()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", ContentTypeApplicationJSON)
		if _, err := ctx.Extract(req, nil); err != nil {
			b.Fatalf("Failed to extract: %v", err)
		}
	}
}
