package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "news", r.URL.Query().Get("categories"))
		assert.Equal(t, "de", r.URL.Query().Get("language"))
		_, _ = w.Write([]byte(`{"results":[
			{"title":"new","url":"https://www.reuters.com/a","publishedDate":"2025-11-02T10:00:00"},
			{"title":"old","url":"https://www.reuters.com/b","publishedDate":"2025-09-01T10:00:00"},
			{"title":"undated","url":"https://example.org/c"}
		]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 5).Search(context.Background(), &search.Request{
		Query:     "q",
		StartDate: "2025-10-27",
		Language:  "de",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "new", resp.Results[0].Title)
	assert.Equal(t, "2025-11-02", resp.Results[0].PublishedDate)
	assert.Equal(t, "reuters.com", resp.Results[0].Outlet)
	assert.Equal(t, "undated", resp.Results[1].Title)
}
