package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/search"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>news</title>
<item><title>Regulators probe Acme - Financial Times</title><link>https://www.ft.com/content/1</link>
<pubDate>Sun, 02 Nov 2025 08:00:00 GMT</pubDate><description>Acme faces a probe.</description></item>
<item><title>Old story - Reuters</title><link>https://www.reuters.com/x</link>
<pubDate>Mon, 01 Sep 2025 08:00:00 GMT</pubDate></item>
</channel></rss>`

func TestClient_Search(t *testing.T) {
	var gotQuery, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("hl")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/rss?q=%s&hl=%s", "fr")
	resp, err := c.Search(context.Background(), &search.Request{
		Query:     `"Acme" (probe)`,
		StartDate: "2025-10-27",
		EndDate:   "2025-11-03",
	})
	require.NoError(t, err)

	assert.Equal(t, `"Acme" (probe)`, gotQuery)
	assert.Equal(t, "fr", gotLang)
	require.Len(t, resp.Results, 1)
	r := resp.Results[0]
	assert.Equal(t, "Regulators probe Acme", r.Title)
	assert.Equal(t, "Financial Times", r.Outlet)
	assert.Equal(t, "2025-11-02", r.PublishedDate)
	assert.Equal(t, "fr", r.Language)
}

func TestClient_SearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL+"?q=%s", "").Search(context.Background(), &search.Request{Query: "x"})
	assert.Error(t, err)
}
