package unsplash

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "total": 1,
  "total_pages": 1,
  "results": [{
    "id": "abc",
    "description": null,
    "alt_description": "ink brush on paper",
    "urls": {"thumb": "https://images.example/thumb", "regular": "https://images.example/regular"},
    "links": {"download_location": "%s/photos/abc/download?ixid=1"},
    "user": {"name": "Jane", "links": {"html": "https://unsplash.com/@jane"}}
  }]
}`

func TestSearchAndTrack(t *testing.T) {
	var tracked bool
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/search/photos":
			assert.Equal(t, "brush", r.URL.Query().Get("query"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = fmt.Fprintf(w, searchBody, srv.URL)
		case "/photos/abc/download":
			tracked = true
			_, _ = w.Write([]byte(`{"url":"x"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient("key")
	c.BaseURL = srv.URL

	res, err := c.Search(context.Background(), "brush", 2)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	p := res.Results[0]
	assert.Equal(t, "ink brush on paper", p.Description)
	assert.Equal(t, "Jane", p.Author)
	assert.Equal(t, "https://unsplash.com/@jane", p.AuthorURL)

	require.NoError(t, c.TrackDownload(context.Background(), p))
	assert.True(t, tracked)

	_, err = c.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNotConfigured(t *testing.T) {
	_, err := NewClient("").Search(context.Background(), "x", 1)
	assert.Error(t, err)
}
