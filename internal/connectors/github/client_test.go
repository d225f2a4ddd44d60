package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/repodoc/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gh := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = baseURL

	return &Client{
		client:  gh,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  arbor.NewLogger(),
	}
}

func TestGetFileContent_DecodesBase64(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"file","name":"README.md","path":"README.md","encoding":"base64","content":"aGVsbG8gd29ybGQ="}`))
	})
	client := newTestClient(t, mux)

	content, err := client.GetFileContent(context.Background(), "acme", "widget", "README.md", "main")
	require.NoError(t, err)
	assert.Equal(t, "hello world", content)
}

func TestGetFileContent_HandlesUnencodedContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/contents/notes.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"file","name":"notes.txt","path":"notes.txt","encoding":"","content":"plain text"}`))
	})
	client := newTestClient(t, mux)

	content, err := client.GetFileContent(context.Background(), "acme", "widget", "notes.txt", "main")
	require.NoError(t, err)
	assert.Equal(t, "plain text", content)
}

func TestGetFileContent_MissingFile(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.GetFileContent(context.Background(), "acme", "widget", "gone.txt", "main")
	require.ErrorIs(t, err, models.ErrNotFound)
}
