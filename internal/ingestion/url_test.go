package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
<nav>Careers home</nav>
<h1>Backend Engineer</h1>
<p>Requirements</p>
<ul><li>5+ years of Go</li><li>Kafka experience</li></ul>
<footer>Privacy policy</footer>
</body></html>`))
	}))
	defer server.Close()

	doc, meta, err := IngestFromURL(context.Background(), server.URL+"/jobs/42", URLOptions{})
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "Backend Engineer")
	assert.Contains(t, doc.Text, "- 5+ years of Go")
	assert.NotContains(t, doc.Text, "Careers home")
	assert.NotContains(t, doc.Text, "Privacy policy")

	assert.Equal(t, server.URL+"/jobs/42", meta.URL)
	assert.Equal(t, FormatHTML, meta.Format)
	assert.Equal(t, "unknown", meta.Platform)
	assert.Equal(t, ComputeHash(doc.Text), meta.Hash)
}

func TestIngestFromURL_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gone":
			http.Error(w, "gone", http.StatusGone)
		default:
			_, _ = w.Write([]byte(`<html><body><nav>Only navigation</nav></body></html>`))
		}
	}))
	defer server.Close()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "http error status", url: server.URL + "/gone", wantErr: ErrHTTPRequestFailed},
		{name: "invalid url", url: "not a url", wantErr: ErrHTTPRequestFailed},
		{name: "no content", url: server.URL + "/empty", wantErr: ErrContentExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, meta, err := IngestFromURL(context.Background(), tt.url, URLOptions{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, doc)
			assert.Nil(t, meta)
		})
	}
}
