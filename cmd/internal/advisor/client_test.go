package advisor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstreamResponse(text string) generateResponse {
	var resp generateResponse
	resp.Candidates = []struct {
		Content generateContent `json:"content"`
	}{
		{Content: generateContent{Parts: []generatePart{{Text: text}}}},
	}
	return resp
}

func TestClient_Generate(t *testing.T) {
	var gotKey string
	var gotReq generateRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(upstreamResponse("Rotate your crops."))
	}))
	defer ts.Close()

	c, err := NewClient(Config{URL: ts.URL, APIKey: "test-key", Timeout: 5 * time.Second})
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "How do I keep soil healthy?")
	require.NoError(t, err)
	assert.Equal(t, "Rotate your crops.", text)
	assert.Equal(t, "test-key", gotKey, "API key travels as a query parameter")

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "How do I keep soil healthy?", gotReq.Contents[0].Parts[0].Text)
}

func TestClient_Generate_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c, err := NewClient(Config{URL: ts.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no candidates", body: `{"candidates": []}`},
		{name: "no parts", body: `{"candidates": [{"content": {"parts": []}}]}`},
		{name: "empty text", body: `{"candidates": [{"content": {"parts": [{"text": ""}]}}]}`},
		{name: "not json", body: `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c, err := NewClient(Config{URL: ts.URL})
			require.NoError(t, err)

			_, err = c.Generate(context.Background(), "hello")
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestClient_Generate_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client going away,
		// then wait for cancellation with a hard upper bound.
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	c, err := NewClient(Config{URL: ts.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = c.Generate(ctx, "hello")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must not wait for the upstream")
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{URL: "   "})
	assert.Error(t, err)
}

func TestEndpointURL_NoKey(t *testing.T) {
	c, err := NewClient(Config{URL: "https://example.com/v1/generate"})
	require.NoError(t, err)

	u, err := c.endpointURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1/generate", u, "no key query parameter without an API key")
}
