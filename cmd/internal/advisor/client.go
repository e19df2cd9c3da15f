// Package advisor proxies free-form agronomy questions to a third-party
// generative-text API. The upstream is consumed as a black box through a
// documented request/response contract; prompt design is out of scope.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUpstream indicates the text-generation endpoint answered with a
	// non-success status.
	ErrUpstream = errors.New("advisor: upstream error")

	// ErrEmptyResponse indicates a success status whose body carried no
	// generated text.
	ErrEmptyResponse = errors.New("advisor: empty upstream response")
)

// Generator produces text for a prompt. The HTTP handler depends on this
// interface so tests can substitute the upstream.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config locates the generateContent-style endpoint. APIKey is runtime
// configuration, never a compile-time constant.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client calls a generateContent-shaped endpoint: the request wraps the
// prompt in contents[].parts[].text, the response nests the generated text
// in candidates[0].content.parts[0].text.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client from config.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("advisor: missing endpoint URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt upstream and extracts the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint, err := c.endpointURL()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Bounded read: upstream error bodies are informative but untrusted.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// endpointURL appends the API key as a query parameter, the authentication
// scheme this upstream uses.
func (c *Client) endpointURL() (string, error) {
	if c.apiKey == "" {
		return c.url, nil
	}
	u, err := url.Parse(c.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
