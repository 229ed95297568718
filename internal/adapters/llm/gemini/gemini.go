// Package gemini is a single shot client for the Gemini generateContent REST endpoint
package gemini

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

	perr "astrochat/internal/platform/errors"
)

const (
	// DefaultBaseURL is the public Generative Language API root
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is the model readings are generated with
	DefaultModel = "gemini-1.5-flash"

	defaultTimeout = 15 * time.Second
	maxErrBody     = 4 << 10
)

// ErrNoAPIKey is returned by New when no key is configured
var ErrNoAPIKey = errors.New("gemini: api key is required")

// Options configures the client
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls generateContent; one request, no retries
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type request struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature    float64 `json:"temperature,omitempty"`
	CandidateCount int     `json:"candidateCount,omitempty"`
}

type response struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// New builds a client, filling defaults for model, base URL and timeout
func New(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, ErrNoAPIKey
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	hc := opts.HTTPClient
	if hc == nil {
		to := opts.Timeout
		if to <= 0 {
			to = defaultTimeout
		}
		hc = &http.Client{Timeout: to}
	}
	return &Client{apiKey: key, model: model, baseURL: base, client: hc}, nil
}

// Model returns the configured model name
func (c *Client) Model() string { return c.model }

// Generate sends prompt and returns the first non-empty text part of the first candidate
// Failures are perr Unavailable; the cause stays in the chain for logs only
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{CandidateCount: 1},
	})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "gemini: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "gemini: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "gemini: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return "", perr.Wrap(statusError(resp.StatusCode, raw), perr.ErrorCodeUnavailable, "gemini: upstream error")
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "gemini: decode response")
	}
	text := extractText(out)
	if text == "" {
		reason := "no candidates"
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			reason = "blocked: " + out.PromptFeedback.BlockReason
		}
		return "", perr.Newf(perr.ErrorCodeUnavailable, "gemini: empty response (%s)", reason)
	}
	return text, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func extractText(r response) string {
	for _, cand := range r.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			return s
		}
	}
	return ""
}

func statusError(code int, raw []byte) error {
	var ae apiError
	if json.Unmarshal(raw, &ae) == nil && ae.Error.Message != "" {
		return fmt.Errorf("status %d %s: %s", code, ae.Error.Status, ae.Error.Message)
	}
	return fmt.Errorf("status %d: %s", code, strings.TrimSpace(string(raw)))
}
