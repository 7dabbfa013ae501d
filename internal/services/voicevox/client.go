package voicevox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	backendName      = "voicevox"
	defaultTimeout   = 120 * time.Second
	errorBodyLimit   = 512
	contentTypeJSON  = "application/json"
	audioQueryPath   = "/audio_query"
	synthesisPath    = "/synthesis"
	versionPath      = "/version"
	speakerParameter = "speaker"
)

// HTTPDoer describes the HTTP client used to reach the engine.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a VOICEVOX engine over its HTTP API.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.client = &http.Client{Timeout: d}
		}
	}
}

// New constructs a client for the engine at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError reports a non-200 answer from one of the engine endpoints.
type StatusError struct {
	Step       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("voicevox %s returned %d", e.Step, e.StatusCode)
	}
	return fmt.Sprintf("voicevox %s returned %d: %s", e.Step, e.StatusCode, e.Body)
}

func (c *Client) Name() string { return backendName }

// Synthesize runs the two-step protocol: audio_query builds synthesis
// parameters for the text, then synthesis renders them to WAV bytes. The voice
// is the engine's numeric speaker (style) id.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	speaker := strings.TrimSpace(voice)
	if speaker == "" {
		return nil, fmt.Errorf("voicevox: speaker id is empty")
	}

	query, err := c.audioQuery(ctx, text, speaker)
	if err != nil {
		return nil, err
	}
	return c.synthesis(ctx, query, speaker)
}

func (c *Client) audioQuery(ctx context.Context, text, speaker string) ([]byte, error) {
	params := url.Values{}
	params.Set(speakerParameter, speaker)
	params.Set("text", text)
	endpoint := c.baseURL + audioQueryPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build voicevox audio_query request: %w", err)
	}
	body, err := c.do(req, "audio_query")
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("voicevox audio_query returned invalid json")
	}
	return body, nil
}

func (c *Client) synthesis(ctx context.Context, query []byte, speaker string) ([]byte, error) {
	params := url.Values{}
	params.Set(speakerParameter, speaker)
	endpoint := c.baseURL + synthesisPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("build voicevox synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", "audio/wav")
	return c.do(req, "synthesis")
}

// HealthCheck returns the engine version reported by GET /version.
func (c *Client) HealthCheck(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+versionPath, nil)
	if err != nil {
		return "", fmt.Errorf("build voicevox version request: %w", err)
	}
	body, err := c.do(req, "version")
	if err != nil {
		return "", err
	}
	var version string
	if err := json.Unmarshal(body, &version); err != nil {
		return strings.TrimSpace(string(body)), nil
	}
	return version, nil
}

func (c *Client) do(req *http.Request, step string) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voicevox %s: %w", step, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &StatusError{
			Step:       step,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read voicevox %s response: %w", step, err)
	}
	return body, nil
}
