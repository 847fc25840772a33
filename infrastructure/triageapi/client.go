package triageapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"photo-triage/pkg/triage"
)

// DefaultMaxBatch matches the server's default TRIAGE_MAX_BATCH_SIZE.
const DefaultMaxBatch = 500

// Client talks to the photo triage HTTP API on behalf of a reviewer.
// It implements triage.Persister, so a Store can write through it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBatch   int

	mu    sync.RWMutex
	token string
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("triage API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("triage API error (status %d): %s", e.StatusCode, e.Message)
}

// Retryable marks server-side and throttling failures as transient.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type accessResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type photoList struct {
	Photos []triage.Photo `json:"photos"`
}

// Stats mirrors the server's gallery counts.
type Stats struct {
	Total       int64 `json:"total"`
	Selected    int64 `json:"selected"`
	Rejected    int64 `json:"rejected"`
	Untouched   int64 `json:"untouched"`
	Highlighted int64 `json:"highlighted"`
}

type batchResponse struct {
	Updated int64 `json:"updated"`
	Stats   Stats `json:"stats"`
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		maxBatch: DefaultMaxBatch,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetMaxBatch caps how many ids go into one write request. It should not
// exceed the server's batch limit. n <= 0 restores the default.
func (c *Client) SetMaxBatch(n int) {
	if n <= 0 {
		n = DefaultMaxBatch
	}
	c.maxBatch = n
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// GrantAccess exchanges a gallery access code for a client token and
// keeps it for later calls.
func (c *Client) GrantAccess(ctx context.Context, galleryID, accessCode string) (time.Time, error) {
	var out accessResponse
	body := map[string]string{"accessCode": accessCode}
	if err := c.do(ctx, http.MethodPost, c.galleryPath(galleryID, "access"), body, &out); err != nil {
		return time.Time{}, err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return out.ExpiresAt, nil
}

// LoadPhotos fetches the full ordered photo list for a gallery.
func (c *Client) LoadPhotos(ctx context.Context, galleryID string) ([]triage.Photo, error) {
	var out photoList
	if err := c.do(ctx, http.MethodGet, c.galleryPath(galleryID, "photos"), nil, &out); err != nil {
		return nil, err
	}
	return out.Photos, nil
}

func (c *Client) GetStats(ctx context.Context, galleryID string) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, c.galleryPath(galleryID, "stats"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Persist sends one batched change, split into requests of at most
// maxBatch ids. Chunks go out in order; if one fails after earlier ones
// were committed the error is a *triage.PartialWriteError naming them.
func (c *Client) Persist(ctx context.Context, change triage.Change) error {
	var applied []string
	for start := 0; start < len(change.IDs); start += c.maxBatch {
		end := start + c.maxBatch
		if end > len(change.IDs) {
			end = len(change.IDs)
		}
		chunk := change.IDs[start:end]
		if err := c.persistChunk(ctx, change, chunk); err != nil {
			if len(applied) > 0 {
				return &triage.PartialWriteError{Applied: applied, Err: err}
			}
			return err
		}
		applied = append(applied, chunk...)
	}
	return nil
}

func (c *Client) persistChunk(ctx context.Context, change triage.Change, ids []string) error {
	var (
		path string
		body interface{}
	)
	switch change.Kind {
	case triage.ChangeHighlight:
		path = c.galleryPath(change.GalleryID, "photos", "highlight")
		value := change.Highlight
		body = map[string]interface{}{"ids": ids, "value": &value}
	default:
		path = c.galleryPath(change.GalleryID, "photos", "status")
		body = map[string]interface{}{"ids": ids, "status": string(change.Status)}
	}
	var out batchResponse
	return c.do(ctx, http.MethodPatch, path, body, &out)
}

func (c *Client) galleryPath(galleryID string, parts ...string) string {
	segs := append([]string{"api", "v1", "galleries", url.PathEscape(galleryID)}, parts...)
	return c.baseURL + "/" + strings.Join(segs, "/")
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call triage API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}
