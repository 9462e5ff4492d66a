// Package storage talks to the hosted object store that holds the audio
// files and cover art. The player never sees raw objects; it gets
// time-limited signed URLs resolved from a song's file path.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// DefaultSignedURLTTL is how long a signed URL stays playable.
const DefaultSignedURLTTL = time.Hour

// Client provides access to the storage API.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewClient creates a new storage client. baseURL is the project URL
// without a trailing slash.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// SetAccessToken attaches the signed-in user's bearer token to all
// subsequent requests. Safe to call while requests are in flight; token
// renewal happens on another goroutine.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// SignedURL returns a time-limited URL for one object.
func (c *Client) SignedURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}

	body := map[string]int{"expiresIn": int(ttl.Seconds())}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	reqURL := c.baseURL + "/storage/v1/object/sign/" + bucket + "/" + object
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.SignedURL == "" {
		return "", fmt.Errorf("sign response missing URL")
	}

	return c.baseURL + "/storage/v1" + result.SignedURL, nil
}

// PublicURL returns the unauthenticated URL for an object in a public
// bucket (cover art).
func (c *Client) PublicURL(bucket, object string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + object
}

// Upload stores an object. With upsert, an existing object at the same
// path is overwritten instead of failing.
func (c *Client) Upload(ctx context.Context, bucket, object, contentType string, body io.Reader, upsert bool) error {
	reqURL := c.baseURL + "/storage/v1/object/" + bucket + "/" + object
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", strconv.FormatBool(upsert))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}

	return nil
}

// Download fetches an object. The caller owns the returned reader.
func (c *Client) Download(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	reqURL := c.baseURL + "/storage/v1/object/" + bucket + "/" + object
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}

	return resp.Body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("API returned status %d", resp.StatusCode)
}
