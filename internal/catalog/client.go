// Package catalog reads and writes the remote audio_files table that
// backs the user's library.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// AudioFile is one row of the audio_files table.
type AudioFile struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	FilePath    string  `json:"file_path,omitempty"`
	CoverArtURL string  `json:"cover_art_url,omitempty"`
	UserID      string  `json:"user_id"`
}

// Client provides access to the catalog REST API.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewClient creates a new catalog client. baseURL is the project URL
// without a trailing slash.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetAccessToken attaches the signed-in user's bearer token to all
// subsequent requests. Row-level security scopes results to that user.
// Safe to call while requests are in flight; token renewal happens on
// another goroutine.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// List returns the user's audio files ordered by title.
func (c *Client) List(ctx context.Context, userID string) ([]AudioFile, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("order", "title.asc")

	reqURL := c.baseURL + "/rest/v1/audio_files?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var files []AudioFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return files, nil
}

// Insert creates a row and returns it with the server-assigned ID.
func (c *Client) Insert(ctx context.Context, file AudioFile) (*AudioFile, error) {
	jsonBody, err := json.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqURL := c.baseURL + "/rest/v1/audio_files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var created AudioFile
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("insert response missing row id")
	}

	return &created, nil
}

// Update patches the given columns of one row.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) error {
	jsonBody, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	reqURL := c.baseURL + "/rest/v1/audio_files?id=eq." + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, reqURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
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
