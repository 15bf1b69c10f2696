package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// Client talks to the subscriber API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// NewClient creates a new subscriber API client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// ListAll retrieves every subscriber
func (c *Client) ListAll(ctx context.Context) ([]entity.Subscriber, error) {
	subscribers := []entity.Subscriber{}
	err := c.doRequest(ctx, http.MethodGet, "/all", nil, &subscribers)
	return subscribers, err
}

// Create submits a new subscriber; the server assigns the id
func (c *Client) Create(ctx context.Context, s entity.Subscriber) error {
	return c.doRequest(ctx, http.MethodPost, "/subscribe", s, nil)
}

// Update replaces the subscriber addressed by s.ID
func (c *Client) Update(ctx context.Context, s entity.Subscriber) error {
	return c.doRequest(ctx, http.MethodPut, "/update", s, nil)
}

// Delete removes a subscriber by id
func (c *Client) Delete(ctx context.Context, id int64) error {
	q := url.Values{"id": []string{strconv.FormatInt(id, 10)}}
	return c.doRequest(ctx, http.MethodDelete, "/delete?"+q.Encode(), nil, nil)
}

// doRequest performs an HTTP request and decodes a JSON result when one is wanted
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return nil
}
