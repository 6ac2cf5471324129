// Package api is the HTTP client for the calendar service's /api/v1
// contract. It owns the wire representation of tasks and users;
// callers receive decoded payloads and typed errors.
package api

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

const basePath = "/api/v1"

// RequestError is returned for any non-2xx response. Message holds the
// server's message/detail field when the error body carried one.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// IsNotFound reports whether err is a RequestError with status 404.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound
}

// errorBody is the optional error payload shape. FastAPI-style servers
// use detail, others use message; either may be present.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Client is a thin HTTP client for the calendar service. It handles
// JSON (de)serialization and maps non-2xx responses to RequestError.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service rooted at baseURL
// (e.g. http://localhost:8000).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// get performs a GET with optional query parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs a POST with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// put performs a PUT with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// delete performs a DELETE.
func (c *Client) delete(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, result)
}

// do builds the request, executes it, and decodes the JSON response.
// Non-2xx statuses become a *RequestError carrying the body's
// message/detail text when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	reqURL := c.baseURL + basePath + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &RequestError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			if eb.Message != "" {
				reqErr.Message = eb.Message
			} else if eb.Detail != "" {
				reqErr.Message = eb.Detail
			}
		}
		return reqErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		// The params endpoint replies with plain text rather than JSON.
		if s, ok := result.(*string); ok {
			*s = strings.TrimSpace(string(respBody))
			return nil
		}
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
