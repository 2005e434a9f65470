// Package client is a typed HTTP client for the Listtra marketplace API.
// It attaches the bearer access token to every request and transparently
// refreshes it once on a 401 before giving up and signing the session out.
package client

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
	"sync"
	"time"
)

const refreshPath = "/api/token/refresh"

type Client struct {
	baseURL string
	httpc   *http.Client

	mu      sync.Mutex
	access  string
	refresh string

	// OnSignOut is called once when a refresh attempt is rejected and the
	// stored tokens are cleared. Optional.
	OnSignOut func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func WithTokens(access, refresh string) Option {
	return func(c *Client) {
		c.access = access
		c.refresh = refresh
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
	c.refresh = refresh
}

func (c *Client) ClearTokens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = ""
	c.refresh = ""
}

func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access != ""
}

func (c *Client) tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

func (c *Client) setAccess(access string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
}

func (c *Client) signOut() {
	c.mu.Lock()
	c.access = ""
	c.refresh = ""
	cb := c.OnSignOut
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// do issues one request and, on a 401, refreshes the access token and retries
// exactly once. A second 401 or a rejected refresh clears the session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	access, _ := c.tokens()
	err := c.send(ctx, method, path, query, payload, out, access)
	if err == nil || !IsAuthError(err) || path == refreshPath {
		return err
	}

	_, refresh := c.tokens()
	if refresh == "" {
		return err
	}
	newAccess, rerr := c.refreshAccess(ctx, refresh)
	if rerr != nil {
		c.signOut()
		return err
	}
	c.setAccess(newAccess)
	return c.send(ctx, method, path, query, payload, out, newAccess)
}

func (c *Client) refreshAccess(ctx context.Context, refresh string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.send(ctx, http.MethodPost, refreshPath, nil, payload, &resp, ""); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", errors.New("refresh response missing access token")
	}
	return resp.Access, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}, access string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError accepts both envelope shapes the server produces:
// {"error":{"code":...,"message":...}} from handlers and
// {"error":"unauthorized"} from the auth middleware.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var raw struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil || len(raw.Error) == 0 {
		return apiErr
	}
	var flat string
	if json.Unmarshal(raw.Error, &flat) == nil {
		apiErr.Code = flat
		return apiErr
	}
	var nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw.Error, &nested) == nil {
		apiErr.Code = nested.Code
		apiErr.Message = nested.Message
	}
	return apiErr
}
