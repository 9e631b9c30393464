// Package httpstore is the network-backed item store: a JSON client for the
// /todos resource served by internal/server (or any service speaking the same
// envelope).
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

// Client talks to a remote item store.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

var _ store.Store = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the store rooted at baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("store url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("store url %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	// No timeout: a request resolves when the store answers.
	c := &Client{base: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) List(ctx context.Context) (store.Response[[]model.Item], error) {
	var resp store.Response[[]model.Item]
	if err := c.do(ctx, http.MethodGet, "todos", nil, &resp); err != nil {
		return store.Response[[]model.Item]{}, fmt.Errorf("list todos: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []model.Item{}
	}
	return resp, nil
}

func (c *Client) Create(ctx context.Context, f model.Fields) (store.Response[model.Item], error) {
	var resp store.Response[model.Item]
	if err := c.do(ctx, http.MethodPost, "todos", f, &resp); err != nil {
		return store.Response[model.Item]{}, fmt.Errorf("create todo: %w", err)
	}
	return resp, nil
}

func (c *Client) Update(ctx context.Context, id string, f model.Fields) (store.Response[model.Item], error) {
	var resp store.Response[model.Item]
	if err := c.do(ctx, http.MethodPut, "todos/"+url.PathEscape(id), f, &resp); err != nil {
		return store.Response[model.Item]{}, fmt.Errorf("update todo %s: %w", id, err)
	}
	return resp, nil
}

// do sends one request and decodes the envelope into out. A non-2xx status
// with a well-formed envelope is not an error: the caller sees success=false.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	endpoint := c.base.String() + "/" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if res.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %s", res.Status)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
