// Copyright (c) 2023 BVK Chaitanya

// Package client implements a JSON client for the trading backend REST api.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strings"

	"golang.org/x/time/rate"
)

// Client issues requests to the trading backend. It is safe for concurrent
// use.
type Client struct {
	opts Options

	baseURL *url.URL

	client *http.Client

	limiter *rate.Limiter
}

type checker interface {
	Check() error
}

// New creates a client for the backend at baseURL.
func New(baseURL *url.URL, opts *Options) (*Client, error) {
	if baseURL == nil {
		return nil, os.ErrInvalid
	}
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must use http or https scheme: %w", baseURL, os.ErrInvalid)
	}

	limit := rate.Inf
	if opts.MaxQPS > 0 {
		limit = rate.Limit(opts.MaxQPS)
	}
	c := &Client{
		opts:    *opts,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: opts.HttpClientTimeout,
		},
		limiter: rate.NewLimiter(limit, opts.MaxBurst),
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() *url.URL {
	v := *c.baseURL
	return &v
}

// endpoint resolves an escaped subpath against the base url. Subpaths with
// relative segments are rejected.
func (c *Client) endpoint(subpath string, query url.Values) (*url.URL, error) {
	for _, elem := range strings.Split(subpath, "/") {
		if elem == "." || elem == ".." {
			return nil, fmt.Errorf("path %q has a relative segment: %w", subpath, os.ErrInvalid)
		}
	}
	raw, err := url.PathUnescape(subpath)
	if err != nil {
		return nil, fmt.Errorf("path %q is not escaped properly: %w", subpath, os.ErrInvalid)
	}

	u := c.BaseURL()
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + subpath
	u.Path = strings.TrimSuffix(u.Path, "/") + raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, method, subpath string, query url.Values, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	addr, err := c.endpoint(subpath, query)
	if err != nil {
		return nil, err
	}
	r, err := http.NewRequestWithContext(ctx, method, addr.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		r.Header.Set("content-type", "application/json")
	}
	r.Header.Set("accept", "application/json")

	resp, err := c.client.Do(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{
			Method:     method,
			Path:       subpath,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(data)),
		}
	}
	slog.Debug("backend request", "method", method, "url", addr.String(), "status", resp.StatusCode)
	return resp, nil
}

func decode[RESP any](subpath string, resp *http.Response) (*RESP, error) {
	defer resp.Body.Close()

	response := new(RESP)
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, &DecodeError{Path: subpath, Err: err}
	}
	if err := check(response); err != nil {
		return nil, &DecodeError{Path: subpath, Err: err}
	}
	return response, nil
}

// check validates the decoded value, or each element when it is a slice,
// with the optional Check method.
func check(v any) error {
	if c, ok := v.(checker); ok {
		return c.Check()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if elem.Kind() != reflect.Pointer && elem.CanAddr() {
			elem = elem.Addr()
		}
		if elem.Kind() == reflect.Pointer && elem.IsNil() {
			return fmt.Errorf("element %d is null", i)
		}
		if c, ok := elem.Interface().(checker); ok {
			if err := c.Check(); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

// Get issues a GET request and decodes the JSON response.
func Get[RESP any](ctx context.Context, c *Client, subpath string, query url.Values) (*RESP, error) {
	resp, err := c.do(ctx, http.MethodGet, subpath, query, nil)
	if err != nil {
		return nil, err
	}
	return decode[RESP](subpath, resp)
}

// Post issues a POST request with a JSON body and decodes the JSON response.
func Post[RESP, REQ any](ctx context.Context, c *Client, subpath string, req *REQ) (*RESP, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, subpath, nil, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return decode[RESP](subpath, resp)
}

// Delete issues a DELETE request and discards the response body.
func Delete(ctx context.Context, c *Client, subpath string) error {
	resp, err := c.do(ctx, http.MethodDelete, subpath, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
