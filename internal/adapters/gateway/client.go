// Package gateway implements ports.Gateway, the persistence contract the
// editor saves through: Client speaks the REST API over HTTP and Local calls
// the use cases in-process.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/samirrijal/polymap/internal/adapters/wire"
	"github.com/samirrijal/polymap/internal/core/domain"
)

// DefaultTimeout bounds a request when the context carries no deadline.
const DefaultTimeout = 10 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to a polymap API server.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client, e.g. to dial an
// in-memory listener. Path normalizing is turned off on hc so escaped ids
// reach the server intact.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		hc.DisablePathNormalizing = true
		c.http = hc
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                   "polymap-gateway",
			MaxConnsPerHost:        64,
			MaxIdleConnDuration:    30 * time.Second,
			DisablePathNormalizing: true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListPolygons(ctx context.Context) ([]domain.Polygon, error) {
	var resp []wire.Polygon
	if err := c.do(ctx, fasthttp.MethodGet, "/polygons", nil, &resp); err != nil {
		return nil, err
	}
	polygons := make([]domain.Polygon, 0, len(resp))
	for _, wp := range resp {
		p, err := wp.Domain()
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, p)
	}
	return polygons, nil
}

func (c *Client) CreatePolygon(ctx context.Context, name string, ring domain.Ring) (string, error) {
	var resp wire.Polygon
	if err := c.do(ctx, fasthttp.MethodPost, "/polygons", wire.NewCreatePolygonRequest(name, ring), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) DeletePolygon(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/polygons/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListObjects(ctx context.Context) ([]domain.MapObject, error) {
	var resp []wire.MapObject
	if err := c.do(ctx, fasthttp.MethodGet, "/objects", nil, &resp); err != nil {
		return nil, err
	}
	objects := make([]domain.MapObject, len(resp))
	for i, wo := range resp {
		objects[i] = wo.Domain()
	}
	return objects, nil
}

func (c *Client) CreateObject(ctx context.Context, objectType string, position domain.Point) (string, error) {
	var resp wire.MapObject
	if err := c.do(ctx, fasthttp.MethodPost, "/objects", wire.NewCreateObjectRequest(objectType, position), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) DeleteObject(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/objects/"+url.PathEscape(id), nil, nil)
}

// do sends one request. body is encoded as JSON when non-nil, and the
// response is decoded into out when non-nil. A 404 wraps domain.ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(data)
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		serr := &StatusError{Method: method, Path: path, Status: status, Body: string(resp.Body())}
		if status == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, serr)
		}
		return serr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
