package http_client

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/serisow/lesocle-seeder/pipeline_type"
)

const requestIDHeader = "X-Request-ID"

// Hook runs after a successful response and usually copies fields from it
// into the session context. Its error never fails the request.
type Hook func(resp *Response, pctx *pipeline_type.Context) error

// RequestOptions overrides per-request transport settings.
type RequestOptions struct {
	Query   map[string]string
	Headers map[string]string
}

// Gateway is what steps talk to. Every verb comes in a plain shape and a
// WithOptions shape taking query parameters and extra headers.
type Gateway interface {
	Get(ctx context.Context, path string, hook Hook) (*Response, error)
	GetWithOptions(ctx context.Context, path string, opts RequestOptions, hook Hook) (*Response, error)
	Post(ctx context.Context, path string, body interface{}, hook Hook) (*Response, error)
	PostWithOptions(ctx context.Context, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error)
	Put(ctx context.Context, path string, body interface{}, hook Hook) (*Response, error)
	PutWithOptions(ctx context.Context, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error)
	Patch(ctx context.Context, path string, body interface{}, hook Hook) (*Response, error)
	PatchWithOptions(ctx context.Context, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error)
	Delete(ctx context.Context, path string, hook Hook) (*Response, error)
	DeleteWithOptions(ctx context.Context, path string, opts RequestOptions, hook Hook) (*Response, error)
	// Context is the session context hooks write into and the bearer token
	// is read from.
	Context() *pipeline_type.Context
}

type Options struct {
	BaseURL            string
	Timeout            time.Duration
	RejectUnauthorized bool
	Verbose            bool
}

// Client is the resty-backed Gateway bound to one session context.
type Client struct {
	resty   *resty.Client
	pctx    *pipeline_type.Context
	logger  *slog.Logger
	verbose bool
}

var _ Gateway = (*Client)(nil)

// New binds the client to pctx. A nil pctx gets a fresh context.
func New(opts Options, pctx *pipeline_type.Context, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if pctx == nil {
		pctx = pipeline_type.NewContext()
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !opts.RejectUnauthorized}

	c := &Client{
		resty:   resty.NewWithClient(&http.Client{Transport: transport}),
		pctx:    pctx,
		logger:  logger,
		verbose: opts.Verbose,
	}

	c.resty.
		SetHostURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.injectHeaders).
		OnAfterResponse(c.logResponse)

	return c
}

// Context returns the session context hooks write into.
func (c *Client) Context() *pipeline_type.Context {
	return c.pctx
}

// injectHeaders adds the bearer token only when the context holds a
// non-empty one; otherwise no Authorization header is sent at all.
func (c *Client) injectHeaders(_ *resty.Client, req *resty.Request) error {
	if token, ok := pipeline_type.Lookup(c.pctx, pipeline_type.BearerToken); ok && token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.SetHeader(requestIDHeader, uuid.NewString())
	}
	return nil
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	if !c.verbose || !resp.IsSuccess() {
		return nil
	}
	c.logger.Info(fmt.Sprintf("%s %s - %d", resp.Request.Method, resp.Request.RawRequest.URL.Path, resp.StatusCode()),
		slog.String("request_id", resp.Request.Header.Get(requestIDHeader)),
		slog.Duration("duration", resp.Time()))
	return nil
}

func (c *Client) Get(ctx context.Context, path string, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, RequestOptions{}, hook)
}

func (c *Client) GetWithOptions(ctx context.Context, path string, opts RequestOptions, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts, hook)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, RequestOptions{}, hook)
}

func (c *Client) PostWithOptions(ctx context.Context, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts, hook)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, RequestOptions{}, hook)
}

func (c *Client) PutWithOptions(ctx context.Context, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts, hook)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, RequestOptions{}, hook)
}

func (c *Client) PatchWithOptions(ctx context.Context, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts, hook)
}

func (c *Client) Delete(ctx context.Context, path string, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, RequestOptions{}, hook)
}

func (c *Client) DeleteWithOptions(ctx context.Context, path string, opts RequestOptions, hook Hook) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts, hook)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, opts RequestOptions, hook Hook) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.resty.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(opts.Query) > 0 {
		req.SetQueryParams(opts.Query)
	}
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, pipeline_type.RequestFailed(method, path, 0, nil, err)
	}
	if !res.IsSuccess() {
		c.logger.Error("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", res.StatusCode()),
			slog.String("body", string(res.Body())))
		return nil, pipeline_type.RequestFailed(method, path, res.StatusCode(), res.Body(), nil)
	}

	resp := &Response{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.Body(),
	}
	if hook != nil {
		resp.HookErr = c.runHook(method, path, hook, resp)
	}
	return resp, nil
}

// runHook converts a hook error or panic into a CallbackFault and logs it.
func (c *Client) runHook(method, path string, hook Hook, resp *Response) (fault error) {
	defer func() {
		if r := recover(); r != nil {
			fault = pipeline_type.CallbackFault(method, path, fmt.Errorf("panic: %v", r))
		}
		if fault != nil {
			c.logger.Error("callback fault",
				slog.String("method", method),
				slog.String("path", path),
				slog.String("error", fault.Error()))
		}
	}()

	if err := hook(resp, c.pctx); err != nil {
		return pipeline_type.CallbackFault(method, path, err)
	}
	return nil
}
