// Package gateway is the client side of the backend REST API: one base
// client that authenticates, throttles and classifies every request, a
// retrying decorator for idempotent reads, and thin per-domain wrappers.
package gateway

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

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"courier-companion/internal/apperr"
	"courier-companion/internal/logx"
	"courier-companion/internal/session"
)

// GuardAuth is the guard counter name for rejected credentials.
const GuardAuth = "auth"

const maxErrorBody = 64 << 10

// Request describes one backend call. Op names it for errors, logs and throttling.
type Request struct {
	Op     string
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Idempotent reports whether the request can be repeated safely.
func (r Request) Idempotent() bool {
	return r.Method == "" || r.Method == http.MethodGet || r.Method == http.MethodHead
}

// Options configures Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is the base backend client.
type Client struct {
	base    *url.URL
	http    *http.Client
	creds   Credentials
	guard   AuthGuard
	limiter Limiter
	logger  logx.Logger
	newID   func() string
}

// NewClient creates a Client. guard and limiter may be nil.
func NewClient(opts Options, creds Credentials, guard AuthGuard, limiter Limiter, logger logx.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base url %q", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Client{
		base:    base,
		http:    hc,
		creds:   creds,
		guard:   guard,
		limiter: limiter,
		logger:  logger.With(logx.Component("gateway")),
		newID:   uuid.NewString,
	}, nil
}

// Do sends req and returns the body of a 2xx response. Every failure is an *apperr.Error.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if c.limiter != nil && !c.limiter.Allow(req.Op) {
		return nil, &apperr.Error{Kind: apperr.KindRateLimited, Op: req.Op, Message: "throttled locally"}
	}

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperr.Classify(req.Op, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Classify(req.Op, 0, err)
	}

	if cerr := apperr.Classify(req.Op, resp.StatusCode, nil); cerr != nil {
		var ae *apperr.Error
		if errors.As(cerr, &ae) {
			ae.Message = errorMessage(body)
		}
		if apperr.KindOf(cerr) == apperr.KindAuth {
			c.onAuthFailure(ctx, req.Op)
		}
		return nil, cerr
	}
	return body, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &apperr.Error{Kind: apperr.KindValidation, Op: req.Op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUnknown, Op: req.Op, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", c.newID())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		switch {
		case err == nil:
			httpReq.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, session.ErrNoCredential):
			// anonymous request, the backend decides
		default:
			return nil, fmt.Errorf("%s: load credential: %w", req.Op, err)
		}
	}
	return httpReq, nil
}

// onAuthFailure drops the credential once the guard trips so callers stop
// replaying a rejected token.
func (c *Client) onAuthFailure(ctx context.Context, op string) {
	if c.guard == nil || c.creds == nil {
		return
	}
	tripped, err := c.guard.Hit(ctx, GuardAuth)
	if err != nil {
		c.logger.Warn("auth guard hit failed", logx.String("op", op), logx.Err(err))
		return
	}
	if !tripped {
		return
	}
	c.logger.Warn("auth guard tripped, clearing credential", logx.String("op", op))
	if err := c.creds.Clear(ctx); err != nil {
		c.logger.Error("clear credential", logx.Err(err))
	}
	if err := c.guard.Reset(ctx, GuardAuth); err != nil {
		c.logger.Warn("reset auth guard", logx.Err(err))
	}
}

func errorMessage(body []byte) string {
	if len(body) == 0 || len(body) > maxErrorBody || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error.message", "error", "detail"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

func decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &apperr.Error{Kind: apperr.KindServer, Op: op, Message: "malformed response", Err: err}
	}
	return nil
}

// listPayload finds the array in a list response. The backend answers either
// with a bare array or wraps it under one of keys.
func listPayload(body []byte, keys ...string) []byte {
	r := gjson.ParseBytes(body)
	if r.IsArray() {
		return []byte(r.Raw)
	}
	for _, k := range keys {
		if v := r.Get(k); v.IsArray() {
			return []byte(v.Raw)
		}
	}
	return []byte("[]")
}
