// Package schoolapi is a typed client for the upstream school REST API that
// owns schools, attendance and location data.
package schoolapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/middleware/requestid"
)

// Observer receives timing for each upstream call.
type Observer interface {
	ObserveUpstreamCall(operation, outcome string, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client calls the school API on behalf of the current request's user.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// New constructs a Client with sane defaults.
func New(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     client,
		observer: opts.Observer,
		logger:   logger,
	}
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token for forwarding upstream.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the forwarded bearer token, if any.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

// envelope is the response wrapper used by every endpoint. Success is absent
// on some endpoints; absence is treated as success.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const (
	outcomeOK          = "ok"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
)

func (c *Client) get(ctx context.Context, operation, path string, query url.Values, dest interface{}) (err error) {
	start := time.Now()
	outcome := outcomeOK
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstreamCall(operation, outcome, time.Since(start))
		}
	}()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		outcome = outcomeUnavailable
		return appErrors.WrapAs(appErrors.ErrInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = outcomeUnavailable
		c.logger.Warn("upstream call failed", zap.String("operation", operation), zap.Error(err))
		return appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		outcome = outcomeUnavailable
		return appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "")
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		outcome = outcomeRejected
		return appErrors.Clone(appErrors.ErrUnauthorized, env.Message)
	case resp.StatusCode == http.StatusForbidden:
		outcome = outcomeRejected
		return appErrors.Clone(appErrors.ErrForbidden, env.Message)
	case resp.StatusCode == http.StatusNotFound:
		outcome = outcomeRejected
		return appErrors.Clone(appErrors.ErrNotFound, env.Message)
	case resp.StatusCode >= http.StatusInternalServerError:
		outcome = outcomeUnavailable
		return appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, fmt.Errorf("%s: status %d", operation, resp.StatusCode), "")
	case resp.StatusCode >= http.StatusBadRequest:
		outcome = outcomeRejected
		return appErrors.WrapAs(appErrors.ErrUpstreamRejected, fmt.Errorf("%s: status %d", operation, resp.StatusCode), env.Message)
	}

	if decodeErr != nil {
		outcome = outcomeRejected
		return appErrors.WrapAs(appErrors.ErrUpstreamRejected, decodeErr, "malformed response from school service")
	}
	if env.Success != nil && !*env.Success {
		outcome = outcomeRejected
		return appErrors.Clone(appErrors.ErrUpstreamRejected, env.Message)
	}
	if dest == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		outcome = outcomeRejected
		return appErrors.Clone(appErrors.ErrUpstreamRejected, "school service returned no data")
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		outcome = outcomeRejected
		return appErrors.WrapAs(appErrors.ErrUpstreamRejected, err, "malformed response from school service")
	}
	return nil
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return errors.Is(err, appErrors.ErrNotFound)
}
