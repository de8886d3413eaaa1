package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnauthorized is the normalized error every caller sees after a 401.
	// The per-call handling already happened inside the client, through the
	// injected policy.
	ErrUnauthorized = errors.New("unauthorized: please login again")

	// ErrBadResponse marks a 2xx response whose body did not match the
	// expected shape.
	ErrBadResponse = errors.New("malformed server response")
)

// APIError is a non-2xx response other than 401. Message carries the
// server-supplied message verbatim when the body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// TokenSource yields the bearer token to attach to outgoing requests. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// UnauthorizedPolicy is invoked exactly once for every 401 response, no
// matter which API module issued the call. Clearing the session and steering
// the user back to sign-in happen here, so callers never carry their own
// 401 handling.
type UnauthorizedPolicy interface {
	HandleUnauthorized(ctx context.Context)
}

// UnauthorizedPolicyFunc adapts a function to UnauthorizedPolicy.
type UnauthorizedPolicyFunc func(ctx context.Context)

func (f UnauthorizedPolicyFunc) HandleUnauthorized(ctx context.Context) { f(ctx) }

// Client wraps net/http with the base URL, the fixed timeout, bearer token
// injection and the cross-cutting 401 policy. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	policy  UnauthorizedPolicy
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, policy UnauthorizedPolicy, logger *zap.Logger) *Client {
	// cookie jar kept for the cookie-based fallback some deployments use
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic("failed to create cookie jar: " + err.Error())
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		tokens: tokens,
		policy: policy,
		logger: logger,
	}
}

// Do performs one JSON request against the API. body may be nil for calls
// without a payload, out may be nil when the caller discards the response
// body.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("Unauthorized response, session expired",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
		)
		if c.policy != nil {
			c.policy.HandleUnauthorized(ctx)
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp, method, path, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrBadResponse, err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response, method, path, requestID string) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else {
				apiErr.Message = body.Error
			}
		}
	}

	c.logger.Warn("API request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)
	return apiErr
}
