// Package client wraps HTTP calls to the SME financial-health backend. It
// owns the bearer credential, maps every failure into the domain error
// taxonomy, and fires the auth-denial hook that enforces global logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/observability"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

// Client talks to the backend API contract. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *zap.Logger

	mu           sync.RWMutex
	token        string
	onAuthDenied func()
}

// New creates a backend client. baseURL carries no trailing slash.
func New(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		metrics:    metrics,
		logger:     logger,
	}
}

// SetToken installs the bearer credential on every subsequent call.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer credential.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// HasToken reports whether a session credential is installed.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// SetAuthDeniedHook registers the cross-cutting logout policy. The hook
// fires on any authorization-denied response received while a token was
// installed, irrespective of which operation produced it.
func (c *Client) SetAuthDeniedHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthDenied = fn
}

// detailEnvelope is the backend's error body: {"detail": "..."}.
type detailEnvelope struct {
	Detail string `json:"detail"`
}

func decodeDetail(body []byte) string {
	var env detailEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Detail
}

// do executes one request and returns the raw 2xx body. Status handling:
// 401 maps to ErrAuthDenied (firing the logout hook when a session
// existed), other non-2xx to ErrServerRejected with the server detail
// verbatim, and transport errors to ErrTransport. Only transport errors
// count against the circuit breaker.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Client."+op)
	defer span.End()
	span.SetAttributes(attribute.String("http.path", path))

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(op, time.Since(start))
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &domain.ErrTransport{Operation: op, Err: err}
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	hadToken := token != ""
	if hadToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.cb.Execute(func() (any, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		c.metrics.IncrBackendError(op)
		c.logger.Error("backend request failed",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &domain.ErrTransport{Operation: op, Err: err}
	}

	resp := res.(*http.Response)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncrBackendError(op)
		return nil, &domain.ErrTransport{Operation: op, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.metrics.IncrBackendError(op)
		detail := decodeDetail(data)
		c.logger.Warn("authorization denied",
			zap.String("operation", op),
			zap.Bool("session_active", hadToken),
		)
		if hadToken {
			c.fireAuthDenied()
		}
		return nil, &domain.ErrAuthDenied{Operation: op, Detail: detail}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncrBackendError(op)
		c.logger.Warn("backend rejected request",
			zap.String("operation", op),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(data)),
		)
		return nil, &domain.ErrServerRejected{Operation: op, Status: resp.StatusCode, Detail: decodeDetail(data)}
	}

	c.logger.Debug("backend request OK",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
	)
	return data, nil
}

// fireAuthDenied invokes the logout hook outside the client mutex. The hook
// is idempotent on the session side, so concurrent denials are harmless.
func (c *Client) fireAuthDenied() {
	c.mu.RLock()
	hook := c.onAuthDenied
	c.mu.RUnlock()
	c.metrics.IncrAuthDenial()
	if hook != nil {
		hook()
	}
}

// doJSON marshals reqBody (when non-nil) and unmarshals the response into
// out (when non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, reqBody, out any) error {
	var body io.Reader
	contentType := ""
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return &domain.ErrTransport{Operation: op, Err: err}
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	data, err := c.do(ctx, op, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(op, data, out)
}

func decodeJSON(op string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.ErrTransport{Operation: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func businessQuery(businessID int64) url.Values {
	return url.Values{"business_id": []string{fmt.Sprintf("%d", businessID)}}
}
