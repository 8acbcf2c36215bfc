package seoshop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"io"
	log "log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	*ClientConfig
}

func NewClient(creds *Credentials, opts ...Opt) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	cfg := newClientConfig(creds)
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{ClientConfig: cfg}, nil
}

// Response is a completed call. Data holds the raw JSON payload and is empty
// when the server answered without a body.
type Response struct {
	StatusCode int
	Header     http.Header
	Data       json.RawMessage
}

func (r *Response) Decode(out any) error {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, sess *Session, endpoint string) (*Response, error) {
	return c.Request(ctx, sess, http.MethodGet, endpoint, nil)
}

func (c *Client) Post(ctx context.Context, sess *Session, endpoint string, body any) (*Response, error) {
	return c.Request(ctx, sess, http.MethodPost, endpoint, body)
}

func (c *Client) Put(ctx context.Context, sess *Session, endpoint string, body any) (*Response, error) {
	return c.Request(ctx, sess, http.MethodPut, endpoint, body)
}

// Delete issues a DELETE. The body is optional.
func (c *Client) Delete(ctx context.Context, sess *Session, endpoint string, body ...any) (*Response, error) {
	var in any
	if len(body) > 0 {
		in = body[0]
	}
	return c.Request(ctx, sess, http.MethodDelete, endpoint, in)
}

// Request performs an authenticated call against the shop API. Rate limited
// responses are retried with exponential backoff up to the configured number
// of retries.
//
// When the payload carries an "error" or "errors" field both the response and
// an *APIError are returned.
func (c *Client) Request(ctx context.Context, sess *Session, method string, endpoint string, body any) (*Response, error) {
	if sess == nil {
		return nil, errors.New("must provide client session")
	}
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	payload, err := encodeBody(method, body)
	if err != nil {
		return nil, err
	}
	u := c.Endpoint(sess.Language, endpoint)
	labels := []string{sess.ShopID, endpoint}
	logger := c.logger.With(log.String("method", method), log.String("url", u))

	delay := c.rateLimitDelay
	attempt := 0
retry:
	attempt++
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := c.newRequest(ctx, sess, method, u, payload)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		transportErrors.WithLabelValues(labels...).Inc()
		logger.With("error", err).Error("request failed")
		return nil, &TransportError{Method: method, URL: u, Err: err}
	}
	bs, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		transportErrors.WithLabelValues(labels...).Inc()
		logger.With("error", err).Error("failed to read response body")
		return nil, &TransportError{Method: method, URL: u, Err: err}
	}

	// measure response size and times.
	responseSize.WithLabelValues(labels...).Observe(float64(len(bs)))
	responseTime.WithLabelValues(append(labels, strconv.Itoa(resp.StatusCode))...).Observe(time.Since(now).Seconds())

	if resp.StatusCode == http.StatusTooManyRequests && attempt <= c.retries {
		rateLimited.WithLabelValues(labels...).Inc()
		logger.With(log.Int("attempt", attempt), log.Duration("delay", delay)).
			Warn("rate limited, retrying")
		if err := SleepContext(ctx, delay); err != nil {
			return nil, err
		}
		if delay < c.maxRateLimitDelay {
			delay = min(delay*2, c.maxRateLimitDelay)
		}
		goto retry
	}
	return parseResponse(resp.StatusCode, resp.Header, bs)
}

func (c *Client) newRequest(ctx context.Context, sess *Session, method string, u string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.appKey, sess.UserSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.ContentLength = int64(len(payload))
	}
	return req, nil
}

// encodeBody serializes body for methods that carry one. A body that encodes
// to a falsy JSON value (null, "", 0, false) is sent without payload.
func encodeBody(method string, body any) ([]byte, error) {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, nil
	}
	if body == nil {
		return nil, nil
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request object: %w", err)
	}
	switch string(bs) {
	case "null", `""`, "0", "false":
		return nil, nil
	}
	return bs, nil
}

func parseResponse(status int, header http.Header, bs []byte) (*Response, error) {
	resp := &Response{StatusCode: status, Header: header}
	bs = bytes.TrimSpace(bs)
	if len(bs) == 0 {
		if status == http.StatusTooManyRequests {
			return resp, &APIError{Message: http.StatusText(status), Code: status}
		}
		return resp, nil
	}
	var v any
	if err := json.Unmarshal(bs, &v); err != nil {
		return nil, &ParseError{Code: status, Body: bs, Err: err}
	}
	resp.Data = bs
	if obj, ok := v.(map[string]any); ok {
		msg, hasError := obj["error"]
		errs, hasErrors := obj["errors"]
		if hasError || hasErrors {
			if isFalsy(msg) {
				msg = errs
			}
			return resp, &APIError{Message: msg, Code: status, Data: resp.Data}
		}
	}
	if status == http.StatusTooManyRequests {
		return resp, &APIError{Message: http.StatusText(status), Code: status, Data: resp.Data}
	}
	return resp, nil
}

// isFalsy reports whether a decoded JSON value is null, "", 0 or false.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

var (
	transportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seoshop_http_transport_errors_total",
		Help: "Number of requests that failed without a response",
	}, []string{"shop", "endpoint"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seoshop_http_rate_limited_total",
		Help: "Number of rate limited responses",
	}, []string{"shop", "endpoint"})

	responseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "seoshop_http_response_time_seconds",
		Help: "Histogram of response times for HTTP requests",
	}, []string{"shop", "endpoint", "status"})

	responseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seoshop_http_response_size_bytes",
		Help:    "Histogram of response sizes for HTTP requests",
		Buckets: []float64{10 << 10, 20 << 10, 30 << 10, 40 << 10, 50 << 10, 75 << 10, 100 << 10, 250 << 10, 500 << 10, 1 << 20, 5 << 20},
	}, []string{"shop", "endpoint"})
)
