package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-modalform/pkg/model"
)

// SuccessBody is the exact response body that marks a submission accepted.
const SuccessBody = "success"

const maxBodyBytes = 1 << 20

// Status classifies a response.
type Status int

const (
	StatusSuccess Status = iota
	StatusValidationErrors
	StatusUnparseable
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusValidationErrors:
		return "validation_errors"
	case StatusUnparseable:
		return "unparseable"
	case StatusTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Request is one submission.
type Request struct {
	Form     string
	Endpoint string
	Method   string
	Data     map[string]any
}

// Response is the classified result of a submission.
type Response struct {
	Status     Status
	StatusCode int
	Errors     map[string]any
	Raw        string
	Err        error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records submissions into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// Client submits form data to remote endpoints.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	metrics *Metrics
	headers http.Header
}

// New creates a Client. The default HTTP client times out after 30 seconds.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Submit sends req and classifies the answer. It never returns a Go error;
// failures are reported as StatusTransportError.
func (c *Client) Submit(ctx context.Context, req Request) Response {
	started := time.Now()
	resp := c.do(ctx, req)
	c.metrics.observe(req.Form, resp.Status, time.Since(started))

	attrs := []any{"form", req.Form, "endpoint", req.Endpoint, "outcome", resp.Status.String(), "status_code", resp.StatusCode}
	if resp.Err != nil {
		c.logger.Warn("remote submission failed", append(attrs, "error", resp.Err)...)
	} else {
		c.logger.Debug("remote submission completed", attrs...)
	}
	return resp
}

func (c *Client) do(ctx context.Context, req Request) Response {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return Response{Status: StatusTransportError, Err: err}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{Status: StatusTransportError, Err: fmt.Errorf("remote: %s %s: %w", httpReq.Method, req.Endpoint, err)}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return Response{Status: StatusTransportError, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("remote: read response: %w", err)}
	}
	return Classify(httpResp.StatusCode, body)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return nil, errors.New("remote: endpoint is required")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}

	values := Encode(req.Data)
	var (
		httpReq *http.Request
		err     error
	)
	if method == http.MethodGet || method == http.MethodHead {
		target, parseErr := url.Parse(endpoint)
		if parseErr != nil {
			return nil, fmt.Errorf("remote: parse endpoint: %w", parseErr)
		}
		query := target.Query()
		for key, vals := range values {
			query[key] = append(query[key], vals...)
		}
		target.RawQuery = query.Encode()
		httpReq, err = http.NewRequestWithContext(ctx, method, target.String(), nil)
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(values.Encode()))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}

	for key, vals := range c.headers {
		for _, v := range vals {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	return httpReq, nil
}

// Encode flattens submission data into form values. Nil values are skipped
// and string slices become repeated keys.
func Encode(data map[string]any) url.Values {
	values := make(url.Values, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case nil:
			continue
		case []string:
			values[key] = append(values[key], v...)
		default:
			values.Set(key, model.FormatValue(v))
		}
	}
	return values
}

// Classify maps a status code and body onto a Response.
func Classify(statusCode int, body []byte) Response {
	raw := string(body)
	successful := statusCode >= 200 && statusCode < 300

	if successful && raw == SuccessBody {
		return Response{Status: StatusSuccess, StatusCode: statusCode, Raw: raw}
	}
	if successful || statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity {
		if fieldErrors, ok := decodeErrors(body); ok {
			return Response{Status: StatusValidationErrors, StatusCode: statusCode, Errors: fieldErrors, Raw: raw}
		}
	}
	if successful {
		return Response{Status: StatusUnparseable, StatusCode: statusCode, Raw: raw}
	}
	return Response{
		Status:     StatusTransportError,
		StatusCode: statusCode,
		Raw:        raw,
		Err:        fmt.Errorf("remote: unexpected status %d %s", statusCode, http.StatusText(statusCode)),
	}
}

func decodeErrors(body []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, false
	}
	return NormalizeErrors(payload), true
}
