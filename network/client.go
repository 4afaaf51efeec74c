package network

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Service executes descriptors and returns the raw body of successful responses.
type Service interface {
	Do(ctx context.Context, d Descriptor) ([]byte, error)
}

// Client is the HTTP implementation of Service. The underlying *http.Client
// is shared by every call and never mutated after construction.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        zerolog.Logger
	limiter       *rate.Limiter
	debugPayloads bool
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets the base used for descriptors that leave BaseURL empty
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithPayloadLogging echoes raw response bodies at trace level
func WithPayloadLogging(enabled bool) Option {
	return func(c *Client) {
		c.debugPayloads = enabled
	}
}

// WithRateLimit spaces requests to at most perSecond, allowing bursts of
// burst. Zero or negative perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// NewClient creates a new Client
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do builds the descriptor, executes it and returns the body of a 2xx response.
// Non-2xx bodies are discarded unread.
func (c *Client) Do(ctx context.Context, d Descriptor) ([]byte, error) {
	if d.BaseURL == "" {
		d.BaseURL = c.baseURL
	}

	req, err := Build(d)
	if err != nil {
		return nil, err
	}

	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, unknown(err)
		}
	}

	requestID := uuid.NewString()
	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", string(req.Method())).
		Str("url", req.URL()).
		Msg("Sending request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, unknown(err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("Received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, requestFailed(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unknown(err)
	}

	if c.debugPayloads {
		c.logger.Trace().
			Str("request_id", requestID).
			RawJSON("payload", jsonOrString(body)).
			Msg("Response payload")
	}

	return body, nil
}

// Fetch executes d through svc and decodes the body into a T.
// Decoding is all-or-nothing: on failure the zero T is returned.
func Fetch[T any](ctx context.Context, svc Service, d Descriptor) (T, error) {
	var zero T

	body, err := svc.Do(ctx, d)
	if err != nil {
		return zero, err
	}

	return Decode[T](body)
}

// Decode unmarshals a JSON body into a T, mapping failures to KindDecodingFailed
func Decode[T any](body []byte) (T, error) {
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		var zero T
		return zero, decodingFailed(err)
	}
	return value, nil
}

// jsonOrString keeps the log line valid JSON when the payload is not
func jsonOrString(body []byte) []byte {
	if json.Valid(body) {
		return body
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
