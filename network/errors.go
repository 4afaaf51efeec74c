package network

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidURL is matched by every *Error of kind KindInvalidURL.
var ErrInvalidURL = errors.New("invalid URL")

// Kind classifies a network failure
type Kind int

const (
	// KindUnknown covers transport level failures (DNS, refused, timeout, offline)
	KindUnknown Kind = iota
	// KindInvalidURL indicates the descriptor did not resolve into a valid URL
	KindInvalidURL
	// KindEncodingFailed indicates the request body could not be serialized
	KindEncodingFailed
	// KindRequestFailed indicates a status code outside 200-299
	KindRequestFailed
	// KindDecodingFailed indicates the response body did not match the expected shape
	KindDecodingFailed
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "INVALID_URL"
	case KindEncodingFailed:
		return "ENCODING_FAILED"
	case KindRequestFailed:
		return "REQUEST_FAILED"
	case KindDecodingFailed:
		return "DECODING_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Error is the single error type produced by Build and Client.
type Error struct {
	Kind       Kind
	StatusCode int // only set for KindRequestFailed
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		if e.Err != nil {
			return fmt.Sprintf("invalid URL: %v", e.Err)
		}
		return "invalid URL"
	case KindEncodingFailed:
		return fmt.Sprintf("failed to encode request body: %v", e.Err)
	case KindRequestFailed:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	case KindDecodingFailed:
		return fmt.Sprintf("failed to decode response: %v", e.Err)
	default:
		return fmt.Sprintf("request failed: %v", e.Err)
	}
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidURL) match invalid URL errors
func (e *Error) Is(target error) bool {
	return target == ErrInvalidURL && e.Kind == KindInvalidURL
}

// IsNotFound checks if the error is a 404 response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindRequestFailed && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindRequestFailed &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// KindOf reports the Kind of err. Errors not produced by this package are KindUnknown.
func KindOf(err error) Kind {
	var netErr *Error
	if errors.As(err, &netErr) {
		return netErr.Kind
	}
	return KindUnknown
}

// StatusCode returns the HTTP status carried by a KindRequestFailed error.
func StatusCode(err error) (int, bool) {
	var netErr *Error
	if errors.As(err, &netErr) && netErr.Kind == KindRequestFailed {
		return netErr.StatusCode, true
	}
	return 0, false
}

func invalidURL(err error) *Error {
	return &Error{Kind: KindInvalidURL, Err: err}
}

func requestFailed(statusCode int) *Error {
	return &Error{Kind: KindRequestFailed, StatusCode: statusCode}
}

func decodingFailed(err error) *Error {
	return &Error{Kind: KindDecodingFailed, Err: err}
}

func unknown(err error) *Error {
	return &Error{Kind: KindUnknown, Err: err}
}
