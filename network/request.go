package network

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
)

// Method is an HTTP verb
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// QueryItem is one query parameter. Items are encoded in slice order.
type QueryItem struct {
	Name  string
	Value string
}

// Descriptor declares a single REST operation.
type Descriptor struct {
	// BaseURL is the scheme and authority with an optional path prefix,
	// e.g. "https://dummyjson.com". Client fills it in when left empty.
	BaseURL string
	// Path is appended to the path of BaseURL.
	Path    string
	Method  Method
	Headers map[string]string
	// Body is serialized as JSON when non-nil. GET requests must leave it nil.
	Body  any
	Query []QueryItem
}

// Request is a fully resolved request. It is immutable once built.
type Request struct {
	url    *url.URL
	method Method
	header http.Header
	body   []byte
}

// URL returns the absolute request URL
func (r *Request) URL() string {
	return r.url.String()
}

// Method returns the request verb
func (r *Request) Method() Method {
	return r.method
}

// Header returns a copy of the finalized headers
func (r *Request) Header() http.Header {
	return r.header.Clone()
}

// Body returns a copy of the serialized body, or nil
func (r *Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	return bytes.Clone(r.body)
}

// HTTPRequest converts the request into an *http.Request bound to ctx
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, string(r.method), r.url.String(), body)
	if err != nil {
		return nil, invalidURL(err)
	}

	req.Header = r.header.Clone()
	return req, nil
}

// Build resolves a descriptor into a Request.
//
// It fails with KindInvalidURL when the base has no scheme or host, when a
// GET carries a body, or when the final URL cannot be formed, and with
// KindEncodingFailed when the body cannot be serialized.
func Build(d Descriptor) (*Request, error) {
	base, err := url.Parse(d.BaseURL)
	if err != nil {
		return nil, invalidURL(err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, invalidURL(nil)
	}

	// A path next to an authority must be rooted.
	if d.Path != "" && !strings.HasPrefix(d.Path, "/") {
		return nil, invalidURL(fmt.Errorf("path %q is not absolute", d.Path))
	}

	path := base.Path
	if d.Path != "" {
		path = strings.TrimSuffix(base.Path, "/") + d.Path
	}

	u := &url.URL{
		Scheme:   base.Scheme,
		User:     base.User,
		Host:     base.Host,
		Path:     path,
		RawQuery: encodeQuery(d.Query),
	}

	// Round-trip to catch anything url.URL would not reproduce.
	if _, err := url.Parse(u.String()); err != nil {
		return nil, invalidURL(err)
	}

	method := d.Method
	if method == "" {
		method = MethodGet
	}
	if method == MethodGet && d.Body != nil {
		return nil, invalidURL(errors.New("GET request must not carry a body"))
	}

	header := make(http.Header, len(d.Headers)+1)
	for key, value := range d.Headers {
		header.Set(key, value)
	}

	var body []byte
	if d.Body != nil {
		body, err = json.Marshal(d.Body)
		if err != nil {
			return nil, &Error{Kind: KindEncodingFailed, Err: err}
		}
		header.Set("Content-Type", "application/json")
	}

	return &Request{
		url:    u,
		method: method,
		header: header,
		body:   body,
	}, nil
}

// encodeQuery keeps the descriptor order, unlike url.Values.Encode which sorts keys
func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(item.Value))
	}
	return sb.String()
}
