package httpcore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ResponseMode controls how the client materializes a response body.
type ResponseMode int

const (
	// ResponseBytes reads the full body into Response.Body. The default.
	ResponseBytes ResponseMode = iota
	// ResponseJSON reads the full body; decode it with Response.JSON.
	ResponseJSON
	// ResponseStream leaves the body unread in Response.Stream. The caller
	// must close it.
	ResponseStream
)

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Descriptor fully specifies one outgoing request. It is immutable after
// construction; a retry re-issues the same descriptor verbatim.
type Descriptor struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
	mode   ResponseMode
}

// DescriptorOption configures a Descriptor during construction.
type DescriptorOption func(*Descriptor) error

// NewDescriptor builds an immutable request descriptor. The method must be
// one of the standard HTTP methods and the path must be non-empty; anything
// else is rejected synchronously with a MalformedRequest error and never
// reaches the retry machinery.
func NewDescriptor(method, path string, opts ...DescriptorOption) (*Descriptor, error) {
	if !validMethods[method] {
		return nil, &Error{Kind: KindMalformedRequest, Cause: fmt.Errorf("invalid method %q", method)}
	}
	if path == "" {
		return nil, &Error{Kind: KindMalformedRequest, Cause: fmt.Errorf("empty path")}
	}
	d := &Descriptor{
		method: method,
		path:   path,
		query:  url.Values{},
		header: http.Header{},
	}
	for _, o := range opts {
		if err := o(d); err != nil {
			return nil, &Error{Kind: KindMalformedRequest, Cause: err}
		}
	}
	return d, nil
}

// Query adds a query parameter.
func Query(key, value string) DescriptorOption {
	return func(d *Descriptor) error {
		d.query.Add(key, value)
		return nil
	}
}

// Header sets a request header. Descriptor headers override the client's
// default headers.
func Header(key, value string) DescriptorOption {
	return func(d *Descriptor) error {
		d.header.Set(key, value)
		return nil
	}
}

// Body sets a raw request body.
func Body(b []byte) DescriptorOption {
	return func(d *Descriptor) error {
		d.body = b
		return nil
	}
}

// JSONBody marshals v as the request body and sets the Content-Type header.
func JSONBody(v any) DescriptorOption {
	return func(d *Descriptor) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		d.body = data
		d.header.Set("Content-Type", "application/json")
		return nil
	}
}

// Mode sets the response-handling mode.
func Mode(m ResponseMode) DescriptorOption {
	return func(d *Descriptor) error {
		d.mode = m
		return nil
	}
}

// Method returns the HTTP method.
func (d *Descriptor) Method() string { return d.method }

// Path returns the request path.
func (d *Descriptor) Path() string { return d.path }

// QueryValues returns a copy of the query parameters.
func (d *Descriptor) QueryValues() url.Values {
	q := make(url.Values, len(d.query))
	for k, vs := range d.query {
		q[k] = append([]string(nil), vs...)
	}
	return q
}

// Headers returns a copy of the descriptor headers.
func (d *Descriptor) Headers() http.Header {
	h := make(http.Header, len(d.header))
	for k, vs := range d.header {
		h[k] = append([]string(nil), vs...)
	}
	return h
}

// BodyBytes returns the request body, or nil when absent. The returned slice
// must not be modified.
func (d *Descriptor) BodyBytes() []byte { return d.body }

// Mode returns the response-handling mode.
func (d *Descriptor) Mode() ResponseMode { return d.mode }
