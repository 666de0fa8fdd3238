package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Request is an immutable, ready-to-send request descriptor. Accessors return
// copies so callers cannot mutate a built request.
type Request struct {
	method  Method
	url     *url.URL
	headers *Headers
	body    []byte
}

// NewRequest builds a request with the default client configuration.
func NewRequest(method Method, rawURL string, headers *Headers, body Body) (*Request, error) {
	return Default().NewRequest(method, rawURL, headers, body)
}

// NewRequest parses rawURL and builds a request descriptor.
// It fails with ErrInvalidURL or ErrJSONEncoding.
func (c *Client) NewRequest(method Method, rawURL string, headers *Headers, body Body) (*Request, error) {
	method = ParseMethod(string(method))
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, &Error{Code: CodeInvalidURL, Method: method, URL: rawURL, Err: err}
	}
	return c.build(method, u, headers, body)
}

// NewRequestURL builds a request descriptor from an already parsed URL.
func (c *Client) NewRequestURL(method Method, u *url.URL, headers *Headers, body Body) (*Request, error) {
	method = ParseMethod(string(method))
	if err := checkURL(u); err != nil {
		raw := ""
		if u != nil {
			raw = u.String()
		}
		return nil, &Error{Code: CodeInvalidURL, Method: method, URL: raw, Err: err}
	}
	cp := *u
	return c.build(method, &cp, headers, body)
}

func (c *Client) build(method Method, u *url.URL, headers *Headers, body Body) (*Request, error) {
	hs := NewHeaders()
	if c.cfg.DefaultHeaders {
		hs.Merge(c.defaults)
	}
	hs.Merge(headers)

	req := &Request{method: method, url: u, headers: hs}
	if body == nil {
		return req, nil
	}

	enc, err := body.encode(method)
	if err != nil {
		return nil, newError(CodeJSONEncoding, req, err)
	}
	if enc.query != "" {
		if u.RawQuery == "" {
			u.RawQuery = enc.query
		} else {
			u.RawQuery += "&" + enc.query
		}
	}
	if enc.payload != nil {
		req.body = enc.payload
	}
	if enc.contentType != "" {
		hs.Add(enc.contentType.Header())
	}
	return req, nil
}

func parseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := checkURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

func checkURL(u *url.URL) error {
	switch {
	case u == nil:
		return errors.New("missing url")
	case u.Scheme == "":
		return fmt.Errorf("url %q has no scheme", u.String())
	case u.Host == "":
		return fmt.Errorf("url %q has no host", u.String())
	}
	return nil
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// URL returns a copy of the request URL.
func (r *Request) URL() *url.URL {
	if r.url == nil {
		return nil
	}
	cp := *r.url
	return &cp
}

// Headers returns a copy of the request headers.
func (r *Request) Headers() *Headers { return r.headers.Clone() }

// Body returns a copy of the payload, or nil when there is none.
func (r *Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	return append([]byte(nil), r.body...)
}

// ContentType returns the media type of the payload.
func (r *Request) ContentType() ContentType { return MediaType(r.headers.Get("Content-Type")) }

// valid reports whether the descriptor can be handed to a transport.
func (r *Request) valid() bool { return r != nil && checkURL(r.url) == nil }

func (r *Request) String() string {
	if !r.valid() {
		return "<could not describe request>"
	}
	return fmt.Sprintf("%s %s", r.method, r.url.String())
}

// DebugString renders the request line, headers and a body preview.
func (r *Request) DebugString() string {
	out := r.String()
	if r.headers.Len() > 0 {
		out += "\n" + r.headers.String()
	}
	if r.body != nil {
		out += "\n\n" + previewBody(r.ContentType(), r.body)
	}
	return out
}
