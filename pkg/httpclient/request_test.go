package httpclient

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		DefaultHeaders:  true,
		AutoValidate:    true,
		LogLevel:        LevelNone,
		App:             AppInfo{Name: "harness", Version: "1.2", Bundle: "dev.samvad.harness", Build: "42"},
		AcceptLanguages: []string{"fr-CA", "en"},
	}
}

func bareClient() *Client {
	cfg := testConfig()
	cfg.DefaultHeaders = false
	return New(cfg, WithTransport(TransportFunc(nil)))
}

func TestNewRequestInjectsDefaultHeaders(t *testing.T) {
	c := New(testConfig(), WithTransport(TransportFunc(nil)))
	req, err := c.NewRequest(MethodGet, "https://example.com/a", nil, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	h := req.Headers()
	if got := h.Get("Accept-Encoding"); got != "gzip;q=1.0, deflate;q=0.9" {
		t.Fatalf("Accept-Encoding = %q", got)
	}
	if got := h.Get("Accept-Language"); got != "fr-CA;q=1.0, en;q=0.9" {
		t.Fatalf("Accept-Language = %q", got)
	}
	ua := h.Get("User-Agent")
	if !strings.HasPrefix(ua, "harness/1.2 (dev.samvad.harness; build:42; ") || !strings.HasSuffix(ua, ") samvad-httpkit") {
		t.Fatalf("User-Agent = %q", ua)
	}
}

func TestNewRequestCallerHeadersOverrideDefaults(t *testing.T) {
	c := New(testConfig(), WithTransport(TransportFunc(nil)))
	req, err := c.NewRequest(MethodGet, "https://example.com", NewHeaders(Header{Name: "user-agent", Value: "custom"}), nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.Headers().Get("User-Agent"); got != "custom" {
		t.Fatalf("User-Agent = %q, want custom", got)
	}
	if req.Headers().Len() != 3 {
		t.Fatalf("expected 3 headers, got %d", req.Headers().Len())
	}
}

func TestNewRequestWithoutDefaults(t *testing.T) {
	req, err := bareClient().NewRequest(MethodGet, "https://example.com", nil, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Headers().Len() != 0 {
		t.Fatalf("expected no headers, got %s", req.Headers())
	}
}

func TestNewRequestInvalidURL(t *testing.T) {
	c := bareClient()
	for _, raw := range []string{"", "   ", "not a url", "/relative/path", "https://"} {
		_, err := c.NewRequest(MethodGet, raw, nil, nil)
		if !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("NewRequest(%q) err = %v, want ErrInvalidURL", raw, err)
		}
		if CodeOf(err) != CodeInvalidURL {
			t.Fatalf("CodeOf = %d", CodeOf(err))
		}
	}
}

func TestFormBodyInQueryForGET(t *testing.T) {
	form := url.Values{"q": {"go lang"}, "a": {"1"}}
	for _, m := range []Method{MethodGet, MethodOptions, MethodTrace} {
		req, err := bareClient().NewRequest(m, "https://example.com/search?x=1", nil, FormBody(form))
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		if got := req.URL().RawQuery; got != "x=1&a=1&q=go+lang" {
			t.Fatalf("%s query = %q", m, got)
		}
		if req.Body() != nil {
			t.Fatalf("%s should not carry a body", m)
		}
		if req.Headers().Has("Content-Type") {
			t.Fatalf("%s should not set Content-Type", m)
		}
	}
}

func TestFormBodyInPayloadForPOST(t *testing.T) {
	req, err := bareClient().NewRequest(MethodPost, "https://example.com/submit", nil, FormBody(url.Values{"q": {"go lang"}, "a": {"1"}}))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if string(req.Body()) != "a=1&q=go+lang" {
		t.Fatalf("body = %q", req.Body())
	}
	if req.ContentType() != ContentTypeFormURLEncoded {
		t.Fatalf("content type = %q", req.ContentType())
	}
	if req.URL().RawQuery != "" {
		t.Fatalf("query should stay empty, got %q", req.URL().RawQuery)
	}
}

func TestJSONBodyOverridesCallerContentType(t *testing.T) {
	headers := NewHeaders(ContentTypeText.Header())
	req, err := bareClient().NewRequest(MethodPost, "https://example.com", headers, JSONBody(map[string]any{"a": 1}))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.ContentType() != ContentTypeJSON {
		t.Fatalf("content type = %q", req.ContentType())
	}
	if string(req.Body()) != `{"a":1}` {
		t.Fatalf("body = %s", req.Body())
	}
}

func TestJSONBodyEncodingFailures(t *testing.T) {
	c := bareClient()
	for name, v := range map[string]any{
		"scalar":      "just a string",
		"number":      12,
		"unencodable": map[string]any{"ch": make(chan int)},
	} {
		_, err := c.NewRequest(MethodPost, "https://example.com", nil, JSONBody(v))
		if !errors.Is(err, ErrJSONEncoding) {
			t.Fatalf("%s: err = %v, want ErrJSONEncoding", name, err)
		}
	}
}

func TestObjectBodyAllowsAnyValue(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	req, err := bareClient().NewRequest(MethodPut, "https://example.com", nil, ObjectBody(payload{Name: "x"}))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if string(req.Body()) != `{"name":"x"}` || req.ContentType() != ContentTypeJSON {
		t.Fatalf("unexpected body %s / %s", req.Body(), req.ContentType())
	}
}

func TestRawBodyKeepsContentType(t *testing.T) {
	headers := NewHeaders(ContentTypePNG.Header())
	req, err := bareClient().NewRequest(MethodPost, "https://example.com", headers, RawBody([]byte{0x89, 0x50}))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.ContentType() != ContentTypePNG || len(req.Body()) != 2 {
		t.Fatalf("unexpected request %s", req.DebugString())
	}
}

func TestRequestAccessorsReturnCopies(t *testing.T) {
	req, err := bareClient().NewRequest(MethodPost, "https://example.com/p", NewHeaders(Header{Name: "X-A", Value: "1"}), RawBody([]byte("abc")))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Body()[0] = 'z'
	req.URL().Path = "/changed"
	req.Headers().Set("X-A", "2")
	if string(req.Body()) != "abc" || req.URL().Path != "/p" || req.Headers().Get("X-A") != "1" {
		t.Fatalf("request was mutated through an accessor: %s", req.DebugString())
	}
}

func TestParseMethod(t *testing.T) {
	cases := map[string]Method{
		"post":  MethodPost,
		" Put ": MethodPut,
		"HEAD":  MethodHead,
		"bogus": MethodGet,
		"":      MethodGet,
	}
	for in, want := range cases {
		if got := ParseMethod(in); got != want {
			t.Fatalf("ParseMethod(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestRequestString(t *testing.T) {
	req, err := bareClient().NewRequest("delete", "https://example.com/items/1", nil, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.String() != "DELETE https://example.com/items/1" {
		t.Fatalf("String() = %q", req.String())
	}
	var missing *Request
	if missing.String() != "<could not describe request>" {
		t.Fatalf("nil request String() = %q", missing.String())
	}
}
