package collection

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient/httpclienttest"
)

const sampleYAML = `
name: smoke
request_delay_ms: 10
requests:
  - name: status
    url: https://api.example.com/status
    query:
      verbose: "1"
    expect:
      status: 2xx
      mime_type: application/json
    decode: json
  - name: create
    method: post
    url: https://api.example.com/items
    bearer_token: secret
    body:
      kind: json
      json:
        name: widget
        tags: [a, b]
  - name: skipped
    url: https://api.example.com/skip
    enabled: false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	c, err := Load(writeFile(t, "collection.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Name != "smoke" || c.RequestDelayMs != 10 {
		t.Fatalf("unexpected collection header %+v", c)
	}
	enabled := c.Enabled()
	if len(enabled) != 2 || enabled[0].Name != "status" || enabled[1].Name != "create" {
		t.Fatalf("unexpected enabled entries %+v", enabled)
	}
	create, ok := c.ByName("create")
	if !ok || create.Method != "POST" || create.Decode != DecodeRaw {
		t.Fatalf("create not sanitized: %+v", create)
	}
	if _, ok := c.ByName("missing"); ok {
		t.Fatalf("unexpected entry for unknown name")
	}
}

func TestLoadJSON(t *testing.T) {
	raw := `{"requests":[{"name":"a","url":"https://example.com","body":{"kind":"form","form":{"q":"go"}}}]}`
	c, err := Load(writeFile(t, "collection.json", raw))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e, _ := c.ByName("a"); e.Body == nil || e.Body.Form["q"] != "go" {
		t.Fatalf("form body not decoded: %+v", e)
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"empty":       `requests: []`,
		"no name":     "requests:\n  - url: https://example.com\n",
		"no url":      "requests:\n  - name: a\n",
		"bad decode":  "requests:\n  - name: a\n    url: https://example.com\n    decode: xml\n",
		"bad body":    "requests:\n  - name: a\n    url: https://example.com\n    body: {kind: multipart}\n",
		"bad range":   "requests:\n  - name: a\n    url: https://example.com\n    expect: {status: \"300-200\"}\n",
		"duplicate":   "requests:\n  - name: a\n    url: https://example.com\n  - name: a\n    url: https://example.com\n",
		"neg delay":   "request_delay_ms: -1\nrequests:\n  - name: a\n    url: https://example.com\n",
		"not a value": "::::",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(raw), ".yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestEntryRequestBuildsQueryAuthAndBody(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), ".yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	client := httpclient.New(httpclient.Config{}, httpclient.WithTransport(httpclienttest.NewStub(200, "", nil)))

	status, _ := c.ByName("status")
	req, err := status.Request(client)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got := req.URL().String(); got != "https://api.example.com/status?verbose=1" {
		t.Fatalf("url = %s", got)
	}

	create, _ := c.ByName("create")
	req, err = create.Request(client)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if req.Method() != httpclient.MethodPost {
		t.Fatalf("method = %s", req.Method())
	}
	if got := req.Headers().Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("Authorization = %q", got)
	}
	var payload map[string]any
	if err := json.Unmarshal(req.Body(), &payload); err != nil || payload["name"] != "widget" {
		t.Fatalf("json body = %s (%v)", req.Body(), err)
	}
}

func TestEntryExchangeAppliesExpectations(t *testing.T) {
	stub := httpclienttest.NewStub(200, "text/plain", []byte("ok"))
	client := httpclient.New(httpclient.Config{AutoValidate: true}, httpclient.WithTransport(stub))

	e := Entry{Name: "status", Method: "GET", URL: "https://example.com", Decode: DecodeRaw,
		Expect: &Expect{Status: "200", MimeType: "application/json"}}
	ex, err := e.Exchange(client)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	resp := httpclient.Send(context.Background(), ex)
	if !errors.Is(resp.Err, httpclient.ErrUnexpectedMimeType) {
		t.Fatalf("expected mime mismatch, got %v", resp.Err)
	}

	e.Expect = &Expect{Disabled: true}
	stub.Status = 500
	ex, err = e.Exchange(client)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if resp := httpclient.Send(context.Background(), ex); resp.Err != nil {
		t.Fatalf("expected validation to be skipped, got %v", resp.Err)
	}
}

func TestSubsetKeepsFileOrder(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sub, err := c.Subset("create", "status")
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if len(sub.Requests) != 2 || sub.Requests[0].Name != "status" {
		t.Fatalf("unexpected subset %+v", sub.Requests)
	}
	if _, ok := sub.ByName("create"); !ok {
		t.Fatalf("subset index missing create")
	}
	if _, err := c.Subset("nope"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestValidateNormalizesEntry(t *testing.T) {
	e, err := Validate(Entry{Name: " a ", URL: "https://example.com", Method: "delete"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if e.Name != "a" || e.Method != "DELETE" || e.Decode != DecodeRaw {
		t.Fatalf("entry not normalized: %+v", e)
	}
	if _, err := Validate(Entry{Name: "a"}); err == nil {
		t.Fatalf("expected error for missing url")
	}
}
