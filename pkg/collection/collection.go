package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// Package collection loads named request definitions (YAML/JSON) and turns
// them into httpclient exchanges.

// Supported response interpretations.
const (
	DecodeRaw  = "raw"
	DecodeText = "text"
	DecodeJSON = "json"
	DecodeHTML = "html"
)

// Body kinds.
const (
	BodyRaw  = "raw"
	BodyForm = "form"
	BodyJSON = "json"
)

// Collection is an ordered set of named requests.
type Collection struct {
	Name           string  `json:"name" yaml:"name"`
	RequestDelayMs int     `json:"request_delay_ms" yaml:"request_delay_ms"`
	Requests       []Entry `json:"requests" yaml:"requests"`

	idx map[string]int
}

// Entry describes one request.
type Entry struct {
	Name    string            `json:"name" yaml:"name"`
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Query   map[string]string `json:"query" yaml:"query"`
	Bearer  string            `json:"bearer_token" yaml:"bearer_token"`
	Body    *BodySpec         `json:"body" yaml:"body"`
	Expect  *Expect           `json:"expect" yaml:"expect"`
	Decode  string            `json:"decode" yaml:"decode"`
	Enabled *bool             `json:"enabled" yaml:"enabled"`
}

// BodySpec selects a body encoding. Exactly one payload field is used,
// matching Kind.
type BodySpec struct {
	Kind string            `json:"kind" yaml:"kind"`
	Raw  string            `json:"raw" yaml:"raw"`
	Form map[string]string `json:"form" yaml:"form"`
	JSON any               `json:"json" yaml:"json"`
}

// Expect is the validation policy for an entry. A nil Expect means the
// client default applies; Disabled turns validation off.
type Expect struct {
	Status   string `json:"status" yaml:"status"`
	MimeType string `json:"mime_type" yaml:"mime_type"`
	Disabled bool   `json:"disabled" yaml:"disabled"`
}

// Load reads a collection from a YAML or JSON file.
func Load(path string) (*Collection, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("collection file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collection file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read collection file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes collection content. ext selects the format; empty tries all.
func Parse(data []byte, ext string) (*Collection, error) {
	c, err := decode(data, ext)
	if err != nil {
		return nil, err
	}
	if len(c.Requests) == 0 {
		return nil, errors.New("collection contains no requests")
	}
	if c.RequestDelayMs < 0 {
		return nil, fmt.Errorf("request_delay_ms must be >= 0, got %d", c.RequestDelayMs)
	}

	c.Name = strings.TrimSpace(c.Name)
	c.idx = make(map[string]int, len(c.Requests))
	for i := range c.Requests {
		e := sanitizeEntry(c.Requests[i])
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := c.idx[e.Name]; exists {
			return nil, fmt.Errorf("duplicate request name %q", e.Name)
		}
		c.Requests[i] = e
		c.idx[e.Name] = i
	}
	return c, nil
}

func decode(data []byte, ext string) (*Collection, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var c Collection
		if err := d.fn(data, &c); err != nil {
			errs = append(errs, fmt.Errorf("decode %s collection: %w", d.name, err))
			continue
		}
		return &c, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("collection format %q not recognized (expected YAML or JSON)", ext)
	}
	return nil, errors.Join(errs...)
}

func sanitizeEntry(e Entry) Entry {
	e.Name = strings.TrimSpace(e.Name)
	e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
	if e.Method == "" {
		e.Method = string(httpclient.MethodGet)
	}
	e.URL = strings.TrimSpace(e.URL)
	e.Bearer = strings.TrimSpace(e.Bearer)
	e.Decode = strings.ToLower(strings.TrimSpace(e.Decode))
	if e.Decode == "" {
		e.Decode = DecodeRaw
	}
	e.Headers = trimMap(e.Headers)
	e.Query = trimMap(e.Query)
	if e.Body != nil {
		b := *e.Body
		b.Kind = strings.ToLower(strings.TrimSpace(b.Kind))
		e.Body = &b
	}
	if e.Expect != nil {
		x := *e.Expect
		x.Status = strings.TrimSpace(x.Status)
		x.MimeType = strings.TrimSpace(x.MimeType)
		e.Expect = &x
	}
	return e
}

func validateEntry(e Entry) error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.URL == "" {
		return fmt.Errorf("url is required for request %q", e.Name)
	}
	switch e.Decode {
	case DecodeRaw, DecodeText, DecodeJSON, DecodeHTML:
	default:
		return fmt.Errorf("unsupported decode %q for request %q", e.Decode, e.Name)
	}
	if e.Body != nil {
		switch e.Body.Kind {
		case BodyRaw, BodyForm, BodyJSON:
		default:
			return fmt.Errorf("unsupported body kind %q for request %q", e.Body.Kind, e.Name)
		}
	}
	if e.Expect != nil && e.Expect.Status != "" {
		if _, err := httpclient.ParseStatusRange(e.Expect.Status); err != nil {
			return fmt.Errorf("expect.status for request %q: %w", e.Name, err)
		}
	}
	return nil
}

func trimMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ByName returns the entry with the given name.
func (c *Collection) ByName(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.idx[strings.TrimSpace(name)]
	if !ok {
		return Entry{}, false
	}
	return c.Requests[i], true
}

// Enabled returns the entries to run, in file order.
func (c *Collection) Enabled() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.Requests))
	for _, e := range c.Requests {
		if e.EnabledValue() {
			out = append(out, e)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (e Entry) EnabledValue() bool {
	return e.Enabled == nil || *e.Enabled
}

// Validate normalizes an entry built outside a collection file and checks it
// the same way Parse does.
func Validate(e Entry) (Entry, error) {
	e = sanitizeEntry(e)
	if err := validateEntry(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Subset returns a collection holding only the named entries, in file order.
func (c *Collection) Subset(names ...string) (*Collection, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if _, ok := c.idx[n]; !ok {
			return nil, fmt.Errorf("collection has no request named %q", n)
		}
		want[n] = true
	}
	out := &Collection{
		Name:           c.Name,
		RequestDelayMs: c.RequestDelayMs,
		idx:            make(map[string]int, len(want)),
	}
	for _, e := range c.Requests {
		if want[e.Name] {
			out.idx[e.Name] = len(out.Requests)
			out.Requests = append(out.Requests, e)
		}
	}
	return out, nil
}
