package httpclient

import (
	"encoding/base64"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
)

// Header is a single HTTP header field.
type Header struct {
	Name  string
	Value string
}

func (h Header) String() string { return h.Name + ": " + h.Value }

// Authorization builds an Authorization header with a raw credential value.
func Authorization(value string) Header {
	return Header{Name: "Authorization", Value: value}
}

// BasicAuth builds a Basic Authorization header.
func BasicAuth(username, password string) Header {
	credential := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Authorization("Basic " + credential)
}

// BearerToken builds a Bearer Authorization header.
func BearerToken(token string) Header {
	return Authorization("Bearer " + token)
}

// Headers is an insertion-ordered header set keyed by canonical header name.
// Each distinct name holds exactly one value; later writes replace earlier ones.
// A nil *Headers is a valid empty set for reads.
type Headers struct {
	names  []string
	values map[string]string
}

// NewHeaders builds a header set from the given fields.
func NewHeaders(fields ...Header) *Headers {
	h := &Headers{values: make(map[string]string, len(fields))}
	for _, f := range fields {
		h.Set(f.Name, f.Value)
	}
	return h
}

// HeadersFromHTTP converts transport-reported header fields. Names are visited
// in sorted order and multi-valued fields are joined with ", ".
func HeadersFromHTTP(src http.Header) *Headers {
	h := NewHeaders()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(k, strings.Join(src[k], ", "))
	}
	return h
}

func canonicalName(name string) string {
	return textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))
}

// Set stores value under name, keeping the original position when the name exists.
func (h *Headers) Set(name, value string) {
	key := canonicalName(name)
	if key == "" {
		return
	}
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[key]; !ok {
		h.names = append(h.names, key)
	}
	h.values[key] = value
}

// Add stores a header field.
func (h *Headers) Add(f Header) { h.Set(f.Name, f.Value) }

// Get returns the value for name or "".
func (h *Headers) Get(name string) string {
	if h == nil {
		return ""
	}
	return h.values[canonicalName(name)]
}

// Lookup returns the value for name and whether it is present.
func (h *Headers) Lookup(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	v, ok := h.values[canonicalName(name)]
	return v, ok
}

// Has reports whether name is present.
func (h *Headers) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Del removes name from the set.
func (h *Headers) Del(name string) {
	if h == nil {
		return
	}
	key := canonicalName(name)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, n := range h.names {
		if n == key {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of distinct names.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// All returns the fields in insertion order.
func (h *Headers) All() []Header {
	if h == nil {
		return nil
	}
	out := make([]Header, 0, len(h.names))
	for _, n := range h.names {
		out = append(out, Header{Name: n, Value: h.values[n]})
	}
	return out
}

// Merge copies every field of other into h, overwriting existing names.
func (h *Headers) Merge(other *Headers) {
	for _, f := range other.All() {
		h.Set(f.Name, f.Value)
	}
}

// Clone returns an independent copy.
func (h *Headers) Clone() *Headers {
	out := NewHeaders()
	out.Merge(h)
	return out
}

// HTTP converts the set into a net/http header map.
func (h *Headers) HTTP() http.Header {
	out := make(http.Header, h.Len())
	for _, f := range h.All() {
		out[f.Name] = []string{f.Value}
	}
	return out
}

// Map returns the fields as a plain name -> value map.
func (h *Headers) Map() map[string]string {
	out := make(map[string]string, h.Len())
	for _, f := range h.All() {
		out[f.Name] = f.Value
	}
	return out
}

func (h *Headers) String() string {
	lines := make([]string, 0, h.Len())
	for _, f := range h.All() {
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}
