package httpclient

import "strings"

// Method is an HTTP request method.
type Method string

const (
	MethodOptions Method = "OPTIONS"
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

var knownMethods = map[Method]bool{
	MethodOptions: true,
	MethodGet:     true,
	MethodHead:    true,
	MethodPost:    true,
	MethodPut:     true,
	MethodPatch:   true,
	MethodDelete:  true,
	MethodTrace:   true,
	MethodConnect: true,
}

// ParseMethod maps textual input onto a known method, defaulting to GET.
func ParseMethod(s string) Method {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if knownMethods[m] {
		return m
	}
	return MethodGet
}

func (m Method) String() string { return string(m) }

// In reports whether m is one of methods.
func (m Method) In(methods ...Method) bool {
	for _, o := range methods {
		if m == o {
			return true
		}
	}
	return false
}

// formInQuery reports whether form parameters go into the query string.
func (m Method) formInQuery() bool {
	return m.In(MethodGet, MethodOptions, MethodTrace)
}
