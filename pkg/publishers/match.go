package publishers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

// Error kinds an exchange can fail with, derived from its error code.
const (
	ErrorKindValidation = "validation"
	ErrorKindTransport  = "transport"
	ErrorKindDecoding   = "decoding"
	ErrorKindRequest    = "request"
	ErrorKindResponse   = "response"
	ErrorKindUnknown    = "unknown"
)

var errorKinds = []string{
	ErrorKindValidation, ErrorKindTransport, ErrorKindDecoding,
	ErrorKindRequest, ErrorKindResponse, ErrorKindUnknown,
}

var terminalStatuses = []string{
	httpclient.StatusCompleted.String(),
	httpclient.StatusErrored.String(),
	httpclient.StatusCancelled.String(),
}

// ErrorKind groups an exchange error code. Zero means no error and yields "".
func ErrorKind(code int) string {
	c := httpclient.StatusCode(code)
	switch {
	case code == 0:
		return ""
	case c.IsHTTP(), c == httpclient.CodeUnexpectedMimeType:
		return ErrorKindValidation
	case c == httpclient.CodeTransport:
		return ErrorKindTransport
	case c == httpclient.CodeJSONParsing, c == httpclient.CodeObjectParsing:
		return ErrorKindDecoding
	case c == httpclient.CodeInvalidURL, c == httpclient.CodeInvalidRequestState, c == httpclient.CodeJSONEncoding:
		return ErrorKindRequest
	case c == httpclient.CodeInvalidResponse, c == httpclient.CodeInvalidData:
		return ErrorKindResponse
	}
	return ErrorKindUnknown
}

// Match selects exchanges by outcome. Every field that is set must match;
// within a list any entry may match.
type Match struct {
	Statuses    []string `json:"statuses" yaml:"statuses"`
	ErrorKinds  []string `json:"error_kinds" yaml:"error_kinds"`
	StatusCodes string   `json:"status_codes" yaml:"status_codes"`
	Requests    []string `json:"requests" yaml:"requests"`
}

// Matcher is a compiled Match. The zero Matcher accepts everything.
type Matcher struct {
	statuses []string
	kinds    []string
	codes    *httpclient.StatusRange
	requests []string
}

// Compile checks the rule values and lowercases statuses and error kinds.
func (m Match) Compile() (Matcher, error) {
	var out Matcher
	for _, s := range m.Statuses {
		s = strings.ToLower(strings.TrimSpace(s))
		if !slices.Contains(terminalStatuses, s) {
			return Matcher{}, fmt.Errorf("status %q is not one of %s", s, strings.Join(terminalStatuses, ", "))
		}
		out.statuses = append(out.statuses, s)
	}
	for _, k := range m.ErrorKinds {
		k = strings.ToLower(strings.TrimSpace(k))
		if !slices.Contains(errorKinds, k) {
			return Matcher{}, fmt.Errorf("error kind %q is not one of %s", k, strings.Join(errorKinds, ", "))
		}
		out.kinds = append(out.kinds, k)
	}
	if strings.TrimSpace(m.StatusCodes) != "" {
		r, err := httpclient.ParseStatusRange(m.StatusCodes)
		if err != nil {
			return Matcher{}, err
		}
		out.codes = &r
	}
	for _, name := range m.Requests {
		if name = strings.TrimSpace(name); name != "" {
			out.requests = append(out.requests, name)
		}
	}
	return out, nil
}

// Matches reports whether rec passes every configured rule.
func (m Matcher) Matches(rec domain.ExchangeRecord) bool {
	if len(m.statuses) > 0 && !slices.Contains(m.statuses, rec.Status) {
		return false
	}
	if len(m.kinds) > 0 && !slices.Contains(m.kinds, ErrorKind(rec.ErrorCode)) {
		return false
	}
	if m.codes != nil && !m.codes.Contains(rec.StatusCode) {
		return false
	}
	if len(m.requests) > 0 && !slices.Contains(m.requests, rec.Name) {
		return false
	}
	return true
}
