package httpclient

import (
	"fmt"
	"net/http"
)

// StatusCode is a received HTTP status or a synthetic library failure code.
// Synthetic codes start at 1000 and never collide with HTTP statuses.
type StatusCode int

const (
	CodeUnknown             StatusCode = 1000
	CodeInvalidURL          StatusCode = 1001
	CodeInvalidRequestState StatusCode = 1002
	CodeInvalidResponse     StatusCode = 1003
	CodeInvalidData         StatusCode = 1004
	CodeTransport           StatusCode = 1005
	CodeJSONParsing         StatusCode = 1006
	CodeObjectParsing       StatusCode = 1007
	CodeUnexpectedMimeType  StatusCode = 1009
	CodeJSONEncoding        StatusCode = 1010
)

var syntheticText = map[StatusCode]string{
	CodeUnknown:             "Unknown",
	CodeInvalidURL:          "Invalid URL",
	CodeInvalidRequestState: "Invalid Request State",
	CodeInvalidResponse:     "Invalid Response",
	CodeInvalidData:         "Invalid Data",
	CodeTransport:           "Transport Error",
	CodeJSONParsing:         "JSON Parsing Error",
	CodeObjectParsing:       "Object Parsing Error",
	CodeUnexpectedMimeType:  "Unexpected MIME Type",
	CodeJSONEncoding:        "JSON Encoding Error",
}

// Text returns the human readable description of the code.
func (c StatusCode) Text() string {
	if s, ok := syntheticText[c]; ok {
		return s
	}
	if s := http.StatusText(int(c)); s != "" {
		return s
	}
	return "Unknown"
}

func (c StatusCode) String() string { return fmt.Sprintf("%d %s", int(c), c.Text()) }

// IsSynthetic reports whether c is a library-internal failure code.
func (c StatusCode) IsSynthetic() bool { return c >= CodeUnknown }

// IsHTTP reports whether c lies in the standard HTTP status ranges.
func (c StatusCode) IsHTTP() bool { return c >= 100 && c <= 599 }

// ExchangeStatus is the lifecycle state of an Exchange.
type ExchangeStatus int

const (
	StatusPending ExchangeStatus = iota
	StatusRunning
	StatusCompleted
	StatusErrored
	StatusCancelled
)

func (s ExchangeStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusErrored:
		return "errored"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen from s.
func (s ExchangeStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusErrored || s == StatusCancelled
}
