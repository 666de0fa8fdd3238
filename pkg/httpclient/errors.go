package httpclient

import (
	"errors"
	"fmt"
)

// Failure kinds. Every *Error matches exactly one of these through errors.Is,
// except HTTP-status and MIME failures which also match ErrValidation.
var (
	ErrUnknown             = errors.New("httpclient: unknown failure")
	ErrInvalidURL          = errors.New("httpclient: invalid url")
	ErrInvalidRequestState = errors.New("httpclient: invalid request state")
	ErrInvalidResponse     = errors.New("httpclient: invalid response")
	ErrInvalidData         = errors.New("httpclient: no response data")
	ErrTransport           = errors.New("httpclient: transport error")
	ErrValidation          = errors.New("httpclient: response validation failed")
	ErrUnexpectedMimeType  = errors.New("httpclient: unexpected mime type")
	ErrJSONParsing         = errors.New("httpclient: json parsing failed")
	ErrObjectParsing       = errors.New("httpclient: object parsing failed")
	ErrJSONEncoding        = errors.New("httpclient: json encoding failed")
	ErrCancelled           = errors.New("httpclient: exchange cancelled")
)

var kindByCode = map[StatusCode]error{
	CodeUnknown:             ErrUnknown,
	CodeInvalidURL:          ErrInvalidURL,
	CodeInvalidRequestState: ErrInvalidRequestState,
	CodeInvalidResponse:     ErrInvalidResponse,
	CodeInvalidData:         ErrInvalidData,
	CodeTransport:           ErrTransport,
	CodeJSONParsing:         ErrJSONParsing,
	CodeObjectParsing:       ErrObjectParsing,
	CodeUnexpectedMimeType:  ErrUnexpectedMimeType,
	CodeJSONEncoding:        ErrJSONEncoding,
}

// Error is a failure captured on an exchange or during request construction.
type Error struct {
	Code   StatusCode
	Method Method
	URL    string
	Err    error
}

func newError(code StatusCode, req *Request, cause error) *Error {
	e := &Error{Code: code, Err: cause}
	if req != nil {
		e.Method = req.method
		if req.url != nil {
			e.URL = req.url.String()
		}
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Method != "" && e.URL != "" {
		msg = fmt.Sprintf("%s (%s): %s", e.Method, e.URL, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the failure kind sentinels.
func (e *Error) Is(target error) bool {
	if target == ErrValidation {
		return e.Code.IsHTTP() || e.Code == CodeUnexpectedMimeType
	}
	if kind, ok := kindByCode[e.Code]; ok {
		return kind == target
	}
	return false
}

// withRequest fills the request coordinates of err when it is an *Error that
// was produced without them.
func withRequest(err error, req *Request) error {
	var e *Error
	if !errors.As(err, &e) || e.URL != "" || req == nil {
		return err
	}
	cp := *e
	cp.Method = req.method
	if req.url != nil {
		cp.URL = req.url.String()
	}
	return &cp
}

// CodeOf returns the status code carried by err: 0 for nil, CodeUnknown for
// errors that are not an *Error.
func CodeOf(err error) StatusCode {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
