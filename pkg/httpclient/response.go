package httpclient

import (
	"time"
	"unicode/utf8"
)

// Response is the outcome of one exchange, interpreted as T.
//
// Raw keeps whatever bytes the transport delivered, even when validation or
// decoding failed. Value is only meaningful when HasValue is true. Err holds
// the single terminal failure of the exchange.
type Response[T any] struct {
	ExchangeID string
	StatusCode int
	Header     *Headers
	Raw        []byte
	Value      T
	HasValue   bool
	Err        error
	Duration   time.Duration
}

// HasStatus reports whether a status line was received.
func (r *Response[T]) HasStatus() bool { return r.StatusCode != 0 }

// OK reports whether the exchange completed without error.
func (r *Response[T]) OK() bool { return r.Err == nil }

// Status returns the received status, or the code of the captured failure
// when nothing was received.
func (r *Response[T]) Status() StatusCode {
	if r.HasStatus() {
		return StatusCode(r.StatusCode)
	}
	if r.Err != nil {
		return CodeOf(r.Err)
	}
	return CodeUnknown
}

// MimeType returns the media type the server declared.
func (r *Response[T]) MimeType() ContentType {
	return MediaType(r.Header.Get("Content-Type"))
}

// Text returns Raw as a string when it is valid UTF-8.
func (r *Response[T]) Text() (string, bool) {
	if r.Raw == nil || !utf8.Valid(r.Raw) {
		return "", false
	}
	return string(r.Raw), true
}
