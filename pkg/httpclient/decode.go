package httpclient

import (
	"encoding/json"
	"unicode/utf8"
)

// Decoder interprets response bytes. It returns the value, whether a value is
// present, and a failure. Decoders are pure and never retain body.
type Decoder[T any] func(body []byte) (value T, ok bool, err error)

// JSONValue is a generic parsed JSON document.
type JSONValue struct {
	Value   any
	IsArray bool
}

// Object returns the top-level object, if the document is one.
func (v JSONValue) Object() (map[string]any, bool) {
	m, ok := v.Value.(map[string]any)
	return m, ok
}

// Array returns the top-level array, if the document is one.
func (v JSONValue) Array() ([]any, bool) {
	a, ok := v.Value.([]any)
	return a, ok
}

// RawDecoder exposes the bytes unchanged.
func RawDecoder() Decoder[[]byte] {
	return func(body []byte) ([]byte, bool, error) {
		return body, true, nil
	}
}

// TextDecoder reads UTF-8 text. Invalid text yields no value and no error.
func TextDecoder() Decoder[string] {
	return func(body []byte) (string, bool, error) {
		if !utf8.Valid(body) {
			return "", false, nil
		}
		return string(body), true, nil
	}
}

// JSONDecoder parses a generic JSON value and flags top-level arrays.
func JSONDecoder() Decoder[JSONValue] {
	return func(body []byte) (JSONValue, bool, error) {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return JSONValue{}, false, &Error{Code: CodeJSONParsing, Err: err}
		}
		_, isArray := v.([]any)
		return JSONValue{Value: v, IsArray: isArray}, true, nil
	}
}

// ObjectDecoder decodes JSON into T.
func ObjectDecoder[T any]() Decoder[T] {
	return func(body []byte) (T, bool, error) {
		var out T
		if err := json.Unmarshal(body, &out); err != nil {
			var zero T
			return zero, false, &Error{Code: CodeObjectParsing, Err: err}
		}
		return out, true, nil
	}
}
