package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
)

// Body describes how a request payload is produced. A nil Body sends nothing.
type Body interface {
	encode(m Method) (encodedBody, error)
}

// encodedBody is the outcome of encoding a Body for a given method.
type encodedBody struct {
	payload     []byte
	query       string
	contentType ContentType
}

type rawBody []byte

// RawBody sends b unchanged without touching Content-Type.
func RawBody(b []byte) Body { return rawBody(b) }

func (b rawBody) encode(Method) (encodedBody, error) {
	return encodedBody{payload: append([]byte(nil), b...)}, nil
}

type formBody url.Values

// FormBody url-encodes values. GET, OPTIONS and TRACE carry them in the query
// string; every other method sends them as the request body.
func FormBody(values url.Values) Body { return formBody(values) }

func (f formBody) encode(m Method) (encodedBody, error) {
	encoded := url.Values(f).Encode()
	if m.formInQuery() {
		return encodedBody{query: encoded}, nil
	}
	return encodedBody{payload: []byte(encoded), contentType: ContentTypeFormURLEncoded}, nil
}

type jsonBody struct{ v any }

var errJSONTopLevel = errors.New("top-level JSON value must be an object or an array")

// JSONBody serialises a generic JSON value. Like a JSON document root, the
// value must encode to an object or an array.
func JSONBody(v any) Body { return jsonBody{v: v} }

func (j jsonBody) encode(Method) (encodedBody, error) {
	payload, err := json.Marshal(j.v)
	if err != nil {
		return encodedBody{}, err
	}
	if trimmed := bytes.TrimSpace(payload); len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return encodedBody{}, errJSONTopLevel
	}
	return encodedBody{payload: payload, contentType: ContentTypeJSON}, nil
}

type objectBody struct{ v any }

// ObjectBody serialises any encodable Go value as JSON.
func ObjectBody(v any) Body { return objectBody{v: v} }

func (o objectBody) encode(Method) (encodedBody, error) {
	payload, err := json.Marshal(o.v)
	if err != nil {
		return encodedBody{}, err
	}
	return encodedBody{payload: payload, contentType: ContentTypeJSON}, nil
}
