package httpclienttest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

// Exchange is one recorded round trip.
type Exchange struct {
	Request  RecordedRequest  `json:"request"`
	Response RecordedResponse `json:"response"`
}

type RecordedRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

type RecordedResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers,omitempty"`
	BodyString string      `json:"body_string,omitempty"`
	BodyBytes  []byte      `json:"body_bytes,omitempty"`
}

func (r RecordedResponse) body() []byte {
	if len(r.BodyBytes) > 0 {
		return r.BodyBytes
	}
	if r.BodyString == "" {
		return nil
	}
	return []byte(r.BodyString)
}

// Recorder forwards to an inner transport and keeps every exchange so it can
// be written as a JSON fixture.
type Recorder struct {
	file  string
	inner httpclient.Transport

	mu        sync.Mutex
	exchanges []Exchange
}

var _ httpclient.Transport = (*Recorder)(nil)

func NewRecorder(file string, inner httpclient.Transport) *Recorder {
	return &Recorder{file: file, inner: inner}
}

func (r *Recorder) RoundTrip(ctx context.Context, req *httpclient.Request) (*httpclient.TransportResponse, error) {
	resp, err := r.inner.RoundTrip(ctx, req)
	if err != nil {
		return nil, err
	}

	ex := Exchange{
		Request: RecordedRequest{
			Method:  req.Method().String(),
			URL:     req.URL().String(),
			Headers: req.Headers().Map(),
		},
		Response: RecordedResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header.Clone(),
		},
	}
	if utf8.Valid(resp.Body) {
		ex.Response.BodyString = string(resp.Body)
	} else {
		ex.Response.BodyBytes = append([]byte(nil), resp.Body...)
	}

	r.mu.Lock()
	r.exchanges = append(r.exchanges, ex)
	r.mu.Unlock()
	return resp, nil
}

// Exchanges returns what was recorded so far.
func (r *Recorder) Exchanges() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Exchange(nil), r.exchanges...)
}

// Close writes the fixture file.
func (r *Recorder) Close() error {
	f, err := os.Create(r.file)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	r.mu.Lock()
	defer r.mu.Unlock()
	return enc.Encode(r.exchanges)
}

// Replayer answers requests from a fixture, in recorded order.
type Replayer struct {
	mu        sync.Mutex
	exchanges []Exchange
	matcher   func(*httpclient.Request, RecordedRequest) bool
}

var _ httpclient.Transport = (*Replayer)(nil)

// ErrExhausted is returned once every recorded exchange was replayed.
var ErrExhausted = errors.New("httpclienttest: no exchanges remain to replay")

func NewReplayer(file string) (*Replayer, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var exchanges []Exchange
	if err := json.NewDecoder(f).Decode(&exchanges); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", file, err)
	}
	return &Replayer{exchanges: exchanges, matcher: DefaultMatcher}, nil
}

func (r *Replayer) RoundTrip(ctx context.Context, req *httpclient.Request) (*httpclient.TransportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	if len(r.exchanges) == 0 {
		r.mu.Unlock()
		return nil, ErrExhausted
	}
	ex := r.exchanges[0]
	r.exchanges = r.exchanges[1:]
	r.mu.Unlock()

	if !r.matcher(req, ex.Request) {
		return nil, fmt.Errorf("httpclienttest: %s does not match recorded %s %s", req, ex.Request.Method, ex.Request.URL)
	}
	return &httpclient.TransportResponse{
		StatusCode: ex.Response.StatusCode,
		Header:     ex.Response.Headers.Clone(),
		Body:       ex.Response.body(),
	}, nil
}

// DefaultMatcher compares method and URL. Headers are not compared since the
// default User-Agent varies by host.
func DefaultMatcher(req *httpclient.Request, stored RecordedRequest) bool {
	return req.Method().String() == stored.Method && req.URL().String() == stored.URL
}
