// Package httpclienttest provides in-memory transports for exercising
// httpclient without a network.
package httpclienttest

import (
	"context"
	"net/http"
	"sync"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

// Stub answers every request with a fixed response or error and keeps the
// requests it saw.
type Stub struct {
	Status int
	Header http.Header
	Body   []byte
	Err    error

	mu       sync.Mutex
	requests []*httpclient.Request
}

var _ httpclient.Transport = (*Stub)(nil)

// NewStub returns a stub answering status with body and the given content type.
func NewStub(status int, contentType string, body []byte) *Stub {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Stub{Status: status, Header: h, Body: body}
}

func (s *Stub) RoundTrip(ctx context.Context, req *httpclient.Request) (*httpclient.TransportResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return &httpclient.TransportResponse{
		StatusCode: s.Status,
		Header:     s.Header.Clone(),
		Body:       append([]byte(nil), s.Body...),
	}, nil
}

// Requests returns the requests received so far.
func (s *Stub) Requests() []*httpclient.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*httpclient.Request(nil), s.requests...)
}

// Last returns the most recent request, or nil.
func (s *Stub) Last() *httpclient.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// Gate holds every round trip until Release is called or ctx ends. Entered
// receives one value per request that reached the transport.
type Gate struct {
	Next    httpclient.Transport
	Entered chan struct{}

	once    sync.Once
	release chan struct{}
}

// NewGate wraps next. Entered is buffered for buffer requests.
func NewGate(next httpclient.Transport, buffer int) *Gate {
	return &Gate{
		Next:    next,
		Entered: make(chan struct{}, buffer),
		release: make(chan struct{}),
	}
}

func (g *Gate) RoundTrip(ctx context.Context, req *httpclient.Request) (*httpclient.TransportResponse, error) {
	select {
	case g.Entered <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.Next.RoundTrip(ctx, req)
}

// Release lets held and future round trips proceed.
func (g *Gate) Release() { g.once.Do(func() { close(g.release) }) }

// Loopback answers 200 with the request body and content type echoed back.
type Loopback struct{}

func (Loopback) RoundTrip(ctx context.Context, req *httpclient.Request) (*httpclient.TransportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := http.Header{}
	if ct := req.Headers().Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}
	return &httpclient.TransportResponse{StatusCode: http.StatusOK, Header: h, Body: req.Body()}, nil
}
