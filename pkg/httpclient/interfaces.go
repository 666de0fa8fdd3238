package httpclient

import (
	"context"
	"net/http"
)

// TransportResponse is what a transport reports for a completed round trip.
type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs the byte-level exchange for a built request.
// It must honour ctx cancellation.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*TransportResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *Request) (*TransportResponse, error)

func (f TransportFunc) RoundTrip(ctx context.Context, req *Request) (*TransportResponse, error) {
	return f(ctx, req)
}

// Hook observes exchanges once they reach a terminal state.
type Hook interface {
	ExchangeDone(ctx context.Context, s Summary)
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, s Summary)

func (f HookFunc) ExchangeDone(ctx context.Context, s Summary) { f(ctx, s) }
