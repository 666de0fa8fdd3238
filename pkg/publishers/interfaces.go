package publishers

import "context"

// Publisher sends events to a downstream sink (SQS, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// sender is the transport half of a queue-backed publisher.
type sender interface {
	Send(ctx context.Context, evt Event) error
}

// closer is implemented by senders holding client connections.
type closer interface {
	Close() error
}
