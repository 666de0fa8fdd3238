package publishers

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-httpkit/internal/logger"
)

// queuePublisher adapts a message sender to the Publisher interface.
type queuePublisher struct {
	id     string
	typ    string
	sender sender
}

var (
	newSQSPublisher = queueBuilder(TypeSQS,
		func(c PublisherConfig) *SQSConfig { return c.SQS },
		func(ctx context.Context, c *SQSConfig, log logger.Logger) (sender, error) {
			return newAWSSQSSender(ctx, c, log)
		})
	newSNSPublisher = queueBuilder(TypeSNS,
		func(c PublisherConfig) *SNSConfig { return c.SNS },
		func(ctx context.Context, c *SNSConfig, log logger.Logger) (sender, error) {
			return newAWSSNSSender(ctx, c, log)
		})
	newPubSubPublisher = queueBuilder(TypePubSub,
		func(c PublisherConfig) *PubSubConfig { return c.PubSub },
		func(ctx context.Context, c *PubSubConfig, log logger.Logger) (sender, error) {
			return newGCPPubSubSender(ctx, c, log)
		})
)

// queueBuilder returns a Builder that pulls the typ settings out of a config
// and connects a sender with them.
func queueBuilder[C any](
	typ string,
	settings func(PublisherConfig) *C,
	connect func(context.Context, *C, logger.Logger) (sender, error),
) Builder {
	return func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
		c := settings(cfg)
		if c == nil {
			return nil, fmt.Errorf("publisher %q missing %s configuration", cfg.ID, typ)
		}
		s, err := connect(ctx, c, orNop(log))
		if err != nil {
			return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
		}
		return &queuePublisher{id: cfg.ID, typ: typ, sender: s}, nil
	}
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	return q.sender.Send(ctx, evt)
}

// Close releases the underlying client, if any.
func (q *queuePublisher) Close() error {
	if c, ok := q.sender.(closer); ok {
		return c.Close()
	}
	return nil
}
