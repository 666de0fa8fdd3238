package publishers

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-httpkit/internal/logger"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Builders maps publisher types to their constructors.
type Builders map[string]Builder

// DefaultBuilders knows every publisher type this package ships.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	}
}

// Build creates a publisher for each config and routes it through the
// config's When rules. Disabled configs are skipped. If any entry fails,
// publishers already built are closed.
func (b Builders) Build(ctx context.Context, cfgs []PublisherConfig, log logger.Logger) (*Fanout, error) {
	log = orNop(log)
	f := NewFanout()
	for _, cfg := range Enabled(cfgs) {
		match, err := cfg.When.Compile()
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("publisher %q: when: %w", cfg.ID, err)
		}
		build, ok := b[cfg.Type]
		if !ok {
			_ = f.Close()
			return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		f.Route(pub, match)
	}
	return f, nil
}

func orNop(log logger.Logger) logger.Logger {
	if log == nil {
		return &logger.NopLogger{}
	}
	return log
}
