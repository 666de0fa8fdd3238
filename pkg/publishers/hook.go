package publishers

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	"github.com/samvad-hq/samvad-httpkit/internal/logger"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

const defaultPublishTimeout = 10 * time.Second

// Hook publishes an exchange.finished event for every terminal exchange.
type Hook struct {
	fanout  *Fanout
	source  string
	timeout time.Duration
	log     logger.Logger
}

var _ httpclient.Hook = (*Hook)(nil)

// NewHook returns a client hook feeding f. source identifies this process in
// emitted events.
func NewHook(f *Fanout, source string, log logger.Logger) *Hook {
	return &Hook{fanout: f, source: source, timeout: defaultPublishTimeout, log: orNop(log)}
}

// ExchangeDone implements httpclient.Hook. Delivery errors are logged, not
// propagated.
func (h *Hook) ExchangeDone(ctx context.Context, s httpclient.Summary) {
	if h == nil || h.fanout.Size() == 0 {
		return
	}

	// publish even when the exchange ctx is already cancelled
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()

	rec := domain.NewExchangeRecord(ctx, s)
	d, err := h.fanout.Publish(pubCtx, NewEvent(h.source, rec))
	meta := map[string]any{
		"exchange_id": rec.ID,
		"status":      rec.Status,
		"error_kind":  ErrorKind(rec.ErrorCode),
		"delivered":   d.Delivered,
		"skipped":     d.Skipped,
		"failed":      d.Failed,
	}
	if err != nil {
		meta["error"] = err.Error()
		h.log.WarnObj("exchange event delivery failed", "publish_failure", meta)
		return
	}
	h.log.DebugObj("exchange event published", "publish_result", meta)
}
