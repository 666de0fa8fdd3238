package publishers

import (
	"strconv"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	"github.com/samvad-hq/samvad-httpkit/internal/logger"
)

// EventExchangeFinished is emitted once per exchange reaching a terminal state.
const EventExchangeFinished = "exchange.finished"

// Event represents the payload published downstream.
type Event struct {
	Type      string                `json:"type"`
	Source    string                `json:"source"`
	Exchange  domain.ExchangeRecord `json:"exchange"`
	EmittedAt time.Time             `json:"emitted_at"`
}

// NewEvent constructs an Event for a finished exchange.
func NewEvent(source string, rec domain.ExchangeRecord) Event {
	return Event{
		Type:      EventExchangeFinished,
		Source:    source,
		Exchange:  rec,
		EmittedAt: time.Now().UTC(),
	}
}

// attributes returns the routing attributes attached to queue messages, so
// subscribers can filter on the same fields as publisher rules.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"event_type":  e.Type,
		"exchange_id": e.Exchange.ID,
		"status":      e.Exchange.Status,
		"request":     e.Exchange.Name,
		"error_kind":  ErrorKind(e.Exchange.ErrorCode),
	}
	if e.Exchange.StatusCode != 0 {
		attrs["status_code"] = strconv.Itoa(e.Exchange.StatusCode)
	}
	return attrs
}

// messageAttributes converts the non-empty routing attributes of e into a
// broker's attribute type.
func messageAttributes[T any](e Event, conv func(string) T) map[string]T {
	out := make(map[string]T)
	for k, v := range e.attributes() {
		if v != "" {
			out[k] = conv(v)
		}
	}
	return out
}

// logSend records the outcome of handing evt to a broker.
func logSend(log logger.Logger, broker, target string, evt Event, messageID string, err error) {
	meta := map[string]any{
		"broker":      broker,
		"target":      target,
		"exchange_id": evt.Exchange.ID,
	}
	if err != nil {
		meta["error"] = err.Error()
		log.ErrorObj("publisher send failed", "publisher_send_error", meta)
		return
	}
	meta["message_id"] = messageID
	log.DebugObj("publisher delivered event", "publisher_delivery", meta)
}
