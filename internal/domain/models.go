package domain

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-httpkit/pkg/checksum"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

// ExchangeRecord is the persisted and published view of a finished exchange.
type ExchangeRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Status     string            `json:"status"`
	StatusCode int               `json:"status_code,omitempty"`
	ErrorCode  int               `json:"error_code,omitempty"`
	Error      string            `json:"error,omitempty"`
	BodyBytes  int               `json:"body_bytes"`
	BodySHA256 checksum.Checksum `json:"body_sha256,omitzero"`
	StartedAt  time.Time         `json:"started_at"`
	DurationMS int64             `json:"duration_ms"`
}

// NewExchangeRecord flattens a hook summary. The request name, if any, is
// taken from ctx.
func NewExchangeRecord(ctx context.Context, s httpclient.Summary) ExchangeRecord {
	rec := ExchangeRecord{
		ID:         s.ExchangeID,
		Name:       RequestName(ctx),
		Method:     s.Method.String(),
		URL:        s.URL,
		Status:     s.Status.String(),
		StatusCode: s.StatusCode,
		BodyBytes:  s.BodySize,
		BodySHA256: s.BodyChecksum,
		StartedAt:  s.StartedAt.UTC(),
		DurationMS: s.Duration.Milliseconds(),
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
		rec.ErrorCode = int(httpclient.CodeOf(s.Err))
	}
	return rec
}

type requestNameKey struct{}

// WithRequestName tags ctx with the collection entry being dispatched.
func WithRequestName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, requestNameKey{}, name)
}

// RequestName returns the name set by WithRequestName.
func RequestName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(requestNameKey{}).(string)
	return name
}
