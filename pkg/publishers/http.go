package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-httpkit/internal/logger"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

const httpErrorSnippet = 512

// httpPublisher posts events through an exchange client of its own. That
// client carries no hooks, so deliveries never produce events themselves.
type httpPublisher struct {
	id      string
	method  httpclient.Method
	url     string
	headers *httpclient.Headers
	client  *httpclient.Client
	log     logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	timeout := cfg.HTTP.timeout()
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = timeout
	clientCfg.LogLevel = httpclient.LevelNone

	headers := httpclient.NewHeaders()
	for k, v := range cfg.HTTP.Headers {
		headers.Set(k, v)
	}
	return &httpPublisher{
		id:      cfg.ID,
		method:  httpclient.ParseMethod(cfg.HTTP.Method),
		url:     cfg.HTTP.URL,
		headers: headers,
		client:  httpclient.New(clientCfg, httpclient.WithTransport(httpclient.NewRestyTransport(timeout))),
		log:     orNop(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends evt as JSON. Any 2xx answer counts as delivered, including
// an empty one.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	headers := h.headers.Clone()
	headers.Set("X-Exchange-Id", evt.Exchange.ID)
	headers.Set("X-Event-Type", evt.Type)

	resp := httpclient.Fetch(ctx, h.client, h.method, h.url, headers, httpclient.JSONBody(evt), httpclient.RawDecoder())
	if resp.Err == nil || (resp.HasStatus() && errors.Is(resp.Err, httpclient.ErrInvalidData)) {
		return nil
	}
	if resp.HasStatus() {
		h.log.WarnObj("http publisher rejected event", "publisher_http_status", map[string]any{
			"publisher_id": h.id,
			"exchange_id":  evt.Exchange.ID,
			"status":       resp.StatusCode,
		})
	}
	if snippet := bodySnippet(resp.Raw); snippet != "" {
		return fmt.Errorf("deliver event: %w: %s", resp.Err, snippet)
	}
	return fmt.Errorf("deliver event: %w", resp.Err)
}

func bodySnippet(body []byte) string {
	return strings.TrimSpace(string(body[:min(len(body), httpErrorSnippet)]))
}
