package app

import (
	"context"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	"github.com/samvad-hq/samvad-httpkit/internal/logger"
	"github.com/samvad-hq/samvad-httpkit/internal/storage"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

// journal persists a record of every finished exchange.
type journal struct {
	store storage.Store
	log   logger.Logger
}

func (j *journal) ExchangeDone(ctx context.Context, s httpclient.Summary) {
	rec := domain.NewExchangeRecord(ctx, s)
	if err := j.store.Record(rec); err != nil {
		j.log.ErrorObj("exchange journal write failed", "journal_error", map[string]any{
			"exchange_id": rec.ID,
			"error":       err.Error(),
		})
	}
}
