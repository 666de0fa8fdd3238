package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
)

// Package storage keeps a local journal of finished exchanges.

// Store records exchange summaries and answers history queries.
type Store interface {
	Close() error
	Record(rec domain.ExchangeRecord) error
	Get(id string) (domain.ExchangeRecord, bool, error)
	Recent(limit int) ([]domain.ExchangeRecord, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRecordTTL       = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) Record(domain.ExchangeRecord) error { return nil }
func (noopStore) Get(string) (domain.ExchangeRecord, bool, error) {
	return domain.ExchangeRecord{}, false, nil
}
func (noopStore) Recent(int) ([]domain.ExchangeRecord, error) { return nil, nil }
