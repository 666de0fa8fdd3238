package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/config"
	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	"github.com/samvad-hq/samvad-httpkit/internal/logger"
	"github.com/samvad-hq/samvad-httpkit/internal/metrics"
	"github.com/samvad-hq/samvad-httpkit/internal/storage"
	"github.com/samvad-hq/samvad-httpkit/pkg/collection"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpkit/pkg/publishers"
	"go.uber.org/zap"
)

// Runner owns the configured client and everything observing it: the
// exchange journal, metrics and downstream publishers.
type Runner struct {
	cfg     *config.Config
	client  *httpclient.Client
	store   storage.Store
	fanout  *publishers.Fanout
	metrics *metrics.Metrics
	server  *metrics.Server
	log     logger.Logger
}

// Option customizes NewRunner.
type Option func(*runnerOptions)

type runnerOptions struct {
	transport httpclient.Transport
	zap       *zap.Logger
}

// WithTransport replaces the network transport.
func WithTransport(t httpclient.Transport) Option {
	return func(o *runnerOptions) { o.transport = t }
}

// WithZap routes client request/response lines into l.
func WithZap(l *zap.Logger) Option {
	return func(o *runnerOptions) { o.zap = l }
}

// Result is the outcome of one collection entry.
type Result struct {
	Name       string
	ExchangeID string
	Status     httpclient.ExchangeStatus
	StatusCode int
	Raw        []byte
	Value      any
	Err        error
}

// NewRunner builds the client and its hooks from cfg.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var o runnerOptions
	for _, opt := range opts {
		opt(&o)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, releaseStore(store, err)
	}

	r := &Runner{
		cfg:     cfg,
		store:   store,
		fanout:  fanout,
		metrics: metrics.New(),
		log:     log,
	}

	level, err := httpclient.ParseLevel(cfg.HTTPLogLevel)
	if err != nil {
		log.WarnObj("unknown http_log_level, using info", "http_log_level", cfg.HTTPLogLevel)
	}
	clientCfg := httpclient.Config{
		DefaultHeaders: cfg.DefaultHeaders,
		AutoValidate:   cfg.AutoValidate,
		Timeout:        cfg.HTTPTimeout,
		LogLevel:       level,
		App: httpclient.AppInfo{
			Name:    cfg.AppName,
			Version: cfg.AppVersion,
			Bundle:  cfg.AppBundle,
			Build:   cfg.AppBuild,
		},
		AcceptLanguages: cfg.AcceptLanguages,
	}
	clientOpts := []httpclient.Option{
		httpclient.WithHooks(
			&journal{store: store, log: log},
			r.metrics,
			publishers.NewHook(fanout, cfg.AppName, log),
		),
	}
	if o.zap != nil {
		clientOpts = append(clientOpts, httpclient.WithSinks(logger.NewSink(o.zap)))
	}
	if o.transport != nil {
		clientOpts = append(clientOpts, httpclient.WithTransport(o.transport))
	}
	r.client = httpclient.New(clientCfg, clientOpts...)

	if cfg.MetricsAddr != "" {
		r.server = metrics.NewServer(cfg.MetricsAddr, r.metrics)
		go func() {
			if err := r.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.ErrorObj("metrics server failed", "error", err.Error())
			}
		}()
		log.InfoObj("metrics server listening", "metrics_addr", cfg.MetricsAddr)
	}

	return r, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(), nil
	}

	cfgs, err := publishers.Load(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	fanout, err := publishers.DefaultBuilders().Build(ctx, cfgs, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	enabled := publishers.Enabled(cfgs)
	summaries := make([]map[string]any, 0, len(enabled))
	for _, pc := range enabled {
		summaries = append(summaries, map[string]any{
			"id":   pc.ID,
			"type": pc.Type,
			"when": pc.When,
		})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      fanout.Size(),
		"publishers": summaries,
	})
	return fanout, nil
}

// releaseStore closes a store opened for a runner that failed to start and
// joins any close failure onto cause.
func releaseStore(store storage.Store, cause error) error {
	if err := store.Close(); err != nil {
		return errors.Join(cause, fmt.Errorf("close storage: %w", err))
	}
	return cause
}

// Config returns the runner configuration.
func (r *Runner) Config() *config.Config { return r.cfg }

// Client returns the configured client.
func (r *Runner) Client() *httpclient.Client { return r.client }

// Metrics returns the collectors fed by the runner's client.
func (r *Runner) Metrics() *metrics.Metrics { return r.metrics }

// Send dispatches a single entry and interprets the body as the entry asks.
func (r *Runner) Send(ctx context.Context, e collection.Entry) Result {
	res := Result{Name: e.Name}
	ex, err := e.Exchange(r.client)
	if err != nil {
		res.Status = httpclient.StatusErrored
		res.Err = err
		return res
	}
	res.ExchangeID = ex.ID()

	ctx = domain.WithRequestName(ctx, e.Name)
	switch e.Decode {
	case collection.DecodeText:
		fill(&res, httpclient.Text(ctx, ex))
	case collection.DecodeJSON:
		fill(&res, httpclient.JSON(ctx, ex))
	case collection.DecodeHTML:
		fill(&res, httpclient.Do(ctx, ex, httpclient.HTMLDecoder(ex.Request().URL())))
	default:
		fill(&res, httpclient.Raw(ctx, ex))
	}
	res.Status = ex.Status()
	return res
}

func fill[T any](res *Result, resp *httpclient.Response[T]) {
	res.StatusCode = resp.StatusCode
	res.Raw = resp.Raw
	res.Err = resp.Err
	if resp.HasValue {
		res.Value = resp.Value
	}
}

// RunCollection dispatches the enabled entries in order, pausing between
// them. Failures do not stop the run; they are joined into the returned error.
func (r *Runner) RunCollection(ctx context.Context, c *collection.Collection) ([]Result, error) {
	entries := c.Enabled()
	if len(entries) == 0 {
		r.log.WarnObj("collection has no enabled requests", "collection", c.Name)
		return nil, nil
	}

	delay := r.cfg.RequestDelay
	if c.RequestDelayMs > 0 {
		delay = time.Duration(c.RequestDelayMs) * time.Millisecond
	}

	start := time.Now()
	r.log.InfoObj("collection run started", "run_meta", map[string]any{
		"collection":       c.Name,
		"requests_count":   len(entries),
		"publishers_count": r.fanout.Size(),
		"delay_ms":         delay.Milliseconds(),
	})

	results := make([]Result, 0, len(entries))
	var errs []error
	for i, e := range entries {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				errs = append(errs, ctx.Err())
				return results, errors.Join(errs...)
			case <-time.After(delay):
			}
		}
		res := r.Send(ctx, e)
		results = append(results, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("request %q: %w", e.Name, res.Err))
		}
	}

	tally := TallyResults(results)
	r.log.InfoObj("collection run completed", "run_meta", map[string]any{
		"collection":     c.Name,
		"requests_count": len(entries),
		"failed":         tally.Failed,
		"failure_rate":   tally.FailureRate,
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return results, errors.Join(errs...)
}

// History returns up to limit journal records, newest first. A non-positive
// limit uses the configured default.
func (r *Runner) History(limit int) ([]domain.ExchangeRecord, error) {
	if limit <= 0 {
		limit = r.cfg.HistoryLimitDefault
	}
	return r.store.Recent(limit)
}

// Lookup returns a single journal record.
func (r *Runner) Lookup(id string) (domain.ExchangeRecord, bool, error) {
	return r.store.Get(id)
}

// Close stops the metrics server, closes publishers and the journal.
func (r *Runner) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.server != nil {
		if err := r.server.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop metrics server: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
