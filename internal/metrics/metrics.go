package metrics

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

const namespace = "httpkit"

// Metrics holds the Prometheus collectors fed by finished exchanges.
type Metrics struct {
	ExchangesTotal   *prometheus.CounterVec
	ExchangeDuration *prometheus.HistogramVec
	ResponseBytes    *prometheus.HistogramVec
	FailuresTotal    *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		ExchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchanges_total",
				Help:      "Finished exchanges by host, method and terminal state",
			},
			[]string{"host", "method", "state"},
		),
		ExchangeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "exchange_duration_seconds",
				Help:      "Exchange latency histogram",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"host", "method"},
		),
		ResponseBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "response_body_bytes",
				Help:      "Size of response bodies",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
			},
			[]string{"host"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchange_failures_total",
				Help:      "Failed exchanges by host and failure code",
			},
			[]string{"host", "code"},
		),
		registry: reg,
	}
}

// Registry exposes the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ExchangeDone implements httpclient.Hook.
func (m *Metrics) ExchangeDone(_ context.Context, s httpclient.Summary) {
	host := hostOf(s.URL)
	m.ExchangesTotal.WithLabelValues(host, s.Method.String(), s.Status.String()).Inc()
	m.ExchangeDuration.WithLabelValues(host, s.Method.String()).Observe(s.Duration.Seconds())
	if s.BodySize > 0 {
		m.ResponseBytes.WithLabelValues(host).Observe(float64(s.BodySize))
	}
	if s.Err != nil {
		m.FailuresTotal.WithLabelValues(host, strconv.Itoa(int(httpclient.CodeOf(s.Err)))).Inc()
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// Server serves Prometheus metrics and a liveness endpoint.
type Server struct {
	server *http.Server
}

// NewServer creates the metrics HTTP server for m.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the server mux.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start begins serving metrics. It returns http.ErrServerClosed after Stop.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
