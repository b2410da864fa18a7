// Package metrics exposes Prometheus counters for the bot's daily run.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlb-lineup-bot/internal/logger"
)

// Manager holds all metrics on its own registry so the default Go
// collector noise stays off the endpoint. A nil *Manager is a valid
// no-op recorder, letting DRY_RUN wiring skip metrics entirely.
type Manager struct {
	registry *prometheus.Registry

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	gamesProcessed prometheus.Counter
	cardsPublished prometheus.Counter
	publishErrors  prometheus.Counter
	stepErrors     prometheus.Counter
	stepLatency    prometheus.Histogram
}

func NewManager() *Manager {
	m := &Manager{registry: prometheus.NewRegistry()}
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lineupbot",
		Name:      "cache_hits_total",
		Help:      "API cache hits by entry kind",
	}, []string{"kind"})

	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lineupbot",
		Name:      "cache_misses_total",
		Help:      "API cache misses by entry kind",
	}, []string{"kind"})

	m.gamesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "lineupbot",
		Name:      "games_processed_total",
		Help:      "Games fully processed and marked done",
	})

	m.cardsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "lineupbot",
		Name:      "cards_published_total",
		Help:      "Cards posted to the configured feed",
	})

	m.publishErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "lineupbot",
		Name:      "publish_errors_total",
		Help:      "Failed publish attempts",
	})

	m.stepErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "lineupbot",
		Name:      "step_errors_total",
		Help:      "Game steps that failed outright",
	})

	m.stepLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lineupbot",
		Name:      "step_duration_seconds",
		Help:      "Per-game step duration",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	return m
}

// CacheHit and CacheMiss satisfy the response cache's recorder hook.

func (m *Manager) CacheHit(kind string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *Manager) CacheMiss(kind string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *Manager) GameProcessed() {
	if m == nil {
		return
	}
	m.gamesProcessed.Inc()
}

func (m *Manager) CardPublished() {
	if m == nil {
		return
	}
	m.cardsPublished.Inc()
}

func (m *Manager) PublishError() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

func (m *Manager) StepError() {
	if m == nil {
		return
	}
	m.stepErrors.Inc()
}

func (m *Manager) ObserveStep(d time.Duration) {
	if m == nil {
		return
	}
	m.stepLatency.Observe(d.Seconds())
}

// Registry exposes the underlying registry for the HTTP handler and tests.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Serve runs the /metrics listener until ctx is cancelled. Errors are
// logged, not fatal: the bot keeps posting even if the listener dies.
func (m *Manager) Serve(ctx context.Context, addr string) {
	if m == nil {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.ErrorWithErr(ctx, "Metrics listener failed", err)
	}
}
