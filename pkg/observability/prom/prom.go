// Package prom reports pipeline, cache and API events as Prometheus
// metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/chartcore/pkg/observability"
)

const defaultNamespace = "chartcore"

// Config configures the metrics.
type Config struct {
	// Namespace prefixes every metric, "chartcore" by default.
	Namespace string
	// ConstLabels are added to every metric.
	ConstLabels map[string]string
	// Registerer receives the collectors, prometheus.DefaultRegisterer
	// by default.
	Registerer prometheus.Registerer
}

// Metrics implements the observability hooks.
type Metrics struct {
	passes        *prometheus.CounterVec
	passDuration  prometheus.Histogram
	seriesPerPass prometheus.Histogram
	taskDuration  *prometheus.HistogramVec
	taskChunks    *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpInflight *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the metrics and registers them with cfg.Registerer.
func New(cfg Config) (*Metrics, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	labels := prometheus.Labels(cfg.ConstLabels)

	m := &Metrics{}
	m.passes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Subsystem:   "pipeline",
		Name:        "passes_total",
		Help:        "Number of layout passes by result.",
		ConstLabels: labels,
	}, []string{"result"})
	m.passDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   ns,
		Subsystem:   "pipeline",
		Name:        "pass_duration_seconds",
		Help:        "Duration of layout passes.",
		Buckets:     prometheus.ExponentialBuckets(0.0005, 2, 14),
		ConstLabels: labels,
	})
	m.seriesPerPass = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   ns,
		Subsystem:   "pipeline",
		Name:        "series_per_pass",
		Help:        "Number of series laid out per pass.",
		Buckets:     []float64{1, 2, 4, 8, 16, 32, 64},
		ConstLabels: labels,
	})
	m.taskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   ns,
		Subsystem:   "pipeline",
		Name:        "task_duration_seconds",
		Help:        "Duration of layout tasks per pass.",
		Buckets:     prometheus.ExponentialBuckets(0.0001, 2, 14),
		ConstLabels: labels,
	}, []string{"task"})
	m.taskChunks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Subsystem:   "pipeline",
		Name:        "task_chunks_total",
		Help:        "Number of data chunks processed by layout tasks.",
		ConstLabels: labels,
	}, []string{"task"})

	m.cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Subsystem:   "cache",
		Name:        "hits_total",
		Help:        "Number of cache hits.",
		ConstLabels: labels,
	}, []string{"kind"})
	m.cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Subsystem:   "cache",
		Name:        "misses_total",
		Help:        "Number of cache misses.",
		ConstLabels: labels,
	}, []string{"kind"})
	m.cacheBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Subsystem:   "cache",
		Name:        "written_bytes_total",
		Help:        "Bytes written to the cache.",
		ConstLabels: labels,
	}, []string{"kind"})

	m.httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   ns,
		Subsystem:   "http",
		Name:        "inflight_requests",
		Help:        "Number of API requests being served.",
		ConstLabels: labels,
	}, []string{"route"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Number of API requests by status.",
		ConstLabels: labels,
	}, []string{"route", "method", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   ns,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "Duration of API requests.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"route", "method"})

	for _, c := range []prometheus.Collector{
		m.passes, m.passDuration, m.seriesPerPass, m.taskDuration, m.taskChunks,
		m.cacheHits, m.cacheMisses, m.cacheBytes,
		m.httpInflight, m.httpRequests, m.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Install creates the metrics and registers them as the global hooks.
func Install(cfg Config) (*Metrics, error) {
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	return m, nil
}

// OnPassStart implements observability.PipelineHooks.
func (m *Metrics) OnPassStart(context.Context) {}

// OnPassComplete implements observability.PipelineHooks.
func (m *Metrics) OnPassComplete(_ context.Context, seriesCount int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.passes.WithLabelValues(result).Inc()
	m.passDuration.Observe(d.Seconds())
	m.seriesPerPass.Observe(float64(seriesCount))
}

// OnTask implements observability.PipelineHooks.
func (m *Metrics) OnTask(_ context.Context, task string, chunks int, d time.Duration) {
	m.taskDuration.WithLabelValues(task).Observe(d.Seconds())
	m.taskChunks.WithLabelValues(task).Add(float64(chunks))
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(_ context.Context, _, route string) {
	m.httpInflight.WithLabelValues(route).Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInflight.WithLabelValues(route).Dec()
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
