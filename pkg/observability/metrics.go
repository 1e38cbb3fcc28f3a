package observability

import (
	"sync"
	"time"
)

// Metric names recorded by the engine.
const (
	MetricScoreComputations      = "balans.score.computations"
	MetricScoreComputeDuration   = "balans.score.compute_duration_ms"
	MetricInterventionsTriggered = "balans.interventions.triggered"
	MetricPatternsDetected       = "balans.patterns.detected"
	MetricOutboxPublished        = "balans.outbox.published"
	MetricOutboxFailed           = "balans.outbox.failed"
	MetricCacheHits              = "balans.cache.hits"
	MetricCacheMisses            = "balans.cache.misses"
)

// Tag is a key/value label attached to a metric.
type Tag struct {
	Key   string
	Value string
}

// Metrics collects counters, gauges, and timings. Implementations must be
// safe for concurrent use.
type Metrics interface {
	IncrCounter(name string, value int64, tags ...Tag)
	SetGauge(name string, value float64, tags ...Tag)
	RecordDuration(name string, d time.Duration, tags ...Tag)
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

func (NoopMetrics) IncrCounter(string, int64, ...Tag)            {}
func (NoopMetrics) SetGauge(string, float64, ...Tag)             {}
func (NoopMetrics) RecordDuration(string, time.Duration, ...Tag) {}

// InMemoryMetrics stores measurements in memory. Intended for tests and
// local development.
type InMemoryMetrics struct {
	mu        sync.RWMutex
	counters  map[string]int64
	gauges    map[string]float64
	durations map[string][]time.Duration
}

// NewInMemoryMetrics creates an empty in-memory collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters:  make(map[string]int64),
		gauges:    make(map[string]float64),
		durations: make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) IncrCounter(name string, value int64, _ ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += value
}

func (m *InMemoryMetrics) SetGauge(name string, value float64, _ ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

func (m *InMemoryMetrics) RecordDuration(name string, d time.Duration, _ ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[name] = append(m.durations[name], d)
}

// Counter returns the current value of a counter.
func (m *InMemoryMetrics) Counter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

// Gauge returns the current value of a gauge.
func (m *InMemoryMetrics) Gauge(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[name]
}

// Durations returns recorded durations for a timing metric.
func (m *InMemoryMetrics) Durations(name string) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]time.Duration, len(m.durations[name]))
	copy(out, m.durations[name])
	return out
}
