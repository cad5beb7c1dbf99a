// Package metrics collects in-process performance metrics for the deck
// composition pipeline.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// PipelineMetrics tracks performance metrics for card resolution and deck
// generation.
type PipelineMetrics struct {
	// Latency histograms (in milliseconds)
	ResolveLatency    *Histogram
	GenerationLatency *Histogram

	// Counters (atomic operations for thread safety)
	DecksGenerated   atomic.Uint64
	CardsResolved    atomic.Uint64
	UpstreamRequests atomic.Uint64
	UpstreamErrors   atomic.Uint64
	CacheHits        atomic.Uint64
	CacheMisses      atomic.Uint64

	// Start time for uptime calculation
	startTime time.Time
	mu        sync.RWMutex
}

// NewPipelineMetrics creates a new metrics collector.
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		ResolveLatency:    NewHistogram(10000),
		GenerationLatency: NewHistogram(1000),
		startTime:         time.Now(),
	}
}

// RecordResolveDuration records the time taken to resolve one card name.
func (m *PipelineMetrics) RecordResolveDuration(d time.Duration) {
	m.ResolveLatency.Record(d)
}

// RecordGenerationDuration records the total time of one generation run.
func (m *PipelineMetrics) RecordGenerationDuration(d time.Duration) {
	m.GenerationLatency.Record(d)
}

// IncrementDecksGenerated increments the count of completed generation runs.
func (m *PipelineMetrics) IncrementDecksGenerated() {
	m.DecksGenerated.Add(1)
}

// IncrementCardsResolved increments the count of resolved card names.
func (m *PipelineMetrics) IncrementCardsResolved() {
	m.CardsResolved.Add(1)
}

// IncrementUpstreamRequests increments the count of upstream API requests.
func (m *PipelineMetrics) IncrementUpstreamRequests() {
	m.UpstreamRequests.Add(1)
}

// IncrementUpstreamErrors increments the count of upstream API errors.
func (m *PipelineMetrics) IncrementUpstreamErrors() {
	m.UpstreamErrors.Add(1)
}

// IncrementCacheHits increments the count of card cache hits.
func (m *PipelineMetrics) IncrementCacheHits() {
	m.CacheHits.Add(1)
}

// IncrementCacheMisses increments the count of card cache misses.
func (m *PipelineMetrics) IncrementCacheMisses() {
	m.CacheMisses.Add(1)
}

// PipelineStats contains the computed statistics from metrics.
type PipelineStats struct {
	// Latency statistics (milliseconds)
	ResolveLatency    LatencyStats `json:"resolve_latency"`
	GenerationLatency LatencyStats `json:"generation_latency"`

	// Counters
	DecksGenerated      uint64  `json:"decks_generated"`
	CardsResolved       uint64  `json:"cards_resolved"`
	UpstreamRequests    uint64  `json:"upstream_requests"`
	UpstreamErrors      uint64  `json:"upstream_errors"`
	CacheHits           uint64  `json:"cache_hits"`
	CacheMisses         uint64  `json:"cache_misses"`
	CacheHitRate        float64 `json:"cache_hit_rate"`        // percentage
	UpstreamSuccessRate float64 `json:"upstream_success_rate"` // percentage

	// System info
	Uptime string `json:"uptime"` // human-readable uptime
}

// LatencyStats contains statistics for a latency histogram.
type LatencyStats struct {
	Mean  float64 `json:"mean"`  // milliseconds
	P50   float64 `json:"p50"`   // median
	P95   float64 `json:"p95"`   // 95th percentile
	P99   float64 `json:"p99"`   // 99th percentile
	Min   float64 `json:"min"`   // minimum
	Max   float64 `json:"max"`   // maximum
	Count int     `json:"count"` // number of samples
}

// GetStats returns a snapshot of the current statistics.
func (m *PipelineMetrics) GetStats() *PipelineStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	decksGenerated := m.DecksGenerated.Load()
	cardsResolved := m.CardsResolved.Load()
	upstreamRequests := m.UpstreamRequests.Load()
	upstreamErrors := m.UpstreamErrors.Load()
	cacheHits := m.CacheHits.Load()
	cacheMisses := m.CacheMisses.Load()

	cacheHitRate := 0.0
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = (float64(cacheHits) / float64(cacheHits+cacheMisses)) * 100
	}

	upstreamSuccessRate := 0.0
	if upstreamRequests > 0 {
		upstreamSuccessRate = (float64(upstreamRequests-upstreamErrors) / float64(upstreamRequests)) * 100
	}

	return &PipelineStats{
		ResolveLatency:      m.ResolveLatency.Snapshot(),
		GenerationLatency:   m.GenerationLatency.Snapshot(),
		DecksGenerated:      decksGenerated,
		CardsResolved:       cardsResolved,
		UpstreamRequests:    upstreamRequests,
		UpstreamErrors:      upstreamErrors,
		CacheHits:           cacheHits,
		CacheMisses:         cacheMisses,
		CacheHitRate:        cacheHitRate,
		UpstreamSuccessRate: upstreamSuccessRate,
		Uptime:              time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics, mainly for tests.
func (m *PipelineMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResolveLatency.Reset()
	m.GenerationLatency.Reset()
	m.DecksGenerated.Store(0)
	m.CardsResolved.Store(0)
	m.UpstreamRequests.Store(0)
	m.UpstreamErrors.Store(0)
	m.CacheHits.Store(0)
	m.CacheMisses.Store(0)
	m.startTime = time.Now()
}
