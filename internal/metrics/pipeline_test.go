package metrics

import (
	"testing"
	"time"
)

func TestPipelineStats(t *testing.T) {
	m := NewPipelineMetrics()

	m.RecordResolveDuration(10 * time.Millisecond)
	m.RecordResolveDuration(20 * time.Millisecond)
	m.RecordGenerationDuration(2 * time.Second)
	m.IncrementDecksGenerated()
	m.IncrementCardsResolved()
	m.IncrementCardsResolved()
	m.IncrementUpstreamRequests()
	m.IncrementUpstreamRequests()
	m.IncrementUpstreamErrors()
	m.IncrementCacheHits()
	m.IncrementCacheHits()
	m.IncrementCacheHits()
	m.IncrementCacheMisses()

	stats := m.GetStats()

	if stats.ResolveLatency.Count != 2 || stats.ResolveLatency.Mean != 15 {
		t.Errorf("ResolveLatency = %+v", stats.ResolveLatency)
	}
	if stats.GenerationLatency.Count != 1 {
		t.Errorf("GenerationLatency = %+v", stats.GenerationLatency)
	}
	if stats.DecksGenerated != 1 || stats.CardsResolved != 2 {
		t.Errorf("counters = %+v", stats)
	}
	if stats.CacheHitRate != 75 {
		t.Errorf("CacheHitRate = %v, want 75", stats.CacheHitRate)
	}
	if stats.UpstreamSuccessRate != 50 {
		t.Errorf("UpstreamSuccessRate = %v, want 50", stats.UpstreamSuccessRate)
	}
}

func TestPipelineStatsEmpty(t *testing.T) {
	stats := NewPipelineMetrics().GetStats()

	if stats.CacheHitRate != 0 || stats.UpstreamSuccessRate != 0 {
		t.Errorf("empty rates = %+v", stats)
	}
	if stats.ResolveLatency.Count != 0 {
		t.Errorf("ResolveLatency = %+v", stats.ResolveLatency)
	}
}

func TestPipelineReset(t *testing.T) {
	m := NewPipelineMetrics()
	m.IncrementCacheHits()
	m.RecordResolveDuration(time.Millisecond)

	m.Reset()

	stats := m.GetStats()
	if stats.CacheHits != 0 || stats.ResolveLatency.Count != 0 {
		t.Errorf("stats after reset = %+v", stats)
	}
}

func TestHistogramSnapshot(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 100; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	snap := h.Snapshot()
	if snap.P50 < 50 || snap.P50 > 51 {
		t.Errorf("p50 = %v", snap.P50)
	}
	if snap.P99 < 99 || snap.P99 > 100 {
		t.Errorf("p99 = %v", snap.P99)
	}
	if snap.Min != 1 || snap.Max != 100 {
		t.Errorf("min/max = %v/%v", snap.Min, snap.Max)
	}
	if snap.Mean != 50.5 || snap.Count != 100 {
		t.Errorf("mean/count = %v/%v", snap.Mean, snap.Count)
	}
}

func TestHistogramKeepsRecentSamples(t *testing.T) {
	h := NewHistogram(10)
	for i := 1; i <= 11; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	if h.Count() > 10 {
		t.Errorf("Count() = %d after trim", h.Count())
	}
	// The trim discards the oldest samples, so the newest survives.
	if max := h.Snapshot().Max; max != 11 {
		t.Errorf("Max = %v, want the most recent sample", max)
	}
}
