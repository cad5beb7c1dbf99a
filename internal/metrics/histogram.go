package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Histogram accumulates duration samples for one pipeline stage and
// summarizes them as a LatencyStats snapshot.
type Histogram struct {
	samples []float64 // milliseconds
	maxSize int
	mu      sync.RWMutex
}

// NewHistogram creates a histogram keeping at most maxSize samples. When
// the limit is exceeded, the oldest half is discarded so recent behavior
// dominates the snapshot.
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record adds a duration sample.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples = append(h.samples, float64(d.Microseconds())/1000.0)
	if len(h.samples) > h.maxSize {
		keep := h.samples[len(h.samples)-h.maxSize/2:]
		h.samples = append(h.samples[:0], keep...)
	}
}

// Count returns the number of retained samples.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
}

// Snapshot computes mean, percentiles, and extrema from one sorted copy
// of the samples. An empty histogram snapshots to zeroes.
func (h *Histogram) Snapshot() LatencyStats {
	h.mu.RLock()
	sorted := make([]float64, len(h.samples))
	copy(sorted, h.samples)
	h.mu.RUnlock()

	if len(sorted) == 0 {
		return LatencyStats{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// percentile interpolates the value at p (0-100) in a sorted sample set.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}
