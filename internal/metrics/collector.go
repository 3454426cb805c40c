package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records results as they complete, in a thread-safe manner. It
// backs the live progress line during a run; the final Summary is computed
// separately by Summarize over the full result set.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	successes    int64
	failures     int64
	statusCounts map[string]int64
}

// Snapshot is a point-in-time view of collector state.
type Snapshot struct {
	Total          int64
	Successes      int64
	Failures       int64
	RequestsPerSec float64
	P50LatencyMs   float64
	P99LatencyMs   float64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:         h,
		statusCounts: make(map[string]int64),
	}
}

// Record folds one completed result into the running totals. Timeout
// sentinel latencies are excluded from the histogram so the live tail
// estimate reflects real measurements only.
func (c *Collector) Record(res RequestResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Success {
		c.successes++
	} else {
		c.failures++
	}
	if res.Measured {
		c.statusCounts[res.StatusKey()]++
	}
	if res.Measured && res.Outcome == OutcomeResponse {
		us := res.Latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
}

// Snapshot computes the current aggregates for the given elapsed time.
func (c *Collector) Snapshot(elapsed time.Duration) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Total:     c.successes + c.failures,
		Successes: c.successes,
		Failures:  c.failures,
	}
	if elapsed > 0 && snap.Total > 0 {
		snap.RequestsPerSec = float64(snap.Total) / elapsed.Seconds()
	}
	if c.hist.TotalCount() > 0 {
		snap.P50LatencyMs = float64(c.hist.ValueAtQuantile(50)) / 1000
		snap.P99LatencyMs = float64(c.hist.ValueAtQuantile(99)) / 1000
	}
	return snap
}

// StatusCounts returns a copy of the per-status counts seen so far.
func (c *Collector) StatusCounts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[string]int, len(c.statusCounts))
	for k, v := range c.statusCounts {
		counts[k] = int(v)
	}
	return counts
}
