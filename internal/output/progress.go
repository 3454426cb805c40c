package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/davemt/stressforge/internal/metrics"
)

// ProgressReporter displays real-time progress updates while a run is in
// flight. Completed counts are fed in through Advance; aggregate numbers
// come from the shared collector.
type ProgressReporter struct {
	collector *metrics.Collector
	total     int
	completed int64
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given
// interval.
func NewProgressReporter(collector *metrics.Collector, total int, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		total:     total,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Advance records that count executions have completed so far. Safe to call
// from concurrent workers.
func (p *ProgressReporter) Advance(count int) {
	atomic.StoreInt64(&p.completed, int64(count))
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and terminates the line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		fmt.Fprintln(p.writer)
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			elapsed := time.Since(p.start)
			snap := p.collector.Snapshot(elapsed)
			completed := atomic.LoadInt64(&p.completed)
			fmt.Fprintf(p.writer, "\rRequests: %d/%d | Successes: %d | Failures: %d | RPS: %.1f | P99: %.1fms",
				completed, p.total, snap.Successes, snap.Failures, snap.RequestsPerSec, snap.P99LatencyMs)
		case <-p.done:
			return
		}
	}
}
