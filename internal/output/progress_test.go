package output_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/davemt/stressforge/internal/metrics"
	"github.com/davemt/stressforge/internal/output"
)

func TestProgressReporterDisplaysCompletion(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Record(metrics.RequestResult{
		Outcome:  metrics.OutcomeResponse,
		Latency:  25 * time.Millisecond,
		Measured: true,
		Success:  true,
	})
	collector.Record(metrics.RequestResult{Outcome: metrics.OutcomeError})

	var buf bytes.Buffer
	reporter := output.NewProgressReporter(collector, 10, 10*time.Millisecond, &buf)
	reporter.Start()
	reporter.Advance(3)
	time.Sleep(60 * time.Millisecond)
	reporter.Stop()

	got := buf.String()
	if !strings.Contains(got, "Requests: 3/10") {
		t.Fatalf("progress output missing completion count:\n%q", got)
	}
	if !strings.Contains(got, "Successes: 1") || !strings.Contains(got, "Failures: 1") {
		t.Fatalf("progress output missing collector counts:\n%q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("Stop should terminate the progress line:\n%q", got)
	}
}

func TestProgressReporterStartStopIdempotent(t *testing.T) {
	collector := metrics.NewCollector()
	var buf bytes.Buffer
	reporter := output.NewProgressReporter(collector, 5, 10*time.Millisecond, &buf)

	reporter.Start()
	reporter.Start() // second call is a no-op
	reporter.Stop()
	reporter.Stop() // must not panic or block
}

func TestProgressReporterNilWriter(t *testing.T) {
	collector := metrics.NewCollector()
	reporter := output.NewProgressReporter(collector, 5, 5*time.Millisecond, nil)
	reporter.Start()
	time.Sleep(20 * time.Millisecond)
	reporter.Stop()
}
