package output_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/davemt/stressforge/internal/metrics"
	"github.com/davemt/stressforge/internal/output"
)

func sampleSummary(t *testing.T) metrics.Summary {
	t.Helper()
	results := []metrics.RequestResult{
		{Outcome: metrics.OutcomeResponse, StatusCode: 200, Latency: 40 * time.Millisecond, Measured: true, Success: true},
		{Outcome: metrics.OutcomeResponse, StatusCode: 200, Latency: 60 * time.Millisecond, Measured: true, Success: true},
		{Outcome: metrics.OutcomeResponse, StatusCode: 500, Latency: 80 * time.Millisecond, Measured: true},
		{Outcome: metrics.OutcomeTimeout, Latency: time.Second, Measured: true, ErrorMessage: "Timeout"},
		{Outcome: metrics.OutcomeError, ErrorMessage: "connection refused"},
	}
	return metrics.Summarize(results, 2*time.Second)
}

func TestPrintReportContents(t *testing.T) {
	var buf bytes.Buffer
	output.PrintReport(&buf, sampleSummary(t))
	got := buf.String()

	for _, want := range []string{
		"Total Requests:    5",
		"Successful:        2",
		"Failed:            3",
		"Success Rate:      40.0%",
		"Requests/sec:      2.50",
		"Median (P50):",
		"(= max, sample too small)",
		"timeout",
		"Insights:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestPrintReportStatusOrdering(t *testing.T) {
	var buf bytes.Buffer
	output.PrintReport(&buf, sampleSummary(t))
	got := buf.String()

	idx200 := strings.Index(got, "200")
	idx500 := strings.Index(got, "500")
	idxTimeout := strings.Index(got, "timeout")
	if idx200 == -1 || idx500 == -1 || idxTimeout == -1 {
		t.Fatalf("status lines missing:\n%s", got)
	}
	if !(idx200 < idx500 && idx500 < idxTimeout) {
		t.Fatalf("status codes not ordered numerically before sentinels:\n%s", got)
	}
}

func TestPrintReportNoData(t *testing.T) {
	var buf bytes.Buffer
	summary := metrics.Summarize([]metrics.RequestResult{
		{Outcome: metrics.OutcomeError, ErrorMessage: "refused"},
	}, time.Second)
	output.PrintReport(&buf, summary)

	got := buf.String()
	if !strings.Contains(got, "No valid responses received") {
		t.Fatalf("no-data report missing explanation:\n%s", got)
	}
	if strings.Contains(got, "Latency:") {
		t.Fatalf("no-data report must not print statistics:\n%s", got)
	}
}

func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := output.PrintJSONReport(&buf, sampleSummary(t)); err != nil {
		t.Fatalf("json report: %v", err)
	}

	doc := buf.String()
	if !gjson.Valid(doc) {
		t.Fatalf("invalid json:\n%s", doc)
	}
	if got := gjson.Get(doc, "total_requests").Int(); got != 5 {
		t.Fatalf("total_requests = %d, want 5", got)
	}
	if got := gjson.Get(doc, "success_rate").Float(); got != 40 {
		t.Fatalf("success_rate = %v, want 40", got)
	}
	if got := gjson.Get(doc, "status_counts.timeout").Int(); got != 1 {
		t.Fatalf("status_counts.timeout = %d, want 1", got)
	}
	if got := gjson.Get(doc, "latency.p95_is_max").Bool(); !got {
		t.Fatalf("expected p95_is_max in JSON report")
	}
	if levels := gjson.Get(doc, "insights.#.level").Array(); len(levels) == 0 {
		t.Fatalf("expected insights in JSON report")
	}
}
