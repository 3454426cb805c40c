package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/davemt/stressforge/internal/metrics"
)

func summaryWith(t *testing.T, statuses []int, latency time.Duration) metrics.Summary {
	t.Helper()
	results := make([]metrics.RequestResult, 0, len(statuses))
	for _, status := range statuses {
		results = append(results, responseResult(status, latency))
	}
	return metrics.Summarize(results, time.Second)
}

func findLevel(insights []metrics.Insight, substr string) (metrics.InsightLevel, bool) {
	for _, in := range insights {
		if strings.Contains(in.Message, substr) {
			return in.Level, true
		}
	}
	return "", false
}

func TestInsightSuccessRateTiers(t *testing.T) {
	cases := []struct {
		name     string
		statuses []int
		want     metrics.InsightLevel
	}{
		{"severe below 95", append(repeat(200, 90), repeat(500, 10)...), metrics.InsightSevere},
		{"warn below 99", append(repeat(200, 97), repeat(500, 3)...), metrics.InsightWarn},
		{"good at 100", repeat(200, 100), metrics.InsightGood},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := summaryWith(t, tc.statuses, 10*time.Millisecond)
			level, ok := findLevel(summary.Insights, "success rate")
			if !ok {
				t.Fatalf("no success-rate insight in %+v", summary.Insights)
			}
			if level != tc.want {
				t.Fatalf("level = %s, want %s", level, tc.want)
			}
		})
	}
}

func TestInsightMeanLatencyTiers(t *testing.T) {
	cases := []struct {
		name    string
		latency time.Duration
		want    metrics.InsightLevel
	}{
		{"severe above 3s", 4 * time.Second, metrics.InsightSevere},
		{"warn above 1s", 1500 * time.Millisecond, metrics.InsightWarn},
		{"info above 500ms", 700 * time.Millisecond, metrics.InsightInfo},
		{"good below 500ms", 50 * time.Millisecond, metrics.InsightGood},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := summaryWith(t, repeat(200, 5), tc.latency)
			level, ok := findLevel(summary.Insights, "response time")
			if !ok {
				t.Fatalf("no latency insight in %+v", summary.Insights)
			}
			if level != tc.want {
				t.Fatalf("level = %s, want %s", level, tc.want)
			}
		})
	}
}

func repeat(status, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = status
	}
	return out
}
