package threshold

import (
	"strings"
	"testing"

	"github.com/davemt/stressforge/internal/metrics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Threshold
		wantError bool
	}{
		{
			name:  "valid p95 latency threshold",
			input: "latency:p95 < 500",
			want: Threshold{
				Metric:    "latency",
				Aggregate: "p95",
				Operator:  "<",
				Value:     500,
				Raw:       "latency:p95 < 500",
			},
		},
		{
			name:  "valid success rate threshold",
			input: "success:rate >= 99",
			want: Threshold{
				Metric:    "success",
				Aggregate: "rate",
				Operator:  ">=",
				Value:     99,
				Raw:       "success:rate >= 99",
			},
		},
		{
			name:  "valid p99 latency with <=",
			input: "latency:p99 <= 1000",
			want: Threshold{
				Metric:    "latency",
				Aggregate: "p99",
				Operator:  "<=",
				Value:     1000,
				Raw:       "latency:p99 <= 1000",
			},
		},
		{
			name:  "valid request rate threshold with >",
			input: "requests:rate > 100",
			want: Threshold{
				Metric:    "requests",
				Aggregate: "rate",
				Operator:  ">",
				Value:     100,
				Raw:       "requests:rate > 100",
			},
		},
		{
			name:  "valid error count",
			input: "errors:count < 10",
			want: Threshold{
				Metric:    "errors",
				Aggregate: "count",
				Operator:  "<",
				Value:     10,
				Raw:       "errors:count < 10",
			},
		},
		{
			name:      "empty string",
			input:     "",
			wantError: true,
		},
		{
			name:      "invalid format - missing operator",
			input:     "latency:p95 500",
			wantError: true,
		},
		{
			name:      "invalid metric",
			input:     "bandwidth:p95 < 500",
			wantError: true,
		},
		{
			name:      "invalid aggregate",
			input:     "latency:p85 < 500",
			wantError: true,
		},
		{
			name:      "invalid operator",
			input:     "latency:p95 << 500",
			wantError: true,
		},
		{
			name:      "invalid value - not a number",
			input:     "latency:p95 < abc",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("Parse() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if !tt.wantError && got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	thresholds, err := ParseMultiple([]string{
		"latency:p95 < 500",
		"success:rate >= 95",
	})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	if len(thresholds) != 2 {
		t.Fatalf("ParseMultiple() returned %d thresholds, want 2", len(thresholds))
	}

	if _, err := ParseMultiple([]string{"latency:p95 < 500", "garbage"}); err == nil {
		t.Fatal("ParseMultiple() expected error for invalid entry")
	}

	thresholds, err = ParseMultiple(nil)
	if err != nil || thresholds != nil {
		t.Fatalf("ParseMultiple(nil) = %v, %v, want nil, nil", thresholds, err)
	}
}

func testSummary() metrics.Summary {
	return metrics.Summary{
		TotalRequests: 100,
		ValidRequests: 98,
		Successes:     95,
		Failures:      5,
		SuccessRate:   95,
		Throughput:    50,
		Latency: metrics.LatencyStats{
			MinMs:    10,
			MaxMs:    900,
			MeanMs:   120,
			MedianMs: 100,
			P95Ms:    400,
			P99Ms:    800,
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPass bool
	}{
		{"p95 under limit passes", "latency:p95 < 500", true},
		{"p95 over limit fails", "latency:p95 < 300", false},
		{"p99 boundary with <= passes", "latency:p99 <= 800", true},
		{"avg latency passes", "latency:avg < 200", true},
		{"min latency passes", "latency:min >= 10", true},
		{"max latency fails", "latency:max < 500", false},
		{"success rate boundary passes", "success:rate >= 95", true},
		{"success rate fails", "success:rate >= 99", false},
		{"success count passes", "success:count == 95", true},
		{"error count passes", "errors:count < 10", true},
		{"error rate passes", "errors:rate <= 5", true},
		{"request rate passes", "requests:rate > 40", true},
		{"request count passes", "requests:count == 100", true},
	}

	summary := testSummary()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}

			results := NewEvaluator([]Threshold{th}).Evaluate(summary)
			if len(results) != 1 {
				t.Fatalf("Evaluate() returned %d results, want 1", len(results))
			}
			if results[0].Pass != tt.wantPass {
				t.Errorf("Evaluate(%q) pass = %v, want %v (message: %s)",
					tt.input, results[0].Pass, tt.wantPass, results[0].Message)
			}
		})
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if results := NewEvaluator(nil).Evaluate(testSummary()); results != nil {
		t.Fatalf("Evaluate() with no thresholds = %v, want nil", results)
	}
}

func TestEvaluateMessageFormat(t *testing.T) {
	th, err := Parse("latency:p95 < 500")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	results := NewEvaluator([]Threshold{th}).Evaluate(testSummary())
	msg := results[0].Message
	if !strings.Contains(msg, "✓") || !strings.Contains(msg, "latency:p95 < 500") {
		t.Errorf("unexpected pass message: %q", msg)
	}

	th, _ = Parse("latency:p95 < 100")
	results = NewEvaluator([]Threshold{th}).Evaluate(testSummary())
	if !strings.Contains(results[0].Message, "✗") {
		t.Errorf("unexpected fail message: %q", results[0].Message)
	}
}
