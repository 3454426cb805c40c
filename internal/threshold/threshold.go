package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/davemt/stressforge/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // e.g., "latency", "success"
	Aggregate string  // e.g., "p95", "p99", "avg", "max", "rate"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against a completed run's summary.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided summary.
func (e *Evaluator) Evaluate(summary metrics.Summary) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		result := e.evaluateOne(t, summary)
		results = append(results, result)
	}
	return results
}

func (e *Evaluator) evaluateOne(t Threshold, summary metrics.Summary) Result {
	actual, err := extractMetricValue(t, summary)
	if err != nil {
		return Result{
			Threshold: t,
			Actual:    0,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	message := fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value)
	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   message,
	}
}

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "latency:p95 < 500"    (latency percentile in ms)
// - "latency:avg < 200"    (mean latency in ms)
// - "latency:max < 1000"   (max latency in ms)
// - "success:rate >= 99"   (success rate as a percentage)
// - "errors:count < 10"    (failed request count)
// - "requests:rate > 100"  (requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	// Pattern: metric:aggregate operator value
	// e.g., "latency:p95 < 500"
	pattern := regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)
	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: metric:aggregate operator value, e.g., 'latency:p95 < 500')", s)
	}

	metric := matches[1]
	aggregate := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if !isValidMetric(metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: latency, success, errors, requests)", metric)
	}

	if !isValidAggregate(aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: p50, p95, p99, avg, min, max, rate, count)", aggregate)
	}

	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

func isValidMetric(metric string) bool {
	valid := []string{"latency", "success", "errors", "requests"}
	for _, v := range valid {
		if metric == v {
			return true
		}
	}
	return false
}

func isValidAggregate(aggregate string) bool {
	valid := []string{"p50", "p95", "p99", "avg", "min", "max", "rate", "count"}
	for _, v := range valid {
		if aggregate == v {
			return true
		}
	}
	return false
}

func isValidOperator(operator string) bool {
	valid := []string{"<", "<=", ">", ">=", "=="}
	for _, v := range valid {
		if operator == v {
			return true
		}
	}
	return false
}

func extractMetricValue(t Threshold, summary metrics.Summary) (float64, error) {
	switch t.Metric {
	case "latency":
		return extractLatencyMetric(t.Aggregate, summary)
	case "success":
		return extractSuccessMetric(t.Aggregate, summary)
	case "errors":
		return extractErrorMetric(t.Aggregate, summary)
	case "requests":
		return extractRequestMetric(t.Aggregate, summary)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractLatencyMetric(aggregate string, summary metrics.Summary) (float64, error) {
	l := summary.Latency
	switch aggregate {
	case "p50":
		return l.MedianMs, nil
	case "p95":
		return l.P95Ms, nil
	case "p99":
		return l.P99Ms, nil
	case "avg":
		return l.MeanMs, nil
	case "min":
		return l.MinMs, nil
	case "max":
		return l.MaxMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for latency", aggregate)
	}
}

func extractSuccessMetric(aggregate string, summary metrics.Summary) (float64, error) {
	switch aggregate {
	case "count":
		return float64(summary.Successes), nil
	case "rate":
		// Percentage over all dispatched requests, same scale as the report.
		return summary.SuccessRate, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for success (use 'count' or 'rate')", aggregate)
	}
}

func extractErrorMetric(aggregate string, summary metrics.Summary) (float64, error) {
	switch aggregate {
	case "count":
		return float64(summary.Failures), nil
	case "rate":
		if summary.TotalRequests == 0 {
			return 0, nil
		}
		return float64(summary.Failures) * 100 / float64(summary.TotalRequests), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for errors (use 'count' or 'rate')", aggregate)
	}
}

func extractRequestMetric(aggregate string, summary metrics.Summary) (float64, error) {
	switch aggregate {
	case "count":
		return float64(summary.TotalRequests), nil
	case "rate":
		return summary.Throughput, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for requests (use 'count' or 'rate')", aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Handle floating point comparison with small epsilon
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
