package metrics

import (
	"sort"
	"time"
)

// Small-sample cutoffs below which tail percentiles degrade to the sample
// maximum instead of an interpolated estimate.
const (
	minSampleP95 = 20
	minSampleP99 = 50
)

// LatencyStats holds the latency distribution over the valid sample, in
// milliseconds.
type LatencyStats struct {
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`

	// P95IsMax/P99IsMax report the small-sample substitution: when the valid
	// sample is too small for a meaningful tail estimate, the corresponding
	// percentile is the sample maximum.
	P95IsMax bool `json:"p95_is_max,omitempty"`
	P99IsMax bool `json:"p99_is_max,omitempty"`

	SampleSize int `json:"sample_size"`
}

// Summary is a derived, read-only view over a completed result set. It is
// recomputed fresh per run and never mutated incrementally.
type Summary struct {
	// NoData is set when no request reached a timing conclusion; no other
	// statistics are computed in that case.
	NoData bool `json:"no_data,omitempty"`

	TotalRequests int `json:"total_requests"`
	ValidRequests int `json:"valid_requests"`
	Successes     int `json:"successes"`
	Failures      int `json:"failures"`

	SuccessRate    float64 `json:"success_rate"`    // percent, over all dispatched requests
	Throughput     float64 `json:"requests_per_sec"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`

	Latency LatencyStats `json:"latency"`

	// StatusCounts maps status codes (or the "timeout"/"error" sentinels) to
	// occurrence counts over the valid sample. Hard transport errors never
	// reached a status and are keyed under "error" only when measured, which
	// by construction they are not, so they do not appear here.
	StatusCounts map[string]int `json:"status_counts,omitempty"`

	Insights []Insight `json:"insights,omitempty"`
}

// Summarize computes a Summary from a completed result set and the total
// wall-clock duration of the run. It is a pure function: the same inputs
// always produce the same Summary, and the input slice is not modified.
//
// The valid sample is every result with a timing conclusion, which includes
// timed-out requests carrying their sentinel latency. The success rate is
// computed over all dispatched results, valid or not.
func Summarize(results []RequestResult, elapsed time.Duration) Summary {
	summary := Summary{
		TotalRequests:  len(results),
		ElapsedSeconds: elapsed.Seconds(),
	}

	sample := make([]float64, 0, len(results))
	statusCounts := make(map[string]int)
	successes := 0
	for _, res := range results {
		if !res.Measured {
			continue
		}
		sample = append(sample, res.LatencyMs())
		statusCounts[res.StatusKey()]++
		if res.Success {
			successes++
		}
	}

	if len(sample) == 0 {
		summary.NoData = true
		return summary
	}

	summary.ValidRequests = len(sample)
	summary.Successes = successes
	summary.Failures = len(results) - successes
	summary.SuccessRate = float64(successes) * 100 / float64(len(results))
	if summary.ElapsedSeconds > 0 {
		summary.Throughput = float64(len(results)) / summary.ElapsedSeconds
	}
	summary.StatusCounts = statusCounts
	summary.Latency = latencyStats(sample)
	summary.Insights = buildInsights(summary)
	return summary
}

func latencyStats(sample []float64) LatencyStats {
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	stats := LatencyStats{
		MinMs:      sorted[0],
		MaxMs:      sorted[len(sorted)-1],
		MeanMs:     sum / float64(len(sorted)),
		MedianMs:   percentile(sorted, 50),
		SampleSize: len(sorted),
	}

	if len(sorted) < minSampleP95 {
		stats.P95Ms = stats.MaxMs
		stats.P95IsMax = true
	} else {
		stats.P95Ms = percentile(sorted, 95)
	}
	if len(sorted) < minSampleP99 {
		stats.P99Ms = stats.MaxMs
		stats.P99IsMax = true
	} else {
		stats.P99Ms = percentile(sorted, 99)
	}
	return stats
}

// percentile computes the p-th percentile of a sorted sample using linear
// interpolation at rank p/100*(n-1).
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(rank)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
