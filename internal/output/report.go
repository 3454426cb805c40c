package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/davemt/stressforge/internal/metrics"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, summary metrics.Summary) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	if summary.NoData {
		fmt.Fprintf(w, "Dispatched:        %d\n", summary.TotalRequests)
		fmt.Fprintln(w, "No valid responses received. The server might be down or blocking requests.")
		return
	}

	fmt.Fprintf(w, "Total Requests:    %d\n", summary.TotalRequests)
	fmt.Fprintf(w, "Successful:        %d\n", summary.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", summary.Failures)
	fmt.Fprintf(w, "Success Rate:      %.1f%%\n", summary.SuccessRate)
	fmt.Fprintf(w, "Duration:          %.2fs\n", summary.ElapsedSeconds)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", summary.Throughput)

	l := summary.Latency
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %.2fms\n", l.MinMs)
	fmt.Fprintf(w, "  Median (P50):    %.2fms\n", l.MedianMs)
	fmt.Fprintf(w, "  Mean:            %.2fms\n", l.MeanMs)
	fmt.Fprintf(w, "  P95:             %.2fms%s\n", l.P95Ms, substitutionNote(l.P95IsMax))
	fmt.Fprintf(w, "  P99:             %.2fms%s\n", l.P99Ms, substitutionNote(l.P99IsMax))
	fmt.Fprintf(w, "  Max:             %.2fms\n", l.MaxMs)

	if len(summary.StatusCounts) > 0 {
		fmt.Fprintln(w, "\nStatus Codes:")
		for _, key := range sortedStatusKeys(summary.StatusCounts) {
			fmt.Fprintf(w, "  %-8s %d\n", key, summary.StatusCounts[key])
		}
	}

	if len(summary.Insights) > 0 {
		fmt.Fprintln(w, "\nInsights:")
		for _, insight := range summary.Insights {
			fmt.Fprintf(w, "  [%s] %s\n", insight.Level, insight.Message)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, summary metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func substitutionNote(isMax bool) string {
	if isMax {
		return " (= max, sample too small)"
	}
	return ""
}

// sortedStatusKeys orders numeric codes ascending, then sentinels
// alphabetically, for stable report output.
func sortedStatusKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iErr := strconv.Atoi(keys[i])
		nj, jErr := strconv.Atoi(keys[j])
		switch {
		case iErr == nil && jErr == nil:
			return ni < nj
		case iErr == nil:
			return true
		case jErr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
