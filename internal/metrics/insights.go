package metrics

import "fmt"

// InsightLevel grades a qualitative observation about a run. Insights are
// informational only and never fail a run.
type InsightLevel string

const (
	InsightGood   InsightLevel = "good"
	InsightInfo   InsightLevel = "info"
	InsightWarn   InsightLevel = "warn"
	InsightSevere InsightLevel = "severe"
)

// Insight is a qualitative observation derived from a Summary.
type Insight struct {
	Level   InsightLevel `json:"level"`
	Message string       `json:"message"`
}

func buildInsights(s Summary) []Insight {
	insights := []Insight{successRateInsight(s.SuccessRate)}
	if s.Latency.SampleSize > 0 {
		insights = append(insights, meanLatencyInsight(s.Latency.MeanMs))
	}
	return insights
}

func successRateInsight(rate float64) Insight {
	switch {
	case rate < 95:
		return Insight{
			Level:   InsightSevere,
			Message: fmt.Sprintf("Low success rate (%.1f%%). Server might be overloaded or experiencing issues.", rate),
		}
	case rate < 99:
		return Insight{
			Level:   InsightWarn,
			Message: fmt.Sprintf("Moderate success rate (%.1f%%). Consider investigating failed requests.", rate),
		}
	default:
		return Insight{
			Level:   InsightGood,
			Message: fmt.Sprintf("Excellent success rate (%.1f%%).", rate),
		}
	}
}

func meanLatencyInsight(meanMs float64) Insight {
	switch {
	case meanMs > 3000:
		return Insight{
			Level:   InsightSevere,
			Message: "Very slow average response time (>3s). Server performance needs attention.",
		}
	case meanMs > 1000:
		return Insight{
			Level:   InsightWarn,
			Message: "Slow average response time (>1s). Consider optimization.",
		}
	case meanMs > 500:
		return Insight{
			Level:   InsightInfo,
			Message: "Moderate response time. Room for improvement.",
		}
	default:
		return Insight{
			Level:   InsightGood,
			Message: "Fast response times. Server performing well.",
		}
	}
}
