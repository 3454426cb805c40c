package metrics

import (
	"strconv"
	"time"
)

// Outcome classifies how a dispatched request concluded.
type Outcome string

const (
	// OutcomeResponse means an HTTP response was received, whatever its status.
	OutcomeResponse Outcome = "response"
	// OutcomeTimeout means no response arrived within the configured timeout.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeError covers transport failures that never produced a response
	// (DNS, connection refused, TLS, malformed response).
	OutcomeError Outcome = "error"
)

// RequestResult is the normalized outcome of a single request. Every
// dispatched request produces exactly one RequestResult; failures are data,
// not control flow. Results are immutable once created.
type RequestResult struct {
	Outcome    Outcome `json:"outcome"`
	StatusCode int     `json:"status_code,omitempty"` // set only when Outcome == OutcomeResponse

	// Latency is the measured request duration. For OutcomeTimeout it holds
	// the configured timeout as a sentinel rather than a real measurement;
	// check Outcome before trusting it. Meaningless when Measured is false.
	Latency  time.Duration `json:"-"`
	Measured bool          `json:"measured"`

	ContentLength int64     `json:"content_length,omitempty"`
	Success       bool      `json:"success"`
	ErrorMessage  string    `json:"error,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// LatencyMs returns the latency in milliseconds.
func (r RequestResult) LatencyMs() float64 {
	return float64(r.Latency) / float64(time.Millisecond)
}

// StatusKey returns the status-distribution key: the numeric HTTP status
// code, or the "timeout"/"error" sentinel when no response was obtained.
func (r RequestResult) StatusKey() string {
	if r.Outcome == OutcomeResponse {
		return strconv.Itoa(r.StatusCode)
	}
	return string(r.Outcome)
}
