package runner

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davemt/stressforge/internal/httpclient"
	"github.com/davemt/stressforge/internal/metrics"
	"github.com/davemt/stressforge/internal/tracing"
)

// HTTPExecutor performs a single GET against the target and converts the
// outcome into a RequestResult. It touches no shared mutable state beyond
// the pooled client, so any number of executions may run concurrently.
type HTTPExecutor struct {
	Client  *http.Client
	Builder *httpclient.RequestBuilder

	// Timeout bounds each request and doubles as the sentinel latency
	// recorded for timed-out requests.
	Timeout time.Duration

	// Delay suspends the execution before the request is issued, modeling
	// staggered client arrival. It does not count toward measured latency.
	Delay time.Duration

	// Tracing optionally wraps each execution in a client span.
	Tracing *tracing.Provider
}

// Execute never fails upward: DNS errors, refused connections, timeouts and
// non-2xx responses all come back as data. A single failing request cannot
// abort the batch.
func (e *HTTPExecutor) Execute(ctx context.Context) metrics.RequestResult {
	if ctx == nil {
		ctx = context.Background()
	}

	if e.Delay > 0 {
		timer := time.NewTimer(e.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return e.errorResult(ctx.Err())
		}
	}

	var span trace.Span
	if e.Tracing != nil {
		ctx, span = tracing.StartRequestSpan(ctx, e.Tracing.Tracer(), e.Builder.Target())
	}

	res := e.doRequest(ctx)

	if e.Tracing != nil {
		attrs := []attribute.KeyValue{
			attribute.String("stressforge.outcome", string(res.Outcome)),
		}
		if res.Outcome == metrics.OutcomeResponse {
			attrs = append(attrs, attribute.Int("http.response.status_code", res.StatusCode))
		}
		var spanErr error
		if !res.Success {
			spanErr = errors.New(res.StatusKey())
		}
		tracing.EndSpan(span, spanErr, attrs...)
	}
	return res
}

func (e *HTTPExecutor) doRequest(ctx context.Context) metrics.RequestResult {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	req, err := e.Builder.Build(ctx)
	if err != nil {
		return e.errorResult(err)
	}
	if e.Tracing != nil && e.Tracing.ShouldPropagate() {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	// The timer starts right before the request goes out and stops only
	// after the body is fully consumed, so measured latency covers the
	// complete transfer, not just the headers.
	start := time.Now()
	resp, err := e.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return e.timeoutResult()
		}
		return e.errorResult(err)
	}

	n, err := io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	latency := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return e.timeoutResult()
		}
		return e.errorResult(err)
	}

	status := resp.StatusCode
	return metrics.RequestResult{
		Outcome:       metrics.OutcomeResponse,
		StatusCode:    status,
		Latency:       latency,
		Measured:      true,
		ContentLength: n,
		Success:       status >= 200 && status < 300,
		Timestamp:     time.Now(),
	}
}

// timeoutResult records the configured timeout as the latency. This is a
// sentinel, not a measurement; Outcome tags it so consumers can exclude it
// from percentile work.
func (e *HTTPExecutor) timeoutResult() metrics.RequestResult {
	return metrics.RequestResult{
		Outcome:      metrics.OutcomeTimeout,
		Latency:      e.Timeout,
		Measured:     true,
		ErrorMessage: "Timeout",
		Timestamp:    time.Now(),
	}
}

func (e *HTTPExecutor) errorResult(err error) metrics.RequestResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return metrics.RequestResult{
		Outcome:      metrics.OutcomeError,
		ErrorMessage: msg,
		Timestamp:    time.Now(),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
