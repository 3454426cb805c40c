package runner

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/davemt/stressforge/internal/metrics"
)

const defaultPoolLimit = 100

// Executor performs one request and normalizes its outcome. Implementations
// must not fail upward: every execution path resolves to a well-formed
// RequestResult.
type Executor interface {
	Execute(ctx context.Context) metrics.RequestResult
}

// Options configure the Runner.
type Options struct {
	ConcurrentUsers int // configured virtual users
	RequestsPerUser int // requests issued per user
	PoolLimit       int // ceiling on in-flight requests, independent of users
	Rate            int // requests per second pacing (0 means unlimited)

	Executor Executor // request executor (required)

	// OnResult, when set, is invoked after each completed execution with the
	// completed count so far, the total to dispatch, and the result. Calls
	// may come from concurrent workers.
	OnResult func(completed, total int, res metrics.RequestResult)

	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.ConcurrentUsers < 1 {
		o.ConcurrentUsers = 1
	}
	if o.RequestsPerUser < 1 {
		o.RequestsPerUser = 1
	}
	if o.PoolLimit < 1 {
		o.PoolLimit = defaultPoolLimit
	}
	if o.Rate < 0 {
		o.Rate = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst equal to rps to smooth pacing under concurrency.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// TotalRequests is the number of executions a run dispatches: one per
// user/request pair, always the product of the two factors.
func (o Options) TotalRequests() int {
	return o.ConcurrentUsers * o.RequestsPerUser
}

// workerCount bounds worker goroutines: the pool limit acts as the
// concurrency ceiling, and small runs do not spawn idle workers.
func (o Options) workerCount() int {
	workers := o.PoolLimit
	if total := o.TotalRequests(); total < workers {
		workers = total
	}
	return workers
}
