package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davemt/stressforge/internal/metrics"
)

// ErrNoExecutor is returned when a Runner is started without an executor.
// It is the batch-level fatal case: nothing was dispatched, no partial
// results exist.
var ErrNoExecutor = errors.New("runner: no executor configured")

// Runner dispatches a fixed batch of executions across a bounded worker
// pool and collects every result.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run dispatches exactly TotalRequests executions and blocks until every
// one has resolved. The returned slice holds one result per execution in
// completion order, which is unrelated to dispatch order. The elapsed
// duration covers the whole batch, failed and timed-out executions
// included.
//
// Cancelling ctx stops dispatching new executions; already-dispatched ones
// still resolve and are returned. With an uncancelled context the result
// count always equals TotalRequests.
func (r *Runner) Run(ctx context.Context) ([]metrics.RequestResult, time.Duration, error) {
	if r.opt.Executor == nil {
		return nil, 0, ErrNoExecutor
	}
	if ctx == nil {
		ctx = context.Background()
	}

	total := r.opt.TotalRequests()
	limiter := r.opt.LimiterFactory(r.opt.Rate)
	start := time.Now()

	permits := make(chan struct{}, r.opt.workerCount())

	// Scheduler: serializes pacing so concurrent workers cannot overshoot
	// the configured rate.
	go func() {
		defer close(permits)
		for dispatched := 0; dispatched < total; dispatched++ {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case permits <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		mu        sync.Mutex
		results   = make([]metrics.RequestResult, 0, total)
		completed int64
	)

	var wg sync.WaitGroup
	workers := r.opt.workerCount()
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for range permits {
				res := r.opt.Executor.Execute(ctx)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				done := int(atomic.AddInt64(&completed, 1))
				if r.opt.OnResult != nil {
					r.opt.OnResult(done, total, res)
				}
			}
		}()
	}
	wg.Wait()

	return results, time.Since(start), nil
}
