// Package runner is the load-generation engine for stressforge.
//
// A run is a fixed batch: ConcurrentUsers × RequestsPerUser executions of
// an [Executor], dispatched over a bounded worker pool and awaited jointly.
// "Concurrent users" is flat request parallelism — the engine does not model
// per-user sequential sessions — and the pool limit is a protective ceiling
// on in-flight requests that holds regardless of how many users are
// configured.
//
// # Basic usage
//
//	r := runner.New(runner.Options{
//		ConcurrentUsers: 10,
//		RequestsPerUser: 5,
//		PoolLimit:       100,
//		Executor:        executor,
//	})
//	results, elapsed, err := r.Run(ctx)
//
// The error return covers setup failure only. Per-request failures never
// abort a batch: [HTTPExecutor] converts every outcome, including timeouts
// and transport errors, into a result value.
//
// # Progress
//
// Options.OnResult delivers discrete completion events (completed count,
// total, result) so a presentation layer can render progress without the
// engine knowing about it.
package runner
