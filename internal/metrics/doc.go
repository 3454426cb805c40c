// Package metrics defines the result model for stressforge and the
// aggregation over it.
//
// A load run produces one [RequestResult] per dispatched request. The
// result set plus the run's wall-clock duration feed [Summarize], a pure
// function producing a [Summary]: counts, success rate, throughput, the
// latency distribution with interpolated percentiles, the status-code
// histogram, and qualitative [Insight] labels.
//
// # Valid sample and sentinels
//
// Only results with a timing conclusion enter the latency sample. Timed-out
// requests carry the configured timeout as a sentinel latency and are part
// of the valid sample, matching the tool's historical behavior; they are
// tagged with [OutcomeTimeout] so consumers can filter them. Transport
// errors that never produced a response carry no measurement at all and are
// excluded from every latency statistic.
//
// # Small samples
//
// Tail percentiles on tiny samples are statistically meaningless, so P95
// falls back to the sample maximum below 20 measurements and P99 below 50.
// The substitution is reported on [LatencyStats] so reports can flag it.
//
// [Collector] is the separate, mutex-guarded accumulator used for live
// progress output while a run is still in flight.
package metrics
