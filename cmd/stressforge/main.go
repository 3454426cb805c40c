package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/davemt/stressforge/internal/config"
	"github.com/davemt/stressforge/internal/httpclient"
	"github.com/davemt/stressforge/internal/metrics"
	"github.com/davemt/stressforge/internal/output"
	"github.com/davemt/stressforge/internal/runner"
	"github.com/davemt/stressforge/internal/threshold"
	"github.com/davemt/stressforge/internal/tracing"
)

const (
	progressInterval = 500 * time.Millisecond
	shutdownTimeout  = 5 * time.Second
)

type stderrFailureLogger struct {
	mu sync.Mutex
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var provider *tracing.Provider
	if cfg.Tracing.Enabled() {
		provider, err = tracing.Init(ctx, cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "[stressforge] tracing shutdown: %v\n", err)
			}
		}()
	}

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}
	client := httpclient.NewClient(cfg.Timeout, cfg.FollowRedirects, cfg.PoolLimit)

	executor := &runner.HTTPExecutor{
		Client:  client,
		Builder: builder,
		Timeout: cfg.Timeout,
		Delay:   cfg.Delay,
		Tracing: provider,
	}

	collector := metrics.NewCollector()

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.NoProgress {
		progress = output.NewProgressReporter(collector, cfg.TotalRequests(), progressInterval, os.Stdout)
		progress.Start()
	}

	var failureLog *stderrFailureLogger
	if cfg.LogErrors {
		failureLog = &stderrFailureLogger{}
	}

	opts := runner.Options{
		ConcurrentUsers: cfg.ConcurrentUsers,
		RequestsPerUser: cfg.RequestsPerUser,
		PoolLimit:       cfg.PoolLimit,
		Rate:            cfg.Rate,
		Executor:        executor,
		OnResult: func(completed, total int, res metrics.RequestResult) {
			collector.Record(res)
			if progress != nil {
				progress.Advance(completed)
			}
			if failureLog != nil && !res.Success {
				failureLog.LogFailure(res)
			}
		},
	}

	results, elapsed, err := runner.New(opts).Run(ctx)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}

	summary := metrics.Summarize(results, elapsed)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, summary); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, summary)
	}

	if len(thresholds) > 0 {
		evaluations := threshold.NewEvaluator(thresholds).Evaluate(summary)
		failed := 0
		fmt.Fprintln(os.Stdout, "\nThresholds:")
		for _, result := range evaluations {
			fmt.Fprintf(os.Stdout, "  %s\n", result.Message)
			if !result.Pass {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d thresholds failed", failed, len(evaluations))
		}
	}

	return nil
}

func (l *stderrFailureLogger) LogFailure(res metrics.RequestResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if res.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "[stressforge] request failed: %s\n", res.ErrorMessage)
		return
	}
	fmt.Fprintf(os.Stderr, "[stressforge] request failed: status %s\n", res.StatusKey())
}
