package worker

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one drafting pass; the pipeline package provides the real one.
type Runner interface {
	Run(ctx context.Context) (string, error)
}

// PipelineRunner runs the drafting pipeline on an interval. A failed run is
// logged and retried on the next tick.
type PipelineRunner struct {
	Pipeline Runner
	Interval time.Duration
}

func (w *PipelineRunner) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PipelineRunner) runOnce(ctx context.Context) {
	path, err := w.Pipeline.Run(ctx)
	if err != nil {
		slog.Error("pipeline-runner: run failed", "error", err)
		return
	}
	slog.Info("pipeline-runner: run complete", "report", path)
}
