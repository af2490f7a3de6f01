package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRunner struct {
	runs atomic.Int32
	err  error
}

func (f *fakeRunner) Run(ctx context.Context) (string, error) {
	f.runs.Add(1)
	return "out.md", f.err
}

func TestPipelineRunnerRunsImmediately(t *testing.T) {
	r := &fakeRunner{}
	w := &PipelineRunner{Pipeline: r, Interval: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Start(ctx); err != nil {
			t.Errorf("Start: %v", err)
		}
	}()

	deadline := time.After(2 * time.Second)
	for r.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if got := r.runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestPipelineRunnerSurvivesErrors(t *testing.T) {
	r := &fakeRunner{err: errors.New("boom")}
	w := &PipelineRunner{Pipeline: r, Interval: 20 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if r.runs.Load() < 2 {
		t.Errorf("expected repeated runs despite errors, got %d", r.runs.Load())
	}
}

type blockingWorker struct {
	started chan struct{}
}

func (b *blockingWorker) Start(ctx context.Context) error {
	close(b.started)
	<-ctx.Done()
	return nil
}

func TestManagerWaitsForWorkers(t *testing.T) {
	b := &blockingWorker{started: make(chan struct{})}
	m := NewManager(b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	select {
	case <-b.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never started")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
}
