package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-reels/internal/domain/pipeline"
	"pet-reels/internal/platform/logger"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   map[string]int
	active  map[string]bool
	overlap bool
	fail    error
	done    chan string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{calls: map[string]int{}, active: map[string]bool{}, done: make(chan string, 64)}
}

func (f *fakeRunner) Run(ctx context.Context, job string) (pipeline.Summary, error) {
	f.mu.Lock()
	if f.active[job] {
		f.overlap = true
	}
	f.active[job] = true
	f.calls[job]++
	f.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	f.mu.Lock()
	f.active[job] = false
	f.mu.Unlock()

	select {
	case f.done <- job:
	default:
	}
	return pipeline.Summary{Job: job}, f.fail
}

func waitFor(t *testing.T, f *fakeRunner, want map[string]int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		f.mu.Lock()
		ok := true
		for job, n := range want {
			if f.calls[job] < n {
				ok = false
			}
		}
		f.mu.Unlock()
		if ok {
			return
		}
		select {
		case <-f.done:
		case <-deadline:
			t.Fatalf("timeout waiting for runs %v (got %v)", want, f.calls)
		}
	}
}

func TestScheduler_RunsEachJobOnItsTicker(t *testing.T) {
	f := newFakeRunner()
	f.fail = errors.New("boom") // los errores no cortan el loop

	s := New(f, map[string]time.Duration{
		pipeline.JobQuickScan: 5 * time.Millisecond,
		pipeline.JobJanitor:   10 * time.Millisecond,
		pipeline.JobDedup:     0,
	}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	waitFor(t, f, map[string]int{pipeline.JobQuickScan: 3, pipeline.JobJanitor: 2})
	cancel()

	if err := <-errCh; err != nil {
		t.Fatalf("Run: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls[pipeline.JobDedup] != 0 {
		t.Fatalf("dedup has no interval and should not run")
	}
	if f.overlap {
		t.Fatalf("a job overlapped with itself")
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	f := newFakeRunner()
	s := New(f, map[string]time.Duration{pipeline.JobDiscovery: time.Hour}, logger.Nop(), WithRunOnStart(true))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	waitFor(t, f, map[string]int{pipeline.JobDiscovery: 1})
}

func TestScheduler_NoJobs(t *testing.T) {
	s := New(newFakeRunner(), nil, nil)
	if err := s.Run(context.Background()); err == nil {
		t.Fatalf("expected error with no jobs")
	}
}
