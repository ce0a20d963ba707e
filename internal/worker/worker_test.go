package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	p := NewPool(2, 16)
	p.Start(context.Background())
	defer p.Stop()

	var count int64
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		if err := p.Submit(id, func(ctx context.Context) {
			atomic.AddInt64(&count, 1)
		}); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}

	p.Drain()
	if got := atomic.LoadInt64(&count); got != 8 {
		t.Fatalf("ran %d jobs, want 8", got)
	}
}

func TestPoolRefusesDuplicateTaskID(t *testing.T) {
	p := NewPool(1, 16)
	p.Start(context.Background())
	defer p.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	if err := p.Submit("task-1", func(ctx context.Context) {
		close(started)
		<-release
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-started

	err := p.Submit("task-1", func(ctx context.Context) {})
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}

	close(release)
	p.Drain()

	// after the first run finishes, the id is free again
	if err := p.Submit("task-1", func(ctx context.Context) {}); err != nil {
		t.Fatalf("resubmit after completion: %v", err)
	}
	p.Drain()
}

func TestPoolLimitsConcurrency(t *testing.T) {
	p := NewPool(2, 16)
	p.Start(context.Background())
	defer p.Stop()

	var mu sync.Mutex
	running, peak := 0, 0

	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		if err := p.Submit(id, func(ctx context.Context) {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}

	p.Drain()
	if peak > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestPoolQueueFull(t *testing.T) {
	p := NewPool(1, 1)
	// not started: nothing consumes the queue

	if err := p.Submit("a", func(ctx context.Context) {}); err != nil {
		t.Fatalf("submit a: %v", err)
	}
	if err := p.Submit("b", func(ctx context.Context) {}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
}

func TestPoolRecoversFromPanic(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()

	if err := p.Submit("boom", func(ctx context.Context) {
		panic("stage exploded")
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	p.Drain()

	// the worker survived and keeps processing
	done := make(chan struct{})
	if err := p.Submit("next", func(ctx context.Context) { close(done) }); err != nil {
		t.Fatalf("submit after panic: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not run jobs after a panic")
	}
}
