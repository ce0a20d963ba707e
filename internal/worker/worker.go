package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// RunFunc is the unit of work executed for one task.
type RunFunc func(ctx context.Context)

// ErrQueueFull is returned when the submission queue has no capacity left.
var ErrQueueFull = errors.New("worker queue is full")

// ErrAlreadyRunning is returned when a run for the same task id is
// already queued or in flight.
var ErrAlreadyRunning = errors.New("task run already scheduled")

type job struct {
	taskID string
	run    RunFunc
}

// Pool executes task runs on a fixed number of background workers.
// At most one run is active or queued per task id at any time.
type Pool struct {
	workers  int
	queue    chan job
	stop     chan struct{}
	wg       sync.WaitGroup
	inflight sync.WaitGroup
	mu       sync.Mutex
	active   map[string]struct{}
}

// NewPool creates a pool with the given number of workers and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		workers: workers,
		queue:   make(chan job, queueSize),
		stop:    make(chan struct{}),
		active:  make(map[string]struct{}),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	log.Printf("Worker pool started (%d workers)", p.workers)
}

// Stop gracefully stops the pool. Queued runs that have not started are
// discarded; in-flight runs finish.
func (p *Pool) Stop() {
	close(p.stop)
	p.wg.Wait()
	log.Println("Worker pool stopped")
}

// Submit enqueues one run for a task id. A second submission for the same
// id while the first is queued or running is refused.
func (p *Pool) Submit(taskID string, run RunFunc) error {
	p.mu.Lock()
	if _, ok := p.active[taskID]; ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, taskID)
	}
	p.active[taskID] = struct{}{}
	p.mu.Unlock()

	p.inflight.Add(1)
	select {
	case p.queue <- job{taskID: taskID, run: run}:
		return nil
	default:
		p.release(taskID)
		p.inflight.Done()
		return ErrQueueFull
	}
}

// Drain blocks until every submitted run has finished.
// Test-only: production callers poll task state instead.
func (p *Pool) Drain() {
	p.inflight.Wait()
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case j := <-p.queue:
			p.execute(ctx, j)
		}
	}
}

func (p *Pool) execute(ctx context.Context, j job) {
	defer p.inflight.Done()
	defer p.release(j.taskID)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Run for task %s panicked: %v", j.taskID, r)
		}
	}()

	j.run(ctx)
}

func (p *Pool) release(taskID string) {
	p.mu.Lock()
	delete(p.active, taskID)
	p.mu.Unlock()
}
