package tasks

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sweeper periodically evicts tasks older than a configured age.
// Eviction is age-based only: tasks still in progress are removed too,
// and their background runs will fail silently on the next store update.
type Sweeper struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper that removes tasks older than maxAge,
// checking every interval.
func NewSweeper(store *Store, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	log.Println("Sweeper started")
}

// Stop gracefully stops the sweep loop.
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
	log.Println("Sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			if n, err := s.Sweep(); err != nil {
				log.Printf("Sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("Sweep removed %d expired tasks", n)
			}
		}
	}
}

// Sweep scans all stored tasks and deletes every one older than maxAge,
// regardless of status. Per-task failures are logged and the sweep
// continues; the count of removed tasks is returned.
func (s *Sweeper) Sweep() (int, error) {
	all, err := s.store.List(0, 0, nil)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-s.maxAge)
	removed := 0
	for _, task := range all {
		if !task.CreatedAt.Before(cutoff) {
			continue
		}
		ok, err := s.store.Delete(task.ID)
		if err != nil {
			log.Printf("Failed to evict task %s: %v", task.ID, err)
			continue
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}
