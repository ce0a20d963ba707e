package tasks

import (
	"testing"
	"time"

	"golos/internal/models"
)

func TestSweepZeroMaxAgeRemovesEverything(t *testing.T) {
	store, _ := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.Create(id, models.SourceFile, "/tmp/"+id, models.RequestParams{}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// an in-progress task is evicted like any other
	if ok, err := store.Update("b", Update{Status: statusPtr(models.StatusProcessing)}); err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}

	time.Sleep(2 * time.Millisecond) // make every task strictly older than now

	sweeper := NewSweeper(store, 0, time.Hour)
	removed, err := sweeper.Sweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}

	left, err := store.List(0, 0, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("store not empty after sweep: %d tasks left", len(left))
	}
}

func TestSweepKeepsYoungTasks(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Create("young", models.SourceFile, "/tmp/y", models.RequestParams{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	sweeper := NewSweeper(store, 24*time.Hour, time.Hour)
	removed, err := sweeper.Sweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if got, _ := store.Get("young"); got == nil {
		t.Fatal("young task was evicted")
	}
}
