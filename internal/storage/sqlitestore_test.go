package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)

	if err := s.Put("a", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := s.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"x":1}` {
		t.Errorf("data = %q", data)
	}

	// upsert
	if err := s.Put("a", []byte(`{"x":2}`)); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}
	data, _ = s.Get("a")
	if string(data) != `{"x":2}` {
		t.Errorf("data after overwrite = %q", data)
	}
}

func TestSQLiteStoreMissingAndDelete(t *testing.T) {
	s := newTestSQLiteStore(t)

	if _, err := s.Get("ghost"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("get err = %v, want ErrSnapshotNotFound", err)
	}

	if err := s.Put("a", []byte("1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete("a"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("second delete err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSQLiteStoreListKeys(t *testing.T) {
	s := newTestSQLiteStore(t)

	for _, id := range []string{"a", "b"} {
		if err := s.Put(id, []byte("1")); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	keys, err := s.ListKeys()
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 entries", keys)
	}
}
