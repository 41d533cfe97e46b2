package store

import (
	"context"
	"errors"
	"testing"

	"movie-sync-go/pkg/logging"
)

// fakeStore is an in-memory KeyValueStore that counts inner reads.
type fakeStore struct {
	data    map[string][]byte
	tracked []string
	gets    int
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.gets++
	val, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return val, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Track(ctx context.Context, key string) error {
	f.tracked = append(f.tracked, key)
	return nil
}

func (f *fakeStore) TrackedKeys(ctx context.Context) ([]string, error) {
	return f.tracked, nil
}

func (f *fakeStore) Close() error { return nil }

func TestCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := newFakeStore()
	inner.data["k1"] = []byte("v1")
	cache := NewCache(inner, logging.New("error", false, nil))

	for i := 0; i < 3; i++ {
		val, err := cache.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(val) != "v1" {
			t.Errorf("Get = %q", val)
		}
	}
	if inner.gets != 1 {
		t.Errorf("inner reads = %d, want 1", inner.gets)
	}
}

func TestCacheMissPropagates(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(newFakeStore(), logging.New("error", false, nil))

	if _, err := cache.Get(ctx, "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestCacheWriteThrough(t *testing.T) {
	ctx := context.Background()
	inner := newFakeStore()
	cache := NewCache(inner, logging.New("error", false, nil))

	if err := cache.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if string(inner.data["k1"]) != "v1" {
		t.Error("value not written through to inner store")
	}

	// Subsequent reads come from the local copy.
	inner.gets = 0
	if _, err := cache.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inner.gets != 0 {
		t.Errorf("inner reads = %d, want 0", inner.gets)
	}
}

func TestCacheFailedWriteDoesNotPoisonLocal(t *testing.T) {
	ctx := context.Background()
	inner := newFakeStore()
	inner.data["k1"] = []byte("old")
	cache := NewCache(inner, logging.New("error", false, nil))

	inner.setErr = errors.New("write refused")
	if err := cache.Set(ctx, "k1", []byte("new")); err == nil {
		t.Fatal("expected Set error")
	}

	val, err := cache.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "old" {
		t.Errorf("local cache holds %q after failed write, want %q", val, "old")
	}
}

func TestCachePreload(t *testing.T) {
	ctx := context.Background()
	inner := newFakeStore()
	inner.data["k1"] = []byte("v1")
	inner.data["k2"] = []byte("v2")
	inner.tracked = []string{"k1", "k2", "gone"}
	cache := NewCache(inner, logging.New("error", false, nil))

	if err := cache.Preload(ctx); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}

	inner.gets = 0
	for _, key := range []string{"k1", "k2"} {
		if _, err := cache.Get(ctx, key); err != nil {
			t.Fatalf("Get %s failed: %v", key, err)
		}
	}
	if inner.gets != 0 {
		t.Errorf("inner reads after preload = %d, want 0", inner.gets)
	}
}
