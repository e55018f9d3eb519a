package session

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryStoreSetGet(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k1", Data{"bankroll": "100"}, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := s.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if data["bankroll"] != "100" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestInMemoryStoreExpiry(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	real := now
	defer func() { now = real }()

	base := time.Now()
	now = func() time.Time { return base }
	_ = s.Set(ctx, "k1", Data{"x": 1}, time.Minute)

	now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expired entry should not be returned")
	}
}

func TestInMemoryStoreDelete(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, "k1", Data{"x": 1}, time.Hour)
	_ = s.Delete(ctx, "k1")
	_, ok, _ := s.Get(ctx, "k1")
	if ok {
		t.Fatal("deleted entry should not be returned")
	}
}

func TestInMemoryStoreExists(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	if ok, _ := s.Exists(ctx, "missing"); ok {
		t.Fatal("nonexistent key should report Exists false")
	}
	_ = s.Set(ctx, "k1", Data{"x": 1}, time.Hour)
	if ok, _ := s.Exists(ctx, "k1"); !ok {
		t.Fatal("present key should report Exists true")
	}
}

func TestCleanupExpired(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	real := now
	defer func() { now = real }()

	base := time.Now()
	now = func() time.Time { return base }
	_ = s.Set(ctx, "expired", Data{"x": 1}, time.Minute)
	_ = s.Set(ctx, "fresh", Data{"x": 1}, time.Hour)

	now = func() time.Time { return base.Add(2 * time.Minute) }
	removed := s.CleanupExpired()
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok, _ := s.Get(ctx, "fresh"); !ok {
		t.Fatal("fresh entry should survive cleanup")
	}
}

func TestSelectBackendFallsBackWhenRedisUnavailable(t *testing.T) {
	store := SelectBackend("127.0.0.1:1", 0, "")
	if _, ok := store.(*InMemoryStore); !ok {
		t.Fatalf("expected fallback to *InMemoryStore, got %T", store)
	}
}
