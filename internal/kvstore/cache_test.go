package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/agendaluz/studio-agenda/internal/schedule"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSnapshotCache(client, time.Hour), mr
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	snap := &Snapshot{
		Appointments: []schedule.Appointment{{ID: "a1", Date: "2026-09-10", ClientName: "Carla"}},
		Settings:     map[string]string{"studioName": "Studio Luz"},
	}
	if err := cache.Set(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got.Appointments) != 1 || got.Appointments[0].ID != "a1" {
		t.Errorf("unexpected cached snapshot: %+v", got)
	}
}

func TestSnapshotCache_EmptyCacheReturnsNil(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for empty cache, got %+v", got)
	}
}

func TestSnapshotCache_ExpiresWithTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, &Snapshot{Settings: map[string]string{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	got, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired snapshot to be gone, got %+v", got)
	}
}

func TestSnapshotCache_CorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t)

	mr.Set("studio:snapshot", "{not json")

	if _, err := cache.Get(context.Background()); err == nil {
		t.Fatal("expected error for corrupt payload")
	}
}
