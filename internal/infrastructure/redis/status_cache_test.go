package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

func newTestCache(t *testing.T, ttl time.Duration) (*StatusCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStatusCache(client, ttl), mr
}

func TestStatusCache_RoundTrip(t *testing.T) {
	t.Parallel()

	cache, mr := newTestCache(t, 10*time.Second)
	ctx := context.Background()

	id := uuid.New()
	status := &entity.AggregatedStatus{
		NotificationID: id,
		OverallStatus:  entity.OverallStatusCompleted,
		ServiceStatuses: []entity.ChannelStatus{
			{
				NotificationID: id,
				ServiceType:    entity.ChannelEmail,
				Status:         entity.RecordStatusSent,
				Recipient:      "user@example.com",
			},
		},
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		LastUpdated: time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC),
	}

	if err := cache.Set(ctx, status); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	key := "notification:status:" + id.String()
	if !mr.Exists(key) {
		t.Fatalf("expected key %q to exist", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected a TTL to be set, got %v", ttl)
	}

	got, err := cache.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a cache hit")
	}
	if got.NotificationID != id {
		t.Fatalf("expected id %s, got %s", id, got.NotificationID)
	}
	if got.OverallStatus != entity.OverallStatusCompleted {
		t.Fatalf("expected completed, got %s", got.OverallStatus)
	}
	if len(got.ServiceStatuses) != 1 || got.ServiceStatuses[0].Recipient != "user@example.com" {
		t.Fatalf("unexpected channel statuses: %+v", got.ServiceStatuses)
	}
}

func TestStatusCache_MissReturnsNil(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, time.Second)

	got, err := cache.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected a miss to return no error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on a miss, got %+v", got)
	}
}

func TestStatusCache_ExpiredEntryIsAMiss(t *testing.T) {
	t.Parallel()

	cache, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	id := uuid.New()
	if err := cache.Set(ctx, &entity.AggregatedStatus{NotificationID: id}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, id)
	if err != nil {
		t.Fatalf("expected an expired entry to be a plain miss, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after expiry, got %+v", got)
	}
}
