package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

// StatusCache keeps aggregated status views in Redis with a short TTL.
// Entries may go stale for up to the TTL while a pending record is being
// retried, which the read model tolerates.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache creates a status cache with the given TTL
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *StatusCache) key(notificationID uuid.UUID) string {
	return "notification:status:" + notificationID.String()
}

// Get returns the cached aggregate, or (nil, nil) on a miss
func (c *StatusCache) Get(ctx context.Context, notificationID uuid.UUID) (*entity.AggregatedStatus, error) {
	data, err := c.client.Get(ctx, c.key(notificationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read status cache: %w", err)
	}

	var status entity.AggregatedStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode cached status: %w", err)
	}

	return &status, nil
}

// Set stores the aggregate under its notification id
func (c *StatusCache) Set(ctx context.Context, status *entity.AggregatedStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode status for cache: %w", err)
	}

	if err := c.client.Set(ctx, c.key(status.NotificationID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write status cache: %w", err)
	}

	return nil
}

// Ping checks cache connectivity for health reporting
func (c *StatusCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
