package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

// RecordFilter narrows down candidate notification ids in a channel store
type RecordFilter struct {
	Recipient string
	Status    entity.RecordStatus
	From      *time.Time
	To        *time.Time
}

// ChannelRecordRepository defines the interface for one channel's durable
// record store
type ChannelRecordRepository interface {
	// Create inserts a new record. Returns entity.ErrDuplicateNotification
	// when a record with the same notification id already exists.
	Create(ctx context.Context, record *entity.ChannelRecord) error

	// GetByNotificationID retrieves the record for a notification id.
	// Returns entity.ErrNotFound when no record exists.
	GetByNotificationID(ctx context.Context, notificationID uuid.UUID) (*entity.ChannelRecord, error)

	// UpdateRetryCount persists retry progress and the last error message
	UpdateRetryCount(ctx context.Context, notificationID uuid.UUID, retryCount int, errorMessage string) error

	// MarkSent finalizes the record as sent
	MarkSent(ctx context.Context, notificationID uuid.UUID, sentAt time.Time, externalID *uuid.UUID) error

	// MarkFailed finalizes the record as failed with the last error message
	MarkFailed(ctx context.Context, notificationID uuid.UUID, errorMessage string) error

	// FindIDs returns the distinct notification ids matching the filter
	FindIDs(ctx context.Context, filter RecordFilter) ([]uuid.UUID, error)

	// CountByStatus returns record counts within the window, grouped by the
	// effective status (the provider-reported final status when present)
	CountByStatus(ctx context.Context, from, to time.Time) (map[entity.RecordStatus]int, error)

	// DistinctIDs returns the distinct notification ids within the window
	DistinctIDs(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)
}
