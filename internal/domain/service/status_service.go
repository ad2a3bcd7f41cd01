package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
)

// SearchFilter describes a status search across channel stores
type SearchFilter struct {
	Recipient   string
	Status      entity.RecordStatus
	ServiceType string
	From        *time.Time
	To          *time.Time
}

// Statistics is the per-window aggregate over all channel stores
type Statistics struct {
	Counts             map[string]int `json:"counts"`
	TotalNotifications int            `json:"total_notifications"`
}

// StatusService defines the read-side aggregation over all channel stores
type StatusService interface {
	// GetStatus merges every channel's record for the notification id into
	// one aggregated view. Returns entity.ErrNotFound when no channel has
	// seen the id.
	GetStatus(ctx context.Context, notificationID uuid.UUID) (*entity.AggregatedStatus, error)

	// Search pages over the distinct notification ids matching the filter
	// and expands each into its aggregated view
	Search(ctx context.Context, filter SearchFilter, page, pageSize int) ([]*entity.AggregatedStatus, error)

	// ByDateRange lists aggregated views for notifications created inside
	// the window
	ByDateRange(ctx context.Context, from, to time.Time, page, pageSize int) ([]*entity.AggregatedStatus, error)

	// Statistics returns per-channel status counts and the global distinct
	// notification count for the window
	Statistics(ctx context.Context, from, to time.Time) (*Statistics, error)
}

// ChannelStores maps each channel to its record store, in the fixed order
// email, sms, push
type ChannelStores map[entity.Channel]repository.ChannelRecordRepository

// Channels returns the aggregation order used by the status service
func Channels() []entity.Channel {
	return []entity.Channel{entity.ChannelEmail, entity.ChannelSMS, entity.ChannelPush}
}
