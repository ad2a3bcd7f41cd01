package entity

import (
	"time"

	"github.com/google/uuid"
)

// Channel represents a delivery channel
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// RecordStatus represents the lifecycle status of a channel record
type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusSent      RecordStatus = "sent"
	RecordStatusFailed    RecordStatus = "failed"
	RecordStatusDelivered RecordStatus = "delivered"
)

// OverallStatus represents the derived cross-channel status of a notification
type OverallStatus string

const (
	OverallStatusUnknown         OverallStatus = "unknown"
	OverallStatusPending         OverallStatus = "pending"
	OverallStatusInProgress      OverallStatus = "in_progress"
	OverallStatusCompleted       OverallStatus = "completed"
	OverallStatusPartiallyFailed OverallStatus = "partially_failed"
	OverallStatusFailed          OverallStatus = "failed"
)

// NotificationRequest is the message carried through the pipeline.
// ID is minted once at the gateway and acts as the idempotency key
// on every hop.
type NotificationRequest struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"type"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Platform returns the push platform hint from metadata, if any
func (n *NotificationRequest) Platform() string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata["platform"]
}

// ChannelRecord is the durable per-channel outcome of one notification.
// Exactly one row exists per notification id per channel, enforced by a
// unique index on notification_id.
type ChannelRecord struct {
	ID             int64
	NotificationID uuid.UUID
	ServiceType    Channel
	Recipient      string
	Subject        string
	Message        string
	Platform       *string
	Status         RecordStatus
	ErrorMessage   *string
	RetryCount     int
	ExternalID     *uuid.UUID
	FinalStatus    *RecordStatus
	CreatedAt      time.Time
	SentAt         *time.Time
}

// EffectiveStatus prefers the provider-reported final status over the
// locally tracked one. FinalStatus is filled in by asynchronous delivery
// receipts for channels that support them.
func (r *ChannelRecord) EffectiveStatus() RecordStatus {
	if r.FinalStatus != nil {
		return *r.FinalStatus
	}
	return r.Status
}

// ChannelStatus is the read-side projection of one ChannelRecord
type ChannelStatus struct {
	NotificationID uuid.UUID    `json:"notification_id"`
	ServiceType    Channel      `json:"service_type"`
	Status         RecordStatus `json:"status"`
	ErrorMessage   *string      `json:"error_message,omitempty"`
	RetryCount     int          `json:"retry_count"`
	Recipient      string       `json:"recipient"`
	Subject        string       `json:"subject"`
	Message        string       `json:"message"`
	CreatedAt      time.Time    `json:"created_at"`
	SentAt         *time.Time   `json:"sent_at,omitempty"`
}

// AggregatedStatus is the merged cross-channel view of one notification.
// It is derived on read and never persisted.
type AggregatedStatus struct {
	NotificationID  uuid.UUID       `json:"notification_id"`
	OverallStatus   OverallStatus   `json:"overall_status"`
	ServiceStatuses []ChannelStatus `json:"service_statuses"`
	CreatedAt       time.Time       `json:"created_at"`
	LastUpdated     time.Time       `json:"last_updated"`
}

// SendResult is returned by a channel sender on success. ExternalID is
// the provider-assigned message id for channels that report one.
type SendResult struct {
	ExternalID *uuid.UUID
}
