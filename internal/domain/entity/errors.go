package entity

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no channel record exists for a notification id
	ErrNotFound = errors.New("notification not found")

	// ErrDuplicateNotification is returned when inserting a record whose
	// notification id already exists in the channel store. The unique index
	// on notification_id is the authoritative deduplication boundary.
	ErrDuplicateNotification = errors.New("notification already processed")

	// ErrUnknownNotificationType is returned for types outside email/sms/push
	ErrUnknownNotificationType = errors.New("unknown notification type")
)

// ParseChannel maps a notification type string to its channel,
// case-insensitively
func ParseChannel(notificationType string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(notificationType)) {
	case string(ChannelEmail):
		return ChannelEmail, nil
	case string(ChannelSMS):
		return ChannelSMS, nil
	case string(ChannelPush):
		return ChannelPush, nil
	default:
		return "", ErrUnknownNotificationType
	}
}
