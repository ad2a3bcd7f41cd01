package service

import (
	"context"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

// ChannelSender defines the capability for delivering one message through
// a concrete channel endpoint. Exactly one implementation is active per
// worker, chosen at construction time.
type ChannelSender interface {
	// Send attempts a single delivery. A nil error means the message was
	// accepted by the channel endpoint; any error counts as a failed
	// attempt. The returned result may carry a provider-assigned id.
	Send(ctx context.Context, request *entity.NotificationRequest) (*entity.SendResult, error)
}
