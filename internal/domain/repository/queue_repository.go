package repository

import (
	"context"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

// QueuePublisher defines the interface for publishing notification
// requests to a broker queue
type QueuePublisher interface {
	// Publish enqueues the request on the named queue. The message must be
	// durably accepted by the broker before Publish returns nil.
	Publish(ctx context.Context, queue string, request *entity.NotificationRequest) error
}
