package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
)

// IngressQueue receives freshly accepted notifications from the gateway
const IngressQueue = "notifications"

// ChannelQueues maps each channel to its destination queue
var ChannelQueues = map[entity.Channel]string{
	entity.ChannelEmail: "email_queue",
	entity.ChannelSMS:   "sms_queue",
	entity.ChannelPush:  "push_queue",
}

// Route resolves the destination queue for a notification type,
// case-insensitively. Unknown types return entity.ErrUnknownNotificationType.
func Route(notificationType string) (string, error) {
	channel, err := entity.ParseChannel(notificationType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownNotificationType, notificationType)
	}
	return ChannelQueues[channel], nil
}

// Router republishes ingress notifications to their channel queue. It
// keeps no retry state of its own; a failed republish leaves the message
// unacknowledged and the broker redelivers it.
type Router struct {
	publisher repository.QueuePublisher
	sink      metrics.Sink
}

// NewRouter creates a new router
func NewRouter(publisher repository.QueuePublisher, sink metrics.Sink) *Router {
	return &Router{
		publisher: publisher,
		sink:      sink,
	}
}

// RouteNotification publishes the request unchanged to its channel queue.
// The caller must acknowledge the source message only after a nil return.
func (r *Router) RouteNotification(ctx context.Context, request *entity.NotificationRequest) error {
	queue, err := Route(request.Type)
	if err != nil {
		return err
	}

	log.Printf("Routing notification %s (type %s) to %s", request.ID, request.Type, queue)

	if err := r.publisher.Publish(ctx, queue, request); err != nil {
		return fmt.Errorf("failed to republish notification %s: %w", request.ID, err)
	}

	r.sink.Count(metrics.NotificationsRouted, 1, map[string]string{"queue": queue})
	return nil
}
