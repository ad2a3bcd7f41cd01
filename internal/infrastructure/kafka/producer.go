package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
)

// Producer publishes notification requests to broker queues. Writes are
// synchronous: callers must not acknowledge upstream work until Publish
// has returned nil.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new producer
func NewProducer(cfg *config.BrokerConfig) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
	}
}

var _ repository.QueuePublisher = (*Producer)(nil)

// Publish enqueues a JSON-encoded notification request on the named queue
func (p *Producer) Publish(ctx context.Context, queue string, request *entity.NotificationRequest) error {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal notification request: %w", err)
	}

	message := kafka.Message{
		Topic: queue,
		Key:   []byte(request.ID.String()),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
