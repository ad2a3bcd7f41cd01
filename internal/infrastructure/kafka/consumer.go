package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
)

// ErrPermanentMessage marks a message that can never be processed, such as
// a payload that fails to deserialize. The consumer acknowledges and drops
// it instead of requeueing, so one poison message cannot wedge the queue.
var ErrPermanentMessage = errors.New("permanent message error")

// Permanent wraps err so the consumer drops the message instead of
// forcing redelivery
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanentMessage, err)
}

// Handler processes one raw message. A nil return acknowledges the
// message; an ErrPermanentMessage return acknowledges and drops it; any
// other error leaves it unacknowledged so the broker redelivers it.
type Handler func(ctx context.Context, value []byte) error

// Consumer runs a single-goroutine consume loop over one queue with
// manual offset commits.
type Consumer struct {
	cfg     *config.BrokerConfig
	queue   string
	groupID string
	handler Handler
}

// NewConsumer creates a consumer for the named queue
func NewConsumer(cfg *config.BrokerConfig, queue string, handler Handler) *Consumer {
	return &Consumer{
		cfg:     cfg,
		queue:   queue,
		groupID: fmt.Sprintf("%s-%s", cfg.GroupIDPrefix, queue),
		handler: handler,
	}
}

func (c *Consumer) newReader() *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		GroupID:  c.groupID,
		Topic:    c.queue,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
}

// Start consumes until ctx is cancelled. Messages are fetched one at a
// time and committed only after the handler returns; a transient handler
// error tears the reader down so the uncommitted message is redelivered.
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting consumer for queue %s", c.queue)

	reader := c.newReader()
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("Error closing reader for %s: %v", c.queue, err)
		}
	}()

	for {
		message, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Printf("Stopping consumer for queue %s", c.queue)
				return nil
			}
			log.Printf("Error fetching message from %s: %v", c.queue, err)
			if restartErr := c.restart(ctx, &reader); restartErr != nil {
				return restartErr
			}
			continue
		}

		err = c.handler(ctx, message.Value)

		switch {
		case err == nil:
			if err := reader.CommitMessages(ctx, message); err != nil {
				log.Printf("Error committing message on %s: %v", c.queue, err)
			}
		case errors.Is(err, ErrPermanentMessage):
			// acknowledge and drop, requeueing would loop forever
			log.Printf("Dropping unprocessable message from %s: %v", c.queue, err)
			if err := reader.CommitMessages(ctx, message); err != nil {
				log.Printf("Error committing message on %s: %v", c.queue, err)
			}
		default:
			// leave uncommitted and rejoin the group so the broker
			// redelivers from the last committed offset
			log.Printf("Processing failed on %s, message will be redelivered: %v", c.queue, err)
			if restartErr := c.restart(ctx, &reader); restartErr != nil {
				return restartErr
			}
		}
	}
}

func (c *Consumer) restart(ctx context.Context, reader **kafka.Reader) error {
	if err := (*reader).Close(); err != nil {
		log.Printf("Error closing reader for %s: %v", c.queue, err)
	}

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(c.cfg.RestartDelay):
	}

	*reader = c.newReader()
	return nil
}
