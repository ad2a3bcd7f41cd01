package kafka

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
)

// WaitForBroker dials the broker with a bounded number of attempts and a
// fixed delay. Exhausting the attempts is the one failure the pipeline
// treats as fatal: the caller is expected to terminate and let the
// supervisor restart the process.
func WaitForBroker(ctx context.Context, cfg *config.BrokerConfig) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		log.Printf("Connecting to broker (attempt %d/%d)...", attempt, cfg.ConnectRetries)

		for _, addr := range cfg.Brokers {
			conn, err := kafka.DialContext(ctx, "tcp", addr)
			if err == nil {
				conn.Close()
				log.Printf("Broker connection established to %s", addr)
				return nil
			}
			lastErr = err
		}

		log.Printf("Failed to connect to broker (attempt %d/%d): %v", attempt, cfg.ConnectRetries, lastErr)

		if attempt == cfg.ConnectRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.ConnectDelay):
		}
	}

	return fmt.Errorf("unable to connect to broker after %d attempts: %w", cfg.ConnectRetries, lastErr)
}
