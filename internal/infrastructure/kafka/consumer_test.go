package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
)

var testBrokerConfig = config.BrokerConfig{
	Brokers:       []string{"localhost:9092"},
	GroupIDPrefix: "notification-pipeline",
}

func TestPermanent(t *testing.T) {
	t.Parallel()

	cause := errors.New("invalid payload")
	err := Permanent(cause)

	if !errors.Is(err, ErrPermanentMessage) {
		t.Fatal("expected the wrapped error to match ErrPermanentMessage")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to stay reachable through the wrapper")
	}
}

func TestPermanent_SurvivesFurtherWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("handler: %w", Permanent(errors.New("unknown type")))

	if !errors.Is(err, ErrPermanentMessage) {
		t.Fatal("expected ErrPermanentMessage to survive another wrap")
	}
}

func TestConsumer_StartReturnsOnCancelledContext(t *testing.T) {
	t.Parallel()

	cfg := testBrokerConfig
	cfg.RestartDelay = time.Millisecond
	consumer := NewConsumer(&cfg, "email_queue", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- consumer.Start(ctx) }()

	// shutdown paths block on Start returning, so it must come back
	// without a reachable broker
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean stop on cancellation, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestNewConsumer_GroupID(t *testing.T) {
	t.Parallel()

	cfg := testBrokerConfig
	consumer := NewConsumer(&cfg, "email_queue", nil)
	if consumer.groupID != "notification-pipeline-email_queue" {
		t.Fatalf("expected a queue-scoped group id, got %q", consumer.groupID)
	}
}
