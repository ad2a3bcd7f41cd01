package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/db"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/kafka"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/postgres"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/sender"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/service"
)

// Worker is a channel processor application. One worker owns one
// channel's queue and store.
type Worker struct {
	cfg     *config.Config
	channel entity.Channel
}

// NewWorker creates a worker application for the channel
func NewWorker(channel entity.Channel) (*Worker, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &Worker{
		cfg:     cfg,
		channel: channel,
	}, nil
}

// Run starts the worker and blocks until shutdown
func (a *Worker) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, &a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close(pool)

	if err := db.Migrate(&a.cfg.Database); err != nil {
		return err
	}

	repo, err := postgres.NewChannelRecordRepository(pool, a.channel)
	if err != nil {
		return err
	}

	channelSender, err := sender.Build(a.cfg, a.channel)
	if err != nil {
		return err
	}

	processor, err := service.NewProcessor(
		a.channel,
		repo,
		channelSender,
		service.RetryPolicy{
			MaxRetries: a.cfg.Retry.MaxRetries,
			Delays:     a.cfg.Retry.Delays,
		},
		metrics.NewLogSink(),
	)
	if err != nil {
		return err
	}

	if err := kafka.WaitForBroker(ctx, &a.cfg.Broker); err != nil {
		return err
	}

	queue := service.ChannelQueues[a.channel]
	consumer := kafka.NewConsumer(&a.cfg.Broker, queue, func(ctx context.Context, value []byte) error {
		var request entity.NotificationRequest
		if err := json.Unmarshal(value, &request); err != nil {
			return kafka.Permanent(fmt.Errorf("failed to unmarshal notification request: %w", err))
		}
		return processor.Process(ctx, &request)
	})

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- consumer.Start(ctx)
	}()

	log.Printf("%s worker started, consuming %s", a.channel, queue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-consumerDone:
		if err != nil {
			return fmt.Errorf("%s worker consumer error: %w", a.channel, err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
		// let the in-flight message finish before the pool closes
		if err := <-consumerDone; err != nil {
			log.Printf("%s worker consumer stopped with error: %v", a.channel, err)
		}
	}

	log.Printf("%s worker stopped", a.channel)
	return nil
}
