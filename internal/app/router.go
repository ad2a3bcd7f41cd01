package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/kafka"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/service"
)

// Router is the routing service application
type Router struct {
	cfg *config.Config
}

// NewRouter creates a new router application
func NewRouter() (*Router, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &Router{cfg: cfg}, nil
}

// Run starts the router and blocks until shutdown
func (a *Router) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := kafka.WaitForBroker(ctx, &a.cfg.Broker); err != nil {
		return err
	}

	producer := kafka.NewProducer(&a.cfg.Broker)
	defer producer.Close()

	router := service.NewRouter(producer, metrics.NewLogSink())

	consumer := kafka.NewConsumer(&a.cfg.Broker, service.IngressQueue, func(ctx context.Context, value []byte) error {
		var request entity.NotificationRequest
		if err := json.Unmarshal(value, &request); err != nil {
			return kafka.Permanent(fmt.Errorf("failed to unmarshal notification request: %w", err))
		}

		if err := router.RouteNotification(ctx, &request); err != nil {
			if errors.Is(err, entity.ErrUnknownNotificationType) {
				// permanent input error, requeueing cannot fix it
				return kafka.Permanent(err)
			}
			return err
		}
		return nil
	})

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- consumer.Start(ctx)
	}()

	log.Println("Router service started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-consumerDone:
		if err != nil {
			return fmt.Errorf("router consumer error: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		cancel()
		// let the in-flight message finish before the producer closes
		if err := <-consumerDone; err != nil {
			log.Printf("Router consumer stopped with error: %v", err)
		}
	}

	log.Println("Router stopped")
	return nil
}
