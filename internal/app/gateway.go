package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/handler"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/kafka"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/middleware"
)

// Gateway is the ingress API application
type Gateway struct {
	cfg *config.Config
}

// NewGateway creates a new gateway application
func NewGateway() (*Gateway, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &Gateway{cfg: cfg}, nil
}

// Run starts the gateway and blocks until shutdown
func (a *Gateway) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := kafka.WaitForBroker(ctx, &a.cfg.Broker); err != nil {
		return err
	}

	producer := kafka.NewProducer(&a.cfg.Broker)
	defer producer.Close()

	sink := metrics.NewLogSink()
	notificationHandler := handler.NewNotificationHandler(producer, sink)
	limiter := middleware.NewRateLimiter(a.cfg.Gateway.RequestsPerMinute)
	limiter.StartCleanup(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Gateway.Port),
		Handler: handler.NewGatewayRouter(notificationHandler, limiter),
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Gateway listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("gateway server error: %w", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Gateway stopped")
	return nil
}
