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
	domainservice "github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/handler"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/db"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/postgres"
	redisinfra "github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/redis"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/service"
)

// StatusAPI is the read-side aggregation API application
type StatusAPI struct {
	cfg *config.Config
}

// NewStatusAPI creates a new status API application
func NewStatusAPI() (*StatusAPI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &StatusAPI{cfg: cfg}, nil
}

// Run starts the status API and blocks until shutdown
func (a *StatusAPI) Run() error {
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

	stores := make(domainservice.ChannelStores)
	for _, channel := range domainservice.Channels() {
		repo, err := postgres.NewChannelRecordRepository(pool, channel)
		if err != nil {
			return err
		}
		stores[channel] = repo
	}

	// the cache is optional, the API serves direct reads without it
	var cache *redisinfra.StatusCache
	var cacheCheck handler.HealthChecker
	if a.cfg.Redis.Addr != "" {
		client, err := redisinfra.NewClient(&a.cfg.Redis)
		if err != nil {
			log.Printf("Redis unavailable, serving without status cache: %v", err)
		} else {
			defer redisinfra.Close(client)
			cache = redisinfra.NewStatusCache(client, a.cfg.StatusAPI.CacheTTL)
			cacheCheck = cache.Ping
		}
	}

	var statusService domainservice.StatusService
	if cache != nil {
		statusService = service.NewStatusService(stores, cache)
	} else {
		statusService = service.NewStatusService(stores, nil)
	}

	statusHandler := handler.NewStatusHandler(
		statusService,
		time.Duration(a.cfg.StatusAPI.RecentHours)*time.Hour,
		func(ctx context.Context) error { return pool.Ping(ctx) },
		cacheCheck,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.StatusAPI.Port),
		Handler: handler.NewStatusRouter(statusHandler),
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Status API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("status API server error: %w", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down status API...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Status API stopped")
	return nil
}
