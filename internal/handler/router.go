package handler

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/middleware"
)

// NewGatewayRouter configures the ingress API routes
func NewGatewayRouter(notificationHandler *NotificationHandler, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/notifications", notificationHandler.Submit)

	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	return limiter.Limit(mux)
}

// NewStatusRouter configures the status API routes
func NewStatusRouter(statusHandler *StatusHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status/search", statusHandler.Search)
	mux.HandleFunc("/api/status/recent", statusHandler.Recent)
	mux.HandleFunc("/api/status/statistics", statusHandler.Statistics)
	mux.HandleFunc("/api/status/", statusHandler.GetStatus)

	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/health", statusHandler.Health)

	return mux
}
