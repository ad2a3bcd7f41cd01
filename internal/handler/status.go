package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	domainservice "github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
	"github.com/Kostornoj-Dmitrij/notificationSender/pkg/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// HealthChecker reports connectivity of a status API dependency
type HealthChecker func(ctx context.Context) error

// StatusHandler serves the read-side status API
type StatusHandler struct {
	statusService domainservice.StatusService
	recentWindow  time.Duration
	storeCheck    HealthChecker
	cacheCheck    HealthChecker
}

// NewStatusHandler creates a new status handler. cacheCheck may be nil
// when the cache is disabled.
func NewStatusHandler(
	statusService domainservice.StatusService,
	recentWindow time.Duration,
	storeCheck HealthChecker,
	cacheCheck HealthChecker,
) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		recentWindow:  recentWindow,
		storeCheck:    storeCheck,
		cacheCheck:    cacheCheck,
	}
}

// GetStatus handles status lookup by notification id
// @Summary Get aggregated notification status
// @Description Merges per-channel delivery records into one view
// @Tags status
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} entity.AggregatedStatus
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/status/{id} [get]
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/status/")
	notificationID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status, err := h.statusService.GetStatus(ctx, notificationID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Notification %s not found", notificationID))
			return
		}
		log.Printf("Failed to get status for %s: %v", notificationID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Search handles filtered status search
// @Summary Search notifications
// @Description Searches across channel stores, paginating distinct notification ids
// @Tags status
// @Produce json
// @Param recipient query string false "Recipient substring"
// @Param status query string false "Record status"
// @Param service_type query string false "Channel (email, sms, push)"
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} entity.AggregatedStatus
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/status/search [get]
func (h *StatusHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	if serviceType := query.Get("service_type"); serviceType != "" {
		if err := validation.ValidateType(serviceType); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	from, err := parseTimeParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from timestamp, expected RFC3339")
		return
	}
	to, err := parseTimeParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to timestamp, expected RFC3339")
		return
	}

	filter := domainservice.SearchFilter{
		Recipient:   query.Get("recipient"),
		Status:      entity.RecordStatus(query.Get("status")),
		ServiceType: query.Get("service_type"),
		From:        from,
		To:          to,
	}
	page, pageSize := parsePagination(query.Get("page"), query.Get("page_size"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.statusService.Search(ctx, filter, page, pageSize)
	if err != nil {
		log.Printf("Status search failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Recent handles the recent-window listing
// @Summary List recent notifications
// @Tags status
// @Produce json
// @Param hours query int false "Window size in hours"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} entity.AggregatedStatus
// @Failure 500 {object} object{error=string}
// @Router /api/status/recent [get]
func (h *StatusHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	window := h.recentWindow
	if hoursStr := query.Get("hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours < 1 {
			writeError(w, http.StatusBadRequest, "Invalid hours parameter")
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	page, pageSize := parsePagination(query.Get("page"), query.Get("page_size"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	result, err := h.statusService.ByDateRange(ctx, now.Add(-window), now, page, pageSize)
	if err != nil {
		log.Printf("Recent listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Statistics handles per-window statistics
// @Summary Notification statistics
// @Description Per-channel counts grouped by status plus the distinct notification total
// @Tags status
// @Produce json
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Success 200 {object} service.Statistics
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/status/statistics [get]
func (h *StatusHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	now := time.Now().UTC()
	from := now.Add(-h.recentWindow)
	to := now

	if fromParam, err := parseTimeParam(query.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from timestamp, expected RFC3339")
		return
	} else if fromParam != nil {
		from = *fromParam
	}
	if toParam, err := parseTimeParam(query.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to timestamp, expected RFC3339")
		return
	} else if toParam != nil {
		to = *toParam
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	stats, err := h.statusService.Statistics(ctx, from, to)
	if err != nil {
		log.Printf("Statistics failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Health reports API liveness and dependency connectivity
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if h.storeCheck != nil {
		if err := h.storeCheck(ctx); err != nil {
			result["status"] = "unhealthy"
			result["database"] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			result["database"] = "ok"
		}
	}

	if h.cacheCheck != nil {
		if err := h.cacheCheck(ctx); err != nil {
			// cache is optional, report but stay healthy
			result["cache"] = err.Error()
		} else {
			result["cache"] = "ok"
		}
	}

	writeJSON(w, code, result)
}

func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parsePagination(pageStr, pageSizeStr string) (int, int) {
	page := 1
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}

	pageSize := defaultPageSize
	if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 {
		pageSize = ps
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
