package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/service"
	"github.com/Kostornoj-Dmitrij/notificationSender/pkg/validation"
)

// NotificationHandler handles ingress notification submissions
type NotificationHandler struct {
	publisher repository.QueuePublisher
	sink      metrics.Sink
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(publisher repository.QueuePublisher, sink metrics.Sink) *NotificationHandler {
	return &NotificationHandler{
		publisher: publisher,
		sink:      sink,
	}
}

type submitRequest struct {
	Type      string            `json:"type"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata"`
}

type submitResponse struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
}

// Submit handles notification submission
// @Summary Submit a notification
// @Description Accepts a notification request and queues it for delivery
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body object{type=string,recipient=string,subject=string,message=string,metadata=object} true "Notification request"
// @Success 202 {object} object{notification_id=string,status=string,message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/notifications [post]
func (h *NotificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	notificationType := strings.ToLower(strings.TrimSpace(req.Type))
	h.sink.Count(metrics.NotificationsReceived, 1, map[string]string{"type": typeTag(notificationType)})

	if err := validation.ValidateType(req.Type); err != nil {
		h.reject(w, notificationType, "invalid_type", err.Error())
		return
	}
	if err := validation.ValidateRecipient(req.Type, req.Recipient); err != nil {
		h.reject(w, notificationType, "invalid_recipient", err.Error())
		return
	}
	if err := validation.ValidateSubject(req.Subject); err != nil {
		h.reject(w, notificationType, "invalid_subject", err.Error())
		return
	}

	notification := &entity.NotificationRequest{
		ID:        uuid.New(),
		Type:      notificationType,
		Recipient: strings.TrimSpace(req.Recipient),
		Subject:   req.Subject,
		Message:   req.Message,
		Metadata:  req.Metadata,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, service.IngressQueue, notification); err != nil {
		log.Printf("Failed to queue notification %s: %v", notification.ID, err)
		h.sink.Count(metrics.NotificationsRejected, 1,
			map[string]string{"type": notificationType, "reason": "queue_error"})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("Notification %s queued (type %s)", notification.ID, notification.Type)
	h.sink.Count(metrics.NotificationsQueued, 1, map[string]string{"type": notificationType})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(submitResponse{
		NotificationID: notification.ID,
		Status:         "queued",
		Message:        "Notification has been queued for processing",
	})
}

func (h *NotificationHandler) reject(w http.ResponseWriter, notificationType, reason, message string) {
	h.sink.Count(metrics.NotificationsRejected, 1,
		map[string]string{"type": typeTag(notificationType), "reason": reason})
	writeError(w, http.StatusBadRequest, message)
}

func typeTag(notificationType string) string {
	if notificationType == "" {
		return "unknown"
	}
	return notificationType
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
