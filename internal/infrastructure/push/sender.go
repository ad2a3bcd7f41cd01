package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
)

// Sender delivers push notifications to an HTTP push endpoint
type Sender struct {
	cfg    *config.PushConfig
	client *http.Client
}

// NewSender creates a new push sender
func NewSender(cfg *config.PushConfig) service.ChannelSender {
	return &Sender{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type pushMessage struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Platform    string    `json:"platform"`
	DeviceToken string    `json:"device_token"`
	Timestamp   time.Time `json:"timestamp"`
}

func (s *Sender) Send(ctx context.Context, request *entity.NotificationRequest) (*entity.SendResult, error) {
	platform := request.Platform()
	if platform == "" {
		platform = "web"
	}

	reqBody, err := json.Marshal(pushMessage{
		Type:        "push",
		Title:       request.Subject,
		Message:     request.Message,
		Platform:    platform,
		DeviceToken: request.Recipient,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.EndpointURL+"/api/push", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	return &entity.SendResult{}, nil
}
