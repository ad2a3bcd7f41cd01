package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
)

// Sender delivers SMS notifications through an HTTP SMS gateway. The
// gateway assigns each accepted message an external id which is persisted
// for later delivery-receipt correlation.
type Sender struct {
	cfg    *config.SMSConfig
	client *http.Client
}

// NewSender creates a new SMS gateway sender
func NewSender(cfg *config.SMSConfig) service.ChannelSender {
	return &Sender{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type sendRequest struct {
	Recipient string      `json:"recipient"`
	Type      string      `json:"type"`
	Payload   sendPayload `json:"payload"`
}

type sendPayload struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type sendResponse struct {
	ID string `json:"id"`
}

func (s *Sender) Send(ctx context.Context, request *entity.NotificationRequest) (*entity.SendResult, error) {
	reqBody, err := json.Marshal(sendRequest{
		Recipient: request.Recipient,
		Type:      "sms",
		Payload: sendPayload{
			Sender: s.cfg.Sender,
			Text:   request.Message,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL+"/api/sendings", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.cfg.APIToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sms gateway returned status %d body=%q", resp.StatusCode, string(body))
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode sms gateway response: %w body=%q", err, string(body))
	}

	result := &entity.SendResult{}
	if sr.ID != "" {
		externalID, err := uuid.Parse(sr.ID)
		if err == nil {
			result.ExternalID = &externalID
		}
	}

	return result, nil
}
