package push_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/push"
)

func TestSender_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/push" {
			t.Fatalf("expected /api/push, got %s", r.URL.Path)
		}

		var body struct {
			Type        string `json:"type"`
			Title       string `json:"title"`
			Message     string `json:"message"`
			Platform    string `json:"platform"`
			DeviceToken string `json:"device_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body.Type != "push" || body.Title != "greeting" || body.Message != "hello" {
			t.Fatalf("unexpected body: %+v", body)
		}
		if body.Platform != "android" {
			t.Fatalf("expected the metadata platform, got %q", body.Platform)
		}
		if body.DeviceToken != "device-token-123" {
			t.Fatalf("expected the device token, got %q", body.DeviceToken)
		}

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	sender := push.NewSender(&config.PushConfig{
		EndpointURL: srv.URL,
		Timeout:     5 * time.Second,
	})

	_, err := sender.Send(context.Background(), &entity.NotificationRequest{
		ID:        uuid.New(),
		Type:      "push",
		Recipient: "device-token-123",
		Subject:   "greeting",
		Message:   "hello",
		Metadata:  map[string]string{"platform": "android"},
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
}

func TestSender_DefaultsPlatformToWeb(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Platform string `json:"platform"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body.Platform != "web" {
			t.Fatalf("expected platform web, got %q", body.Platform)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	sender := push.NewSender(&config.PushConfig{
		EndpointURL: srv.URL,
		Timeout:     5 * time.Second,
	})

	_, err := sender.Send(context.Background(), &entity.NotificationRequest{
		Recipient: "device-token-123",
		Message:   "hello",
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
}

func TestSender_EndpointErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	sender := push.NewSender(&config.PushConfig{
		EndpointURL: srv.URL,
		Timeout:     5 * time.Second,
	})

	if _, err := sender.Send(context.Background(), &entity.NotificationRequest{
		Recipient: "device-token-123",
	}); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}
