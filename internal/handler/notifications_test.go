package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/handler"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/middleware"
)

type fakeQueue struct {
	queue   string
	request *entity.NotificationRequest
	err     error
}

func (f *fakeQueue) Publish(ctx context.Context, queue string, request *entity.NotificationRequest) error {
	if f.err != nil {
		return f.err
	}
	f.queue = queue
	f.request = request
	return nil
}

func newGateway(t *testing.T, queue *fakeQueue) http.Handler {
	t.Helper()

	notificationHandler := handler.NewNotificationHandler(queue, metrics.NopSink{})
	return handler.NewGatewayRouter(notificationHandler, middleware.NewRateLimiter(1000))
}

func submit(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestSubmit_Accepted(t *testing.T) {
	queue := &fakeQueue{}
	mux := newGateway(t, queue)

	rr := submit(t, mux, `{"type":"Email","recipient":"user@example.com","subject":"hi","message":"hello"}`)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d body=%q", rr.Code, rr.Body.String())
	}

	var resp struct {
		NotificationID string `json:"notification_id"`
		Status         string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(resp.NotificationID); err != nil {
		t.Fatalf("expected a valid notification id, got %q", resp.NotificationID)
	}
	if resp.Status != "queued" {
		t.Fatalf("expected status queued, got %q", resp.Status)
	}

	if queue.queue != "notifications" {
		t.Fatalf("expected publish to the ingress queue, got %q", queue.queue)
	}
	if queue.request == nil {
		t.Fatal("expected the request to be published")
	}
	if queue.request.Type != "email" {
		t.Fatalf("expected the type to be normalized, got %q", queue.request.Type)
	}
	if queue.request.ID == uuid.Nil {
		t.Fatal("expected the gateway to mint a notification id")
	}
}

func TestSubmit_InvalidType(t *testing.T) {
	queue := &fakeQueue{}
	mux := newGateway(t, queue)

	rr := submit(t, mux, `{"type":"fax","recipient":"user@example.com","message":"hello"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%q", rr.Code, rr.Body.String())
	}
	if queue.request != nil {
		t.Fatal("did not expect a rejected request to be published")
	}
}

func TestSubmit_InvalidRecipient(t *testing.T) {
	queue := &fakeQueue{}
	mux := newGateway(t, queue)

	tests := []string{
		`{"type":"email","recipient":"not-an-address","message":"hello"}`,
		`{"type":"sms","recipient":"abc","message":"hello"}`,
		`{"type":"push","recipient":"short","message":"hello"}`,
		`{"type":"email","recipient":"","message":"hello"}`,
	}

	for _, body := range tests {
		rr := submit(t, mux, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rr.Code)
		}
	}
	if queue.request != nil {
		t.Fatal("did not expect a rejected request to be published")
	}
}

func TestSubmit_MalformedBody(t *testing.T) {
	mux := newGateway(t, &fakeQueue{})

	rr := submit(t, mux, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSubmit_QueueFailure(t *testing.T) {
	queue := &fakeQueue{err: errors.New("broker unavailable")}
	mux := newGateway(t, queue)

	rr := submit(t, mux, `{"type":"email","recipient":"user@example.com","message":"hello"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%q", rr.Code, rr.Body.String())
	}
}

func TestSubmit_MethodNotAllowed(t *testing.T) {
	mux := newGateway(t, &fakeQueue{})

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestGateway_RateLimit(t *testing.T) {
	notificationHandler := handler.NewNotificationHandler(&fakeQueue{}, metrics.NopSink{})
	mux := handler.NewGatewayRouter(notificationHandler, middleware.NewRateLimiter(2))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected request %d to pass, got %d", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the limit, got %d", rr.Code)
	}

	// a different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected another client to pass, got %d", rr.Code)
	}
}
