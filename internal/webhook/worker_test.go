package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/emergency_response_system/internal/config"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(cfg *config.Config) *WebhookWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewWebhookWorker(nil, logger, cfg)
}

func TestGenerateHMACSHA256(t *testing.T) {
	// echo -n 'payload' | openssl dgst -sha256 -hmac 'secret'
	assert.Equal(t,
		"b82fcb791acec57859b989b430a826488ce2e479fdf92326bd0a2e8375a42ba4",
		generateHMACSHA256("payload", "secret"),
	)
}

func TestProcessWebhookEvent_SignsAndDelivers(t *testing.T) {
	// Подготовка
	event := NewIncidentEvent(EventIncidentCreated, models.NewIncident("Alice"))
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, generateHMACSHA256(string(body), "secret"), r.Header.Get("X-Webhook-Signature"))

		var got IncidentEvent
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "IAlice", got.IncidentID)
		assert.Equal(t, models.StateWaiting, got.State)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        server.URL,
		WebhookSecret:     "secret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	})

	// Действие
	worker.processWebhookEvent(context.Background(), event, string(raw))

	// Проверки
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_RetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 5,
		WebhookBaseDelay:  time.Millisecond,
	})

	worker.processWebhookEvent(context.Background(), IncidentEvent{Type: EventIncidentClosed, IncidentID: "IAlice"}, `{}`)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 2,
		WebhookBaseDelay:  time.Millisecond,
	})

	worker.processWebhookEvent(context.Background(), IncidentEvent{Type: EventIncidentClosed}, `{}`)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_NoURLSkipsDelivery(t *testing.T) {
	worker := newTestWorker(&config.Config{WebhookTimeout: time.Second})

	// без URL запрос не отправляется и не паникует
	worker.processWebhookEvent(context.Background(), IncidentEvent{Type: EventIncidentCreated}, `{}`)
}
