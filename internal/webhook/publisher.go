package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_response_system/internal/models"
)

const (
	webhookQueueKey = "webhook_events"
)

// Типы событий жизненного цикла инцидента
const (
	EventIncidentCreated          = "incident.created"
	EventIncidentClosed           = "incident.closed"
	EventIncidentCommanderChanged = "incident.commander_changed"
	EventIncidentVehiclesChanged  = "incident.vehicles_changed"
)

// IncidentEvent - структура для данных вебхука
type IncidentEvent struct {
	Type       string               `json:"type"`
	IncidentID string               `json:"incident_id"`
	State      models.IncidentState `json:"state"`
	Commander  string               `json:"commander"`
	Timestamp  time.Time            `json:"timestamp"`
	Incident   *models.Incident     `json:"incident,omitempty"`
}

// NewIncidentEvent собирает событие по текущему состоянию инцидента
func NewIncidentEvent(eventType string, incident *models.Incident) IncidentEvent {
	return IncidentEvent{
		Type:       eventType,
		IncidentID: incident.IncidentID,
		State:      incident.IncidentState,
		Commander:  incident.Commander,
		Timestamp:  time.Now().UTC(),
		Incident:   incident,
	}
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH + BRPOP в воркере дают FIFO
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
