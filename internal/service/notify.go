package service

import (
	"context"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// outbox копит побочные эффекты транзакции. Они отправляются только после коммита.
type outbox struct {
	notifications []notification
	events        []webhook.IncidentEvent
	invalidate    []string
}

type notification struct {
	usernames []string
	event     string
	payload   any
}

func (o *outbox) notify(usernames []string, event string, payload any) {
	if len(usernames) == 0 {
		return
	}
	o.notifications = append(o.notifications, notification{
		usernames: append([]string{}, usernames...),
		event:     event,
		payload:   payload,
	})
}

func (o *outbox) publish(eventType string, incident *models.Incident) {
	o.events = append(o.events, webhook.NewIncidentEvent(eventType, incident))
}

func (o *outbox) touch(incidentID string) {
	o.invalidate = append(o.invalidate, incidentID)
}

// incidentPayload то, что получает клиент в уведомлении об инциденте
type incidentPayload struct {
	IncidentID string `json:"incidentId"`
	Commander  string `json:"commander,omitempty"`
}

// notifier доставляет уведомления подключённым пользователям и публикует вебхуки.
// Доставка fire-and-forget: ошибки только логируются.
type notifier struct {
	incidents   IncidentRepository
	users       UserRepository
	connections presence.UserConnections
	publisher   webhook.WebhookPublisher
	logger      *logrus.Logger
}

func newNotifier(
	incidents IncidentRepository,
	users UserRepository,
	connections presence.UserConnections,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
) *notifier {
	return &notifier{
		incidents:   incidents,
		users:       users,
		connections: connections,
		publisher:   publisher,
		logger:      logger,
	}
}

func (n *notifier) flush(ctx context.Context, out *outbox) {
	for _, id := range out.invalidate {
		if err := n.incidents.InvalidateIncidentCache(ctx, id); err != nil {
			n.logger.WithError(err).WithField("incident_id", id).Warn("Failed to invalidate incident cache")
		}
	}
	for _, msg := range out.notifications {
		n.notifyUsernames(ctx, msg.usernames, msg.event, msg.payload)
	}
	for _, event := range out.events {
		if err := n.publisher.Publish(ctx, event); err != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"event_type":  event.Type,
				"incident_id": event.IncidentID,
			}).Warn("Failed to publish webhook event")
		}
	}
}

func (n *notifier) notifyUsernames(ctx context.Context, usernames []string, event string, payload any) {
	for _, username := range usernames {
		user, err := n.users.GetByUsername(ctx, username)
		if err != nil {
			n.logger.WithError(err).WithField("username", username).Debug("Skipping notification for unknown user")
			continue
		}
		n.notifyUser(user, event, payload)
	}
}

func (n *notifier) notifyUser(user *models.User, event string, payload any) {
	conn, ok := n.connections.GetUserConnection(user.ID.String())
	if !ok {
		return
	}
	if err := conn.Emit(event, payload); err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"username": user.Username,
			"event":    event,
		}).Warn("Failed to emit notification")
	}
}
