package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_response_system/internal/metrics"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов.
// Find* возвращают nil, nil, если ничего не найдено; GetByID возвращает models.ErrNotFound.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, incidentID string) (*models.Incident, error)
	FindActiveByCaller(ctx context.Context, caller string) (*models.Incident, error)
	FindActiveByCommander(ctx context.Context, commander string) (*models.Incident, error)
	FindActiveByResponder(ctx context.Context, username string) ([]*models.Incident, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	CountByCommanderAndState(ctx context.Context, commander string, state models.IncidentState) (int, error)
	Update(ctx context.Context, incident *models.Incident) error
	GetIncidentFromCache(ctx context.Context, incidentID string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, incidentID string) error
}

// ChannelRepository хранилище чат-каналов
type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	UpdateUsers(ctx context.Context, id uuid.UUID, userIDs []string) error
	Close(ctx context.Context, id uuid.UUID) error
}

// Transactor выполняет fn в одной транзакции бд
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IncidentService определяет контракт для бизнес-логики инцидентов и назначения машин
type IncidentService interface {
	Create(ctx context.Context, caller string) (*models.Incident, error)
	CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, bool, error)
	UpdateIncident(ctx context.Context, patch models.IncidentPatch) (*models.Incident, error)
	GetIncident(ctx context.Context, incidentID string) (*models.Incident, error)
	GetActiveIncident(ctx context.Context, caller string) (*models.Incident, error)
	UpdateChatGroup(ctx context.Context, incidentID string, channelID uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)

	AddVehicleToIncident(ctx context.Context, username, commandingIncidentID string, vehicleType models.VehicleType, vehicleName string) (*models.Incident, error)
	UpdateVehicleHistory(ctx context.Context, incidentID string, vehicles []models.AssignedVehicle) (*models.Incident, error)
	CreateOrUpdateRespondersGroup(ctx context.Context, incidentID string) (*models.Incident, error)
	CloseIncident(ctx context.Context, incidentID string) (*models.Incident, error)
}

type incidentService struct {
	incidents   IncidentRepository
	vehicles    VehicleRepository
	users       UserRepository
	channels    ChannelRepository
	tx          Transactor
	connections presence.UserConnections
	notifier    *notifier
	logger      *logrus.Logger
	now         func() time.Time
}

func NewIncidentService(
	incidents IncidentRepository,
	vehicles VehicleRepository,
	users UserRepository,
	channels ChannelRepository,
	tx Transactor,
	connections presence.UserConnections,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
) IncidentService {
	return &incidentService{
		incidents:   incidents,
		vehicles:    vehicles,
		users:       users,
		channels:    channels,
		tx:          tx,
		connections: connections,
		notifier:    newNotifier(incidents, users, connections, publisher, logger),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create создает инцидент для звонящего. Повторный вызов для того же звонящего - ошибка.
func (s *incidentService) Create(ctx context.Context, caller string) (*models.Incident, error) {
	caller = strings.TrimSpace(caller)
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Create",
		"caller":  caller,
	})
	if caller == "" {
		return nil, fmt.Errorf("service: caller: %w", models.ErrNameRequired)
	}
	log.Info("Attempting to create a new incident")

	incident := models.NewIncident(caller)
	incident.OpeningDate = s.now()
	if err := s.incidents.Create(ctx, incident); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("Incident already exists")
			return nil, fmt.Errorf("service: incident %s %w", incident.IncidentID, models.ErrAlreadyExists)
		}
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	metrics.IncidentsCreated.Inc()
	s.notifier.flush(ctx, &outbox{events: []webhook.IncidentEvent{webhook.NewIncidentEvent(webhook.EventIncidentCreated, incident)}})
	log.WithField("incident_id", incident.IncidentID).Info("Incident created successfully")
	return incident, nil
}

// CreateIncident создает инцидент или возвращает существующий для того же звонящего.
// Второе значение true, если инцидент создан этим вызовом.
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, bool, error) {
	incident.Caller = strings.TrimSpace(incident.Caller)
	if incident.Caller == "" {
		return nil, false, fmt.Errorf("service: caller: %w", models.ErrNameRequired)
	}
	incident.IncidentID = models.IncidentIDForCaller(incident.Caller)

	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CreateIncident",
		"incident_id": incident.IncidentID,
	})

	existing, err := s.incidents.GetByID(ctx, incident.IncidentID)
	switch {
	case err == nil:
		log.Info("Incident already exists, returning it")
		return existing, false, nil
	case !errors.Is(err, models.ErrNotFound):
		log.WithError(err).Error("Failed to look up incident")
		return nil, false, fmt.Errorf("service: could not get incident: %w", err)
	}

	s.applyDefaults(incident)
	if !incident.IncidentState.IsValid() {
		return nil, false, fmt.Errorf("service: state %q: %w", incident.IncidentState, models.ErrInvalidStateTransition)
	}

	if err := s.incidents.Create(ctx, incident); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			// параллельный запрос успел создать инцидент первым
			existing, getErr := s.incidents.GetByID(ctx, incident.IncidentID)
			if getErr != nil {
				return nil, false, fmt.Errorf("service: could not get incident: %w", getErr)
			}
			return existing, false, nil
		}
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, false, fmt.Errorf("service: could not create incident: %w", err)
	}

	metrics.IncidentsCreated.Inc()
	s.connections.BroadcastToRole(models.RoleDispatcher, presence.EventNewIncident, incident)
	s.notifier.flush(ctx, &outbox{events: []webhook.IncidentEvent{webhook.NewIncidentEvent(webhook.EventIncidentCreated, incident)}})

	log.Info("Incident created successfully")
	return incident, true, nil
}

func (s *incidentService) applyDefaults(incident *models.Incident) {
	if incident.IncidentState == "" {
		incident.IncidentState = models.StateWaiting
	}
	if incident.Owner == "" {
		incident.Owner = models.SystemUser
	}
	if incident.Commander == "" {
		incident.Commander = models.SystemUser
	}
	if incident.Type == "" {
		incident.Type = models.IncidentTypeUnset
	}
	if incident.Priority == "" {
		incident.Priority = models.PriorityImmediate
	}
	if incident.OpeningDate.IsZero() {
		incident.OpeningDate = s.now()
	}
	if incident.AssignedVehicles == nil {
		incident.AssignedVehicles = []models.AssignedVehicle{}
	}
	if incident.AssignHistory == nil {
		incident.AssignHistory = []models.AssignHistoryEntry{}
	}
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, incidentID string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": incidentID,
	})

	cached, err := s.incidents.GetIncidentFromCache(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.incidents.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// GetActiveIncident возвращает незакрытый инцидент звонящего или nil
func (s *incidentService) GetActiveIncident(ctx context.Context, caller string) (*models.Incident, error) {
	incident, err := s.incidents.FindActiveByCaller(ctx, caller)
	if err != nil {
		s.logger.WithError(err).WithField("caller", caller).Error("Failed to find active incident")
		return nil, fmt.Errorf("service: could not find active incident: %w", err)
	}
	return incident, nil
}

// UpdateChatGroup привязывает канал звонка к инциденту. Для несуществующего инцидента возвращает nil без ошибки.
func (s *incidentService) UpdateChatGroup(ctx context.Context, incidentID string, channelID uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateChatGroup",
		"incident_id": incidentID,
	})

	var updated *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		incident, err := s.incidents.GetByID(ctx, incidentID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			return err
		}
		incident.IncidentCallGroup = &channelID
		if err := s.incidents.Update(ctx, incident); err != nil {
			return err
		}
		updated = incident
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to update chat group")
		return nil, fmt.Errorf("service: could not update chat group: %w", err)
	}
	if updated == nil {
		log.Warn("Incident not found for chat group update")
		return nil, nil
	}

	s.notifier.flush(ctx, &outbox{invalidate: []string{incidentID}})
	return updated, nil
}

// ListIncidents возвращает инциденты по фильтру
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"caller":    filter.Caller,
		"commander": filter.Commander,
		"state":     filter.State,
	})

	incidents, err := s.incidents.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	log.WithField("count", len(incidents)).Debug("Incidents listed")
	return incidents, nil
}

// UpdateIncident применяет частичное обновление в одной транзакции. Переход в Closed
// выполняет закрытие инцидента, новый список машин проходит через журнал назначений.
func (s *incidentService) UpdateIncident(ctx context.Context, patch models.IncidentPatch) (*models.Incident, error) {
	if patch.IncidentID == "" {
		return nil, fmt.Errorf("service: %w", models.ErrIncidentIDRequired)
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": patch.IncidentID,
	})
	log.Info("Attempting to update incident")

	out := &outbox{}
	var updated *models.Incident
	vehiclesChanged := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		incident, err := s.incidents.GetByID(ctx, patch.IncidentID)
		if err != nil {
			return err
		}
		if incident.IncidentState == models.StateClosed {
			return models.ErrIncidentClosed
		}

		closing := false
		if patch.IncidentState != nil {
			if !incident.IncidentState.CanTransitionTo(*patch.IncidentState) {
				return fmt.Errorf("%s -> %s: %w", incident.IncidentState, *patch.IncidentState, models.ErrInvalidStateTransition)
			}
			closing = *patch.IncidentState == models.StateClosed
			if !closing {
				incident.IncidentState = *patch.IncidentState
			}
		}
		patch.ApplyScalars(incident)
		updated = incident

		switch {
		case closing:
			return s.closeIncidentTx(ctx, incident, out)
		case patch.AssignedVehicles != nil:
			vehiclesChanged = true
			return s.updateVehicleHistoryTx(ctx, incident, *patch.AssignedVehicles, out)
		default:
			out.touch(incident.IncidentID)
			return s.incidents.Update(ctx, incident)
		}
	})
	if err != nil {
		log.WithError(err).Warn("Failed to update incident")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}
	s.notifier.flush(ctx, out)

	if vehiclesChanged {
		updated = s.tryRespondersGroup(ctx, updated)
	}
	log.Info("Incident updated successfully")
	return updated, nil
}
