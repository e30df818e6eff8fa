package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/emergency_response_system/internal/metrics"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// AddVehicleToIncident добавляет сотрудника с машиной в инцидент.
// Если машина уже работает на инциденте, сотрудник присоединяется к её экипажу там.
// Иначе машина добавляется в командуемый инцидент.
func (s *incidentService) AddVehicleToIncident(ctx context.Context, username, commandingIncidentID string, vehicleType models.VehicleType, vehicleName string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":             "incident",
		"method":              "AddVehicleToIncident",
		"username":            username,
		"commanding_incident": commandingIncidentID,
		"vehicle":             models.VehicleKey(vehicleType, vehicleName),
	})

	out := &outbox{}
	var result *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		vehicle, err := s.vehicles.GetByName(ctx, vehicleType, vehicleName)
		if err != nil {
			return err
		}

		if incidentID, assigned := vehicle.AssignedIncident.IncidentID(); assigned {
			if err := s.ensureNotOnOtherIncident(ctx, username, incidentID); err != nil {
				return err
			}
			incident, err := s.incidents.GetByID(ctx, incidentID)
			if err != nil {
				return err
			}
			joinVehicleRoster(incident, vehicle, username)
			out.touch(incident.IncidentID)
			out.notify([]string{username}, presence.EventJoinNewIncident, incidentPayload{IncidentID: incident.IncidentID})
			result = incident
			return s.incidents.Update(ctx, incident)
		}

		if commandingIncidentID == "" {
			return fmt.Errorf("commanding incident: %w", models.ErrNotFound)
		}
		incident, err := s.incidents.GetByID(ctx, commandingIncidentID)
		if err != nil {
			return err
		}
		if incident.IncidentState == models.StateClosed {
			return models.ErrIncidentClosed
		}
		if err := s.ensureNotOnOtherIncident(ctx, username, ""); err != nil {
			return err
		}

		entry := models.AssignedVehicle{
			Type:      vehicle.Type,
			Name:      vehicle.Name,
			Usernames: models.MergeUsernames(vehicle.Usernames, []string{username}),
		}
		incident.AssignedVehicles = append(incident.AssignedVehicles, entry)
		incident.RecordAssignment(entry, true, s.now())
		vehicle.AssignedIncident = models.AssignedTo(incident.IncidentID)
		if err := s.vehicles.Update(ctx, vehicle); err != nil {
			return err
		}
		metrics.VehicleAssignments.WithLabelValues(metrics.ActionAssign).Inc()
		out.touch(incident.IncidentID)
		out.publish(webhook.EventIncidentVehiclesChanged, incident)
		result = incident
		return s.incidents.Update(ctx, incident)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to add vehicle to incident")
		return nil, fmt.Errorf("service: could not add vehicle to incident: %w", err)
	}

	s.notifier.flush(ctx, out)
	log.WithField("incident_id", result.IncidentID).Info("Vehicle added to incident")
	return result, nil
}

// joinVehicleRoster добавляет пользователя в запись машины на инциденте, создавая запись при необходимости
func joinVehicleRoster(incident *models.Incident, vehicle *models.Vehicle, username string) {
	idx := incident.FindVehicle(vehicle.Type, vehicle.Name)
	if idx < 0 {
		incident.AssignedVehicles = append(incident.AssignedVehicles, models.AssignedVehicle{
			Type:      vehicle.Type,
			Name:      vehicle.Name,
			Usernames: models.MergeUsernames(vehicle.Usernames, []string{username}),
		})
		return
	}
	entry := &incident.AssignedVehicles[idx]
	entry.Usernames = models.MergeUsernames(entry.Usernames, []string{username})
}

// ensureNotOnOtherIncident проверяет, что сотрудник не числится на незакрытом инциденте, кроме allowedID
func (s *incidentService) ensureNotOnOtherIncident(ctx context.Context, username, allowedID string) error {
	active, err := s.incidents.FindActiveByResponder(ctx, username)
	if err != nil {
		return err
	}
	for _, incident := range active {
		if incident.IncidentID != allowedID {
			return fmt.Errorf("%s is on incident %s: %w", username, incident.IncidentID, models.ErrPersonnelAlreadyAssigned)
		}
	}
	return nil
}

// UpdateVehicleHistory сохраняет новый список машин инцидента, ведя журнал назначений,
// и затем пытается создать или обновить группу экипажей. Ошибка на шаге группы не отменяет назначения.
func (s *incidentService) UpdateVehicleHistory(ctx context.Context, incidentID string, vehicles []models.AssignedVehicle) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateVehicleHistory",
		"incident_id": incidentID,
	})

	out := &outbox{}
	var incident *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		incident, err = s.incidents.GetByID(ctx, incidentID)
		if err != nil {
			return err
		}
		if incident.IncidentState == models.StateClosed {
			return models.ErrIncidentClosed
		}
		return s.updateVehicleHistoryTx(ctx, incident, vehicles, out)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to update vehicle history")
		return nil, fmt.Errorf("service: could not update vehicle history: %w", err)
	}
	s.notifier.flush(ctx, out)

	log.WithField("vehicles", len(incident.AssignedVehicles)).Info("Incident vehicles updated")
	return s.tryRespondersGroup(ctx, incident), nil
}

// updateVehicleHistoryTx сравнивает присланный список машин с сохранённым по ключу type::name
func (s *incidentService) updateVehicleHistoryTx(ctx context.Context, incident *models.Incident, submitted []models.AssignedVehicle, out *outbox) error {
	next, err := normalizeVehicles(submitted)
	if err != nil {
		return err
	}

	nextKeys := make(map[string]struct{}, len(next))
	for _, v := range next {
		nextKeys[v.Key()] = struct{}{}
	}
	prevKeys := make(map[string]struct{}, len(incident.AssignedVehicles))
	for _, v := range incident.AssignedVehicles {
		prevKeys[v.Key()] = struct{}{}
	}

	now := s.now()
	for _, v := range next {
		if _, ok := prevKeys[v.Key()]; ok {
			continue
		}
		vehicle, err := s.vehicles.GetByName(ctx, v.Type, v.Name)
		if err != nil {
			return err
		}
		if other, assigned := vehicle.AssignedIncident.IncidentID(); assigned && other != incident.IncidentID {
			return fmt.Errorf("%s is on incident %s: %w", v.Key(), other, models.ErrVehicleAlreadyAssigned)
		}
		incident.RecordAssignment(v, true, now)
		vehicle.AssignedIncident = models.AssignedTo(incident.IncidentID)
		if err := s.vehicles.Update(ctx, vehicle); err != nil {
			return err
		}
		metrics.VehicleAssignments.WithLabelValues(metrics.ActionAssign).Inc()
		out.notify(v.Usernames, presence.EventJoinNewIncident, incidentPayload{IncidentID: incident.IncidentID})
	}

	for _, v := range incident.AssignedVehicles {
		if _, ok := nextKeys[v.Key()]; ok {
			continue
		}
		incident.RecordAssignment(v, false, now)
		if err := releaseVehicle(ctx, s.vehicles, incident.IncidentID, v.Type, v.Name); err != nil {
			return err
		}
	}

	incident.AssignedVehicles = next
	if err := s.incidents.Update(ctx, incident); err != nil {
		return err
	}
	out.touch(incident.IncidentID)
	out.publish(webhook.EventIncidentVehiclesChanged, incident)
	return nil
}

// releaseVehicle освобождает машину, если она всё ещё числится за инцидентом.
// Удалённая машина пропускается.
func releaseVehicle(ctx context.Context, vehicles VehicleRepository, incidentID string, vehicleType models.VehicleType, name string) error {
	vehicle, err := vehicles.GetByName(ctx, vehicleType, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	if vehicle.AssignedIncident != models.AssignedTo(incidentID) {
		return nil
	}
	vehicle.AssignedIncident = models.Available()
	if err := vehicles.Update(ctx, vehicle); err != nil {
		return err
	}
	metrics.VehicleAssignments.WithLabelValues(metrics.ActionRelease).Inc()
	return nil
}

// normalizeVehicles проверяет типы и убирает повторы по type::name, сохраняя первый
func normalizeVehicles(vehicles []models.AssignedVehicle) ([]models.AssignedVehicle, error) {
	seen := make(map[string]struct{}, len(vehicles))
	out := make([]models.AssignedVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !v.Type.IsValid() {
			return nil, fmt.Errorf("vehicle type %q: %w", v.Type, models.ErrVehicleTypeMismatch)
		}
		if v.Name == "" {
			return nil, fmt.Errorf("vehicle: %w", models.ErrNameRequired)
		}
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		if v.Usernames == nil {
			v.Usernames = []string{}
		}
		out = append(out, v)
	}
	return out, nil
}

// tryRespondersGroup создание группы экипажей по принципу best effort
func (s *incidentService) tryRespondersGroup(ctx context.Context, incident *models.Incident) *models.Incident {
	withGroup, err := s.CreateOrUpdateRespondersGroup(ctx, incident.IncidentID)
	if err != nil {
		metrics.RespondersGroupFailures.Inc()
		s.logger.WithError(err).WithField("incident_id", incident.IncidentID).
			Warn("Responders group not updated, returning incident without it")
		return incident
	}
	return withGroup
}

// CreateOrUpdateRespondersGroup создает канал {incidentId}_Resp для всех экипажей и командира
// или обновляет состав существующего.
func (s *incidentService) CreateOrUpdateRespondersGroup(ctx context.Context, incidentID string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CreateOrUpdateRespondersGroup",
		"incident_id": incidentID,
	})

	var incident *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		incident, err = s.incidents.GetByID(ctx, incidentID)
		if err != nil {
			return err
		}
		if len(incident.AssignedVehicles) == 0 {
			return models.ErrNoAssignedVehicles
		}
		if !incident.HasResponder(incident.Commander) {
			return models.ErrCommanderNotOnVehicle
		}

		rosters := make([][]string, 0, len(incident.AssignedVehicles)+1)
		for _, v := range incident.AssignedVehicles {
			rosters = append(rosters, v.Usernames)
		}
		rosters = append(rosters, []string{incident.Commander})

		userIDs := make([]string, 0)
		for _, username := range models.MergeUsernames(rosters...) {
			user, err := s.users.GetByUsername(ctx, username)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					log.WithField("username", username).Warn("Skipping unknown user in responders group")
					continue
				}
				return err
			}
			userIDs = append(userIDs, user.ID.String())
		}

		if incident.RespondersGroup != nil {
			return s.channels.UpdateUsers(ctx, *incident.RespondersGroup, userIDs)
		}

		channel := &models.Channel{
			Name:    models.RespondersGroupName(incident.IncidentID),
			Owner:   incident.Commander,
			UserIDs: userIDs,
		}
		if err := s.channels.Create(ctx, channel); err != nil {
			return err
		}
		incident.RespondersGroup = &channel.ID
		return s.incidents.Update(ctx, incident)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to create or update responders group")
		return nil, fmt.Errorf("service: could not update responders group: %w", err)
	}

	s.notifier.flush(ctx, &outbox{invalidate: []string{incidentID}})
	log.WithField("channel_id", incident.RespondersGroup).Info("Responders group is up to date")
	return incident, nil
}

// CloseIncident закрывает инцидент: освобождает машины, закрывает связанные каналы
func (s *incidentService) CloseIncident(ctx context.Context, incidentID string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CloseIncident",
		"incident_id": incidentID,
	})
	log.Info("Attempting to close incident")

	out := &outbox{}
	var incident *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		incident, err = s.incidents.GetByID(ctx, incidentID)
		if err != nil {
			return err
		}
		if incident.IncidentState == models.StateClosed {
			return nil
		}
		return s.closeIncidentTx(ctx, incident, out)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to close incident")
		return nil, fmt.Errorf("service: could not close incident: %w", err)
	}
	s.notifier.flush(ctx, out)

	log.Info("Incident closed")
	return incident, nil
}

func (s *incidentService) closeIncidentTx(ctx context.Context, incident *models.Incident, out *outbox) error {
	now := s.now()
	incident.IncidentState = models.StateClosed
	incident.ClosingDate = &now

	for _, v := range incident.AssignedVehicles {
		incident.RecordAssignment(v, false, now)
		if err := releaseVehicle(ctx, s.vehicles, incident.IncidentID, v.Type, v.Name); err != nil {
			return err
		}
	}
	responders := make([][]string, 0, len(incident.AssignedVehicles))
	for _, v := range incident.AssignedVehicles {
		responders = append(responders, v.Usernames)
	}
	incident.AssignedVehicles = []models.AssignedVehicle{}

	if incident.IncidentCallGroup != nil {
		if err := s.channels.Close(ctx, *incident.IncidentCallGroup); err != nil {
			return err
		}
		incident.IncidentCallGroup = nil
	}
	if incident.RespondersGroup != nil {
		if err := s.channels.Close(ctx, *incident.RespondersGroup); err != nil {
			return err
		}
		incident.RespondersGroup = nil
	}

	if err := s.incidents.Update(ctx, incident); err != nil {
		return err
	}
	out.touch(incident.IncidentID)
	out.notify(models.MergeUsernames(responders...), presence.EventIncidentClosed, incidentPayload{IncidentID: incident.IncidentID})
	out.publish(webhook.EventIncidentClosed, incident)
	return nil
}
