package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shenikar/emergency_response_system/internal/metrics"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// DispatcherLogout передаёт инциденты в Triage диспетчера наименее загруженному
// диспетчеру онлайн. Если других диспетчеров онлайн нет, командир не меняется.
func (s *userService) DispatcherLogout(ctx context.Context, username string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "DispatcherLogout",
		"username": username,
	})

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service: could not get user: %w", err)
	}
	// отключение выполняется и при ошибке переназначения
	defer s.logout(user)

	out := &outbox{}
	var target *models.User
	var moved []*models.Incident
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.leastBusyDispatcher(ctx, username)
		if err != nil || target == nil {
			return err
		}

		moved, err = s.incidents.List(ctx, models.IncidentFilter{Commander: username, State: models.StateTriage})
		if err != nil {
			return err
		}
		for _, incident := range moved {
			incident.Commander = target.Username
			if err := s.incidents.Update(ctx, incident); err != nil {
				return err
			}
			out.touch(incident.IncidentID)
			out.publish(webhook.EventIncidentCommanderChanged, incident)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to reassign dispatcher incidents")
		return fmt.Errorf("service: dispatcher logout: %w", err)
	}
	s.notifier.flush(ctx, out)

	if target == nil {
		log.Info("No other dispatcher online, incidents keep their commander")
	} else if len(moved) > 0 {
		for _, incident := range moved {
			s.notifier.notifyUser(target, presence.EventIncidentCommanderChanged, incidentPayload{
				IncidentID: incident.IncidentID,
				Commander:  target.Username,
			})
		}
		metrics.CommandTransfers.WithLabelValues(metrics.TransferDispatcher).Add(float64(len(moved)))
		log.WithFields(logrus.Fields{
			"target":    target.Username,
			"incidents": len(moved),
		}).Info("Triage incidents reassigned")
	}
	return nil
}

// leastBusyDispatcher выбирает среди других диспетчеров онлайн того, у кого меньше всего
// инцидентов в Triage. При равенстве побеждает зарегистрированный раньше.
func (s *userService) leastBusyDispatcher(ctx context.Context, exclude string) (*models.User, error) {
	dispatchers, err := s.users.ListByRoles(ctx, []models.Role{models.RoleDispatcher}, "")
	if err != nil {
		return nil, err
	}

	online := make([]*models.User, 0, len(dispatchers))
	for _, d := range dispatchers {
		if d.Username == exclude {
			continue
		}
		if s.connections.IsUserConnected(d.ID.String()) {
			online = append(online, d)
		}
	}
	if len(online) == 0 {
		return nil, nil
	}

	load := make(map[string]int, len(online))
	for _, d := range online {
		n, err := s.incidents.CountByCommanderAndState(ctx, d.Username, models.StateTriage)
		if err != nil {
			return nil, err
		}
		load[d.Username] = n
	}
	sort.SliceStable(online, func(i, j int) bool {
		return load[online[i].Username] < load[online[j].Username]
	})
	return online[0], nil
}

// CommanderLogout передаёт командование инцидентом свободному сотруднику вместе с машиной
func (s *userService) CommanderLogout(ctx context.Context, username string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "CommanderLogout",
		"username": username,
	})

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service: could not get user: %w", err)
	}
	defer s.logout(user)

	out := &outbox{}
	transferred := false
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		occupied := map[string]struct{}{}
		if vehicleType, name, ok := user.AssignedVehicle(); ok {
			occupied[models.VehicleKey(vehicleType, name)] = struct{}{}
		}
		var err error
		transferred, err = s.transferCommand(ctx, user, occupied, out)
		return err
	})
	if err != nil {
		log.WithError(err).Error("Failed to transfer command")
		return fmt.Errorf("service: commander logout: %w", err)
	}
	s.finishTransfer(ctx, out, transferred)
	return nil
}

// FirstResponderLogout снимает сотрудника с машины и, если он командир, передаёт командование
func (s *userService) FirstResponderLogout(ctx context.Context, username string, isCommander bool) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "user",
		"method":       "FirstResponderLogout",
		"username":     username,
		"is_commander": isCommander,
	})

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service: could not get user: %w", err)
	}
	defer s.logout(user)

	out := &outbox{}
	transferred := false
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// после detach машина пользователя уже не видна, запоминаем её заранее
		occupied := map[string]struct{}{}
		if vehicleType, name, ok := user.AssignedVehicle(); ok {
			occupied[models.VehicleKey(vehicleType, name)] = struct{}{}
		}
		if err := s.detach(ctx, user, out); err != nil {
			return err
		}
		if !isCommander {
			return nil
		}
		var err error
		transferred, err = s.transferCommand(ctx, user, occupied, out)
		return err
	})
	if err != nil {
		log.WithError(err).Error("Failed to log out first responder")
		return fmt.Errorf("service: first responder logout: %w", err)
	}
	s.finishTransfer(ctx, out, transferred)
	return nil
}

func (s *userService) finishTransfer(ctx context.Context, out *outbox, transferred bool) {
	s.notifier.flush(ctx, out)
	if transferred {
		metrics.CommandTransfers.WithLabelValues(metrics.TransferCommander).Inc()
	}
}

// transferCommand снимает с инцидента командира машины, на которых он был, и передаёт
// командование сотруднику без инцидента в Assigned. Машина преемника добавляется в инцидент.
// Возвращает false, если передавать нечего или некому.
func (s *userService) transferCommand(ctx context.Context, commander *models.User, occupied map[string]struct{}, out *outbox) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "user",
		"method":    "transferCommand",
		"commander": commander.Username,
	})

	incident, err := s.incidents.FindActiveByCommander(ctx, commander.Username)
	if err != nil {
		return false, err
	}
	if incident == nil {
		return false, nil
	}
	replacement, err := s.findReplacement(ctx, commander.Username, incident.IncidentID)
	if err != nil {
		return false, err
	}
	if replacement == nil {
		log.WithField("incident_id", incident.IncidentID).Info("No free first responder to take command")
		return false, nil
	}

	now := s.now()
	kept := make([]models.AssignedVehicle, 0, len(incident.AssignedVehicles))
	for _, v := range incident.AssignedVehicles {
		_, wasOccupied := occupied[v.Key()]
		if !wasOccupied && !v.HasUsername(commander.Username) {
			kept = append(kept, v)
			continue
		}
		incident.RecordAssignment(v, false, now)
		if err := releaseVehicle(ctx, s.vehicles, incident.IncidentID, v.Type, v.Name); err != nil {
			return false, err
		}
	}
	incident.AssignedVehicles = kept

	if err := s.allocateReplacementVehicle(ctx, incident, replacement, now, out); err != nil {
		return false, err
	}

	incident.Commander = replacement.Username
	if err := s.incidents.Update(ctx, incident); err != nil {
		return false, err
	}
	out.touch(incident.IncidentID)
	out.notify([]string{replacement.Username}, presence.EventIncidentCommanderChanged, incidentPayload{
		IncidentID: incident.IncidentID,
		Commander:  replacement.Username,
	})
	out.publish(webhook.EventIncidentCommanderChanged, incident)

	log.WithFields(logrus.Fields{
		"incident_id": incident.IncidentID,
		"replacement": replacement.Username,
	}).Info("Incident command transferred")
	return true, nil
}

// findReplacement первый по порядку регистрации полицейский или пожарный,
// который не командует инцидентом в Assigned и не работает в экипаже другого инцидента
func (s *userService) findReplacement(ctx context.Context, exclude, incidentID string) (*models.User, error) {
	responders, err := s.users.ListByRoles(ctx, []models.Role{models.RolePolice, models.RoleFire}, "")
	if err != nil {
		return nil, err
	}
	for _, r := range responders {
		if r.Username == exclude {
			continue
		}
		n, err := s.incidents.CountByCommanderAndState(ctx, r.Username, models.StateAssigned)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			continue
		}
		busy, err := s.onOtherIncident(ctx, r.Username, incidentID)
		if err != nil {
			return nil, err
		}
		if !busy {
			return r, nil
		}
	}
	return nil, nil
}

// onOtherIncident сообщает, числится ли сотрудник в экипаже незакрытого инцидента, кроме incidentID
func (s *userService) onOtherIncident(ctx context.Context, username, incidentID string) (bool, error) {
	active, err := s.incidents.FindActiveByResponder(ctx, username)
	if err != nil {
		return false, err
	}
	for _, incident := range active {
		if incident.IncidentID != incidentID {
			return true, nil
		}
	}
	return false, nil
}

// allocateReplacementVehicle добавляет в инцидент машину преемника вместе с её экипажем
func (s *userService) allocateReplacementVehicle(ctx context.Context, incident *models.Incident, replacement *models.User, now time.Time, out *outbox) error {
	vehicleType, name, ok := replacement.AssignedVehicle()
	if !ok || incident.FindVehicle(vehicleType, name) >= 0 {
		return nil
	}

	vehicle, err := s.vehicles.GetByName(ctx, vehicleType, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	if other, assigned := vehicle.AssignedIncident.IncidentID(); assigned && other != incident.IncidentID {
		s.logger.WithFields(logrus.Fields{
			"vehicle":     vehicle.Key(),
			"incident_id": other,
		}).Warn("Replacement vehicle is busy on another incident, not allocating it")
		return nil
	}

	entry := models.AssignedVehicle{
		Type:      vehicle.Type,
		Name:      vehicle.Name,
		Usernames: models.MergeUsernames(vehicle.Usernames),
	}
	incident.AssignedVehicles = append(incident.AssignedVehicles, entry)
	incident.RecordAssignment(entry, true, now)
	vehicle.AssignedIncident = models.AssignedTo(incident.IncidentID)
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return err
	}
	metrics.VehicleAssignments.WithLabelValues(metrics.ActionAssign).Inc()
	out.notify(entry.Usernames, presence.EventJoinNewIncident, incidentPayload{IncidentID: incident.IncidentID})
	return nil
}
