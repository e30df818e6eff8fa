package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// PersonnelService справочник полицейских и пожарных и их машин
type PersonnelService interface {
	ListPersonnel(ctx context.Context, city string) ([]*models.User, error)
	SelectVehicle(ctx context.Context, username, commandingIncidentID string, vehicleType models.VehicleType, vehicleName string) (*models.VehicleSelection, error)
	ReleaseVehicle(ctx context.Context, username string) (*models.User, error)
	AssignCity(ctx context.Context, username, city string) (*models.User, error)
}

var firstResponderRoles = []models.Role{models.RolePolice, models.RoleFire}

type personnelService struct {
	roster
	cities      CityRepository
	coordinator IncidentService
	tx          Transactor
	notifier    *notifier
	logger      *logrus.Logger
	now         func() time.Time
}

func NewPersonnelService(
	users UserRepository,
	vehicles VehicleRepository,
	incidents IncidentRepository,
	cities CityRepository,
	coordinator IncidentService,
	tx Transactor,
	connections presence.UserConnections,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
) PersonnelService {
	return &personnelService{
		roster: roster{
			vehicles:  vehicles,
			incidents: incidents,
			users:     users,
		},
		cities:      cities,
		coordinator: coordinator,
		tx:          tx,
		notifier:    newNotifier(incidents, users, connections, publisher, logger),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *personnelService) ListPersonnel(ctx context.Context, city string) ([]*models.User, error) {
	personnel, err := s.users.ListByRoles(ctx, firstResponderRoles, strings.TrimSpace(city))
	if err != nil {
		s.logger.WithError(err).WithField("city", city).Error("Failed to list personnel")
		return nil, fmt.Errorf("service: could not list personnel: %w", err)
	}
	return personnel, nil
}

// SelectVehicle сажает сотрудника в машину его типа. Если машина уже на инциденте
// или передан командуемый инцидент, сотрудник вместе с машиной попадает на инцидент.
func (s *personnelService) SelectVehicle(ctx context.Context, username, commandingIncidentID string, vehicleType models.VehicleType, vehicleName string) (*models.VehicleSelection, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":             "personnel",
		"method":              "SelectVehicle",
		"username":            username,
		"commanding_incident": commandingIncidentID,
		"vehicle":             models.VehicleKey(vehicleType, vehicleName),
	})

	result := &models.VehicleSelection{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if !user.Role.IsFirstResponder() {
			return fmt.Errorf("%s is %s: %w", username, user.Role, models.ErrNotFirstResponder)
		}
		if want, _ := user.Role.VehicleType(); want != vehicleType {
			return fmt.Errorf("%s cannot take %s: %w", user.Role, vehicleType, models.ErrVehicleTypeMismatch)
		}
		if heldType, heldName, ok := user.AssignedVehicle(); ok && (heldType != vehicleType || heldName != vehicleName) {
			return fmt.Errorf("%s already holds %s: %w", username, models.VehicleKey(heldType, heldName), models.ErrPersonnelAlreadyAssigned)
		}

		vehicle, err := s.vehicles.GetByName(ctx, vehicleType, vehicleName)
		if err != nil {
			return err
		}
		vehicle.AddUsername(username)
		if err := s.vehicles.Update(ctx, vehicle); err != nil {
			return err
		}
		user.SetAssignedVehicle(vehicleType, vehicleName, s.now())
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		result.User = user

		if vehicle.AssignedIncident.IsAvailable() && commandingIncidentID == "" {
			return nil
		}
		result.Incident, err = s.coordinator.AddVehicleToIncident(ctx, username, commandingIncidentID, vehicleType, vehicleName)
		return err
	})
	if err != nil {
		log.WithError(err).Warn("Failed to select vehicle")
		return nil, fmt.Errorf("service: could not select vehicle: %w", err)
	}

	log.Info("Vehicle selected")
	return result, nil
}

// ReleaseVehicle высаживает сотрудника из машины и убирает его из экипажей инцидентов
func (s *personnelService) ReleaseVehicle(ctx context.Context, username string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "personnel",
		"method":   "ReleaseVehicle",
		"username": username,
	})

	out := &outbox{}
	var user *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		return s.detach(ctx, user, out)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to release vehicle")
		return nil, fmt.Errorf("service: could not release vehicle: %w", err)
	}
	s.notifier.flush(ctx, out)

	log.Info("Vehicle released")
	return user, nil
}

// AssignCity закрепляет сотрудника за городом. Пустой city снимает закрепление.
func (s *personnelService) AssignCity(ctx context.Context, username, city string) (*models.User, error) {
	city = strings.TrimSpace(city)
	log := s.logger.WithFields(logrus.Fields{
		"service":  "personnel",
		"method":   "AssignCity",
		"username": username,
		"city":     city,
	})

	var user *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if city != "" {
			exists, err := s.cities.Exists(ctx, city)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("city %s: %w", city, models.ErrNotFound)
			}
		}
		var err error
		user, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		user.AssignedCity = city
		return s.users.Update(ctx, user)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to assign city")
		return nil, fmt.Errorf("service: could not assign city: %w", err)
	}

	log.Info("City assigned")
	return user, nil
}
