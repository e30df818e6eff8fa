package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

// VehicleRepository хранилище машин. Машина однозначно задаётся парой (type, name).
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByName(ctx context.Context, vehicleType models.VehicleType, name string) (*models.Vehicle, error)
	List(ctx context.Context, vehicleType models.VehicleType) ([]*models.Vehicle, error)
	ListByCity(ctx context.Context, city string) ([]*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, vehicleType models.VehicleType, name string) error
}

// VehicleService реестр машин
type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicleType models.VehicleType, name string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, vehicleType models.VehicleType) ([]*models.Vehicle, error)
	ListAvailableWithResponder(ctx context.Context, vehicleType models.VehicleType) ([]*models.Vehicle, error)
	RemoveVehicle(ctx context.Context, vehicleType models.VehicleType, name string) error
}

type vehicleService struct {
	vehicles VehicleRepository
	users    UserRepository
	tx       Transactor
	logger   *logrus.Logger
}

func NewVehicleService(vehicles VehicleRepository, users UserRepository, tx Transactor, logger *logrus.Logger) VehicleService {
	return &vehicleService{
		vehicles: vehicles,
		users:    users,
		tx:       tx,
		logger:   logger,
	}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, vehicleType models.VehicleType, name string) (*models.Vehicle, error) {
	name = strings.TrimSpace(name)
	log := s.logger.WithFields(logrus.Fields{
		"service": "vehicle",
		"method":  "CreateVehicle",
		"type":    vehicleType,
		"name":    name,
	})

	if !vehicleType.IsValid() {
		return nil, fmt.Errorf("service: vehicle type %q: %w", vehicleType, models.ErrVehicleTypeMismatch)
	}
	if name == "" {
		return nil, fmt.Errorf("service: %w", models.ErrNameRequired)
	}

	vehicle := &models.Vehicle{
		Type:             vehicleType,
		Name:             name,
		Usernames:        []string{},
		AssignedIncident: models.Available(),
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("Vehicle already exists")
			return nil, fmt.Errorf("service: %s %s %w", vehicleType, name, models.ErrAlreadyExists)
		}
		log.WithError(err).Error("Failed to create vehicle in repository")
		return nil, fmt.Errorf("service: could not create vehicle: %w", err)
	}

	log.Info("Vehicle created")
	return vehicle, nil
}

// ListVehicles возвращает машины типа, отсортированные по имени
func (s *vehicleService) ListVehicles(ctx context.Context, vehicleType models.VehicleType) ([]*models.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx, vehicleType)
	if err != nil {
		s.logger.WithError(err).WithField("type", vehicleType).Error("Failed to list vehicles")
		return nil, fmt.Errorf("service: could not list vehicles: %w", err)
	}
	sortByName(vehicles)
	return vehicles, nil
}

// ListAvailableWithResponder свободные машины, в которых уже есть экипаж
func (s *vehicleService) ListAvailableWithResponder(ctx context.Context, vehicleType models.VehicleType) ([]*models.Vehicle, error) {
	vehicles, err := s.ListVehicles(ctx, vehicleType)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.AssignedIncident.IsAvailable() && len(v.Usernames) > 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

// RemoveVehicle удаляет машину, не назначенную на инцидент, и снимает её с экипажа
func (s *vehicleService) RemoveVehicle(ctx context.Context, vehicleType models.VehicleType, name string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "vehicle",
		"method":  "RemoveVehicle",
		"type":    vehicleType,
		"name":    name,
	})

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		vehicle, err := s.vehicles.GetByName(ctx, vehicleType, name)
		if err != nil {
			return err
		}
		if incidentID, assigned := vehicle.AssignedIncident.IncidentID(); assigned {
			return fmt.Errorf("%s is on incident %s: %w", vehicle.Key(), incidentID, models.ErrVehicleAlreadyAssigned)
		}
		for _, username := range vehicle.Usernames {
			user, err := s.users.GetByUsername(ctx, username)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					continue
				}
				return err
			}
			if t, n, ok := user.AssignedVehicle(); ok && t == vehicleType && n == name {
				user.ClearAssignedVehicle()
				if err := s.users.Update(ctx, user); err != nil {
					return err
				}
			}
		}
		return s.vehicles.Delete(ctx, vehicleType, name)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to remove vehicle")
		return fmt.Errorf("service: could not remove vehicle: %w", err)
	}

	log.Info("Vehicle removed")
	return nil
}

func sortByName(vehicles []*models.Vehicle) {
	sort.SliceStable(vehicles, func(i, j int) bool {
		return vehicles[i].Name < vehicles[j].Name
	})
}
