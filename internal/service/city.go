package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

// CityRepository хранилище городов
type CityRepository interface {
	Create(ctx context.Context, city *models.City) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*models.City, error)
	Delete(ctx context.Context, name string) error
}

// CityService справочник городов и закрепления за ними машин и сотрудников
type CityService interface {
	CreateCity(ctx context.Context, name string) (*models.City, error)
	ListCities(ctx context.Context) ([]*models.City, error)
	RemoveCity(ctx context.Context, name string) error
	GetCityAssignments(ctx context.Context, city string) (*models.CityAssignments, error)
	AssignToCity(ctx context.Context, kind models.AssignmentKind, name, city string) error
	UnassignFromCity(ctx context.Context, kind models.AssignmentKind, name string) error
}

type cityService struct {
	cities   CityRepository
	vehicles VehicleRepository
	users    UserRepository
	tx       Transactor
	logger   *logrus.Logger
}

func NewCityService(cities CityRepository, vehicles VehicleRepository, users UserRepository, tx Transactor, logger *logrus.Logger) CityService {
	return &cityService{
		cities:   cities,
		vehicles: vehicles,
		users:    users,
		tx:       tx,
		logger:   logger,
	}
}

func (s *cityService) CreateCity(ctx context.Context, name string) (*models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("service: city: %w", models.ErrNameRequired)
	}
	log := s.logger.WithFields(logrus.Fields{
		"service": "city",
		"method":  "CreateCity",
		"city":    name,
	})

	city := &models.City{Name: name}
	if err := s.cities.Create(ctx, city); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("City already exists")
			return nil, fmt.Errorf("service: city %s %w", name, models.ErrAlreadyExists)
		}
		log.WithError(err).Error("Failed to create city in repository")
		return nil, fmt.Errorf("service: could not create city: %w", err)
	}

	log.Info("City created")
	return city, nil
}

func (s *cityService) ListCities(ctx context.Context) ([]*models.City, error) {
	cities, err := s.cities.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list cities")
		return nil, fmt.Errorf("service: could not list cities: %w", err)
	}
	return cities, nil
}

// RemoveCity снимает город с машин и сотрудников и удаляет его
func (s *cityService) RemoveCity(ctx context.Context, name string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "city",
		"method":  "RemoveCity",
		"city":    name,
	})

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		assignments, err := s.assignments(ctx, name)
		if err != nil {
			return err
		}
		for _, v := range append(assignments.Cars, assignments.Trucks...) {
			v.AssignedCity = ""
			if err := s.vehicles.Update(ctx, v); err != nil {
				return err
			}
		}
		for _, u := range assignments.Personnel {
			u.AssignedCity = ""
			if err := s.users.Update(ctx, u); err != nil {
				return err
			}
		}
		return s.cities.Delete(ctx, name)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to remove city")
		return fmt.Errorf("service: could not remove city: %w", err)
	}

	log.Info("City removed")
	return nil
}

func (s *cityService) GetCityAssignments(ctx context.Context, city string) (*models.CityAssignments, error) {
	exists, err := s.cities.Exists(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("service: could not check city: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("service: city %s: %w", city, models.ErrNotFound)
	}
	assignments, err := s.assignments(ctx, city)
	if err != nil {
		s.logger.WithError(err).WithField("city", city).Error("Failed to list city assignments")
		return nil, fmt.Errorf("service: could not list city assignments: %w", err)
	}
	return assignments, nil
}

func (s *cityService) assignments(ctx context.Context, city string) (*models.CityAssignments, error) {
	vehicles, err := s.vehicles.ListByCity(ctx, city)
	if err != nil {
		return nil, err
	}
	personnel, err := s.users.ListByRoles(ctx, firstResponderRoles, city)
	if err != nil {
		return nil, err
	}

	out := &models.CityAssignments{
		Cars:      []*models.Vehicle{},
		Trucks:    []*models.Vehicle{},
		Personnel: personnel,
	}
	sortByName(vehicles)
	for _, v := range vehicles {
		switch v.Type {
		case models.VehicleCar:
			out.Cars = append(out.Cars, v)
		case models.VehicleTruck:
			out.Trucks = append(out.Trucks, v)
		}
	}
	if out.Personnel == nil {
		out.Personnel = []*models.User{}
	}
	return out, nil
}

// AssignToCity закрепляет машину или сотрудника за существующим городом
func (s *cityService) AssignToCity(ctx context.Context, kind models.AssignmentKind, name, city string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "city",
		"method":  "AssignToCity",
		"kind":    kind,
		"name":    name,
		"city":    city,
	})

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.cities.Exists(ctx, city)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("city %s: %w", city, models.ErrNotFound)
		}
		return s.setCity(ctx, kind, name, city)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to assign to city")
		return fmt.Errorf("service: could not assign to city: %w", err)
	}

	log.Info("Assigned to city")
	return nil
}

func (s *cityService) UnassignFromCity(ctx context.Context, kind models.AssignmentKind, name string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.setCity(ctx, kind, name, "")
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind": kind,
			"name": name,
		}).Warn("Failed to unassign from city")
		return fmt.Errorf("service: could not unassign from city: %w", err)
	}
	return nil
}

func (s *cityService) setCity(ctx context.Context, kind models.AssignmentKind, name, city string) error {
	switch kind {
	case models.AssignCar, models.AssignTruck:
		vehicle, err := s.vehicles.GetByName(ctx, models.VehicleType(kind), name)
		if err != nil {
			return err
		}
		vehicle.AssignedCity = city
		return s.vehicles.Update(ctx, vehicle)
	case models.AssignPersonnel:
		user, err := s.users.GetByUsername(ctx, name)
		if err != nil {
			return err
		}
		user.AssignedCity = city
		return s.users.Update(ctx, user)
	default:
		return fmt.Errorf("assignment kind %q: %w", kind, models.ErrInvalidAssignmentKind)
	}
}
