package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository хранилище пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// ListByRoles возвращает пользователей ролей в порядке регистрации. Пустой city не фильтрует.
	ListByRoles(ctx context.Context, roles []models.Role, city string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// UserService учётные записи и выход пользователей с передачей их инцидентов
type UserService interface {
	Register(ctx context.Context, username, password string, role models.Role) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Logout(ctx context.Context, username string, role models.Role) error
	DispatcherLogout(ctx context.Context, username string) error
	CommanderLogout(ctx context.Context, username string) error
	FirstResponderLogout(ctx context.Context, username string, isCommander bool) error
}

type userService struct {
	roster
	tx          Transactor
	connections presence.UserConnections
	notifier    *notifier
	logger      *logrus.Logger
	now         func() time.Time
}

func NewUserService(
	users UserRepository,
	incidents IncidentRepository,
	vehicles VehicleRepository,
	tx Transactor,
	connections presence.UserConnections,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
) UserService {
	return &userService{
		roster: roster{
			vehicles:  vehicles,
			incidents: incidents,
			users:     users,
		},
		tx:          tx,
		connections: connections,
		notifier:    newNotifier(incidents, users, connections, publisher, logger),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) Register(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "Register",
		"username": username,
		"role":     role,
	})

	if username == "" {
		return nil, fmt.Errorf("service: username: %w", models.ErrNameRequired)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("service: %q: %w", role, models.ErrInvalidRole)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("User already exists")
			return nil, fmt.Errorf("service: user %s %w", username, models.ErrAlreadyExists)
		}
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not create user: %w", err)
	}

	log.Info("User registered")
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "Login",
		"username": username,
	})

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Login for unknown user")
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Wrong password")
		return nil, models.ErrInvalidCredentials
	}

	log.Info("User logged in")
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

// Logout выбирает сценарий выхода по роли
func (s *userService) Logout(ctx context.Context, username string, role models.Role) error {
	switch role {
	case models.RoleDispatcher:
		return s.DispatcherLogout(ctx, username)
	case models.RolePolice, models.RoleFire:
		incident, err := s.incidents.FindActiveByCommander(ctx, username)
		if err != nil {
			return fmt.Errorf("service: could not find commanded incident: %w", err)
		}
		return s.FirstResponderLogout(ctx, username, incident != nil)
	default:
		user, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("service: could not get user: %w", err)
		}
		s.logout(user)
		return nil
	}
}

// logout снимает регистрацию подключения пользователя
func (s *userService) logout(user *models.User) {
	s.connections.RemoveUserConnection(user.ID.String())
	s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"username": user.Username,
	}).Info("User logged out")
}
