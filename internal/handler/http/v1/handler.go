package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/emergency_response_system/internal/config"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Services сервисы, которые обслуживает API
type Services struct {
	Incidents service.IncidentService
	Vehicles  service.VehicleService
	Personnel service.PersonnelService
	Cities    service.CityService
	Users     service.UserService
}

type Handler struct {
	services    Services
	connections presence.UserConnections
	logger      *logrus.Logger
	validate    *validator.Validate
	cfg         *config.Config
}

func NewHandler(services Services, connections presence.UserConnections, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		services:    services,
		connections: connections,
		logger:      logger,
		validate:    validator.New(),
		cfg:         cfg,
	}
}

// bind разбирает JSON и проверяет его валидатором. При ошибке ответ уже отправлен.
func (h *Handler) bind(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// statusForError сопоставляет доменную ошибку с HTTP-статусом
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrIncidentIDRequired),
		errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrIncidentClosed),
		errors.Is(err, models.ErrVehicleAlreadyAssigned),
		errors.Is(err, models.ErrPersonnelAlreadyAssigned),
		errors.Is(err, models.ErrNoAssignedVehicles),
		errors.Is(err, models.ErrCommanderNotOnVehicle),
		errors.Is(err, models.ErrVehicleTypeMismatch),
		errors.Is(err, models.ErrNotFirstResponder),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrInvalidAssignmentKind):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError отвечает {"error": ...}. Текст внутренних ошибок клиенту не отдаётся.
func respondError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error(msg)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	log.WithError(err).Warn(msg)
	c.JSON(status, gin.H{"error": err.Error()})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
