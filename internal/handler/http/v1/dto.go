package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateIncidentRequest DTO для создания инцидента по звонку
// @Description DTO для создания инцидента по звонку
type CreateIncidentRequest struct {
	Username string `json:"username" validate:"required"`
}

// NewIncidentRequest DTO для создания инцидента со всеми полями
// @Description DTO для создания инцидента со всеми полями
type NewIncidentRequest struct {
	Caller        string `json:"caller" validate:"required"`
	IncidentState string `json:"incidentState,omitempty" validate:"omitempty,oneof=Waiting Triage Assigned Closed"`
	Owner         string `json:"owner,omitempty"`
	Commander     string `json:"commander,omitempty"`
	Address       string `json:"address,omitempty"`
	Type          string `json:"type,omitempty" validate:"omitempty,oneof=U F M P"`
	Priority      string `json:"priority,omitempty" validate:"omitempty,oneof=E 1 2 3"`
}

// UpdateIncidentRequest DTO для частичного обновления инцидента. Отсутствующие поля не меняются.
// @Description DTO для частичного обновления инцидента
type UpdateIncidentRequest struct {
	IncidentID       string                `json:"incidentId"`
	IncidentState    *string               `json:"incidentState,omitempty" validate:"omitempty,oneof=Waiting Triage Assigned Closed"`
	Owner            *string               `json:"owner,omitempty"`
	Commander        *string               `json:"commander,omitempty"`
	Address          *string               `json:"address,omitempty"`
	Type             *string               `json:"type,omitempty" validate:"omitempty,oneof=U F M P"`
	Priority         *string               `json:"priority,omitempty" validate:"omitempty,oneof=E 1 2 3"`
	AssignedVehicles *[]AssignedVehicleDTO `json:"assignedVehicles,omitempty" validate:"omitempty,dive"`
}

// AssignedVehicleDTO машина инцидента с экипажем
// @Description машина инцидента с экипажем
type AssignedVehicleDTO struct {
	Type      string   `json:"type" validate:"required,oneof=Car Truck"`
	Name      string   `json:"name" validate:"required"`
	Usernames []string `json:"usernames"`
}

// AssignHistoryDTO запись журнала назначений
// @Description запись журнала назначений
type AssignHistoryDTO struct {
	Timestamp time.Time `json:"timestamp"`
	Usernames []string  `json:"usernames"`
	IsAssign  bool      `json:"isAssign"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
}

// ChatGroupRequest DTO для привязки канала звонка
// @Description DTO для привязки канала звонка
type ChatGroupRequest struct {
	ChannelID string `json:"channelId" validate:"required,uuid"`
}

// UpdateVehiclesRequest DTO для замены списка машин инцидента
// @Description DTO для замены списка машин инцидента
type UpdateVehiclesRequest struct {
	Vehicles []AssignedVehicleDTO `json:"vehicles" validate:"dive"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	IncidentID        string               `json:"incidentId"`
	Caller            string               `json:"caller"`
	OpeningDate       time.Time            `json:"openingDate"`
	IncidentState     string               `json:"incidentState"`
	Owner             string               `json:"owner"`
	Commander         string               `json:"commander"`
	Address           string               `json:"address"`
	Type              string               `json:"type"`
	Priority          string               `json:"priority"`
	ClosingDate       *time.Time           `json:"closingDate,omitempty"`
	AssignedVehicles  []AssignedVehicleDTO `json:"assignedVehicles"`
	AssignHistory     []AssignHistoryDTO   `json:"assignHistory"`
	IncidentCallGroup *uuid.UUID           `json:"incidentCallGroup"`
	RespondersGroup   *uuid.UUID           `json:"respondersGroup"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// CreateVehicleRequest DTO для добавления машины
// @Description DTO для добавления машины
type CreateVehicleRequest struct {
	Name string `json:"name"`
}

// VehicleResponse DTO для ответа с информацией о машине
// @Description DTO для ответа с информацией о машине
type VehicleResponse struct {
	Type             string    `json:"type"`
	Name             string    `json:"name"`
	Usernames        []string  `json:"usernames"`
	AssignedCity     *string   `json:"assignedCity"`
	AssignedIncident *string   `json:"assignedIncident"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SelectVehicleRequest DTO для выбора машины сотрудником
// @Description DTO для выбора машины сотрудником
type SelectVehicleRequest struct {
	Username           string `json:"username" validate:"required"`
	CommandingIncident string `json:"commandingIncident,omitempty"`
	VehicleType        string `json:"vehicleType" validate:"required,oneof=Car Truck"`
	VehicleName        string `json:"vehicleName" validate:"required"`
}

// ReleaseVehicleRequest DTO для освобождения машины сотрудником
// @Description DTO для освобождения машины сотрудником
type ReleaseVehicleRequest struct {
	Username string `json:"username" validate:"required"`
}

// AssignCityRequest DTO для закрепления сотрудника за городом
// @Description DTO для закрепления сотрудника за городом
type AssignCityRequest struct {
	Username string `json:"username" validate:"required"`
	City     string `json:"city"`
}

// VehicleSelectionResponse DTO для ответа на выбор машины
// @Description DTO для ответа на выбор машины
type VehicleSelectionResponse struct {
	User     *UserResponse     `json:"user"`
	Incident *IncidentResponse `json:"incident,omitempty"`
}

// CreateCityRequest DTO для добавления города
// @Description DTO для добавления города
type CreateCityRequest struct {
	Name string `json:"name"`
}

// CityResponse DTO для ответа с городом
// @Description DTO для ответа с городом
type CityResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CityAssignmentRequest DTO для закрепления машины или сотрудника за городом
// @Description DTO для закрепления машины или сотрудника за городом
type CityAssignmentRequest struct {
	Kind string `json:"kind" validate:"required,oneof=Car Truck Personnel"`
	Name string `json:"name" validate:"required"`
}

// CityAssignmentsResponse DTO для ответа со всем, что закреплено за городом
// @Description DTO для ответа со всем, что закреплено за городом
type CityAssignmentsResponse struct {
	Cars      []*VehicleResponse `json:"cars"`
	Trucks    []*VehicleResponse `json:"trucks"`
	Personnel []*UserResponse    `json:"personnel"`
}

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,oneof=Citizen Dispatcher Police Fire Nurse Administrator"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LogoutRequest DTO для выхода
// @Description DTO для выхода
type LogoutRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=Citizen Dispatcher Police Fire Nurse Administrator"`
}

// UserResponse DTO для ответа с информацией о пользователе
// @Description DTO для ответа с информацией о пользователе
type UserResponse struct {
	ID                       uuid.UUID  `json:"id"`
	Username                 string     `json:"username"`
	Role                     string     `json:"role"`
	AssignedCity             string     `json:"assignedCity,omitempty"`
	AssignedCar              string     `json:"assignedCar,omitempty"`
	AssignedTruck            string     `json:"assignedTruck,omitempty"`
	AssignedVehicleTimestamp *time.Time `json:"assignedVehicleTimestamp,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
}
