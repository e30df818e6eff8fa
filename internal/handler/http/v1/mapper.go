package v1

import (
	"github.com/shenikar/emergency_response_system/internal/models"
)

// NewIncidentRequestToModel преобразует DTO создания в доменную модель.
// Пустые поля заполнит сервис значениями по умолчанию.
func NewIncidentRequestToModel(dto NewIncidentRequest) *models.Incident {
	return &models.Incident{
		Caller:        dto.Caller,
		IncidentState: models.IncidentState(dto.IncidentState),
		Owner:         dto.Owner,
		Commander:     dto.Commander,
		Address:       dto.Address,
		Type:          models.IncidentType(dto.Type),
		Priority:      models.IncidentPriority(dto.Priority),
	}
}

// UpdateIncidentRequestToPatch преобразует DTO обновления в частичное обновление
func UpdateIncidentRequestToPatch(dto UpdateIncidentRequest) models.IncidentPatch {
	patch := models.IncidentPatch{
		IncidentID: dto.IncidentID,
		Owner:      dto.Owner,
		Commander:  dto.Commander,
		Address:    dto.Address,
	}
	if dto.IncidentState != nil {
		state := models.IncidentState(*dto.IncidentState)
		patch.IncidentState = &state
	}
	if dto.Type != nil {
		t := models.IncidentType(*dto.Type)
		patch.Type = &t
	}
	if dto.Priority != nil {
		p := models.IncidentPriority(*dto.Priority)
		patch.Priority = &p
	}
	if dto.AssignedVehicles != nil {
		vehicles := DTOsToAssignedVehicles(*dto.AssignedVehicles)
		patch.AssignedVehicles = &vehicles
	}
	return patch
}

// DTOsToAssignedVehicles преобразует список машин из запроса
func DTOsToAssignedVehicles(dtos []AssignedVehicleDTO) []models.AssignedVehicle {
	vehicles := make([]models.AssignedVehicle, len(dtos))
	for i, dto := range dtos {
		usernames := dto.Usernames
		if usernames == nil {
			usernames = []string{}
		}
		vehicles[i] = models.AssignedVehicle{
			Type:      models.VehicleType(dto.Type),
			Name:      dto.Name,
			Usernames: usernames,
		}
	}
	return vehicles
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	vehicles := make([]AssignedVehicleDTO, len(model.AssignedVehicles))
	for i, v := range model.AssignedVehicles {
		vehicles[i] = AssignedVehicleDTO{
			Type:      string(v.Type),
			Name:      v.Name,
			Usernames: v.Usernames,
		}
	}
	history := make([]AssignHistoryDTO, len(model.AssignHistory))
	for i, e := range model.AssignHistory {
		history[i] = AssignHistoryDTO{
			Timestamp: e.Timestamp,
			Usernames: e.Usernames,
			IsAssign:  e.IsAssign,
			Name:      e.Name,
			Type:      string(e.Type),
		}
	}

	return &IncidentResponse{
		IncidentID:        model.IncidentID,
		Caller:            model.Caller,
		OpeningDate:       model.OpeningDate,
		IncidentState:     string(model.IncidentState),
		Owner:             model.Owner,
		Commander:         model.Commander,
		Address:           model.Address,
		Type:              string(model.Type),
		Priority:          string(model.Priority),
		ClosingDate:       model.ClosingDate,
		AssignedVehicles:  vehicles,
		AssignHistory:     history,
		IncidentCallGroup: model.IncidentCallGroup,
		RespondersGroup:   model.RespondersGroup,
		UpdatedAt:         model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToVehicleResponse свободная машина отдаётся с assignedIncident = null
func ModelToVehicleResponse(model *models.Vehicle) *VehicleResponse {
	resp := &VehicleResponse{
		Type:      string(model.Type),
		Name:      model.Name,
		Usernames: model.Usernames,
		CreatedAt: model.CreatedAt,
	}
	if resp.Usernames == nil {
		resp.Usernames = []string{}
	}
	if model.AssignedCity != "" {
		city := model.AssignedCity
		resp.AssignedCity = &city
	}
	if id, ok := model.AssignedIncident.IncidentID(); ok {
		resp.AssignedIncident = &id
	}
	return resp
}

func ModelsToVehicleResponses(models []*models.Vehicle) []*VehicleResponse {
	responses := make([]*VehicleResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToVehicleResponse(model)
	}
	return responses
}

func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:                       model.ID,
		Username:                 model.Username,
		Role:                     string(model.Role),
		AssignedCity:             model.AssignedCity,
		AssignedCar:              model.AssignedCar,
		AssignedTruck:            model.AssignedTruck,
		AssignedVehicleTimestamp: model.AssignedVehicleTimestamp,
		CreatedAt:                model.CreatedAt,
	}
}

func ModelsToUserResponses(models []*models.User) []*UserResponse {
	responses := make([]*UserResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToUserResponse(model)
	}
	return responses
}

func ModelToVehicleSelectionResponse(selection *models.VehicleSelection) *VehicleSelectionResponse {
	resp := &VehicleSelectionResponse{User: ModelToUserResponse(selection.User)}
	if selection.Incident != nil {
		resp.Incident = ModelToIncidentResponse(selection.Incident)
	}
	return resp
}

func ModelsToCityResponses(cities []*models.City) []*CityResponse {
	responses := make([]*CityResponse, len(cities))
	for i, city := range cities {
		responses[i] = &CityResponse{Name: city.Name, CreatedAt: city.CreatedAt}
	}
	return responses
}

func ModelToCityAssignmentsResponse(model *models.CityAssignments) *CityAssignmentsResponse {
	return &CityAssignmentsResponse{
		Cars:      ModelsToVehicleResponses(model.Cars),
		Trucks:    ModelsToVehicleResponses(model.Trucks),
		Personnel: ModelsToUserResponses(model.Personnel),
	}
}
