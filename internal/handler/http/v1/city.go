package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_response_system/internal/models"
)

// @Summary Add a city
// @Tags Cities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param city body CreateCityRequest true "City"
// @Success 201 {object} CityResponse
// @Failure 400 {object} map[string]string "Name is required or city already exists"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities [post]
func (h *Handler) createCity(c *gin.Context) {
	var input CreateCityRequest
	log := h.logger.WithField("method", "createCity")
	if !h.bind(c, log, &input) {
		return
	}

	city, err := h.services.Cities.CreateCity(c.Request.Context(), input.Name)
	if err != nil {
		respondError(c, log, err, "Failed to create city in service")
		return
	}
	c.JSON(http.StatusCreated, CityResponse{Name: city.Name, CreatedAt: city.CreatedAt})
}

// @Summary List cities
// @Tags Cities
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} CityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities [get]
func (h *Handler) listCities(c *gin.Context) {
	log := h.logger.WithField("method", "listCities")

	cities, err := h.services.Cities.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, log, err, "Failed to list cities from service")
		return
	}
	c.JSON(http.StatusOK, ModelsToCityResponses(cities))
}

// @Summary Remove a city
// @Tags Cities
// @Security ApiKeyAuth
// @Param name path string true "City"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "City not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities/{name} [delete]
func (h *Handler) deleteCity(c *gin.Context) {
	log := h.logger.WithField("method", "deleteCity").WithField("city", c.Param("name"))

	if err := h.services.Cities.RemoveCity(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, log, err, "Failed to remove city in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get city assignments
// @Tags Cities
// @Produce json
// @Security ApiKeyAuth
// @Param cityName path string true "City"
// @Success 200 {object} CityAssignmentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "City not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities/assignments/{cityName} [get]
func (h *Handler) getCityAssignments(c *gin.Context) {
	log := h.logger.WithField("method", "getCityAssignments").WithField("city", c.Param("cityName"))

	assignments, err := h.services.Cities.GetCityAssignments(c.Request.Context(), c.Param("cityName"))
	if err != nil {
		respondError(c, log, err, "Failed to get city assignments from service")
		return
	}
	c.JSON(http.StatusOK, ModelToCityAssignmentsResponse(assignments))
}

// @Summary Assign a car, truck or responder to a city
// @Tags Cities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param cityName path string true "City"
// @Param assignment body CityAssignmentRequest true "What to assign"
// @Success 200 {object} CityAssignmentsResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "City, vehicle or user not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities/assignments/{cityName} [put]
func (h *Handler) assignToCity(c *gin.Context) {
	var input CityAssignmentRequest
	city := c.Param("cityName")
	log := h.logger.WithField("method", "assignToCity").WithField("city", city)
	if !h.bind(c, log, &input) {
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Cities.AssignToCity(ctx, models.AssignmentKind(input.Kind), input.Name, city); err != nil {
		respondError(c, log, err, "Failed to assign to city in service")
		return
	}
	assignments, err := h.services.Cities.GetCityAssignments(ctx, city)
	if err != nil {
		respondError(c, log, err, "Failed to get city assignments from service")
		return
	}
	c.JSON(http.StatusOK, ModelToCityAssignmentsResponse(assignments))
}

// @Summary Unassign a car, truck or responder from its city
// @Tags Cities
// @Accept json
// @Security ApiKeyAuth
// @Param assignment body CityAssignmentRequest true "What to unassign"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Vehicle or user not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities/unassign [put]
func (h *Handler) unassignFromCity(c *gin.Context) {
	var input CityAssignmentRequest
	log := h.logger.WithField("method", "unassignFromCity")
	if !h.bind(c, log, &input) {
		return
	}

	if err := h.services.Cities.UnassignFromCity(c.Request.Context(), models.AssignmentKind(input.Kind), input.Name); err != nil {
		respondError(c, log, err, "Failed to unassign from city in service")
		return
	}
	c.Status(http.StatusNoContent)
}
