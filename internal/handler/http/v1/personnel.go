package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_response_system/internal/models"
)

// @Summary List police and fire personnel
// @Tags Personnel
// @Produce json
// @Security ApiKeyAuth
// @Param city query string false "City"
// @Success 200 {array} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /personnel [get]
func (h *Handler) listPersonnel(c *gin.Context) {
	log := h.logger.WithField("method", "listPersonnel")

	personnel, err := h.services.Personnel.ListPersonnel(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, log, err, "Failed to list personnel from service")
		return
	}
	c.JSON(http.StatusOK, ModelsToUserResponses(personnel))
}

// @Summary Select a vehicle
// @Description Puts the responder on the vehicle. If the vehicle is on an incident, or a commanding incident is given, the responder joins the incident.
// @Tags Personnel
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param selection body SelectVehicleRequest true "Selection"
// @Success 200 {object} VehicleSelectionResponse
// @Failure 400 {object} map[string]string "Wrong role, vehicle type or already assigned"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User, vehicle or incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /personnel/vehicles [put]
func (h *Handler) selectVehicle(c *gin.Context) {
	var input SelectVehicleRequest
	log := h.logger.WithField("method", "selectVehicle")
	if !h.bind(c, log, &input) {
		return
	}

	selection, err := h.services.Personnel.SelectVehicle(
		c.Request.Context(),
		input.Username,
		input.CommandingIncident,
		models.VehicleType(input.VehicleType),
		input.VehicleName,
	)
	if err != nil {
		respondError(c, log.WithField("username", input.Username), err, "Failed to select vehicle in service")
		return
	}
	c.JSON(http.StatusOK, ModelToVehicleSelectionResponse(selection))
}

// @Summary Release a vehicle
// @Tags Personnel
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param release body ReleaseVehicleRequest true "Responder"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /personnel/vehicles/release [put]
func (h *Handler) releaseVehicle(c *gin.Context) {
	var input ReleaseVehicleRequest
	log := h.logger.WithField("method", "releaseVehicle")
	if !h.bind(c, log, &input) {
		return
	}

	user, err := h.services.Personnel.ReleaseVehicle(c.Request.Context(), input.Username)
	if err != nil {
		respondError(c, log.WithField("username", input.Username), err, "Failed to release vehicle in service")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Assign a responder to a city
// @Tags Personnel
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignment body AssignCityRequest true "Responder and city, empty city unassigns"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User or city not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /personnel/cities [put]
func (h *Handler) assignPersonnelCity(c *gin.Context) {
	var input AssignCityRequest
	log := h.logger.WithField("method", "assignPersonnelCity")
	if !h.bind(c, log, &input) {
		return
	}

	user, err := h.services.Personnel.AssignCity(c.Request.Context(), input.Username, input.City)
	if err != nil {
		respondError(c, log.WithField("username", input.Username), err, "Failed to assign city in service")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}
