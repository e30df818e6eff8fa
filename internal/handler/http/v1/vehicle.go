package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_response_system/internal/models"
)

// Обработчики машин общие для /cars и /trucks, тип задаётся при регистрации маршрута.

// @Summary Add a vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param vehicle body CreateVehicleRequest true "Vehicle"
// @Success 201 {object} VehicleResponse
// @Failure 400 {object} map[string]string "Name is required or vehicle already exists"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cars [post]
// @Router /trucks [post]
func (h *Handler) createVehicle(vehicleType models.VehicleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateVehicleRequest
		log := h.logger.WithField("method", "createVehicle").WithField("type", vehicleType)
		if !h.bind(c, log, &input) {
			return
		}

		vehicle, err := h.services.Vehicles.CreateVehicle(c.Request.Context(), vehicleType, input.Name)
		if err != nil {
			respondError(c, log, err, "Failed to create vehicle in service")
			return
		}
		c.JSON(http.StatusCreated, ModelToVehicleResponse(vehicle))
	}
}

// @Summary List vehicles sorted by name
// @Tags Vehicles
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} VehicleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cars [get]
// @Router /trucks [get]
func (h *Handler) listVehicles(vehicleType models.VehicleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithField("method", "listVehicles").WithField("type", vehicleType)

		vehicles, err := h.services.Vehicles.ListVehicles(c.Request.Context(), vehicleType)
		if err != nil {
			respondError(c, log, err, "Failed to list vehicles from service")
			return
		}
		c.JSON(http.StatusOK, ModelsToVehicleResponses(vehicles))
	}
}

// @Summary List free vehicles that have a crew
// @Tags Vehicles
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} VehicleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cars/availablewithresponder [get]
// @Router /trucks/availablewithresponder [get]
func (h *Handler) listAvailableWithResponder(vehicleType models.VehicleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithField("method", "listAvailableWithResponder").WithField("type", vehicleType)

		vehicles, err := h.services.Vehicles.ListAvailableWithResponder(c.Request.Context(), vehicleType)
		if err != nil {
			respondError(c, log, err, "Failed to list available vehicles from service")
			return
		}
		c.JSON(http.StatusOK, ModelsToVehicleResponses(vehicles))
	}
}

// @Summary Remove a vehicle
// @Tags Vehicles
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "Vehicle name"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Vehicle is on an incident"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Vehicle not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cars/{name} [delete]
// @Router /trucks/{name} [delete]
func (h *Handler) deleteVehicle(vehicleType models.VehicleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		log := h.logger.WithField("method", "deleteVehicle").WithField("type", vehicleType).WithField("name", name)

		if err := h.services.Vehicles.RemoveVehicle(c.Request.Context(), vehicleType, name); err != nil {
			respondError(c, log, err, "Failed to remove vehicle in service")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
