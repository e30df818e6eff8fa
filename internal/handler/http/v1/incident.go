package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

// @Summary Create an incident for a caller
// @Description Create an incident for the caller. A second call for the same caller fails.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body CreateIncidentRequest true "Caller"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or incident already exists"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")
	if !h.bind(c, log, &input) {
		return
	}

	incident, err := h.services.Incidents.Create(c.Request.Context(), input.Username)
	if err != nil {
		respondError(c, log, err, "Failed to create incident in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Create or return an incident
// @Description Create an incident with all fields or return the existing one for the caller. New incidents are broadcast to dispatchers.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body NewIncidentRequest true "Incident"
// @Success 201 {object} IncidentResponse "Created"
// @Success 200 {object} IncidentResponse "Already existed"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/new [post]
func (h *Handler) newIncident(c *gin.Context) {
	var input NewIncidentRequest
	log := h.logger.WithField("method", "newIncident")
	if !h.bind(c, log, &input) {
		return
	}

	incident, created, err := h.services.Incidents.CreateIncident(c.Request.Context(), NewIncidentRequestToModel(input))
	if err != nil {
		respondError(c, log, err, "Failed to create incident in service")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, ModelToIncidentResponse(incident))
}

// @Summary Update an incident
// @Description Merge update keyed by incidentId. Missing id or unknown incident is a bad request.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body UpdateIncidentRequest true "Incident fields to change"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Missing incidentId, incident not found or invalid change"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/update [put]
func (h *Handler) updateIncident(c *gin.Context) {
	var input UpdateIncidentRequest
	log := h.logger.WithField("method", "updateIncident")
	if !h.bind(c, log, &input) {
		return
	}
	log = log.WithField("incident_id", input.IncidentID)

	incident, err := h.services.Incidents.UpdateIncident(c.Request.Context(), UpdateIncidentRequestToPatch(input))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.WithError(err).Warn("Incident not found for update")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, log, err, "Failed to update incident in service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get active incident of a caller
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param username path string true "Caller"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active incident"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{username}/active [get]
func (h *Handler) getActiveIncident(c *gin.Context) {
	username := c.Param("username")
	log := h.logger.WithField("method", "getActiveIncident").WithField("caller", username)

	incident, err := h.services.Incidents.GetActiveIncident(c.Request.Context(), username)
	if err != nil {
		respondError(c, log, err, "Failed to get active incident from service")
		return
	}
	if incident == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active incident"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Attach call chat channel
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param channel body ChatGroupRequest true "Channel"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/chat-group [put]
func (h *Handler) updateChatGroup(c *gin.Context) {
	var input ChatGroupRequest
	log := h.logger.WithField("method", "updateChatGroup").WithField("incident_id", c.Param("id"))
	if !h.bind(c, log, &input) {
		return
	}
	channelID := uuid.MustParse(input.ChannelID)

	incident, err := h.services.Incidents.UpdateChatGroup(c.Request.Context(), c.Param("id"), channelID)
	if err != nil {
		respondError(c, log, err, "Failed to update chat group in service")
		return
	}
	if incident == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Replace incident vehicles
// @Description Records the assignment history and refreshes the responders group on a best effort basis.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param vehicles body UpdateVehiclesRequest true "Vehicles"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or vehicle busy"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident or vehicle not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/vehicles [put]
func (h *Handler) updateIncidentVehicles(c *gin.Context) {
	var input UpdateVehiclesRequest
	log := h.logger.WithField("method", "updateIncidentVehicles").WithField("incident_id", c.Param("id"))
	if !h.bind(c, log, &input) {
		return
	}

	incident, err := h.services.Incidents.UpdateVehicleHistory(c.Request.Context(), c.Param("id"), DTOsToAssignedVehicles(input.Vehicles))
	if err != nil {
		respondError(c, log, err, "Failed to update incident vehicles in service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Create or update responders group
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "No vehicles or commander is not on a vehicle"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/responders-group [post]
func (h *Handler) respondersGroup(c *gin.Context) {
	log := h.logger.WithField("method", "respondersGroup").WithField("incident_id", c.Param("id"))

	incident, err := h.services.Incidents.CreateOrUpdateRespondersGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, log, err, "Failed to update responders group in service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Close an incident
// @Description Releases vehicles and closes linked channels. Closing a closed incident returns it unchanged.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/close [put]
func (h *Handler) closeIncident(c *gin.Context) {
	log := h.logger.WithField("method", "closeIncident").WithField("incident_id", c.Param("id"))

	incident, err := h.services.Incidents.CloseIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, log, err, "Failed to close incident in service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get a list of incidents
// @Description List incidents filtered by caller, commander and state, or a single incident by id.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param caller query string false "Caller"
// @Param commander query string false "Commander"
// @Param state query string false "Incident state"
// @Param incidentId query string false "Incident ID"
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No incidents found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	if id := c.Query("incidentId"); id != "" {
		incident, err := h.services.Incidents.GetIncident(c.Request.Context(), id)
		if err != nil {
			respondError(c, log.WithField("incident_id", id), err, "Failed to get incident from service")
			return
		}
		c.JSON(http.StatusOK, ModelsToIncidentResponses([]*models.Incident{incident}))
		return
	}

	filter := models.IncidentFilter{
		Caller:    c.Query("caller"),
		Commander: c.Query("commander"),
		State:     models.IncidentState(c.Query("state")),
	}
	incidents, err := h.services.Incidents.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, log, err, "Failed to list incidents from service")
		return
	}
	if len(incidents) == 0 {
		log.WithFields(logrus.Fields{"caller": filter.Caller, "commander": filter.Commander}).Debug("No incidents found")
		c.JSON(http.StatusNotFound, gin.H{"error": "no incidents found"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}
