package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_response_system/internal/models"
)

// RegisterRoutes регистрирует все маршруты API. Если заданы API-ключи,
// всё, кроме health-check, входа, регистрации и сокета, требует ключ.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Открытые маршруты
	api.GET("/system/health", h.healthCheck)
	api.POST("/users", h.register)
	api.POST("/login", h.login)
	api.GET("/ws", h.serveWS)

	protected := api.Group("")
	if len(h.cfg.APIKeys) > 0 {
		protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	}

	protected.POST("/logout", h.logout)

	incidents := protected.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.POST("/new", h.newIncident)
		incidents.PUT("/update", h.updateIncident)
		incidents.GET("/:username/active", h.getActiveIncident)
		incidents.PUT("/:id/chat-group", h.updateChatGroup)
		incidents.PUT("/:id/vehicles", h.updateIncidentVehicles)
		incidents.POST("/:id/responders-group", h.respondersGroup)
		incidents.PUT("/:id/close", h.closeIncident)
	}

	h.registerVehicleRoutes(protected.Group("/cars"), models.VehicleCar)
	h.registerVehicleRoutes(protected.Group("/trucks"), models.VehicleTruck)

	personnel := protected.Group("/personnel")
	{
		personnel.GET("", h.listPersonnel)
		personnel.PUT("/vehicles", h.selectVehicle)
		personnel.PUT("/vehicles/release", h.releaseVehicle)
		personnel.PUT("/cities", h.assignPersonnelCity)
	}

	cities := protected.Group("/cities")
	{
		cities.POST("", h.createCity)
		cities.GET("", h.listCities)
		cities.DELETE("/:name", h.deleteCity)
		cities.GET("/assignments/:cityName", h.getCityAssignments)
		cities.PUT("/assignments/:cityName", h.assignToCity)
		cities.PUT("/unassign", h.unassignFromCity)
	}
}

func (h *Handler) registerVehicleRoutes(group *gin.RouterGroup, vehicleType models.VehicleType) {
	group.POST("", h.createVehicle(vehicleType))
	group.GET("", h.listVehicles(vehicleType))
	group.GET("/availablewithresponder", h.listAvailableWithResponder(vehicleType))
	group.DELETE("/:name", h.deleteVehicle(vehicleType))
}
