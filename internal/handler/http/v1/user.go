package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_response_system/internal/models"
)

// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or user already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")
	if !h.bind(c, log, &input) {
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), input.Username, input.Password, models.Role(input.Role))
	if err != nil {
		respondError(c, log.WithField("username", input.Username), err, "Failed to register user in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToUserResponse(user))
}

// @Summary Log in
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid username or password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")
	if !h.bind(c, log, &input) {
		return
	}

	user, err := h.services.Users.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, log.WithField("username", input.Username), err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Log out
// @Description Dispatchers hand their Triage incidents to the least busy online dispatcher. Commanders hand their incident to a free responder.
// @Tags Users
// @Accept json
// @Security ApiKeyAuth
// @Param user body LogoutRequest true "User and role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input LogoutRequest
	log := h.logger.WithField("method", "logout")
	if !h.bind(c, log, &input) {
		return
	}

	if err := h.services.Users.Logout(c.Request.Context(), input.Username, models.Role(input.Role)); err != nil {
		respondError(c, log.WithField("username", input.Username), err, "Logout failed")
		return
	}
	c.Status(http.StatusNoContent)
}
