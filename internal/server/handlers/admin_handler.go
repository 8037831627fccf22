package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

// Overview returns the admin counters.
func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.views.AdminOverview(c.Request.Context())
	if err != nil {
		h.logger.Warn("overview interrupted", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "overview interrupted")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ListUsers returns every account without passwords.
func (h *Handler) ListUsers(c *gin.Context) {
	users := h.views.Records().FetchUsers(c.Request.Context())
	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, users)
}

// AddOwner creates an owner with the next free id.
func (h *Handler) AddOwner(c *gin.Context) {
	var owner models.Owner
	if err := c.ShouldBindJSON(&owner); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.commands.AddOwnerWithID(c.Request.Context(), owner))
}

// AddRFIDCattle registers a tagged animal without owner.
func (h *Handler) AddRFIDCattle(c *gin.Context) {
	var cattle models.Cattle
	if err := c.ShouldBindJSON(&cattle); err != nil || cattle.RFID == "" {
		respondError(c, http.StatusBadRequest, "rfid is required")
		return
	}
	if cattle.HealthStatus == "" {
		cattle.HealthStatus = models.HealthHealthy
	}
	c.JSON(http.StatusOK, h.commands.AddRFIDCattle(c.Request.Context(), cattle))
}

// AddUser creates an account of any role.
func (h *Handler) AddUser(c *gin.Context) {
	var user models.NewUser
	if err := c.ShouldBindJSON(&user); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.commands.AddUser(c.Request.Context(), user))
}

// UpdateUser applies a partial update to an account.
func (h *Handler) UpdateUser(c *gin.Context) {
	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.commands.UpdateUser(c.Request.Context(), c.Param("id"), update))
}

// DeactivateUser marks an account inactive.
func (h *Handler) DeactivateUser(c *gin.Context) {
	c.JSON(http.StatusOK, h.commands.DeactivateUser(c.Request.Context(), c.Param("id")))
}
