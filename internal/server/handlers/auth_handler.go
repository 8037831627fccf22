package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/service/commands"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	sess, err := h.commands.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, commands.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "spreadsheet service unavailable")
		return
	}

	token, err := h.tokens.Issue(*sess)
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "unable to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": sess, "token": token})
}

// Register is the public sign-up. Admin accounts are only created by admins.
func (h *Handler) Register(c *gin.Context) {
	var req models.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserRole != models.RoleFarmer && req.UserRole != models.RoleVet {
		respondError(c, http.StatusForbidden, "only farmer and vet accounts can self-register")
		return
	}

	c.JSON(http.StatusOK, h.commands.RegisterUser(c.Request.Context(), req))
}
