package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/internal/services"
)

// AuthHandler handles admin login and token refresh.
type AuthHandler struct {
	userSvc *services.UserService
	logger  *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userSvc *services.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, logger: logger}
}

// Login authenticates an admin by email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		// Credential failures come back as validation errors; report
		// them as 401 rather than 400.
		if models.IsValidation(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.userSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if models.IsValidation(err) || models.IsNotFound(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
