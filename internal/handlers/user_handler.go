package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/internal/services"
)

// UserHandler handles user account operations.
type UserHandler struct {
	userSvc  *services.UserService
	auditSvc *services.AuditService
	logger   *logrus.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc *services.UserService, auditSvc *services.AuditService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, auditSvc: auditSvc, logger: logger}
}

// ListUsers returns all users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser returns one user.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser creates a user account.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "create", "user", user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser applies a profile update.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.userSvc.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "update", "user", id)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser purges the user's bookings and removes the account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	result, err := h.userSvc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "delete", "user", id)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted", "purge": result})
}
