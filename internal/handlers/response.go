package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/models"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
// Invariant violations and unclassified errors are logged and hidden
// behind a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case models.IsCapacityExceeded(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case models.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case models.IsTransient(err):
		logger.WithError(err).Warn("Store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable, please retry"})
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
