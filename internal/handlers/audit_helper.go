package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rahhaltours/admin-backend/internal/middleware"
	"github.com/rahhaltours/admin-backend/internal/services"
)

// recordAudit writes a best-effort audit entry for an admin mutation.
// It never fails the surrounding request.
func recordAudit(c *gin.Context, auditSvc *services.AuditService, action, entity, entityID string) {
	if auditSvc == nil {
		return
	}
	adminID := ""
	if userCtx, ok := middleware.GetUserContext(c); ok {
		adminID = userCtx.UserID
	}
	auditSvc.Record(
		c.Request.Context(),
		action,
		entity,
		entityID,
		adminID,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
}
