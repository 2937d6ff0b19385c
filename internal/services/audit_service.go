package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/internal/utils"
)

// AuditService records admin mutations. Writes are best effort: a
// failed audit write is logged and swallowed so it never fails the
// request it describes.
type AuditService struct {
	store  database.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(store database.Store, logger *logrus.Logger) *AuditService {
	return &AuditService{store: store, logger: logger, now: time.Now}
}

// Record stores one audit entry with parsed device info.
func (s *AuditService) Record(ctx context.Context, action, entity, entityID, adminID, ip, rawUA string) {
	device := utils.ParseUserAgent(rawUA)
	entry := &models.AuditLog{
		ID:         uuid.New().String(),
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		AdminID:    adminID,
		IP:         ip,
		DeviceType: device.DeviceType,
		OS:         device.OS,
		Browser:    device.Browser,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.store.Insert(ctx, database.ColAuditLogs, entry.ID, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"entity": entity,
		}).Warn("Failed to write audit log")
	}
}

// List fetches all audit entries.
func (s *AuditService) List(ctx context.Context) ([]*models.AuditLog, error) {
	records, err := s.store.List(ctx, database.ColAuditLogs)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.AuditLog](records)
}
