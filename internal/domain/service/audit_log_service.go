package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/domain/repository"
)

// AuditLogService records security events to the audit_log table. Recording is
// best-effort: a storage failure is logged and dropped rather than failing the
// request that produced the event.
type AuditLogService struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

func NewAuditLogService(repo repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{repo: repo, logger: logger}
}

func (s *AuditLogService) RecordEvent(ctx context.Context, customerID *uuid.UUID, email, action string, status models.AuditStatus, details map[string]interface{}, client models.ClientInfo) {
	entry := &models.AuditLogEntry{
		CustomerID: customerID,
		Email:      email,
		Action:     action,
		Status:     status,
		Details:    details,
		IPAddress:  client.IPAddress,
		UserAgent:  client.UserAgent,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record audit event",
			zap.Error(err),
			zap.String("action", action),
			zap.String("email", email))
	}
}

var _ AuditRecorder = (*AuditLogService)(nil)
