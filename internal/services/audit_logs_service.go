package services

import (
	"context"
	"log"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type AuditLogService interface {
	// Record never fails the caller: audit writes are best-effort.
	Record(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, action, entity string, entityID, detail *string)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogService struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditLogService(auditRepo repositories.AuditLogRepository) AuditLogService {
	return &auditLogService{auditRepo: auditRepo}
}

func (s *auditLogService) Record(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, action, entity string, entityID, detail *string) {
	entry := &models.AuditLog{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		log.Printf("WARN: failed to write audit log (%s %s): %v", action, entity, err)
	}
}

func (s *auditLogService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	return s.auditRepo.List(ctx, tenantID, limit, offset)
}
