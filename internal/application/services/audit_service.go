package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// AuditService appends change records for to-do items. Recording is
// best-effort: a failed append is logged and swallowed so it can never
// roll back the mutation it describes.
type AuditService struct {
	auditRepo ports.AuditRepository
	logger    *logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo ports.AuditRepository, logger *logger.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record appends one audit entry. The payload is serialized to JSON; a
// payload that cannot be serialized is recorded without changes.
func (s *AuditService) Record(ctx context.Context, itemID int, userID uuid.UUID, action entities.AuditAction, payload interface{}) {
	var changes *string
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warnw("Failed to serialize audit payload", "item_id", itemID, "action", action, "error", err)
		} else {
			str := string(data)
			changes = &str
		}
	}

	log := &entities.AuditLog{
		ItemID:    itemID,
		UserID:    userID,
		Action:    action,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Append(ctx, log); err != nil {
		s.logger.Warnw("Failed to append audit entry", "item_id", itemID, "action", action, "error", err)
	}
}

// LogsForItem returns the audit trail for one item, newest first.
func (s *AuditService) LogsForItem(ctx context.Context, itemID int, userID uuid.UUID) ([]*entities.AuditLog, error) {
	logs, err := s.auditRepo.ListForItem(ctx, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}

	return logs, nil
}
