package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// AuditRepositoryImpl implements the AuditRepository interface
type AuditRepositoryImpl struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(db *sqlx.DB) ports.AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Append(ctx context.Context, log *entities.AuditLog) error {
	query := `
		INSERT INTO audit_logs (item_id, user_id, action, changes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`

	err := r.db.QueryRowContext(ctx, query,
		log.ItemID, log.UserID, log.Action, log.Changes,
	).Scan(&log.ID, &log.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}

	return nil
}

func (r *AuditRepositoryImpl) ListForItem(ctx context.Context, itemID int, userID uuid.UUID) ([]*entities.AuditLog, error) {
	query := `
		SELECT id, item_id, user_id, action, changes, timestamp
		FROM audit_logs
		WHERE item_id = $1 AND user_id = $2
		ORDER BY timestamp DESC, id DESC`

	logs := []*entities.AuditLog{}
	err := r.db.SelectContext(ctx, &logs, query, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	return logs, nil
}
