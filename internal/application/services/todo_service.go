package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// ToDoService handles to-do item CRUD. Every operation scopes by the owning
// user. Mutations record an audit entry on a best-effort basis; an audit
// failure never fails the primary write.
type ToDoService struct {
	itemRepo     ports.ItemRepository
	categoryRepo ports.CategoryRepository
	audit        *AuditService
	logger       *logger.Logger
}

// NewToDoService creates a new to-do service
func NewToDoService(itemRepo ports.ItemRepository, categoryRepo ports.CategoryRepository, audit *AuditService, logger *logger.Logger) *ToDoService {
	return &ToDoService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		audit:        audit,
		logger:       logger,
	}
}

// Create inserts a new item for the user. When no manual order is given the
// item is placed at the end of the user's list.
func (s *ToDoService) Create(ctx context.Context, userID uuid.UUID, req ports.CreateItemRequest) (*entities.ToDoItem, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID, userID); err != nil {
			return nil, fmt.Errorf("category not found: %w", err)
		}
	}

	status := req.Status
	if status == "" {
		status = entities.StatusPending
	}
	if !status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	priority := req.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	maxOrder, err := s.itemRepo.MaxOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine sort order: %w", err)
	}
	order := maxOrder + 1

	item := &entities.ToDoItem{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		Order:       &order,
		CategoryID:  req.CategoryID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Infow("Item created", "item_id", item.ID, "user_id", userID, "title", item.Title)

	s.audit.Record(ctx, item.ID, userID, entities.AuditActionCreate, item)

	return item, nil
}

// Get retrieves one item owned by the user
func (s *ToDoService) Get(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}

	return item, nil
}

// ListByUser returns every item the user owns, newest first.
func (s *ToDoService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ToDoItem, error) {
	items, err := s.itemRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// Update applies the non-nil request fields to an existing item and records
// a before/after audit entry.
func (s *ToDoService) Update(ctx context.Context, id int, userID uuid.UUID, req ports.UpdateItemRequest) (*entities.ToDoItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}

	before := *item

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		item.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, entities.ErrInvalidPriority
		}
		item.Priority = *req.Priority
	}
	if req.DueDate != nil {
		item.DueDate = req.DueDate
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID, userID); err != nil {
			return nil, fmt.Errorf("category not found: %w", err)
		}
		item.CategoryID = req.CategoryID
	}

	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Infow("Item updated", "item_id", item.ID, "user_id", userID)

	s.audit.Record(ctx, item.ID, userID, entities.AuditActionUpdate, map[string]interface{}{
		"before": before,
		"after":  item,
	})

	return item, nil
}

// Delete removes one item owned by the user. The item's snapshot is
// audited before removal; audit entries for the item cascade away with it.
func (s *ToDoService) Delete(ctx context.Context, id int, userID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("item not found: %w", err)
	}

	s.audit.Record(ctx, item.ID, userID, entities.AuditActionDelete, item)

	if err := s.itemRepo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.Infow("Item deleted", "item_id", id, "user_id", userID)

	return nil
}

// DeleteMany removes the listed items the user owns and returns how many
// were actually deleted.
func (s *ToDoService) DeleteMany(ctx context.Context, ids []int, userID uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := s.itemRepo.DeleteMany(ctx, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}

	s.logger.Infow("Items deleted", "count", count, "user_id", userID)

	return count, nil
}

// Reorder assigns manual sort positions following the order of the given
// IDs. IDs not owned by the user are ignored.
func (s *ToDoService) Reorder(ctx context.Context, orderedIDs []int, userID uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	if err := s.itemRepo.SetOrder(ctx, orderedIDs, userID); err != nil {
		return fmt.Errorf("failed to reorder items: %w", err)
	}

	return nil
}

// ToggleStar flips the starred flag and returns the new value.
func (s *ToDoService) ToggleStar(ctx context.Context, id int, userID uuid.UUID) (bool, error) {
	starred, err := s.itemRepo.ToggleStar(ctx, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle star: %w", err)
	}

	return starred, nil
}

// MarkComplete is the quick action setting an item's status to completed.
func (s *ToDoService) MarkComplete(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error) {
	status := entities.StatusCompleted
	return s.Update(ctx, id, userID, ports.UpdateItemRequest{Status: &status})
}

// AuditTrail returns the item's audit entries, newest first. Ownership of
// the item is verified before reading the trail.
func (s *ToDoService) AuditTrail(ctx context.Context, id int, userID uuid.UUID) ([]*entities.AuditLog, error) {
	if _, err := s.itemRepo.GetByID(ctx, id, userID); err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}

	return s.audit.LogsForItem(ctx, id, userID)
}
