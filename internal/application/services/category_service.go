package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// CategoryService handles category CRUD. Category names are unique per
// user, compared case-insensitively.
type CategoryService struct {
	categoryRepo ports.CategoryRepository
	itemRepo     ports.ItemRepository
	db           ports.TxRunner
	logger       *logger.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, itemRepo ports.ItemRepository, db ports.TxRunner, logger *logger.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		db:           db,
		logger:       logger,
	}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]*entities.Category, error) {
	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Get retrieves one category owned by the user
func (s *CategoryService) Get(ctx context.Context, id int, userID uuid.UUID) (*entities.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	return category, nil
}

// Create inserts a new category. Missing colors default to the standard
// category color.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req ports.CategoryRequest) (*entities.Category, error) {
	taken, err := s.categoryRepo.NameExists(ctx, userID, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, entities.ErrCategoryNameTaken
	}

	color := entities.DefaultCategoryColor
	if req.Color != nil && *req.Color != "" {
		color = *req.Color
	}

	category := &entities.Category{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       color,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Infow("Category created", "category_id", category.ID, "user_id", userID, "name", category.Name)

	return category, nil
}

// Update modifies an existing category. The new name must not collide
// with another category of the same user.
func (s *CategoryService) Update(ctx context.Context, id int, userID uuid.UUID, req ports.CategoryRequest) error {
	category, err := s.categoryRepo.GetByID(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("category not found: %w", err)
	}

	taken, err := s.categoryRepo.NameExists(ctx, userID, req.Name, &id)
	if err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return entities.ErrCategoryNameTaken
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.Color != nil && *req.Color != "" {
		category.Color = *req.Color
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.Infow("Category updated", "category_id", id, "user_id", userID)

	return nil
}

// Delete removes a category. Items referencing it are detached, not
// deleted; both steps run in one transaction.
func (s *CategoryService) Delete(ctx context.Context, id int, userID uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id, userID); err != nil {
		return fmt.Errorf("category not found: %w", err)
	}

	err := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.itemRepo.ClearCategory(ctx, tx, id, userID); err != nil {
			return fmt.Errorf("failed to detach items: %w", err)
		}

		if err := s.categoryRepo.Delete(ctx, tx, id, userID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Infow("Category deleted", "category_id", id, "user_id", userID)

	return nil
}

// ItemCount returns how many of the user's items belong to the category.
func (s *CategoryService) ItemCount(ctx context.Context, id int, userID uuid.UUID) (int, error) {
	if _, err := s.categoryRepo.GetByID(ctx, id, userID); err != nil {
		return 0, fmt.Errorf("category not found: %w", err)
	}

	count, err := s.itemRepo.CountByCategory(ctx, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return count, nil
}
