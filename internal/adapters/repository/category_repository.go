package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// CategoryRepositoryImpl implements the CategoryRepository interface
type CategoryRepositoryImpl struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sqlx.DB) ports.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entities.Category) error {
	query := `
		INSERT INTO categories (user_id, name, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		category.UserID, category.Name, category.Description, category.Color,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id int, userID uuid.UUID) (*entities.Category, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2`

	var category entities.Category
	err := r.db.GetContext(ctx, &category, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Category, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY LOWER(name)`

	categories := []*entities.Category{}
	err := r.db.SelectContext(ctx, &categories, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entities.Category) error {
	query := `
		UPDATE categories
		SET name = $3, description = $4, color = $5
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		category.ID, category.UserID, category.Name, category.Description, category.Color)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if rows == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, tx *sqlx.Tx, id int, userID uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	result, err := tx.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if rows == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) NameExists(ctx context.Context, userID uuid.UUID, name string, excludeID *int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND ($3::int IS NULL OR id <> $3)
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}

	return exists, nil
}
