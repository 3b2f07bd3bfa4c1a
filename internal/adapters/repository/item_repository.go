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

const itemColumns = `id, user_id, title, description, status, priority, due_date,
		sort_order, is_starred, category_id, created_at, updated_at`

// ItemRepositoryImpl implements the ItemRepository interface
type ItemRepositoryImpl struct {
	db *sqlx.DB
}

// NewItemRepository creates a new to-do item repository
func NewItemRepository(db *sqlx.DB) ports.ItemRepository {
	return &ItemRepositoryImpl{db: db}
}

func (r *ItemRepositoryImpl) Create(ctx context.Context, item *entities.ToDoItem) error {
	query := `
		INSERT INTO todo_items (user_id, title, description, status, priority, due_date,
			sort_order, is_starred, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.Title, item.Description, item.Status, item.Priority,
		item.DueDate, item.Order, item.IsStarred, item.CategoryID,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

func (r *ItemRepositoryImpl) GetByID(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM todo_items
		WHERE id = $1 AND user_id = $2`, itemColumns)

	var item entities.ToDoItem
	err := r.db.GetContext(ctx, &item, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}

	return &item, nil
}

func (r *ItemRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ToDoItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM todo_items
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, itemColumns)

	items := []*entities.ToDoItem{}
	err := r.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}

func (r *ItemRepositoryImpl) Update(ctx context.Context, item *entities.ToDoItem) error {
	query := `
		UPDATE todo_items
		SET title = $3, description = $4, status = $5, priority = $6, due_date = $7,
			sort_order = $8, is_starred = $9, category_id = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.UserID, item.Title, item.Description, item.Status, item.Priority,
		item.DueDate, item.Order, item.IsStarred, item.CategoryID,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrItemNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}

	return nil
}

func (r *ItemRepositoryImpl) Delete(ctx context.Context, id int, userID uuid.UUID) error {
	query := `DELETE FROM todo_items WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if rows == 0 {
		return entities.ErrItemNotFound
	}

	return nil
}

func (r *ItemRepositoryImpl) DeleteMany(ctx context.Context, ids []int, userID uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM todo_items WHERE id IN (?) AND user_id = ?`, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}
	query = r.db.Rebind(query)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}

	return int(rows), nil
}

// SetOrder writes consecutive sort positions following the order of the
// given IDs. IDs not owned by the user are skipped by the WHERE clause.
func (r *ItemRepositoryImpl) SetOrder(ctx context.Context, orderedIDs []int, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set order: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE todo_items
		SET sort_order = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`

	for position, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, query, id, userID, position+1); err != nil {
			return fmt.Errorf("set order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	return nil
}

func (r *ItemRepositoryImpl) ToggleStar(ctx context.Context, id int, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE todo_items
		SET is_starred = NOT is_starred, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING is_starred`

	var starred bool
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&starred)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, entities.ErrItemNotFound
		}
		return false, fmt.Errorf("toggle star: %w", err)
	}

	return starred, nil
}

func (r *ItemRepositoryImpl) MaxOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM todo_items WHERE user_id = $1`

	var max int
	err := r.db.GetContext(ctx, &max, query, userID)
	if err != nil {
		return 0, fmt.Errorf("max order: %w", err)
	}

	return max, nil
}

// ClearCategory detaches every item from a category. It runs inside the
// caller's transaction so the detach and the category delete commit
// together.
func (r *ItemRepositoryImpl) ClearCategory(ctx context.Context, tx *sqlx.Tx, categoryID int, userID uuid.UUID) error {
	query := `
		UPDATE todo_items
		SET category_id = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE category_id = $1 AND user_id = $2`

	if _, err := tx.ExecContext(ctx, query, categoryID, userID); err != nil {
		return fmt.Errorf("clear category: %w", err)
	}

	return nil
}

func (r *ItemRepositoryImpl) CountByCategory(ctx context.Context, categoryID int, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM todo_items WHERE category_id = $1 AND user_id = $2`

	var count int
	err := r.db.GetContext(ctx, &count, query, categoryID, userID)
	if err != nil {
		return 0, fmt.Errorf("count by category: %w", err)
	}

	return count, nil
}
