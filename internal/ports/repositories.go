package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/todolist/core/internal/domain/entities"
)

// TxRunner runs a function inside one database transaction, rolling back
// when the function returns an error.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository defines the interface for to-do item data operations.
// Every operation scopes by the owning user; no call returns or mutates
// another user's items.
type ItemRepository interface {
	Create(ctx context.Context, item *entities.ToDoItem) error
	GetByID(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ToDoItem, error)
	Update(ctx context.Context, item *entities.ToDoItem) error
	Delete(ctx context.Context, id int, userID uuid.UUID) error
	DeleteMany(ctx context.Context, ids []int, userID uuid.UUID) (int, error)
	SetOrder(ctx context.Context, orderedIDs []int, userID uuid.UUID) error
	ToggleStar(ctx context.Context, id int, userID uuid.UUID) (bool, error)
	MaxOrder(ctx context.Context, userID uuid.UUID) (int, error)
	ClearCategory(ctx context.Context, tx *sqlx.Tx, categoryID int, userID uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID int, userID uuid.UUID) (int, error)
}

// CategoryRepository defines the interface for category data operations.
// Delete is tx-scoped: it always runs alongside the item detach that
// precedes it.
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id int, userID uuid.UUID) (*entities.Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int, userID uuid.UUID) error
	NameExists(ctx context.Context, userID uuid.UUID, name string, excludeID *int) (bool, error)
}

// AuditRepository defines the interface for audit log operations.
// Entries are append-only; nothing updates or deletes them directly.
type AuditRepository interface {
	Append(ctx context.Context, log *entities.AuditLog) error
	ListForItem(ctx context.Context, itemID int, userID uuid.UUID) ([]*entities.AuditLog, error)
}

// AuthRepository defines the interface for refresh token operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) error
}

// RefreshToken is a stored, hashed refresh token
type RefreshToken struct {
	ID        int        `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// IsExpired reports whether the token has passed its expiry time
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked reports whether the token has been revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}
