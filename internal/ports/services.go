package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/todolist/core/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// ToDoService interface for to-do item CRUD operations
type ToDoService interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*entities.ToDoItem, error)
	Get(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ToDoItem, error)
	Update(ctx context.Context, id int, userID uuid.UUID, req UpdateItemRequest) (*entities.ToDoItem, error)
	Delete(ctx context.Context, id int, userID uuid.UUID) error
	DeleteMany(ctx context.Context, ids []int, userID uuid.UUID) (int, error)
	Reorder(ctx context.Context, orderedIDs []int, userID uuid.UUID) error
	ToggleStar(ctx context.Context, id int, userID uuid.UUID) (bool, error)
	MarkComplete(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error)
	AuditTrail(ctx context.Context, id int, userID uuid.UUID) ([]*entities.AuditLog, error)
}

// CategoryService interface for category operations
type CategoryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*entities.Category, error)
	Get(ctx context.Context, id int, userID uuid.UUID) (*entities.Category, error)
	Create(ctx context.Context, userID uuid.UUID, req CategoryRequest) (*entities.Category, error)
	Update(ctx context.Context, id int, userID uuid.UUID, req CategoryRequest) error
	Delete(ctx context.Context, id int, userID uuid.UUID) error
	ItemCount(ctx context.Context, id int, userID uuid.UUID) (int, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=256"`
	FullName        string `json:"full_name" validate:"required,min=2,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type UpdateProfileRequest struct {
	Email           *string `json:"email" validate:"omitempty,email,max=256"`
	FullName        *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=8,max=128"`
}

// Item related types
type CreateItemRequest struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Status      entities.Status    `json:"status"`
	Priority    entities.Priority  `json:"priority"`
	DueDate     *time.Time         `json:"due_date"`
	CategoryID  *int               `json:"category_id"`
}

type UpdateItemRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Status      *entities.Status   `json:"status"`
	Priority    *entities.Priority `json:"priority"`
	DueDate     *time.Time         `json:"due_date"`
	CategoryID  *int               `json:"category_id"`
}

// Category related types
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

// FilterCriteria is built per request and discarded after producing a
// result. Nil fields mean "no constraint".
type FilterCriteria struct {
	Status       *entities.Status
	Priority     *entities.Priority
	SearchText   *string
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	IsCompleted  *bool
	DaysUntilDue *int
	CategoryID   *int
	SortBy       string
	SortOrder    string
}

// Statistics aggregates counts over one user's item list.
type Statistics struct {
	TotalItems          int        `json:"total_items"`
	CompletedItems      int        `json:"completed_items"`
	PendingItems        int        `json:"pending_items"`
	OverdueItems        int        `json:"overdue_items"`
	HighPriorityItems   int        `json:"high_priority_items"`
	DueSoonItems        int        `json:"due_soon_items"`
	CompletionRate      float64    `json:"completion_rate"`
	EarliestCreatedDate *time.Time `json:"earliest_created_date"`
	LatestCreatedDate   *time.Time `json:"latest_created_date"`
}
