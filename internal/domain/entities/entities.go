package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrItemNotFound      = errors.New("to-do item not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Enums and types
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// AllStatuses lists every status in display order. Count maps must carry
// every one of these keys even when the count is zero.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities lists every priority in ascending order of urgency.
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// StatusLabels maps each status to its display label.
var StatusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
}

// PriorityLabels maps each priority to its display label.
var PriorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// priorityWeights orders priorities for sorting.
var priorityWeights = map[Priority]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
}

// AuditAction tags an audit log entry.
type AuditAction string

const (
	AuditActionCreate AuditAction = "Create"
	AuditActionUpdate AuditAction = "Update"
	AuditActionDelete AuditAction = "Delete"
)

// Notification severity levels, ordered danger > warning > info.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// User represents an account in the system. Plain record; credential and
// profile fields live side by side rather than behind an identity base type.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ToDoItem represents a single to-do entry owned by one user.
type ToDoItem struct {
	ID          int        `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Order       *int       `json:"order" db:"sort_order"`
	IsStarred   bool       `json:"is_starred" db:"is_starred"`
	CategoryID  *int       `json:"category_id" db:"category_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Category groups to-do items. Name is unique per owning user,
// compared case-insensitively at the service layer.
type Category struct {
	ID          int       `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DefaultCategoryColor is applied when no color is supplied.
const DefaultCategoryColor = "#007bff"

// AuditLog records one mutation of a to-do item. Append-only.
type AuditLog struct {
	ID        int         `json:"id" db:"id"`
	ItemID    int         `json:"item_id" db:"item_id"`
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	Action    AuditAction `json:"action" db:"action"`
	Changes   *string     `json:"changes" db:"changes"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
}

// Notification is a transient alert derived from the item list.
// Never persisted; recomputed on every read.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Item      *ToDoItem `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Business logic methods for ToDoItem

// IsCompleted reports whether the item's status is completed.
func (t *ToDoItem) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the item's due date has passed and the item
// is not completed. Comparison is by calendar date, ignoring time of day.
func (t *ToDoItem) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return DateOnly(*t.DueDate).Before(DateOnly(today))
}

// IsDueWithin reports whether the item's due date falls in
// [today, today+days], inclusive, and the item is not completed.
func (t *ToDoItem) IsDueWithin(today time.Time, days int) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	due := DateOnly(*t.DueDate)
	start := DateOnly(today)
	end := start.AddDate(0, 0, days)
	return !due.Before(start) && !due.After(end)
}

// DueDateOrMax returns the item's due date truncated to a calendar date,
// or the maximum representable date when unset. Undated items therefore
// sort last in ascending due-date order.
func (t *ToDoItem) DueDateOrMax() time.Time {
	if t.DueDate == nil {
		return MaxDate
	}
	return DateOnly(*t.DueDate)
}

// MaxDate is the sentinel due date for items without one.
var MaxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// DateOnly strips the time-of-day component from t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b. Dates are
// compared in UTC so DST transitions cannot skew the count.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// Label returns the display label for a status.
func (s Status) Label() string {
	if label, ok := StatusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// Label returns the display label for a priority.
func (p Priority) Label() string {
	if label, ok := PriorityLabels[p]; ok {
		return label
	}
	return "Unknown"
}

// Weight returns the sort weight of a priority (low < medium < high).
func (p Priority) Weight() int {
	return priorityWeights[p]
}

// Utility methods
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	default:
		return false
	}
}
