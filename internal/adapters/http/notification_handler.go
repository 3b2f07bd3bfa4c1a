package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/todolist/core/internal/application/services"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
)

// NotificationHandler serves the in-memory notification feeds. Feeds are
// computed from the user's current items on every request; nothing is
// stored.
type NotificationHandler struct {
	todoService         *services.ToDoService
	notificationService *services.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(todoService *services.ToDoService, notificationService *services.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		todoService:         todoService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// Important handles the combined top-priority feed
func (h *NotificationHandler) Important(c echo.Context) error {
	return h.respond(c, func(items []*entities.ToDoItem) []*entities.Notification {
		return h.notificationService.AllImportantNotifications(items)
	})
}

// Overdue handles the overdue feed
func (h *NotificationHandler) Overdue(c echo.Context) error {
	return h.respond(c, func(items []*entities.ToDoItem) []*entities.Notification {
		return h.notificationService.OverdueNotifications(items)
	})
}

// DueSoon handles the due-soon feed. The window defaults to 7 days and
// can be overridden with the days query parameter.
func (h *NotificationHandler) DueSoon(c echo.Context) error {
	days := services.DefaultDueSoonDays
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
		days = parsed
	}

	return h.respond(c, func(items []*entities.ToDoItem) []*entities.Notification {
		return h.notificationService.DueSoonNotifications(items, days)
	})
}

// HighPriority handles the high-priority feed
func (h *NotificationHandler) HighPriority(c echo.Context) error {
	return h.respond(c, func(items []*entities.ToDoItem) []*entities.Notification {
		return h.notificationService.HighPriorityNotifications(items)
	})
}

// InProgress handles the in-progress summary feed
func (h *NotificationHandler) InProgress(c echo.Context) error {
	return h.respond(c, func(items []*entities.ToDoItem) []*entities.Notification {
		return h.notificationService.InProgressNotifications(items)
	})
}

func (h *NotificationHandler) respond(c echo.Context, feed func([]*entities.ToDoItem) []*entities.Notification) error {
	userID := getUserIDFromContext(c)

	items, err := h.todoService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Notification feed failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load notifications")
	}

	notifications := feed(items)

	payload := make([]NotificationPayload, 0, len(notifications))
	for _, n := range notifications {
		p := NotificationPayload{
			Type:    n.Type,
			Title:   n.Title,
			Message: n.Message,
			Level:   n.Level,
		}
		if n.Item != nil {
			p.ItemID = &n.Item.ID
		}
		payload = append(payload, p)
	}

	return c.JSON(http.StatusOK, NotificationFeedResponse{
		Success:       true,
		Count:         len(payload),
		Notifications: payload,
	})
}

// Request/Response types
type NotificationPayload struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"`
	ItemID  *int   `json:"itemId,omitempty"`
}

type NotificationFeedResponse struct {
	Success       bool                  `json:"success"`
	Count         int                   `json:"count"`
	Notifications []NotificationPayload `json:"notifications"`
}
