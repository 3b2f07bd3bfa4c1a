package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todolist/core/internal/application/services"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// ToDoHandler handles to-do item requests
type ToDoHandler struct {
	todoService   *services.ToDoService
	filterService *services.FilterService
	exportService *services.ExportService
	validator     *services.ValidationService
	logger        *logger.Logger
}

// NewToDoHandler creates a new to-do handler
func NewToDoHandler(todoService *services.ToDoService, filterService *services.FilterService, exportService *services.ExportService, validator *services.ValidationService, logger *logger.Logger) *ToDoHandler {
	return &ToDoHandler{
		todoService:   todoService,
		filterService: filterService,
		exportService: exportService,
		validator:     validator,
		logger:        logger,
	}
}

// ListResponse carries the filtered items together with aggregate counts
// over the user's full list.
type ListResponse struct {
	Items          []*entities.ToDoItem      `json:"items"`
	Total          int                       `json:"total"`
	StatusCounts   map[entities.Status]int   `json:"status_counts"`
	PriorityCounts map[entities.Priority]int `json:"priority_counts"`
	OverdueCount   int                       `json:"overdue_count"`
	DueSoonCount   int                       `json:"due_soon_count"`
}

// List handles filtered, sorted listing of the user's items. The counts
// in the response are computed over the unfiltered list.
func (h *ToDoHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)

	criteria, err := parseFilterCriteria(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items, err := h.todoService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("List items failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve items")
	}

	filtered := h.filterService.Filter(items, criteria)

	response := ListResponse{
		Items:          filtered,
		Total:          len(filtered),
		StatusCounts:   h.filterService.CountByStatus(items),
		PriorityCounts: h.filterService.CountByPriority(items),
		OverdueCount:   len(h.filterService.OverdueItems(items)),
		DueSoonCount:   len(h.filterService.DueSoonItems(items, services.DefaultDueSoonDays)),
	}

	return c.JSON(http.StatusOK, response)
}

// Create handles item creation
func (h *ToDoHandler) Create(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result := h.validator.ValidateToDoItem(req.Title, req.Description, req.DueDate)
	if !result.IsValid {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Success: false, Errors: result.Errors})
	}

	item, err := h.todoService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return h.itemError(c, err, userID)
	}

	return c.JSON(http.StatusCreated, ItemResponse{Item: item, Warnings: result.Warnings()})
}

// Get handles fetching one item
func (h *ToDoHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	item, err := h.todoService.Get(c.Request().Context(), id, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}

	return c.JSON(http.StatusOK, item)
}

// Update handles partial item updates
func (h *ToDoHandler) Update(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	var req ports.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result := h.validator.ValidateItemUpdate(req.Title, req.Description, req.DueDate)
	if !result.IsValid {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Success: false, Errors: result.Errors})
	}
	warnings := result.Warnings()

	item, err := h.todoService.Update(c.Request().Context(), id, userID, req)
	if err != nil {
		return h.itemError(c, err, userID)
	}

	return c.JSON(http.StatusOK, ItemResponse{Item: item, Warnings: warnings})
}

// Delete handles item deletion
func (h *ToDoHandler) Delete(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	if err := h.todoService.Delete(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, entities.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		h.logger.Errorw("Delete item failed", "error", err, "item_id", id, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete item")
	}

	return c.NoContent(http.StatusNoContent)
}

// BulkDelete handles deleting several items at once
func (h *ToDoHandler) BulkDelete(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	count, err := h.todoService.DeleteMany(c.Request().Context(), req.IDs, userID)
	if err != nil {
		h.logger.Errorw("Bulk delete failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete items")
	}

	return c.JSON(http.StatusOK, BulkDeleteResponse{DeletedCount: count})
}

// Reorder handles assigning manual sort positions
func (h *ToDoHandler) Reorder(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.todoService.Reorder(c.Request().Context(), req.OrderedIDs, userID); err != nil {
		h.logger.Errorw("Reorder failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reorder items")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Items reordered"})
}

// ToggleStar handles flipping an item's starred flag
func (h *ToDoHandler) ToggleStar(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	starred, err := h.todoService.ToggleStar(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, entities.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		h.logger.Errorw("Toggle star failed", "error", err, "item_id", id, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle star")
	}

	return c.JSON(http.StatusOK, map[string]bool{"is_starred": starred})
}

// Complete handles the quick action marking an item completed
func (h *ToDoHandler) Complete(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	item, err := h.todoService.MarkComplete(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, entities.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		h.logger.Errorw("Complete item failed", "error", err, "item_id", id, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to complete item")
	}

	return c.JSON(http.StatusOK, item)
}

// Export handles CSV export of the user's full list as an attachment
func (h *ToDoHandler) Export(c echo.Context) error {
	userID := getUserIDFromContext(c)

	items, err := h.todoService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Export failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export items")
	}

	content := h.exportService.ExportCSV(items)
	fileName := h.exportService.ExportFileName(time.Now())

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK, "text/csv", []byte(content))
}

// Statistics handles the aggregate statistics endpoint
func (h *ToDoHandler) Statistics(c echo.Context) error {
	userID := getUserIDFromContext(c)

	items, err := h.todoService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Statistics failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute statistics")
	}

	return c.JSON(http.StatusOK, h.exportService.Statistics(items))
}

// DailyStats handles per-status counts plus items created per day over
// the last 30 days.
func (h *ToDoHandler) DailyStats(c echo.Context) error {
	userID := getUserIDFromContext(c)

	items, err := h.todoService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Daily stats failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute statistics")
	}

	cutoff := entities.DateOnly(time.Now()).AddDate(0, 0, -29)
	createdPerDay := map[string]int{}
	for _, item := range items {
		day := entities.DateOnly(item.CreatedAt)
		if day.Before(cutoff) {
			continue
		}
		createdPerDay[day.Format("2006-01-02")]++
	}

	return c.JSON(http.StatusOK, DailyStatsResponse{
		StatusCounts:  h.filterService.CountByStatus(items),
		CreatedPerDay: createdPerDay,
	})
}

// Events handles the calendar feed of dated items
func (h *ToDoHandler) Events(c echo.Context) error {
	userID := getUserIDFromContext(c)

	items, err := h.todoService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Events failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load events")
	}

	events := []CalendarEvent{}
	for _, item := range items {
		if item.DueDate == nil {
			continue
		}
		events = append(events, CalendarEvent{
			ID:     item.ID,
			Title:  item.Title,
			Start:  item.DueDate.Format("2006-01-02"),
			AllDay: true,
		})
	}

	return c.JSON(http.StatusOK, events)
}

// AuditTrail handles the audit history of one item, newest first
func (h *ToDoHandler) AuditTrail(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	logs, err := h.todoService.AuditTrail(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, entities.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		h.logger.Errorw("Audit trail failed", "error", err, "item_id", id, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load audit trail")
	}

	return c.JSON(http.StatusOK, logs)
}

func (h *ToDoHandler) itemError(c echo.Context, err error, userID interface{}) error {
	switch {
	case errors.Is(err, entities.ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	case errors.Is(err, entities.ErrCategoryNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, "Category not found")
	case errors.Is(err, entities.ErrInvalidStatus), errors.Is(err, entities.ErrInvalidPriority):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.logger.Errorw("Item operation failed", "error", err, "user_id", userID)
	return echo.NewHTTPError(http.StatusInternalServerError, "Operation failed")
}

func itemIDParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}
	return id, nil
}

// parseFilterCriteria builds filter criteria from query parameters.
// Dates use the 2006-01-02 layout.
func parseFilterCriteria(c echo.Context) (ports.FilterCriteria, error) {
	criteria := ports.FilterCriteria{
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}

	if v := c.QueryParam("status"); v != "" {
		status := entities.Status(strings.ToLower(v))
		if !status.IsValid() {
			return criteria, fmt.Errorf("invalid status %q", v)
		}
		criteria.Status = &status
	}

	if v := c.QueryParam("priority"); v != "" {
		priority := entities.Priority(strings.ToLower(v))
		if !priority.IsValid() {
			return criteria, fmt.Errorf("invalid priority %q", v)
		}
		criteria.Priority = &priority
	}

	if v := c.QueryParam("search"); v != "" {
		criteria.SearchText = &v
	}

	if v := c.QueryParam("due_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return criteria, fmt.Errorf("invalid due_from date %q", v)
		}
		criteria.DueDateFrom = &t
	}

	if v := c.QueryParam("due_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return criteria, fmt.Errorf("invalid due_to date %q", v)
		}
		criteria.DueDateTo = &t
	}

	if v := c.QueryParam("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, fmt.Errorf("invalid completed flag %q", v)
		}
		criteria.IsCompleted = &completed
	}

	if v := c.QueryParam("days_until_due"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return criteria, fmt.Errorf("invalid days_until_due %q", v)
		}
		criteria.DaysUntilDue = &days
	}

	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return criteria, fmt.Errorf("invalid category_id %q", v)
		}
		criteria.CategoryID = &id
	}

	return criteria, nil
}

// Request/Response types
type BulkDeleteRequest struct {
	IDs []int `json:"ids" validate:"required"`
}

type BulkDeleteResponse struct {
	DeletedCount int `json:"deleted_count"`
}

type ReorderRequest struct {
	OrderedIDs []int `json:"ordered_ids" validate:"required"`
}

type ItemResponse struct {
	Item     *entities.ToDoItem         `json:"item"`
	Warnings []services.ValidationError `json:"warnings,omitempty"`
}

type DailyStatsResponse struct {
	StatusCounts  map[entities.Status]int `json:"status_counts"`
	CreatedPerDay map[string]int          `json:"created_per_day"`
}

type CalendarEvent struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	AllDay bool   `json:"allDay"`
}
