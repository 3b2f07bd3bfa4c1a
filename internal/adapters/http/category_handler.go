package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/todolist/core/internal/application/services"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	categoryService *services.CategoryService
	validator       *services.ValidationService
	logger          *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *services.CategoryService, validator *services.ValidationService, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator,
		logger:          logger,
	}
}

// List handles listing the user's categories
func (h *CategoryHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)

	categories, err := h.categoryService.List(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("List categories failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve categories")
	}

	return c.JSON(http.StatusOK, categories)
}

// Get handles fetching one category together with its item count
func (h *CategoryHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	category, err := h.categoryService.Get(c.Request().Context(), id, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	count, err := h.categoryService.ItemCount(c.Request().Context(), id, userID)
	if err != nil {
		h.logger.Errorw("Category item count failed", "error", err, "category_id", id, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count items")
	}

	return c.JSON(http.StatusOK, CategoryResponse{Category: category, ItemCount: count})
}

// Create handles category creation
func (h *CategoryHandler) Create(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if result := h.validator.ValidateCategory(req.Name, req.Description, req.Color); !result.IsValid {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Success: false, Errors: result.Errors})
	}

	category, err := h.categoryService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return h.categoryError(c, err, userID)
	}

	return c.JSON(http.StatusCreated, category)
}

// Update handles category modification
func (h *CategoryHandler) Update(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	var req ports.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if result := h.validator.ValidateCategory(req.Name, req.Description, req.Color); !result.IsValid {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Success: false, Errors: result.Errors})
	}

	if err := h.categoryService.Update(c.Request().Context(), id, userID, req); err != nil {
		return h.categoryError(c, err, userID)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Category updated"})
}

// Delete handles category deletion; items keep existing without a category
func (h *CategoryHandler) Delete(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	if err := h.categoryService.Delete(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, entities.ErrCategoryNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		}
		h.logger.Errorw("Delete category failed", "error", err, "category_id", id, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) categoryError(c echo.Context, err error, userID interface{}) error {
	switch {
	case errors.Is(err, entities.ErrCategoryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	case errors.Is(err, entities.ErrCategoryNameTaken):
		return echo.NewHTTPError(http.StatusConflict, "A category with this name already exists")
	}
	h.logger.Errorw("Category operation failed", "error", err, "user_id", userID)
	return echo.NewHTTPError(http.StatusInternalServerError, "Operation failed")
}

// CategoryResponse carries one category with its item count
type CategoryResponse struct {
	Category  *entities.Category `json:"category"`
	ItemCount int                `json:"item_count"`
}

func categoryIDParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}
	return id, nil
}
