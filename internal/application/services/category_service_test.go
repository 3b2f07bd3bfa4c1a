package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

func newCategoryServiceFixture() (*CategoryService, *fakeCategoryRepo, *fakeItemRepo, *fakeTxRunner) {
	categoryRepo := newFakeCategoryRepo()
	itemRepo := newFakeItemRepo()
	tx := &fakeTxRunner{}
	svc := NewCategoryService(categoryRepo, itemRepo, tx, logger.NewNop())
	return svc, categoryRepo, itemRepo, tx
}

func TestCategoryServiceCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("missing color gets the default", func(t *testing.T) {
		svc, _, _, _ := newCategoryServiceFixture()

		category, err := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if category.Color != entities.DefaultCategoryColor {
			t.Errorf("expected default color, got %q", category.Color)
		}
	})

	t.Run("duplicate name rejected case-insensitively", func(t *testing.T) {
		svc, _, _, _ := newCategoryServiceFixture()

		if _, err := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := svc.Create(ctx, userID, ports.CategoryRequest{Name: "WORK"})
		if !errors.Is(err, entities.ErrCategoryNameTaken) {
			t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
		}
	})

	t.Run("same name allowed for another user", func(t *testing.T) {
		svc, _, _, _ := newCategoryServiceFixture()

		if _, err := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Create(ctx, uuid.New(), ports.CategoryRequest{Name: "Work"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCategoryServiceUpdate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("rename onto another category rejected", func(t *testing.T) {
		svc, _, _, _ := newCategoryServiceFixture()

		svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"})
		home, _ := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Home"})

		err := svc.Update(ctx, home.ID, userID, ports.CategoryRequest{Name: "work"})
		if !errors.Is(err, entities.ErrCategoryNameTaken) {
			t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
		}
	})

	t.Run("keeping own name allowed", func(t *testing.T) {
		svc, categoryRepo, _, _ := newCategoryServiceFixture()

		work, _ := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"})

		if err := svc.Update(ctx, work.ID, userID, ports.CategoryRequest{Name: "Work"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if categoryRepo.categories[work.ID].Name != "Work" {
			t.Error("name changed unexpectedly")
		}
	})
}

func TestCategoryServiceDelete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("detaches items and deletes in one transaction", func(t *testing.T) {
		svc, categoryRepo, itemRepo, tx := newCategoryServiceFixture()

		category, _ := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"})

		item := &entities.ToDoItem{UserID: userID, Title: "filed", Status: entities.StatusPending, Priority: entities.PriorityMedium, CategoryID: &category.ID}
		itemRepo.Create(ctx, item)

		if err := svc.Delete(ctx, category.ID, userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tx.calls != 1 {
			t.Errorf("expected 1 transaction, got %d", tx.calls)
		}
		if len(itemRepo.clearedCategories) != 1 || itemRepo.clearedCategories[0] != category.ID {
			t.Errorf("expected detach for category %d, got %v", category.ID, itemRepo.clearedCategories)
		}
		if itemRepo.items[item.ID].CategoryID != nil {
			t.Error("item still references the deleted category")
		}
		if len(categoryRepo.deleted) != 1 || categoryRepo.deleted[0] != category.ID {
			t.Errorf("expected category %d deleted, got %v", category.ID, categoryRepo.deleted)
		}
	})

	t.Run("other user's category not found", func(t *testing.T) {
		svc, _, _, tx := newCategoryServiceFixture()

		category, _ := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"})

		if err := svc.Delete(ctx, category.ID, uuid.New()); !errors.Is(err, entities.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
		if tx.calls != 0 {
			t.Errorf("expected no transaction for a failed ownership check, got %d", tx.calls)
		}
	})
}

func TestCategoryServiceItemCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, _, itemRepo, _ := newCategoryServiceFixture()

	category, _ := svc.Create(ctx, userID, ports.CategoryRequest{Name: "Work"})

	for i := 0; i < 3; i++ {
		item := &entities.ToDoItem{UserID: userID, Title: "filed", Status: entities.StatusPending, Priority: entities.PriorityMedium, CategoryID: &category.ID}
		itemRepo.Create(ctx, item)
	}

	count, err := svc.ItemCount(ctx, category.ID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 items, got %d", count)
	}
}
