package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// In-memory repository fakes shared by the service tests.

type fakeItemRepo struct {
	items             map[int]*entities.ToDoItem
	nextID            int
	clearedCategories []int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[int]*entities.ToDoItem{}, nextID: 1}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *entities.ToDoItem) error {
	item.ID = f.nextID
	f.nextID++
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id int, userID uuid.UUID) (*entities.ToDoItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, entities.ErrItemNotFound
	}
	found := *item
	return &found, nil
}

func (f *fakeItemRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ToDoItem, error) {
	result := make([]*entities.ToDoItem, 0)
	for _, item := range f.items {
		if item.UserID == userID {
			found := *item
			result = append(result, &found)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *entities.ToDoItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return entities.ErrItemNotFound
	}
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id int, userID uuid.UUID) error {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return entities.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) DeleteMany(ctx context.Context, ids []int, userID uuid.UUID) (int, error) {
	count := 0
	for _, id := range ids {
		if item, ok := f.items[id]; ok && item.UserID == userID {
			delete(f.items, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeItemRepo) SetOrder(ctx context.Context, orderedIDs []int, userID uuid.UUID) error {
	for position, id := range orderedIDs {
		if item, ok := f.items[id]; ok && item.UserID == userID {
			order := position + 1
			item.Order = &order
		}
	}
	return nil
}

func (f *fakeItemRepo) ToggleStar(ctx context.Context, id int, userID uuid.UUID) (bool, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return false, entities.ErrItemNotFound
	}
	item.IsStarred = !item.IsStarred
	return item.IsStarred, nil
}

func (f *fakeItemRepo) MaxOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	max := 0
	for _, item := range f.items {
		if item.UserID == userID && item.Order != nil && *item.Order > max {
			max = *item.Order
		}
	}
	return max, nil
}

func (f *fakeItemRepo) ClearCategory(ctx context.Context, tx *sqlx.Tx, categoryID int, userID uuid.UUID) error {
	f.clearedCategories = append(f.clearedCategories, categoryID)
	for _, item := range f.items {
		if item.UserID == userID && item.CategoryID != nil && *item.CategoryID == categoryID {
			item.CategoryID = nil
		}
	}
	return nil
}

func (f *fakeItemRepo) CountByCategory(ctx context.Context, categoryID int, userID uuid.UUID) (int, error) {
	count := 0
	for _, item := range f.items {
		if item.UserID == userID && item.CategoryID != nil && *item.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type fakeCategoryRepo struct {
	categories map[int]*entities.Category
	nextID     int
	deleted    []int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int]*entities.Category{}, nextID: 1}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *entities.Category) error {
	category.ID = f.nextID
	f.nextID++
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int, userID uuid.UUID) (*entities.Category, error) {
	category, ok := f.categories[id]
	if !ok || category.UserID != userID {
		return nil, entities.ErrCategoryNotFound
	}
	found := *category
	return &found, nil
}

func (f *fakeCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Category, error) {
	result := make([]*entities.Category, 0)
	for _, category := range f.categories {
		if category.UserID == userID {
			found := *category
			result = append(result, &found)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *entities.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return entities.ErrCategoryNotFound
	}
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, tx *sqlx.Tx, id int, userID uuid.UUID) error {
	category, ok := f.categories[id]
	if !ok || category.UserID != userID {
		return entities.ErrCategoryNotFound
	}
	delete(f.categories, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoryRepo) NameExists(ctx context.Context, userID uuid.UUID, name string, excludeID *int) (bool, error) {
	for _, category := range f.categories {
		if excludeID != nil && category.ID == *excludeID {
			continue
		}
		if category.UserID == userID && strings.EqualFold(category.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditRepo struct {
	logs []*entities.AuditLog
}

func (f *fakeAuditRepo) Append(ctx context.Context, log *entities.AuditLog) error {
	log.ID = len(f.logs) + 1
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeAuditRepo) ListForItem(ctx context.Context, itemID int, userID uuid.UUID) ([]*entities.AuditLog, error) {
	result := make([]*entities.AuditLog, 0)
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].ItemID == itemID && f.logs[i].UserID == userID {
			result = append(result, f.logs[i])
		}
	}
	return result, nil
}

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	f.calls++
	return fn(nil)
}

func newToDoServiceFixture() (*ToDoService, *fakeItemRepo, *fakeCategoryRepo, *fakeAuditRepo) {
	itemRepo := newFakeItemRepo()
	categoryRepo := newFakeCategoryRepo()
	auditRepo := &fakeAuditRepo{}
	audit := NewAuditService(auditRepo, logger.NewNop())
	svc := NewToDoService(itemRepo, categoryRepo, audit, logger.NewNop())
	return svc, itemRepo, categoryRepo, auditRepo
}

func TestToDoServiceCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("defaults and list-end placement", func(t *testing.T) {
		svc, _, _, auditRepo := newToDoServiceFixture()

		first, err := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "First"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Status != entities.StatusPending || first.Priority != entities.PriorityMedium {
			t.Errorf("expected pending/medium defaults, got %s/%s", first.Status, first.Priority)
		}
		if first.Order == nil || *first.Order != 1 {
			t.Errorf("expected order 1, got %v", first.Order)
		}

		second, err := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "Second"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.Order == nil || *second.Order != 2 {
			t.Errorf("expected order 2, got %v", second.Order)
		}

		if len(auditRepo.logs) != 2 {
			t.Fatalf("expected 2 audit entries, got %d", len(auditRepo.logs))
		}
		if auditRepo.logs[0].Action != entities.AuditActionCreate {
			t.Errorf("expected Create action, got %q", auditRepo.logs[0].Action)
		}
		if auditRepo.logs[0].Changes == nil {
			t.Error("expected serialized item snapshot in audit entry")
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		svc, _, _, _ := newToDoServiceFixture()

		_, err := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "x", Status: "archived"})
		if !errors.Is(err, entities.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		svc, _, _, _ := newToDoServiceFixture()

		missing := 99
		_, err := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "x", CategoryID: &missing})
		if !errors.Is(err, entities.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("another user's category rejected", func(t *testing.T) {
		svc, _, categoryRepo, _ := newToDoServiceFixture()

		other := &entities.Category{UserID: uuid.New(), Name: "Theirs", Color: entities.DefaultCategoryColor}
		categoryRepo.Create(ctx, other)

		_, err := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "x", CategoryID: &other.ID})
		if !errors.Is(err, entities.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestToDoServiceUpdate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("applies only supplied fields", func(t *testing.T) {
		svc, _, _, auditRepo := newToDoServiceFixture()

		desc := "original description"
		item, err := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "Original", Description: &desc})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		status := entities.StatusInProgress
		updated, err := svc.Update(ctx, item.ID, userID, ports.UpdateItemRequest{Status: &status})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != entities.StatusInProgress {
			t.Errorf("expected in_progress, got %s", updated.Status)
		}
		if updated.Title != "Original" || updated.Description == nil || *updated.Description != desc {
			t.Error("untouched fields changed")
		}

		last := auditRepo.logs[len(auditRepo.logs)-1]
		if last.Action != entities.AuditActionUpdate {
			t.Fatalf("expected Update action, got %q", last.Action)
		}
		if last.Changes == nil || !strings.Contains(*last.Changes, "before") || !strings.Contains(*last.Changes, "after") {
			t.Error("expected before/after snapshot in audit entry")
		}
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		svc, _, _, _ := newToDoServiceFixture()

		item, _ := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "x"})

		bad := entities.Priority("urgent")
		_, err := svc.Update(ctx, item.ID, userID, ports.UpdateItemRequest{Priority: &bad})
		if !errors.Is(err, entities.ErrInvalidPriority) {
			t.Fatalf("expected ErrInvalidPriority, got %v", err)
		}
	})

	t.Run("other user's item not found", func(t *testing.T) {
		svc, _, _, _ := newToDoServiceFixture()

		item, _ := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "x"})

		title := "stolen"
		_, err := svc.Update(ctx, item.ID, uuid.New(), ports.UpdateItemRequest{Title: &title})
		if !errors.Is(err, entities.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})
}

func TestToDoServiceDelete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, itemRepo, _, auditRepo := newToDoServiceFixture()

	item, _ := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "doomed"})

	if err := svc.Delete(ctx, item.ID, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := itemRepo.items[item.ID]; ok {
		t.Error("item still present after delete")
	}

	last := auditRepo.logs[len(auditRepo.logs)-1]
	if last.Action != entities.AuditActionDelete {
		t.Errorf("expected Delete action, got %q", last.Action)
	}
	if last.Changes == nil || !strings.Contains(*last.Changes, "doomed") {
		t.Error("expected item snapshot captured before removal")
	}
}

func TestToDoServiceDeleteMany(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, _, _, _ := newToDoServiceFixture()

	t.Run("empty id list is a no-op", func(t *testing.T) {
		count, err := svc.DeleteMany(ctx, nil, userID)
		if err != nil || count != 0 {
			t.Fatalf("expected 0, nil, got %d, %v", count, err)
		}
	})

	t.Run("counts only owned items", func(t *testing.T) {
		mine, _ := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "mine"})
		theirs, _ := svc.Create(ctx, uuid.New(), ports.CreateItemRequest{Title: "theirs"})

		count, err := svc.DeleteMany(ctx, []int{mine.ID, theirs.ID, 999}, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 deleted, got %d", count)
		}
	})
}

func TestToDoServiceMarkComplete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, _, _, _ := newToDoServiceFixture()

	item, _ := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "almost done"})

	completed, err := svc.MarkComplete(ctx, item.ID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != entities.StatusCompleted {
		t.Errorf("expected completed status, got %s", completed.Status)
	}
}

func TestToDoServiceAuditTrail(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, _, _, _ := newToDoServiceFixture()

	item, _ := svc.Create(ctx, userID, ports.CreateItemRequest{Title: "tracked"})
	svc.MarkComplete(ctx, item.ID, userID)

	t.Run("newest first", func(t *testing.T) {
		logs, err := svc.AuditTrail(ctx, item.ID, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(logs))
		}
		if logs[0].Action != entities.AuditActionUpdate || logs[1].Action != entities.AuditActionCreate {
			t.Errorf("unexpected order: %q then %q", logs[0].Action, logs[1].Action)
		}
	})

	t.Run("ownership checked", func(t *testing.T) {
		_, err := svc.AuditTrail(ctx, item.ID, uuid.New())
		if !errors.Is(err, entities.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})
}
