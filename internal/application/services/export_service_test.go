package services

import (
	"strings"
	"testing"
	"time"

	"github.com/todolist/core/internal/domain/entities"
)

func TestExportCSV(t *testing.T) {
	svc := NewExportService()

	t.Run("empty list returns sentinel", func(t *testing.T) {
		if got := svc.ExportCSV(nil); got != EmptyExportSentinel {
			t.Fatalf("expected sentinel, got %q", got)
		}
	})

	t.Run("header and row layout", func(t *testing.T) {
		desc := "weekly groceries"
		due := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
		item := &entities.ToDoItem{
			ID:          7,
			Title:       "Buy milk",
			Description: &desc,
			Status:      entities.StatusPending,
			Priority:    entities.PriorityHigh,
			DueDate:     &due,
			CreatedAt:   time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2026, 9, 2, 9, 45, 15, 0, time.UTC),
		}

		out := svc.ExportCSV([]*entities.ToDoItem{item})
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

		if len(lines) != 2 {
			t.Fatalf("expected header plus one row, got %d lines", len(lines))
		}
		if lines[0] != "ID,Title,Description,Status,Priority,DueDate,CreatedAt,UpdatedAt" {
			t.Errorf("unexpected header: %q", lines[0])
		}
		want := "7,Buy milk,weekly groceries,Pending,High,2026-09-15,2026-09-01 08:30:00,2026-09-02 09:45:15"
		if lines[1] != want {
			t.Errorf("row mismatch:\n got %q\nwant %q", lines[1], want)
		}
	})

	t.Run("commas and quotes are escaped", func(t *testing.T) {
		item := &entities.ToDoItem{
			ID:       1,
			Title:    `Say "hello", then leave`,
			Status:   entities.StatusCompleted,
			Priority: entities.PriorityLow,
		}

		out := svc.ExportCSV([]*entities.ToDoItem{item})

		if !strings.Contains(out, `"Say ""hello"", then leave"`) {
			t.Errorf("title not escaped: %q", out)
		}
	})

	t.Run("missing optional fields stay blank", func(t *testing.T) {
		item := &entities.ToDoItem{
			ID:       2,
			Title:    "Bare",
			Status:   entities.StatusPending,
			Priority: entities.PriorityMedium,
		}

		out := svc.ExportCSV([]*entities.ToDoItem{item})
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		fields := strings.Split(lines[1], ",")

		if fields[2] != "" {
			t.Errorf("expected empty description, got %q", fields[2])
		}
		if fields[5] != "" {
			t.Errorf("expected empty due date, got %q", fields[5])
		}
	})
}

func TestExportFileName(t *testing.T) {
	svc := NewExportService()

	at := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)
	if got := svc.ExportFileName(at); got != "ToDoList_20260831_140509.csv" {
		t.Errorf("unexpected file name: %q", got)
	}
}

func TestStatistics(t *testing.T) {
	svc := NewExportService()

	t.Run("empty list yields zero value", func(t *testing.T) {
		stats := svc.Statistics(nil)
		if stats.TotalItems != 0 || stats.CompletionRate != 0 {
			t.Errorf("expected zero stats, got %+v", stats)
		}
		if stats.EarliestCreatedDate != nil || stats.LatestCreatedDate != nil {
			t.Error("expected nil created-date bounds for empty list")
		}
	})

	t.Run("aggregates and rounding", func(t *testing.T) {
		items := []*entities.ToDoItem{
			testItem(1, "done", entities.StatusCompleted, entities.PriorityLow, nil),
			testItem(2, "late", entities.StatusPending, entities.PriorityHigh, days(-3)),
			testItem(3, "soon", entities.StatusInProgress, entities.PriorityMedium, days(2)),
		}

		stats := svc.Statistics(items)

		if stats.TotalItems != 3 {
			t.Errorf("expected 3 total, got %d", stats.TotalItems)
		}
		if stats.CompletedItems != 1 || stats.PendingItems != 2 {
			t.Errorf("expected 1 completed and 2 pending, got %d and %d", stats.CompletedItems, stats.PendingItems)
		}
		if stats.OverdueItems != 1 {
			t.Errorf("expected 1 overdue, got %d", stats.OverdueItems)
		}
		if stats.HighPriorityItems != 1 {
			t.Errorf("expected 1 high priority, got %d", stats.HighPriorityItems)
		}
		if stats.DueSoonItems != 1 {
			t.Errorf("expected 1 due soon, got %d", stats.DueSoonItems)
		}
		if stats.CompletionRate != 33.33 {
			t.Errorf("expected completion rate 33.33, got %v", stats.CompletionRate)
		}
		if stats.EarliestCreatedDate == nil || !stats.EarliestCreatedDate.Equal(items[0].CreatedAt) {
			t.Error("earliest created date mismatch")
		}
		if stats.LatestCreatedDate == nil || !stats.LatestCreatedDate.Equal(items[2].CreatedAt) {
			t.Error("latest created date mismatch")
		}
	})
}
