package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/todolist/core/internal/domain/entities"
)

func newNotificationService() *NotificationService {
	return NewNotificationService(NewFilterService())
}

func TestOverdueNotifications(t *testing.T) {
	svc := newNotificationService()

	items := []*entities.ToDoItem{
		testItem(1, "Slightly late", entities.StatusPending, entities.PriorityLow, days(-2)),
		testItem(2, "Very late", entities.StatusPending, entities.PriorityLow, days(-10)),
		testItem(3, "Finished late", entities.StatusCompleted, entities.PriorityLow, days(-10)),
		testItem(4, "On time", entities.StatusPending, entities.PriorityLow, days(3)),
	}

	notifications := svc.OverdueNotifications(items)

	if len(notifications) != 2 {
		t.Fatalf("expected 2 overdue notifications, got %d", len(notifications))
	}

	byItem := map[int]*entities.Notification{}
	for _, n := range notifications {
		if n.Type != "overdue" {
			t.Errorf("expected type overdue, got %q", n.Type)
		}
		byItem[n.Item.ID] = n
	}

	if byItem[1].Level != entities.LevelWarning {
		t.Errorf("item overdue by 2 days should be warning, got %q", byItem[1].Level)
	}
	if byItem[2].Level != entities.LevelDanger {
		t.Errorf("item overdue by 10 days should be danger, got %q", byItem[2].Level)
	}
	if !strings.Contains(byItem[2].Message, "10 day(s) overdue") {
		t.Errorf("unexpected message: %q", byItem[2].Message)
	}
}

func TestDueSoonNotificationLevels(t *testing.T) {
	svc := newNotificationService()

	items := []*entities.ToDoItem{
		testItem(1, "Today", entities.StatusPending, entities.PriorityLow, days(0)),
		testItem(2, "In two days", entities.StatusPending, entities.PriorityLow, days(2)),
		testItem(3, "In six days", entities.StatusPending, entities.PriorityLow, days(6)),
	}

	notifications := svc.DueSoonNotifications(items, 7)

	if len(notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifications))
	}

	wantLevels := []string{entities.LevelDanger, entities.LevelWarning, entities.LevelInfo}
	for i, want := range wantLevels {
		if notifications[i].Level != want {
			t.Errorf("notification %d: expected level %q, got %q", i, want, notifications[i].Level)
		}
		if notifications[i].Type != "due_soon" {
			t.Errorf("notification %d: expected type due_soon, got %q", i, notifications[i].Type)
		}
	}
}

func TestHighPriorityNotifications(t *testing.T) {
	svc := newNotificationService()

	items := []*entities.ToDoItem{
		testItem(1, "Urgent dated", entities.StatusInProgress, entities.PriorityHigh, days(2)),
		testItem(2, "Urgent undated", entities.StatusPending, entities.PriorityHigh, nil),
		testItem(3, "Urgent done", entities.StatusCompleted, entities.PriorityHigh, nil),
		testItem(4, "Relaxed", entities.StatusPending, entities.PriorityLow, nil),
	}

	notifications := svc.HighPriorityNotifications(items)

	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Item.ID != 2 {
		t.Errorf("expected undated item first, got item %d", notifications[0].Item.ID)
	}
	for _, n := range notifications {
		if n.Level != entities.LevelWarning {
			t.Errorf("expected warning level, got %q", n.Level)
		}
	}
	if !strings.Contains(notifications[0].Message, "Status: Pending") {
		t.Errorf("expected status label in message, got %q", notifications[0].Message)
	}
}

func TestInProgressNotifications(t *testing.T) {
	svc := newNotificationService()

	t.Run("empty when nothing in progress", func(t *testing.T) {
		items := []*entities.ToDoItem{
			testItem(1, "a", entities.StatusPending, entities.PriorityLow, nil),
		}
		notifications := svc.InProgressNotifications(items)
		if len(notifications) != 0 {
			t.Fatalf("expected no notifications, got %d", len(notifications))
		}
	})

	t.Run("summary plus details for small sets", func(t *testing.T) {
		items := []*entities.ToDoItem{
			testItem(1, "a", entities.StatusInProgress, entities.PriorityHigh, nil),
			testItem(2, "b", entities.StatusInProgress, entities.PriorityLow, nil),
		}
		notifications := svc.InProgressNotifications(items)
		if len(notifications) != 3 {
			t.Fatalf("expected summary plus 2 details, got %d notifications", len(notifications))
		}
		if notifications[0].Type != "in_progress" {
			t.Errorf("expected summary first, got %q", notifications[0].Type)
		}
		if !strings.Contains(notifications[0].Message, "2 item(s) in progress") {
			t.Errorf("unexpected summary message: %q", notifications[0].Message)
		}
		if notifications[1].Type != "in_progress_detail" {
			t.Errorf("expected detail type, got %q", notifications[1].Type)
		}
		if !strings.Contains(notifications[1].Message, "(Priority: High)") {
			t.Errorf("expected priority label in detail, got %q", notifications[1].Message)
		}
	})

	t.Run("summary only for large sets", func(t *testing.T) {
		items := make([]*entities.ToDoItem, 0, 6)
		for i := 1; i <= 6; i++ {
			items = append(items, testItem(i, fmt.Sprintf("item %d", i), entities.StatusInProgress, entities.PriorityLow, nil))
		}
		notifications := svc.InProgressNotifications(items)
		if len(notifications) != 1 {
			t.Fatalf("expected summary only, got %d notifications", len(notifications))
		}
	})
}

func TestAllImportantNotifications(t *testing.T) {
	svc := newNotificationService()

	t.Run("empty input yields empty feed", func(t *testing.T) {
		notifications := svc.AllImportantNotifications(nil)
		if len(notifications) != 0 {
			t.Fatalf("expected empty feed, got %d", len(notifications))
		}
	})

	t.Run("danger sorts before warning", func(t *testing.T) {
		items := []*entities.ToDoItem{
			testItem(1, "High priority", entities.StatusPending, entities.PriorityHigh, nil),
			testItem(2, "Long overdue", entities.StatusPending, entities.PriorityLow, days(-10)),
		}

		notifications := svc.AllImportantNotifications(items)

		if len(notifications) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(notifications))
		}
		if notifications[0].Level != entities.LevelDanger {
			t.Errorf("expected danger first, got %q", notifications[0].Level)
		}
		if notifications[1].Level != entities.LevelWarning {
			t.Errorf("expected warning second, got %q", notifications[1].Level)
		}
	})

	t.Run("truncates to ten", func(t *testing.T) {
		items := make([]*entities.ToDoItem, 0, 15)
		for i := 1; i <= 15; i++ {
			items = append(items, testItem(i, fmt.Sprintf("late %d", i), entities.StatusPending, entities.PriorityLow, days(-2)))
		}

		notifications := svc.AllImportantNotifications(items)

		if len(notifications) != 10 {
			t.Fatalf("expected feed capped at 10, got %d", len(notifications))
		}
	})
}
