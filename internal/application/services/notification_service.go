package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/todolist/core/internal/domain/entities"
)

// DefaultDueSoonDays is the window used by due-soon notifications when the
// caller does not supply one.
const DefaultDueSoonDays = 7

// importantFeedDueSoonDays is the tighter due-soon window used only by the
// combined important feed, to keep it focused on the next few days.
const importantFeedDueSoonDays = 3

// maxImportantNotifications bounds the combined feed's size.
const maxImportantNotifications = 10

// NotificationService derives transient alerts from a user's item list.
// Nothing here is persisted; every call recomputes from scratch.
type NotificationService struct {
	filter *FilterService
}

// NewNotificationService creates a new notification service
func NewNotificationService(filter *FilterService) *NotificationService {
	return &NotificationService{filter: filter}
}

// OverdueNotifications returns one notification per overdue item. Items
// overdue by more than a week escalate from warning to danger.
func (s *NotificationService) OverdueNotifications(items []*entities.ToDoItem) []*entities.Notification {
	notifications := make([]*entities.Notification, 0)
	if len(items) == 0 {
		return notifications
	}

	today := time.Now()

	for _, item := range s.filter.OverdueItems(items) {
		daysOverdue := entities.DaysBetween(*item.DueDate, today)

		level := entities.LevelWarning
		if daysOverdue > 7 {
			level = entities.LevelDanger
		}

		notifications = append(notifications, &entities.Notification{
			Type:      "overdue",
			Title:     "Overdue item",
			Message:   fmt.Sprintf("'%s' is %d day(s) overdue. Please complete it as soon as possible.", item.Title, daysOverdue),
			Level:     level,
			Item:      item,
			CreatedAt: time.Now(),
		})
	}

	return notifications
}

// DueSoonNotifications returns one notification per non-completed item due
// within the given number of days, soonest first. Severity tightens as the
// due date approaches: danger at <=1 day, warning at <=3, info otherwise.
func (s *NotificationService) DueSoonNotifications(items []*entities.ToDoItem, days int) []*entities.Notification {
	notifications := make([]*entities.Notification, 0)
	if len(items) == 0 {
		return notifications
	}

	today := time.Now()

	for _, item := range s.filter.DueSoonItems(items, days) {
		daysUntil := entities.DaysBetween(today, *item.DueDate)

		level := entities.LevelInfo
		switch {
		case daysUntil <= 1:
			level = entities.LevelDanger
		case daysUntil <= 3:
			level = entities.LevelWarning
		}

		notifications = append(notifications, &entities.Notification{
			Type:      "due_soon",
			Title:     "Item due soon",
			Message:   fmt.Sprintf("'%s' is due in %d day(s) (%s).", item.Title, daysUntil, item.DueDate.Format("2006-01-02")),
			Level:     level,
			Item:      item,
			CreatedAt: time.Now(),
		})
	}

	return notifications
}

// HighPriorityNotifications returns one warning per unfinished high-priority
// item, ordered by due date descending. Undated items sort as infinitely far
// in the future, so they come first.
func (s *NotificationService) HighPriorityNotifications(items []*entities.ToDoItem) []*entities.Notification {
	notifications := make([]*entities.Notification, 0)
	if len(items) == 0 {
		return notifications
	}

	highPriority := make([]*entities.ToDoItem, 0)
	for _, item := range items {
		if item.Priority == entities.PriorityHigh && item.Status != entities.StatusCompleted {
			highPriority = append(highPriority, item)
		}
	}

	sort.SliceStable(highPriority, func(i, j int) bool {
		return highPriority[j].DueDateOrMax().Before(highPriority[i].DueDateOrMax())
	})

	for _, item := range highPriority {
		notifications = append(notifications, &entities.Notification{
			Type:      "high_priority",
			Title:     "High-priority item",
			Message:   fmt.Sprintf("You have a high-priority item: '%s'. Status: %s.", item.Title, item.Status.Label()),
			Level:     entities.LevelWarning,
			Item:      item,
			CreatedAt: time.Now(),
		})
	}

	return notifications
}

// InProgressNotifications returns a summary of items currently in progress,
// plus per-item details when there are at most five. Empty when nothing is
// in progress.
func (s *NotificationService) InProgressNotifications(items []*entities.ToDoItem) []*entities.Notification {
	notifications := make([]*entities.Notification, 0)
	if len(items) == 0 {
		return notifications
	}

	inProgress := make([]*entities.ToDoItem, 0)
	for _, item := range items {
		if item.Status == entities.StatusInProgress {
			inProgress = append(inProgress, item)
		}
	}

	if len(inProgress) == 0 {
		return notifications
	}

	notifications = append(notifications, &entities.Notification{
		Type:      "in_progress",
		Title:     "Items in progress",
		Message:   fmt.Sprintf("You have %d item(s) in progress.", len(inProgress)),
		Level:     entities.LevelInfo,
		CreatedAt: time.Now(),
	})

	if len(inProgress) <= 5 {
		for _, item := range inProgress {
			notifications = append(notifications, &entities.Notification{
				Type:      "in_progress_detail",
				Title:     "In-progress item",
				Message:   fmt.Sprintf("- '%s' (Priority: %s)", item.Title, item.Priority.Label()),
				Level:     entities.LevelInfo,
				Item:      item,
				CreatedAt: time.Now(),
			})
		}
	}

	return notifications
}

// AllImportantNotifications merges overdue, high-priority and near-term
// due-soon alerts, ranks them danger > warning > info with recency as the
// tie-break, and truncates to the top 10.
func (s *NotificationService) AllImportantNotifications(items []*entities.ToDoItem) []*entities.Notification {
	all := make([]*entities.Notification, 0)

	all = append(all, s.OverdueNotifications(items)...)
	all = append(all, s.HighPriorityNotifications(items)...)
	all = append(all, s.DueSoonNotifications(items, importantFeedDueSoonDays)...)

	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := levelRank(all[i].Level), levelRank(all[j].Level)
		if ri != rj {
			return ri > rj
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if len(all) > maxImportantNotifications {
		all = all[:maxImportantNotifications]
	}

	return all
}

func levelRank(level string) int {
	switch level {
	case entities.LevelDanger:
		return 3
	case entities.LevelWarning:
		return 2
	default:
		return 1
	}
}
