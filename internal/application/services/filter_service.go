package services

import (
	"sort"
	"strings"
	"time"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// FilterService filters, sorts and counts to-do item lists. All methods are
// pure: they never touch I/O and never mutate their input slice.
type FilterService struct{}

// NewFilterService creates a new filter service
func NewFilterService() *FilterService {
	return &FilterService{}
}

// Filter applies the criteria's predicates conjunctively and sorts the
// result. Predicates run in a fixed order: status, priority, search text,
// due-date range, completed flag, days-until-due window. Items without a
// due date never pass a due-date-based predicate. "Today" is computed once
// per call and compares calendar dates only.
func (s *FilterService) Filter(items []*entities.ToDoItem, criteria ports.FilterCriteria) []*entities.ToDoItem {
	if len(items) == 0 {
		return []*entities.ToDoItem{}
	}

	today := time.Now()

	result := make([]*entities.ToDoItem, 0, len(items))
	for _, item := range items {
		if !matches(item, criteria, today) {
			continue
		}
		result = append(result, item)
	}

	sortItems(result, criteria.SortBy, criteria.SortOrder)

	return result
}

func matches(item *entities.ToDoItem, c ports.FilterCriteria, today time.Time) bool {
	if c.Status != nil && item.Status != *c.Status {
		return false
	}

	if c.Priority != nil && item.Priority != *c.Priority {
		return false
	}

	if c.SearchText != nil && strings.TrimSpace(*c.SearchText) != "" {
		search := strings.ToLower(*c.SearchText)
		title := strings.ToLower(item.Title)
		desc := ""
		if item.Description != nil {
			desc = strings.ToLower(*item.Description)
		}
		if !strings.Contains(title, search) && !strings.Contains(desc, search) {
			return false
		}
	}

	if c.DueDateFrom != nil {
		if item.DueDate == nil || item.DueDate.Before(*c.DueDateFrom) {
			return false
		}
	}

	if c.DueDateTo != nil {
		if item.DueDate == nil || item.DueDate.After(*c.DueDateTo) {
			return false
		}
	}

	if c.IsCompleted != nil && item.IsCompleted() != *c.IsCompleted {
		return false
	}

	if c.DaysUntilDue != nil && *c.DaysUntilDue > 0 {
		if !item.IsDueWithin(today, *c.DaysUntilDue) {
			return false
		}
	}

	if c.CategoryID != nil {
		if item.CategoryID == nil || *item.CategoryID != *c.CategoryID {
			return false
		}
	}

	return true
}

// sortItems orders items in place by the requested field. Direction match
// is case-insensitive; anything other than "ascending" sorts descending.
// Undated items carry a maximum sentinel due date so they land last in
// ascending due-date order.
func sortItems(items []*entities.ToDoItem, sortBy, sortOrder string) {
	ascending := strings.EqualFold(sortOrder, "ascending")

	var less func(a, b *entities.ToDoItem) bool

	switch strings.ToLower(sortBy) {
	case "duedate":
		less = func(a, b *entities.ToDoItem) bool {
			return a.DueDateOrMax().Before(b.DueDateOrMax())
		}
	case "priority":
		less = func(a, b *entities.ToDoItem) bool {
			return a.Priority.Weight() < b.Priority.Weight()
		}
	case "title":
		less = func(a, b *entities.ToDoItem) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		less = func(a, b *entities.ToDoItem) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}

// OverdueItems returns items whose due date is strictly before today and
// whose status is not completed, oldest overdue first.
func (s *FilterService) OverdueItems(items []*entities.ToDoItem) []*entities.ToDoItem {
	today := time.Now()

	result := make([]*entities.ToDoItem, 0)
	for _, item := range items {
		if item.IsOverdue(today) {
			result = append(result, item)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDateOrMax().Before(result[j].DueDateOrMax())
	})

	return result
}

// DueSoonItems returns non-completed items due within [today, today+days]
// inclusive, soonest first.
func (s *FilterService) DueSoonItems(items []*entities.ToDoItem, days int) []*entities.ToDoItem {
	today := time.Now()

	result := make([]*entities.ToDoItem, 0)
	for _, item := range items {
		if item.IsDueWithin(today, days) {
			result = append(result, item)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDateOrMax().Before(result[j].DueDateOrMax())
	})

	return result
}

// CountByStatus counts items per status. The result contains every status
// as a key, zero counts included.
func (s *FilterService) CountByStatus(items []*entities.ToDoItem) map[entities.Status]int {
	result := make(map[entities.Status]int, len(entities.AllStatuses))
	for _, status := range entities.AllStatuses {
		result[status] = 0
	}

	for _, item := range items {
		result[item.Status]++
	}

	return result
}

// CountByPriority counts items per priority. The result contains every
// priority as a key, zero counts included.
func (s *FilterService) CountByPriority(items []*entities.ToDoItem) map[entities.Priority]int {
	result := make(map[entities.Priority]int, len(entities.AllPriorities))
	for _, priority := range entities.AllPriorities {
		result[priority] = 0
	}

	for _, item := range items {
		result[item.Priority]++
	}

	return result
}
