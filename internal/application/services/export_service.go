package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// EmptyExportSentinel is returned instead of CSV when there is nothing to
// export. Callers relying on parseable output must check for it.
const EmptyExportSentinel = "No data to export"

// csvHeader is the fixed export header row.
const csvHeader = "ID,Title,Description,Status,Priority,DueDate,CreatedAt,UpdatedAt"

// ExportService renders item lists to CSV and computes aggregate
// statistics. Pure reducers; no I/O.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportCSV renders the items as UTF-8 CSV with one row per item. Dates are
// formatted yyyy-MM-dd and timestamps yyyy-MM-dd HH:mm:ss. An empty list
// yields the sentinel string, not a header-only document.
func (s *ExportService) ExportCSV(items []*entities.ToDoItem) string {
	if len(items) == 0 {
		return EmptyExportSentinel
	}

	var csv strings.Builder
	csv.WriteString(csvHeader)
	csv.WriteString("\n")

	for _, item := range items {
		description := ""
		if item.Description != nil {
			description = *item.Description
		}

		dueDate := ""
		if item.DueDate != nil {
			dueDate = item.DueDate.Format("2006-01-02")
		}

		row := []string{
			fmt.Sprintf("%d", item.ID),
			escapeCSVValue(item.Title),
			escapeCSVValue(description),
			item.Status.Label(),
			item.Priority.Label(),
			dueDate,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
		}

		csv.WriteString(strings.Join(row, ","))
		csv.WriteString("\n")
	}

	return csv.String()
}

// ExportFileName returns the download name for a CSV export taken at t.
func (s *ExportService) ExportFileName(t time.Time) string {
	return fmt.Sprintf("ToDoList_%s.csv", t.Format("20060102_150405"))
}

// escapeCSVValue wraps a field in quotes when it contains a comma, quote or
// newline, doubling any embedded quotes.
func escapeCSVValue(value string) string {
	if value == "" {
		return ""
	}

	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}

	return value
}

// Statistics reduces the item list to aggregate counts. Completion rate is
// a percentage rounded to two decimals; the created-date bounds are nil for
// an empty list.
func (s *ExportService) Statistics(items []*entities.ToDoItem) ports.Statistics {
	if len(items) == 0 {
		return ports.Statistics{}
	}

	today := time.Now()

	var completed, overdue, highPriority, dueSoon int
	earliest := items[0].CreatedAt
	latest := items[0].CreatedAt

	for _, item := range items {
		if item.Status == entities.StatusCompleted {
			completed++
		}
		if item.IsOverdue(today) {
			overdue++
		}
		if item.Priority == entities.PriorityHigh {
			highPriority++
		}
		if item.IsDueWithin(today, DefaultDueSoonDays) {
			dueSoon++
		}
		if item.CreatedAt.Before(earliest) {
			earliest = item.CreatedAt
		}
		if item.CreatedAt.After(latest) {
			latest = item.CreatedAt
		}
	}

	rate := float64(completed) / float64(len(items)) * 100
	rate = math.Round(rate*100) / 100

	return ports.Statistics{
		TotalItems:          len(items),
		CompletedItems:      completed,
		PendingItems:        len(items) - completed,
		OverdueItems:        overdue,
		HighPriorityItems:   highPriority,
		DueSoonItems:        dueSoon,
		CompletionRate:      rate,
		EarliestCreatedDate: &earliest,
		LatestCreatedDate:   &latest,
	}
}
