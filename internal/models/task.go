package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/unidash/internal/constants"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryStudy    Category = "Study"
	CategoryPersonal Category = "Personal"
)

// Categories lists the task categories in display order.
var Categories = []Category{CategoryWork, CategoryStudy, CategoryPersonal}

type Task struct {
	ID        int64    `json:"id"` // creation timestamp in ms
	Title     string   `json:"title"`
	Due       string   `json:"due"` // YYYY-MM-DD
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	Category  Category `json:"category"`
}

// Validate checks the fields a user must supply when creating a task.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if t.Due == "" {
		return fmt.Errorf("task due date cannot be empty")
	}
	if _, err := t.DueDate(); err != nil {
		return fmt.Errorf("invalid due date (expected YYYY-MM-DD): %w", err)
	}
	if t.Priority != "" && !ValidPriority(string(t.Priority)) {
		return fmt.Errorf("invalid priority: %s (must be high, medium, or low)", t.Priority)
	}
	if t.Category != "" && !ValidCategory(string(t.Category)) {
		return fmt.Errorf("invalid category: %s (must be Work, Study, or Personal)", t.Category)
	}
	return nil
}

// ApplyDefaults fills in the priority and category the creation form preselects.
func (t *Task) ApplyDefaults() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Category == "" {
		t.Category = CategoryWork
	}
}

// DueDate parses Due as a calendar date at UTC midnight.
func (t *Task) DueDate() (time.Time, error) {
	return time.Parse(constants.DateFormat, t.Due)
}

func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if string(cat) == c {
			return true
		}
	}
	return false
}
