package model

import (
	"math"
	"time"
)

// Task priority constants (lower number = higher priority).
const (
	PriorityUrgent = 1
	PriorityHigh   = 2
	PriorityNormal = 3
	PriorityLow    = 4
)

// priorityLabels maps priority values to display names.
var priorityLabels = map[int]string{
	PriorityUrgent: "Urgent",
	PriorityHigh:   "High",
	PriorityNormal: "Normal",
	PriorityLow:    "Low",
}

// Task-user link roles. The same join table carries both relations,
// disambiguated by role, so a user can be assignee and watcher
// independently.
const (
	TaskRoleAssignee = "assignee"
	TaskRoleWatcher  = "watcher"
)

// Task is the central work item. Identifier is the list-scoped
// human-readable code (e.g. "API-7"). Position orders tasks among
// same-parent siblings within the list. TimeEstimate and TimeSpent are
// whole minutes; TimeSpent is maintained incrementally by the time
// tracking operations.
type Task struct {
	ID           string     `json:"id" db:"id"`
	TaskListID   string     `json:"task_list_id" db:"task_list_id"`
	StatusID     *string    `json:"status_id,omitempty" db:"status_id"`
	ParentID     *string    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedBy    string     `json:"created_by" db:"created_by"`
	Title        string     `json:"title" db:"title"`
	Identifier   string     `json:"identifier" db:"identifier"`
	Description  string     `json:"description" db:"description"`
	Priority     int        `json:"priority" db:"priority"`
	StartDate    *time.Time `json:"start_date,omitempty" db:"start_date"`
	DueDate      *time.Time `json:"due_date,omitempty" db:"due_date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	TimeEstimate int        `json:"time_estimate" db:"time_estimate"`
	TimeSpent    int        `json:"time_spent" db:"time_spent"`
	Position     int        `json:"position" db:"position"`
	IsArchived   bool       `json:"is_archived" db:"is_archived"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Status is populated by queries that join statuses.
	Status *Status `json:"status,omitempty" db:"-"`
}

// PriorityLabel returns the display name for the task's priority.
func (t *Task) PriorityLabel() string {
	if label, ok := priorityLabels[t.Priority]; ok {
		return label
	}
	return "Normal"
}

// IsCompleted reports whether the task is complete. CompletedAt and the
// status's closed flag can drift apart (status deletion reassignment does
// not re-derive CompletedAt), so the two signals are OR-combined.
func (t *Task) IsCompleted() bool {
	if t.CompletedAt != nil {
		return true
	}
	return t.Status != nil && t.Status.IsClosed
}

// IsOverdue reports whether the task's due date has passed without the
// task being completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsCompleted()
}

// ValidPriority reports whether p is within the recognized range.
func ValidPriority(p int) bool {
	return p >= PriorityUrgent && p <= PriorityLow
}

// TaskProgress computes a task's completion percentage. With no subtasks
// the task is 0 or 100 by its own completion state; otherwise it is the
// rounded share of completed subtasks.
func TaskProgress(task *Task, subtasks []Task) int {
	if len(subtasks) == 0 {
		if task.IsCompleted() {
			return 100
		}
		return 0
	}

	completed := 0
	for i := range subtasks {
		if subtasks[i].IsCompleted() {
			completed++
		}
	}

	return int(math.Round(float64(completed) / float64(len(subtasks)) * 100))
}
