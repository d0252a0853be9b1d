package model

import (
	"math"
	"time"
)

// Checklist is a named, ordered list of items attached to a task.
// Its lifecycle is bound to the parent task (CASCADE delete).
type Checklist struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	Name      string    `json:"name" db:"name"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Items is populated by store queries, ordered by position.
	Items []ChecklistItem `json:"items,omitempty" db:"-"`
}

// ChecklistItem is a single entry within a checklist. IsCompleted and
// CompletedAt are always set and cleared together.
type ChecklistItem struct {
	ID          string     `json:"id" db:"id"`
	ChecklistID string     `json:"checklist_id" db:"checklist_id"`
	AssigneeID  *string    `json:"assignee_id,omitempty" db:"assignee_id"`
	Content     string     `json:"content" db:"content"`
	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ChecklistProgress returns the completed share of items as a rounded
// integer percentage. An empty checklist is 0%.
func ChecklistProgress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}

	completed := 0
	for i := range items {
		if items[i].IsCompleted {
			completed++
		}
	}

	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}
