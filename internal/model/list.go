package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Status type constants.
const (
	StatusTypeOpen       = "open"
	StatusTypeInProgress = "in_progress"
	StatusTypeDone       = "done"
	StatusTypeClosed     = "closed"
	StatusTypeCustom     = "custom"
)

// TaskList is an ordered collection of tasks with its own status
// workflow. TaskCounter backs identifier generation: it only ever
// increments, so identifiers are never reused after a task is deleted.
type TaskList struct {
	ID          string     `json:"id" db:"id"`
	SpaceID     string     `json:"space_id" db:"space_id"`
	FolderID    *string    `json:"folder_id,omitempty" db:"folder_id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description" db:"description"`
	Color       string     `json:"color" db:"color"`
	Position    int        `json:"position" db:"position"`
	TaskCounter int        `json:"task_counter" db:"task_counter"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Status is a named workflow state scoped to a task list. At most one
// status per list is flagged default; tasks in a closed status count as
// complete.
type Status struct {
	ID         string    `json:"id" db:"id"`
	TaskListID string    `json:"task_list_id" db:"task_list_id"`
	Name       string    `json:"name" db:"name"`
	Color      string    `json:"color" db:"color"`
	Type       string    `json:"type" db:"type"`
	Position   int       `json:"position" db:"position"`
	IsDefault  bool      `json:"is_default" db:"is_default"`
	IsClosed   bool      `json:"is_closed" db:"is_closed"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ValidStatusType reports whether t is a recognized status type.
func ValidStatusType(t string) bool {
	switch t {
	case StatusTypeOpen, StatusTypeInProgress, StatusTypeDone, StatusTypeClosed, StatusTypeCustom:
		return true
	}
	return false
}

// IdentifierPrefix derives the task identifier prefix from a list name:
// the first three letters, uppercased, with non-letters stripped.
func IdentifierPrefix(listName string) string {
	var b strings.Builder
	letters := 0
	for _, r := range listName {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			letters++
			if letters == 3 {
				break
			}
		}
	}
	return b.String()
}

// FormatIdentifier joins a prefix and sequence number, e.g. "API-7".
func FormatIdentifier(prefix string, seq int) string {
	return fmt.Sprintf("%s-%d", prefix, seq)
}
