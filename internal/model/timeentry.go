package model

import (
	"fmt"
	"time"
)

// TimeEntry is a single tracked interval or manual log against a task.
// Duration is whole minutes. At most one entry per user is running at
// any instant; starting a new timer stops the previous one first.
type TimeEntry struct {
	ID          string     `json:"id" db:"id"`
	TaskID      string     `json:"task_id" db:"task_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Description string     `json:"description" db:"description"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	Duration    int        `json:"duration" db:"duration"`
	IsBillable  bool       `json:"is_billable" db:"is_billable"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsRunning reports whether the entry is an active timer. Manual
// entries logged with an explicit duration and no end time are open
// intervals, not running timers.
func (e *TimeEntry) IsRunning() bool {
	return e.EndedAt == nil && e.Duration == 0
}

// FormattedDuration renders the duration as "2h 15m" or "45m".
func (e *TimeEntry) FormattedDuration() string {
	hours := e.Duration / 60
	minutes := e.Duration % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// DurationMinutes returns the whole-minute span between start and end.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
