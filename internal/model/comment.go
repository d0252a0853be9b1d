package model

import "time"

// Comment is a discussion entry on a task. Threads are one level deep:
// a reply's parent must itself be a top-level comment. The resolution
// fields (IsResolved, ResolvedAt, ResolvedBy) move as a unit.
type Comment struct {
	ID         string     `json:"id" db:"id"`
	TaskID     string     `json:"task_id" db:"task_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	ParentID   *string    `json:"parent_id,omitempty" db:"parent_id"`
	Content    string     `json:"content" db:"content"`
	IsResolved bool       `json:"is_resolved" db:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy *string    `json:"resolved_by,omitempty" db:"resolved_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Replies is populated by threaded queries, ordered oldest first.
	Replies []Comment `json:"replies,omitempty" db:"-"`
}

// Mention records a user referenced in a comment.
type Mention struct {
	ID        string    `json:"id" db:"id"`
	CommentID string    `json:"comment_id" db:"comment_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
