package model

import "time"

// Activity type constants.
const (
	ActivityCreated         = "created"
	ActivityUpdated         = "updated"
	ActivityDeleted         = "deleted"
	ActivityAssigned        = "assigned"
	ActivityUnassigned      = "unassigned"
	ActivityStatusChanged   = "status_changed"
	ActivityPriorityChanged = "priority_changed"
	ActivityDueDateChanged  = "due_date_changed"
	ActivityCommentAdded    = "comment_added"
	ActivityAttachmentAdded = "attachment_added"
	ActivityCompleted       = "completed"
	ActivityReopened        = "reopened"
)

// SubjectType tags the kind of entity an activity refers to.
type SubjectType string

// Recognized activity subject kinds.
const (
	SubjectTask      SubjectType = "task"
	SubjectComment   SubjectType = "comment"
	SubjectTaskList  SubjectType = "task_list"
	SubjectSpace     SubjectType = "space"
	SubjectWorkspace SubjectType = "workspace"
)

// ActivitySubject is a tagged reference to the entity an activity
// describes. It is a weak reference: the subject may be purged later
// while the audit record persists.
type ActivitySubject struct {
	Type SubjectType
	ID   string
}

// TaskSubject builds an ActivitySubject for a task.
func TaskSubject(id string) ActivitySubject {
	return ActivitySubject{Type: SubjectTask, ID: id}
}

// CommentSubject builds an ActivitySubject for a comment.
func CommentSubject(id string) ActivitySubject {
	return ActivitySubject{Type: SubjectComment, ID: id}
}

// Activity is an immutable audit-log entry describing a state change.
// Rows are append-only: corrective actions add new records rather than
// mutating or deleting old ones.
type Activity struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID *string   `json:"workspace_id,omitempty" db:"workspace_id"`
	UserID      *string   `json:"user_id,omitempty" db:"user_id"`
	SubjectID   string    `json:"subject_id" db:"subject_id"`
	SubjectType string    `json:"subject_type" db:"subject_type"`
	Type        string    `json:"type" db:"type"`
	Properties  string    `json:"properties" db:"properties"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
