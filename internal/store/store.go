package store

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/model"
)

// TaskFilter controls filtering, sorting, and pagination for task queries
// within a list. Position ordering breaks ties on created_at so duplicate
// positions still yield a stable order.
type TaskFilter struct {
	StatusID        *string
	ParentID        *string // subtasks of this task; nil means root tasks only
	AssigneeID      *string
	Priority        *int
	Query           *string // search title + description
	IncludeArchived bool
	IncludeSubtasks bool // when true, ParentID is ignored and all tasks match
	SortBy          string
	SortDesc        bool
	Limit           int
	Offset          int
}

// TimeEntryInput carries the caller-supplied fields for a manual time
// entry. Duration is derived from StartedAt/EndedAt when omitted.
type TimeEntryInput struct {
	Description string
	StartedAt   time.Time
	EndedAt     *time.Time
	Duration    int
	IsBillable  bool
}

// TaskReorderItem is a reorder assignment for a task; StatusID optionally
// moves the task to a different column in the same pass (board drags).
type TaskReorderItem struct {
	ID       string
	Position int
	StatusID *string
}

// Store defines the persistence and domain-operation interface for the
// workspace tree and its cross-cutting concerns. Mutating operations take
// the acting user's ID for activity attribution; shape validation of
// inputs is the caller's job, structural invariants are enforced here.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)

	// === Workspaces & membership ===

	CreateWorkspace(ctx context.Context, ws model.Workspace) (*model.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*model.Workspace, error)
	GetWorkspaceBySlug(ctx context.Context, slug string) (*model.Workspace, error)
	GetWorkspaces(ctx context.Context) ([]model.Workspace, error)
	UpdateWorkspace(ctx context.Context, ws model.Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error
	AddWorkspaceMember(ctx context.Context, workspaceID, userID, role string) error
	UpdateWorkspaceMemberRole(ctx context.Context, workspaceID, userID, role string) error
	RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error
	TransferWorkspaceOwnership(ctx context.Context, workspaceID, newOwnerID string) error
	GetWorkspaceMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceMember, error)
	IsWorkspaceMember(ctx context.Context, workspaceID, userID string) (bool, error)
	IsWorkspaceAdmin(ctx context.Context, workspaceID, userID string) (bool, error)

	// === Spaces ===

	CreateSpace(ctx context.Context, space model.Space) (*model.Space, error)
	GetSpace(ctx context.Context, id string) (*model.Space, error)
	GetWorkspaceSpaces(ctx context.Context, workspaceID string) ([]model.Space, error)
	UpdateSpace(ctx context.Context, space model.Space) error
	DeleteSpace(ctx context.Context, id string) error
	ReorderSpaces(ctx context.Context, workspaceID string, assignments []PositionAssignment) error
	AddSpaceMember(ctx context.Context, spaceID, userID string) error
	RemoveSpaceMember(ctx context.Context, spaceID, userID string) error
	CanAccessSpace(ctx context.Context, spaceID, userID string) (bool, error)

	// === Folders ===

	CreateFolder(ctx context.Context, folder model.Folder) (*model.Folder, error)
	GetSpaceFolders(ctx context.Context, spaceID string) ([]model.Folder, error)
	UpdateFolder(ctx context.Context, folder model.Folder) error
	DeleteFolder(ctx context.Context, id string) error
	ReorderFolders(ctx context.Context, spaceID string, assignments []PositionAssignment) error

	// === Task lists ===

	CreateTaskList(ctx context.Context, list model.TaskList) (*model.TaskList, error)
	GetTaskList(ctx context.Context, id string) (*model.TaskList, error)
	GetSpaceTaskLists(ctx context.Context, spaceID string) ([]model.TaskList, error)
	GetFolderlessTaskLists(ctx context.Context, spaceID string) ([]model.TaskList, error)
	UpdateTaskList(ctx context.Context, list model.TaskList) error
	DeleteTaskList(ctx context.Context, id string) error
	ReorderTaskLists(ctx context.Context, spaceID string, assignments []PositionAssignment) error

	// === Status workflow ===

	CreateStatus(ctx context.Context, status model.Status) (*model.Status, error)
	GetListStatuses(ctx context.Context, listID string) ([]model.Status, error)
	GetDefaultStatus(ctx context.Context, listID string) (*model.Status, error)
	UpdateStatus(ctx context.Context, status model.Status) error
	DeleteStatus(ctx context.Context, id string) error
	ReorderStatuses(ctx context.Context, listID string, assignments []PositionAssignment) error

	// === Tasks ===

	CreateTask(ctx context.Context, actorID string, task model.Task) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	GetListTasks(ctx context.Context, listID string, filter TaskFilter) ([]model.Task, error)
	GetSubtasks(ctx context.Context, taskID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) error
	ArchiveTask(ctx context.Context, actorID, taskID string) error
	UnarchiveTask(ctx context.Context, actorID, taskID string) error
	UpdateTaskStatus(ctx context.Context, actorID, taskID, statusID string) error
	UpdateTaskPriority(ctx context.Context, actorID, taskID string, priority int) error
	UpdateTaskDueDate(ctx context.Context, actorID, taskID string, dueDate *time.Time) error
	SetTaskAssignees(ctx context.Context, actorID, taskID string, assigneeIDs []string) error
	SetTaskWatchers(ctx context.Context, taskID string, watcherIDs []string) error
	GetTaskUsers(ctx context.Context, taskID, role string) ([]model.User, error)
	MoveTask(ctx context.Context, actorID, taskID, targetListID string) error
	ReorderTasks(ctx context.Context, actorID, listID string, items []TaskReorderItem) error
	DeleteTask(ctx context.Context, actorID, taskID string) error
	TaskProgress(ctx context.Context, taskID string) (int, error)

	// === Activity log ===

	LogActivity(ctx context.Context, actorID string, subject model.ActivitySubject, activityType string, props map[string]any) (*model.Activity, error)
	GetWorkspaceActivity(ctx context.Context, workspaceID string, limit int) ([]model.Activity, error)
	GetSubjectActivity(ctx context.Context, subject model.ActivitySubject) ([]model.Activity, error)

	// === Time tracking ===

	StartTimer(ctx context.Context, userID, taskID, description string) (*model.TimeEntry, error)
	StopTimer(ctx context.Context, userID, entryID string) (*model.TimeEntry, error)
	GetRunningTimer(ctx context.Context, userID string) (*model.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, userID, taskID string, input TimeEntryInput) (*model.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, actorID, entryID string, input TimeEntryInput) error
	DeleteTimeEntry(ctx context.Context, actorID, entryID string) error
	GetTaskTimeEntries(ctx context.Context, taskID string) ([]model.TimeEntry, error)

	// === Checklists ===

	CreateChecklist(ctx context.Context, checklist model.Checklist) (*model.Checklist, error)
	UpdateChecklist(ctx context.Context, checklist model.Checklist) error
	DeleteChecklist(ctx context.Context, id string) error
	GetTaskChecklists(ctx context.Context, taskID string) ([]model.Checklist, error)
	AddChecklistItem(ctx context.Context, item model.ChecklistItem) (*model.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, item model.ChecklistItem) error
	DeleteChecklistItem(ctx context.Context, id string) error
	GetChecklistItems(ctx context.Context, checklistID string) ([]model.ChecklistItem, error)
	MarkChecklistItemComplete(ctx context.Context, id string) error
	MarkChecklistItemIncomplete(ctx context.Context, id string) error
	ReorderChecklistItems(ctx context.Context, checklistID string, assignments []PositionAssignment) error
	ChecklistProgress(ctx context.Context, checklistID string) (int, error)

	// === Comments ===

	CreateComment(ctx context.Context, comment model.Comment, mentionIDs []string) (*model.Comment, error)
	UpdateComment(ctx context.Context, actorID, commentID, content string) error
	DeleteComment(ctx context.Context, actorID, commentID string) error
	ResolveComment(ctx context.Context, actorID, commentID string) error
	UnresolveComment(ctx context.Context, commentID string) error
	GetTaskComments(ctx context.Context, taskID string) ([]model.Comment, error)
	GetCommentMentions(ctx context.Context, commentID string) ([]model.Mention, error)

	// === Tags ===

	CreateTag(ctx context.Context, tag model.Tag) (*model.Tag, error)
	GetWorkspaceTags(ctx context.Context, workspaceID string) ([]model.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	TagTask(ctx context.Context, tagID, taskID string) error
	UntagTask(ctx context.Context, tagID, taskID string) error
	GetTaskTags(ctx context.Context, taskID string) ([]model.Tag, error)

	// === Custom fields ===

	CreateCustomField(ctx context.Context, field model.CustomField) (*model.CustomField, error)
	GetWorkspaceCustomFields(ctx context.Context, workspaceID string) ([]model.CustomField, error)
	DeleteCustomField(ctx context.Context, id string) error
	AttachCustomFieldToList(ctx context.Context, fieldID, listID string) error
	DetachCustomFieldFromList(ctx context.Context, fieldID, listID string) error
	GetListCustomFields(ctx context.Context, listID string) ([]model.CustomField, error)
	SetCustomFieldValue(ctx context.Context, fieldID, taskID, value string) error
	GetTaskCustomFieldValues(ctx context.Context, taskID string) ([]model.CustomFieldValue, error)
}
