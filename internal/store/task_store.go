package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateTask inserts a new task: the identifier comes from the list's
// monotonic counter (never reused after deletion), the status defaults
// to the list's default status, and the position appends within the
// (list, parent) sibling scope. A CREATED activity commits with the row.
func (s *SQLiteStore) CreateTask(ctx context.Context, actorID string, task model.Task) (*model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return nil, model.NewValidationError("task title must not be empty")
	}
	if task.Priority == 0 {
		task.Priority = model.PriorityNormal
	}
	if !model.ValidPriority(task.Priority) {
		return nil, model.NewValidationError("priority must be between %d and %d",
			model.PriorityUrgent, model.PriorityLow)
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedBy == "" {
		task.CreatedBy = actorID
	}
	now := nowUTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE task_lists SET task_counter = task_counter + 1, updated_at = ?
			WHERE id = ? AND deleted_at IS NULL`,
			now, task.TaskListID,
		)
		if err != nil {
			return fmt.Errorf("bumping task counter: %w", err)
		}
		if err := notFoundFromResult(result, "list", task.TaskListID); err != nil {
			return err
		}

		var list model.TaskList
		if err := tx.GetContext(ctx, &list,
			"SELECT * FROM task_lists WHERE id = ?", task.TaskListID); err != nil {
			return fmt.Errorf("reading list %s: %w", task.TaskListID, err)
		}
		task.Identifier = model.FormatIdentifier(model.IdentifierPrefix(list.Name), list.TaskCounter)

		if task.StatusID == nil {
			var statusID string
			err := tx.GetContext(ctx, &statusID, `
				SELECT id FROM statuses WHERE task_list_id = ?
				ORDER BY is_default DESC, position, created_at
				LIMIT 1`,
				task.TaskListID,
			)
			switch {
			case err == nil:
				task.StatusID = &statusID
			case isNoRows(err):
				// Transient statusless list; the task stays unassigned.
			default:
				return fmt.Errorf("getting default status: %w", err)
			}
		}

		posQuery := `SELECT COALESCE(MAX(position), -1) FROM tasks
			WHERE task_list_id = ? AND parent_id IS NULL AND deleted_at IS NULL`
		posArgs := []any{task.TaskListID}
		if task.ParentID != nil {
			posQuery = `SELECT COALESCE(MAX(position), -1) FROM tasks
				WHERE task_list_id = ? AND parent_id = ? AND deleted_at IS NULL`
			posArgs = append(posArgs, *task.ParentID)
		}
		pos, err := nextPosition(ctx, tx, posQuery, posArgs...)
		if err != nil {
			return err
		}
		task.Position = pos

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, task_list_id, status_id, parent_id, created_by,
				title, identifier, description, priority, start_date, due_date,
				completed_at, time_estimate, time_spent, position, is_archived,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.TaskListID, task.StatusID, task.ParentID, task.CreatedBy,
			task.Title, task.Identifier, task.Description, task.Priority,
			task.StartDate, task.DueDate, task.CompletedAt, task.TimeEstimate,
			task.TimeSpent, task.Position, boolToInt(task.IsArchived),
			task.CreatedAt, task.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		_, err = s.logActivity(ctx, tx, actorID, model.TaskSubject(task.ID),
			model.ActivityCreated, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID with its status populated.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task,
		"SELECT * FROM tasks WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("task", id)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	if err := s.attachStatus(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetListTasks retrieves tasks of a list matching the filter. The
// default ordering is position with created_at breaking duplicate
// positions.
func (s *SQLiteStore) GetListTasks(ctx context.Context, listID string, filter TaskFilter) ([]model.Task, error) {
	conditions := []string{"tasks.task_list_id = ?", "tasks.deleted_at IS NULL"}
	args := []any{listID}

	if !filter.IncludeArchived {
		conditions = append(conditions, "tasks.is_archived = 0")
	}
	if !filter.IncludeSubtasks {
		if filter.ParentID != nil {
			conditions = append(conditions, "tasks.parent_id = ?")
			args = append(args, *filter.ParentID)
		} else {
			conditions = append(conditions, "tasks.parent_id IS NULL")
		}
	}
	if filter.StatusID != nil {
		conditions = append(conditions, "tasks.status_id = ?")
		args = append(args, *filter.StatusID)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "tasks.priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, `tasks.id IN (
			SELECT task_id FROM task_users WHERE user_id = ? AND role = ?)`)
		args = append(args, *filter.AssigneeID, model.TaskRoleAssignee)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(tasks.title LIKE ? OR tasks.description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT tasks.* FROM tasks WHERE " + strings.Join(conditions, " AND ")

	sortBy := "tasks.position, tasks.created_at"
	if filter.SortBy != "" {
		allowed := map[string]string{
			"position":   "tasks.position, tasks.created_at",
			"priority":   "tasks.priority",
			"due_date":   "tasks.due_date",
			"created_at": "tasks.created_at",
			"updated_at": "tasks.updated_at",
			"title":      "tasks.title",
		}
		if col, ok := allowed[filter.SortBy]; ok {
			sortBy = col
		}
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var tasks []model.Task
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks of list %s: %w", listID, err)
	}

	for i := range tasks {
		if err := s.attachStatus(ctx, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// GetSubtasks retrieves a task's direct subtasks in positional order.
func (s *SQLiteStore) GetSubtasks(ctx context.Context, taskID string) ([]model.Task, error) {
	var subtasks []model.Task
	err := s.db.SelectContext(ctx, &subtasks, `
		SELECT * FROM tasks WHERE parent_id = ? AND deleted_at IS NULL
		ORDER BY position, created_at`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying subtasks of %s: %w", taskID, err)
	}

	for i := range subtasks {
		if err := s.attachStatus(ctx, &subtasks[i]); err != nil {
			return nil, err
		}
	}
	return subtasks, nil
}

// UpdateTask updates a task's descriptive fields. Status, priority, due
// date, and assignee changes go through their dedicated operations so
// the audit trail stays complete.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return model.NewValidationError("task title must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, start_date = ?,
			time_estimate = ?, is_archived = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		task.Title, task.Description, task.StartDate,
		task.TimeEstimate, boolToInt(task.IsArchived), nowUTC(), task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	return notFoundFromResult(result, "task", task.ID)
}

// ArchiveTask hides a task from default list queries without deleting it.
func (s *SQLiteStore) ArchiveTask(ctx context.Context, actorID, taskID string) error {
	return s.setArchived(ctx, actorID, taskID, true)
}

// UnarchiveTask returns an archived task to default list queries.
func (s *SQLiteStore) UnarchiveTask(ctx context.Context, actorID, taskID string) error {
	return s.setArchived(ctx, actorID, taskID, false)
}

func (s *SQLiteStore) setArchived(ctx context.Context, actorID, taskID string, archived bool) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE tasks SET is_archived = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
			boolToInt(archived), nowUTC(), taskID,
		)
		if err != nil {
			return fmt.Errorf("archiving task %s: %w", taskID, err)
		}
		if err := notFoundFromResult(result, "task", taskID); err != nil {
			return err
		}
		_, err = s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
			model.ActivityUpdated, map[string]any{"is_archived": archived})
		return err
	})
}

// UpdateTaskStatus moves a task to a new status. A no-op when the status
// is unchanged; otherwise the status change, the derived completed_at
// transition, and their activity records commit as one transaction.
func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, actorID, taskID, statusID string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var task model.Task
		err := tx.GetContext(ctx, &task,
			"SELECT * FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("task", taskID)
			}
			return fmt.Errorf("getting task %s: %w", taskID, err)
		}

		if task.StatusID != nil && *task.StatusID == statusID {
			return nil
		}

		var newStatus model.Status
		err = tx.GetContext(ctx, &newStatus,
			"SELECT * FROM statuses WHERE id = ? AND task_list_id = ?",
			statusID, task.TaskListID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("status", statusID)
			}
			return fmt.Errorf("getting status %s: %w", statusID, err)
		}

		now := nowUTC()
		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET status_id = ?, updated_at = ? WHERE id = ?",
			statusID, now, taskID,
		); err != nil {
			return fmt.Errorf("updating status of task %s: %w", taskID, err)
		}

		oldStatus := ""
		if task.StatusID != nil {
			oldStatus = *task.StatusID
		}
		if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
			model.ActivityStatusChanged,
			map[string]any{"old": oldStatus, "new": statusID},
		); err != nil {
			return err
		}

		switch {
		case newStatus.IsClosed && task.CompletedAt == nil:
			if _, err := tx.ExecContext(ctx,
				"UPDATE tasks SET completed_at = ? WHERE id = ?", now, taskID,
			); err != nil {
				return fmt.Errorf("completing task %s: %w", taskID, err)
			}
			if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
				model.ActivityCompleted, nil); err != nil {
				return err
			}
		case !newStatus.IsClosed && task.CompletedAt != nil:
			if _, err := tx.ExecContext(ctx,
				"UPDATE tasks SET completed_at = NULL WHERE id = ?", taskID,
			); err != nil {
				return fmt.Errorf("reopening task %s: %w", taskID, err)
			}
			if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
				model.ActivityReopened, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTaskPriority changes a task's priority, logging only when the
// value actually changes.
func (s *SQLiteStore) UpdateTaskPriority(ctx context.Context, actorID, taskID string, priority int) error {
	if !model.ValidPriority(priority) {
		return model.NewValidationError("priority must be between %d and %d",
			model.PriorityUrgent, model.PriorityLow)
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var current int
		err := tx.GetContext(ctx, &current,
			"SELECT priority FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("task", taskID)
			}
			return fmt.Errorf("getting task %s: %w", taskID, err)
		}
		if current == priority {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET priority = ?, updated_at = ? WHERE id = ?",
			priority, nowUTC(), taskID,
		); err != nil {
			return fmt.Errorf("updating priority of task %s: %w", taskID, err)
		}

		_, err = s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
			model.ActivityPriorityChanged,
			map[string]any{"old": current, "new": priority})
		return err
	})
}

// UpdateTaskDueDate changes a task's due date, logging only on an actual
// change.
func (s *SQLiteStore) UpdateTaskDueDate(ctx context.Context, actorID, taskID string, dueDate *time.Time) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var task model.Task
		err := tx.GetContext(ctx, &task,
			"SELECT * FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("task", taskID)
			}
			return fmt.Errorf("getting task %s: %w", taskID, err)
		}
		if timesEqual(task.DueDate, dueDate) {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET due_date = ?, updated_at = ? WHERE id = ?",
			dueDate, nowUTC(), taskID,
		); err != nil {
			return fmt.Errorf("updating due date of task %s: %w", taskID, err)
		}

		props := map[string]any{"old": formatTimePtr(task.DueDate), "new": formatTimePtr(dueDate)}
		_, err = s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
			model.ActivityDueDateChanged, props)
		return err
	})
}

// SetTaskAssignees replaces the task's assignee set in one operation,
// logging ASSIGNED for each added user and UNASSIGNED for each removed
// one.
func (s *SQLiteStore) SetTaskAssignees(ctx context.Context, actorID, taskID string, assigneeIDs []string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var current []string
		err := tx.SelectContext(ctx, &current,
			"SELECT user_id FROM task_users WHERE task_id = ? AND role = ?",
			taskID, model.TaskRoleAssignee)
		if err != nil {
			return fmt.Errorf("reading assignees of task %s: %w", taskID, err)
		}

		if err := replaceTaskUsers(ctx, tx, taskID, model.TaskRoleAssignee, assigneeIDs); err != nil {
			return err
		}

		added, removed := diffIDs(current, assigneeIDs)
		for _, userID := range added {
			if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
				model.ActivityAssigned, map[string]any{"user_id": userID}); err != nil {
				return err
			}
		}
		for _, userID := range removed {
			if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
				model.ActivityUnassigned, map[string]any{"user_id": userID}); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetTaskWatchers replaces the task's watcher set.
func (s *SQLiteStore) SetTaskWatchers(ctx context.Context, taskID string, watcherIDs []string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return replaceTaskUsers(ctx, tx, taskID, model.TaskRoleWatcher, watcherIDs)
	})
}

// GetTaskUsers retrieves the users linked to a task under one role.
func (s *SQLiteStore) GetTaskUsers(ctx context.Context, taskID, role string) ([]model.User, error) {
	var users []model.User
	err := s.db.SelectContext(ctx, &users, `
		SELECT users.* FROM users
		JOIN task_users tu ON tu.user_id = users.id
		WHERE tu.task_id = ? AND tu.role = ?
		ORDER BY tu.created_at`,
		taskID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %ss of task %s: %w", role, taskID, err)
	}
	return users, nil
}

// MoveTask relocates a task to another list in the same workspace: the
// status resets to the target's default and the task appends to the end
// of the target's ordering. Cross-workspace moves are rejected.
func (s *SQLiteStore) MoveTask(ctx context.Context, actorID, taskID, targetListID string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.GetTaskList(ctx, targetListID); err != nil {
		return err
	}

	sourceWS := s.resolveWorkspace(ctx, s.db, model.ActivitySubject{Type: model.SubjectTaskList, ID: task.TaskListID})
	targetWS := s.resolveWorkspace(ctx, s.db, model.ActivitySubject{Type: model.SubjectTaskList, ID: targetListID})
	if sourceWS == nil || targetWS == nil || *sourceWS != *targetWS {
		return model.NewValidationError("cannot move task to a different workspace")
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var statusID *string
		var defaultID string
		err := tx.GetContext(ctx, &defaultID, `
			SELECT id FROM statuses WHERE task_list_id = ?
			ORDER BY is_default DESC, position, created_at
			LIMIT 1`,
			targetListID,
		)
		switch {
		case err == nil:
			statusID = &defaultID
		case isNoRows(err):
			// Target list transiently has no statuses.
		default:
			return fmt.Errorf("getting default status of list %s: %w", targetListID, err)
		}

		pos, err := nextPosition(ctx, tx,
			"SELECT COALESCE(MAX(position), -1) FROM tasks WHERE task_list_id = ? AND deleted_at IS NULL",
			targetListID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET task_list_id = ?, status_id = ?, position = ?, updated_at = ?
			WHERE id = ?`,
			targetListID, statusID, pos, nowUTC(), taskID,
		); err != nil {
			return fmt.Errorf("moving task %s: %w", taskID, err)
		}
		return nil
	})
}

// ReorderTasks applies position assignments within a list, silently
// skipping tasks that belong to another list. An assignment may also
// carry a status change (board column drags), which is logged.
func (s *SQLiteStore) ReorderTasks(ctx context.Context, actorID, listID string, items []TaskReorderItem) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, item := range items {
			var task model.Task
			err := tx.GetContext(ctx, &task,
				"SELECT * FROM tasks WHERE id = ? AND deleted_at IS NULL", item.ID)
			if err != nil {
				if isNoRows(err) {
					continue
				}
				return fmt.Errorf("getting task %s: %w", item.ID, err)
			}
			if task.TaskListID != listID {
				continue
			}

			if _, err := tx.ExecContext(ctx,
				"UPDATE tasks SET position = ?, updated_at = ? WHERE id = ?",
				item.Position, nowUTC(), item.ID,
			); err != nil {
				return fmt.Errorf("repositioning task %s: %w", item.ID, err)
			}

			if item.StatusID != nil && (task.StatusID == nil || *task.StatusID != *item.StatusID) {
				if _, err := tx.ExecContext(ctx,
					"UPDATE tasks SET status_id = ? WHERE id = ?",
					*item.StatusID, item.ID,
				); err != nil {
					return fmt.Errorf("updating status of task %s: %w", item.ID, err)
				}
				oldStatus := ""
				if task.StatusID != nil {
					oldStatus = *task.StatusID
				}
				if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(item.ID),
					model.ActivityStatusChanged,
					map[string]any{"old": oldStatus, "new": *item.StatusID},
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// DeleteTask records the DELETED activity, then soft-deletes the task
// and its subtasks together.
func (s *SQLiteStore) DeleteTask(ctx context.Context, actorID, taskID string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID)
		if err != nil {
			return fmt.Errorf("checking task %s: %w", taskID, err)
		}
		if exists == 0 {
			return model.NewNotFoundError("task", taskID)
		}

		if _, err := s.logActivity(ctx, tx, actorID, model.TaskSubject(taskID),
			model.ActivityDeleted, nil); err != nil {
			return err
		}

		now := nowUTC()
		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET deleted_at = ?
			WHERE (id = ? OR parent_id = ?) AND deleted_at IS NULL`,
			now, taskID, taskID,
		); err != nil {
			return fmt.Errorf("deleting task %s: %w", taskID, err)
		}
		return nil
	})
}

// TaskProgress computes the task's completion percentage: 0/100 by its
// own completion state when it has no subtasks, otherwise the rounded
// share of completed subtasks. Completion OR-combines completed_at with
// the status closed flag.
func (s *SQLiteStore) TaskProgress(ctx context.Context, taskID string) (int, error) {
	var counts struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	err := s.db.GetContext(ctx, &counts, `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN t.completed_at IS NOT NULL OR COALESCE(st.is_closed, 0) = 1
				THEN 1 ELSE 0 END), 0) AS completed
		FROM tasks t
		LEFT JOIN statuses st ON st.id = t.status_id
		WHERE t.parent_id = ? AND t.deleted_at IS NULL`,
		taskID,
	)
	if err != nil {
		return 0, fmt.Errorf("counting subtasks of %s: %w", taskID, err)
	}

	if counts.Total == 0 {
		task, err := s.GetTask(ctx, taskID)
		if err != nil {
			return 0, err
		}
		if task.IsCompleted() {
			return 100, nil
		}
		return 0, nil
	}

	return int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100)), nil
}

// attachStatus populates task.Status when a status is assigned.
func (s *SQLiteStore) attachStatus(ctx context.Context, task *model.Task) error {
	if task.StatusID == nil {
		return nil
	}
	var status model.Status
	err := s.db.GetContext(ctx, &status,
		"SELECT * FROM statuses WHERE id = ?", *task.StatusID)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return fmt.Errorf("loading status of task %s: %w", task.ID, err)
	}
	task.Status = &status
	return nil
}

// replaceTaskUsers swaps the full set of task-user links for one role.
func replaceTaskUsers(ctx context.Context, tx *sqlx.Tx, taskID, role string, userIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM task_users WHERE task_id = ? AND role = ?", taskID, role,
	); err != nil {
		return fmt.Errorf("clearing %ss of task %s: %w", role, taskID, err)
	}

	now := nowUTC()
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_users (task_id, user_id, role, created_at)
			VALUES (?, ?, ?, ?)`,
			taskID, userID, role, now,
		); err != nil {
			return fmt.Errorf("linking user %s to task %s: %w", userID, taskID, err)
		}
	}
	return nil
}

// diffIDs computes added and removed elements between two ID sets.
func diffIDs(current, next []string) (added, removed []string) {
	currentSet := make(map[string]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	nextSet := make(map[string]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
	}

	for _, id := range next {
		if !currentSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// timesEqual compares two optional timestamps.
func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// formatTimePtr renders an optional timestamp for activity properties.
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
