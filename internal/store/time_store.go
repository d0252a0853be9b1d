package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// StartTimer opens a running time entry on a task for a user. Any entry
// the user already has running, on any task, is stopped first and its
// elapsed minutes credited, so a user never has two timers at once.
func (s *SQLiteStore) StartTimer(ctx context.Context, userID, taskID, description string) (*model.TimeEntry, error) {
	entry := model.TimeEntry{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		UserID:      userID,
		Description: description,
		StartedAt:   nowUTC(),
		IsBillable:  false,
	}
	entry.CreatedAt = entry.StartedAt
	entry.UpdatedAt = entry.StartedAt

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID)
		if err != nil {
			return fmt.Errorf("checking task %s: %w", taskID, err)
		}
		if exists == 0 {
			return model.NewNotFoundError("task", taskID)
		}

		if err := stopRunningEntries(ctx, tx, userID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO time_entries (id, task_id, user_id, description, started_at,
				ended_at, duration, is_billable, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, NULL, 0, ?, ?, ?)`,
			entry.ID, entry.TaskID, entry.UserID, entry.Description,
			entry.StartedAt, boolToInt(entry.IsBillable),
			entry.CreatedAt, entry.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("starting timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// StopTimer closes a running time entry: the end time is stamped, the
// elapsed whole minutes become the duration, and the task's time_spent
// is credited. Only the entry's owner may stop it.
func (s *SQLiteStore) StopTimer(ctx context.Context, userID, entryID string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &entry,
			"SELECT * FROM time_entries WHERE id = ?", entryID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("time entry", entryID)
			}
			return fmt.Errorf("getting time entry %s: %w", entryID, err)
		}
		if entry.UserID != userID {
			return model.NewAuthorizationError("only the owner can stop a time entry")
		}
		if !entry.IsRunning() {
			return model.NewValidationError("time entry is not running")
		}

		now := nowUTC()
		minutes := model.DurationMinutes(entry.StartedAt, now)
		if _, err := tx.ExecContext(ctx, `
			UPDATE time_entries SET ended_at = ?, duration = ?, updated_at = ?
			WHERE id = ?`,
			now, minutes, now, entryID,
		); err != nil {
			return fmt.Errorf("stopping time entry %s: %w", entryID, err)
		}
		if err := adjustTimeSpent(ctx, tx, entry.TaskID, minutes); err != nil {
			return err
		}

		entry.EndedAt = &now
		entry.Duration = minutes
		entry.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetRunningTimer returns the user's currently running entry, or nil
// when none is running.
func (s *SQLiteStore) GetRunningTimer(ctx context.Context, userID string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := s.db.GetContext(ctx, &entry, `
		SELECT * FROM time_entries
		WHERE user_id = ? AND ended_at IS NULL AND duration = 0
		ORDER BY started_at DESC LIMIT 1`,
		userID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting running timer of %s: %w", userID, err)
	}
	return &entry, nil
}

// manualDuration validates a manual entry's interval and resolves its
// duration. An end time is optional when an explicit duration is given;
// the duration is derived from the interval only when omitted.
func manualDuration(input TimeEntryInput) (int, error) {
	if input.EndedAt != nil && !input.EndedAt.After(input.StartedAt) {
		return 0, model.NewValidationError("end time must be after start time")
	}
	duration := input.Duration
	if duration == 0 {
		if input.EndedAt == nil {
			return 0, model.NewValidationError("manual time entries need an end time or a duration")
		}
		duration = model.DurationMinutes(input.StartedAt, *input.EndedAt)
	}
	if duration < 0 {
		return 0, model.NewValidationError("duration must not be negative")
	}
	return duration, nil
}

// CreateTimeEntry records a manual entry. The duration is derived from
// the interval when omitted, and the task's time_spent is credited
// immediately.
func (s *SQLiteStore) CreateTimeEntry(ctx context.Context, userID, taskID string, input TimeEntryInput) (*model.TimeEntry, error) {
	duration, err := manualDuration(input)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	entry := model.TimeEntry{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		UserID:      userID,
		Description: input.Description,
		StartedAt:   input.StartedAt,
		EndedAt:     input.EndedAt,
		Duration:    duration,
		IsBillable:  input.IsBillable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID)
		if err != nil {
			return fmt.Errorf("checking task %s: %w", taskID, err)
		}
		if exists == 0 {
			return model.NewNotFoundError("task", taskID)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO time_entries (id, task_id, user_id, description, started_at,
				ended_at, duration, is_billable, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.TaskID, entry.UserID, entry.Description,
			entry.StartedAt, entry.EndedAt, entry.Duration,
			boolToInt(entry.IsBillable), entry.CreatedAt, entry.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating time entry: %w", err)
		}
		return adjustTimeSpent(ctx, tx, taskID, entry.Duration)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateTimeEntry edits a closed entry. The task's time_spent is
// adjusted by the duration delta. The owner, or a workspace admin, may
// edit.
func (s *SQLiteStore) UpdateTimeEntry(ctx context.Context, actorID, entryID string, input TimeEntryInput) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var entry model.TimeEntry
		err := tx.GetContext(ctx, &entry,
			"SELECT * FROM time_entries WHERE id = ?", entryID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("time entry", entryID)
			}
			return fmt.Errorf("getting time entry %s: %w", entryID, err)
		}
		if entry.IsRunning() {
			return model.NewValidationError("cannot edit a running time entry")
		}
		if err := s.authorizeEntry(ctx, tx, actorID, &entry); err != nil {
			return err
		}

		duration, err := manualDuration(input)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE time_entries SET description = ?, started_at = ?, ended_at = ?,
				duration = ?, is_billable = ?, updated_at = ?
			WHERE id = ?`,
			input.Description, input.StartedAt, input.EndedAt,
			duration, boolToInt(input.IsBillable), nowUTC(), entryID,
		); err != nil {
			return fmt.Errorf("updating time entry %s: %w", entryID, err)
		}
		return adjustTimeSpent(ctx, tx, entry.TaskID, duration-entry.Duration)
	})
}

// DeleteTimeEntry removes an entry and reverses its credit on the
// task's time_spent. The owner, or a workspace admin, may delete.
func (s *SQLiteStore) DeleteTimeEntry(ctx context.Context, actorID, entryID string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var entry model.TimeEntry
		err := tx.GetContext(ctx, &entry,
			"SELECT * FROM time_entries WHERE id = ?", entryID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("time entry", entryID)
			}
			return fmt.Errorf("getting time entry %s: %w", entryID, err)
		}
		if err := s.authorizeEntry(ctx, tx, actorID, &entry); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM time_entries WHERE id = ?", entryID,
		); err != nil {
			return fmt.Errorf("deleting time entry %s: %w", entryID, err)
		}
		if entry.Duration > 0 {
			return adjustTimeSpent(ctx, tx, entry.TaskID, -entry.Duration)
		}
		return nil
	})
}

// GetTaskTimeEntries retrieves a task's time entries, most recent start
// first.
func (s *SQLiteStore) GetTaskTimeEntries(ctx context.Context, taskID string) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT * FROM time_entries WHERE task_id = ?
		ORDER BY started_at DESC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying time entries of task %s: %w", taskID, err)
	}
	return entries, nil
}

// authorizeEntry permits the entry's owner, or an admin of the
// workspace the entry's task lives in.
func (s *SQLiteStore) authorizeEntry(ctx context.Context, tx *sqlx.Tx, actorID string, entry *model.TimeEntry) error {
	if entry.UserID == actorID {
		return nil
	}
	workspaceID := s.resolveWorkspace(ctx, tx, model.TaskSubject(entry.TaskID))
	if workspaceID != nil {
		var isAdmin int
		err := tx.GetContext(ctx, &isAdmin, `
			SELECT COUNT(*) FROM workspace_members
			WHERE workspace_id = ? AND user_id = ? AND role IN (?, ?)`,
			*workspaceID, actorID, model.RoleOwner, model.RoleAdmin,
		)
		if err != nil {
			return fmt.Errorf("checking admin of workspace %s: %w", *workspaceID, err)
		}
		if isAdmin > 0 {
			return nil
		}
	}
	return model.NewAuthorizationError("only the owner or a workspace admin can modify a time entry")
}

// stopRunningEntries closes every running entry of a user, crediting
// each entry's task.
func stopRunningEntries(ctx context.Context, tx *sqlx.Tx, userID string) error {
	var running []model.TimeEntry
	err := tx.SelectContext(ctx, &running,
		"SELECT * FROM time_entries WHERE user_id = ? AND ended_at IS NULL AND duration = 0", userID)
	if err != nil {
		return fmt.Errorf("finding running entries of %s: %w", userID, err)
	}

	now := nowUTC()
	for _, entry := range running {
		minutes := model.DurationMinutes(entry.StartedAt, now)
		if _, err := tx.ExecContext(ctx, `
			UPDATE time_entries SET ended_at = ?, duration = ?, updated_at = ?
			WHERE id = ?`,
			now, minutes, now, entry.ID,
		); err != nil {
			return fmt.Errorf("stopping time entry %s: %w", entry.ID, err)
		}
		if err := adjustTimeSpent(ctx, tx, entry.TaskID, minutes); err != nil {
			return err
		}
	}
	return nil
}

// adjustTimeSpent shifts a task's accumulated minutes, clamping at zero.
func adjustTimeSpent(ctx context.Context, tx *sqlx.Tx, taskID string, delta int) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE tasks SET time_spent = MAX(0, time_spent + ?), updated_at = ?
		WHERE id = ?`,
		delta, nowUTC(), taskID,
	)
	if err != nil {
		return fmt.Errorf("adjusting time spent of task %s: %w", taskID, err)
	}
	return nil
}
