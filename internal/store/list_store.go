package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// defaultStatusSeed is the status workflow every new list starts with.
var defaultStatusSeed = []model.Status{
	{Name: "To Do", Color: "#6b7280", Type: model.StatusTypeOpen, IsDefault: true},
	{Name: "In Progress", Color: "#3b82f6", Type: model.StatusTypeInProgress},
	{Name: "Done", Color: "#22c55e", Type: model.StatusTypeDone, IsClosed: true},
}

// CreateTaskList inserts a new list at the end of the space's list
// ordering and seeds it with the default three-status workflow, keeping
// the at-least-one-status invariant from the moment the list exists.
func (s *SQLiteStore) CreateTaskList(ctx context.Context, list model.TaskList) (*model.TaskList, error) {
	if strings.TrimSpace(list.Name) == "" {
		return nil, model.NewValidationError("list name must not be empty")
	}
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.Slug == "" {
		list.Slug = model.Slugify(list.Name)
	}
	now := nowUTC()
	list.CreatedAt = now
	list.UpdatedAt = now
	list.TaskCounter = 0

	pos, err := nextPosition(ctx, s.db,
		"SELECT COALESCE(MAX(position), -1) FROM task_lists WHERE space_id = ? AND deleted_at IS NULL",
		list.SpaceID)
	if err != nil {
		return nil, err
	}
	list.Position = pos

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_lists (id, space_id, folder_id, name, slug, description,
				color, position, task_counter, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			list.ID, list.SpaceID, list.FolderID, list.Name, list.Slug,
			list.Description, list.Color, list.Position, list.TaskCounter,
			list.CreatedAt, list.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating list: %w", err)
		}

		for i, seed := range defaultStatusSeed {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO statuses (id, task_list_id, name, color, type, position,
					is_default, is_closed, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.New().String(), list.ID, seed.Name, seed.Color, seed.Type, i,
				boolToInt(seed.IsDefault), boolToInt(seed.IsClosed), now,
			)
			if err != nil {
				return fmt.Errorf("seeding status %q: %w", seed.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetTaskList retrieves a list by ID.
func (s *SQLiteStore) GetTaskList(ctx context.Context, id string) (*model.TaskList, error) {
	var list model.TaskList
	err := s.db.GetContext(ctx, &list,
		"SELECT * FROM task_lists WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("list", id)
		}
		return nil, fmt.Errorf("getting list %s: %w", id, err)
	}
	return &list, nil
}

// GetSpaceTaskLists retrieves all of a space's lists in positional order.
func (s *SQLiteStore) GetSpaceTaskLists(ctx context.Context, spaceID string) ([]model.TaskList, error) {
	var lists []model.TaskList
	err := s.db.SelectContext(ctx, &lists, `
		SELECT * FROM task_lists WHERE space_id = ? AND deleted_at IS NULL
		ORDER BY position, created_at`,
		spaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying lists of space %s: %w", spaceID, err)
	}
	return lists, nil
}

// GetFolderlessTaskLists retrieves the space's lists that sit outside
// any folder.
func (s *SQLiteStore) GetFolderlessTaskLists(ctx context.Context, spaceID string) ([]model.TaskList, error) {
	var lists []model.TaskList
	err := s.db.SelectContext(ctx, &lists, `
		SELECT * FROM task_lists
		WHERE space_id = ? AND folder_id IS NULL AND deleted_at IS NULL
		ORDER BY position, created_at`,
		spaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying folderless lists of space %s: %w", spaceID, err)
	}
	return lists, nil
}

// UpdateTaskList updates a list's mutable fields, including its folder
// assignment.
func (s *SQLiteStore) UpdateTaskList(ctx context.Context, list model.TaskList) error {
	if strings.TrimSpace(list.Name) == "" {
		return model.NewValidationError("list name must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE task_lists SET folder_id = ?, name = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		list.FolderID, list.Name, list.Description, list.Color, nowUTC(), list.ID,
	)
	if err != nil {
		return fmt.Errorf("updating list %s: %w", list.ID, err)
	}
	return notFoundFromResult(result, "list", list.ID)
}

// DeleteTaskList soft-deletes a list and, by the same convention, its
// live tasks.
func (s *SQLiteStore) DeleteTaskList(ctx context.Context, id string) error {
	now := nowUTC()
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE task_lists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
			now, id,
		)
		if err != nil {
			return fmt.Errorf("deleting list %s: %w", id, err)
		}
		if err := notFoundFromResult(result, "list", id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE tasks SET deleted_at = ? WHERE task_list_id = ? AND deleted_at IS NULL",
			now, id,
		)
		if err != nil {
			return fmt.Errorf("deleting tasks of list %s: %w", id, err)
		}
		return nil
	})
}

// ReorderTaskLists applies position assignments scoped to a space.
func (s *SQLiteStore) ReorderTaskLists(ctx context.Context, spaceID string, assignments []PositionAssignment) error {
	return applyReorder(ctx, s.db,
		"UPDATE task_lists SET position = ? WHERE id = ? AND space_id = ?",
		spaceID, assignments)
}
