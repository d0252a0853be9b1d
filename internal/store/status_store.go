package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateStatus appends a status to the end of the list's status
// ordering. Type defaults to custom.
func (s *SQLiteStore) CreateStatus(ctx context.Context, status model.Status) (*model.Status, error) {
	if strings.TrimSpace(status.Name) == "" {
		return nil, model.NewValidationError("status name must not be empty")
	}
	if status.Type == "" {
		status.Type = model.StatusTypeCustom
	}
	if !model.ValidStatusType(status.Type) {
		return nil, model.NewValidationError("unknown status type %q", status.Type)
	}
	if status.ID == "" {
		status.ID = uuid.New().String()
	}
	status.CreatedAt = nowUTC()

	pos, err := nextPosition(ctx, s.db,
		"SELECT COALESCE(MAX(position), -1) FROM statuses WHERE task_list_id = ?",
		status.TaskListID)
	if err != nil {
		return nil, err
	}
	status.Position = pos

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if status.IsDefault {
			if err := clearDefaultStatus(ctx, tx, status.TaskListID, status.ID); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO statuses (id, task_list_id, name, color, type, position,
				is_default, is_closed, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			status.ID, status.TaskListID, status.Name, status.Color, status.Type,
			status.Position, boolToInt(status.IsDefault), boolToInt(status.IsClosed),
			status.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetListStatuses retrieves a list's statuses in positional order,
// breaking position ties on creation time.
func (s *SQLiteStore) GetListStatuses(ctx context.Context, listID string) ([]model.Status, error) {
	var statuses []model.Status
	err := s.db.SelectContext(ctx, &statuses, `
		SELECT * FROM statuses WHERE task_list_id = ?
		ORDER BY position, created_at`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying statuses of list %s: %w", listID, err)
	}
	return statuses, nil
}

// GetDefaultStatus returns the list's default status: the one flagged
// default, else the first by position, else nil when the list has no
// statuses (a transient state only).
func (s *SQLiteStore) GetDefaultStatus(ctx context.Context, listID string) (*model.Status, error) {
	var status model.Status
	err := s.db.GetContext(ctx, &status, `
		SELECT * FROM statuses WHERE task_list_id = ?
		ORDER BY is_default DESC, position, created_at
		LIMIT 1`,
		listID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting default status of list %s: %w", listID, err)
	}
	return &status, nil
}

// UpdateStatus updates a status. Setting is_default clears the flag on
// every sibling first, inside one transaction, so the list ends up with
// exactly one default.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, status model.Status) error {
	if strings.TrimSpace(status.Name) == "" {
		return model.NewValidationError("status name must not be empty")
	}
	if status.Type != "" && !model.ValidStatusType(status.Type) {
		return model.NewValidationError("unknown status type %q", status.Type)
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var listID string
		err := tx.GetContext(ctx, &listID,
			"SELECT task_list_id FROM statuses WHERE id = ?", status.ID)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("status", status.ID)
			}
			return fmt.Errorf("getting status %s: %w", status.ID, err)
		}

		if status.IsDefault {
			if err := clearDefaultStatus(ctx, tx, listID, status.ID); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE statuses SET name = ?, color = ?, type = ?, is_default = ?, is_closed = ?
			WHERE id = ?`,
			status.Name, status.Color, status.Type,
			boolToInt(status.IsDefault), boolToInt(status.IsClosed), status.ID,
		)
		if err != nil {
			return fmt.Errorf("updating status %s: %w", status.ID, err)
		}
		return nil
	})
}

// DeleteStatus removes a status after migrating its tasks to a
// replacement: the list's other default status if one exists, otherwise
// the first remaining status by position. Deleting the last status is
// rejected so every list always keeps at least one.
func (s *SQLiteStore) DeleteStatus(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var status model.Status
		err := tx.GetContext(ctx, &status, "SELECT * FROM statuses WHERE id = ?", id)
		if err != nil {
			if isNoRows(err) {
				return model.NewNotFoundError("status", id)
			}
			return fmt.Errorf("getting status %s: %w", id, err)
		}

		var count int
		err = tx.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM statuses WHERE task_list_id = ?", status.TaskListID)
		if err != nil {
			return fmt.Errorf("counting statuses: %w", err)
		}
		if count <= 1 {
			return model.NewValidationError("cannot delete the only status of a list")
		}

		var replacement model.Status
		err = tx.GetContext(ctx, &replacement, `
			SELECT * FROM statuses WHERE task_list_id = ? AND id != ?
			ORDER BY is_default DESC, position, created_at
			LIMIT 1`,
			status.TaskListID, id,
		)
		if err != nil {
			return fmt.Errorf("picking replacement status: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET status_id = ? WHERE status_id = ?",
			replacement.ID, id,
		); err != nil {
			return fmt.Errorf("migrating tasks off status %s: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM statuses WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting status %s: %w", id, err)
		}
		return nil
	})
}

// ReorderStatuses applies position assignments scoped to a list.
func (s *SQLiteStore) ReorderStatuses(ctx context.Context, listID string, assignments []PositionAssignment) error {
	return applyReorder(ctx, s.db,
		"UPDATE statuses SET position = ? WHERE id = ? AND task_list_id = ?",
		listID, assignments)
}

// clearDefaultStatus clears the default flag on every status of the
// list except keepID.
func clearDefaultStatus(ctx context.Context, e sqlx.ExecerContext, listID, keepID string) error {
	_, err := e.ExecContext(ctx,
		"UPDATE statuses SET is_default = 0 WHERE task_list_id = ? AND id != ?",
		listID, keepID,
	)
	if err != nil {
		return fmt.Errorf("clearing default statuses: %w", err)
	}
	return nil
}
