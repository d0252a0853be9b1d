package store

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateChecklist adds a checklist to a task, appended after its existing
// checklists.
func (s *SQLiteStore) CreateChecklist(ctx context.Context, checklist model.Checklist) (*model.Checklist, error) {
	if strings.TrimSpace(checklist.Name) == "" {
		return nil, model.NewValidationError("checklist name must not be empty")
	}
	if checklist.ID == "" {
		checklist.ID = uuid.New().String()
	}
	checklist.CreatedAt = nowUTC()

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM tasks WHERE id = ? AND deleted_at IS NULL",
			checklist.TaskID)
		if err != nil {
			return fmt.Errorf("checking task %s: %w", checklist.TaskID, err)
		}
		if exists == 0 {
			return model.NewNotFoundError("task", checklist.TaskID)
		}

		pos, err := nextPosition(ctx, tx,
			"SELECT COALESCE(MAX(position), -1) FROM checklists WHERE task_id = ?",
			checklist.TaskID)
		if err != nil {
			return err
		}
		checklist.Position = pos

		_, err = tx.ExecContext(ctx, `
			INSERT INTO checklists (id, task_id, name, position, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			checklist.ID, checklist.TaskID, checklist.Name, checklist.Position,
			checklist.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating checklist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

// UpdateChecklist renames a checklist.
func (s *SQLiteStore) UpdateChecklist(ctx context.Context, checklist model.Checklist) error {
	if strings.TrimSpace(checklist.Name) == "" {
		return model.NewValidationError("checklist name must not be empty")
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE checklists SET name = ? WHERE id = ?",
		checklist.Name, checklist.ID,
	)
	if err != nil {
		return fmt.Errorf("updating checklist %s: %w", checklist.ID, err)
	}
	return notFoundFromResult(result, "checklist", checklist.ID)
}

// DeleteChecklist removes a checklist and its items.
func (s *SQLiteStore) DeleteChecklist(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM checklist_items WHERE checklist_id = ?", id,
		); err != nil {
			return fmt.Errorf("deleting items of checklist %s: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM checklists WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting checklist %s: %w", id, err)
		}
		return notFoundFromResult(result, "checklist", id)
	})
}

// GetTaskChecklists retrieves a task's checklists in positional order,
// each with its items populated.
func (s *SQLiteStore) GetTaskChecklists(ctx context.Context, taskID string) ([]model.Checklist, error) {
	var checklists []model.Checklist
	err := s.db.SelectContext(ctx, &checklists, `
		SELECT * FROM checklists WHERE task_id = ?
		ORDER BY position, created_at`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying checklists of task %s: %w", taskID, err)
	}

	for i := range checklists {
		items, err := s.GetChecklistItems(ctx, checklists[i].ID)
		if err != nil {
			return nil, err
		}
		checklists[i].Items = items
	}
	return checklists, nil
}

// AddChecklistItem appends an item to a checklist.
func (s *SQLiteStore) AddChecklistItem(ctx context.Context, item model.ChecklistItem) (*model.ChecklistItem, error) {
	if strings.TrimSpace(item.Content) == "" {
		return nil, model.NewValidationError("checklist item content must not be empty")
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = nowUTC()

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM checklists WHERE id = ?", item.ChecklistID)
		if err != nil {
			return fmt.Errorf("checking checklist %s: %w", item.ChecklistID, err)
		}
		if exists == 0 {
			return model.NewNotFoundError("checklist", item.ChecklistID)
		}

		pos, err := nextPosition(ctx, tx,
			"SELECT COALESCE(MAX(position), -1) FROM checklist_items WHERE checklist_id = ?",
			item.ChecklistID)
		if err != nil {
			return err
		}
		item.Position = pos

		_, err = tx.ExecContext(ctx, `
			INSERT INTO checklist_items (id, checklist_id, assignee_id, content,
				is_completed, completed_at, due_date, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.ChecklistID, item.AssigneeID, item.Content,
			boolToInt(item.IsCompleted), item.CompletedAt, item.DueDate,
			item.Position, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("adding checklist item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateChecklistItem edits an item's content, assignee, and due date.
// Completion state goes through MarkChecklistItemComplete/Incomplete so
// the flag and timestamp always move together.
func (s *SQLiteStore) UpdateChecklistItem(ctx context.Context, item model.ChecklistItem) error {
	if strings.TrimSpace(item.Content) == "" {
		return model.NewValidationError("checklist item content must not be empty")
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE checklist_items SET content = ?, assignee_id = ?, due_date = ?
		WHERE id = ?`,
		item.Content, item.AssigneeID, item.DueDate, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating checklist item %s: %w", item.ID, err)
	}
	return notFoundFromResult(result, "checklist item", item.ID)
}

// DeleteChecklistItem removes an item.
func (s *SQLiteStore) DeleteChecklistItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM checklist_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checklist item %s: %w", id, err)
	}
	return notFoundFromResult(result, "checklist item", id)
}

// GetChecklistItems retrieves a checklist's items in positional order.
func (s *SQLiteStore) GetChecklistItems(ctx context.Context, checklistID string) ([]model.ChecklistItem, error) {
	var items []model.ChecklistItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM checklist_items WHERE checklist_id = ?
		ORDER BY position, created_at`,
		checklistID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying items of checklist %s: %w", checklistID, err)
	}
	return items, nil
}

// MarkChecklistItemComplete sets the completion flag and timestamp in
// one statement.
func (s *SQLiteStore) MarkChecklistItemComplete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE checklist_items SET is_completed = 1, completed_at = ?
		WHERE id = ?`,
		nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("completing checklist item %s: %w", id, err)
	}
	return notFoundFromResult(result, "checklist item", id)
}

// MarkChecklistItemIncomplete clears the completion flag and timestamp.
func (s *SQLiteStore) MarkChecklistItemIncomplete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE checklist_items SET is_completed = 0, completed_at = NULL
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("reopening checklist item %s: %w", id, err)
	}
	return notFoundFromResult(result, "checklist item", id)
}

// ReorderChecklistItems applies position assignments within a checklist.
func (s *SQLiteStore) ReorderChecklistItems(ctx context.Context, checklistID string, assignments []PositionAssignment) error {
	return applyReorder(ctx, s.db,
		"UPDATE checklist_items SET position = ? WHERE id = ? AND checklist_id = ?",
		checklistID, assignments)
}

// ChecklistProgress computes the rounded completion percentage of a
// checklist; an empty checklist counts as 0.
func (s *SQLiteStore) ChecklistProgress(ctx context.Context, checklistID string) (int, error) {
	var counts struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	err := s.db.GetContext(ctx, &counts, `
		SELECT COUNT(*) AS total, COALESCE(SUM(is_completed), 0) AS completed
		FROM checklist_items WHERE checklist_id = ?`,
		checklistID,
	)
	if err != nil {
		return 0, fmt.Errorf("counting items of checklist %s: %w", checklistID, err)
	}
	if counts.Total == 0 {
		return 0, nil
	}
	return int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100)), nil
}
