package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateFolder inserts a new folder at the end of the space's folder
// ordering.
func (s *SQLiteStore) CreateFolder(ctx context.Context, folder model.Folder) (*model.Folder, error) {
	if strings.TrimSpace(folder.Name) == "" {
		return nil, model.NewValidationError("folder name must not be empty")
	}
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	now := nowUTC()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	pos, err := nextPosition(ctx, s.db,
		"SELECT COALESCE(MAX(position), -1) FROM folders WHERE space_id = ? AND deleted_at IS NULL",
		folder.SpaceID)
	if err != nil {
		return nil, err
	}
	folder.Position = pos

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO folders (id, space_id, name, color, position, is_hidden, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		folder.ID, folder.SpaceID, folder.Name, folder.Color, folder.Position,
		boolToInt(folder.IsHidden), folder.CreatedAt, folder.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}
	return &folder, nil
}

// GetSpaceFolders retrieves a space's folders in positional order.
func (s *SQLiteStore) GetSpaceFolders(ctx context.Context, spaceID string) ([]model.Folder, error) {
	var folders []model.Folder
	err := s.db.SelectContext(ctx, &folders, `
		SELECT * FROM folders WHERE space_id = ? AND deleted_at IS NULL
		ORDER BY position, created_at`,
		spaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying folders of space %s: %w", spaceID, err)
	}
	return folders, nil
}

// UpdateFolder updates a folder's mutable fields.
func (s *SQLiteStore) UpdateFolder(ctx context.Context, folder model.Folder) error {
	if strings.TrimSpace(folder.Name) == "" {
		return model.NewValidationError("folder name must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE folders SET name = ?, color = ?, is_hidden = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		folder.Name, folder.Color, boolToInt(folder.IsHidden), nowUTC(), folder.ID,
	)
	if err != nil {
		return fmt.Errorf("updating folder %s: %w", folder.ID, err)
	}
	return notFoundFromResult(result, "folder", folder.ID)
}

// DeleteFolder soft-deletes a folder. Its lists survive and become
// folderless.
func (s *SQLiteStore) DeleteFolder(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE folders SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("deleting folder %s: %w", id, err)
	}
	if err := notFoundFromResult(result, "folder", id); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE task_lists SET folder_id = NULL WHERE folder_id = ?", id)
	if err != nil {
		return fmt.Errorf("detaching lists from folder %s: %w", id, err)
	}
	return nil
}

// ReorderFolders applies position assignments scoped to a space.
func (s *SQLiteStore) ReorderFolders(ctx context.Context, spaceID string, assignments []PositionAssignment) error {
	return applyReorder(ctx, s.db,
		"UPDATE folders SET position = ? WHERE id = ? AND space_id = ?",
		spaceID, assignments)
}
