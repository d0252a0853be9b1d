package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateSpace inserts a new space at the end of the workspace's space
// ordering. The slug defaults to the slugified name and must be unique
// within the workspace.
func (s *SQLiteStore) CreateSpace(ctx context.Context, space model.Space) (*model.Space, error) {
	if strings.TrimSpace(space.Name) == "" {
		return nil, model.NewValidationError("space name must not be empty")
	}
	if space.ID == "" {
		space.ID = uuid.New().String()
	}
	if space.Slug == "" {
		space.Slug = model.Slugify(space.Name)
	}
	now := nowUTC()
	space.CreatedAt = now
	space.UpdatedAt = now

	pos, err := nextPosition(ctx, s.db,
		"SELECT COALESCE(MAX(position), -1) FROM spaces WHERE workspace_id = ? AND deleted_at IS NULL",
		space.WorkspaceID)
	if err != nil {
		return nil, err
	}
	space.Position = pos

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO spaces (id, workspace_id, name, slug, description, color, icon,
			is_private, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		space.ID, space.WorkspaceID, space.Name, space.Slug, space.Description,
		space.Color, space.Icon, boolToInt(space.IsPrivate), space.Position,
		space.CreatedAt, space.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating space: %w", err)
	}
	return &space, nil
}

// GetSpace retrieves a space by ID.
func (s *SQLiteStore) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	var space model.Space
	err := s.db.GetContext(ctx, &space,
		"SELECT * FROM spaces WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("space", id)
		}
		return nil, fmt.Errorf("getting space %s: %w", id, err)
	}
	return &space, nil
}

// GetWorkspaceSpaces retrieves a workspace's spaces in positional order,
// breaking position ties on creation time.
func (s *SQLiteStore) GetWorkspaceSpaces(ctx context.Context, workspaceID string) ([]model.Space, error) {
	var spaces []model.Space
	err := s.db.SelectContext(ctx, &spaces, `
		SELECT * FROM spaces WHERE workspace_id = ? AND deleted_at IS NULL
		ORDER BY position, created_at`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying spaces of workspace %s: %w", workspaceID, err)
	}
	return spaces, nil
}

// UpdateSpace updates a space's mutable fields.
func (s *SQLiteStore) UpdateSpace(ctx context.Context, space model.Space) error {
	if strings.TrimSpace(space.Name) == "" {
		return model.NewValidationError("space name must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE spaces SET name = ?, description = ?, color = ?, icon = ?,
			is_private = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		space.Name, space.Description, space.Color, space.Icon,
		boolToInt(space.IsPrivate), nowUTC(), space.ID,
	)
	if err != nil {
		return fmt.Errorf("updating space %s: %w", space.ID, err)
	}
	return notFoundFromResult(result, "space", space.ID)
}

// DeleteSpace soft-deletes a space.
func (s *SQLiteStore) DeleteSpace(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE spaces SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("deleting space %s: %w", id, err)
	}
	return notFoundFromResult(result, "space", id)
}

// ReorderSpaces applies position assignments scoped to a workspace.
// Assignments for spaces of other workspaces are skipped silently.
func (s *SQLiteStore) ReorderSpaces(ctx context.Context, workspaceID string, assignments []PositionAssignment) error {
	return applyReorder(ctx, s.db,
		"UPDATE spaces SET position = ? WHERE id = ? AND workspace_id = ?",
		workspaceID, assignments)
}

// AddSpaceMember grants a user access to a private space.
func (s *SQLiteStore) AddSpaceMember(ctx context.Context, spaceID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO space_members (space_id, user_id) VALUES (?, ?)",
		spaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("adding member %s to space %s: %w", userID, spaceID, err)
	}
	return nil
}

// RemoveSpaceMember revokes a user's private-space access.
func (s *SQLiteStore) RemoveSpaceMember(ctx context.Context, spaceID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM space_members WHERE space_id = ? AND user_id = ?",
		spaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing member %s from space %s: %w", userID, spaceID, err)
	}
	return nil
}

// CanAccessSpace reports whether a user may view a space: workspace
// membership suffices for public spaces, private spaces require an
// explicit space membership row.
func (s *SQLiteStore) CanAccessSpace(ctx context.Context, spaceID, userID string) (bool, error) {
	space, err := s.GetSpace(ctx, spaceID)
	if err != nil {
		return false, err
	}

	if !space.IsPrivate {
		return s.IsWorkspaceMember(ctx, space.WorkspaceID, userID)
	}

	var count int
	err = s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM space_members WHERE space_id = ? AND user_id = ?",
		spaceID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("checking space membership: %w", err)
	}
	return count > 0, nil
}
