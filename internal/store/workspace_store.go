package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateWorkspace inserts a new workspace and attaches the owner as a
// member with the owner role in the same transaction, so the
// exactly-one-owner invariant holds from the first row.
func (s *SQLiteStore) CreateWorkspace(ctx context.Context, ws model.Workspace) (*model.Workspace, error) {
	if strings.TrimSpace(ws.Name) == "" {
		return nil, model.NewValidationError("workspace name must not be empty")
	}
	if ws.OwnerID == "" {
		return nil, model.NewValidationError("workspace owner must be set")
	}
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	if ws.Slug == "" {
		// Random suffix keeps slugs globally unique across same-named workspaces.
		ws.Slug = model.Slugify(ws.Name) + "-" + uuid.New().String()[:6]
	}
	now := nowUTC()
	ws.CreatedAt = now
	ws.UpdatedAt = now

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workspaces (id, name, slug, description, color, owner_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ws.ID, ws.Name, ws.Slug, ws.Description, ws.Color, ws.OwnerID,
			ws.CreatedAt, ws.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?)`,
			ws.ID, ws.OwnerID, model.RoleOwner, now,
		)
		if err != nil {
			return fmt.Errorf("attaching workspace owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetWorkspace retrieves a workspace by ID.
func (s *SQLiteStore) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.GetContext(ctx, &ws,
		"SELECT * FROM workspaces WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("workspace", id)
		}
		return nil, fmt.Errorf("getting workspace %s: %w", id, err)
	}
	return &ws, nil
}

// GetWorkspaceBySlug retrieves a workspace by its unique slug.
func (s *SQLiteStore) GetWorkspaceBySlug(ctx context.Context, slug string) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.GetContext(ctx, &ws,
		"SELECT * FROM workspaces WHERE slug = ? AND deleted_at IS NULL", slug)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("workspace", slug)
		}
		return nil, fmt.Errorf("getting workspace %s: %w", slug, err)
	}
	return &ws, nil
}

// GetWorkspaces retrieves all live workspaces ordered by name.
func (s *SQLiteStore) GetWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	err := s.db.SelectContext(ctx, &workspaces,
		"SELECT * FROM workspaces WHERE deleted_at IS NULL ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", err)
	}
	return workspaces, nil
}

// UpdateWorkspace updates a workspace's mutable fields.
func (s *SQLiteStore) UpdateWorkspace(ctx context.Context, ws model.Workspace) error {
	if strings.TrimSpace(ws.Name) == "" {
		return model.NewValidationError("workspace name must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE workspaces SET name = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		ws.Name, ws.Description, ws.Color, nowUTC(), ws.ID,
	)
	if err != nil {
		return fmt.Errorf("updating workspace %s: %w", ws.ID, err)
	}
	return notFoundFromResult(result, "workspace", ws.ID)
}

// DeleteWorkspace soft-deletes a workspace. Children stay in place and
// become unreachable through the workspace root.
func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE workspaces SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("deleting workspace %s: %w", id, err)
	}
	return notFoundFromResult(result, "workspace", id)
}

// AddWorkspaceMember adds a user to a workspace. The owner role is
// reserved for TransferWorkspaceOwnership.
func (s *SQLiteStore) AddWorkspaceMember(ctx context.Context, workspaceID, userID, role string) error {
	if !model.ValidRole(role) {
		return model.NewValidationError("unknown workspace role %q", role)
	}
	if role == model.RoleOwner {
		return model.NewValidationError("a workspace has exactly one owner; use ownership transfer")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		workspaceID, userID, role, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("adding member %s to workspace %s: %w", userID, workspaceID, err)
	}
	return nil
}

// UpdateWorkspaceMemberRole changes a member's role. The owner's
// membership row is immutable except through ownership transfer.
func (s *SQLiteStore) UpdateWorkspaceMemberRole(ctx context.Context, workspaceID, userID, role string) error {
	if !model.ValidRole(role) {
		return model.NewValidationError("unknown workspace role %q", role)
	}
	if role == model.RoleOwner {
		return model.NewValidationError("a workspace has exactly one owner; use ownership transfer")
	}

	ownerID, err := s.workspaceOwnerID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if userID == ownerID {
		return model.NewValidationError("the workspace owner's role cannot be changed")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE workspace_members SET role = ? WHERE workspace_id = ? AND user_id = ?",
		role, workspaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("updating role for member %s: %w", userID, err)
	}
	return notFoundFromResult(result, "workspace member", userID)
}

// RemoveWorkspaceMember removes a user from a workspace. The owner
// cannot be removed.
func (s *SQLiteStore) RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error {
	ownerID, err := s.workspaceOwnerID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if userID == ownerID {
		return model.NewValidationError("the workspace owner cannot be removed")
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM workspace_members WHERE workspace_id = ? AND user_id = ?",
		workspaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing member %s from workspace %s: %w", userID, workspaceID, err)
	}
	return notFoundFromResult(result, "workspace member", userID)
}

// TransferWorkspaceOwnership makes newOwnerID the single owner: the old
// owner becomes an admin, the new owner's membership row gets the owner
// role, and the workspace's owner reference moves, all in one transaction.
func (s *SQLiteStore) TransferWorkspaceOwnership(ctx context.Context, workspaceID, newOwnerID string) error {
	ownerID, err := s.workspaceOwnerID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if newOwnerID == ownerID {
		return nil
	}

	member, err := s.IsWorkspaceMember(ctx, workspaceID, newOwnerID)
	if err != nil {
		return err
	}
	if !member {
		return model.NewValidationError("new owner must already be a workspace member")
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE workspace_members SET role = ? WHERE workspace_id = ? AND user_id = ?",
			model.RoleAdmin, workspaceID, ownerID,
		); err != nil {
			return fmt.Errorf("demoting previous owner: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE workspace_members SET role = ? WHERE workspace_id = ? AND user_id = ?",
			model.RoleOwner, workspaceID, newOwnerID,
		); err != nil {
			return fmt.Errorf("promoting new owner: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE workspaces SET owner_id = ?, updated_at = ? WHERE id = ?",
			newOwnerID, nowUTC(), workspaceID,
		); err != nil {
			return fmt.Errorf("moving workspace owner reference: %w", err)
		}
		return nil
	})
}

// GetWorkspaceMembers retrieves a workspace's membership rows.
func (s *SQLiteStore) GetWorkspaceMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember
	err := s.db.SelectContext(ctx, &members,
		"SELECT * FROM workspace_members WHERE workspace_id = ? ORDER BY joined_at",
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying members of workspace %s: %w", workspaceID, err)
	}
	return members, nil
}

// IsWorkspaceMember reports whether the user belongs to the workspace.
func (s *SQLiteStore) IsWorkspaceMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM workspace_members WHERE workspace_id = ? AND user_id = ?",
		workspaceID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return count > 0, nil
}

// IsWorkspaceAdmin reports whether the user holds the owner or admin role.
func (s *SQLiteStore) IsWorkspaceAdmin(ctx context.Context, workspaceID, userID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM workspace_members
		WHERE workspace_id = ? AND user_id = ? AND role IN (?, ?)`,
		workspaceID, userID, model.RoleOwner, model.RoleAdmin,
	)
	if err != nil {
		return false, fmt.Errorf("checking admin role: %w", err)
	}
	return count > 0, nil
}

// workspaceOwnerID looks up the owner of a live workspace.
func (s *SQLiteStore) workspaceOwnerID(ctx context.Context, workspaceID string) (string, error) {
	var ownerID string
	err := s.db.GetContext(ctx, &ownerID,
		"SELECT owner_id FROM workspaces WHERE id = ? AND deleted_at IS NULL", workspaceID)
	if err != nil {
		if isNoRows(err) {
			return "", model.NewNotFoundError("workspace", workspaceID)
		}
		return "", fmt.Errorf("getting workspace owner: %w", err)
	}
	return ownerID, nil
}
