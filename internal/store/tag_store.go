package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/model"
)

const taggableTypeTask = "task"

// CreateTag creates a workspace-scoped tag. Tag names are unique per
// workspace.
func (s *SQLiteStore) CreateTag(ctx context.Context, tag model.Tag) (*model.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" {
		return nil, model.NewValidationError("tag name must not be empty")
	}
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	tag.CreatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, workspace_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.WorkspaceID, tag.Name, tag.Color, tag.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, model.NewValidationError("tag %q already exists in this workspace", tag.Name)
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return &tag, nil
}

// GetWorkspaceTags retrieves a workspace's tags sorted by name.
func (s *SQLiteStore) GetWorkspaceTags(ctx context.Context, workspaceID string) ([]model.Tag, error) {
	var tags []model.Tag
	err := s.db.SelectContext(ctx, &tags,
		"SELECT * FROM tags WHERE workspace_id = ? ORDER BY name", workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying tags of workspace %s: %w", workspaceID, err)
	}
	return tags, nil
}

// DeleteTag removes a tag; its task links cascade away with it.
func (s *SQLiteStore) DeleteTag(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tag %s: %w", id, err)
	}
	return notFoundFromResult(result, "tag", id)
}

// TagTask attaches a tag to a task; attaching twice is a no-op.
func (s *SQLiteStore) TagTask(ctx context.Context, tagID, taskID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO taggables (tag_id, taggable_id, taggable_type, created_at)
		VALUES (?, ?, ?, ?)`,
		tagID, taskID, taggableTypeTask, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("tagging task %s with %s: %w", taskID, tagID, err)
	}
	return nil
}

// UntagTask detaches a tag from a task.
func (s *SQLiteStore) UntagTask(ctx context.Context, tagID, taskID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM taggables
		WHERE tag_id = ? AND taggable_id = ? AND taggable_type = ?`,
		tagID, taskID, taggableTypeTask,
	)
	if err != nil {
		return fmt.Errorf("untagging task %s from %s: %w", taskID, tagID, err)
	}
	return nil
}

// GetTaskTags retrieves the tags attached to a task sorted by name.
func (s *SQLiteStore) GetTaskTags(ctx context.Context, taskID string) ([]model.Tag, error) {
	var tags []model.Tag
	err := s.db.SelectContext(ctx, &tags, `
		SELECT tags.* FROM tags
		JOIN taggables tg ON tg.tag_id = tags.id
		WHERE tg.taggable_id = ? AND tg.taggable_type = ?
		ORDER BY tags.name`,
		taskID, taggableTypeTask,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tags of task %s: %w", taskID, err)
	}
	return tags, nil
}
