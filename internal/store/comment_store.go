package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateComment adds a comment or a reply to a task, recording mentions
// and a COMMENT_ADDED activity on the task in the same transaction.
// Replies are one level deep: replying to a reply is rejected.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment model.Comment, mentionIDs []string) (*model.Comment, error) {
	if strings.TrimSpace(comment.Content) == "" {
		return nil, model.NewValidationError("comment content must not be empty")
	}
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	now := nowUTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM tasks WHERE id = ? AND deleted_at IS NULL",
			comment.TaskID)
		if err != nil {
			return fmt.Errorf("checking task %s: %w", comment.TaskID, err)
		}
		if exists == 0 {
			return model.NewNotFoundError("task", comment.TaskID)
		}

		if comment.ParentID != nil {
			var parent model.Comment
			err := tx.GetContext(ctx, &parent,
				"SELECT * FROM comments WHERE id = ? AND deleted_at IS NULL",
				*comment.ParentID)
			if err != nil {
				if isNoRows(err) {
					return model.NewNotFoundError("comment", *comment.ParentID)
				}
				return fmt.Errorf("getting parent comment %s: %w", *comment.ParentID, err)
			}
			if parent.ParentID != nil {
				return model.NewValidationError("cannot reply to a reply")
			}
			if parent.TaskID != comment.TaskID {
				return model.NewValidationError("reply must target the same task as its parent")
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO comments (id, task_id, user_id, parent_id, content,
				is_resolved, resolved_at, resolved_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, NULL, NULL, ?, ?)`,
			comment.ID, comment.TaskID, comment.UserID, comment.ParentID,
			comment.Content, comment.CreatedAt, comment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}

		for _, userID := range mentionIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO mentions (id, comment_id, user_id, created_at)
				VALUES (?, ?, ?, ?)`,
				uuid.New().String(), comment.ID, userID, now,
			); err != nil {
				return fmt.Errorf("recording mention of %s: %w", userID, err)
			}
		}

		_, err = s.logActivity(ctx, tx, comment.UserID, model.TaskSubject(comment.TaskID),
			model.ActivityCommentAdded, map[string]any{"comment_id": comment.ID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment edits a comment's content. Only the author may edit.
func (s *SQLiteStore) UpdateComment(ctx context.Context, actorID, commentID, content string) error {
	if strings.TrimSpace(content) == "" {
		return model.NewValidationError("comment content must not be empty")
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		comment, err := getComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != actorID {
			return model.NewAuthorizationError("only the author can edit a comment")
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE comments SET content = ?, updated_at = ? WHERE id = ?",
			content, nowUTC(), commentID,
		)
		if err != nil {
			return fmt.Errorf("updating comment %s: %w", commentID, err)
		}
		return nil
	})
}

// DeleteComment soft-deletes a comment. The author, or an admin of the
// workspace the comment's task lives in, may delete.
func (s *SQLiteStore) DeleteComment(ctx context.Context, actorID, commentID string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		comment, err := getComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != actorID {
			ok, err := s.isTaskWorkspaceAdmin(ctx, tx, actorID, comment.TaskID)
			if err != nil {
				return err
			}
			if !ok {
				return model.NewAuthorizationError("only the author or a workspace admin can delete a comment")
			}
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE comments SET deleted_at = ? WHERE id = ?",
			nowUTC(), commentID,
		)
		if err != nil {
			return fmt.Errorf("deleting comment %s: %w", commentID, err)
		}
		return nil
	})
}

// ResolveComment marks a comment resolved, stamping who and when
// together with the flag.
func (s *SQLiteStore) ResolveComment(ctx context.Context, actorID, commentID string) error {
	now := nowUTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET is_resolved = 1, resolved_at = ?, resolved_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, actorID, now, commentID,
	)
	if err != nil {
		return fmt.Errorf("resolving comment %s: %w", commentID, err)
	}
	return notFoundFromResult(result, "comment", commentID)
}

// UnresolveComment clears the resolution flag, timestamp, and resolver.
func (s *SQLiteStore) UnresolveComment(ctx context.Context, commentID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET is_resolved = 0, resolved_at = NULL, resolved_by = NULL, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		nowUTC(), commentID,
	)
	if err != nil {
		return fmt.Errorf("unresolving comment %s: %w", commentID, err)
	}
	return notFoundFromResult(result, "comment", commentID)
}

// GetTaskComments retrieves a task's comments as a thread: top-level
// comments oldest first, each carrying its replies oldest first.
func (s *SQLiteStore) GetTaskComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	var all []model.Comment
	err := s.db.SelectContext(ctx, &all, `
		SELECT * FROM comments WHERE task_id = ? AND deleted_at IS NULL
		ORDER BY created_at, id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying comments of task %s: %w", taskID, err)
	}

	replies := make(map[string][]model.Comment)
	var thread []model.Comment
	for _, c := range all {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}
	for _, c := range all {
		if c.ParentID == nil {
			c.Replies = replies[c.ID]
			thread = append(thread, c)
		}
	}
	return thread, nil
}

// GetCommentMentions retrieves the mentions recorded on a comment.
func (s *SQLiteStore) GetCommentMentions(ctx context.Context, commentID string) ([]model.Mention, error) {
	var mentions []model.Mention
	err := s.db.SelectContext(ctx, &mentions, `
		SELECT * FROM mentions WHERE comment_id = ?
		ORDER BY created_at`,
		commentID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying mentions of comment %s: %w", commentID, err)
	}
	return mentions, nil
}

// isTaskWorkspaceAdmin reports whether the user administers the
// workspace the task belongs to.
func (s *SQLiteStore) isTaskWorkspaceAdmin(ctx context.Context, tx *sqlx.Tx, userID, taskID string) (bool, error) {
	workspaceID := s.resolveWorkspace(ctx, tx, model.TaskSubject(taskID))
	if workspaceID == nil {
		return false, nil
	}
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM workspace_members
		WHERE workspace_id = ? AND user_id = ? AND role IN (?, ?)`,
		*workspaceID, userID, model.RoleOwner, model.RoleAdmin,
	)
	if err != nil {
		return false, fmt.Errorf("checking admin of workspace %s: %w", *workspaceID, err)
	}
	return count > 0, nil
}

func getComment(ctx context.Context, tx *sqlx.Tx, id string) (*model.Comment, error) {
	var comment model.Comment
	err := tx.GetContext(ctx, &comment,
		"SELECT * FROM comments WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("comment", id)
		}
		return nil, fmt.Errorf("getting comment %s: %w", id, err)
	}
	return &comment, nil
}
