package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// LogActivity appends an audit record for a subject. The owning
// workspace is resolved by walking the subject's parent chain; when no
// chain resolves, the record is kept with a null workspace reference
// rather than failing the operation.
func (s *SQLiteStore) LogActivity(ctx context.Context, actorID string, subject model.ActivitySubject, activityType string, props map[string]any) (*model.Activity, error) {
	var activity *model.Activity
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		activity, err = s.logActivity(ctx, tx, actorID, subject, activityType, props)
		return err
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// logActivity is the tx-aware append used by the domain operations so
// their audit records commit or roll back with the primary mutation.
func (s *SQLiteStore) logActivity(ctx context.Context, ext sqlx.ExtContext, actorID string, subject model.ActivitySubject, activityType string, props map[string]any) (*model.Activity, error) {
	propsJSON, err := marshalProps(props)
	if err != nil {
		return nil, err
	}

	workspaceID := s.resolveWorkspace(ctx, ext, subject)
	if workspaceID == nil {
		s.log.Warn().
			Str("subject_type", string(subject.Type)).
			Str("subject_id", subject.ID).
			Msg("activity recorded without a resolvable workspace")
	}

	activity := model.Activity{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		SubjectID:   subject.ID,
		SubjectType: string(subject.Type),
		Type:        activityType,
		Properties:  propsJSON,
		CreatedAt:   nowUTC(),
	}
	if actorID != "" {
		activity.UserID = &actorID
	}

	_, err = ext.ExecContext(ctx, `
		INSERT INTO activities (id, workspace_id, user_id, subject_id, subject_type,
			type, properties, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, activity.WorkspaceID, activity.UserID, activity.SubjectID,
		activity.SubjectType, activity.Type, activity.Properties, activity.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appending activity: %w", err)
	}
	return &activity, nil
}

// resolveWorkspace walks the subject's parent chain up to its workspace.
// Any failure degrades to nil: audit completeness is secondary to not
// blocking the primary action.
func (s *SQLiteStore) resolveWorkspace(ctx context.Context, q sqlx.QueryerContext, subject model.ActivitySubject) *string {
	var query string
	switch subject.Type {
	case model.SubjectWorkspace:
		id := subject.ID
		return &id
	case model.SubjectSpace:
		query = "SELECT workspace_id FROM spaces WHERE id = ?"
	case model.SubjectTaskList:
		query = `
			SELECT sp.workspace_id FROM task_lists tl
			JOIN spaces sp ON sp.id = tl.space_id
			WHERE tl.id = ?`
	case model.SubjectTask:
		query = `
			SELECT sp.workspace_id FROM tasks t
			JOIN task_lists tl ON tl.id = t.task_list_id
			JOIN spaces sp ON sp.id = tl.space_id
			WHERE t.id = ?`
	case model.SubjectComment:
		query = `
			SELECT sp.workspace_id FROM comments c
			JOIN tasks t ON t.id = c.task_id
			JOIN task_lists tl ON tl.id = t.task_list_id
			JOIN spaces sp ON sp.id = tl.space_id
			WHERE c.id = ?`
	default:
		return nil
	}

	var workspaceID string
	if err := sqlx.GetContext(ctx, q, &workspaceID, query, subject.ID); err != nil {
		return nil
	}
	return &workspaceID
}

// GetWorkspaceActivity retrieves a workspace's feed, newest first.
// Insertion order (rowid) breaks same-instant timestamp ties so the feed
// never reorders.
func (s *SQLiteStore) GetWorkspaceActivity(ctx context.Context, workspaceID string, limit int) ([]model.Activity, error) {
	query := `
		SELECT * FROM activities WHERE workspace_id = ?
		ORDER BY created_at DESC, rowid DESC`
	args := []any{workspaceID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var activities []model.Activity
	if err := s.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("querying activity of workspace %s: %w", workspaceID, err)
	}
	return activities, nil
}

// GetSubjectActivity retrieves all activity recorded against one
// subject, newest first.
func (s *SQLiteStore) GetSubjectActivity(ctx context.Context, subject model.ActivitySubject) ([]model.Activity, error) {
	var activities []model.Activity
	err := s.db.SelectContext(ctx, &activities, `
		SELECT * FROM activities WHERE subject_type = ? AND subject_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		string(subject.Type), subject.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying activity of %s %s: %w", subject.Type, subject.ID, err)
	}
	return activities, nil
}
