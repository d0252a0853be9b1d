package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateCustomField creates a workspace-scoped field definition.
func (s *SQLiteStore) CreateCustomField(ctx context.Context, field model.CustomField) (*model.CustomField, error) {
	if strings.TrimSpace(field.Name) == "" {
		return nil, model.NewValidationError("custom field name must not be empty")
	}
	if !model.ValidFieldType(field.Type) {
		return nil, model.NewValidationError("unknown custom field type %q", field.Type)
	}
	if field.ID == "" {
		field.ID = uuid.New().String()
	}
	if field.Options == "" {
		field.Options = "[]"
	}
	field.CreatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_fields (id, workspace_id, name, type, options,
			is_required, default_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		field.ID, field.WorkspaceID, field.Name, field.Type, field.Options,
		boolToInt(field.IsRequired), field.DefaultValue, field.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating custom field: %w", err)
	}
	return &field, nil
}

// GetWorkspaceCustomFields retrieves a workspace's field definitions
// sorted by name.
func (s *SQLiteStore) GetWorkspaceCustomFields(ctx context.Context, workspaceID string) ([]model.CustomField, error) {
	var fields []model.CustomField
	err := s.db.SelectContext(ctx, &fields,
		"SELECT * FROM custom_fields WHERE workspace_id = ? ORDER BY name",
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying custom fields of workspace %s: %w", workspaceID, err)
	}
	return fields, nil
}

// DeleteCustomField removes a field definition; its list attachments and
// task values cascade away with it.
func (s *SQLiteStore) DeleteCustomField(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM custom_fields WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting custom field %s: %w", id, err)
	}
	return notFoundFromResult(result, "custom field", id)
}

// AttachCustomFieldToList makes a field available on a list's tasks,
// appended to the list's field ordering. Attaching twice is a no-op.
func (s *SQLiteStore) AttachCustomFieldToList(ctx context.Context, fieldID, listID string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		pos, err := nextPosition(ctx, tx,
			"SELECT COALESCE(MAX(position), -1) FROM custom_field_lists WHERE task_list_id = ?",
			listID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO custom_field_lists (custom_field_id, task_list_id, position, is_visible)
			VALUES (?, ?, ?, 1)`,
			fieldID, listID, pos,
		)
		if err != nil {
			return fmt.Errorf("attaching field %s to list %s: %w", fieldID, listID, err)
		}
		return nil
	})
}

// DetachCustomFieldFromList removes a field from a list.
func (s *SQLiteStore) DetachCustomFieldFromList(ctx context.Context, fieldID, listID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM custom_field_lists
		WHERE custom_field_id = ? AND task_list_id = ?`,
		fieldID, listID,
	)
	if err != nil {
		return fmt.Errorf("detaching field %s from list %s: %w", fieldID, listID, err)
	}
	return nil
}

// GetListCustomFields retrieves the fields attached to a list in
// attachment order.
func (s *SQLiteStore) GetListCustomFields(ctx context.Context, listID string) ([]model.CustomField, error) {
	var fields []model.CustomField
	err := s.db.SelectContext(ctx, &fields, `
		SELECT custom_fields.* FROM custom_fields
		JOIN custom_field_lists cfl ON cfl.custom_field_id = custom_fields.id
		WHERE cfl.task_list_id = ?
		ORDER BY cfl.position`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying custom fields of list %s: %w", listID, err)
	}
	return fields, nil
}

// SetCustomFieldValue upserts the single value row for a (field, task)
// pair.
func (s *SQLiteStore) SetCustomFieldValue(ctx context.Context, fieldID, taskID, value string) error {
	now := nowUTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_field_values (id, custom_field_id, task_id, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(custom_field_id, task_id)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		uuid.New().String(), fieldID, taskID, value, now, now,
	)
	if err != nil {
		return fmt.Errorf("setting value of field %s on task %s: %w", fieldID, taskID, err)
	}
	return nil
}

// GetTaskCustomFieldValues retrieves a task's field values with the
// field name and type joined in.
func (s *SQLiteStore) GetTaskCustomFieldValues(ctx context.Context, taskID string) ([]model.CustomFieldValue, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT cfv.id, cfv.custom_field_id, cfv.task_id, cfv.value,
			cfv.created_at, cfv.updated_at, cf.name, cf.type
		FROM custom_field_values cfv
		JOIN custom_fields cf ON cf.id = cfv.custom_field_id
		WHERE cfv.task_id = ?
		ORDER BY cf.name`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying field values of task %s: %w", taskID, err)
	}
	defer rows.Close()

	var values []model.CustomFieldValue
	for rows.Next() {
		var v model.CustomFieldValue
		if err := rows.Scan(&v.ID, &v.CustomFieldID, &v.TaskID, &v.Value,
			&v.CreatedAt, &v.UpdatedAt, &v.FieldName, &v.FieldType); err != nil {
			return nil, fmt.Errorf("scanning field value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
