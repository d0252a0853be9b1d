package model

import "time"

// Custom field type constants.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeDropdown = "dropdown"
	FieldTypeCheckbox = "checkbox"
	FieldTypeURL      = "url"
	FieldTypeEmail    = "email"
	FieldTypePhone    = "phone"
	FieldTypeCurrency = "currency"
	FieldTypeRating   = "rating"
	FieldTypeProgress = "progress"
	FieldTypeLabel    = "label"
)

// fieldTypes is the set of recognized custom field types.
var fieldTypes = map[string]bool{
	FieldTypeText:     true,
	FieldTypeNumber:   true,
	FieldTypeDate:     true,
	FieldTypeDropdown: true,
	FieldTypeCheckbox: true,
	FieldTypeURL:      true,
	FieldTypeEmail:    true,
	FieldTypePhone:    true,
	FieldTypeCurrency: true,
	FieldTypeRating:   true,
	FieldTypeProgress: true,
	FieldTypeLabel:    true,
}

// ValidFieldType reports whether t is a recognized custom field type.
func ValidFieldType(t string) bool {
	return fieldTypes[t]
}

// CustomField is a workspace-scoped field definition. Options holds
// JSON-encoded settings for dropdown and label types.
type CustomField struct {
	ID           string    `json:"id" db:"id"`
	WorkspaceID  string    `json:"workspace_id" db:"workspace_id"`
	Name         string    `json:"name" db:"name"`
	Type         string    `json:"type" db:"type"`
	Options      string    `json:"options" db:"options"`
	IsRequired   bool      `json:"is_required" db:"is_required"`
	DefaultValue string    `json:"default_value" db:"default_value"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CustomFieldAttachment links a field definition to a task list with a
// position in the list's field ordering.
type CustomFieldAttachment struct {
	CustomFieldID string `json:"custom_field_id" db:"custom_field_id"`
	TaskListID    string `json:"task_list_id" db:"task_list_id"`
	Position      int    `json:"position" db:"position"`
	IsVisible     bool   `json:"is_visible" db:"is_visible"`
}

// CustomFieldValue is the single value row for a (field, task) pair.
type CustomFieldValue struct {
	ID            string    `json:"id" db:"id"`
	CustomFieldID string    `json:"custom_field_id" db:"custom_field_id"`
	TaskID        string    `json:"task_id" db:"task_id"`
	Value         string    `json:"value" db:"value"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// FieldName and FieldType are populated by join queries.
	FieldName string `json:"field_name,omitempty" db:"-"`
	FieldType string `json:"field_type,omitempty" db:"-"`
}
