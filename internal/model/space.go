package model

import "time"

// Space is a project area within a workspace. Private spaces are visible
// only to their explicit member set; public spaces are visible to every
// workspace member.
type Space struct {
	ID          string     `json:"id" db:"id"`
	WorkspaceID string     `json:"workspace_id" db:"workspace_id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description" db:"description"`
	Color       string     `json:"color" db:"color"`
	Icon        string     `json:"icon" db:"icon"`
	IsPrivate   bool       `json:"is_private" db:"is_private"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Folder is an optional grouping of task lists within a space.
type Folder struct {
	ID        string     `json:"id" db:"id"`
	SpaceID   string     `json:"space_id" db:"space_id"`
	Name      string     `json:"name" db:"name"`
	Color     string     `json:"color" db:"color"`
	Position  int        `json:"position" db:"position"`
	IsHidden  bool       `json:"is_hidden" db:"is_hidden"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
