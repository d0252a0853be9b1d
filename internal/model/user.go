package model

import "time"

// User is a person who can own workspaces, be assigned tasks, comment,
// and track time. Authentication lives outside the core; the store only
// needs identity rows for foreign keys and actor attribution.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
