package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/model"
)

// CreateUser inserts a new user. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return nil, model.NewValidationError("user name must not be empty")
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, model.NewValidationError("user email must not be empty")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

// GetUser retrieves a single user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &user, nil
}
