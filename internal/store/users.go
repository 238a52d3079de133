package store

import (
	"context"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

// CreateUser persists a user with an already hashed password.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Name, user.Email, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.NewConflict("email", "email already registered")
		}
		return models.User{}, storageErr("insert user", err)
	}
	return user, nil
}

// UserByID returns a user.
func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		return models.User{}, lookupErr("user", err)
	}
	return user, nil
}

// UserExists reports whether a user row exists.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storageErr("check user", err)
	}
	return exists, nil
}
