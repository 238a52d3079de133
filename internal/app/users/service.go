package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// Service exposes user-related workflows. Sessions and tokens live outside
// this module.
type Service interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	store Store
	cost  int
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store, cost: bcrypt.DefaultCost}
}

func (s *service) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case name == "":
		return models.User{}, apperr.NewValidation("name", "is required")
	case email == "":
		return models.User{}, apperr.NewValidation("email", "is required")
	case password == "":
		return models.User{}, apperr.NewValidation("password", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, apperr.NewStorage(fmt.Errorf("hash password: %w", err))
	}

	return s.store.CreateUser(ctx, models.User{Name: name, Email: email, PasswordHash: hash})
}

func (s *service) Get(ctx context.Context, id int64) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.store.UserByID(ctx, id)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.UserExists(ctx, id)
}
