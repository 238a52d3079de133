package genres

import (
	"context"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

// Store captures the persistence needs for genre workflows.
type Store interface {
	CreateGenre(ctx context.Context, name string) (models.Genre, error)
	GenreByID(ctx context.Context, id int64) (models.Genre, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	DeleteGenre(ctx context.Context, id int64) (bool, error)
}

// Service exposes the genre catalog.
type Service interface {
	Create(ctx context.Context, name string) (models.Genre, error)
	Get(ctx context.Context, id int64) (models.Genre, error)
	List(ctx context.Context) ([]models.Genre, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

// New constructs a genre Service.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, name string) (models.Genre, error) {
	if err := ctx.Err(); err != nil {
		return models.Genre{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Genre{}, apperr.NewValidation("name", "is required")
	}
	return s.store.CreateGenre(ctx, name)
}

func (s *service) Get(ctx context.Context, id int64) (models.Genre, error) {
	if err := ctx.Err(); err != nil {
		return models.Genre{}, err
	}
	return s.store.GenreByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListGenres(ctx)
}

// Delete removes a genre. Genres still used by songs are rejected.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deleted, err := s.store.DeleteGenre(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NewNotFound("genre")
	}
	return nil
}
