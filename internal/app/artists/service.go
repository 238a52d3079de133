package artists

import (
	"context"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store"
)

// Filter narrows the list of returned artists.
type Filter struct {
	Name string
}

// Patch lists the artist fields to change. An empty PhotoURL clears it.
type Patch struct {
	Name     *string
	PhotoURL *string
}

// Store captures the persistence needs for artist workflows.
type Store interface {
	CreateArtist(ctx context.Context, artist models.Artist) (models.Artist, error)
	ArtistByID(ctx context.Context, id int64) (models.Artist, error)
	ListArtists(ctx context.Context, filter store.ArtistFilter) ([]models.Artist, error)
	UpdateArtist(ctx context.Context, id int64, patch store.ArtistPatch) (models.Artist, error)
	DeleteArtist(ctx context.Context, id int64) (bool, error)
}

// Service provides artist-centric operations.
type Service interface {
	Create(ctx context.Context, name string, photoURL *string) (models.Artist, error)
	Get(ctx context.Context, id int64) (models.Artist, error)
	List(ctx context.Context, filter Filter) ([]models.Artist, error)
	Update(ctx context.Context, id int64, patch Patch) (models.Artist, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

// New constructs an artist Service backed by the supplied store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, name string, photoURL *string) (models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return models.Artist{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Artist{}, apperr.NewValidation("name", "is required")
	}
	return s.store.CreateArtist(ctx, models.Artist{Name: name, PhotoURL: photoURL})
}

func (s *service) Get(ctx context.Context, id int64) (models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return models.Artist{}, err
	}
	return s.store.ArtistByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx, store.ArtistFilter{Name: filter.Name})
}

func (s *service) Update(ctx context.Context, id int64, patch Patch) (models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return models.Artist{}, err
	}
	change := store.ArtistPatch{PhotoURL: patch.PhotoURL}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Artist{}, apperr.NewValidation("name", "is required")
		}
		change.Name = &name
	}
	return s.store.UpdateArtist(ctx, id, change)
}

// Delete removes an artist that no album or song references.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deleted, err := s.store.DeleteArtist(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NewNotFound("artist")
	}
	return nil
}
