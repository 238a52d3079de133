package albums

import (
	"context"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store"
)

// Patch lists the album fields to change. An empty CoverURL clears it.
type Patch struct {
	Name     *string
	ArtistID *int64
	CoverURL *string
}

// Store captures the persistence needs for album workflows.
type Store interface {
	CreateAlbum(ctx context.Context, album models.Album) (models.Album, error)
	AlbumByID(ctx context.Context, id int64) (models.Album, error)
	ListAlbums(ctx context.Context, filter store.AlbumFilter) ([]models.Album, error)
	UpdateAlbum(ctx context.Context, id int64, patch store.AlbumPatch) (models.Album, error)
	DeleteAlbum(ctx context.Context, id int64) (bool, error)
}

// Service coordinates album-related operations.
type Service interface {
	Create(ctx context.Context, name string, artistID int64, coverURL *string) (models.Album, error)
	List(ctx context.Context, filter store.AlbumFilter) ([]models.Album, error)
	Get(ctx context.Context, id int64) (models.Album, error)
	Update(ctx context.Context, id int64, patch Patch) (models.Album, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, name string, artistID int64, coverURL *string) (models.Album, error) {
	if err := ctx.Err(); err != nil {
		return models.Album{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Album{}, apperr.NewValidation("name", "is required")
	}
	return s.store.CreateAlbum(ctx, models.Album{Name: name, ArtistID: artistID, CoverURL: coverURL})
}

func (s *service) List(ctx context.Context, filter store.AlbumFilter) ([]models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAlbums(ctx, filter)
}

func (s *service) Get(ctx context.Context, id int64) (models.Album, error) {
	if err := ctx.Err(); err != nil {
		return models.Album{}, err
	}
	return s.store.AlbumByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, patch Patch) (models.Album, error) {
	if err := ctx.Err(); err != nil {
		return models.Album{}, err
	}
	change := store.AlbumPatch{ArtistID: patch.ArtistID, CoverURL: patch.CoverURL}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Album{}, apperr.NewValidation("name", "is required")
		}
		change.Name = &name
	}
	return s.store.UpdateAlbum(ctx, id, change)
}

// Delete removes an album that no song references.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deleted, err := s.store.DeleteAlbum(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NewNotFound("album")
	}
	return nil
}
