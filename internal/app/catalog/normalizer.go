// Package catalog turns free-text artist and album names into catalog
// identities, creating the rows on first use.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/logging"
	"melodia/internal/models"
)

// maxAttempts bounds the lookup/insert cycle when concurrent writers keep
// winning the insert race.
const maxAttempts = 3

// Store is the subset of store.Queries the normalizer needs. Pass the
// transaction-bound Queries so resolved rows commit with the caller's write.
type Store interface {
	ArtistByName(ctx context.Context, name string) (models.Artist, error)
	InsertArtistIfAbsent(ctx context.Context, name string) (models.Artist, bool, error)
	AlbumByNameAndArtist(ctx context.Context, name string, artistID int64) (models.Album, error)
	InsertAlbumIfAbsent(ctx context.Context, name string, artistID int64) (models.Album, bool, error)
}

// Normalizer resolves names to artist and album references.
type Normalizer struct {
	store Store
}

// New constructs a Normalizer over store.
func New(store Store) *Normalizer {
	return &Normalizer{store: store}
}

// ResolveArtist returns the artist named name, creating it when absent.
// Names are trimmed and then matched exactly.
func (n *Normalizer) ResolveArtist(ctx context.Context, name string) (models.ArtistRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ArtistRef{}, apperr.NewValidation("artist", "name is required")
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		artist, err := n.store.ArtistByName(ctx, name)
		if err == nil {
			return artist.Ref(), nil
		}
		if !apperr.IsKind(err, apperr.NotFound) {
			return models.ArtistRef{}, fmt.Errorf("find artist: %w", err)
		}

		artist, created, err := n.store.InsertArtistIfAbsent(ctx, name)
		if err != nil {
			return models.ArtistRef{}, fmt.Errorf("insert artist: %w", err)
		}
		if created {
			logging.FromContext(ctx).Debug().Int64("artist_id", artist.ID).Str("artist", name).Msg("artist created")
			return artist.Ref(), nil
		}
	}

	return models.ArtistRef{}, apperr.NewStorage(fmt.Errorf("resolve artist %q: no stable row after %d attempts", name, maxAttempts))
}

// ResolveAlbum returns the album keyed by (name, artist), creating it when
// absent.
func (n *Normalizer) ResolveAlbum(ctx context.Context, name string, artist models.ArtistRef) (models.AlbumRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.AlbumRef{}, apperr.NewValidation("album", "name is required")
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		album, err := n.store.AlbumByNameAndArtist(ctx, name, artist.ID)
		if err == nil {
			return album.Ref(), nil
		}
		if !apperr.IsKind(err, apperr.NotFound) {
			return models.AlbumRef{}, fmt.Errorf("find album: %w", err)
		}

		album, created, err := n.store.InsertAlbumIfAbsent(ctx, name, artist.ID)
		if err != nil {
			return models.AlbumRef{}, fmt.Errorf("insert album: %w", err)
		}
		if created {
			logging.FromContext(ctx).Debug().
				Int64("album_id", album.ID).
				Int64("artist_id", artist.ID).
				Str("album", name).
				Msg("album created")
			return album.Ref(), nil
		}
	}

	return models.AlbumRef{}, apperr.NewStorage(fmt.Errorf("resolve album %q: no stable row after %d attempts", name, maxAttempts))
}
