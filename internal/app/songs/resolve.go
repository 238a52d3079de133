package songs

import (
	"context"

	"melodia/internal/app/catalog"
	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store"
)

// resolver turns references into row ids inside one transaction.
type resolver struct {
	q     store.Queries
	names *catalog.Normalizer
}

func newResolver(q store.Queries) *resolver {
	return &resolver{q: q, names: catalog.New(q)}
}

// artist resolves an artist slot; ok is false when the slot is empty.
func (r *resolver) artist(ctx context.Context, ref Ref) (id int64, ok bool, err error) {
	switch {
	case ref.ID != nil:
		if _, err := r.q.ArtistByID(ctx, *ref.ID); err != nil {
			return 0, false, referenceErr("artistId", err)
		}
		return *ref.ID, true, nil
	case ref.Name != nil:
		artist, err := r.names.ResolveArtist(ctx, *ref.Name)
		if err != nil {
			return 0, false, err
		}
		return artist.ID, true, nil
	}
	return 0, false, nil
}

// album resolves an album slot. A name needs artistID to form the natural key.
func (r *resolver) album(ctx context.Context, ref Ref, artistID *int64) (id int64, ok bool, err error) {
	switch {
	case ref.ID != nil:
		if _, err := r.q.AlbumByID(ctx, *ref.ID); err != nil {
			return 0, false, referenceErr("albumId", err)
		}
		return *ref.ID, true, nil
	case ref.Name != nil:
		if artistID == nil {
			return 0, false, apperr.NewValidation("artist", "is required to resolve an album by name")
		}
		album, err := r.names.ResolveAlbum(ctx, *ref.Name, models.ArtistRef{ID: *artistID})
		if err != nil {
			return 0, false, err
		}
		return album.ID, true, nil
	}
	return 0, false, nil
}

func (r *resolver) genre(ctx context.Context, id int64) error {
	if _, err := r.q.GenreByID(ctx, id); err != nil {
		return referenceErr("genreId", err)
	}
	return nil
}

// referenceErr renames a not-found error after the input field that held
// the dangling id.
func referenceErr(field string, err error) error {
	if apperr.IsKind(err, apperr.NotFound) {
		return apperr.NewNotFound(field)
	}
	return err
}
