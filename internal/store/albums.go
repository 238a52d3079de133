package store

import (
	"context"
	"database/sql"
	"errors"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

const (
	albumSelect = `
		SELECT al.id, al.name, al.artist_id, al.cover_url, ar.name
		FROM albums al
		JOIN artists ar ON ar.id = al.artist_id`

	albumReturning = `id, name, artist_id, cover_url,
		COALESCE((SELECT name FROM artists WHERE artists.id = albums.artist_id), '')`
)

// CreateAlbum inserts an album. The (name, artist) pair must be unique and
// the artist must exist.
func (s *Store) CreateAlbum(ctx context.Context, album models.Album) (models.Album, error) {
	created, err := scanAlbum(s.q.QueryRowContext(ctx, `
		INSERT INTO albums (name, artist_id, cover_url)
		VALUES ($1, $2, $3)
		RETURNING `+albumReturning,
		album.Name, album.ArtistID, nullIfEmpty(album.CoverURL)))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return models.Album{}, apperr.NewConflict("album", "album already exists for this artist")
		case isForeignKeyViolation(err):
			return models.Album{}, apperr.NewNotFound("artist")
		}
		return models.Album{}, storageErr("insert album", err)
	}
	return created, nil
}

// InsertAlbumIfAbsent inserts an album without a cover unless the
// (name, artist) pair already exists, in which case created is false.
func (s *Store) InsertAlbumIfAbsent(ctx context.Context, name string, artistID int64) (models.Album, bool, error) {
	album, err := scanAlbum(s.q.QueryRowContext(ctx, `
		INSERT INTO albums (name, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (name, artist_id) DO NOTHING
		RETURNING `+albumReturning, name, artistID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Album{}, false, nil
		case isForeignKeyViolation(err):
			return models.Album{}, false, apperr.NewNotFound("artist")
		}
		return models.Album{}, false, storageErr("insert album", err)
	}
	return album, true, nil
}

// AlbumByID returns a single album.
func (s *Store) AlbumByID(ctx context.Context, id int64) (models.Album, error) {
	album, err := scanAlbum(s.q.QueryRowContext(ctx, albumSelect+`
		WHERE al.id = $1`, id))
	if err != nil {
		return models.Album{}, lookupErr("album", err)
	}
	return album, nil
}

// AlbumByNameAndArtist returns the album keyed by its natural key.
func (s *Store) AlbumByNameAndArtist(ctx context.Context, name string, artistID int64) (models.Album, error) {
	album, err := scanAlbum(s.q.QueryRowContext(ctx, albumSelect+`
		WHERE al.name = $1 AND al.artist_id = $2`, name, artistID))
	if err != nil {
		return models.Album{}, lookupErr("album", err)
	}
	return album, nil
}

// ListAlbums returns albums matching the filter.
func (s *Store) ListAlbums(ctx context.Context, filter AlbumFilter) ([]models.Album, error) {
	var where whereBuilder
	where.addLike("al.name", filter.Name)
	if filter.ArtistID != nil {
		where.add("al.artist_id = $%d", *filter.ArtistID)
	}

	rows, err := s.q.QueryContext(ctx, albumSelect+where.String()+`
		ORDER BY al.name ASC, al.id ASC`, where.args...)
	if err != nil {
		return nil, storageErr("select albums", err)
	}
	defer rows.Close()

	albums := make([]models.Album, 0)
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, storageErr("scan album", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate albums", err)
	}
	return albums, nil
}

// UpdateAlbum applies a partial update and returns the stored row.
func (s *Store) UpdateAlbum(ctx context.Context, id int64, patch AlbumPatch) (models.Album, error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.ArtistID != nil {
		b.set("artist_id", *patch.ArtistID)
	}
	if patch.CoverURL != nil {
		b.set("cover_url", nullIfEmpty(patch.CoverURL))
	}
	if b.empty() {
		return s.AlbumByID(ctx, id)
	}

	query, args := b.build("albums", id, albumReturning)
	album, err := scanAlbum(s.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return models.Album{}, apperr.NewConflict("album", "album already exists for this artist")
		case isForeignKeyViolation(err):
			return models.Album{}, apperr.NewNotFound("artist")
		}
		return models.Album{}, lookupErr("album", err)
	}
	return album, nil
}

// DeleteAlbum removes an album. Albums still referenced by songs are
// rejected with a conflict.
func (s *Store) DeleteAlbum(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return false, deleteErr("album", err)
	}
	return rowsAffected(res, "delete album")
}

func scanAlbum(scanner rowScanner) (models.Album, error) {
	var (
		album models.Album
		cover sql.NullString
	)
	if err := scanner.Scan(&album.ID, &album.Name, &album.ArtistID, &cover, &album.ArtistName); err != nil {
		return models.Album{}, err
	}
	album.CoverURL = nullString(cover)
	return album, nil
}
