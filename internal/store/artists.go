package store

import (
	"context"
	"database/sql"
	"errors"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

const artistColumns = `id, name, photo_url`

// CreateArtist inserts an artist. A duplicate name is a conflict.
func (s *Store) CreateArtist(ctx context.Context, artist models.Artist) (models.Artist, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO artists (name, photo_url)
		VALUES ($1, $2)
		RETURNING `+artistColumns,
		artist.Name, nullIfEmpty(artist.PhotoURL))

	created, err := scanArtist(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Artist{}, apperr.NewConflict("artist", "artist name already exists")
		}
		return models.Artist{}, storageErr("insert artist", err)
	}
	return created, nil
}

// InsertArtistIfAbsent inserts an artist with no photo unless the name is
// already taken. created is false when the unique constraint on name
// swallowed the insert; the caller should re-read by name.
func (s *Store) InsertArtistIfAbsent(ctx context.Context, name string) (models.Artist, bool, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO artists (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING `+artistColumns, name)

	artist, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Artist{}, false, nil
		}
		return models.Artist{}, false, storageErr("insert artist", err)
	}
	return artist, true, nil
}

// ArtistByID returns a single artist.
func (s *Store) ArtistByID(ctx context.Context, id int64) (models.Artist, error) {
	artist, err := scanArtist(s.q.QueryRowContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		WHERE id = $1
	`, id))
	if err != nil {
		return models.Artist{}, lookupErr("artist", err)
	}
	return artist, nil
}

// ArtistByName returns the artist with exactly this name (case-sensitive).
func (s *Store) ArtistByName(ctx context.Context, name string) (models.Artist, error) {
	artist, err := scanArtist(s.q.QueryRowContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		WHERE name = $1
	`, name))
	if err != nil {
		return models.Artist{}, lookupErr("artist", err)
	}
	return artist, nil
}

// ListArtists returns artists matching the filter, ordered by name.
func (s *Store) ListArtists(ctx context.Context, filter ArtistFilter) ([]models.Artist, error) {
	var where whereBuilder
	where.addLike("name", filter.Name)

	rows, err := s.q.QueryContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists`+where.String()+`
		ORDER BY name ASC`, where.args...)
	if err != nil {
		return nil, storageErr("select artists", err)
	}
	defer rows.Close()

	artists := make([]models.Artist, 0)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, storageErr("scan artist", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate artists", err)
	}
	return artists, nil
}

// UpdateArtist applies a partial update and returns the stored row.
func (s *Store) UpdateArtist(ctx context.Context, id int64, patch ArtistPatch) (models.Artist, error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.PhotoURL != nil {
		b.set("photo_url", nullIfEmpty(patch.PhotoURL))
	}
	if b.empty() {
		return s.ArtistByID(ctx, id)
	}

	query, args := b.build("artists", id, artistColumns)
	artist, err := scanArtist(s.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Artist{}, apperr.NewConflict("artist", "artist name already exists")
		}
		return models.Artist{}, lookupErr("artist", err)
	}
	return artist, nil
}

// DeleteArtist removes an artist. Artists still referenced by albums or
// songs are rejected with a conflict.
func (s *Store) DeleteArtist(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return false, deleteErr("artist", err)
	}
	return rowsAffected(res, "delete artist")
}

func scanArtist(scanner rowScanner) (models.Artist, error) {
	var (
		artist models.Artist
		photo  sql.NullString
	)
	if err := scanner.Scan(&artist.ID, &artist.Name, &photo); err != nil {
		return models.Artist{}, err
	}
	artist.PhotoURL = nullString(photo)
	return artist, nil
}
