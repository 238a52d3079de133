package store

import (
	"context"
	"fmt"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

// CreateGenre inserts a genre.
func (s *Store) CreateGenre(ctx context.Context, name string) (models.Genre, error) {
	genre := models.Genre{Name: name}
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO genres (name)
		VALUES ($1)
		RETURNING id
	`, name).Scan(&genre.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Genre{}, apperr.NewConflict("genre", "genre name already exists")
		}
		return models.Genre{}, storageErr("insert genre", err)
	}
	return genre, nil
}

// GenreByID returns a single genre.
func (s *Store) GenreByID(ctx context.Context, id int64) (models.Genre, error) {
	var genre models.Genre
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name
		FROM genres
		WHERE id = $1
	`, id).Scan(&genre.ID, &genre.Name)
	if err != nil {
		return models.Genre{}, lookupErr("genre", err)
	}
	return genre, nil
}

// ListGenres returns every genre ordered by name.
func (s *Store) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name
		FROM genres
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, storageErr("select genres", err)
	}
	defer rows.Close()

	genres := make([]models.Genre, 0)
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, storageErr("scan genre", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate genres", err)
	}
	return genres, nil
}

// DeleteGenre removes a genre. Genres referenced by songs are rejected with
// a conflict by the songs.genre_id foreign key.
func (s *Store) DeleteGenre(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		return false, deleteErr("genre", err)
	}
	return rowsAffected(res, fmt.Sprintf("delete genre %d", id))
}
