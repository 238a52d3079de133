package store

import (
	"context"
	"database/sql"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

// songSelect resolves the effective artist through the album when the song
// has no direct artist, and the display cover through the album when the
// song has no cover of its own.
const songSelect = `
		SELECT s.id, s.name, s.artist_id, s.album_id, s.genre_id, s.likes, s.audio_url, s.cover_url,
		       COALESCE(s.artist_id, al.artist_id), COALESCE(ar.name, ''), COALESCE(al.name, ''),
		       COALESCE(g.name, ''), COALESCE(s.cover_url, al.cover_url)
		FROM songs s
		LEFT JOIN albums al ON al.id = s.album_id
		LEFT JOIN artists ar ON ar.id = COALESCE(s.artist_id, al.artist_id)
		LEFT JOIN genres g ON g.id = s.genre_id`

// CreateSong inserts a song whose references have already been resolved and
// returns it with display values filled in.
func (s *Store) CreateSong(ctx context.Context, song models.Song) (models.Song, error) {
	var id int64
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO songs (name, artist_id, album_id, genre_id, likes, audio_url, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, song.Name, nullableID(song.ArtistID), nullableID(song.AlbumID), song.GenreID, song.Likes,
		song.AudioURL, nullIfEmpty(song.CoverURL)).Scan(&id)
	if err != nil {
		return models.Song{}, songWriteErr("insert song", err)
	}
	return s.SongByID(ctx, id)
}

// SongByID returns a single song.
func (s *Store) SongByID(ctx context.Context, id int64) (models.Song, error) {
	song, err := scanSong(s.q.QueryRowContext(ctx, songSelect+`
		WHERE s.id = $1`, id))
	if err != nil {
		return models.Song{}, lookupErr("song", err)
	}
	return song, nil
}

// ListSongs returns songs matching every supplied filter.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]models.Song, error) {
	var where whereBuilder
	where.addLike("s.name", filter.Name)
	where.addLike("ar.name", filter.Artist)
	where.addLike("al.name", filter.Album)
	where.addLike("g.name", filter.Genre)
	if filter.AlbumID != nil {
		where.add("s.album_id = $%d", *filter.AlbumID)
	}

	rows, err := s.q.QueryContext(ctx, songSelect+where.String()+`
		ORDER BY s.id ASC`, where.args...)
	if err != nil {
		return nil, storageErr("select songs", err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

// UpdateSong applies a partial update and returns the stored row.
func (s *Store) UpdateSong(ctx context.Context, id int64, patch SongPatch) (models.Song, error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.ArtistID != nil {
		b.set("artist_id", *patch.ArtistID)
	}
	if patch.AlbumID != nil {
		b.set("album_id", *patch.AlbumID)
	}
	if patch.GenreID != nil {
		b.set("genre_id", *patch.GenreID)
	}
	if patch.Likes != nil {
		b.set("likes", *patch.Likes)
	}
	if patch.AudioURL != nil {
		b.set("audio_url", *patch.AudioURL)
	}
	if patch.CoverURL != nil {
		b.set("cover_url", nullIfEmpty(patch.CoverURL))
	}
	if b.empty() {
		return s.SongByID(ctx, id)
	}

	query, args := b.build("songs", id, "")
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Song{}, songWriteErr("update song", err)
	}
	ok, err := rowsAffected(res, "update song")
	if err != nil {
		return models.Song{}, err
	}
	if !ok {
		return models.Song{}, apperr.NewNotFound("song")
	}
	return s.SongByID(ctx, id)
}

// AddSongLikes adjusts the like counter atomically. The counter never drops
// below zero.
func (s *Store) AddSongLikes(ctx context.Context, id int64, delta int) (models.Song, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE songs
		SET likes = likes + $1
		WHERE id = $2 AND likes + $1 >= 0
	`, delta, id)
	if err != nil {
		return models.Song{}, storageErr("update song likes", err)
	}
	ok, err := rowsAffected(res, "update song likes")
	if err != nil {
		return models.Song{}, err
	}
	if !ok {
		if _, err := s.SongByID(ctx, id); err != nil {
			return models.Song{}, err
		}
		return models.Song{}, apperr.NewValidation("likes", "must not be negative")
	}
	return s.SongByID(ctx, id)
}

// DeleteSong removes a song row. Playlist memberships must be removed first.
func (s *Store) DeleteSong(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return false, deleteErr("song", err)
	}
	return rowsAffected(res, "delete song")
}

// songWriteErr names the missing reference when a song insert or update
// trips a foreign key.
func songWriteErr(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		name := constraintName(err)
		for _, ref := range []string{"genre", "artist", "album"} {
			if strings.Contains(name, ref) {
				return apperr.NewNotFound(ref)
			}
		}
		return apperr.NotFoundf("reference", "%s: referenced row not found", op)
	case isCheckViolation(err):
		return apperr.NewValidation("likes", "must not be negative")
	}
	return storageErr(op, err)
}

func scanSong(scanner rowScanner) (models.Song, error) {
	var (
		song            models.Song
		artistID        sql.NullInt64
		albumID         sql.NullInt64
		cover           sql.NullString
		displayArtistID sql.NullInt64
		displayCover    sql.NullString
	)
	if err := scanner.Scan(
		&song.ID,
		&song.Name,
		&artistID,
		&albumID,
		&song.GenreID,
		&song.Likes,
		&song.AudioURL,
		&cover,
		&displayArtistID,
		&song.Display.Artist,
		&song.Display.Album,
		&song.Display.Genre,
		&displayCover,
	); err != nil {
		return models.Song{}, err
	}
	song.ArtistID = nullInt64(artistID)
	song.AlbumID = nullInt64(albumID)
	song.CoverURL = nullString(cover)
	song.Display.ArtistID = nullInt64(displayArtistID)
	song.Display.CoverURL = nullString(displayCover)
	return song, nil
}

func scanSongs(rows *sql.Rows) ([]models.Song, error) {
	songs := make([]models.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, storageErr("scan song", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate songs", err)
	}
	return songs, nil
}
