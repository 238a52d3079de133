package store

import (
	"context"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

const playlistColumns = `id, name, user_id,
		(SELECT COUNT(*) FROM playlist_song ps WHERE ps.playlist_id = playlists.id)`

// CreatePlaylist stores an empty playlist for ownerID.
func (s *Store) CreatePlaylist(ctx context.Context, name string, ownerID int64) (models.Playlist, error) {
	playlist, err := scanPlaylist(s.q.QueryRowContext(ctx, `
		INSERT INTO playlists (name, user_id)
		VALUES ($1, $2)
		RETURNING `+playlistColumns, name, ownerID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Playlist{}, apperr.NewNotFound("owner")
		}
		return models.Playlist{}, storageErr("insert playlist", err)
	}
	return playlist, nil
}

// PlaylistByID returns a playlist with its current song count.
func (s *Store) PlaylistByID(ctx context.Context, id int64) (models.Playlist, error) {
	playlist, err := scanPlaylist(s.q.QueryRowContext(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE id = $1
	`, id))
	if err != nil {
		return models.Playlist{}, lookupErr("playlist", err)
	}
	return playlist, nil
}

// PlaylistsByOwner lists the playlists owned by a user.
func (s *Store) PlaylistsByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE user_id = $1
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, storageErr("select playlists", err)
	}
	defer rows.Close()

	playlists := make([]models.Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, storageErr("scan playlist", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate playlists", err)
	}
	return playlists, nil
}

// RenamePlaylist changes a playlist's name.
func (s *Store) RenamePlaylist(ctx context.Context, id int64, name string) (models.Playlist, error) {
	playlist, err := scanPlaylist(s.q.QueryRowContext(ctx, `
		UPDATE playlists
		SET name = $1
		WHERE id = $2
		RETURNING `+playlistColumns, name, id))
	if err != nil {
		return models.Playlist{}, lookupErr("playlist", err)
	}
	return playlist, nil
}

// DeletePlaylist removes the playlist row. Memberships must be removed first.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return false, deleteErr("playlist", err)
	}
	return rowsAffected(res, "delete playlist")
}

// AddMembership links a song to a playlist. The composite primary key
// rejects a second link with a conflict.
func (s *Store) AddMembership(ctx context.Context, playlistID, songID int64) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO playlist_song (playlist_id, song_id)
		VALUES ($1, $2)
	`, playlistID, songID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return apperr.NewConflict("membership", "song already in playlist")
	case isForeignKeyViolation(err):
		if strings.Contains(constraintName(err), "song_id") {
			return apperr.NewNotFound("song")
		}
		return apperr.NewNotFound("playlist")
	default:
		return storageErr("insert membership", err)
	}
}

// MembershipExists reports whether the song is in the playlist.
func (s *Store) MembershipExists(ctx context.Context, playlistID, songID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM playlist_song WHERE playlist_id = $1 AND song_id = $2
		)
	`, playlistID, songID).Scan(&exists)
	if err != nil {
		return false, storageErr("check membership", err)
	}
	return exists, nil
}

// RemoveMembership unlinks a song from a playlist.
func (s *Store) RemoveMembership(ctx context.Context, playlistID, songID int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM playlist_song
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return false, storageErr("delete membership", err)
	}
	return rowsAffected(res, "delete membership")
}

// DeletePlaylistMemberships removes every song link of a playlist.
func (s *Store) DeletePlaylistMemberships(ctx context.Context, playlistID int64) (int64, error) {
	return s.deleteMemberships(ctx, "playlist_id", playlistID)
}

// DeleteSongMemberships removes a song from every playlist.
func (s *Store) DeleteSongMemberships(ctx context.Context, songID int64) (int64, error) {
	return s.deleteMemberships(ctx, "song_id", songID)
}

func (s *Store) deleteMemberships(ctx context.Context, column string, id int64) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM playlist_song WHERE `+column+` = $1`, id)
	if err != nil {
		return 0, storageErr("delete memberships", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete memberships: rows affected", err)
	}
	return n, nil
}

// PlaylistSongs returns the songs linked to a playlist.
func (s *Store) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	rows, err := s.q.QueryContext(ctx, songSelect+`
		JOIN playlist_song ps ON ps.song_id = s.id
		WHERE ps.playlist_id = $1
		ORDER BY s.id ASC`, playlistID)
	if err != nil {
		return nil, storageErr("select playlist songs", err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

func scanPlaylist(scanner rowScanner) (models.Playlist, error) {
	var p models.Playlist
	if err := scanner.Scan(&p.ID, &p.Name, &p.OwnerID, &p.SongCount); err != nil {
		return models.Playlist{}, err
	}
	return p, nil
}
