// Package playlists manages user playlists and their song memberships.
package playlists

import (
	"context"
	"fmt"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/logging"
	"melodia/internal/models"
	"melodia/internal/store"
)

// UserChecker answers whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Manager coordinates playlist writes. Each write is one transaction.
type Manager struct {
	repo  store.Repository
	users UserChecker
}

// NewManager constructs a Manager backed by repo, checking owners via users.
func NewManager(repo store.Repository, users UserChecker) *Manager {
	return &Manager{repo: repo, users: users}
}

// Create stores an empty playlist owned by ownerID.
func (m *Manager) Create(ctx context.Context, name string, ownerID int64) (models.Playlist, error) {
	ctx, log := logging.WithOperation(ctx, "playlists.create")

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, apperr.NewValidation("name", "is required")
	}
	if err := m.requireOwner(ctx, ownerID); err != nil {
		return models.Playlist{}, err
	}

	var created models.Playlist
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		var err error
		created, err = q.CreatePlaylist(ctx, name, ownerID)
		return err
	})
	if err != nil {
		return models.Playlist{}, fmt.Errorf("create playlist: %w", err)
	}

	log.Debug().Int64("playlist_id", created.ID).Int64("owner_id", ownerID).Msg("playlist created")
	return created, nil
}

func (m *Manager) requireOwner(ctx context.Context, ownerID int64) error {
	ok, err := m.users.Exists(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("check owner: %w", err)
	}
	if !ok {
		return apperr.NewNotFound("owner")
	}
	return nil
}

// AddSong links songID to playlistID. Adding a song twice is a conflict;
// the existing membership is left as it was.
func (m *Manager) AddSong(ctx context.Context, playlistID, songID int64) error {
	ctx, log := logging.WithOperation(ctx, "playlists.add_song")

	err := m.repo.InTx(ctx, func(q store.Queries) error {
		if _, err := q.PlaylistByID(ctx, playlistID); err != nil {
			return err
		}
		if _, err := q.SongByID(ctx, songID); err != nil {
			return err
		}
		exists, err := q.MembershipExists(ctx, playlistID, songID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.NewConflict("membership", "song already in playlist")
		}
		return q.AddMembership(ctx, playlistID, songID)
	})
	if err != nil {
		return fmt.Errorf("add song %d to playlist %d: %w", songID, playlistID, err)
	}

	log.Debug().Int64("playlist_id", playlistID).Int64("song_id", songID).Msg("song added")
	return nil
}

// RemoveSong unlinks songID from playlistID. A missing membership is
// reported as not found whether or not the playlist and song exist.
func (m *Manager) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		removed, err := q.RemoveMembership(ctx, playlistID, songID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NewNotFound("membership")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove song %d from playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// ListSongs returns the songs in a playlist.
func (m *Manager) ListSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := m.repo.PlaylistByID(ctx, playlistID); err != nil {
		return nil, err
	}
	return m.repo.PlaylistSongs(ctx, playlistID)
}

// Delete removes a playlist together with all of its memberships.
func (m *Manager) Delete(ctx context.Context, playlistID int64) error {
	ctx, log := logging.WithOperation(ctx, "playlists.delete")

	var unlinked int64
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		if _, err := q.PlaylistByID(ctx, playlistID); err != nil {
			return err
		}
		var err error
		unlinked, err = q.DeletePlaylistMemberships(ctx, playlistID)
		if err != nil {
			return err
		}
		deleted, err := q.DeletePlaylist(ctx, playlistID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NewNotFound("playlist")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete playlist %d: %w", playlistID, err)
	}

	log.Debug().Int64("playlist_id", playlistID).Int64("memberships_removed", unlinked).Msg("playlist deleted")
	return nil
}

// Get returns a playlist with its song count.
func (m *Manager) Get(ctx context.Context, playlistID int64) (models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Playlist{}, err
	}
	return m.repo.PlaylistByID(ctx, playlistID)
}

// ListByOwner returns the playlists of an existing user.
func (m *Manager) ListByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	if err := m.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	return m.repo.PlaylistsByOwner(ctx, ownerID)
}

// Rename changes a playlist's name.
func (m *Manager) Rename(ctx context.Context, playlistID int64, name string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, apperr.NewValidation("name", "is required")
	}

	var renamed models.Playlist
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		var err error
		renamed, err = q.RenamePlaylist(ctx, playlistID, name)
		return err
	})
	if err != nil {
		return models.Playlist{}, fmt.Errorf("rename playlist %d: %w", playlistID, err)
	}
	return renamed, nil
}
