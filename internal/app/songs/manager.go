// Package songs manages the song lifecycle: reference resolution on create
// and update, membership cleanup on delete, and catalog search.
package songs

import (
	"context"
	"fmt"

	"melodia/internal/apperr"
	"melodia/internal/logging"
	"melodia/internal/models"
	"melodia/internal/store"
)

// Manager coordinates song writes. Every write runs in one transaction.
type Manager struct {
	repo store.Repository
}

// NewManager constructs a Manager backed by repo.
func NewManager(repo store.Repository) *Manager {
	return &Manager{repo: repo}
}

// Create stores a new song. Explicit ids must reference existing rows;
// names are resolved through find-or-create. The genre is required and is
// never created implicitly.
func (m *Manager) Create(ctx context.Context, in Input) (models.Song, error) {
	ctx, log := logging.WithOperation(ctx, "songs.create")

	name, err := requireText("name", in.Name)
	if err != nil {
		return models.Song{}, err
	}
	audio, err := requireText("audioUrl", in.AudioURL)
	if err != nil {
		return models.Song{}, err
	}
	if in.GenreID == nil {
		return models.Song{}, apperr.NewValidation("genreId", "is required")
	}
	if err := checkLikes(in.Likes); err != nil {
		return models.Song{}, err
	}

	song := models.Song{
		Name:     name,
		GenreID:  *in.GenreID,
		AudioURL: audio,
		CoverURL: trimmed(in.CoverURL),
	}
	if in.Likes != nil {
		song.Likes = *in.Likes
	}

	var created models.Song
	err = m.repo.InTx(ctx, func(q store.Queries) error {
		r := newResolver(q)
		if err := r.genre(ctx, song.GenreID); err != nil {
			return err
		}

		artistID, ok, err := r.artist(ctx, in.Artist)
		if err != nil {
			return err
		}
		if ok {
			song.ArtistID = &artistID
		}

		albumID, ok, err := r.album(ctx, in.Album, song.ArtistID)
		if err != nil {
			return err
		}
		if ok {
			song.AlbumID = &albumID
		}

		created, err = q.CreateSong(ctx, song)
		return err
	})
	if err != nil {
		return models.Song{}, fmt.Errorf("create song: %w", err)
	}

	log.Debug().Int64("song_id", created.ID).Msg("song created")
	return created, nil
}

// Update applies patch to song id. Stale file references are reported only
// once the transaction has committed.
func (m *Manager) Update(ctx context.Context, id int64, patch Patch) (Result, error) {
	ctx, log := logging.WithOperation(ctx, "songs.update")

	var change store.SongPatch
	if patch.Name != nil {
		name, err := requireText("name", *patch.Name)
		if err != nil {
			return Result{}, err
		}
		change.Name = &name
	}
	if patch.AudioURL != nil {
		audio, err := requireText("audioUrl", *patch.AudioURL)
		if err != nil {
			return Result{}, err
		}
		change.AudioURL = &audio
	}
	if err := checkLikes(patch.Likes); err != nil {
		return Result{}, err
	}
	change.Likes = patch.Likes
	change.CoverURL = trimmed(patch.CoverURL)

	var previous, updated models.Song
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		var err error
		previous, err = q.SongByID(ctx, id)
		if err != nil {
			return err
		}

		r := newResolver(q)
		if patch.GenreID != nil {
			if err := r.genre(ctx, *patch.GenreID); err != nil {
				return err
			}
			change.GenreID = patch.GenreID
		}

		artistID, ok, err := r.artist(ctx, patch.Artist)
		if err != nil {
			return err
		}
		if ok {
			change.ArtistID = &artistID
		}

		// An album given by name is keyed on the new artist when one was
		// supplied, otherwise on the song's effective artist.
		albumArtist := change.ArtistID
		if albumArtist == nil {
			albumArtist = previous.Display.ArtistID
		}
		albumID, ok, err := r.album(ctx, patch.Album, albumArtist)
		if err != nil {
			return err
		}
		if ok {
			change.AlbumID = &albumID
		}

		updated, err = q.UpdateSong(ctx, id, change)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("update song %d: %w", id, err)
	}

	stale := staleFiles(previous, updated)
	if len(stale) > 0 {
		log.Info().Int64("song_id", id).Strs("stale", stale).Msg("song files replaced")
	}
	return Result{Song: updated, Stale: stale}, nil
}

// staleFiles lists the stored file references of before that after no
// longer points at.
func staleFiles(before, after models.Song) []string {
	var stale []string
	if before.AudioURL != "" && before.AudioURL != after.AudioURL {
		stale = append(stale, before.AudioURL)
	}
	if before.CoverURL != nil && *before.CoverURL != "" &&
		(after.CoverURL == nil || *after.CoverURL != *before.CoverURL) {
		stale = append(stale, *before.CoverURL)
	}
	return stale
}

// Delete removes the song and its playlist memberships and returns the song
// as it was, so the caller can clean up its files. Albums and artists stay.
func (m *Manager) Delete(ctx context.Context, id int64) (models.Song, error) {
	ctx, log := logging.WithOperation(ctx, "songs.delete")

	var snapshot models.Song
	var unlinked int64
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		var err error
		snapshot, err = q.SongByID(ctx, id)
		if err != nil {
			return err
		}
		unlinked, err = q.DeleteSongMemberships(ctx, id)
		if err != nil {
			return err
		}
		deleted, err := q.DeleteSong(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NewNotFound("song")
		}
		return nil
	})
	if err != nil {
		return models.Song{}, fmt.Errorf("delete song %d: %w", id, err)
	}

	log.Info().
		Int64("song_id", id).
		Int64("memberships_removed", unlinked).
		Strs("stale", snapshot.Files()).
		Msg("song deleted")
	return snapshot, nil
}

// Get returns a single song with display fields resolved.
func (m *Manager) Get(ctx context.Context, id int64) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	return m.repo.SongByID(ctx, id)
}

// Search lists songs matching filter. Artist and album filters match the
// effective names, so songs that inherit their artist through an album are
// found too. An empty filter lists every song.
func (m *Manager) Search(ctx context.Context, filter Filter) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.repo.ListSongs(ctx, store.SongFilter{
		Name:   filter.Name,
		Artist: filter.Artist,
		Album:  filter.Album,
		Genre:  filter.Genre,
	})
}

// ListByAlbum returns the songs stored on an album.
func (m *Manager) ListByAlbum(ctx context.Context, albumID int64) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := m.repo.AlbumByID(ctx, albumID); err != nil {
		return nil, err
	}
	return m.repo.ListSongs(ctx, store.SongFilter{AlbumID: &albumID})
}

// Like increments the like counter by one.
func (m *Manager) Like(ctx context.Context, id int64) (models.Song, error) {
	return m.addLikes(ctx, id, 1)
}

// Unlike decrements the like counter. The counter never drops below zero.
func (m *Manager) Unlike(ctx context.Context, id int64) (models.Song, error) {
	return m.addLikes(ctx, id, -1)
}

func (m *Manager) addLikes(ctx context.Context, id int64, delta int) (models.Song, error) {
	var song models.Song
	err := m.repo.InTx(ctx, func(q store.Queries) error {
		var err error
		song, err = q.AddSongLikes(ctx, id, delta)
		return err
	})
	if err != nil {
		return models.Song{}, fmt.Errorf("like song %d: %w", id, err)
	}
	return song, nil
}
