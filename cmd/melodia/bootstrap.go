package main

import (
	"context"
	"fmt"

	"melodia/internal/app/songs"
	"melodia/internal/apperr"
	"melodia/internal/logging"
)

type demoSong struct {
	name   string
	artist string
	album  string
	genre  string
}

var demoSongs = []demoSong{
	{name: "River", artist: "Joni Mitchell", album: "Blue", genre: "Folk"},
	{name: "A Case of You", artist: "Joni Mitchell", album: "Blue", genre: "Folk"},
	{name: "Solid Air", artist: "John Martyn", album: "Solid Air", genre: "Folk"},
	{name: "Pink Moon", artist: "Nick Drake", album: "Pink Moon", genre: "Folk"},
	{name: "Paranoid Android", artist: "Radiohead", album: "OK Computer", genre: "Rock"},
}

// seedDemoCatalog fills an empty catalog with a handful of songs, a user and
// a playlist. A catalog that already holds songs is left alone.
func seedDemoCatalog(ctx context.Context, svc *services) error {
	ctx, logger := logging.WithOperation(ctx, "seed")

	existing, err := svc.songs.Search(ctx, songs.Filter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debug().Int("songs", len(existing)).Msg("catalog already seeded")
		return nil
	}

	genreIDs := map[string]int64{}
	for _, name := range []string{"Folk", "Rock"} {
		genre, err := svc.genres.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("seed genre %q: %w", name, err)
		}
		genreIDs[name] = genre.ID
	}

	var songIDs []int64
	for i, demo := range demoSongs {
		genreID := genreIDs[demo.genre]
		song, err := svc.songs.Create(ctx, songs.Input{
			Name:     demo.name,
			Artist:   songs.ByName(demo.artist),
			Album:    songs.ByName(demo.album),
			GenreID:  &genreID,
			AudioURL: fmt.Sprintf("audio/demo-%02d.mp3", i+1),
		})
		if err != nil {
			return fmt.Errorf("seed song %q: %w", demo.name, err)
		}
		songIDs = append(songIDs, song.ID)
	}

	// An album created up front, with a cover its songs inherit.
	newsom, err := svc.artists.Create(ctx, "Joanna Newsom", nil)
	if err != nil {
		return fmt.Errorf("seed artist: %w", err)
	}
	cover := "covers/ys.jpg"
	ys, err := svc.albums.Create(ctx, "Ys", newsom.ID, &cover)
	if err != nil {
		return fmt.Errorf("seed album: %w", err)
	}
	folk := genreIDs["Folk"]
	emily, err := svc.songs.Create(ctx, songs.Input{
		Name:     "Emily",
		Album:    songs.ByID(ys.ID),
		GenreID:  &folk,
		AudioURL: "audio/emily.mp3",
	})
	if err != nil {
		return fmt.Errorf("seed song %q: %w", "Emily", err)
	}
	songIDs = append(songIDs, emily.ID)

	user, err := svc.users.Register(ctx, "Demo", "demo@melodia.local", "demo-password")
	if apperr.IsKind(err, apperr.Conflict) {
		logger.Info().Msg("demo user already registered, skipping playlist")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	playlist, err := svc.playlists.Create(ctx, "Late Night", user.ID)
	if err != nil {
		return fmt.Errorf("seed playlist: %w", err)
	}
	for _, id := range []int64{songIDs[0], songIDs[3], emily.ID} {
		if err := svc.playlists.AddSong(ctx, playlist.ID, id); err != nil {
			return fmt.Errorf("seed playlist song %d: %w", id, err)
		}
	}

	logger.Info().Int("songs", len(songIDs)).Int64("playlist_id", playlist.ID).Msg("demo catalog seeded")
	return nil
}
