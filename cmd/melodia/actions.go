package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/urfave/cli/v3"

	"melodia/internal/app/artists"
	"melodia/internal/app/songs"
	"melodia/internal/store"
	"melodia/internal/store/migrations"
)

var errMemoryMigrate = errors.New("migrations need a database; drop --memory")

func (r *Runner) withDB(ctx context.Context, cmd *cli.Command, fn func(db *sql.DB) error) error {
	if cmd.Bool("memory") {
		return errMemoryMigrate
	}
	if err := r.config.RequireDatabase(); err != nil {
		return err
	}
	db, err := openDatabase(ctx, r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// MigrateUp applies pending schema migrations.
func (r *Runner) MigrateUp(ctx context.Context, cmd *cli.Command) error {
	return r.withDB(ctx, cmd, func(db *sql.DB) error {
		if err := migrations.Up(db); err != nil {
			return err
		}
		r.logger.Info().Msg("migrations applied")
		return nil
	})
}

// MigrateDown rolls back every migration.
func (r *Runner) MigrateDown(ctx context.Context, cmd *cli.Command) error {
	return r.withDB(ctx, cmd, func(db *sql.DB) error {
		if err := migrations.Down(db); err != nil {
			return err
		}
		r.logger.Info().Msg("migrations rolled back")
		return nil
	})
}

// MigrateVersion prints the applied schema version.
func (r *Runner) MigrateVersion(ctx context.Context, cmd *cli.Command) error {
	return r.withDB(ctx, cmd, func(db *sql.DB) error {
		version, dirty, err := migrations.Version(db)
		if err != nil {
			return err
		}
		return r.print(map[string]any{"version": version, "dirty": dirty})
	})
}

// Seed loads the demo catalog.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		if !cmd.Bool("memory") {
			if err := seedDemoCatalog(ctx, svc); err != nil {
				return err
			}
		}
		all, err := svc.songs.Search(ctx, songs.Filter{})
		if err != nil {
			return err
		}
		return r.print(map[string]any{"songs": len(all)})
	})
}

// SongsSearch lists songs matching the filter flags.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		found, err := svc.songs.Search(ctx, songs.Filter{
			Name:   cmd.String("name"),
			Artist: cmd.String("artist"),
			Album:  cmd.String("album"),
			Genre:  cmd.String("genre"),
		})
		if err != nil {
			return err
		}
		return r.print(found)
	})
}

// SongsAdd creates a song.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		created, err := svc.songs.Create(ctx, songs.Input{
			Name:     cmd.String("name"),
			Artist:   reference(cmd, "artist-id", "artist"),
			Album:    reference(cmd, "album-id", "album"),
			GenreID:  optionalInt64(cmd, "genre-id"),
			AudioURL: cmd.String("audio"),
			CoverURL: optionalString(cmd, "cover"),
		})
		if err != nil {
			return err
		}
		return r.print(created)
	})
}

// SongsUpdate applies the supplied flags to a song and prints the files it
// replaced.
func (r *Runner) SongsUpdate(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		res, err := svc.songs.Update(ctx, cmd.Int64("id"), songs.Patch{
			Name:     optionalString(cmd, "name"),
			Artist:   reference(cmd, "artist-id", "artist"),
			Album:    reference(cmd, "album-id", "album"),
			GenreID:  optionalInt64(cmd, "genre-id"),
			AudioURL: optionalString(cmd, "audio"),
			CoverURL: optionalString(cmd, "cover"),
		})
		if err != nil {
			return err
		}
		return r.print(res)
	})
}

// SongsDelete removes a song and prints the files it referenced.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		deleted, err := svc.songs.Delete(ctx, cmd.Int64("id"))
		if err != nil {
			return err
		}
		return r.print(map[string]any{"song": deleted, "stale": deleted.Files()})
	})
}

// SongsLike increments a song's like counter.
func (r *Runner) SongsLike(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		liked, err := svc.songs.Like(ctx, cmd.Int64("id"))
		if err != nil {
			return err
		}
		return r.print(liked)
	})
}

// AlbumSongs lists the songs of an album.
func (r *Runner) AlbumSongs(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		found, err := svc.songs.ListByAlbum(ctx, cmd.Int64("id"))
		if err != nil {
			return err
		}
		return r.print(found)
	})
}

// AlbumsList lists albums by name and artist.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		found, err := svc.albums.List(ctx, store.AlbumFilter{
			Name:     cmd.String("name"),
			ArtistID: optionalInt64(cmd, "artist-id"),
		})
		if err != nil {
			return err
		}
		return r.print(found)
	})
}

// ArtistsList lists artists by name.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		found, err := svc.artists.List(ctx, artists.Filter{Name: cmd.String("name")})
		if err != nil {
			return err
		}
		return r.print(found)
	})
}

// GenresList lists every genre.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		found, err := svc.genres.List(ctx)
		if err != nil {
			return err
		}
		return r.print(found)
	})
}

// PlaylistsCreate creates an empty playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		created, err := svc.playlists.Create(ctx, cmd.String("name"), cmd.Int64("owner"))
		if err != nil {
			return err
		}
		return r.print(created)
	})
}

// PlaylistsList lists the playlists of a user.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		owned, err := svc.playlists.ListByOwner(ctx, cmd.Int64("owner"))
		if err != nil {
			return err
		}
		return r.print(owned)
	})
}

// PlaylistsRename renames a playlist.
func (r *Runner) PlaylistsRename(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		renamed, err := svc.playlists.Rename(ctx, cmd.Int64("playlist"), cmd.String("name"))
		if err != nil {
			return err
		}
		return r.print(renamed)
	})
}

// PlaylistsAdd links a song to a playlist.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		playlistID, songID := cmd.Int64("playlist"), cmd.Int64("song")
		if err := svc.playlists.AddSong(ctx, playlistID, songID); err != nil {
			return err
		}
		return r.print(map[string]int64{"playlistId": playlistID, "songId": songID})
	})
}

// PlaylistsRemove unlinks a song from a playlist.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		playlistID, songID := cmd.Int64("playlist"), cmd.Int64("song")
		if err := svc.playlists.RemoveSong(ctx, playlistID, songID); err != nil {
			return err
		}
		return r.print(map[string]int64{"playlistId": playlistID, "songId": songID})
	})
}

// PlaylistsSongs lists the songs of a playlist.
func (r *Runner) PlaylistsSongs(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		found, err := svc.playlists.ListSongs(ctx, cmd.Int64("playlist"))
		if err != nil {
			return err
		}
		return r.print(found)
	})
}

// PlaylistsDelete deletes a playlist and its memberships.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	return r.with(ctx, cmd, func(ctx context.Context, svc *services) error {
		playlistID := cmd.Int64("playlist")
		if err := svc.playlists.Delete(ctx, playlistID); err != nil {
			return err
		}
		return r.print(map[string]int64{"deleted": playlistID})
	})
}
