package main

import (
	"github.com/urfave/cli/v3"
)

func idFlag(usage string) cli.Flag {
	return &cli.Int64Flag{Name: "id", Usage: usage, Required: true}
}

func playlistFlag() cli.Flag {
	return &cli.Int64Flag{Name: "playlist", Usage: "playlist id", Required: true}
}

func songFlag() cli.Flag {
	return &cli.Int64Flag{Name: "song", Usage: "song id", Required: true}
}

// songFieldFlags are shared by add and update. A name creates the artist or
// album when it does not exist yet; an id must already exist.
func songFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "song name"},
		&cli.StringFlag{Name: "artist", Usage: "artist name"},
		&cli.Int64Flag{Name: "artist-id", Usage: "existing artist id"},
		&cli.StringFlag{Name: "album", Usage: "album name"},
		&cli.Int64Flag{Name: "album-id", Usage: "existing album id"},
		&cli.Int64Flag{Name: "genre-id", Usage: "genre id"},
		&cli.StringFlag{Name: "audio", Usage: "audio file reference"},
		&cli.StringFlag{Name: "cover", Usage: "cover image reference"},
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Manage the database schema",
			Commands: []*cli.Command{
				{Name: "up", Usage: "Apply pending migrations", Action: r.MigrateUp},
				{Name: "down", Usage: "Roll back every migration", Action: r.MigrateDown},
				{Name: "version", Usage: "Print the applied schema version", Action: r.MigrateVersion},
			},
		},
		{
			Name:   "seed",
			Usage:  "Load the demo catalog into an empty database",
			Action: r.Seed,
		},
		{
			Name:  "songs",
			Usage: "Manage songs",
			Commands: []*cli.Command{
				{
					Name:  "search",
					Usage: "Search songs by name, artist, album or genre",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Usage: "song name contains"},
						&cli.StringFlag{Name: "artist", Usage: "artist name contains"},
						&cli.StringFlag{Name: "album", Usage: "album name contains"},
						&cli.StringFlag{Name: "genre", Usage: "genre name contains"},
					},
					Action: r.SongsSearch,
				},
				{
					Name:   "add",
					Usage:  "Add a song",
					Flags:  songFieldFlags(),
					Action: r.SongsAdd,
				},
				{
					Name:   "update",
					Usage:  "Update the given fields of a song",
					Flags:  append([]cli.Flag{idFlag("song id")}, songFieldFlags()...),
					Action: r.SongsUpdate,
				},
				{
					Name:   "delete",
					Usage:  "Delete a song and its playlist entries",
					Flags:  []cli.Flag{idFlag("song id")},
					Action: r.SongsDelete,
				},
				{
					Name:   "like",
					Usage:  "Like a song",
					Flags:  []cli.Flag{idFlag("song id")},
					Action: r.SongsLike,
				},
			},
		},
		{
			Name:  "playlists",
			Usage: "Manage playlists",
			Commands: []*cli.Command{
				{
					Name:  "create",
					Usage: "Create an empty playlist",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Usage: "playlist name", Required: true},
						&cli.Int64Flag{Name: "owner", Usage: "owner user id", Required: true},
					},
					Action: r.PlaylistsCreate,
				},
				{
					Name:   "list",
					Usage:  "List the playlists of a user",
					Flags:  []cli.Flag{&cli.Int64Flag{Name: "owner", Usage: "owner user id", Required: true}},
					Action: r.PlaylistsList,
				},
				{
					Name:  "rename",
					Usage: "Rename a playlist",
					Flags: []cli.Flag{
						playlistFlag(),
						&cli.StringFlag{Name: "name", Usage: "new name", Required: true},
					},
					Action: r.PlaylistsRename,
				},
				{
					Name:   "add",
					Usage:  "Add a song to a playlist",
					Flags:  []cli.Flag{playlistFlag(), songFlag()},
					Action: r.PlaylistsAdd,
				},
				{
					Name:   "remove",
					Usage:  "Remove a song from a playlist",
					Flags:  []cli.Flag{playlistFlag(), songFlag()},
					Action: r.PlaylistsRemove,
				},
				{
					Name:   "songs",
					Usage:  "List the songs of a playlist",
					Flags:  []cli.Flag{playlistFlag()},
					Action: r.PlaylistsSongs,
				},
				{
					Name:   "delete",
					Usage:  "Delete a playlist",
					Flags:  []cli.Flag{playlistFlag()},
					Action: r.PlaylistsDelete,
				},
			},
		},
		{
			Name:  "artists",
			Usage: "Browse artists",
			Commands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List artists",
					Flags:  []cli.Flag{&cli.StringFlag{Name: "name", Usage: "artist name contains"}},
					Action: r.ArtistsList,
				},
			},
		},
		{
			Name:  "albums",
			Usage: "Browse albums",
			Commands: []*cli.Command{
				{
					Name:  "list",
					Usage: "List albums",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Usage: "album name contains"},
						&cli.Int64Flag{Name: "artist-id", Usage: "artist id"},
					},
					Action: r.AlbumsList,
				},
				{
					Name:   "songs",
					Usage:  "List the songs of an album",
					Flags:  []cli.Flag{idFlag("album id")},
					Action: r.AlbumSongs,
				},
			},
		},
		{
			Name:  "genres",
			Usage: "Browse genres",
			Commands: []*cli.Command{
				{Name: "list", Usage: "List genres", Action: r.GenresList},
			},
		},
	}
}

// newApp assembles the command tree.
func (r *Runner) newApp() *cli.Command {
	return &cli.Command{
		Name:  "melodia",
		Usage: "Catalog and playlist administration",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "memory", Usage: "use a seeded in-memory catalog instead of Postgres"},
		},
		Commands: r.register(),
	}
}
