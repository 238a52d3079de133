// Package memstore is an in-memory implementation of store.Repository.
// It enforces the same uniqueness and reference constraints as the Postgres
// schema so the managers behave identically on top of either store.
//
// Transactions are serialized: InTx takes the write lock, runs fn against a
// private copy of the state and swaps the copy in only when fn succeeds.
package memstore

import (
	"context"
	"sync"

	"melodia/internal/models"
	"melodia/internal/store"
)

type membershipKey struct {
	playlistID int64
	songID     int64
}

type sequences struct {
	genre, artist, album, song, user, playlist int64
}

// state holds rows by id. Stored structs are treated as immutable: writes
// replace a row, they never modify what its pointer fields point to.
type state struct {
	next        sequences
	genres      map[int64]models.Genre
	artists     map[int64]models.Artist
	albums      map[int64]models.Album
	songs       map[int64]models.Song
	users       map[int64]models.User
	playlists   map[int64]models.Playlist
	memberships map[membershipKey]struct{}
}

func newState() *state {
	return &state{
		genres:      map[int64]models.Genre{},
		artists:     map[int64]models.Artist{},
		albums:      map[int64]models.Album{},
		songs:       map[int64]models.Song{},
		users:       map[int64]models.User{},
		playlists:   map[int64]models.Playlist{},
		memberships: map[membershipKey]struct{}{},
	}
}

func (s *state) clone() *state {
	cp := &state{
		next:        s.next,
		genres:      make(map[int64]models.Genre, len(s.genres)),
		artists:     make(map[int64]models.Artist, len(s.artists)),
		albums:      make(map[int64]models.Album, len(s.albums)),
		songs:       make(map[int64]models.Song, len(s.songs)),
		users:       make(map[int64]models.User, len(s.users)),
		playlists:   make(map[int64]models.Playlist, len(s.playlists)),
		memberships: make(map[membershipKey]struct{}, len(s.memberships)),
	}
	for k, v := range s.genres {
		cp.genres[k] = v
	}
	for k, v := range s.artists {
		cp.artists[k] = v
	}
	for k, v := range s.albums {
		cp.albums[k] = v
	}
	for k, v := range s.songs {
		cp.songs[k] = v
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.playlists {
		cp.playlists[k] = v
	}
	for k := range s.memberships {
		cp.memberships[k] = struct{}{}
	}
	return cp
}

// Store is a mutex-guarded in-memory repository.
type Store struct {
	mu    sync.RWMutex
	state *state
}

var _ store.Repository = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{state: newState()}
}

// InTx runs fn against a copy of the current state and commits the copy
// when fn returns nil. fn must only use the Queries it is given.
func (s *Store) InTx(ctx context.Context, fn func(q store.Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	working := s.state.clone()
	if err := fn(&view{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func read[T any](s *Store, fn func(v *view) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&view{state: s.state})
}

func write[T any](s *Store, fn func(v *view) (T, error)) (T, error) {
	var out T
	err := s.InTx(context.Background(), func(q store.Queries) error {
		var err error
		out, err = fn(q.(*view))
		return err
	})
	return out, err
}

func (s *Store) CreateGenre(ctx context.Context, name string) (models.Genre, error) {
	return write(s, func(v *view) (models.Genre, error) { return v.CreateGenre(ctx, name) })
}

func (s *Store) GenreByID(ctx context.Context, id int64) (models.Genre, error) {
	return read(s, func(v *view) (models.Genre, error) { return v.GenreByID(ctx, id) })
}

func (s *Store) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return read(s, func(v *view) ([]models.Genre, error) { return v.ListGenres(ctx) })
}

func (s *Store) DeleteGenre(ctx context.Context, id int64) (bool, error) {
	return write(s, func(v *view) (bool, error) { return v.DeleteGenre(ctx, id) })
}

func (s *Store) CreateArtist(ctx context.Context, artist models.Artist) (models.Artist, error) {
	return write(s, func(v *view) (models.Artist, error) { return v.CreateArtist(ctx, artist) })
}

func (s *Store) InsertArtistIfAbsent(ctx context.Context, name string) (models.Artist, bool, error) {
	var created bool
	artist, err := write(s, func(v *view) (models.Artist, error) {
		a, ok, err := v.InsertArtistIfAbsent(ctx, name)
		created = ok
		return a, err
	})
	return artist, created, err
}

func (s *Store) ArtistByID(ctx context.Context, id int64) (models.Artist, error) {
	return read(s, func(v *view) (models.Artist, error) { return v.ArtistByID(ctx, id) })
}

func (s *Store) ArtistByName(ctx context.Context, name string) (models.Artist, error) {
	return read(s, func(v *view) (models.Artist, error) { return v.ArtistByName(ctx, name) })
}

func (s *Store) ListArtists(ctx context.Context, filter store.ArtistFilter) ([]models.Artist, error) {
	return read(s, func(v *view) ([]models.Artist, error) { return v.ListArtists(ctx, filter) })
}

func (s *Store) UpdateArtist(ctx context.Context, id int64, patch store.ArtistPatch) (models.Artist, error) {
	return write(s, func(v *view) (models.Artist, error) { return v.UpdateArtist(ctx, id, patch) })
}

func (s *Store) DeleteArtist(ctx context.Context, id int64) (bool, error) {
	return write(s, func(v *view) (bool, error) { return v.DeleteArtist(ctx, id) })
}

func (s *Store) CreateAlbum(ctx context.Context, album models.Album) (models.Album, error) {
	return write(s, func(v *view) (models.Album, error) { return v.CreateAlbum(ctx, album) })
}

func (s *Store) InsertAlbumIfAbsent(ctx context.Context, name string, artistID int64) (models.Album, bool, error) {
	var created bool
	album, err := write(s, func(v *view) (models.Album, error) {
		a, ok, err := v.InsertAlbumIfAbsent(ctx, name, artistID)
		created = ok
		return a, err
	})
	return album, created, err
}

func (s *Store) AlbumByID(ctx context.Context, id int64) (models.Album, error) {
	return read(s, func(v *view) (models.Album, error) { return v.AlbumByID(ctx, id) })
}

func (s *Store) AlbumByNameAndArtist(ctx context.Context, name string, artistID int64) (models.Album, error) {
	return read(s, func(v *view) (models.Album, error) { return v.AlbumByNameAndArtist(ctx, name, artistID) })
}

func (s *Store) ListAlbums(ctx context.Context, filter store.AlbumFilter) ([]models.Album, error) {
	return read(s, func(v *view) ([]models.Album, error) { return v.ListAlbums(ctx, filter) })
}

func (s *Store) UpdateAlbum(ctx context.Context, id int64, patch store.AlbumPatch) (models.Album, error) {
	return write(s, func(v *view) (models.Album, error) { return v.UpdateAlbum(ctx, id, patch) })
}

func (s *Store) DeleteAlbum(ctx context.Context, id int64) (bool, error) {
	return write(s, func(v *view) (bool, error) { return v.DeleteAlbum(ctx, id) })
}

func (s *Store) CreateSong(ctx context.Context, song models.Song) (models.Song, error) {
	return write(s, func(v *view) (models.Song, error) { return v.CreateSong(ctx, song) })
}

func (s *Store) SongByID(ctx context.Context, id int64) (models.Song, error) {
	return read(s, func(v *view) (models.Song, error) { return v.SongByID(ctx, id) })
}

func (s *Store) ListSongs(ctx context.Context, filter store.SongFilter) ([]models.Song, error) {
	return read(s, func(v *view) ([]models.Song, error) { return v.ListSongs(ctx, filter) })
}

func (s *Store) UpdateSong(ctx context.Context, id int64, patch store.SongPatch) (models.Song, error) {
	return write(s, func(v *view) (models.Song, error) { return v.UpdateSong(ctx, id, patch) })
}

func (s *Store) AddSongLikes(ctx context.Context, id int64, delta int) (models.Song, error) {
	return write(s, func(v *view) (models.Song, error) { return v.AddSongLikes(ctx, id, delta) })
}

func (s *Store) DeleteSong(ctx context.Context, id int64) (bool, error) {
	return write(s, func(v *view) (bool, error) { return v.DeleteSong(ctx, id) })
}

func (s *Store) CreatePlaylist(ctx context.Context, name string, ownerID int64) (models.Playlist, error) {
	return write(s, func(v *view) (models.Playlist, error) { return v.CreatePlaylist(ctx, name, ownerID) })
}

func (s *Store) PlaylistByID(ctx context.Context, id int64) (models.Playlist, error) {
	return read(s, func(v *view) (models.Playlist, error) { return v.PlaylistByID(ctx, id) })
}

func (s *Store) PlaylistsByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	return read(s, func(v *view) ([]models.Playlist, error) { return v.PlaylistsByOwner(ctx, ownerID) })
}

func (s *Store) RenamePlaylist(ctx context.Context, id int64, name string) (models.Playlist, error) {
	return write(s, func(v *view) (models.Playlist, error) { return v.RenamePlaylist(ctx, id, name) })
}

func (s *Store) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	return write(s, func(v *view) (bool, error) { return v.DeletePlaylist(ctx, id) })
}

func (s *Store) AddMembership(ctx context.Context, playlistID, songID int64) error {
	_, err := write(s, func(v *view) (struct{}, error) {
		return struct{}{}, v.AddMembership(ctx, playlistID, songID)
	})
	return err
}

func (s *Store) MembershipExists(ctx context.Context, playlistID, songID int64) (bool, error) {
	return read(s, func(v *view) (bool, error) { return v.MembershipExists(ctx, playlistID, songID) })
}

func (s *Store) RemoveMembership(ctx context.Context, playlistID, songID int64) (bool, error) {
	return write(s, func(v *view) (bool, error) { return v.RemoveMembership(ctx, playlistID, songID) })
}

func (s *Store) DeletePlaylistMemberships(ctx context.Context, playlistID int64) (int64, error) {
	return write(s, func(v *view) (int64, error) { return v.DeletePlaylistMemberships(ctx, playlistID) })
}

func (s *Store) DeleteSongMemberships(ctx context.Context, songID int64) (int64, error) {
	return write(s, func(v *view) (int64, error) { return v.DeleteSongMemberships(ctx, songID) })
}

func (s *Store) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	return read(s, func(v *view) ([]models.Song, error) { return v.PlaylistSongs(ctx, playlistID) })
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	return write(s, func(v *view) (models.User, error) { return v.CreateUser(ctx, user) })
}

func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	return read(s, func(v *view) (models.User, error) { return v.UserByID(ctx, id) })
}

func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	return read(s, func(v *view) (bool, error) { return v.UserExists(ctx, id) })
}
