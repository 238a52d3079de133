package store

import (
	"context"

	"melodia/internal/models"
)

// Queries is the uniform entity contract shared by the Postgres store and
// the in-memory store. Every method runs either on its own or inside the
// transaction handed out by Repository.InTx.
//
// Lookups return an apperr NotFound error naming the entity when no row
// matches. Deletes report whether a row existed.
type Queries interface {
	CreateGenre(ctx context.Context, name string) (models.Genre, error)
	GenreByID(ctx context.Context, id int64) (models.Genre, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	DeleteGenre(ctx context.Context, id int64) (bool, error)

	CreateArtist(ctx context.Context, artist models.Artist) (models.Artist, error)
	InsertArtistIfAbsent(ctx context.Context, name string) (models.Artist, bool, error)
	ArtistByID(ctx context.Context, id int64) (models.Artist, error)
	ArtistByName(ctx context.Context, name string) (models.Artist, error)
	ListArtists(ctx context.Context, filter ArtistFilter) ([]models.Artist, error)
	UpdateArtist(ctx context.Context, id int64, patch ArtistPatch) (models.Artist, error)
	DeleteArtist(ctx context.Context, id int64) (bool, error)

	CreateAlbum(ctx context.Context, album models.Album) (models.Album, error)
	InsertAlbumIfAbsent(ctx context.Context, name string, artistID int64) (models.Album, bool, error)
	AlbumByID(ctx context.Context, id int64) (models.Album, error)
	AlbumByNameAndArtist(ctx context.Context, name string, artistID int64) (models.Album, error)
	ListAlbums(ctx context.Context, filter AlbumFilter) ([]models.Album, error)
	UpdateAlbum(ctx context.Context, id int64, patch AlbumPatch) (models.Album, error)
	DeleteAlbum(ctx context.Context, id int64) (bool, error)

	CreateSong(ctx context.Context, song models.Song) (models.Song, error)
	SongByID(ctx context.Context, id int64) (models.Song, error)
	ListSongs(ctx context.Context, filter SongFilter) ([]models.Song, error)
	UpdateSong(ctx context.Context, id int64, patch SongPatch) (models.Song, error)
	AddSongLikes(ctx context.Context, id int64, delta int) (models.Song, error)
	DeleteSong(ctx context.Context, id int64) (bool, error)

	CreatePlaylist(ctx context.Context, name string, ownerID int64) (models.Playlist, error)
	PlaylistByID(ctx context.Context, id int64) (models.Playlist, error)
	PlaylistsByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error)
	RenamePlaylist(ctx context.Context, id int64, name string) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, id int64) (bool, error)

	AddMembership(ctx context.Context, playlistID, songID int64) error
	MembershipExists(ctx context.Context, playlistID, songID int64) (bool, error)
	RemoveMembership(ctx context.Context, playlistID, songID int64) (bool, error)
	DeletePlaylistMemberships(ctx context.Context, playlistID int64) (int64, error)
	DeleteSongMemberships(ctx context.Context, songID int64) (int64, error)
	PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error)

	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// Repository adds transaction scoping to Queries. fn runs against a
// transaction-bound Queries; returning an error rolls everything back.
type Repository interface {
	Queries
	InTx(ctx context.Context, fn func(q Queries) error) error
}

// ArtistFilter narrows ListArtists. Name is a case-insensitive substring.
type ArtistFilter struct {
	Name string
}

// AlbumFilter narrows ListAlbums.
type AlbumFilter struct {
	Name     string
	ArtistID *int64
}

// SongFilter narrows ListSongs. Text filters are case-insensitive
// substrings; Artist and Album match the effective names, so a song without
// a direct artist matches through its album's artist.
type SongFilter struct {
	Name    string
	Artist  string
	Album   string
	Genre   string
	AlbumID *int64
}

// ArtistPatch lists the artist columns to change. Nil fields are untouched.
type ArtistPatch struct {
	Name     *string
	PhotoURL *string
}

// AlbumPatch lists the album columns to change. Nil fields are untouched.
type AlbumPatch struct {
	Name     *string
	ArtistID *int64
	CoverURL *string
}

// SongPatch lists the song columns to change. Nil fields are untouched.
type SongPatch struct {
	Name     *string
	ArtistID *int64
	AlbumID  *int64
	GenreID  *int64
	Likes    *int
	AudioURL *string
	CoverURL *string
}

// Empty reports whether the patch changes nothing.
func (p SongPatch) Empty() bool {
	return p.Name == nil && p.ArtistID == nil && p.AlbumID == nil && p.GenreID == nil &&
		p.Likes == nil && p.AudioURL == nil && p.CoverURL == nil
}
