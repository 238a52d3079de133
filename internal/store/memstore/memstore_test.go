package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store"
)

func seedSong(t *testing.T, s *Store) (models.Genre, models.Album, models.Song) {
	t.Helper()
	ctx := context.Background()

	genre, err := s.CreateGenre(ctx, "Folk")
	require.NoError(t, err)
	artist, err := s.CreateArtist(ctx, models.Artist{Name: "Joni Mitchell"})
	require.NoError(t, err)
	cover := "blue.jpg"
	album, err := s.CreateAlbum(ctx, models.Album{Name: "Blue", ArtistID: artist.ID, CoverURL: &cover})
	require.NoError(t, err)
	song, err := s.CreateSong(ctx, models.Song{Name: "River", AlbumID: &album.ID, GenreID: genre.ID, AudioURL: "river.mp3"})
	require.NoError(t, err)
	return genre, album, song
}

func TestInTxDiscardsFailedTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(q store.Queries) error {
		if _, err := q.CreateGenre(ctx, "Jazz"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	genres, err := s.ListGenres(ctx)
	require.NoError(t, err)
	assert.Empty(t, genres)
}

func TestInTxCommitsEveryWrite(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.InTx(ctx, func(q store.Queries) error {
		artist, created, err := q.InsertArtistIfAbsent(ctx, "Nina Simone")
		if err != nil {
			return err
		}
		require.True(t, created)
		_, _, err = q.InsertAlbumIfAbsent(ctx, "Pastel Blues", artist.ID)
		return err
	})
	require.NoError(t, err)

	albums, err := s.ListAlbums(ctx, store.AlbumFilter{Name: "pastel"})
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "Nina Simone", albums[0].ArtistName)
}

func TestInsertIfAbsentReportsExistingRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, created, err := s.InsertArtistIfAbsent(ctx, "Joni")
	require.NoError(t, err)
	require.True(t, created)

	_, created, err = s.InsertArtistIfAbsent(ctx, "Joni")
	require.NoError(t, err)
	assert.False(t, created)

	_, created, err = s.InsertAlbumIfAbsent(ctx, "Blue", first.ID)
	require.NoError(t, err)
	require.True(t, created)
	_, created, err = s.InsertAlbumIfAbsent(ctx, "Blue", first.ID)
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = s.InsertAlbumIfAbsent(ctx, "Blue", 999)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestSongDisplayInheritsFromAlbum(t *testing.T) {
	s := New()
	_, album, song := seedSong(t, s)

	assert.Nil(t, song.ArtistID)
	require.NotNil(t, song.Display.ArtistID)
	assert.Equal(t, album.ArtistID, *song.Display.ArtistID)
	assert.Equal(t, "Joni Mitchell", song.Display.Artist)
	assert.Equal(t, "Blue", song.Display.Album)
	require.NotNil(t, song.Display.CoverURL)
	assert.Equal(t, "blue.jpg", *song.Display.CoverURL)
}

func TestListSongsMatchesInheritedArtist(t *testing.T) {
	s := New()
	ctx := context.Background()
	genre, _, inherited := seedSong(t, s)

	john, err := s.CreateArtist(ctx, models.Artist{Name: "John Martyn"})
	require.NoError(t, err)
	direct, err := s.CreateSong(ctx, models.Song{Name: "Solid Air", ArtistID: &john.ID, GenreID: genre.ID, AudioURL: "air.mp3"})
	require.NoError(t, err)
	other, err := s.CreateArtist(ctx, models.Artist{Name: "Nick Drake"})
	require.NoError(t, err)
	_, err = s.CreateSong(ctx, models.Song{Name: "Pink Moon", ArtistID: &other.ID, GenreID: genre.ID, AudioURL: "moon.mp3"})
	require.NoError(t, err)

	songs, err := s.ListSongs(ctx, store.SongFilter{Artist: "jo"})
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, inherited.ID, songs[0].ID)
	assert.Equal(t, direct.ID, songs[1].ID)
}

func TestReferencedRowsCannotBeDeleted(t *testing.T) {
	s := New()
	ctx := context.Background()
	genre, album, song := seedSong(t, s)

	user, err := s.CreateUser(ctx, models.User{Name: "ana", Email: "ana@example.com"})
	require.NoError(t, err)
	playlist, err := s.CreatePlaylist(ctx, "mix", user.ID)
	require.NoError(t, err)
	require.NoError(t, s.AddMembership(ctx, playlist.ID, song.ID))

	_, err = s.DeleteGenre(ctx, genre.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	_, err = s.DeleteAlbum(ctx, album.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	_, err = s.DeleteArtist(ctx, album.ArtistID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	_, err = s.DeleteSong(ctx, song.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	_, err = s.DeletePlaylist(ctx, playlist.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	got, err := s.PlaylistByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SongCount)
}

func TestMembershipConstraints(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _, song := seedSong(t, s)
	user, err := s.CreateUser(ctx, models.User{Name: "ana", Email: "ana@example.com"})
	require.NoError(t, err)
	playlist, err := s.CreatePlaylist(ctx, "mix", user.ID)
	require.NoError(t, err)

	require.NoError(t, s.AddMembership(ctx, playlist.ID, song.ID))
	err = s.AddMembership(ctx, playlist.ID, song.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = s.AddMembership(ctx, playlist.ID, 999)
	assert.Equal(t, "song", apperr.FieldOf(err))
	err = s.AddMembership(ctx, 999, song.ID)
	assert.Equal(t, "playlist", apperr.FieldOf(err))

	_, err = s.CreatePlaylist(ctx, "orphan", 999)
	assert.Equal(t, "owner", apperr.FieldOf(err))

	removed, err := s.DeleteSongMemberships(ctx, song.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestAddSongLikesNeverGoesNegative(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _, song := seedSong(t, s)

	liked, err := s.AddSongLikes(ctx, song.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	_, err = s.AddSongLikes(ctx, song.ID, -2)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.AddSongLikes(ctx, 999, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
