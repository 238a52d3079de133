package albums

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store"
	"melodia/internal/store/memstore"
)

func TestAlbumLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	svc := New(repo)

	joni, err := repo.CreateArtist(ctx, models.Artist{Name: "Joni"})
	require.NoError(t, err)
	nina, err := repo.CreateArtist(ctx, models.Artist{Name: "Nina"})
	require.NoError(t, err)

	blue, err := svc.Create(ctx, "Blue", joni.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Joni", blue.ArtistName)

	_, err = svc.Create(ctx, "Blue", joni.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	sameTitle, err := svc.Create(ctx, "Blue", nina.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, blue.ID, sameTitle.ID)

	_, err = svc.Create(ctx, "Ghost", 999, nil)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "artist", apperr.FieldOf(err))

	byArtist, err := svc.List(ctx, store.AlbumFilter{ArtistID: &nina.ID})
	require.NoError(t, err)
	require.Len(t, byArtist, 1)
	assert.Equal(t, sameTitle.ID, byArtist[0].ID)

	_, err = svc.Update(ctx, sameTitle.ID, Patch{ArtistID: &joni.ID})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	cover := "blue.jpg"
	updated, err := svc.Update(ctx, blue.ID, Patch{CoverURL: &cover})
	require.NoError(t, err)
	require.NotNil(t, updated.CoverURL)

	got, err := svc.Get(ctx, blue.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue.jpg", *got.CoverURL)
}

func TestDeleteAlbumWithSongsIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	svc := New(repo)

	artist, err := repo.CreateArtist(ctx, models.Artist{Name: "Joni"})
	require.NoError(t, err)
	album, err := svc.Create(ctx, "Blue", artist.ID, nil)
	require.NoError(t, err)
	genre, err := repo.CreateGenre(ctx, "Folk")
	require.NoError(t, err)
	_, err = repo.CreateSong(ctx, models.Song{Name: "River", AlbumID: &album.ID, GenreID: genre.ID, AudioURL: "r.mp3"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, album.ID), apperr.ErrConflict)
	assert.ErrorIs(t, svc.Delete(ctx, 999), apperr.ErrNotFound)
}
