package artists

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store/memstore"
)

func TestArtistLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	svc := New(repo)

	joni, err := svc.Create(ctx, " Joni Mitchell ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Joni Mitchell", joni.Name)

	_, err = svc.Create(ctx, "Joni Mitchell", nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = svc.Create(ctx, "", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, "Nick Drake", nil)
	require.NoError(t, err)

	found, err := svc.List(ctx, Filter{Name: "joni"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, joni.ID, found[0].ID)

	photo := "joni.jpg"
	updated, err := svc.Update(ctx, joni.ID, Patch{PhotoURL: &photo})
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoURL)
	assert.Equal(t, "joni.jpg", *updated.PhotoURL)
	assert.Equal(t, "Joni Mitchell", updated.Name)

	taken := "Nick Drake"
	_, err = svc.Update(ctx, joni.ID, Patch{Name: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteReferencedArtistIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	svc := New(repo)

	artist, err := svc.Create(ctx, "Joni", nil)
	require.NoError(t, err)
	album, err := repo.CreateAlbum(ctx, models.Album{Name: "Blue", ArtistID: artist.ID})
	require.NoError(t, err)

	err = svc.Delete(ctx, artist.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = repo.DeleteAlbum(ctx, album.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, artist.ID))

	err = svc.Delete(ctx, artist.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
