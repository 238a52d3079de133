package genres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store/memstore"
)

func TestGenreCatalog(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	svc := New(repo)

	rock, err := svc.Create(ctx, "Rock")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Ambient")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Rock")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = svc.Create(ctx, " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ambient", all[0].Name)

	_, err = repo.CreateSong(ctx, models.Song{Name: "Song", GenreID: rock.ID, AudioURL: "a.mp3"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, rock.ID), apperr.ErrConflict)

	got, err := svc.Get(ctx, rock.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rock", got.Name)

	assert.ErrorIs(t, svc.Delete(ctx, 999), apperr.ErrNotFound)
}
