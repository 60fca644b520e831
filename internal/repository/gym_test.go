package repository

import (
	"context"
	"testing"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGymRepository_CRUDAndSearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewGymRepository(db)
	ctx := context.Background()

	placeID := "place-123"
	gym := &models.Gym{
		Name:          "Iron Temple",
		Address:       "1 Main St",
		GooglePlaceID: &placeID,
	}
	require.NoError(t, repo.Create(ctx, gym))

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, gym.ID)
		require.NoError(t, err)
		assert.Equal(t, "Iron Temple", got.Name)
	})

	t.Run("GetByGooglePlaceID", func(t *testing.T) {
		got, err := repo.GetByGooglePlaceID(ctx, placeID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, gym.ID, got.ID)

		missing, err := repo.GetByGooglePlaceID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate place ID conflicts", func(t *testing.T) {
		dup := &models.Gym{Name: "Clone Gym", GooglePlaceID: &placeID}
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("Search matches name case-insensitively", func(t *testing.T) {
		results, err := repo.Search(ctx, "iron", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)

		results, err = repo.Search(ctx, "zzz", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestGymRepository_Favorites(t *testing.T) {
	db := newTestDB(t)
	repo := NewGymRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alex")
	gym := seedGym(t, db)

	require.NoError(t, repo.AddFavorite(ctx, user.ID, gym.ID))
	// Favoriting twice is a no-op.
	require.NoError(t, repo.AddFavorite(ctx, user.ID, gym.ID))

	favs, err := repo.GetFavorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, gym.ID, favs[0].ID)

	require.NoError(t, repo.RemoveFavorite(ctx, user.ID, gym.ID))
	favs, err = repo.GetFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}
