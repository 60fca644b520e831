package repository

import (
	"context"
	"testing"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "alex")
	u2 := seedUser(t, db, "blair")
	u3 := seedUser(t, db, "casey")

	t.Run("Create and GetPendingRequests", func(t *testing.T) {
		friendship := &models.Friendship{
			RequesterID: u1.ID,
			AddresseeID: u2.ID,
			Status:      models.FriendshipStatusPending,
		}

		err := repo.Create(ctx, friendship)
		require.NoError(t, err)

		reqs, err := repo.GetPendingRequests(ctx, u2.ID)
		assert.NoError(t, err)
		assert.Len(t, reqs, 1)
		assert.Equal(t, u1.ID, reqs[0].RequesterID)

		// The requester sees it as a sent request, not a pending one.
		sent, err := repo.GetSentRequests(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Len(t, sent, 1)

		reqs, err = repo.GetPendingRequests(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Empty(t, reqs)
	})

	t.Run("UpdateStatus and GetFriends", func(t *testing.T) {
		f, _ := repo.GetFriendshipBetweenUsers(ctx, u1.ID, u2.ID)
		require.NotNil(t, f)
		err := repo.UpdateStatus(ctx, f.ID, models.FriendshipStatusAccepted)
		assert.NoError(t, err)

		friends, err := repo.GetFriends(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Len(t, friends, 1)
		assert.Equal(t, u2.Name, friends[0].Name)
	})

	t.Run("GetFriendIDs is symmetric", func(t *testing.T) {
		ids, err := repo.GetFriendIDs(ctx, u1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{u2.ID}, ids)

		ids, err = repo.GetFriendIDs(ctx, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{u1.ID}, ids)

		ids, err = repo.GetFriendIDs(ctx, u3.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("GetFriendshipBetweenUsers either direction", func(t *testing.T) {
		f, err := repo.GetFriendshipBetweenUsers(ctx, u2.ID, u1.ID)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, u1.ID, f.RequesterID)

		f, err = repo.GetFriendshipBetweenUsers(ctx, u1.ID, u3.ID)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("RemoveFriendship", func(t *testing.T) {
		err := repo.RemoveFriendship(ctx, u2.ID, u1.ID)
		assert.NoError(t, err)

		friends, _ := repo.GetFriends(ctx, u1.ID)
		assert.Empty(t, friends)
	})
}
