package server

import (
	"fmt"
	"net/http"
	"testing"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileVisibilityOverHTTP(t *testing.T) {
	s, app := newTestServer(t)

	alex := seedTestUser(t, s, "alex")
	blair := seedTestUser(t, s, "blair")
	casey := seedTestUser(t, s, "casey")

	require.NoError(t, s.db.Model(&models.User{}).
		Where("id = ?", blair.ID).
		Update("visibility", models.ProfileVisibilityFriends).Error)
	require.NoError(t, s.db.Create(&models.Friendship{
		RequesterID: alex.ID,
		AddresseeID: blair.ID,
		Status:      models.FriendshipStatusAccepted,
	}).Error)

	blairPath := fmt.Sprintf("/api/users/%d", blair.ID)

	t.Run("friend sees friends-only profile", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, blairPath, alex.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := decodeBody[models.User](t, resp)
		assert.Equal(t, blair.ID, user.ID)
	})

	t.Run("stranger gets 404 for friends-only profile", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, blairPath, casey.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("owner always sees their own profile", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, blairPath, blair.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestUpdateMyProfileOverHTTP(t *testing.T) {
	s, app := newTestServer(t)
	alex := seedTestUser(t, s, "alex")

	resp := doJSON(t, s, app, http.MethodPut, "/api/users/me", alex.ID, map[string]string{
		"bio":            "Chasing a 200kg deadlift",
		"training_level": "intermediate",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decodeBody[models.User](t, resp)
	assert.Equal(t, "Chasing a 200kg deadlift", user.Bio)
	assert.Equal(t, models.TrainingLevelIntermediate, user.TrainingLevel)

	t.Run("invalid training level rejected", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPut, "/api/users/me", alex.ID, map[string]string{
			"training_level": "elite",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSearchUsersOverHTTP(t *testing.T) {
	s, app := newTestServer(t)
	alex := seedTestUser(t, s, "alex")
	seedTestUser(t, s, "alexa")
	seedTestUser(t, s, "blair")

	resp := doJSON(t, s, app, http.MethodGet, "/api/users/search?q=alex", alex.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decodeBody[[]models.User](t, resp)
	assert.Len(t, users, 2)

	t.Run("missing query rejected", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/users/search", alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
