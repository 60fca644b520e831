package server

import (
	"fmt"
	"net/http"
	"testing"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestFlowOverHTTP(t *testing.T) {
	s, app := newTestServer(t)

	alex := seedTestUser(t, s, "alex")
	blair := seedTestUser(t, s, "blair")

	resp := doJSON(t, s, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", blair.ID), alex.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	friendship := decodeBody[models.Friendship](t, resp)
	assert.Equal(t, models.FriendshipStatusPending, friendship.Status)

	t.Run("addressee sees the pending request", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/friends/requests", blair.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		requests := decodeBody[[]models.Friendship](t, resp)
		require.Len(t, requests, 1)
		assert.Equal(t, alex.ID, requests[0].RequesterID)
	})

	t.Run("requester cannot accept their own request", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("addressee accepts", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), blair.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		accepted := decodeBody[models.Friendship](t, resp)
		assert.Equal(t, models.FriendshipStatusAccepted, accepted.Status)
	})

	t.Run("both sides list each other", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/friends/", alex.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		friends := decodeBody[[]models.User](t, resp)
		require.Len(t, friends, 1)
		assert.Equal(t, blair.ID, friends[0].ID)
	})

	t.Run("status endpoint reflects the friendship", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet,
			fmt.Sprintf("/api/friends/status/%d", blair.ID), alex.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		status := decodeBody[models.Friendship](t, resp)
		assert.Equal(t, models.FriendshipStatusAccepted, status.Status)
	})

	t.Run("status is 404 for strangers", func(t *testing.T) {
		casey := seedTestUser(t, s, "casey")
		resp := doJSON(t, s, app, http.MethodGet,
			fmt.Sprintf("/api/friends/status/%d", casey.ID), alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("re-request conflicts", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d", alex.ID), blair.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("remove friendship", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodDelete,
			fmt.Sprintf("/api/friends/%d", blair.ID), alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		listResp := doJSON(t, s, app, http.MethodGet, "/api/friends/", alex.ID, nil)
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		friends := decodeBody[[]models.User](t, listResp)
		assert.Empty(t, friends)
	})
}
