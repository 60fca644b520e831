package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycleOverHTTP(t *testing.T) {
	s, app := newTestServer(t)

	alex := seedTestUser(t, s, "alex")
	blair := seedTestUser(t, s, "blair")
	gym := seedTestGym(t, s)

	require.NoError(t, s.db.Create(&models.Friendship{
		RequesterID: alex.ID,
		AddresseeID: blair.ID,
		Status:      models.FriendshipStatusAccepted,
	}).Error)

	two := 2
	createReq := map[string]any{
		"title":            "Morning push day",
		"gym_id":           gym.ID,
		"scheduled_at":     time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"visibility":       "friends",
		"max_participants": two,
	}

	resp := doJSON(t, s, app, http.MethodPost, "/api/sessions/", alex.ID, createReq)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Session](t, resp)
	require.NotZero(t, created.ID)
	assert.Len(t, created.Participants, 1)

	sessionPath := fmt.Sprintf("/api/sessions/%d", created.ID)

	t.Run("appears in friend's feed", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/sessions/feed", blair.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		feed := decodeBody[[]models.Session](t, resp)
		require.Len(t, feed, 1)
		assert.Equal(t, created.ID, feed[0].ID)
	})

	t.Run("friend joins", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, sessionPath+"/join", blair.ID, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		p := decodeBody[models.SessionParticipant](t, resp)
		assert.Equal(t, models.RSVPGoing, p.RSVPStatus)
	})

	t.Run("capacity rejection maps to 400", func(t *testing.T) {
		casey := seedTestUser(t, s, "casey")
		resp := doJSON(t, s, app, http.MethodPost, sessionPath+"/join", casey.ID,
			map[string]string{"rsvp_status": "going"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[models.ErrorResponse](t, resp)
		assert.Equal(t, "SESSION_FULL", body.Code)
	})

	t.Run("check-in before joining is forbidden", func(t *testing.T) {
		drew := seedTestUser(t, s, "drew")
		resp := doJSON(t, s, app, http.MethodPost, sessionPath+"/check-in", drew.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("participant checks in", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, sessionPath+"/check-in", blair.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		p := decodeBody[models.SessionParticipant](t, resp)
		assert.True(t, p.CheckedIn)
		assert.NotNil(t, p.CheckedInAt)
	})

	t.Run("non-creator cannot cancel", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, sessionPath+"/cancel", blair.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("leave then leave again is a no-op", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, sessionPath+"/leave", blair.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]bool](t, resp)
		assert.True(t, body["removed"])

		resp = doJSON(t, s, app, http.MethodPost, sessionPath+"/leave", blair.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body = decodeBody[map[string]bool](t, resp)
		assert.False(t, body["removed"])
	})

	t.Run("unknown session maps to 404", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/sessions/9999", alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSessionInviteOverHTTP(t *testing.T) {
	s, app := newTestServer(t)

	alex := seedTestUser(t, s, "alex")
	blair := seedTestUser(t, s, "blair")
	gym := seedTestGym(t, s)

	resp := doJSON(t, s, app, http.MethodPost, "/api/sessions/", alex.ID, map[string]any{
		"title":        "Private lift",
		"gym_id":       gym.ID,
		"scheduled_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		"visibility":   "private",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Session](t, resp)

	invitePath := fmt.Sprintf("/api/sessions/%d/invite", created.ID)

	t.Run("empty target list rejected", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, invitePath, alex.ID, map[string]any{
			"user_ids": []uint{},
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invite enrolls target as maybe", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, invitePath, alex.ID, map[string]any{
			"user_ids": []uint{blair.ID, 9999},
			"message":  "come lift",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decodeBody[map[string][]uint](t, resp)
		assert.Equal(t, []uint{blair.ID}, result["invited"])
		assert.Equal(t, []uint{9999}, result["skipped"])
	})

	t.Run("invitee can read the private session", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, fmt.Sprintf("/api/sessions/%d", created.ID), blair.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestSessionFeedWindowOverHTTP(t *testing.T) {
	s, app := newTestServer(t)
	alex := seedTestUser(t, s, "alex")

	resp := doJSON(t, s, app, http.MethodGet, "/api/sessions/feed?from=not-a-time", alex.ID, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
