package server

import (
	"net/http"
	"testing"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushTokenLifecycleOverHTTP(t *testing.T) {
	s, app := newTestServer(t)
	alex := seedTestUser(t, s, "alex")

	resp := doJSON(t, s, app, http.MethodPost, "/api/notifications/tokens/", alex.ID, map[string]string{
		"token":       "ExponentPushToken[abc123]",
		"device_type": "ios",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := decodeBody[models.NotificationToken](t, resp)
	assert.True(t, token.IsActive)

	t.Run("list returns the active token", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/notifications/tokens/", alex.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		tokens := decodeBody[[]models.NotificationToken](t, resp)
		require.Len(t, tokens, 1)
		assert.Equal(t, "ExponentPushToken[abc123]", tokens[0].Token)
	})

	t.Run("unknown device type rejected", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, "/api/notifications/tokens/", alex.ID, map[string]string{
			"token":       "ExponentPushToken[def456]",
			"device_type": "blackberry",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unregister removes the token", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodDelete, "/api/notifications/tokens/", alex.ID, map[string]string{
			"token": "ExponentPushToken[abc123]",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		listResp := doJSON(t, s, app, http.MethodGet, "/api/notifications/tokens/", alex.ID, nil)
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		tokens := decodeBody[[]models.NotificationToken](t, listResp)
		assert.Empty(t, tokens)
	})
}
