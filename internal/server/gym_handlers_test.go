package server

import (
	"fmt"
	"net/http"
	"testing"

	"gymbuddy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGymHandlersOverHTTP(t *testing.T) {
	s, app := newTestServer(t)
	alex := seedTestUser(t, s, "alex")

	create := map[string]any{
		"name":            "Iron Temple",
		"address":         "1 Main St",
		"google_place_id": "place-123",
	}

	resp := doJSON(t, s, app, http.MethodPost, "/api/gyms/", alex.ID, create)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	gym := decodeBody[models.Gym](t, resp)
	require.NotZero(t, gym.ID)

	t.Run("re-posting a known place returns the existing gym", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodPost, "/api/gyms/", alex.ID, create)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		dup := decodeBody[models.Gym](t, resp)
		assert.Equal(t, gym.ID, dup.ID)
	})

	t.Run("search", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/gyms/search?q=iron", alex.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		gyms := decodeBody[[]models.Gym](t, resp)
		assert.Len(t, gyms, 1)
	})

	t.Run("favorites round trip", func(t *testing.T) {
		favPath := fmt.Sprintf("/api/gyms/%d/favorite", gym.ID)

		resp := doJSON(t, s, app, http.MethodPost, favPath, alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		listResp := doJSON(t, s, app, http.MethodGet, "/api/gyms/favorites", alex.ID, nil)
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		favs := decodeBody[[]models.Gym](t, listResp)
		require.Len(t, favs, 1)
		assert.Equal(t, gym.ID, favs[0].ID)

		delResp := doJSON(t, s, app, http.MethodDelete, favPath, alex.ID, nil)
		defer func() { _ = delResp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	})

	t.Run("nearby search", func(t *testing.T) {
		far := map[string]any{
			"name":      "Far Away Fitness",
			"address":   "99 Distant Rd",
			"latitude":  10.0,
			"longitude": 10.0,
		}
		resp := doJSON(t, s, app, http.MethodPost, "/api/gyms/", alex.ID, far)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		// Iron Temple was created with zero coordinates, so a search around
		// the origin finds it and not the distant gym.
		listResp := doJSON(t, s, app, http.MethodGet, "/api/gyms/?lat=0&lon=0&radius_km=5", alex.ID, nil)
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		nearby := decodeBody[[]models.Gym](t, listResp)
		require.Len(t, nearby, 1)
		assert.Equal(t, gym.ID, nearby[0].ID)
	})

	t.Run("nearby search rejects bad coordinates", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/gyms/?lat=abc&lon=0", alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown gym maps to 404", func(t *testing.T) {
		resp := doJSON(t, s, app, http.MethodGet, "/api/gyms/9999", alex.ID, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
