package server

import (
	"strconv"

	"gymbuddy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateGym handles POST /api/gyms. Gyms carrying a Google Place ID are
// deduplicated against it; re-posting a known place returns the existing gym.
func (s *Server) CreateGym(c *fiber.Ctx) error {
	var req struct {
		Name          string  `json:"name"`
		Address       string  `json:"address"`
		Latitude      float64 `json:"latitude"`
		Longitude     float64 `json:"longitude"`
		Phone         string  `json:"phone"`
		Website       string  `json:"website"`
		PhotoURL      string  `json:"photo_url"`
		GooglePlaceID *string `json:"google_place_id"`
		IsCustom      bool    `json:"is_custom"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Gym name is required"))
	}

	if req.GooglePlaceID != nil && *req.GooglePlaceID != "" {
		existing, err := s.gymRepo.GetByGooglePlaceID(c.Context(), *req.GooglePlaceID)
		if err != nil {
			return respondServiceError(c, err)
		}
		if existing != nil {
			return c.Status(fiber.StatusOK).JSON(existing)
		}
	}

	creatorID := currentUserID(c)
	gym := &models.Gym{
		Name:          req.Name,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Phone:         req.Phone,
		Website:       req.Website,
		PhotoURL:      req.PhotoURL,
		GooglePlaceID: req.GooglePlaceID,
		IsCustom:      req.IsCustom,
		CreatedByID:   &creatorID,
	}
	if err := s.gymRepo.Create(c.Context(), gym); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(gym)
}

// GetGyms handles GET /api/gyms. With lat and lon query parameters the
// listing becomes a proximity search within radius_km (default 10).
func (s *Server) GetGyms(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	if c.Query("lat") != "" || c.Query("lon") != "" {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
		if latErr != nil || lonErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("lat and lon must both be valid coordinates"))
		}
		radiusKM := 10.0
		if raw := c.Query("radius_km"); raw != "" {
			r, err := strconv.ParseFloat(raw, 64)
			if err != nil || r <= 0 {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("radius_km must be a positive number"))
			}
			radiusKM = r
		}

		gyms, err := s.gymRepo.Nearby(c.Context(), lat, lon, radiusKM, p.Limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(gyms)
	}

	gyms, err := s.gymRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(gyms)
}

// SearchGyms handles GET /api/gyms/search
func (s *Server) SearchGyms(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	p := parsePagination(c, 20)
	gyms, err := s.gymRepo.Search(c.Context(), query, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(gyms)
}

// GetGym handles GET /api/gyms/:id
func (s *Server) GetGym(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	gym, err := s.gymRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(gym)
}

// GetFavoriteGyms handles GET /api/gyms/favorites
func (s *Server) GetFavoriteGyms(c *fiber.Ctx) error {
	gyms, err := s.gymRepo.GetFavorites(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(gyms)
}

// AddFavoriteGym handles POST /api/gyms/:id/favorite
func (s *Server) AddFavoriteGym(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.gymRepo.GetByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	if err := s.gymRepo.AddFavorite(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFavoriteGym handles DELETE /api/gyms/:id/favorite
func (s *Server) RemoveFavoriteGym(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.gymRepo.RemoveFavorite(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
