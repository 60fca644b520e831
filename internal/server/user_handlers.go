package server

import (
	"gymbuddy/internal/models"
	"gymbuddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name          string `json:"name"`
		Bio           string `json:"bio"`
		PhotoURL      string `json:"photo_url"`
		TrainingLevel string `json:"training_level"`
		Visibility    string `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:        currentUserID(c),
		Name:          req.Name,
		Bio:           req.Bio,
		PhotoURL:      req.PhotoURL,
		TrainingLevel: models.TrainingLevel(req.TrainingLevel),
		Visibility:    models.ProfileVisibility(req.Visibility),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeactivateMyAccount handles DELETE /api/users/me
func (s *Server) DeactivateMyAccount(c *fiber.Ctx) error {
	if err := s.userService.Deactivate(c.Context(), currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SearchUsers handles GET /api/users/search
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	p := parsePagination(c, 20)
	users, err := s.userService.SearchUsers(c.Context(), query, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id. Profile visibility gates what
// non-owners see: private profiles 404, friends-only profiles require an
// accepted friendship.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := currentUserID(c)

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if user.ID != viewerID {
		switch user.Visibility {
		case models.ProfileVisibilityPrivate:
			return respondServiceError(c, models.NewNotFoundError("User", id))
		case models.ProfileVisibilityFriends:
			friendIDs, err := s.friendRepo.GetFriendIDs(c.Context(), viewerID)
			if err != nil {
				return respondServiceError(c, err)
			}
			isFriend := false
			for _, fid := range friendIDs {
				if fid == user.ID {
					isFriend = true
					break
				}
			}
			if !isFriend {
				return respondServiceError(c, models.NewNotFoundError("User", id))
			}
		}
	}

	return c.JSON(user)
}
