package server

import (
	"strings"

	"gymbuddy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RegisterPushToken handles POST /api/notifications/tokens. Registering a
// token already bound to another account moves it; devices change hands.
func (s *Server) RegisterPushToken(c *fiber.Ctx) error {
	var req struct {
		Token      string `json:"token"`
		DeviceType string `json:"device_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Push token is required"))
	}
	switch req.DeviceType {
	case "ios", "android", "":
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Device type must be ios or android"))
	}

	token := &models.NotificationToken{
		UserID:     currentUserID(c),
		Token:      req.Token,
		DeviceType: req.DeviceType,
	}
	if err := s.tokenRepo.Register(c.Context(), token); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(token)
}

// ListPushTokens handles GET /api/notifications/tokens
func (s *Server) ListPushTokens(c *fiber.Ctx) error {
	tokens, err := s.tokenRepo.GetActiveTokens(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tokens)
}

// UnregisterPushToken handles DELETE /api/notifications/tokens
func (s *Server) UnregisterPushToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Token == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Push token is required"))
	}

	if err := s.tokenRepo.Delete(c.Context(), currentUserID(c), req.Token); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
