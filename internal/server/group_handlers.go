package server

import (
	"gymbuddy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateGroup handles POST /api/groups
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		PhotoURL    string `json:"photo_url"`
		IsPrivate   *bool  `json:"is_private"`
		MaxMembers  int    `json:"max_members"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Group name is required"))
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		OwnerID:     currentUserID(c),
		IsPrivate:   true,
		MaxMembers:  50,
	}
	if req.IsPrivate != nil {
		group.IsPrivate = *req.IsPrivate
	}
	if req.MaxMembers > 0 {
		group.MaxMembers = req.MaxMembers
	}

	if err := s.groupRepo.Create(c.Context(), group); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetMyGroups handles GET /api/groups/mine
func (s *Server) GetMyGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.ListByOwner(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(groups)
}

// GetGroup handles GET /api/groups/:id
func (s *Server) GetGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// UpdateGroup handles PUT /api/groups/:id. Owner only.
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if group.OwnerID != currentUserID(c) {
		return respondServiceError(c,
			models.NewForbiddenError("Only the group owner can update it"))
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		PhotoURL    *string `json:"photo_url"`
		IsPrivate   *bool   `json:"is_private"`
		MaxMembers  *int    `json:"max_members"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name != nil {
		if *req.Name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Group name is required"))
		}
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.PhotoURL != nil {
		group.PhotoURL = *req.PhotoURL
	}
	if req.IsPrivate != nil {
		group.IsPrivate = *req.IsPrivate
	}
	if req.MaxMembers != nil {
		if *req.MaxMembers <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Max members must be positive"))
		}
		group.MaxMembers = *req.MaxMembers
	}

	if err := s.groupRepo.Update(c.Context(), group); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/groups/:id. Owner only.
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if group.OwnerID != currentUserID(c) {
		return respondServiceError(c,
			models.NewForbiddenError("Only the group owner can delete it"))
	}

	if err := s.groupRepo.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
