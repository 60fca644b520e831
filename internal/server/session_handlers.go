package server

import (
	"time"

	"gymbuddy/internal/models"
	"gymbuddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetSessionFeed handles GET /api/sessions/feed.
// Query params: include_public (bool), from and to (RFC 3339 timestamps).
func (s *Server) GetSessionFeed(c *fiber.Ctx) error {
	opts := service.FeedOptions{
		IncludePublic: c.QueryBool("include_public", true),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid 'from' timestamp, expected RFC 3339"))
		}
		opts.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid 'to' timestamp, expected RFC 3339"))
		}
		opts.To = &to
	}

	feed, err := s.sessionService.Feed(c.Context(), currentUserID(c), opts)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetMySessions handles GET /api/sessions/mine
func (s *Server) GetMySessions(c *fiber.Ctx) error {
	sessions, err := s.sessionService.MySessions(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(sessions)
}

// CreateSession handles POST /api/sessions
func (s *Server) CreateSession(c *fiber.Ctx) error {
	var req struct {
		Title           string    `json:"title"`
		Description     string    `json:"description"`
		GymID           uint      `json:"gym_id"`
		ScheduledAt     time.Time `json:"scheduled_at"`
		DurationMinutes int       `json:"duration_minutes"`
		Visibility      string    `json:"visibility"`
		GroupID         *uint     `json:"group_id"`
		MaxParticipants *int      `json:"max_participants"`
		IsRecurring     bool      `json:"is_recurring"`
		RecurrenceRule  string    `json:"recurrence_rule"`
		Exercises       []struct {
			Name            string `json:"name"`
			Sets            *int   `json:"sets"`
			Reps            string `json:"reps"`
			DurationSeconds *int   `json:"duration_seconds"`
			Notes           string `json:"notes"`
			OrderIndex      *int   `json:"order_index"`
		} `json:"exercises"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	exercises := make([]service.AddExerciseInput, 0, len(req.Exercises))
	for _, ex := range req.Exercises {
		exercises = append(exercises, service.AddExerciseInput{
			Name:            ex.Name,
			Sets:            ex.Sets,
			Reps:            ex.Reps,
			DurationSeconds: ex.DurationSeconds,
			Notes:           ex.Notes,
			OrderIndex:      ex.OrderIndex,
		})
	}

	session, err := s.sessionService.Create(c.Context(), currentUserID(c), service.CreateSessionInput{
		Title:           req.Title,
		Description:     req.Description,
		GymID:           req.GymID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Visibility:      models.SessionVisibility(req.Visibility),
		GroupID:         req.GroupID,
		MaxParticipants: req.MaxParticipants,
		IsRecurring:     req.IsRecurring,
		RecurrenceRule:  req.RecurrenceRule,
		Exercises:       exercises,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetSession handles GET /api/sessions/:id
func (s *Server) GetSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	session, err := s.sessionService.Get(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// UpdateSession handles PUT /api/sessions/:id
func (s *Server) UpdateSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title           *string    `json:"title"`
		Description     *string    `json:"description"`
		GymID           *uint      `json:"gym_id"`
		ScheduledAt     *time.Time `json:"scheduled_at"`
		DurationMinutes *int       `json:"duration_minutes"`
		Visibility      *string    `json:"visibility"`
		GroupID         *uint      `json:"group_id"`
		MaxParticipants *int       `json:"max_participants"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input := service.UpdateSessionInput{
		Title:           req.Title,
		Description:     req.Description,
		GymID:           req.GymID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		GroupID:         req.GroupID,
		MaxParticipants: req.MaxParticipants,
	}
	if req.Visibility != nil {
		v := models.SessionVisibility(*req.Visibility)
		input.Visibility = &v
	}

	session, err := s.sessionService.Update(c.Context(), currentUserID(c), id, input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// CancelSession handles POST /api/sessions/:id/cancel
func (s *Server) CancelSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	session, err := s.sessionService.Cancel(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// DeleteSession handles DELETE /api/sessions/:id
func (s *Server) DeleteSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.sessionService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// JoinSession handles POST /api/sessions/:id/join
func (s *Server) JoinSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		RSVPStatus string `json:"rsvp_status"`
	}
	// An empty body means a plain going join.
	_ = c.BodyParser(&req)

	participant, err := s.sessionService.Join(c.Context(), id, currentUserID(c), models.RSVPStatus(req.RSVPStatus))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

// UpdateRSVP handles PUT /api/sessions/:id/rsvp
func (s *Server) UpdateRSVP(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		RSVPStatus string `json:"rsvp_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	participant, err := s.sessionService.UpdateRSVP(c.Context(), id, currentUserID(c), models.RSVPStatus(req.RSVPStatus))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(participant)
}

// LeaveSession handles POST /api/sessions/:id/leave
func (s *Server) LeaveSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	removed, err := s.sessionService.Leave(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// CheckInSession handles POST /api/sessions/:id/check-in
func (s *Server) CheckInSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	participant, err := s.sessionService.CheckIn(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(participant)
}

// InviteToSession handles POST /api/sessions/:id/invite
func (s *Server) InviteToSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserIDs []uint `json:"user_ids"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(req.UserIDs) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At least one user to invite is required"))
	}
	if len(req.Message) > 300 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invite message too long (max 300 characters)"))
	}

	result, err := s.sessionService.Invite(c.Context(), id, currentUserID(c), req.UserIDs, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// AddSessionExercise handles POST /api/sessions/:id/exercises
func (s *Server) AddSessionExercise(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name            string `json:"name"`
		Sets            *int   `json:"sets"`
		Reps            string `json:"reps"`
		DurationSeconds *int   `json:"duration_seconds"`
		Notes           string `json:"notes"`
		OrderIndex      *int   `json:"order_index"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	exercise, err := s.sessionService.AddExercise(c.Context(), id, currentUserID(c), service.AddExerciseInput{
		Name:            req.Name,
		Sets:            req.Sets,
		Reps:            req.Reps,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
		OrderIndex:      req.OrderIndex,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}
