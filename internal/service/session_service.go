// Package service contains the business logic layer of the application.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gymbuddy/internal/models"
	"gymbuddy/internal/notifications"
	"gymbuddy/internal/observability"
	"gymbuddy/internal/repository"
)

// SessionVisibleTo reports whether a session may appear in the viewer's feed.
// The predicate is pure: it derives only from the session's stored fields, the
// viewer's accepted-friend set and the includePublic flag.
//
// A non-cancelled session is visible iff at least one of:
//   - the viewer created it (any visibility),
//   - its creator is a friend and its visibility is friends or public,
//   - includePublic is set and its visibility is public.
func SessionVisibleTo(s *models.Session, viewerID uint, friendIDs map[uint]bool, includePublic bool) bool {
	if s.IsCancelled {
		return false
	}
	if s.CreatorID == viewerID {
		return true
	}
	if friendIDs[s.CreatorID] {
		switch s.Visibility {
		case models.SessionVisibilityFriends, models.SessionVisibilityPublic:
			return true
		case models.SessionVisibilityPrivate, models.SessionVisibilityGroup:
			// Friendship alone does not open private or group sessions.
		}
	}
	return includePublic && s.Visibility == models.SessionVisibilityPublic
}

// FeedOptions bounds a feed computation. Either time bound may be omitted.
type FeedOptions struct {
	From          *time.Time
	To            *time.Time
	IncludePublic bool
}

// CreateSessionInput carries the caller-supplied fields for a new session.
type CreateSessionInput struct {
	Title           string
	Description     string
	GymID           uint
	ScheduledAt     time.Time
	DurationMinutes int
	Visibility      models.SessionVisibility
	GroupID         *uint
	MaxParticipants *int
	IsRecurring     bool
	RecurrenceRule  string
	Exercises       []AddExerciseInput
}

// UpdateSessionInput carries optional fields for a partial session update.
// Nil pointers leave the stored value untouched.
type UpdateSessionInput struct {
	Title           *string
	Description     *string
	GymID           *uint
	ScheduledAt     *time.Time
	DurationMinutes *int
	Visibility      *models.SessionVisibility
	GroupID         *uint
	MaxParticipants *int
}

// AddExerciseInput carries the fields for a planned exercise.
type AddExerciseInput struct {
	Name            string
	Sets            *int
	Reps            string
	DurationSeconds *int
	Notes           string
	OrderIndex      *int
}

// InviteResult reports the per-target outcome of an invite call.
type InviteResult struct {
	Invited []uint `json:"invited"`
	Skipped []uint `json:"skipped"`
}

// SessionService implements the session visibility and participation engine.
type SessionService struct {
	sessionRepo repository.SessionRepository
	friendRepo  repository.FriendRepository
	userRepo    repository.UserRepository
	gymRepo     repository.GymRepository
	groupRepo   repository.GroupRepository
	notifier    *notifications.Notifier

	feedPageSize    int
	defaultDuration int
}

// NewSessionService returns a SessionService with the given collaborators and
// engine knobs. feedPageSize caps feed results; defaultDuration (minutes) is
// applied to sessions created without one.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	gymRepo repository.GymRepository,
	groupRepo repository.GroupRepository,
	notifier *notifications.Notifier,
	feedPageSize int,
	defaultDuration int,
) *SessionService {
	if feedPageSize <= 0 {
		feedPageSize = 50
	}
	if defaultDuration <= 0 {
		defaultDuration = 60
	}
	return &SessionService{
		sessionRepo:     sessionRepo,
		friendRepo:      friendRepo,
		userRepo:        userRepo,
		gymRepo:         gymRepo,
		groupRepo:       groupRepo,
		notifier:        notifier,
		feedPageSize:    feedPageSize,
		defaultDuration: defaultDuration,
	}
}

// Feed computes the viewer's session feed: non-cancelled sessions passing
// SessionVisibleTo, optionally restricted to a scheduled-time window, ordered
// soonest first and capped at the configured page size. Callers needing more
// page by advancing From.
func (s *SessionService) Feed(ctx context.Context, viewerID uint, opts FeedOptions) ([]models.Session, error) {
	start := time.Now()
	defer func() {
		observability.SessionFeedLatency.Observe(time.Since(start).Seconds())
	}()

	if _, err := s.userRepo.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	// Each bound applies only when the caller supplied it; an omitted bound
	// leaves that side of the window open.
	if opts.From != nil && opts.To != nil && opts.To.Before(*opts.From) {
		return nil, models.NewValidationError("Feed window end must not precede its start")
	}

	friendIDs, err := s.friendRepo.GetFriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.Feed(ctx, repository.FeedQuery{
		ViewerID:      viewerID,
		FriendIDs:     friendIDs,
		IncludePublic: opts.IncludePublic,
		From:          opts.From,
		To:            opts.To,
		Limit:         s.feedPageSize,
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Create validates the input and persists the session; the creator's going
// participation and any inline exercises are written atomically with the
// session itself. Inline exercises without an explicit order take their
// position in the list.
func (s *SessionService) Create(ctx context.Context, creatorID uint, input CreateSessionInput) (*models.Session, error) {
	if input.Title == "" {
		return nil, models.NewValidationError("Session title is required")
	}
	if input.ScheduledAt.IsZero() {
		return nil, models.NewValidationError("Session scheduled time is required")
	}
	if input.DurationMinutes < 0 {
		return nil, models.NewValidationError("Session duration must be positive")
	}
	if input.DurationMinutes == 0 {
		input.DurationMinutes = s.defaultDuration
	}
	if input.MaxParticipants != nil && *input.MaxParticipants <= 0 {
		return nil, models.NewValidationError("Max participants must be positive when set")
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.SessionVisibilityFriends
	}
	switch visibility {
	case models.SessionVisibilityPrivate, models.SessionVisibilityFriends,
		models.SessionVisibilityGroup, models.SessionVisibilityPublic:
	default:
		return nil, models.NewValidationError("Invalid session visibility")
	}

	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}
	if _, err := s.gymRepo.GetByID(ctx, input.GymID); err != nil {
		return nil, err
	}
	if visibility == models.SessionVisibilityGroup && input.GroupID == nil {
		return nil, models.NewValidationError("Group visibility requires a group")
	}
	if input.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *input.GroupID); err != nil {
			return nil, err
		}
	}

	exercises := make([]models.SessionExercise, 0, len(input.Exercises))
	for i, ex := range input.Exercises {
		if err := validateExercise(ex); err != nil {
			return nil, err
		}
		orderIndex := i
		if ex.OrderIndex != nil {
			orderIndex = *ex.OrderIndex
		}
		exercises = append(exercises, models.SessionExercise{
			Name:            ex.Name,
			Sets:            ex.Sets,
			Reps:            ex.Reps,
			DurationSeconds: ex.DurationSeconds,
			Notes:           ex.Notes,
			OrderIndex:      orderIndex,
		})
	}

	session := &models.Session{
		Title:           input.Title,
		Description:     input.Description,
		GymID:           input.GymID,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Visibility:      visibility,
		GroupID:         input.GroupID,
		MaxParticipants: input.MaxParticipants,
		CreatorID:       creatorID,
		IsRecurring:     input.IsRecurring,
		RecurrenceRule:  input.RecurrenceRule,
		Exercises:       exercises,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, session.ID)
}

// Get returns the session when the viewer may see it. Participants and
// invitees see the session regardless of its visibility; everyone else goes
// through the feed predicate. Invisible sessions read as not found rather
// than leaking their existence.
func (s *SessionService) Get(ctx context.Context, viewerID, sessionID uint) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.CreatorID == viewerID {
		return session, nil
	}
	for i := range session.Participants {
		if session.Participants[i].UserID == viewerID {
			return session, nil
		}
	}

	friendIDs, err := s.friendIDSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if SessionVisibleTo(session, viewerID, friendIDs, true) {
		return session, nil
	}
	return nil, models.NewNotFoundError("Session", sessionID)
}

// Update applies a partial update. Creator only.
func (s *SessionService) Update(ctx context.Context, userID, sessionID uint, input UpdateSessionInput) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatorID != userID {
		return nil, models.NewForbiddenError("Only the session creator can update it")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, models.NewValidationError("Session title is required")
		}
		session.Title = *input.Title
	}
	if input.Description != nil {
		session.Description = *input.Description
	}
	if input.GymID != nil {
		if _, err := s.gymRepo.GetByID(ctx, *input.GymID); err != nil {
			return nil, err
		}
		session.GymID = *input.GymID
	}
	if input.ScheduledAt != nil {
		session.ScheduledAt = *input.ScheduledAt
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes <= 0 {
			return nil, models.NewValidationError("Session duration must be positive")
		}
		session.DurationMinutes = *input.DurationMinutes
	}
	if input.Visibility != nil {
		switch *input.Visibility {
		case models.SessionVisibilityPrivate, models.SessionVisibilityFriends,
			models.SessionVisibilityGroup, models.SessionVisibilityPublic:
			session.Visibility = *input.Visibility
		default:
			return nil, models.NewValidationError("Invalid session visibility")
		}
	}
	if input.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *input.GroupID); err != nil {
			return nil, err
		}
		session.GroupID = input.GroupID
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants <= 0 {
			return nil, models.NewValidationError("Max participants must be positive when set")
		}
		session.MaxParticipants = input.MaxParticipants
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// Cancel marks the session cancelled. Creator only. Cancelled sessions drop
// out of every feed but remain readable by their participants.
func (s *SessionService) Cancel(ctx context.Context, userID, sessionID uint) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatorID != userID {
		return nil, models.NewForbiddenError("Only the session creator can cancel it")
	}
	if session.IsCancelled {
		return session, nil
	}

	session.IsCancelled = true
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	for i := range session.Participants {
		p := &session.Participants[i]
		if p.UserID == userID {
			continue
		}
		s.notify(ctx, p.UserID, notifications.Event{
			Type:  "session_cancelled",
			Title: "Session cancelled",
			Body:  fmt.Sprintf("%q was cancelled", session.Title),
			Data:  map[string]string{"session_id": strconv.FormatUint(uint64(session.ID), 10)},
		})
	}

	return session, nil
}

// Delete removes the session with its participants and exercises. Creator only.
func (s *SessionService) Delete(ctx context.Context, userID, sessionID uint) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.CreatorID != userID {
		return models.NewForbiddenError("Only the session creator can delete it")
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Join enrolls the user, or updates their RSVP when already enrolled. This is
// the admission path: a going RSVP against a capped session is capacity
// pre-checked here. Raising an existing non-going RSVP through this path is
// capacity-checked too; RSVP flips through UpdateRSVP are not.
func (s *SessionService) Join(ctx context.Context, sessionID, userID uint, status models.RSVPStatus) (*models.SessionParticipant, error) {
	if status == "" {
		status = models.RSVPGoing
	}
	if !models.ValidRSVPStatus(status) {
		return nil, models.NewValidationError("Invalid RSVP status")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled {
		return nil, models.NewValidationError("Cannot join a cancelled session")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if status == models.RSVPGoing && session.MaxParticipants != nil {
		existing, err := s.sessionRepo.GetParticipant(ctx, sessionID, userID)
		if err != nil {
			return nil, err
		}
		alreadyGoing := existing != nil && existing.RSVPStatus == models.RSVPGoing
		if !alreadyGoing {
			going, err := s.sessionRepo.CountGoing(ctx, sessionID)
			if err != nil {
				return nil, err
			}
			if going >= int64(*session.MaxParticipants) {
				observability.SessionJoins.WithLabelValues("full").Inc()
				return nil, models.NewCapacityError("Session is full")
			}
		}
	}

	participant := &models.SessionParticipant{
		SessionID:  sessionID,
		UserID:     userID,
		RSVPStatus: status,
	}
	if err := s.sessionRepo.UpsertParticipant(ctx, participant); err != nil {
		observability.SessionJoins.WithLabelValues("error").Inc()
		return nil, err
	}
	observability.SessionJoins.WithLabelValues("ok").Inc()

	return s.sessionRepo.GetParticipant(ctx, sessionID, userID)
}

// UpdateRSVP updates the user's RSVP without re-running the capacity check.
// Capacity is an admission control applied when joining, not re-validated on
// every flip; lowering an RSVP must never be blocked.
func (s *SessionService) UpdateRSVP(ctx context.Context, sessionID, userID uint, status models.RSVPStatus) (*models.SessionParticipant, error) {
	if !models.ValidRSVPStatus(status) {
		return nil, models.NewValidationError("Invalid RSVP status")
	}
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	participant := &models.SessionParticipant{
		SessionID:  sessionID,
		UserID:     userID,
		RSVPStatus: status,
	}
	if err := s.sessionRepo.UpsertParticipant(ctx, participant); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetParticipant(ctx, sessionID, userID)
}

// Leave removes the user's participation. Returns whether a row was removed;
// leaving a session never joined is a no-op, not an error.
func (s *SessionService) Leave(ctx context.Context, sessionID, userID uint) (bool, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return false, err
	}

	participant, err := s.sessionRepo.GetParticipant(ctx, sessionID, userID)
	if err != nil {
		return false, err
	}
	if participant == nil {
		return false, nil
	}

	if err := s.sessionRepo.DeleteParticipant(ctx, sessionID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// CheckIn marks the participant as checked in. Requires prior enrollment;
// never-joined users get a recoverable not-eligible condition. Checking in is
// idempotent and never undone.
func (s *SessionService) CheckIn(ctx context.Context, sessionID, userID uint) (*models.SessionParticipant, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	participant, err := s.sessionRepo.GetParticipant(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, models.NewForbiddenError("Not eligible to check in: join the session first")
	}
	if participant.CheckedIn {
		return participant, nil
	}

	now := time.Now()
	participant.CheckedIn = true
	participant.CheckedInAt = &now
	if err := s.sessionRepo.SaveParticipant(ctx, participant); err != nil {
		return nil, err
	}
	observability.SessionCheckIns.Inc()
	return participant, nil
}

// Invite enrolls each target as a maybe participant with invite attribution.
// Targets are processed independently: one failure never rolls back the
// others. Already-enrolled targets are skipped without disturbing their RSVP.
func (s *SessionService) Invite(ctx context.Context, sessionID, inviterID uint, targetIDs []uint, message string) (*InviteResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled {
		return nil, models.NewValidationError("Cannot invite to a cancelled session")
	}

	if session.CreatorID != inviterID {
		inviter, err := s.sessionRepo.GetParticipant(ctx, sessionID, inviterID)
		if err != nil {
			return nil, err
		}
		if inviter == nil {
			return nil, models.NewForbiddenError("Only participants can invite others")
		}
	}

	result := &InviteResult{Invited: []uint{}, Skipped: []uint{}}
	for _, targetID := range targetIDs {
		if targetID == inviterID {
			result.Skipped = append(result.Skipped, targetID)
			continue
		}
		if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
			result.Skipped = append(result.Skipped, targetID)
			continue
		}

		inserted, err := s.sessionRepo.InsertParticipantIfAbsent(ctx, &models.SessionParticipant{
			SessionID:     sessionID,
			UserID:        targetID,
			RSVPStatus:    models.RSVPMaybe,
			InvitedByID:   &inviterID,
			InviteMessage: message,
		})
		if err != nil || !inserted {
			result.Skipped = append(result.Skipped, targetID)
			continue
		}

		result.Invited = append(result.Invited, targetID)
		s.notify(ctx, targetID, notifications.Event{
			Type:  "session_invite",
			Title: "Workout invite",
			Body:  inviteBody(session.Title, message),
			Data:  map[string]string{"session_id": strconv.FormatUint(uint64(session.ID), 10)},
		})
	}

	return result, nil
}

// AddExercise appends a planned exercise to the session. Participants only.
func (s *SessionService) AddExercise(ctx context.Context, sessionID, userID uint, input AddExerciseInput) (*models.SessionExercise, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.CreatorID != userID {
		participant, err := s.sessionRepo.GetParticipant(ctx, sessionID, userID)
		if err != nil {
			return nil, err
		}
		if participant == nil {
			return nil, models.NewForbiddenError("Only participants can add exercises")
		}
	}

	if err := validateExercise(input); err != nil {
		return nil, err
	}

	orderIndex := 0
	if input.OrderIndex != nil {
		orderIndex = *input.OrderIndex
	} else {
		count, err := s.sessionRepo.CountExercises(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		orderIndex = int(count)
	}

	exercise := &models.SessionExercise{
		SessionID:       sessionID,
		Name:            input.Name,
		Sets:            input.Sets,
		Reps:            input.Reps,
		DurationSeconds: input.DurationSeconds,
		Notes:           input.Notes,
		OrderIndex:      orderIndex,
	}
	if err := s.sessionRepo.AddExercise(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// MySessions lists the user's upcoming sessions across all RSVP states.
func (s *SessionService) MySessions(ctx context.Context, userID uint) ([]models.Session, error) {
	return s.sessionRepo.ListByParticipant(ctx, userID, time.Now(), s.feedPageSize)
}

func (s *SessionService) friendIDSet(ctx context.Context, userID uint) (map[uint]bool, error) {
	ids, err := s.friendRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *SessionService) notify(ctx context.Context, userID uint, event notifications.Event) {
	notifyUser(ctx, s.notifier, userID, event)
}

func validateExercise(input AddExerciseInput) error {
	if input.Name == "" {
		return models.NewValidationError("Exercise name is required")
	}
	if input.Sets != nil && *input.Sets <= 0 {
		return models.NewValidationError("Exercise sets must be positive when set")
	}
	if input.DurationSeconds != nil && *input.DurationSeconds <= 0 {
		return models.NewValidationError("Exercise duration must be positive when set")
	}
	return nil
}

func inviteBody(title, message string) string {
	if message == "" {
		return fmt.Sprintf("You were invited to %q", title)
	}
	return fmt.Sprintf("You were invited to %q: %s", title, message)
}
