package repository

import (
	"context"
	"errors"
	"time"

	"gymbuddy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedQuery bounds a session feed lookup for one viewer. Either time bound
// may be nil; a nil bound leaves that side of the window open.
type FeedQuery struct {
	ViewerID      uint
	FriendIDs     []uint
	IncludePublic bool
	From          *time.Time
	To            *time.Time
	Limit         int
}

// SessionRepository defines persistence operations for sessions, participants
// and exercises.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id uint) error
	Feed(ctx context.Context, q FeedQuery) ([]models.Session, error)
	ListByParticipant(ctx context.Context, userID uint, from time.Time, limit int) ([]models.Session, error)

	UpsertParticipant(ctx context.Context, participant *models.SessionParticipant) error
	InsertParticipantIfAbsent(ctx context.Context, participant *models.SessionParticipant) (bool, error)
	GetParticipant(ctx context.Context, sessionID, userID uint) (*models.SessionParticipant, error)
	SaveParticipant(ctx context.Context, participant *models.SessionParticipant) error
	DeleteParticipant(ctx context.Context, sessionID, userID uint) error
	CountGoing(ctx context.Context, sessionID uint) (int64, error)

	AddExercise(ctx context.Context, exercise *models.SessionExercise) error
	CountExercises(ctx context.Context, sessionID uint) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns a new SessionRepository implementation.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create persists the session and enrolls its creator as a going participant
// in one transaction.
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		creator := models.SessionParticipant{
			SessionID:  session.ID,
			UserID:     session.CreatorID,
			RSVPStatus: models.RSVPGoing,
		}
		return tx.Create(&creator).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).
		Preload("Gym").
		Preload("Creator").
		Preload("Participants.User").
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Session", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Feed returns non-cancelled sessions visible to the viewer: their own,
// their friends' friends-or-public sessions and, when requested, everyone's
// public sessions. Ordered soonest first.
func (r *sessionRepository) Feed(ctx context.Context, q FeedQuery) ([]models.Session, error) {
	var sessions []models.Session

	db := r.db.WithContext(ctx).
		Where("is_cancelled = ?", false)
	if q.From != nil {
		db = db.Where("scheduled_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("scheduled_at <= ?", *q.To)
	}

	visible := r.db.Where("creator_id = ?", q.ViewerID)
	if len(q.FriendIDs) > 0 {
		visible = visible.Or(
			r.db.Where("creator_id IN ?", q.FriendIDs).
				Where("visibility IN ?", []models.SessionVisibility{
					models.SessionVisibilityFriends,
					models.SessionVisibilityPublic,
				}),
		)
	}
	if q.IncludePublic {
		visible = visible.Or("visibility = ?", models.SessionVisibilityPublic)
	}
	db = db.Where(visible)

	if err := db.
		Preload("Gym").
		Preload("Creator").
		Preload("Participants").
		Order("scheduled_at ASC").
		Limit(q.Limit).
		Find(&sessions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return sessions, nil
}

func (r *sessionRepository) ListByParticipant(ctx context.Context, userID uint, from time.Time, limit int) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Joins("JOIN session_participants sp ON sp.session_id = sessions.id").
		Where("sp.user_id = ? AND sessions.is_cancelled = ? AND sessions.scheduled_at >= ?", userID, false, from).
		Preload("Gym").
		Preload("Creator").
		Order("sessions.scheduled_at ASC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return sessions, nil
}

// UpsertParticipant inserts the participant row, or updates only its RSVP
// status when the (session, user) pair already exists. Invite attribution on
// an existing row is never overwritten.
func (r *sessionRepository) UpsertParticipant(ctx context.Context, participant *models.SessionParticipant) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rsvp_status"}),
		}).
		Create(participant).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// InsertParticipantIfAbsent inserts the participant row only when the
// (session, user) pair does not exist yet. Returns whether a row was
// inserted. Used by invites, which must never disturb an existing RSVP.
func (r *sessionRepository) InsertParticipantIfAbsent(ctx context.Context, participant *models.SessionParticipant) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(participant)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepository) GetParticipant(ctx context.Context, sessionID, userID uint) (*models.SessionParticipant, error) {
	var participant models.SessionParticipant
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &participant, nil
}

func (r *sessionRepository) SaveParticipant(ctx context.Context, participant *models.SessionParticipant) error {
	if err := r.db.WithContext(ctx).Save(participant).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sessionRepository) DeleteParticipant(ctx context.Context, sessionID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.SessionParticipant{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sessionRepository) CountGoing(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SessionParticipant{}).
		Where("session_id = ? AND rsvp_status = ?", sessionID, models.RSVPGoing).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *sessionRepository) AddExercise(ctx context.Context, exercise *models.SessionExercise) error {
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sessionRepository) CountExercises(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SessionExercise{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
