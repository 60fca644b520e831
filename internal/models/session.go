package models

import "time"

// SessionVisibility controls which viewers a workout session is shown to.
type SessionVisibility string

const (
	// SessionVisibilityPrivate shows a session only to invited participants.
	SessionVisibilityPrivate SessionVisibility = "private"
	// SessionVisibilityFriends shows a session to the creator's accepted friends.
	SessionVisibilityFriends SessionVisibility = "friends"
	// SessionVisibilityGroup shows a session to members of its group.
	SessionVisibilityGroup SessionVisibility = "group"
	// SessionVisibilityPublic shows a session to anyone.
	SessionVisibilityPublic SessionVisibility = "public"
)

// RSVPStatus represents a participant's stated intent to attend.
type RSVPStatus string

const (
	// RSVPGoing indicates the participant plans to attend.
	RSVPGoing RSVPStatus = "going"
	// RSVPMaybe indicates the participant is undecided.
	RSVPMaybe RSVPStatus = "maybe"
	// RSVPNotGoing indicates the participant will not attend.
	RSVPNotGoing RSVPStatus = "not_going"
)

// ValidRSVPStatus reports whether s is one of the three known RSVP states.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

// Session represents a scheduled workout session at a gym.
type Session struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	GymID uint `gorm:"not null" json:"gym_id"`
	Gym   *Gym `gorm:"foreignKey:GymID" json:"gym,omitempty"`

	ScheduledAt     time.Time `gorm:"index;not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`

	Visibility SessionVisibility `gorm:"type:varchar(20);default:'friends'" json:"visibility"`
	GroupID    *uint             `json:"group_id,omitempty"`
	Group      *Group            `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	// MaxParticipants caps the number of "going" participants; nil means unbounded.
	MaxParticipants *int `json:"max_participants,omitempty"`

	CreatorID uint  `gorm:"not null;index" json:"creator_id"`
	Creator   *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	IsRecurring    bool   `gorm:"default:false" json:"is_recurring"`
	RecurrenceRule string `gorm:"size:100" json:"recurrence_rule,omitempty"`

	IsCancelled bool `gorm:"default:false" json:"is_cancelled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []SessionParticipant `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Exercises    []SessionExercise    `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
}

// TableName specifies the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// SessionParticipant joins a user to a session with their RSVP and check-in
// state. At most one row exists per (session, user) pair; the composite
// unique index backs the insert-or-update contract in the repository.
type SessionParticipant struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SessionID uint `gorm:"not null;uniqueIndex:idx_session_user" json:"session_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_session_user" json:"user_id"`
	User      *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	RSVPStatus RSVPStatus `gorm:"type:varchar(20);default:'going'" json:"rsvp_status"`

	// CheckedIn and CheckedInAt are set together; once checked in a
	// participant is never un-checked.
	CheckedIn   bool       `gorm:"default:false" json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`

	InvitedByID   *uint  `json:"invited_by_id,omitempty"`
	InviteMessage string `gorm:"size:300" json:"invite_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (SessionParticipant) TableName() string {
	return "session_participants"
}

// SessionExercise is a planned exercise within a session.
type SessionExercise struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SessionID uint `gorm:"not null;index" json:"session_id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	Sets            *int   `json:"sets,omitempty"`
	Reps            string `gorm:"size:50" json:"reps,omitempty"` // free-form, e.g. "8-12"
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	Notes           string `gorm:"size:300" json:"notes,omitempty"`

	// OrderIndex orders exercises within a session; defaults to insertion index.
	OrderIndex int `gorm:"column:order_index;default:0" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (SessionExercise) TableName() string {
	return "session_exercises"
}
