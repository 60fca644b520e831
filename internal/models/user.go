// Package models contains data structures for the application's domain models.
package models

import "time"

// TrainingLevel represents a user's self-reported experience level.
type TrainingLevel string

const (
	// TrainingLevelBeginner is the default level for new users.
	TrainingLevelBeginner TrainingLevel = "beginner"
	// TrainingLevelIntermediate indicates a user with some training history.
	TrainingLevelIntermediate TrainingLevel = "intermediate"
	// TrainingLevelAdvanced indicates an experienced user.
	TrainingLevelAdvanced TrainingLevel = "advanced"
)

// ProfileVisibility controls who can view a user's profile.
type ProfileVisibility string

const (
	// ProfileVisibilityPublic makes a profile visible to anyone.
	ProfileVisibilityPublic ProfileVisibility = "public"
	// ProfileVisibilityFriends restricts a profile to accepted friends.
	ProfileVisibilityFriends ProfileVisibility = "friends"
	// ProfileVisibilityPrivate restricts a profile to its owner.
	ProfileVisibilityPrivate ProfileVisibility = "private"
)

// User represents a registered GymBuddy user.
type User struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Email         string            `gorm:"unique;not null" json:"email"`
	Password      string            `gorm:"not null" json:"-"`
	Name          string            `gorm:"size:100;not null" json:"name"`
	PhotoURL      string            `gorm:"size:500" json:"photo_url"`
	Bio           string            `gorm:"size:500" json:"bio"`
	TrainingLevel TrainingLevel     `gorm:"type:varchar(20);default:'beginner'" json:"training_level"`
	Visibility    ProfileVisibility `gorm:"type:varchar(20);default:'private'" json:"visibility"`
	IsActive      bool              `gorm:"default:true" json:"is_active"`
	IsVerified    bool              `gorm:"default:false" json:"is_verified"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// UserFavoriteGym maps users to their favorited gyms.
type UserFavoriteGym struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	GymID     uint      `gorm:"primaryKey;autoIncrement:false" json:"gym_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Gym  *Gym  `gorm:"foreignKey:GymID" json:"gym,omitempty"`
}

// TableName specifies the table name for GORM
func (UserFavoriteGym) TableName() string {
	return "user_favorite_gyms"
}
