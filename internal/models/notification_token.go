package models

import "time"

// NotificationToken stores an Expo push token registered by a user's device.
// Registering an already-known token re-binds it to the registering user and
// reactivates it; tokens the push provider rejects are deactivated, not deleted.
type NotificationToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Token      string    `gorm:"size:500;not null;uniqueIndex" json:"token"`
	DeviceType string    `gorm:"size:20" json:"device_type,omitempty"` // "ios" or "android"
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (NotificationToken) TableName() string {
	return "notification_tokens"
}
