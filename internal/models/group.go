package models

import "time"

// Group is a user-owned training group that sessions can be scoped to.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	PhotoURL    string `gorm:"size:500" json:"photo_url,omitempty"`

	OwnerID uint  `gorm:"not null;index" json:"owner_id"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	IsPrivate  bool `gorm:"default:true" json:"is_private"`
	MaxMembers int  `gorm:"default:50" json:"max_members"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "groups"
}
