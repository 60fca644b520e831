package models

import "time"

// Gym represents a training location: a registered gym or a user-created
// custom spot (park, home gym, climbing wall).
type Gym struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:200;not null;index" json:"name"`
	Address   string  `gorm:"size:500" json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Phone     string  `gorm:"size:50" json:"phone,omitempty"`
	Website   string  `gorm:"size:300" json:"website,omitempty"`
	PhotoURL  string  `gorm:"size:500" json:"photo_url,omitempty"`

	// GooglePlaceID deduplicates gyms imported from the Places API.
	// Unique when present; custom locations leave it nil.
	GooglePlaceID *string `gorm:"size:100;uniqueIndex" json:"google_place_id,omitempty"`

	IsCustom    bool  `gorm:"default:false" json:"is_custom"`
	CreatedByID *uint `json:"created_by_id,omitempty"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Gym) TableName() string {
	return "gyms"
}
