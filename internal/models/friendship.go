package models

import "time"

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a friendship request awaiting a response.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	// FriendshipStatusDeclined indicates a declined friendship request.
	FriendshipStatusDeclined FriendshipStatus = "declined"
	// FriendshipStatusBlocked indicates a blocked relationship.
	FriendshipStatusBlocked FriendshipStatus = "blocked"
)

// Friendship represents a friend-request pair between two users. The
// direction matters while pending (only the addressee may accept or
// decline); once accepted the relation is treated as undirected. At most
// one row exists per unordered pair of users.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index;uniqueIndex:idx_requester_addressee" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;index;uniqueIndex:idx_requester_addressee" json:"addressee_id"`
	Status      FriendshipStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Requester *User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee *User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// OtherUserID returns the user on the other side of the friendship.
func (f *Friendship) OtherUserID(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
