package service

import (
	"context"
	"fmt"
	"strconv"

	"gymbuddy/internal/models"
	"gymbuddy/internal/notifications"
	"gymbuddy/internal/repository"
)

// FriendService handles friend request and friendship operations.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

// NewFriendService creates a new friend service.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, notifier *notifications.Notifier) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// SendRequest creates a pending friendship from requester to addressee. A
// pair with any existing friendship row is rejected: pending and accepted
// conflict, and declined or blocked pairs are terminal and cannot be
// re-requested.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, models.NewValidationError("Cannot send a friend request to yourself")
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewConflictError("Users are already friends")
		case models.FriendshipStatusPending:
			return nil, models.NewConflictError("A friend request is already pending")
		default:
			return nil, models.NewConflictError("A friend request cannot be sent to this user")
		}
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	s.notify(ctx, addresseeID, notifications.Event{
		Type:  "friend_request",
		Title: "New friend request",
		Body:  fmt.Sprintf("%s wants to be your gym buddy", requester.Name),
		Data:  map[string]string{"friendship_id": strconv.FormatUint(uint64(friendship.ID), 10)},
	})

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// Respond accepts or declines a pending request. Only the addressee may
// respond, and only while the request is pending.
func (s *FriendService) Respond(ctx context.Context, userID, friendshipID uint, accept bool) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.AddresseeID != userID {
		return nil, models.NewForbiddenError("Only the request addressee can respond")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewConflictError("Friend request is no longer pending")
	}

	status := models.FriendshipStatusDeclined
	if accept {
		status = models.FriendshipStatusAccepted
	}
	if err := s.friendRepo.UpdateStatus(ctx, friendshipID, status); err != nil {
		return nil, err
	}

	if accept {
		addressee, err := s.userRepo.GetByID(ctx, userID)
		if err == nil {
			s.notify(ctx, friendship.RequesterID, notifications.Event{
				Type:  "friend_accepted",
				Title: "Friend request accepted",
				Body:  fmt.Sprintf("%s accepted your friend request", addressee.Name),
				Data:  map[string]string{"friendship_id": strconv.FormatUint(uint64(friendshipID), 10)},
			})
		}
	}

	return s.friendRepo.GetByID(ctx, friendshipID)
}

// Block marks the relationship between the two users as blocked, creating
// the row when none exists. Blocked pairs cannot exchange friend requests.
func (s *FriendService) Block(ctx context.Context, userID, targetID uint) (*models.Friendship, error) {
	if userID == targetID {
		return nil, models.NewValidationError("Cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		friendship := &models.Friendship{
			RequesterID: userID,
			AddresseeID: targetID,
			Status:      models.FriendshipStatusBlocked,
		}
		if err := s.friendRepo.Create(ctx, friendship); err != nil {
			return nil, err
		}
		return s.friendRepo.GetByID(ctx, friendship.ID)
	}

	if err := s.friendRepo.UpdateStatus(ctx, existing.ID, models.FriendshipStatusBlocked); err != nil {
		return nil, err
	}
	return s.friendRepo.GetByID(ctx, existing.ID)
}

// RemoveFriend deletes the friendship between the two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.NewNotFoundError("Friendship", friendID)
	}
	return s.friendRepo.RemoveFriendship(ctx, userID, friendID)
}

// GetStatus returns the friendship row between the two users regardless of
// direction, or NotFound when the pair has none.
func (s *FriendService) GetStatus(ctx context.Context, userID, otherID uint) (*models.Friendship, error) {
	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, models.NewNotFoundError("Friendship", otherID)
	}
	return existing, nil
}

// GetFriends returns the user's accepted friends.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetPendingRequests returns requests awaiting the user's response.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns the user's outgoing pending requests.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

func (s *FriendService) notify(ctx context.Context, userID uint, event notifications.Event) {
	notifyUser(ctx, s.notifier, userID, event)
}
