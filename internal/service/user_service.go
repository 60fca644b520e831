package service

import (
	"context"

	"gymbuddy/internal/models"
	"gymbuddy/internal/repository"
	"gymbuddy/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID        uint
	Name          string
	Bio           string
	PhotoURL      string
	TrainingLevel models.TrainingLevel
	Visibility    models.ProfileVisibility
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.userRepo.Search(ctx, query, limit)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Name != "" {
		if err := validation.ValidateDisplayName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.PhotoURL != "" {
		user.PhotoURL = in.PhotoURL
	}
	if in.TrainingLevel != "" {
		switch in.TrainingLevel {
		case models.TrainingLevelBeginner, models.TrainingLevelIntermediate, models.TrainingLevelAdvanced:
			user.TrainingLevel = in.TrainingLevel
		default:
			return nil, models.NewValidationError("Invalid training level")
		}
	}
	if in.Visibility != "" {
		switch in.Visibility {
		case models.ProfileVisibilityPublic, models.ProfileVisibilityFriends, models.ProfileVisibilityPrivate:
			user.Visibility = in.Visibility
		default:
			return nil, models.NewValidationError("Invalid profile visibility")
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Deactivate soft-disables the account; inactive users drop out of search.
func (s *UserService) Deactivate(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}
