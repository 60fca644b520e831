package repository

import (
	"context"

	"gymbuddy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationTokenRepository defines persistence operations for push tokens.
type NotificationTokenRepository interface {
	Register(ctx context.Context, token *models.NotificationToken) error
	GetActiveTokens(ctx context.Context, userID uint) ([]models.NotificationToken, error)
	DeactivateToken(ctx context.Context, token string) error
	Delete(ctx context.Context, userID uint, token string) error
}

type notificationTokenRepository struct {
	db *gorm.DB
}

// NewNotificationTokenRepository returns a new NotificationTokenRepository implementation.
func NewNotificationTokenRepository(db *gorm.DB) NotificationTokenRepository {
	return &notificationTokenRepository{db: db}
}

// Register inserts the token or, when the token value is already known,
// re-binds it to the registering user and reactivates it. Devices change
// hands between accounts, so the token value wins over prior ownership.
func (r *notificationTokenRepository) Register(ctx context.Context, token *models.NotificationToken) error {
	token.IsActive = true
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_type", "is_active", "updated_at"}),
		}).
		Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationTokenRepository) GetActiveTokens(ctx context.Context, userID uint) ([]models.NotificationToken, error) {
	var tokens []models.NotificationToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&tokens).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tokens, nil
}

func (r *notificationTokenRepository) DeactivateToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationToken{}).
		Where("token = ?", token).
		Update("is_active", false).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationTokenRepository) Delete(ctx context.Context, userID uint, token string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.NotificationToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
