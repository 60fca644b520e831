package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"gymbuddy/internal/cache"
	"gymbuddy/internal/models"

	"gorm.io/gorm"
)

// GymRepository defines persistence operations for gyms and gym favorites.
type GymRepository interface {
	Create(ctx context.Context, gym *models.Gym) error
	GetByID(ctx context.Context, id uint) (*models.Gym, error)
	GetByGooglePlaceID(ctx context.Context, placeID string) (*models.Gym, error)
	Update(ctx context.Context, gym *models.Gym) error
	List(ctx context.Context, limit, offset int) ([]models.Gym, error)
	Search(ctx context.Context, query string, limit int) ([]models.Gym, error)
	Nearby(ctx context.Context, lat, lon, radiusKM float64, limit int) ([]models.Gym, error)
	AddFavorite(ctx context.Context, userID, gymID uint) error
	RemoveFavorite(ctx context.Context, userID, gymID uint) error
	GetFavorites(ctx context.Context, userID uint) ([]models.Gym, error)
}

type gymRepository struct {
	db *gorm.DB
}

// NewGymRepository returns a new GymRepository implementation.
func NewGymRepository(db *gorm.DB) GymRepository {
	return &gymRepository{db: db}
}

func (r *gymRepository) Create(ctx context.Context, gym *models.Gym) error {
	if err := r.db.WithContext(ctx).Create(gym).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Gym already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *gymRepository) GetByID(ctx context.Context, id uint) (*models.Gym, error) {
	var gym models.Gym
	key := cache.GymKey(id)

	err := cache.Aside(ctx, key, &gym, cache.GymTTL, func() error {
		if err := r.db.WithContext(ctx).First(&gym, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Gym", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *gymRepository) GetByGooglePlaceID(ctx context.Context, placeID string) (*models.Gym, error) {
	var gym models.Gym
	if err := r.db.WithContext(ctx).Where("google_place_id = ?", placeID).First(&gym).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &gym, nil
}

func (r *gymRepository) Update(ctx context.Context, gym *models.Gym) error {
	if err := r.db.WithContext(ctx).Save(gym).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGym(ctx, gym.ID)
	return nil
}

func (r *gymRepository) List(ctx context.Context, limit, offset int) ([]models.Gym, error) {
	var gyms []models.Gym
	if err := r.db.WithContext(ctx).Order("name ASC").Limit(limit).Offset(offset).Find(&gyms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return gyms, nil
}

func (r *gymRepository) Search(ctx context.Context, query string, limit int) ([]models.Gym, error) {
	var gyms []models.Gym
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&gyms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return gyms, nil
}

// Nearby returns gyms inside a bounding box around (lat, lon). The box is a
// flat-earth approximation of the radius: one degree of latitude is ~111km,
// and longitude degrees shrink with cos(lat). Good enough for a gym finder;
// no PostGIS required.
func (r *gymRepository) Nearby(ctx context.Context, lat, lon, radiusKM float64, limit int) ([]models.Gym, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	latDelta := radiusKM / 111.0
	lonScale := math.Cos(lat * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01
	}
	lonDelta := radiusKM / (111.0 * lonScale)

	var gyms []models.Gym
	if err := r.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lon-lonDelta, lon+lonDelta).
		Order("name ASC").
		Limit(limit).
		Find(&gyms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return gyms, nil
}

func (r *gymRepository) AddFavorite(ctx context.Context, userID, gymID uint) error {
	fav := models.UserFavoriteGym{UserID: userID, GymID: gymID}
	if err := r.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Favoriting twice is a no-op.
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *gymRepository) RemoveFavorite(ctx context.Context, userID, gymID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND gym_id = ?", userID, gymID).
		Delete(&models.UserFavoriteGym{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *gymRepository) GetFavorites(ctx context.Context, userID uint) ([]models.Gym, error) {
	var gyms []models.Gym
	if err := r.db.WithContext(ctx).
		Table("gyms").
		Joins("JOIN user_favorite_gyms f ON f.gym_id = gyms.id").
		Where("f.user_id = ?", userID).
		Order("gyms.name ASC").
		Find(&gyms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return gyms, nil
}
