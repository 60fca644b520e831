package database

import "gymbuddy/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserFavoriteGym{},
		&models.Gym{},
		&models.Session{},
		&models.SessionParticipant{},
		&models.SessionExercise{},
		&models.Friendship{},
		&models.Group{},
		&models.NotificationToken{},
	}
}
