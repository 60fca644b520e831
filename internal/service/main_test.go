package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gymbuddy/internal/database"
	"gymbuddy/internal/models"
	"gymbuddy/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// engineFixture wires the services against a fresh in-memory database.
type engineFixture struct {
	db       *gorm.DB
	sessions *SessionService
	friends  *FriendService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	sessionRepo := repository.NewSessionRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	userRepo := repository.NewUserRepository(db)
	gymRepo := repository.NewGymRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	return &engineFixture{
		db:       db,
		sessions: NewSessionService(sessionRepo, friendRepo, userRepo, gymRepo, groupRepo, nil, 50, 60),
		friends:  NewFriendService(friendRepo, userRepo, nil),
	}
}

func (f *engineFixture) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hashed",
		Name:     name,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *engineFixture) seedGym(t *testing.T) *models.Gym {
	t.Helper()
	gym := &models.Gym{Name: "Test Gym", Address: "1 Test St"}
	require.NoError(t, f.db.Create(gym).Error)
	return gym
}

func (f *engineFixture) befriend(t *testing.T, a, b uint) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Friendship{
		RequesterID: a,
		AddresseeID: b,
		Status:      models.FriendshipStatusAccepted,
	}).Error)
}

func (f *engineFixture) createSession(t *testing.T, creatorID, gymID uint, visibility models.SessionVisibility, at time.Time) *models.Session {
	t.Helper()
	session, err := f.sessions.Create(context.Background(), creatorID, CreateSessionInput{
		Title:       "Leg day",
		GymID:       gymID,
		ScheduledAt: at,
		Visibility:  visibility,
	})
	require.NoError(t, err)
	return session
}

func requireAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %#v", err)
	require.Equal(t, code, appErr.Code)
}
