package seed

import (
	"testing"

	"gymbuddy/internal/database"
	"gymbuddy/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if migrateErr := db.AutoMigrate(database.PersistentModels()...); migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}
	return db
}

func TestSeedSocialMesh_CreatesUsersAndFriendships(t *testing.T) {
	t.Parallel()

	db := openSeedDB(t)
	seeder := NewSeeder(db, SeedOptions{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(8)
	if err != nil {
		t.Fatalf("seed social mesh: %v", err)
	}
	if len(users) != 8 {
		t.Fatalf("expected 8 users, got %d", len(users))
	}

	var demo models.User
	if err := db.Where("email = ?", "demo@example.com").First(&demo).Error; err != nil {
		t.Fatalf("demo user missing: %v", err)
	}

	var edgeCount int64
	if err := db.Model(&models.Friendship{}).Count(&edgeCount).Error; err != nil {
		t.Fatalf("count friendships: %v", err)
	}
	if edgeCount == 0 {
		t.Fatal("expected at least one friendship edge")
	}

	// No self-edges in the mesh.
	var selfEdges int64
	if err := db.Model(&models.Friendship{}).
		Where("requester_id = addressee_id").
		Count(&selfEdges).Error; err != nil {
		t.Fatalf("count self edges: %v", err)
	}
	if selfEdges != 0 {
		t.Fatalf("expected no self-edges, got %d", selfEdges)
	}
}

func TestSeedSessions_EnrollsCreators(t *testing.T) {
	t.Parallel()

	db := openSeedDB(t)
	seeder := NewSeeder(db, SeedOptions{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(5)
	if err != nil {
		t.Fatalf("seed social mesh: %v", err)
	}
	gyms, err := seeder.SeedGyms(users, 3)
	if err != nil {
		t.Fatalf("seed gyms: %v", err)
	}
	if len(gyms) != 3 {
		t.Fatalf("expected 3 gyms, got %d", len(gyms))
	}

	if err := seeder.SeedSessions(users, gyms, 10); err != nil {
		t.Fatalf("seed sessions: %v", err)
	}

	var sessions []models.Session
	if err := db.Find(&sessions).Error; err != nil {
		t.Fatalf("load sessions: %v", err)
	}
	if len(sessions) != 10 {
		t.Fatalf("expected 10 sessions, got %d", len(sessions))
	}

	for _, session := range sessions {
		var creatorRow int64
		if err := db.Model(&models.SessionParticipant{}).
			Where("session_id = ? AND user_id = ? AND rsvp_status = ?",
				session.ID, session.CreatorID, models.RSVPGoing).
			Count(&creatorRow).Error; err != nil {
			t.Fatalf("count creator participant: %v", err)
		}
		if creatorRow != 1 {
			t.Fatalf("session %d: creator not enrolled as going", session.ID)
		}

		var exerciseCount int64
		if err := db.Model(&models.SessionExercise{}).
			Where("session_id = ?", session.ID).
			Count(&exerciseCount).Error; err != nil {
			t.Fatalf("count exercises: %v", err)
		}
		if exerciseCount < 2 {
			t.Fatalf("session %d: expected at least 2 exercises, got %d", session.ID, exerciseCount)
		}
	}
}

func TestClearAll_EmptiesTables(t *testing.T) {
	t.Parallel()

	db := openSeedDB(t)
	seeder := NewSeeder(db, SeedOptions{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(4)
	if err != nil {
		t.Fatalf("seed social mesh: %v", err)
	}
	gyms, err := seeder.SeedGyms(users, 2)
	if err != nil {
		t.Fatalf("seed gyms: %v", err)
	}
	if err := seeder.SeedSessions(users, gyms, 4); err != nil {
		t.Fatalf("seed sessions: %v", err)
	}

	if err := seeder.ClearAll(); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	for _, model := range database.PersistentModels() {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %T: %v", model, err)
		}
		if count != 0 {
			t.Fatalf("expected %T to be empty, got %d rows", model, count)
		}
	}
}
