package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gymbuddy/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a realistic social mesh: users,
// friendships, gyms, groups and scheduled sessions with RSVPs.
type Seeder struct {
	db  *gorm.DB
	f   *Factory
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts SeedOptions) *Seeder {
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{
		db:  db,
		f:   NewFactory(db, opts),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Tables are cleared child-first to
// respect foreign key constraints.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")

	tables := []string{
		"session_exercises",
		"session_participants",
		"sessions",
		"notification_tokens",
		"user_favorite_gyms",
		"friendships",
		"groups",
		"gyms",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates `count` users and a friendship mesh between them.
// Roughly 20% of each user's edges are left pending to exercise the request
// flows; the rest are accepted.
func (s *Seeder) SeedSocialMesh(count int) ([]models.User, error) {
	log.Printf("🌱 Seeding %d users...", count)

	users := make([]models.User, 0, count)

	// Always include a known demo account so the app is usable right after
	// seeding.
	demo, err := s.f.CreateUser(func(u *models.User) {
		u.Name = "Demo User"
		u.Email = "demo@example.com"
		u.Visibility = models.ProfileVisibilityPublic
	})
	if err != nil {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}
	users = append(users, *demo)

	for i := len(users); i < count; i++ {
		user, err := s.f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, *user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	edges := 0
	for i := range users {
		// Each user befriends a handful of later users; pairing forward
		// keeps every (requester, addressee) edge unique.
		degree := 2 + s.rng.Intn(4)
		for d := 0; d < degree && i+1 < len(users); d++ {
			j := i + 1 + s.rng.Intn(len(users)-i-1)
			if j == i {
				continue
			}
			status := models.FriendshipStatusAccepted
			if s.rng.Float32() < 0.2 {
				status = models.FriendshipStatusPending
			}
			if err := s.f.CreateFriendship(&users[i], &users[j], status); err != nil {
				// Duplicate edge from an earlier pairing, skip it.
				continue
			}
			edges++
		}
	}
	log.Printf("✓ %d users and %d friendship edges created", len(users), edges)

	return users, nil
}

// SeedGyms creates `count` gyms plus a few groups owned by random users.
func (s *Seeder) SeedGyms(users []models.User, count int) ([]models.Gym, error) {
	gyms := make([]models.Gym, 0, count)
	for i := 0; i < count; i++ {
		gym, err := s.f.CreateGym()
		if err != nil {
			return nil, fmt.Errorf("creating gym: %w", err)
		}
		gyms = append(gyms, *gym)
	}
	log.Printf("✓ %d gyms created", len(gyms))

	if len(users) > 0 {
		numGroups := 1 + len(users)/10
		for i := 0; i < numGroups; i++ {
			owner := users[s.rng.Intn(len(users))]
			if _, err := s.f.CreateGroup(&owner); err != nil {
				return nil, fmt.Errorf("creating group: %w", err)
			}
		}
		log.Printf("✓ %d groups created", numGroups)
	}

	return gyms, nil
}

// SeedSessions creates `count` sessions spread across the users and gyms,
// each with extra RSVPs and a short exercise plan.
func (s *Seeder) SeedSessions(users []models.User, gyms []models.Gym, count int) error {
	if len(users) == 0 || len(gyms) == 0 {
		return fmt.Errorf("sessions need at least one user and one gym")
	}

	for i := 0; i < count; i++ {
		creator := users[s.rng.Intn(len(users))]
		gym := gyms[s.rng.Intn(len(gyms))]

		session, err := s.f.CreateSession(&creator, &gym)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}

		// A few extra participants with mixed RSVPs. Duplicate (session,
		// user) pairs hit the unique index and are skipped.
		numJoiners := s.rng.Intn(4)
		for j := 0; j < numJoiners; j++ {
			joiner := users[s.rng.Intn(len(users))]
			if joiner.ID == creator.ID {
				continue
			}
			status := models.RSVPGoing
			if s.rng.Float32() < 0.3 {
				status = models.RSVPMaybe
			}
			_ = s.f.CreateParticipant(session, &joiner, status)
		}

		numExercises := 2 + s.rng.Intn(4)
		for e := 0; e < numExercises; e++ {
			if err := s.f.CreateExercise(session, e); err != nil {
				return fmt.Errorf("creating exercise: %w", err)
			}
		}

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d sessions...", i)
		}
	}

	log.Printf("✓ %d sessions created", count)
	return nil
}
