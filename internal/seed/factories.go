// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"gymbuddy/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes factory behaviour.
type SeedOptions struct {
	// SkipBcrypt stores the demo password in plain text. Faster for large
	// seeds; never use outside local development.
	SkipBcrypt bool
	// MaxDays spreads generated session times across this many days around
	// now. Defaults to 14.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var trainingLevels = []models.TrainingLevel{
	models.TrainingLevelBeginner,
	models.TrainingLevelIntermediate,
	models.TrainingLevelAdvanced,
}

var profileVisibilities = []models.ProfileVisibility{
	models.ProfileVisibilityPrivate,
	models.ProfileVisibilityFriends,
	models.ProfileVisibilityPublic,
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:          gofakeit.Name(),
		Email:         gofakeit.Email(),
		Bio:           gofakeit.Sentence(10),
		PhotoURL:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		TrainingLevel: trainingLevels[f.rng.Intn(len(trainingLevels))],
		Visibility:    profileVisibilities[f.rng.Intn(len(profileVisibilities))],
		IsActive:      true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "SeedPassword123!"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("SeedPassword123!"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGym constructs and persists a sample `models.Gym`.
func (f *Factory) CreateGym(overrides ...func(*models.Gym)) (*models.Gym, error) {
	placeID := fmt.Sprintf("seed-place-%s", gofakeit.UUID())
	gym := &models.Gym{
		Name:          fmt.Sprintf("%s %s", gofakeit.Company(), gymSuffixes[f.rng.Intn(len(gymSuffixes))]),
		Address:       gofakeit.Address().Address,
		Latitude:      gofakeit.Latitude(),
		Longitude:     gofakeit.Longitude(),
		Phone:         gofakeit.Phone(),
		Website:       gofakeit.URL(),
		PhotoURL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		GooglePlaceID: &placeID,
	}

	for _, override := range overrides {
		override(gym)
	}

	if err := f.db.Create(gym).Error; err != nil {
		return nil, err
	}
	return gym, nil
}

// CreateSession constructs and persists a `models.Session` created by the
// given user at the given gym, and enrolls the creator as going.
func (f *Factory) CreateSession(creator *models.User, gym *models.Gym, overrides ...func(*models.Session)) (*models.Session, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 14
	}

	// Spread sessions across the window, biased towards the future so the
	// feed has something to show.
	daysOut := f.rng.Intn(maxDays) - maxDays/4
	hour := 6 + f.rng.Intn(15)
	scheduledAt := time.Now().AddDate(0, 0, daysOut).Truncate(time.Hour).Add(time.Duration(hour) * time.Hour)

	session := &models.Session{
		Title:           sessionTitles[f.rng.Intn(len(sessionTitles))],
		Description:     gofakeit.Sentence(12),
		GymID:           gym.ID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: []int{45, 60, 75, 90}[f.rng.Intn(4)],
		Visibility:      sessionVisibilities[f.rng.Intn(len(sessionVisibilities))],
		CreatorID:       creator.ID,
	}

	if f.rng.Float32() < 0.3 {
		max := 2 + f.rng.Intn(8)
		session.MaxParticipants = &max
	}

	for _, override := range overrides {
		override(session)
	}

	if err := f.db.Create(session).Error; err != nil {
		return nil, err
	}

	participant := &models.SessionParticipant{
		SessionID:  session.ID,
		UserID:     creator.ID,
		RSVPStatus: models.RSVPGoing,
	}
	if err := f.db.Create(participant).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CreateParticipant persists an RSVP from `user` on `session`.
func (f *Factory) CreateParticipant(session *models.Session, user *models.User, status models.RSVPStatus) error {
	participant := &models.SessionParticipant{
		SessionID:  session.ID,
		UserID:     user.ID,
		RSVPStatus: status,
	}
	return f.db.Create(participant).Error
}

// CreateExercise persists a planned exercise on `session` at the given order.
func (f *Factory) CreateExercise(session *models.Session, orderIndex int) error {
	sets := 3 + f.rng.Intn(3)
	exercise := &models.SessionExercise{
		SessionID:  session.ID,
		Name:       exerciseNames[f.rng.Intn(len(exerciseNames))],
		Sets:       &sets,
		Reps:       []string{"5", "8", "8-12", "10", "12-15"}[f.rng.Intn(5)],
		OrderIndex: orderIndex,
	}
	return f.db.Create(exercise).Error
}

// CreateFriendship persists a friendship relationship between two users.
func (f *Factory) CreateFriendship(requester, addressee *models.User, status models.FriendshipStatus) error {
	friendship := &models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      status,
	}
	return f.db.Create(friendship).Error
}

// CreateGroup constructs and persists a `models.Group` owned by the given user.
func (f *Factory) CreateGroup(owner *models.User, overrides ...func(*models.Group)) (*models.Group, error) {
	group := &models.Group{
		Name:        fmt.Sprintf("%s %s", gofakeit.AdjectiveDescriptive(), groupSuffixes[f.rng.Intn(len(groupSuffixes))]),
		Description: gofakeit.Sentence(8),
		OwnerID:     owner.ID,
		IsPrivate:   f.rng.Float32() < 0.7,
		MaxMembers:  50,
	}

	for _, override := range overrides {
		override(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

var sessionVisibilities = []models.SessionVisibility{
	models.SessionVisibilityFriends,
	models.SessionVisibilityFriends,
	models.SessionVisibilityPublic,
	models.SessionVisibilityPrivate,
}

var gymSuffixes = []string{
	"Fitness", "Barbell Club", "Strength Co", "Athletics", "Performance Lab",
	"CrossTraining", "Iron Works", "Gym",
}

var groupSuffixes = []string{
	"Lifters", "Crew", "Squad", "Runners", "Morning Club", "Collective",
}

var sessionTitles = []string{
	"Leg day", "Push day", "Pull day", "Upper body", "Lower body",
	"Full body circuit", "5x5 strength", "Hypertrophy block", "Deload session",
	"Morning cardio", "HIIT and core", "Squat focus", "Bench press practice",
	"Deadlift day", "Olympic lifting technique", "Mobility and stretching",
}

var exerciseNames = []string{
	"Back squat", "Front squat", "Deadlift", "Romanian deadlift", "Bench press",
	"Incline dumbbell press", "Overhead press", "Barbell row", "Pull-ups",
	"Lat pulldown", "Leg press", "Walking lunges", "Hip thrust", "Leg curl",
	"Bicep curls", "Tricep pushdown", "Lateral raises", "Face pulls",
	"Plank", "Hanging leg raises", "Rowing machine", "Assault bike",
}
