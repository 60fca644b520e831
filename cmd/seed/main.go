// Command main runs the database seeder for GymBuddy.
package main

import (
	"flag"
	"log"

	"gymbuddy/internal/config"
	"gymbuddy/internal/database"
	"gymbuddy/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numGyms := flag.Int("gyms", 10, "Number of gyms to create")
	numSessions := flag.Int("sessions", 100, "Number of workout sessions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d gyms, %d sessions, clean=%v\n",
		*numUsers, *numGyms, *numSessions, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	_, err = database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(database.DB, seed.SeedOptions{})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedSocialMesh(*numUsers)
	if err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}
	gyms, err := s.SeedGyms(users, *numGyms)
	if err != nil {
		log.Fatalf("❌ Gym seeding failed: %v", err)
	}
	if err := s.SeedSessions(users, gyms, *numSessions); err != nil {
		log.Fatalf("❌ Session seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: SeedPassword123!")
}
