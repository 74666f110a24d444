// Command main runs the database seeder for Lotboard.
package main

import (
	"flag"
	"log"

	"lotboard/internal/config"
	"lotboard/internal/database"
	"lotboard/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numListings := flag.Int("listings", 100, "Number of listings to create")
	numComments := flag.Int("comments", 400, "Number of comments to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (local throwaway DBs only)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumListings: *numListings,
		NumComments: *numComments,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	}
	if err := seed.NewSeeder(db, opts).Seed(opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
