package seed

import (
	"fmt"
	"log"

	"lotboard/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// builtinPatterns are the moderation rules every environment starts with.
// Seeding them is idempotent: existing rules are matched by pattern text.
// Matching is case-insensitive already, so the patterns don't carry (?i).
var builtinPatterns = []models.BannedPattern{
	{Pattern: `\bviagra\b`, IsRegex: true, Description: "Pharmaceutical spam", Active: true},
	{Pattern: `buy\s+followers`, IsRegex: true, Description: "Promotion spam", Active: true},
	{Pattern: `(earn|make)\s+\$?\d+\s*(per|a)\s+(day|week)`, IsRegex: true, Description: "Get-rich-quick scheme", Active: true},
	{Pattern: `\bwhatsapp\s*:?\s*\+?\d{7,}`, IsRegex: true, Description: "Off-platform contact solicitation", Active: true},
	{Pattern: `free\s+crypto`, IsRegex: true, Description: "Crypto giveaway scam", Active: true},
}

// Seeder populates the database with demo data.
type Seeder struct {
	db *gorm.DB
	f  *Factory
}

// NewSeeder returns a Seeder bound to the given database.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, f: NewFactory(db, opts)}
}

// Patterns ensures the built-in moderation rules exist. Safe to run on every
// startup and alongside hand-managed rules.
func Patterns(db *gorm.DB) error {
	for _, p := range builtinPatterns {
		var existing models.BannedPattern
		err := db.Where(models.BannedPattern{Pattern: p.Pattern}).
			Attrs(p).
			FirstOrCreate(&existing).Error
		if err != nil {
			return fmt.Errorf("seed pattern %q: %w", p.Description, err)
		}
	}
	return nil
}

// ClearAll removes all seedable data. On PostgreSQL it truncates with identity
// reset; elsewhere it deletes in foreign-key order.
func (s *Seeder) ClearAll() error {
	log.Println("clearing existing data...")
	if s.db.Dialector.Name() == "postgres" {
		return s.db.Exec(`TRUNCATE TABLE comment_likes, comments, listings, banned_patterns, users RESTART IDENTITY CASCADE;`).Error
	}
	for _, model := range []any{
		&models.CommentLike{}, &models.Comment{}, &models.Listing{},
		&models.BannedPattern{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed populates the database with demo users, listings, comments and likes.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("seeding %d users, %d listings, %d comments...",
		opts.NumUsers, opts.NumListings, opts.NumComments)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	if err := Patterns(s.db); err != nil {
		return err
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	listings := make([]*models.Listing, 0, opts.NumListings)
	for i := 0; i < opts.NumListings; i++ {
		listing, err := s.f.CreateListing()
		if err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		listings = append(listings, listing)
	}
	log.Printf("%d listings created", len(listings))

	if len(users) == 0 || len(listings) == 0 {
		return nil
	}

	comments := make([]*models.Comment, 0, opts.NumComments)
	for i := 0; i < opts.NumComments; i++ {
		user := users[s.f.rng.Intn(len(users))]
		listing := listings[s.f.rng.Intn(len(listings))]
		comment, err := s.f.CreateComment(user, listing)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		comments = append(comments, comment)
	}
	log.Printf("%d comments created", len(comments))

	// Roughly every other comment picks up a like from a random user; the
	// factory keeps likes_count consistent with the rows it inserts.
	likes := 0
	for _, comment := range comments {
		if s.f.rng.Intn(2) == 0 {
			continue
		}
		if err := s.f.CreateLike(users[s.f.rng.Intn(len(users))], comment); err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		likes++
	}
	log.Printf("%d likes created", likes)

	log.Println("database seeding completed")
	return nil
}

// seedUsers creates count users. A few fixed accounts come first so local
// logins stay predictable across reseeds.
func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	if count >= 2 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		for _, name := range []string{"demo", "test"} {
			user := &models.User{Username: name, Password: string(hashedPassword)}
			if err := s.db.Create(user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.f.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d users...", i)
		}
	}

	return users, nil
}
