// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"lotboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumListings int
	NumComments int
	ShouldClean bool
	// SkipBcrypt stores plaintext passwords; only for throwaway local DBs.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

var marketplaceHosts = []string{
	"avito.ru", "youla.ru", "auto.ru", "cian.ru", "market.example.com",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// spreadCreatedAt returns a timestamp up to opts.MaxDays in the past so
// seeded rows do not all share one creation instant.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
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

// CreateListing constructs and persists a sample `models.Listing` with a
// unique marketplace-looking source URL.
func (f *Factory) CreateListing(overrides ...func(*models.Listing)) (*models.Listing, error) {
	host := marketplaceHosts[f.rng.Intn(len(marketplaceHosts))]
	price := gofakeit.Price(100, 250000)

	listing := &models.Listing{
		SourceURL:   fmt.Sprintf("https://%s/item/%s", host, gofakeit.UUID()),
		Title:       gofakeit.Sentence(4),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Price:       &price,
		Description: gofakeit.Paragraph(1, 3, 5, "\n"),
		ViewCount:   int64(gofakeit.Number(0, 5000)),
		CreatedAt:   f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(listing)
	}

	if err := f.db.Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided listing authored by the provided user.
func (f *Factory) CreateComment(user *models.User, listing *models.Listing, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		UserID:    user.ID,
		ListingID: listing.ID,
		CreatedAt: f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `comment` and keeps the
// denormalized counter in step with the row. Duplicate likes are ignored.
func (f *Factory) CreateLike(user *models.User, comment *models.Comment) error {
	like := &models.CommentLike{
		UserID:    user.ID,
		CommentID: comment.ID,
	}
	res := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return f.db.Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
}

// CreateBannedPattern persists a moderation rule.
func (f *Factory) CreateBannedPattern(pattern, description string) (*models.BannedPattern, error) {
	bp := &models.BannedPattern{
		Pattern:     pattern,
		Description: description,
		Active:      true,
	}
	if err := f.db.Create(bp).Error; err != nil {
		return nil, err
	}
	return bp, nil
}
