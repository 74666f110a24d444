package service

import (
	"context"
	"testing"

	"lotboard/internal/models"
	"lotboard/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingRepoStub is a stub for repository.ListingRepository.
type listingRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.Listing, error)
	getBySourceURLFn func(context.Context, string) (*models.Listing, error)
	popularFn        func(context.Context, int) ([]*models.Listing, error)
	getOrCreateFn    func(context.Context, *models.Listing) (bool, error)
	incrementViewsFn func(context.Context, uint, int64) (int64, error)
}

func (s *listingRepoStub) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.getByIDFn(ctx, id)
}
func (s *listingRepoStub) GetBySourceURL(ctx context.Context, url string) (*models.Listing, error) {
	return s.getBySourceURLFn(ctx, url)
}
func (s *listingRepoStub) Popular(ctx context.Context, limit int) ([]*models.Listing, error) {
	return s.popularFn(ctx, limit)
}
func (s *listingRepoStub) GetOrCreate(ctx context.Context, listing *models.Listing) (bool, error) {
	return s.getOrCreateFn(ctx, listing)
}
func (s *listingRepoStub) IncrementViews(ctx context.Context, id uint, amount int64) (int64, error) {
	return s.incrementViewsFn(ctx, id, amount)
}

func noopListingRepo() *listingRepoStub {
	return &listingRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Listing, error) {
			return &models.Listing{ID: id}, nil
		},
		getBySourceURLFn: func(_ context.Context, url string) (*models.Listing, error) {
			return nil, models.NewNotFoundError("Listing", url)
		},
		popularFn: func(_ context.Context, _ int) ([]*models.Listing, error) { return nil, nil },
		getOrCreateFn: func(_ context.Context, listing *models.Listing) (bool, error) {
			listing.ID = 1
			return true, nil
		},
		incrementViewsFn: func(_ context.Context, _ uint, amount int64) (int64, error) {
			return amount, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByListingFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn        func(context.Context, *models.Comment) error
	softDeleteFn    func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByListing(ctx context.Context, listingID uint) ([]*models.Comment, error) {
	return s.listByListingFn(ctx, listingID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, comment *models.Comment) error {
			comment.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, Content: "hello"}, nil
		},
		listByListingFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		softDeleteFn:    func(_ context.Context, _ uint) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn   func(context.Context, uint, uint) (bool, error)
	reassignFn func(context.Context, uint, uint, uint) error
	isLikedFn  func(context.Context, uint, uint) (bool, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.toggleFn(ctx, userID, commentID)
}
func (s *likeRepoStub) Reassign(ctx context.Context, userID, oldCommentID, newCommentID uint) error {
	return s.reassignFn(ctx, userID, oldCommentID, newCommentID)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, commentID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		reassignFn: func(_ context.Context, _, _, _ uint) error { return nil },
		isLikedFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// patternSourceStub is a stub for moderation.PatternSource.
type patternSourceStub struct {
	patterns []models.BannedPattern
	err      error
}

func (s *patternSourceStub) ActivePatterns(_ context.Context) ([]models.BannedPattern, error) {
	return s.patterns, s.err
}

// scraperStub is a stub for PageScraper.
type scraperStub struct {
	scrapeFn func(context.Context, string) (*scraper.Result, error)
}

func (s *scraperStub) Scrape(ctx context.Context, url string) (*scraper.Result, error) {
	return s.scrapeFn(ctx, url)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
