package repository

import (
	"context"
	"errors"

	"lotboard/internal/cache"
	"lotboard/internal/models"
	"lotboard/internal/observability"

	"gorm.io/gorm"
)

const (
	defaultPopularLimit = 20
	maxPopularLimit     = 100
)

// ListingRepository defines persistence operations for listings, including
// the concurrency-sensitive view counter and get-or-create-by-URL paths.
type ListingRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	GetBySourceURL(ctx context.Context, url string) (*models.Listing, error)
	Popular(ctx context.Context, limit int) ([]*models.Listing, error)
	GetOrCreate(ctx context.Context, listing *models.Listing) (created bool, err error)
	IncrementViews(ctx context.Context, id uint, amount int64) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns a new ListingRepository implementation.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := cache.Aside(ctx, cache.ListingKey(id), &listing, cache.ListingTTL, func() error {
		if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Listing", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) GetBySourceURL(ctx context.Context, url string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).Where("source_url = ?", url).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", url)
		}
		return nil, models.NewInternalError(err)
	}
	return &listing, nil
}

// Popular returns listings ordered by view count. The limit is clamped to
// [1, 100]; zero or negative values fall back to the default of 20.
func (r *listingRepository) Popular(ctx context.Context, limit int) ([]*models.Listing, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}

	var listings []*models.Listing
	err := cache.Aside(ctx, cache.PopularKey(limit), &listings, cache.PopularTTL, func() error {
		if err := r.db.WithContext(ctx).
			Order("view_count DESC, created_at DESC").
			Limit(limit).
			Find(&listings).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// GetOrCreate inserts the listing, relying on the unique index on source_url
// to arbitrate concurrent first-creation races. The loser of a race re-reads
// the winner's row into listing and reports created=false; exactly one row
// per URL ever exists.
func (r *listingRepository) GetOrCreate(ctx context.Context, listing *models.Listing) (bool, error) {
	err := r.db.WithContext(ctx).Create(listing).Error
	if err == nil {
		return true, nil
	}
	if !isUniqueViolation(err) {
		return false, models.NewInternalError(err)
	}

	observability.ListingCreationConflicts.Inc()
	var existing models.Listing
	if err := r.db.WithContext(ctx).Where("source_url = ?", listing.SourceURL).First(&existing).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	*listing = existing
	return false, nil
}

// IncrementViews adds amount to the listing's view counter with a single
// conditional UPDATE so concurrent increments never lose writes. A
// non-positive amount is a no-op that returns the current count. The new
// count is returned.
func (r *listingRepository) IncrementViews(ctx context.Context, id uint, amount int64) (int64, error) {
	if amount > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Listing{}).
			Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", amount))
		if res.Error != nil {
			return 0, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return 0, models.NewNotFoundError("Listing", id)
		}
		observability.ListingViews.Add(float64(amount))
		cache.InvalidateListing(ctx, id)
	}

	var count int64
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Pluck("view_count", &count)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Listing", id)
	}
	return count, nil
}
