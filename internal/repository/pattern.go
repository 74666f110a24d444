package repository

import (
	"context"

	"lotboard/internal/cache"
	"lotboard/internal/models"

	"gorm.io/gorm"
)

// PatternRepository defines persistence operations for moderation rules.
type PatternRepository interface {
	// ActivePatterns returns all active rules in id order. It satisfies
	// moderation.PatternSource.
	ActivePatterns(ctx context.Context) ([]models.BannedPattern, error)
	Create(ctx context.Context, pattern *models.BannedPattern) error
}

type patternRepository struct {
	db *gorm.DB
}

// NewPatternRepository returns a new PatternRepository implementation.
func NewPatternRepository(db *gorm.DB) PatternRepository {
	return &patternRepository{db: db}
}

func (r *patternRepository) ActivePatterns(ctx context.Context) ([]models.BannedPattern, error) {
	var patterns []models.BannedPattern
	err := cache.Aside(ctx, cache.PatternsKey, &patterns, cache.PatternsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("active = ?", true).
			Order("id ASC").
			Find(&patterns).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patterns, nil
}

func (r *patternRepository) Create(ctx context.Context, pattern *models.BannedPattern) error {
	if err := r.db.WithContext(ctx).Create(pattern).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePatterns(ctx)
	return nil
}
