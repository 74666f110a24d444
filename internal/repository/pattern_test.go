package repository

import (
	"context"
	"testing"

	"lotboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternRepository_ActivePatterns(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatternRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.BannedPattern{Pattern: "spam", Description: "No spam"}))
	require.NoError(t, repo.Create(ctx, &models.BannedPattern{Pattern: `buy\s+now`, IsRegex: true, Description: "No ads"}))
	require.NoError(t, repo.Create(ctx, &models.BannedPattern{Pattern: "retired", Active: false}))

	// GORM writes the zero value of Active unless told otherwise, so flip the
	// inactive row explicitly.
	require.NoError(t, db.Model(&models.BannedPattern{}).Where("pattern = ?", "retired").Update("active", false).Error)

	patterns, err := repo.ActivePatterns(ctx)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "spam", patterns[0].Pattern)
	assert.Equal(t, `buy\s+now`, patterns[1].Pattern)
}
