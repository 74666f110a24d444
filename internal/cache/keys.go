package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ListingKeyPrefix = "listing:%d"
	PopularKeyPrefix = "listings:popular:%d"
	PatternsKey      = "moderation:patterns"
)

const (
	ListingTTL  = 10 * time.Minute
	PopularTTL  = 1 * time.Minute
	PatternsTTL = 5 * time.Minute
)

func ListingKey(listingID uint) string {
	return fmt.Sprintf(ListingKeyPrefix, listingID)
}

func PopularKey(limit int) string {
	return fmt.Sprintf(PopularKeyPrefix, limit)
}

// Invalidate removes a key; a nil client is a no-op so callers never need to
// care whether Redis is up.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateListing(ctx context.Context, listingID uint) {
	Invalidate(ctx, ListingKey(listingID))
}

func InvalidatePatterns(ctx context.Context) {
	Invalidate(ctx, PatternsKey)
}
