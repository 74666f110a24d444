// Package service contains the application's business logic, sitting between
// the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"lotboard/internal/models"
	"lotboard/internal/repository"
	"lotboard/internal/scraper"
)

// PageScraper fetches and parses an external listing page.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Result, error)
}

// ListingService handles listing lookup, creation and view counting.
type ListingService struct {
	listingRepo repository.ListingRepository
	scraper     PageScraper
}

// NewListingService returns a new ListingService.
func NewListingService(listingRepo repository.ListingRepository, pages PageScraper) *ListingService {
	return &ListingService{listingRepo: listingRepo, scraper: pages}
}

// GetOrCreateByURL returns the listing for the given source URL, scraping and
// creating it on first sight. Creation is idempotent by URL: when two callers
// race, both end up with the same row and created is true for at most one of
// them. A fetch failure on the create path surfaces as an upstream error and
// creates nothing.
func (s *ListingService) GetOrCreateByURL(ctx context.Context, url string) (*models.Listing, bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, false, models.NewValidationError("url is required")
	}

	existing, err := s.listingRepo.GetBySourceURL(ctx, url)
	if err == nil {
		return existing, false, nil
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		return nil, false, err
	}

	result, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		if errors.Is(err, scraper.ErrInvalidURL) {
			return nil, false, models.NewValidationError("Invalid URL: must start with http or https")
		}
		return nil, false, models.NewUpstreamError("Failed to fetch listing data", err)
	}

	listing := &models.Listing{
		SourceURL:   url,
		Title:       result.Title,
		ImageURL:    result.ImageURL,
		Price:       result.Price,
		Description: result.Description,
	}
	created, err := s.listingRepo.GetOrCreate(ctx, listing)
	if err != nil {
		return nil, false, err
	}
	return listing, created, nil
}

// Popular returns the most viewed listings. Limit clamping happens in the
// repository.
func (s *ListingService) Popular(ctx context.Context, limit int) ([]*models.Listing, error) {
	return s.listingRepo.Popular(ctx, limit)
}

// GetByID returns a listing without touching its view counter.
func (s *ListingService) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

// View records one view of the listing and returns it with the fresh count.
func (s *ListingService) View(ctx context.Context, id uint) (*models.Listing, error) {
	count, err := s.listingRepo.IncrementViews(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.ViewCount < count {
		listing.ViewCount = count
	}
	return listing, nil
}
