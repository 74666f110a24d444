// Package scraper fetches external listing pages and extracts title, image,
// price and description using Open Graph tags and regex heuristics.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lotboard/internal/observability"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes = 5 << 20
)

var (
	// ErrInvalidURL indicates the URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL: must start with http or https")
	// ErrFetch indicates the page could not be retrieved.
	ErrFetch = errors.New("failed to fetch listing page")
	// ErrUnparseable indicates the page was fetched but no title could be
	// extracted, so the listing would be unusable.
	ErrUnparseable = errors.New("listing page could not be parsed")
)

var (
	urlScheme     = regexp.MustCompile(`(?i)^https?://`)
	tagStripper   = regexp.MustCompile(`<[^>]+>`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	itempropDesc  = regexp.MustCompile(`(?is)<[^>]+itemprop="description"[^>]*>(.*?)</`)
	imgTag        = regexp.MustCompile(`(?i)<img[^>]+(?:data-image|data-url|src)="(.*?)"[^>]*>`)
	priceRouble   = regexp.MustCompile(`([\d\s\x{00A0}]+)\s*[₽\x{20BD}]`)
	priceRUB      = regexp.MustCompile(`(?i)([\d\s\x{00A0}]+)\s*(?:RUB)`)
	priceFallback = regexp.MustCompile(`([\d\s\x{00A0}]{4,})`)
	nonDigit      = regexp.MustCompile(`[^0-9]`)
)

// Result holds the fields extracted from a listing page. Any field may be
// empty; extraction is best-effort.
type Result struct {
	Title       string
	ImageURL    string
	Price       *float64
	Description string
}

// Scraper retrieves and parses listing pages with a bounded timeout.
type Scraper struct {
	client *http.Client
}

// New returns a Scraper whose requests time out after the given duration.
func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{client: &http.Client{Timeout: timeout}}
}

// Scrape fetches the page at url and extracts listing fields. The domain is
// intentionally not restricted so future listing sources keep working.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Result, error) {
	url = strings.TrimSpace(url)
	if !urlScheme.MatchString(url) {
		observability.ScrapeFailures.WithLabelValues("invalid_url").Inc()
		return nil, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		observability.ScrapeFailures.WithLabelValues("invalid_url").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		observability.ScrapeFailures.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		observability.ScrapeFailures.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		observability.ScrapeFailures.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	html := string(body)

	title := extractMeta(html, "og:title")
	if title == "" {
		if m := titleTag.FindStringSubmatch(html); m != nil {
			title = cleanHTMLText(m[1])
		}
	}
	if title == "" {
		observability.ScrapeFailures.WithLabelValues("parse").Inc()
		return nil, ErrUnparseable
	}

	return &Result{
		Title:       title,
		ImageURL:    extractImage(html),
		Price:       extractPrice(html),
		Description: extractDescription(html),
	}, nil
}

// extractMeta pulls content from a meta tag matched by property or name.
func extractMeta(html, key string) string {
	quoted := regexp.QuoteMeta(key)
	for _, attr := range []string{"property", "name"} {
		pat := regexp.MustCompile(fmt.Sprintf(`(?is)<meta[^>]+%s=["']%s["'][^>]*content=["'](.*?)["']`, attr, quoted))
		if m := pat.FindStringSubmatch(html); m != nil {
			if text := cleanHTMLText(m[1]); text != "" {
				return text
			}
		}
	}
	return ""
}

func cleanHTMLText(value string) string {
	text := tagStripper.ReplaceAllString(value, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

func extractDescription(html string) string {
	if desc := extractMeta(html, "og:description"); desc != "" {
		return desc
	}
	if desc := extractMeta(html, "description"); desc != "" {
		return desc
	}
	if m := itempropDesc.FindStringSubmatch(html); m != nil {
		return cleanHTMLText(m[1])
	}
	return ""
}

func extractImage(html string) string {
	if og := extractMeta(html, "og:image"); og != "" {
		return og
	}
	if m := imgTag.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractPrice looks for an explicit meta price, then digits next to a rouble
// marker, then the first long digit run. Prices are treated as integers.
func extractPrice(html string) *float64 {
	for _, key := range []string{"product:price:amount", "price"} {
		if meta := extractMeta(html, key); meta != "" {
			if p := parsePrice(meta); p != nil {
				return p
			}
		}
	}
	for _, pat := range []*regexp.Regexp{priceRouble, priceRUB} {
		if m := pat.FindStringSubmatch(html); m != nil {
			if p := parsePrice(m[1]); p != nil {
				return p
			}
		}
	}
	if m := priceFallback.FindStringSubmatch(html); m != nil {
		if p := parsePrice(m[1]); p != nil {
			return p
		}
	}
	return nil
}

func parsePrice(text string) *float64 {
	digits := nonDigit.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &value
}
