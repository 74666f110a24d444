// Package observability provides Prometheus metrics for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotboard_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// TokenVerifications counts token verification attempts by outcome.
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotboard_token_verifications_total",
		Help: "Total number of token verification attempts by outcome",
	}, []string{"outcome"})

	// ListingViews counts recorded listing view increments.
	ListingViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotboard_listing_views_total",
		Help: "Total number of listing view increments recorded",
	})

	// ListingCreationConflicts counts get-or-create races lost to a concurrent writer.
	ListingCreationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotboard_listing_creation_conflicts_total",
		Help: "Total number of listing inserts that lost a creation race and were re-read",
	})

	// ModerationViolations counts comment rejections by rule.
	ModerationViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotboard_moderation_violations_total",
		Help: "Total number of moderation rule violations detected",
	}, []string{"rule_id"})

	// ScrapeFailures counts listing page scrape failures by kind.
	ScrapeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotboard_scrape_failures_total",
		Help: "Total number of listing scrape failures by kind (fetch, parse)",
	}, []string{"kind"})
)
