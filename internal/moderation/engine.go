// Package moderation evaluates free text against the active set of banned
// patterns. Matching must stay fail-safe under attacker-controlled or
// malformed rule input: a rule that does not compile degrades to a literal
// check, it never aborts evaluation and never lets content through silently.
package moderation

import (
	"context"
	"regexp"
	"strings"

	"lotboard/internal/models"
)

// PatternSource supplies the active moderation rules. The engine reads a
// fresh snapshot per evaluation; rule-set changes apply to subsequent checks.
type PatternSource interface {
	ActivePatterns(ctx context.Context) ([]models.BannedPattern, error)
}

// Violation identifies one matched rule.
type Violation struct {
	RuleID      uint   `json:"rule_id"`
	Description string `json:"description"`
}

// Engine matches candidate text against active banned patterns.
type Engine struct {
	source PatternSource
}

// NewEngine returns an Engine reading rules from the given source.
func NewEngine(source PatternSource) *Engine {
	return &Engine{source: source}
}

// Check returns every active rule the text violates, in rule-set order.
// An empty slice means no violation. The only error condition is the pattern
// source itself failing; matching never errors and never panics.
func (e *Engine) Check(ctx context.Context, text string) ([]Violation, error) {
	patterns, err := e.source.ActivePatterns(ctx)
	if err != nil {
		return nil, err
	}

	violations := []Violation{}
	for _, p := range patterns {
		if Matches(p, text) {
			violations = append(violations, Violation{RuleID: p.ID, Description: p.Description})
		}
	}
	return violations, nil
}

// Matches reports whether a single rule matches the text. Empty text never
// matches. Regex rules search anywhere in the text, case-insensitively; a
// pattern that fails to compile falls back to a literal case-insensitive
// substring check of the raw pattern text.
func Matches(p models.BannedPattern, text string) bool {
	if text == "" {
		return false
	}

	if p.IsRegex {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err == nil {
			return re.MatchString(text)
		}
		// Malformed rule: weaker literal check rather than failing open.
	}

	return strings.Contains(strings.ToLower(text), strings.ToLower(p.Pattern))
}
