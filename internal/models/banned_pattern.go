package models

import (
	"time"
)

// BannedPattern is a moderation rule applied to comment content.
// If IsRegex is true the pattern text is treated as a case-insensitive
// regular expression; otherwise as a case-insensitive literal substring.
// Only rows with Active set participate in matching.
type BannedPattern struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Pattern     string    `gorm:"not null;size:255" json:"pattern"`
	IsRegex     bool      `gorm:"not null;default:false" json:"is_regex"`
	Description string    `gorm:"size:255" json:"description"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
