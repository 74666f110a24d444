package models

import (
	"time"
)

// Listing represents a scraped marketplace listing. A listing is uniquely
// identified by its source URL; the unique index is what guarantees one row
// per URL under concurrent first-creation races.
type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourceURL   string    `gorm:"uniqueIndex;not null;size:2048" json:"source_url"`
	Title       string    `gorm:"not null;size:512" json:"title"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	// ViewCount is monotonically non-decreasing and mutated only through
	// conditional UPDATEs, never read-modify-write.
	ViewCount int64     `gorm:"not null;default:0;index" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  []Comment `gorm:"foreignKey:ListingID" json:"comments,omitempty"`
}
