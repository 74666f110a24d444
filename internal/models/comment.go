package models

import (
	"encoding/json"
	"time"
)

// DeletedContentPlaceholder replaces the content of soft-deleted comments in
// every client-facing representation.
const DeletedContentPlaceholder = "[deleted]"

// Comment represents a user comment on a listing.
//
// Deletion is soft: the row and its content are retained, but once Deleted is
// set the original content must never reach a client, not even the author.
// LikesCount is denormalized and kept in sync by the like repository through
// conditional UPDATEs; it always equals the number of live CommentLike rows.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;index" json:"listing_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Content    string    `gorm:"type:text;not null" json:"-"`
	Edited     bool      `gorm:"not null;default:false" json:"edited"`
	Deleted    bool      `gorm:"not null;default:false;index" json:"deleted"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MaskedContent returns the content safe for clients.
func (c *Comment) MaskedContent() string {
	if c.Deleted {
		return DeletedContentPlaceholder
	}
	return c.Content
}

// MarshalJSON renders the comment with masked content so no read path can
// leak the original text of a deleted comment.
func (c Comment) MarshalJSON() ([]byte, error) {
	type alias Comment
	return json.Marshal(struct {
		alias
		Content string `json:"content"`
	}{
		alias:   alias(c),
		Content: c.MaskedContent(),
	})
}
