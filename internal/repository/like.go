package repository

import (
	"context"
	"errors"
	"fmt"

	"lotboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for comment likes.
type LikeRepository interface {
	// Toggle likes the comment if the user has not liked it, and removes the
	// like otherwise. It reports whether the comment is liked afterwards.
	Toggle(ctx context.Context, userID, commentID uint) (liked bool, err error)
	// Reassign moves the user's like from one comment to another, keeping
	// both like counters consistent.
	Reassign(ctx context.Context, userID, oldCommentID, newCommentID uint) error
	IsLiked(ctx context.Context, userID, commentID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle relies on the unique (user_id, comment_id) index rather than
// application locking: the insert uses ON CONFLICT DO NOTHING, so exactly one
// of two concurrent likers wins, and likes_count moves by one per branch via
// conditional UPDATEs. The decrement is guarded so the counter never goes
// below zero.
func (r *likeRepository) Toggle(ctx context.Context, userID, commentID uint) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.CommentLike{UserID: userID, CommentID: commentID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			inc := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1"))
			if inc.Error != nil {
				return inc.Error
			}
			liked = true
			return nil
		}

		// Already liked: this toggle is an unlike.
		del := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 1 {
			dec := tx.Model(&models.Comment{}).
				Where("id = ? AND likes_count > 0", commentID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1"))
			if dec.Error != nil {
				return dec.Error
			}
		}
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return liked, nil
}

// Reassign updates the like row in place and moves the counters inside one
// transaction, decrementing the old comment strictly before incrementing the
// new one so a mid-flight failure can never inflate both counters.
func (r *likeRepository) Reassign(ctx context.Context, userID, oldCommentID, newCommentID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CommentLike{}).
			Where("user_id = ? AND comment_id = ?", userID, oldCommentID).
			UpdateColumn("comment_id", newCommentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		dec := tx.Model(&models.Comment{}).
			Where("id = ? AND likes_count > 0", oldCommentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1"))
		if dec.Error != nil {
			return dec.Error
		}

		inc := tx.Model(&models.Comment{}).
			Where("id = ?", newCommentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1"))
		return inc.Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Like", fmt.Sprintf("user %d, comment %d", userID, oldCommentID))
		}
		if isUniqueViolation(err) {
			return models.NewValidationError("Comment already liked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, commentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
