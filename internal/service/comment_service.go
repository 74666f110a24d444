package service

import (
	"context"
	"strconv"
	"strings"

	"lotboard/internal/models"
	"lotboard/internal/moderation"
	"lotboard/internal/observability"
	"lotboard/internal/repository"
)

const maxCommentLen = 10000

// CommentService handles comment CRUD, moderation and likes.
type CommentService struct {
	commentRepo repository.CommentRepository
	listingRepo repository.ListingRepository
	likeRepo    repository.LikeRepository
	engine      *moderation.Engine
}

type CreateCommentInput struct {
	UserID    uint
	ListingID uint
	Content   string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	listingRepo repository.ListingRepository,
	likeRepo repository.LikeRepository,
	engine *moderation.Engine,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		listingRepo: listingRepo,
		likeRepo:    likeRepo,
		engine:      engine,
	}
}

// moderate runs the content past every active rule and rejects on any hit.
func (s *CommentService) moderate(ctx context.Context, content string) error {
	violations, err := s.engine.Check(ctx, content)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}

	descriptions := make([]string, 0, len(violations))
	for _, v := range violations {
		observability.ModerationViolations.WithLabelValues(strconv.FormatUint(uint64(v.RuleID), 10)).Inc()
		descriptions = append(descriptions, v.Description)
	}
	return models.NewContentRejectedError(descriptions)
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.listingRepo.GetByID(ctx, in.ListingID); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := s.moderate(ctx, in.Content); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ListingID: in.ListingID,
		UserID:    in.UserID,
		Content:   in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, listingID uint) ([]*models.Comment, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByListing(ctx, listingID)
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// UpdateComment replaces the content of the caller's own comment and marks it
// edited. Edited content goes through moderation the same way new content does.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if comment.Deleted {
		return nil, models.NewValidationError("Cannot edit a deleted comment")
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := s.moderate(ctx, in.Content); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	comment.Edited = true
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment soft-deletes the caller's own comment. The row survives but
// its content is masked everywhere from then on.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.commentRepo.SoftDelete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, in.CommentID)
}

// ToggleLike flips the caller's like on a comment and returns the resulting
// state together with the fresh counter.
func (s *CommentService) ToggleLike(ctx context.Context, userID, commentID uint) (liked bool, likesCount int, err error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return false, 0, err
	}

	liked, err = s.likeRepo.Toggle(ctx, userID, commentID)
	if err != nil {
		return false, 0, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, 0, err
	}
	return liked, comment.LikesCount, nil
}
