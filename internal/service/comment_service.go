package service

import (
	"context"
	"log/slog"

	"aperture/internal/featureflags"
	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/validation"
)

type CommentService struct {
	commentRepo      repository.CommentRepository
	photoRepo        repository.PhotoRepository
	commentLikeRepo  repository.CommentLikeRepository
	notificationRepo repository.NotificationRepository
	flags            *featureflags.Manager
	isAdmin          func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID  uint
	PhotoID uint
	Content string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	photoRepo repository.PhotoRepository,
	commentLikeRepo repository.CommentLikeRepository,
	notificationRepo repository.NotificationRepository,
	flags *featureflags.Manager,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo:      commentRepo,
		photoRepo:        photoRepo,
		commentLikeRepo:  commentLikeRepo,
		notificationRepo: notificationRepo,
		flags:            flags,
		isAdmin:          isAdmin,
	}
}

// CreateComment adds a comment to an existing photo. The photo's
// comment_count is adjusted by the repository in the same transaction.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	exists, err := s.photoRepo.Exists(ctx, in.PhotoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Photo", in.PhotoID)
	}
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		UserID:  in.UserID,
		PhotoID: in.PhotoID,
		Content: in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyComment(ctx, in.UserID, in.PhotoID, comment.ID)
	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

func (s *CommentService) ListComments(ctx context.Context, photoID, viewerID uint) ([]*models.Comment, error) {
	exists, err := s.photoRepo.Exists(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Photo", photoID)
	}
	return s.commentRepo.ListByPhoto(ctx, photoID, viewerID)
}

// DeleteComment soft-deletes a comment. Allowed for the comment author and
// admins; the photo's comment_count is decremented by the repository.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, 0)
	if err != nil {
		return err
	}

	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}

// ToggleLike flips the caller's like on the comment and returns the
// resulting state. The comment must exist and not be deleted.
func (s *CommentService) ToggleLike(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	exists, err := s.commentRepo.Exists(ctx, commentID)
	if err != nil {
		return models.StateAbsent, err
	}
	if !exists {
		return models.StateAbsent, models.NewNotFoundError("Comment", commentID)
	}
	return s.commentLikeRepo.Toggle(ctx, userID, commentID)
}

// SetLike drives the comment like to the requested state. Re-liking an
// already-liked comment (or un-liking one never liked) is a silent no-op;
// the returned bool reports whether anything changed.
func (s *CommentService) SetLike(ctx context.Context, userID, commentID uint, active bool) (bool, error) {
	exists, err := s.commentRepo.Exists(ctx, commentID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, models.NewNotFoundError("Comment", commentID)
	}
	return s.commentLikeRepo.SetActive(ctx, userID, commentID, active)
}

func (s *CommentService) notifyComment(ctx context.Context, actorID, photoID, commentID uint) {
	if s.flags == nil || !s.flags.Enabled(FlagAutoNotifications, actorID) {
		return
	}
	photo, err := s.photoRepo.GetByID(ctx, photoID, 0)
	if err != nil || photo.UserID == actorID {
		return
	}
	pid, cid := photoID, commentID
	n := &models.Notification{
		UserID:    photo.UserID,
		ActorID:   actorID,
		Type:      models.NotificationTypeComment,
		PhotoID:   &pid,
		CommentID: &cid,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to create comment notification",
			slog.Any("photo_id", photoID), slog.String("error", err.Error()))
	}
}
