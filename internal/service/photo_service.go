// Package service contains the application's business logic, sitting between
// HTTP handlers and repositories.
package service

import (
	"context"
	"log/slog"

	"aperture/internal/cache"
	"aperture/internal/featureflags"
	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/validation"
)

// FlagCachedFeeds enables Redis caching of per-user follow feeds.
const FlagCachedFeeds = "cached_feeds"

// FlagAutoNotifications enables notification fan-out on likes, comments,
// and follows.
const FlagAutoNotifications = "auto_notifications"

type PhotoService struct {
	photoRepo        repository.PhotoRepository
	likeRepo         repository.LikeRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	flags            *featureflags.Manager
	isAdmin          func(ctx context.Context, userID uint) (bool, error)
}

type CreatePhotoInput struct {
	UserID   uint
	ImageURL string
	Caption  string
}

type DeletePhotoInput struct {
	UserID  uint
	PhotoID uint
}

func NewPhotoService(
	photoRepo repository.PhotoRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	flags *featureflags.Manager,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PhotoService {
	return &PhotoService{
		photoRepo:        photoRepo,
		likeRepo:         likeRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		flags:            flags,
		isAdmin:          isAdmin,
	}
}

func (s *PhotoService) CreatePhoto(ctx context.Context, in CreatePhotoInput) (*models.Photo, error) {
	if err := validation.ValidateImageURL(in.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCaption(in.Caption); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	photo := &models.Photo{
		UserID:   in.UserID,
		ImageURL: in.ImageURL,
		Caption:  in.Caption,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}

	return s.photoRepo.GetByID(ctx, photo.ID, in.UserID)
}

func (s *PhotoService) GetPhoto(ctx context.Context, photoID, viewerID uint) (*models.Photo, error) {
	return s.photoRepo.GetByID(ctx, photoID, viewerID)
}

// ListPhotos returns the explore feed, ranked by owner popularity and
// engagement.
func (s *PhotoService) ListPhotos(ctx context.Context, viewerID uint) ([]*models.Photo, error) {
	return s.photoRepo.List(ctx, viewerID)
}

// GetFeed returns photos from users the caller follows plus their own,
// newest first. With the cached_feeds flag on, the assembled feed is served
// from Redis for a short TTL.
func (s *PhotoService) GetFeed(ctx context.Context, userID uint) ([]*models.Photo, error) {
	if s.flags != nil && s.flags.Enabled(FlagCachedFeeds, userID) {
		var photos []*models.Photo
		err := cache.Aside(ctx, cache.FeedKey(userID), &photos, cache.FeedTTL, func() error {
			var fetchErr error
			photos, fetchErr = s.photoRepo.ListFeed(ctx, userID)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return photos, nil
	}
	return s.photoRepo.ListFeed(ctx, userID)
}

func (s *PhotoService) GetUserPhotos(ctx context.Context, ownerID, viewerID uint) ([]*models.Photo, error) {
	exists, err := s.userRepo.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", ownerID)
	}
	return s.photoRepo.ListByUser(ctx, ownerID, viewerID)
}

func (s *PhotoService) DeletePhoto(ctx context.Context, in DeletePhotoInput) error {
	photo, err := s.photoRepo.GetByID(ctx, in.PhotoID, in.UserID)
	if err != nil {
		return err
	}

	if photo.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own photos")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own photos")
		}
	}

	return s.photoRepo.Delete(ctx, in.PhotoID)
}

// ToggleLike flips the caller's like on the photo and returns the resulting
// state. The photo must exist: a toggle against a missing or deleted photo
// fails with NotFound rather than creating an orphaned row.
func (s *PhotoService) ToggleLike(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	exists, err := s.photoRepo.Exists(ctx, photoID)
	if err != nil {
		return models.StateAbsent, err
	}
	if !exists {
		return models.StateAbsent, models.NewNotFoundError("Photo", photoID)
	}

	state, err := s.likeRepo.Toggle(ctx, userID, photoID)
	if err != nil {
		return models.StateAbsent, err
	}

	if state.IsActive() {
		s.notifyLike(ctx, userID, photoID)
	}
	return state, nil
}

// IsLiked reports whether the user's like on the photo is currently active.
func (s *PhotoService) IsLiked(ctx context.Context, userID, photoID uint) (bool, error) {
	state, err := s.likeRepo.State(ctx, userID, photoID)
	if err != nil {
		return false, err
	}
	return state.IsActive(), nil
}

func (s *PhotoService) GetLikedUsers(ctx context.Context, photoID uint) ([]models.User, error) {
	exists, err := s.photoRepo.Exists(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Photo", photoID)
	}
	return s.likeRepo.LikedUsers(ctx, photoID)
}

// notifyLike records a like notification for the photo owner. Failures are
// logged, never surfaced: notification delivery must not fail the like.
func (s *PhotoService) notifyLike(ctx context.Context, actorID, photoID uint) {
	if s.flags == nil || !s.flags.Enabled(FlagAutoNotifications, actorID) {
		return
	}
	photo, err := s.photoRepo.GetByID(ctx, photoID, 0)
	if err != nil || photo.UserID == actorID {
		return
	}
	pid := photoID
	n := &models.Notification{
		UserID:  photo.UserID,
		ActorID: actorID,
		Type:    models.NotificationTypeLike,
		PhotoID: &pid,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to create like notification",
			slog.Any("photo_id", photoID), slog.String("error", err.Error()))
	}
}
