package service

import (
	"context"
	"log/slog"
	"strings"

	"aperture/internal/featureflags"
	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
)

type UserService struct {
	userRepo         repository.UserRepository
	followRepo       repository.FollowRepository
	notificationRepo repository.NotificationRepository
	flags            *featureflags.Manager
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notificationRepo repository.NotificationRepository,
	flags *featureflags.Manager,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		followRepo:       followRepo,
		notificationRepo: notificationRepo,
		flags:            flags,
	}
}

func (s *UserService) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit)
}

// GetProfile loads a user profile. When viewerID is set, the Following field
// reflects whether the viewer actively follows this user.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID, viewerID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID, 0)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if len(name) > 100 {
			return nil, models.NewValidationError("Display name too long (max 100 characters)")
		}
		user.DisplayName = name
	}
	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID, 0)
}

// Follow makes followerID actively follow followingID. Following a user
// again is a silent no-op; it returns whether anything changed.
func (s *UserService) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	if err := s.requireUser(ctx, followingID); err != nil {
		return false, err
	}

	changed, err := s.followRepo.SetActive(ctx, followerID, followingID, true)
	if err != nil {
		return false, err
	}
	if changed {
		s.notifyFollow(ctx, followerID, followingID)
	}
	return changed, nil
}

// Unfollow deactivates the follow. Unfollowing someone never followed, or
// already unfollowed, changes nothing and is not an error.
func (s *UserService) Unfollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, models.NewValidationError("You cannot unfollow yourself")
	}
	if err := s.requireUser(ctx, followingID); err != nil {
		return false, err
	}
	return s.followRepo.SetActive(ctx, followerID, followingID, false)
}

// ToggleFollow flips the follow relationship and returns the resulting state.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	if followerID == followingID {
		return models.StateAbsent, models.NewValidationError("You cannot follow yourself")
	}
	if err := s.requireUser(ctx, followingID); err != nil {
		return models.StateAbsent, err
	}

	state, err := s.followRepo.Toggle(ctx, followerID, followingID)
	if err != nil {
		return models.StateAbsent, err
	}
	if state.IsActive() {
		s.notifyFollow(ctx, followerID, followingID)
	}
	return state, nil
}

func (s *UserService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followingID)
}

func (s *UserService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

func (s *UserService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}

func (s *UserService) requireUser(ctx context.Context, userID uint) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *UserService) notifyFollow(ctx context.Context, actorID, targetID uint) {
	if s.flags == nil || !s.flags.Enabled(FlagAutoNotifications, actorID) {
		return
	}
	n := &models.Notification{
		UserID:  targetID,
		ActorID: actorID,
		Type:    models.NotificationTypeFollow,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to create follow notification",
			slog.Any("user_id", targetID), slog.String("error", err.Error()))
	}
}
