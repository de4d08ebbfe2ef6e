package repository

import (
	"context"
	"errors"

	"aperture/internal/cache"
	"aperture/internal/models"
	"aperture/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository manages the follow relationship between users. Unfollow
// soft-deletes the row so a later re-follow reactivates it, and
// users.follower_count on the followed user tracks the active rows.
type FollowRepository interface {
	Toggle(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error)
	SetActive(ctx context.Context, followerID, followingID uint, active bool) (bool, error)
	State(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	// Followers returns users actively following userID.
	Followers(ctx context.Context, userID uint) ([]models.User, error)
	// Following returns users userID actively follows.
	Following(ctx context.Context, userID uint) ([]models.User, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	CountActive(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) spec(tx *gorm.DB, followerID, followingID uint) toggleSpec {
	return toggleSpec{
		rows: func() *gorm.DB {
			return tx.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID)
		},
		create: func() error {
			return tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error
		},
		counterModel:  &models.User{},
		counterID:     followingID,
		counterColumn: "follower_count",
	}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	var state models.RelationshipState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		state, err = toggleRelationship(tx, r.spec(tx, followerID, followingID))
		return err
	})
	if err != nil {
		return models.StateAbsent, models.NewInternalError(err)
	}
	observability.RelationshipToggles.WithLabelValues("follow", state.String()).Inc()
	cache.InvalidateUser(ctx, followingID)
	cache.InvalidateFeed(ctx, followerID)
	return state, nil
}

func (r *followRepository) SetActive(ctx context.Context, followerID, followingID uint, active bool) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = setRelationshipActive(tx, r.spec(tx, followerID, followingID), active)
		return err
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if changed {
		observability.RelationshipToggles.WithLabelValues("follow", models.StateFor(active).String()).Inc()
		cache.InvalidateUser(ctx, followingID)
		cache.InvalidateFeed(ctx, followerID)
	}
	return changed, nil
}

func (r *followRepository) State(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	var row models.Follow
	err := readDB(r.db).WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StateAbsent, nil
	}
	if err != nil {
		return models.StateAbsent, models.NewInternalError(err)
	}
	return row.State(), nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	state, err := r.State(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return state.IsActive(), nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ? AND follows.is_deleted = ?", userID, false).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ? AND follows.is_deleted = ?", userID, false).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND is_deleted = ?", userID, false).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
