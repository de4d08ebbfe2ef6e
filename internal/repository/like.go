package repository

import (
	"context"
	"errors"

	"aperture/internal/cache"
	"aperture/internal/models"
	"aperture/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository manages the like relationship between users and photos.
// Rows are soft-deleted on un-like and reactivated on re-like, never
// physically removed, and photos.like_count tracks the active rows.
type LikeRepository interface {
	// Toggle flips the relationship for the pair and returns the state it
	// ends up in.
	Toggle(ctx context.Context, userID, photoID uint) (models.RelationshipState, error)
	// SetActive moves the pair into the requested state. It reports whether
	// anything changed; repeating a request the pair already satisfies is a
	// silent no-op.
	SetActive(ctx context.Context, userID, photoID uint, active bool) (bool, error)
	State(ctx context.Context, userID, photoID uint) (models.RelationshipState, error)
	// LikedUsers returns the users with an active like on the photo, most
	// recent first.
	LikedUsers(ctx context.Context, photoID uint) ([]models.User, error)
	// CountActive recomputes the number of active rows for the photo from
	// the relationship table rather than the denormalized column.
	CountActive(ctx context.Context, photoID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) spec(tx *gorm.DB, userID, photoID uint) toggleSpec {
	return toggleSpec{
		rows: func() *gorm.DB {
			return tx.Model(&models.Like{}).Where("user_id = ? AND photo_id = ?", userID, photoID)
		},
		create: func() error {
			return tx.Create(&models.Like{UserID: userID, PhotoID: photoID}).Error
		},
		counterModel:  &models.Photo{},
		counterID:     photoID,
		counterColumn: "like_count",
	}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	var state models.RelationshipState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		state, err = toggleRelationship(tx, r.spec(tx, userID, photoID))
		return err
	})
	if err != nil {
		return models.StateAbsent, models.NewInternalError(err)
	}
	observability.RelationshipToggles.WithLabelValues("like", state.String()).Inc()
	cache.Invalidate(ctx, cache.PhotoKey(photoID))
	return state, nil
}

func (r *likeRepository) SetActive(ctx context.Context, userID, photoID uint, active bool) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = setRelationshipActive(tx, r.spec(tx, userID, photoID), active)
		return err
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if changed {
		observability.RelationshipToggles.WithLabelValues("like", models.StateFor(active).String()).Inc()
		cache.Invalidate(ctx, cache.PhotoKey(photoID))
	}
	return changed, nil
}

func (r *likeRepository) State(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	var row models.Like
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND photo_id = ?", userID, photoID).
		Order("id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StateAbsent, nil
	}
	if err != nil {
		return models.StateAbsent, models.NewInternalError(err)
	}
	return row.State(), nil
}

func (r *likeRepository) LikedUsers(ctx context.Context, photoID uint) ([]models.User, error) {
	var users []models.User
	err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.photo_id = ? AND likes.is_deleted = ?", photoID, false).
		Order("likes.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *likeRepository) CountActive(ctx context.Context, photoID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("photo_id = ? AND is_deleted = ?", photoID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
