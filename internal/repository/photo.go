package repository

import (
	"context"
	"errors"

	"aperture/internal/cache"
	"aperture/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Photo, error)
	// List returns the general feed, ranked by owner follower count, then
	// like count, then comment count, then recency.
	List(ctx context.Context, viewerID uint) ([]*models.Photo, error)
	// ListFeed returns photos owned by users the caller actively follows
	// plus the caller's own, newest first.
	ListFeed(ctx context.Context, userID uint) ([]*models.Photo, error)
	ListByUser(ctx context.Context, ownerID uint, viewerID uint) ([]*models.Photo, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

// photoRepository implements PhotoRepository
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePhotoLists(ctx)
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Photo, error) {
	var photo models.Photo

	if viewerID == 0 {
		err := cache.Aside(ctx, cache.PhotoKey(id), &photo, cache.PhotoTTL, func() error {
			return r.findByID(ctx, id, 0, &photo)
		})
		if err != nil {
			return nil, err
		}
		return &photo, nil
	}

	if err := r.findByID(ctx, id, viewerID, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) findByID(ctx context.Context, id, viewerID uint, photo *models.Photo) error {
	err := r.applyPhotoDetails(readDB(r.db).WithContext(ctx), viewerID).
		Preload("User").
		Where("photos.is_deleted = ?", false).
		First(photo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Photo", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyPhotoDetails computes the viewer's liked flag in the same query.
// LikeCount and CommentCount are stored columns kept current by the toggle
// stores, so no aggregate subqueries are needed here.
func (r *photoRepository) applyPhotoDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select(
			"photos.*, EXISTS(SELECT 1 FROM likes WHERE likes.photo_id = photos.id AND likes.user_id = ? AND likes.is_deleted = false) as liked",
			viewerID,
		)
	}
	return db.Select("photos.*, false as liked")
}

func (r *photoRepository) List(ctx context.Context, viewerID uint) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.applyPhotoDetails(readDB(r.db).WithContext(ctx), viewerID).
		Joins("JOIN users ON users.id = photos.user_id").
		Where("photos.is_deleted = ?", false).
		Order("users.follower_count DESC, photos.like_count DESC, photos.comment_count DESC, photos.created_at DESC").
		Preload("User").
		Find(&photos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

func (r *photoRepository) ListFeed(ctx context.Context, userID uint) ([]*models.Photo, error) {
	var photos []*models.Photo
	followed := readDB(r.db).
		Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ? AND is_deleted = ?", userID, false)
	err := r.applyPhotoDetails(readDB(r.db).WithContext(ctx), userID).
		Where("photos.is_deleted = ?", false).
		Where("photos.user_id IN (?) OR photos.user_id = ?", followed, userID).
		Order("photos.created_at DESC").
		Preload("User").
		Find(&photos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

func (r *photoRepository) ListByUser(ctx context.Context, ownerID uint, viewerID uint) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.applyPhotoDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("photos.user_id = ? AND photos.is_deleted = ?", ownerID, false).
		Order("photos.created_at DESC").
		Preload("User").
		Find(&photos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

// Delete soft-deletes a photo. The row stays in place so existing likes and
// comments keep their target.
func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PhotoKey(id))
	cache.InvalidatePhotoLists(ctx)
	return nil
}

func (r *photoRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Photo{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
