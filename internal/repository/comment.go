package repository

import (
	"context"
	"errors"

	"aperture/internal/cache"
	"aperture/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations. Creating a
// comment increments the photo's comment_count and soft-deleting one
// decrements it, in the same transaction as the row change.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error)
	ListByPhoto(ctx context.Context, photoID uint, viewerID uint) ([]*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	CountActiveByPhoto(ctx context.Context, photoID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return adjustCounter(tx, &models.Photo{}, comment.PhotoID, "comment_count", +1)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PhotoKey(comment.PhotoID))
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.applyCommentDetails(readDB(r.db).WithContext(ctx), viewerID).
		Preload("User").
		Where("comments.is_deleted = ?", false).
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// applyCommentDetails computes the viewer's liked flag in the same query.
func (r *commentRepository) applyCommentDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select(
			"comments.*, EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ? AND comment_likes.is_deleted = false) as liked",
			viewerID,
		)
	}
	return db.Select("comments.*, false as liked")
}

func (r *commentRepository) ListByPhoto(ctx context.Context, photoID uint, viewerID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyCommentDetails(readDB(r.db).WithContext(ctx), viewerID).
		Preload("User").
		Where("comments.photo_id = ? AND comments.is_deleted = ?", photoID, false).
		Order("comments.created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Delete soft-deletes a comment and decrements the photo's comment_count.
// Deleting an already-deleted comment changes nothing.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var photoID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Select("id", "photo_id", "is_deleted").First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", id)
			}
			return err
		}
		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		photoID = comment.PhotoID
		return adjustCounter(tx, &models.Photo{}, comment.PhotoID, "comment_count", -1)
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	if photoID != 0 {
		cache.Invalidate(ctx, cache.PhotoKey(photoID))
	}
	return nil
}

func (r *commentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *commentRepository) CountActiveByPhoto(ctx context.Context, photoID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Comment{}).
		Where("photo_id = ? AND is_deleted = ?", photoID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
