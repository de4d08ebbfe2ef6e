package repository

import (
	"context"
	"errors"

	"aperture/internal/models"
	"aperture/internal/observability"

	"gorm.io/gorm"
)

// CommentLikeRepository manages the like relationship between users and
// comments, with comments.like_count tracking the active rows.
type CommentLikeRepository interface {
	Toggle(ctx context.Context, userID, commentID uint) (models.RelationshipState, error)
	SetActive(ctx context.Context, userID, commentID uint, active bool) (bool, error)
	State(ctx context.Context, userID, commentID uint) (models.RelationshipState, error)
	CountActive(ctx context.Context, commentID uint) (int64, error)
}

type commentLikeRepository struct {
	db *gorm.DB
}

// NewCommentLikeRepository creates a new comment like repository
func NewCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &commentLikeRepository{db: db}
}

func (r *commentLikeRepository) spec(tx *gorm.DB, userID, commentID uint) toggleSpec {
	return toggleSpec{
		rows: func() *gorm.DB {
			return tx.Model(&models.CommentLike{}).Where("user_id = ? AND comment_id = ?", userID, commentID)
		},
		create: func() error {
			return tx.Create(&models.CommentLike{UserID: userID, CommentID: commentID}).Error
		},
		counterModel:  &models.Comment{},
		counterID:     commentID,
		counterColumn: "like_count",
	}
}

func (r *commentLikeRepository) Toggle(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	var state models.RelationshipState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		state, err = toggleRelationship(tx, r.spec(tx, userID, commentID))
		return err
	})
	if err != nil {
		return models.StateAbsent, models.NewInternalError(err)
	}
	observability.RelationshipToggles.WithLabelValues("comment_like", state.String()).Inc()
	return state, nil
}

func (r *commentLikeRepository) SetActive(ctx context.Context, userID, commentID uint, active bool) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = setRelationshipActive(tx, r.spec(tx, userID, commentID), active)
		return err
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if changed {
		observability.RelationshipToggles.WithLabelValues("comment_like", models.StateFor(active).String()).Inc()
	}
	return changed, nil
}

func (r *commentLikeRepository) State(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	var row models.CommentLike
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StateAbsent, nil
	}
	if err != nil {
		return models.StateAbsent, models.NewInternalError(err)
	}
	return row.State(), nil
}

func (r *commentLikeRepository) CountActive(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ? AND is_deleted = ?", commentID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
