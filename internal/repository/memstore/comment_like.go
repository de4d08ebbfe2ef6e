package memstore

import (
	"context"

	"aperture/internal/models"
	"aperture/internal/observability"
	"aperture/internal/repository"
)

type commentLikeRepository struct {
	s *Store
}

// NewCommentLikeRepository returns the in-memory CommentLikeRepository
// implementation.
func NewCommentLikeRepository(s *Store) repository.CommentLikeRepository {
	return &commentLikeRepository{s: s}
}

func (r *commentLikeRepository) apply(row *models.CommentLike, key pair, userID, commentID uint, next models.RelationshipState, delta int) {
	if row == nil {
		r.s.nextCommentLikeID++
		row = &models.CommentLike{
			ID:        r.s.nextCommentLikeID,
			UserID:    userID,
			CommentID: commentID,
			CreatedAt: now(),
		}
		row.UpdatedAt = row.CreatedAt
		r.s.commentLikes[row.ID] = row
		r.s.commentLikesByPair[key] = row.ID
	} else {
		row.IsDeleted = next == models.StateInactive
		row.UpdatedAt = now()
	}
	if comment, ok := r.s.comments[commentID]; ok {
		addClamped(&comment.LikeCount, delta)
	}
}

func (r *commentLikeRepository) Toggle(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pair{userID, commentID}
	row := r.s.commentLikes[r.s.commentLikesByPair[key]]
	next, delta := row.State().Toggle()
	r.apply(row, key, userID, commentID, next, delta)
	observability.RelationshipToggles.WithLabelValues("comment_like", next.String()).Inc()
	return next, nil
}

func (r *commentLikeRepository) SetActive(ctx context.Context, userID, commentID uint, active bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pair{userID, commentID}
	row := r.s.commentLikes[r.s.commentLikesByPair[key]]
	cur := row.State()
	want := models.StateFor(active)
	delta := models.CounterDelta(cur, want)
	if delta == 0 {
		return false, nil
	}
	r.apply(row, key, userID, commentID, want, delta)
	observability.RelationshipToggles.WithLabelValues("comment_like", want.String()).Inc()
	return true, nil
}

func (r *commentLikeRepository) State(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := r.s.commentLikes[r.s.commentLikesByPair[pair{userID, commentID}]]
	return row.State(), nil
}

func (r *commentLikeRepository) CountActive(ctx context.Context, commentID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, cl := range r.s.commentLikes {
		if cl.CommentID == commentID && !cl.IsDeleted {
			count++
		}
	}
	return count, nil
}
