package memstore

import (
	"context"
	"sort"

	"aperture/internal/models"
	"aperture/internal/repository"
)

type commentRepository struct {
	s *Store
}

// NewCommentRepository returns the in-memory CommentRepository
// implementation. Comments soft-delete like every other row here, and the
// photo's comment_count moves with the active set in both directions.
func NewCommentRepository(s *Store) repository.CommentRepository {
	return &commentRepository{s: s}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextCommentID++
	comment.ID = r.s.nextCommentID
	comment.CreatedAt = now()
	comment.UpdatedAt = comment.CreatedAt
	comment.LikeCount = 0
	comment.IsDeleted = false

	stored := *comment
	stored.User = models.User{}
	r.s.comments[comment.ID] = &stored

	if photo, ok := r.s.photos[comment.PhotoID]; ok {
		addClamped(&photo.CommentCount, +1)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.comments[id]
	if !ok || stored.IsDeleted {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return r.s.viewComment(stored, viewerID), nil
}

func (r *commentRepository) ListByPhoto(ctx context.Context, photoID uint, viewerID uint) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := make([]*models.Comment, 0)
	for _, c := range r.s.comments {
		if c.PhotoID == photoID && !c.IsDeleted {
			active = append(active, c)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID > active[j].ID
	})

	out := make([]*models.Comment, 0, len(active))
	for _, c := range active {
		out = append(out, r.s.viewComment(c, viewerID))
	}
	return out, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.comments[id]
	if !ok {
		return models.NewNotFoundError("Comment", id)
	}
	if stored.IsDeleted {
		return nil
	}
	stored.IsDeleted = true
	stored.UpdatedAt = now()

	if photo, ok := r.s.photos[stored.PhotoID]; ok {
		addClamped(&photo.CommentCount, -1)
	}
	return nil
}

func (r *commentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.comments[id]
	return ok && !stored.IsDeleted, nil
}

func (r *commentRepository) CountActiveByPhoto(ctx context.Context, photoID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, c := range r.s.comments {
		if c.PhotoID == photoID && !c.IsDeleted {
			count++
		}
	}
	return count, nil
}
