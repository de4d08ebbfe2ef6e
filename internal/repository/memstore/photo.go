package memstore

import (
	"context"
	"sort"

	"aperture/internal/models"
	"aperture/internal/repository"
)

type photoRepository struct {
	s *Store
}

// NewPhotoRepository returns the in-memory PhotoRepository implementation.
func NewPhotoRepository(s *Store) repository.PhotoRepository {
	return &photoRepository{s: s}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextPhotoID++
	photo.ID = r.s.nextPhotoID
	photo.CreatedAt = now()
	photo.UpdatedAt = photo.CreatedAt
	photo.LikeCount = 0
	photo.CommentCount = 0
	photo.IsDeleted = false

	stored := *photo
	stored.User = models.User{}
	r.s.photos[photo.ID] = &stored
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.photos[id]
	if !ok || stored.IsDeleted {
		return nil, models.NewNotFoundError("Photo", id)
	}
	return r.s.viewPhoto(stored, viewerID), nil
}

// List ranks the general feed by owner follower count, then like count, then
// comment count, then recency, matching the relational backend's ordering.
func (r *photoRepository) List(ctx context.Context, viewerID uint) ([]*models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	photos := r.s.activePhotos()
	followerCount := func(p *models.Photo) int {
		if owner, ok := r.s.users[p.UserID]; ok {
			return owner.FollowerCount
		}
		return 0
	}
	sort.Slice(photos, func(i, j int) bool {
		a, b := photos[i], photos[j]
		if fa, fb := followerCount(a), followerCount(b); fa != fb {
			return fa > fb
		}
		if a.LikeCount != b.LikeCount {
			return a.LikeCount > b.LikeCount
		}
		if a.CommentCount != b.CommentCount {
			return a.CommentCount > b.CommentCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	out := make([]*models.Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, r.s.viewPhoto(p, viewerID))
	}
	return out, nil
}

func (r *photoRepository) ListFeed(ctx context.Context, userID uint) ([]*models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	photos := make([]*models.Photo, 0)
	for _, p := range r.s.activePhotos() {
		if p.UserID == userID || r.s.followActive(userID, p.UserID) {
			photos = append(photos, p)
		}
	}
	byNewest(photos)

	out := make([]*models.Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, r.s.viewPhoto(p, userID))
	}
	return out, nil
}

func (r *photoRepository) ListByUser(ctx context.Context, ownerID uint, viewerID uint) ([]*models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	photos := make([]*models.Photo, 0)
	for _, p := range r.s.activePhotos() {
		if p.UserID == ownerID {
			photos = append(photos, p)
		}
	}
	byNewest(photos)

	out := make([]*models.Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, r.s.viewPhoto(p, viewerID))
	}
	return out, nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if stored, ok := r.s.photos[id]; ok && !stored.IsDeleted {
		stored.IsDeleted = true
		stored.UpdatedAt = now()
	}
	return nil
}

func (r *photoRepository) Exists(ctx context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.photos[id]
	return ok && !stored.IsDeleted, nil
}
