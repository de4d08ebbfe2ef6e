package memstore

import (
	"context"
	"sort"

	"aperture/internal/models"
	"aperture/internal/observability"
	"aperture/internal/repository"
)

type likeRepository struct {
	s *Store
}

// NewLikeRepository returns the in-memory LikeRepository implementation.
func NewLikeRepository(s *Store) repository.LikeRepository {
	return &likeRepository{s: s}
}

// toggle runs the shared state machine for one pair under the store mutex.
// Callers hold s.mu.
func (r *likeRepository) toggle(userID, photoID uint) models.RelationshipState {
	key := pair{userID, photoID}
	row := r.s.likes[r.s.likesByPair[key]]
	next, delta := row.State().Toggle()
	r.apply(row, key, userID, photoID, next, delta)
	return next
}

func (r *likeRepository) apply(row *models.Like, key pair, userID, photoID uint, next models.RelationshipState, delta int) {
	if row == nil {
		r.s.nextLikeID++
		row = &models.Like{
			ID:        r.s.nextLikeID,
			UserID:    userID,
			PhotoID:   photoID,
			CreatedAt: now(),
		}
		row.UpdatedAt = row.CreatedAt
		r.s.likes[row.ID] = row
		r.s.likesByPair[key] = row.ID
	} else {
		row.IsDeleted = next == models.StateInactive
		row.UpdatedAt = now()
	}
	if photo, ok := r.s.photos[photoID]; ok {
		addClamped(&photo.LikeCount, delta)
	}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	state := r.toggle(userID, photoID)
	observability.RelationshipToggles.WithLabelValues("like", state.String()).Inc()
	return state, nil
}

func (r *likeRepository) SetActive(ctx context.Context, userID, photoID uint, active bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pair{userID, photoID}
	row := r.s.likes[r.s.likesByPair[key]]
	cur := row.State()
	want := models.StateFor(active)
	delta := models.CounterDelta(cur, want)
	if delta == 0 {
		return false, nil
	}
	r.apply(row, key, userID, photoID, want, delta)
	observability.RelationshipToggles.WithLabelValues("like", want.String()).Inc()
	return true, nil
}

func (r *likeRepository) State(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := r.s.likes[r.s.likesByPair[pair{userID, photoID}]]
	return row.State(), nil
}

func (r *likeRepository) LikedUsers(ctx context.Context, photoID uint) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := make([]*models.Like, 0)
	for _, l := range r.s.likes {
		if l.PhotoID == photoID && !l.IsDeleted {
			active = append(active, l)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID > active[j].ID
	})

	users := make([]models.User, 0, len(active))
	for _, l := range active {
		if u, ok := r.s.users[l.UserID]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *likeRepository) CountActive(ctx context.Context, photoID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, l := range r.s.likes {
		if l.PhotoID == photoID && !l.IsDeleted {
			count++
		}
	}
	return count, nil
}
