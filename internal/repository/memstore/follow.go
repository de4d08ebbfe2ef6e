package memstore

import (
	"context"
	"sort"

	"aperture/internal/models"
	"aperture/internal/observability"
	"aperture/internal/repository"
)

type followRepository struct {
	s *Store
}

// NewFollowRepository returns the in-memory FollowRepository implementation.
// Unfollow soft-deletes the row, exactly like the relational backend; the
// row is kept for reactivation, never removed from the map.
func NewFollowRepository(s *Store) repository.FollowRepository {
	return &followRepository{s: s}
}

func (r *followRepository) apply(row *models.Follow, key pair, followerID, followingID uint, next models.RelationshipState, delta int) {
	if row == nil {
		r.s.nextFollowID++
		row = &models.Follow{
			ID:          r.s.nextFollowID,
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   now(),
		}
		row.UpdatedAt = row.CreatedAt
		r.s.follows[row.ID] = row
		r.s.followsByPair[key] = row.ID
	} else {
		row.IsDeleted = next == models.StateInactive
		row.UpdatedAt = now()
	}
	if user, ok := r.s.users[followingID]; ok {
		addClamped(&user.FollowerCount, delta)
	}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pair{followerID, followingID}
	row := r.s.follows[r.s.followsByPair[key]]
	next, delta := row.State().Toggle()
	r.apply(row, key, followerID, followingID, next, delta)
	observability.RelationshipToggles.WithLabelValues("follow", next.String()).Inc()
	return next, nil
}

func (r *followRepository) SetActive(ctx context.Context, followerID, followingID uint, active bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pair{followerID, followingID}
	row := r.s.follows[r.s.followsByPair[key]]
	cur := row.State()
	want := models.StateFor(active)
	delta := models.CounterDelta(cur, want)
	if delta == 0 {
		return false, nil
	}
	r.apply(row, key, followerID, followingID, want, delta)
	observability.RelationshipToggles.WithLabelValues("follow", want.String()).Inc()
	return true, nil
}

func (r *followRepository) State(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := r.s.follows[r.s.followsByPair[pair{followerID, followingID}]]
	return row.State(), nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.followActive(followerID, followingID), nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collectUsers(func(f *models.Follow) (uint, bool) {
		return f.FollowerID, f.FollowingID == userID
	}), nil
}

func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collectUsers(func(f *models.Follow) (uint, bool) {
		return f.FollowingID, f.FollowerID == userID
	}), nil
}

// collectUsers gathers the user on one side of each active follow row
// matched by side, most recent follow first. Callers hold s.mu.
func (r *followRepository) collectUsers(side func(*models.Follow) (uint, bool)) []models.User {
	active := make([]*models.Follow, 0)
	for _, f := range r.s.follows {
		if _, ok := side(f); ok && !f.IsDeleted {
			active = append(active, f)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID > active[j].ID
	})

	users := make([]models.User, 0, len(active))
	for _, f := range active {
		id, _ := side(f)
		if u, ok := r.s.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]uint, 0)
	for _, f := range r.s.follows {
		if f.FollowerID == userID && !f.IsDeleted {
			ids = append(ids, f.FollowingID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *followRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, f := range r.s.follows {
		if f.FollowingID == userID && !f.IsDeleted {
			count++
		}
	}
	return count, nil
}
