package memstore

import (
	"context"
	"sort"

	"aperture/internal/models"
	"aperture/internal/repository"
)

type notificationRepository struct {
	s *Store
}

// NewNotificationRepository returns the in-memory NotificationRepository
// implementation.
func NewNotificationRepository(s *Store) repository.NotificationRepository {
	return &notificationRepository{s: s}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextNotificationID++
	notification.ID = r.s.nextNotificationID
	notification.CreatedAt = now()
	notification.Read = false

	stored := *notification
	stored.Actor = models.User{}
	r.s.notifications[notification.ID] = &stored
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	mine := make([]*models.Notification, 0)
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if !mine[i].CreatedAt.Equal(mine[j].CreatedAt) {
			return mine[i].CreatedAt.After(mine[j].CreatedAt)
		}
		return mine[i].ID > mine[j].ID
	})

	out := make([]models.Notification, 0, len(mine))
	for _, n := range mine {
		notification := *n
		if actor, ok := r.s.users[n.ActorID]; ok {
			notification.Actor = *actor
		}
		out = append(out, notification)
	}
	return out, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.notifications[id]
	if !ok || stored.UserID != userID {
		return models.NewNotFoundError("Notification", id)
	}
	stored.Read = true
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}
