// Package memstore implements the repository interfaces on in-process maps.
// It is the second storage backend next to the GORM one: same contracts,
// same toggle state machine, no database. One mutex serializes every
// mutation, so toggle and counter always move in lockstep and concurrent
// toggles on the same target cannot lose updates.
package memstore

import (
	"sync"
	"time"

	"aperture/internal/models"
	"aperture/internal/repository"
)

// pair keys a relationship row by actor and target.
type pair struct {
	actor  uint
	target uint
}

// Store holds every entity table. Relationship rows, once created, are only
// ever flipped between active and soft-deleted, mirroring the relational
// backend's no-physical-delete rule.
type Store struct {
	mu sync.Mutex

	users         map[uint]*models.User
	photos        map[uint]*models.Photo
	comments      map[uint]*models.Comment
	likes         map[uint]*models.Like
	follows       map[uint]*models.Follow
	commentLikes  map[uint]*models.CommentLike
	notifications map[uint]*models.Notification

	likesByPair        map[pair]uint
	followsByPair      map[pair]uint
	commentLikesByPair map[pair]uint

	nextUserID         uint
	nextPhotoID        uint
	nextCommentID      uint
	nextLikeID         uint
	nextFollowID       uint
	nextCommentLikeID  uint
	nextNotificationID uint
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:              make(map[uint]*models.User),
		photos:             make(map[uint]*models.Photo),
		comments:           make(map[uint]*models.Comment),
		likes:              make(map[uint]*models.Like),
		follows:            make(map[uint]*models.Follow),
		commentLikes:       make(map[uint]*models.CommentLike),
		notifications:      make(map[uint]*models.Notification),
		likesByPair:        make(map[pair]uint),
		followsByPair:      make(map[pair]uint),
		commentLikesByPair: make(map[pair]uint),
	}
}

// NewStores bundles the in-memory implementations behind the shared
// repository contracts.
func NewStores(s *Store) *repository.Stores {
	return &repository.Stores{
		Users:         NewUserRepository(s),
		Photos:        NewPhotoRepository(s),
		Comments:      NewCommentRepository(s),
		Likes:         NewLikeRepository(s),
		Follows:       NewFollowRepository(s),
		CommentLikes:  NewCommentLikeRepository(s),
		Notifications: NewNotificationRepository(s),
	}
}

// addClamped applies a counter delta, clamping decrements at zero so a
// redundant deactivation can never drive a counter negative.
func addClamped(counter *int, delta int) {
	*counter += delta
	if *counter < 0 {
		*counter = 0
	}
}

func now() time.Time {
	return time.Now().UTC()
}
