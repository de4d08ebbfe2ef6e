package repository

import (
	"gorm.io/gorm"
)

// Stores bundles one repository per entity so callers can pass the whole
// storage backend around as a unit. Both the GORM-backed and the in-memory
// implementations produce one of these.
type Stores struct {
	Users         UserRepository
	Photos        PhotoRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Follows       FollowRepository
	CommentLikes  CommentLikeRepository
	Notifications NotificationRepository
}

// NewGormStores builds the relational backend on top of db.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users:         NewUserRepository(db),
		Photos:        NewPhotoRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Follows:       NewFollowRepository(db),
		CommentLikes:  NewCommentLikeRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
