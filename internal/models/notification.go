package models

import (
	"time"
)

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	// NotificationTypeLike is sent when someone likes a photo.
	NotificationTypeLike NotificationType = "like"
	// NotificationTypeComment is sent when someone comments on a photo.
	NotificationTypeComment NotificationType = "comment"
	// NotificationTypeFollow is sent when someone follows a user.
	NotificationTypeFollow NotificationType = "follow"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeLike, NotificationTypeComment, NotificationTypeFollow:
		return true
	}
	return false
}

// Notification records that an actor did something a user should hear about.
// PhotoID is set for like and comment notifications, CommentID for comment
// notifications; follow notifications carry neither.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	ActorID   uint             `gorm:"not null" json:"actor_id"`
	Actor     User             `gorm:"foreignKey:ActorID" json:"actor"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	PhotoID   *uint            `json:"photo_id,omitempty"`
	CommentID *uint            `json:"comment_id,omitempty"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
