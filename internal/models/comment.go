package models

import (
	"time"
)

// Comment represents a comment on a photo.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	PhotoID uint   `gorm:"not null;index" json:"photo_id"`
	Content string `gorm:"type:text;not null" json:"content"`
	// LikeCount is denormalized: it tracks the number of active CommentLike
	// rows for this comment.
	LikeCount int       `gorm:"not null;default:0" json:"like_count"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Liked indicates whether the current requesting user likes this comment
	// (computed at query time)
	Liked bool `gorm:"->" json:"liked"`
}
