package models

import (
	"time"
)

// Photo represents a photo in the Aperture application.
type Photo struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	ImageURL string `gorm:"not null" json:"image_url"`
	Caption  string `gorm:"type:text" json:"caption"`
	// LikeCount is denormalized: it tracks the number of active Like rows
	// for this photo.
	LikeCount int `gorm:"not null;default:0" json:"like_count"`
	// CommentCount is denormalized: it tracks the number of active Comment
	// rows for this photo.
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Liked indicates whether the current requesting user likes this photo
	// (computed at query time)
	Liked bool `gorm:"->" json:"liked"`
}
