// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a user in the Aperture application.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"unique;not null" json:"username"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	// FollowerCount is denormalized: it tracks the number of active Follow
	// rows whose FollowingID is this user.
	FollowerCount int       `gorm:"not null;default:0" json:"follower_count"`
	IsAdmin       bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Following indicates whether the current requesting user actively
	// follows this user (computed at query time)
	Following bool `gorm:"->" json:"following"`
}
