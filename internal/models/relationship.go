package models

import (
	"time"
)

// RelationshipState is the lifecycle state of a relationship row (a Like,
// Follow, or CommentLike) for one (actor, target) pair. A pair starts out
// StateAbsent, becomes StateActive when the row is first created, and from
// then on flips between StateActive and StateInactive. It never returns to
// StateAbsent: rows are soft-deleted, not removed.
type RelationshipState int

const (
	// StateAbsent means no row exists for the pair.
	StateAbsent RelationshipState = iota
	// StateActive means the row exists and is not soft-deleted.
	StateActive
	// StateInactive means the row exists but is soft-deleted.
	StateInactive
)

func (s RelationshipState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// IsActive reports whether the relationship currently counts toward the
// target's denormalized counter.
func (s RelationshipState) IsActive() bool {
	return s == StateActive
}

// Toggle returns the state reached by a single toggle action and the
// adjustment to apply to the target's denormalized counter:
//
//	absent   -> active   (+1, row inserted)
//	active   -> inactive (-1, row flagged)
//	inactive -> active   (+1, flag cleared)
func (s RelationshipState) Toggle() (RelationshipState, int) {
	if s == StateActive {
		return StateInactive, -1
	}
	return StateActive, +1
}

// StateFor maps a desired active/inactive outcome to its state.
func StateFor(active bool) RelationshipState {
	if active {
		return StateActive
	}
	return StateInactive
}

// StateOf maps a row's existence and soft-delete flag to a state.
func StateOf(exists, isDeleted bool) RelationshipState {
	switch {
	case !exists:
		return StateAbsent
	case isDeleted:
		return StateInactive
	default:
		return StateActive
	}
}

// CounterDelta returns the denormalized-counter adjustment for moving a
// relationship from one state to another. Moving into StateActive adds one,
// leaving it removes one, and a transition that does not cross the active
// boundary (including deactivating a pair that never existed) is zero.
func CounterDelta(from, to RelationshipState) int {
	switch {
	case from == to:
		return 0
	case to == StateActive:
		return +1
	case from == StateActive:
		return -1
	default:
		return 0
	}
}

// Like represents a user's like on a photo. At most one active row exists
// per (UserID, PhotoID) pair; uniqueness is enforced by the toggle logic,
// not a database constraint.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_photo" json:"user_id"`
	PhotoID   uint      `gorm:"not null;uniqueIndex:idx_likes_user_photo;index" json:"photo_id"`
	IsDeleted bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State returns the row's position in the relationship lifecycle.
func (l *Like) State() RelationshipState {
	return StateOf(l != nil, l != nil && l.IsDeleted)
}

// Follow represents one user following another. FollowerID is the actor,
// FollowingID the user being followed.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f *Follow) State() RelationshipState {
	return StateOf(f != nil, f != nil && f.IsDeleted)
}

// CommentLike represents a user's like on a comment.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment;index" json:"comment_id"`
	IsDeleted bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (cl *CommentLike) State() RelationshipState {
	return StateOf(cl != nil, cl != nil && cl.IsDeleted)
}
