package memstore

import (
	"sort"

	"aperture/internal/models"
)

// The helpers below assume the caller holds s.mu.

func (s *Store) likeActive(userID, photoID uint) bool {
	row := s.likes[s.likesByPair[pair{userID, photoID}]]
	return row.State().IsActive()
}

func (s *Store) followActive(followerID, followingID uint) bool {
	row := s.follows[s.followsByPair[pair{followerID, followingID}]]
	return row.State().IsActive()
}

func (s *Store) commentLikeActive(userID, commentID uint) bool {
	row := s.commentLikes[s.commentLikesByPair[pair{userID, commentID}]]
	return row.State().IsActive()
}

func (s *Store) sortedUsers() []*models.User {
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *Store) activePhotos() []*models.Photo {
	photos := make([]*models.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		if !p.IsDeleted {
			photos = append(photos, p)
		}
	}
	return photos
}

// byNewest orders photos by creation time, newest first, with the row ID as
// the tiebreak so ordering is stable when timestamps collide.
func byNewest(photos []*models.Photo) {
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.After(photos[j].CreatedAt)
		}
		return photos[i].ID > photos[j].ID
	})
}

// viewPhoto copies a photo for return, attaching the owner snapshot and the
// viewer's liked flag the way the relational backend computes them per query.
func (s *Store) viewPhoto(p *models.Photo, viewerID uint) *models.Photo {
	photo := *p
	if owner, ok := s.users[p.UserID]; ok {
		photo.User = *owner
	}
	if viewerID != 0 {
		photo.Liked = s.likeActive(viewerID, p.ID)
	} else {
		photo.Liked = false
	}
	return &photo
}

func (s *Store) viewComment(c *models.Comment, viewerID uint) *models.Comment {
	comment := *c
	if author, ok := s.users[c.UserID]; ok {
		comment.User = *author
	}
	if viewerID != 0 {
		comment.Liked = s.commentLikeActive(viewerID, c.ID)
	} else {
		comment.Liked = false
	}
	return &comment
}
