package repository_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"aperture/internal/database"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sqliteSeq atomic.Int64

// newSQLiteStores opens a fresh in-memory SQLite database and builds the
// relational backend on it. A single connection avoids SQLITE_BUSY under
// the transactions the toggle stores run.
func newSQLiteStores(t *testing.T) *repository.Stores {
	t.Helper()

	dsn := fmt.Sprintf("file:conformance%d?mode=memory&cache=shared", sqliteSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return repository.NewGormStores(db)
}

// forEachBackend runs fn against both storage backends. Everything asserted
// here is backend-independent behavior; the two implementations must agree.
func forEachBackend(t *testing.T, fn func(t *testing.T, stores *repository.Stores)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, memstore.NewStores(memstore.New()))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newSQLiteStores(t))
	})
}

func mustCreateUser(t *testing.T, stores *repository.Stores, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, stores.Users.Create(context.Background(), u))
	return u
}

func mustCreatePhoto(t *testing.T, stores *repository.Stores, owner *models.User) *models.Photo {
	t.Helper()
	p := &models.Photo{
		UserID:   owner.ID,
		ImageURL: "https://example.com/p.jpg",
		Caption:  "caption",
	}
	require.NoError(t, stores.Photos.Create(context.Background(), p))
	return p
}

func photoLikeCount(t *testing.T, stores *repository.Stores, photoID uint) int {
	t.Helper()
	p, err := stores.Photos.GetByID(context.Background(), photoID, 0)
	require.NoError(t, err)
	return p.LikeCount
}

func TestLikeToggleLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		alice := mustCreateUser(t, stores, "alice")
		bob := mustCreateUser(t, stores, "bob")
		photo := mustCreatePhoto(t, stores, bob)

		// absent -> active
		state, err := stores.Likes.Toggle(ctx, alice.ID, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, state)
		assert.Equal(t, 1, photoLikeCount(t, stores, photo.ID))

		got, err := stores.Likes.State(ctx, alice.ID, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, got)

		// active -> inactive
		state, err = stores.Likes.Toggle(ctx, alice.ID, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateInactive, state)
		assert.Equal(t, 0, photoLikeCount(t, stores, photo.ID))

		// inactive -> active reactivates the same row
		state, err = stores.Likes.Toggle(ctx, alice.ID, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, state)
		assert.Equal(t, 1, photoLikeCount(t, stores, photo.ID))

		count, err := stores.Likes.CountActive(ctx, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestLikeSetActiveIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		alice := mustCreateUser(t, stores, "alice")
		bob := mustCreateUser(t, stores, "bob")
		photo := mustCreatePhoto(t, stores, bob)

		// Deactivating a pair that never existed changes nothing.
		changed, err := stores.Likes.SetActive(ctx, alice.ID, photo.ID, false)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 0, photoLikeCount(t, stores, photo.ID))

		changed, err = stores.Likes.SetActive(ctx, alice.ID, photo.ID, true)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 1, photoLikeCount(t, stores, photo.ID))

		// Repeating the satisfied request is a silent no-op; the counter
		// must not double-count.
		changed, err = stores.Likes.SetActive(ctx, alice.ID, photo.ID, true)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 1, photoLikeCount(t, stores, photo.ID))

		changed, err = stores.Likes.SetActive(ctx, alice.ID, photo.ID, false)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 0, photoLikeCount(t, stores, photo.ID))

		// Counter clamps at zero even if deactivation repeats.
		changed, err = stores.Likes.SetActive(ctx, alice.ID, photo.ID, false)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 0, photoLikeCount(t, stores, photo.ID))
	})
}

func TestLikedUsers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		owner := mustCreateUser(t, stores, "owner")
		photo := mustCreatePhoto(t, stores, owner)

		var likers []uint
		for i := 0; i < 3; i++ {
			u := mustCreateUser(t, stores, fmt.Sprintf("liker%d", i))
			_, err := stores.Likes.Toggle(ctx, u.ID, photo.ID)
			require.NoError(t, err)
			likers = append(likers, u.ID)
		}
		// One liker backs out; they must not appear in the list.
		_, err := stores.Likes.Toggle(ctx, likers[1], photo.ID)
		require.NoError(t, err)

		users, err := stores.Likes.LikedUsers(ctx, photo.ID)
		require.NoError(t, err)
		require.Len(t, users, 2)
		ids := []uint{users[0].ID, users[1].ID}
		assert.ElementsMatch(t, []uint{likers[0], likers[2]}, ids)
		assert.Equal(t, 2, photoLikeCount(t, stores, photo.ID))
	})
}

func TestFollowLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		alice := mustCreateUser(t, stores, "alice")
		bob := mustCreateUser(t, stores, "bob")

		state, err := stores.Follows.Toggle(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, state)

		following, err := stores.Follows.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		// Follower counter lives on the followed user.
		bobLoaded, err := stores.Users.GetByID(ctx, bob.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, bobLoaded.FollowerCount)

		followers, err := stores.Follows.Followers(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, alice.ID, followers[0].ID)

		followingList, err := stores.Follows.Following(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, followingList, 1)
		assert.Equal(t, bob.ID, followingList[0].ID)

		ids, err := stores.Follows.FollowingIDs(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{bob.ID}, ids)

		// Unfollow soft-deletes and decrements.
		state, err = stores.Follows.Toggle(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateInactive, state)

		bobLoaded, err = stores.Users.GetByID(ctx, bob.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, bobLoaded.FollowerCount)

		followers, err = stores.Follows.Followers(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, followers)
	})
}

func TestFollowViewerFlag(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		alice := mustCreateUser(t, stores, "alice")
		bob := mustCreateUser(t, stores, "bob")

		_, err := stores.Follows.SetActive(ctx, alice.ID, bob.ID, true)
		require.NoError(t, err)

		seenByAlice, err := stores.Users.GetByID(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, seenByAlice.Following)

		seenByBob, err := stores.Users.GetByID(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, seenByBob.Following)
	})
}

func TestCommentLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		owner := mustCreateUser(t, stores, "owner")
		commenter := mustCreateUser(t, stores, "commenter")
		photo := mustCreatePhoto(t, stores, owner)

		comment := &models.Comment{
			UserID:  commenter.ID,
			PhotoID: photo.ID,
			Content: "nice shot",
		}
		require.NoError(t, stores.Comments.Create(ctx, comment))

		p, err := stores.Photos.GetByID(ctx, photo.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, p.CommentCount)

		count, err := stores.Comments.CountActiveByPhoto(ctx, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		list, err := stores.Comments.ListByPhoto(ctx, photo.ID, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "nice shot", list[0].Content)

		// Soft delete decrements the counter and hides the comment.
		require.NoError(t, stores.Comments.Delete(ctx, comment.ID))

		p, err = stores.Photos.GetByID(ctx, photo.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, p.CommentCount)

		exists, err := stores.Comments.Exists(ctx, comment.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = stores.Comments.GetByID(ctx, comment.ID, 0)
		assertAppErrCode(t, err, "NOT_FOUND")

		// Deleting again changes nothing; the counter stays at zero.
		require.NoError(t, stores.Comments.Delete(ctx, comment.ID))
		p, err = stores.Photos.GetByID(ctx, photo.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, p.CommentCount)
	})
}

func TestCommentLikeLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		owner := mustCreateUser(t, stores, "owner")
		liker := mustCreateUser(t, stores, "liker")
		photo := mustCreatePhoto(t, stores, owner)

		comment := &models.Comment{UserID: owner.ID, PhotoID: photo.ID, Content: "first"}
		require.NoError(t, stores.Comments.Create(ctx, comment))

		state, err := stores.CommentLikes.Toggle(ctx, liker.ID, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, state)

		loaded, err := stores.Comments.GetByID(ctx, comment.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.LikeCount)

		count, err := stores.CommentLikes.CountActive(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		state, err = stores.CommentLikes.Toggle(ctx, liker.ID, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateInactive, state)

		loaded, err = stores.Comments.GetByID(ctx, comment.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.LikeCount)
	})
}

func TestPhotoSoftDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		owner := mustCreateUser(t, stores, "owner")
		liker := mustCreateUser(t, stores, "liker")
		photo := mustCreatePhoto(t, stores, owner)

		_, err := stores.Likes.Toggle(ctx, liker.ID, photo.ID)
		require.NoError(t, err)

		require.NoError(t, stores.Photos.Delete(ctx, photo.ID))

		exists, err := stores.Photos.Exists(ctx, photo.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = stores.Photos.GetByID(ctx, photo.ID, 0)
		assertAppErrCode(t, err, "NOT_FOUND")

		list, err := stores.Photos.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, list)

		// The like row survives the photo's soft delete; history is kept.
		state, err := stores.Likes.State(ctx, liker.ID, photo.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, state)
	})
}

func TestFeedOnlyShowsFollowedAndOwn(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		viewer := mustCreateUser(t, stores, "viewer")
		followed := mustCreateUser(t, stores, "followed")
		stranger := mustCreateUser(t, stores, "stranger")

		own := mustCreatePhoto(t, stores, viewer)
		theirs := mustCreatePhoto(t, stores, followed)
		strangers := mustCreatePhoto(t, stores, stranger)

		_, err := stores.Follows.SetActive(ctx, viewer.ID, followed.ID, true)
		require.NoError(t, err)

		feed, err := stores.Photos.ListFeed(ctx, viewer.ID)
		require.NoError(t, err)

		var ids []uint
		for _, p := range feed {
			ids = append(ids, p.ID)
		}
		assert.ElementsMatch(t, []uint{own.ID, theirs.ID}, ids)
		assert.NotContains(t, ids, strangers.ID)

		// Unfollowing removes their photos from the feed again.
		_, err = stores.Follows.SetActive(ctx, viewer.ID, followed.ID, false)
		require.NoError(t, err)

		feed, err = stores.Photos.ListFeed(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, own.ID, feed[0].ID)
	})
}

func TestPhotoViewerLikedFlag(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		owner := mustCreateUser(t, stores, "owner")
		viewer := mustCreateUser(t, stores, "viewer")
		photo := mustCreatePhoto(t, stores, owner)

		_, err := stores.Likes.Toggle(ctx, viewer.ID, photo.ID)
		require.NoError(t, err)

		seen, err := stores.Photos.GetByID(ctx, photo.ID, viewer.ID)
		require.NoError(t, err)
		assert.True(t, seen.Liked)

		seenByOwner, err := stores.Photos.GetByID(ctx, photo.ID, owner.ID)
		require.NoError(t, err)
		assert.False(t, seenByOwner.Liked)
	})
}

func TestNotificationOwnership(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		alice := mustCreateUser(t, stores, "alice")
		bob := mustCreateUser(t, stores, "bob")

		n := &models.Notification{
			UserID:  alice.ID,
			ActorID: bob.ID,
			Type:    models.NotificationTypeLike,
		}
		require.NoError(t, stores.Notifications.Create(ctx, n))

		count, err := stores.Notifications.UnreadCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		// Another user cannot mark it read.
		err = stores.Notifications.MarkRead(ctx, n.ID, bob.ID)
		assertAppErrCode(t, err, "NOT_FOUND")

		require.NoError(t, stores.Notifications.MarkRead(ctx, n.ID, alice.ID))

		count, err = stores.Notifications.UnreadCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		list, err := stores.Notifications.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Read)
	})
}

func TestUserLookupMisses(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()

		// Email and username misses are not errors; the caller decides.
		u, err := stores.Users.GetByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, u)

		u, err = stores.Users.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, u)

		// An ID miss is a not-found error.
		_, err = stores.Users.GetByID(ctx, 999, 0)
		assertAppErrCode(t, err, "NOT_FOUND")

		exists, err := stores.Users.Exists(ctx, 999)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUpdateProfileWritesOnlyProfileColumns(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ctx := context.Background()
		target := mustCreateUser(t, stores, "target")
		fan := mustCreateUser(t, stores, "fan")

		changed, err := stores.Follows.SetActive(ctx, fan.ID, target.ID, true)
		require.NoError(t, err)
		require.True(t, changed)

		// A cached profile read strips the password hash, and its
		// follower count goes stale the moment a follow lands. Feeding
		// such a struct back through Update must not persist either.
		stale := &models.User{
			Username:      target.Username,
			Email:         target.Email,
			DisplayName:   "New Name",
			Bio:           "new bio",
			AvatarURL:     "https://example.com/a.png",
			Password:      "",
			FollowerCount: 0,
		}
		stale.ID = target.ID
		require.NoError(t, stores.Users.Update(ctx, stale))

		got, err := stores.Users.GetByUsername(ctx, target.Username)
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.DisplayName)
		assert.Equal(t, "new bio", got.Bio)
		assert.Equal(t, "hashed", got.Password, "profile update must not touch the password hash")
		assert.Equal(t, 1, got.FollowerCount, "profile update must not clobber the follow store's counter")

		active, err := stores.Follows.CountActive(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, active, int64(got.FollowerCount))
	})
}

func TestUpdateMissingUserFailsClosed(t *testing.T) {
	forEachBackend(t, func(t *testing.T, stores *repository.Stores) {
		ghost := &models.User{DisplayName: "nobody"}
		ghost.ID = 4242
		err := stores.Users.Update(context.Background(), ghost)
		assertAppErrCode(t, err, "NOT_FOUND")
	})
}

func assertAppErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
