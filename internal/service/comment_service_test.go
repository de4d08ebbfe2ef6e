package service

import (
	"context"
	"testing"

	"aperture/internal/featureflags"
	"aperture/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentService(
	comments *commentRepoStub,
	photos *photoRepoStub,
	commentLikes *commentLikeRepoStub,
	notifications *notificationRepoStub,
	flags *featureflags.Manager,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return NewCommentService(comments, photos, commentLikes, notifications, flags, isAdmin)
}

func TestCreateComment_MissingPhoto(t *testing.T) {
	photos := noopPhotoRepo()
	photos.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }

	svc := newCommentService(noopCommentRepo(), photos, noopCommentLikeRepo(), noopNotificationRepo(), nil, nil)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PhotoID: 404, Content: "hi"})
	assertNotFoundError(t, err)
}

func TestCreateComment_EmptyContent(t *testing.T) {
	svc := newCommentService(noopCommentRepo(), noopPhotoRepo(), noopCommentLikeRepo(), noopNotificationRepo(), nil, nil)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PhotoID: 1, Content: ""})
	assertValidationError(t, err)
}

func TestCreateComment_NotifiesPhotoOwner(t *testing.T) {
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 33
		return nil
	}

	photos := noopPhotoRepo()
	photos.getByIDFn = func(_ context.Context, id, _ uint) (*models.Photo, error) {
		return &models.Photo{ID: id, UserID: 9}, nil
	}

	var created *models.Notification
	notifications := noopNotificationRepo()
	notifications.createFn = func(_ context.Context, n *models.Notification) error {
		created = n
		return nil
	}

	flags := featureflags.NewManager("auto_notifications=on")
	svc := newCommentService(comments, photos, noopCommentLikeRepo(), notifications, flags, nil)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PhotoID: 5, Content: "great light"})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, uint(9), created.UserID)
	assert.Equal(t, models.NotificationTypeComment, created.Type)
	require.NotNil(t, created.CommentID)
	assert.Equal(t, uint(33), *created.CommentID)
}

func TestDeleteComment_AuthorAndAdmin(t *testing.T) {
	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 4}, nil
	}

	isAdmin := func(_ context.Context, userID uint) (bool, error) {
		return userID == 99, nil
	}

	svc := newCommentService(comments, noopPhotoRepo(), noopCommentLikeRepo(), noopNotificationRepo(), nil, isAdmin)

	require.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 4, CommentID: 1}))
	require.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 99, CommentID: 1}))

	err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 5, CommentID: 1})
	assertUnauthorizedError(t, err)
}

func TestToggleCommentLike_MissingCommentFailsClosed(t *testing.T) {
	comments := noopCommentRepo()
	comments.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }

	toggled := false
	commentLikes := noopCommentLikeRepo()
	commentLikes.toggleFn = func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
		toggled = true
		return models.StateActive, nil
	}

	svc := newCommentService(comments, noopPhotoRepo(), commentLikes, noopNotificationRepo(), nil, nil)
	_, err := svc.ToggleLike(context.Background(), 1, 404)
	assertNotFoundError(t, err)
	assert.False(t, toggled)
}

func TestToggleCommentLike_ReturnsState(t *testing.T) {
	commentLikes := noopCommentLikeRepo()
	commentLikes.toggleFn = func(_ context.Context, userID, commentID uint) (models.RelationshipState, error) {
		assert.Equal(t, uint(1), userID)
		assert.Equal(t, uint(2), commentID)
		return models.StateInactive, nil
	}

	svc := newCommentService(noopCommentRepo(), noopPhotoRepo(), commentLikes, noopNotificationRepo(), nil, nil)
	state, err := svc.ToggleLike(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StateInactive, state)
}

func TestSetCommentLike_FailsClosedAndReportsChange(t *testing.T) {
	comments := noopCommentRepo()
	comments.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }

	svc := newCommentService(comments, noopPhotoRepo(), noopCommentLikeRepo(), noopNotificationRepo(), nil, nil)
	_, err := svc.SetLike(context.Background(), 1, 404, true)
	assertNotFoundError(t, err)

	commentLikes := noopCommentLikeRepo()
	commentLikes.setActiveFn = func(_ context.Context, userID, commentID uint, active bool) (bool, error) {
		assert.Equal(t, uint(1), userID)
		assert.Equal(t, uint(2), commentID)
		return !active, nil // pretend the row was already active
	}

	svc = newCommentService(noopCommentRepo(), noopPhotoRepo(), commentLikes, noopNotificationRepo(), nil, nil)
	changed, err := svc.SetLike(context.Background(), 1, 2, true)
	require.NoError(t, err)
	assert.False(t, changed)
}
