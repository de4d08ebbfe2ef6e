package service

import (
	"context"
	"testing"

	"aperture/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// photoRepoStub is a stub for repository.PhotoRepository.
type photoRepoStub struct {
	createFn     func(context.Context, *models.Photo) error
	getByIDFn    func(context.Context, uint, uint) (*models.Photo, error)
	listFn       func(context.Context, uint) ([]*models.Photo, error)
	listFeedFn   func(context.Context, uint) ([]*models.Photo, error)
	listByUserFn func(context.Context, uint, uint) ([]*models.Photo, error)
	deleteFn     func(context.Context, uint) error
	existsFn     func(context.Context, uint) (bool, error)
}

func (s *photoRepoStub) Create(ctx context.Context, photo *models.Photo) error {
	return s.createFn(ctx, photo)
}
func (s *photoRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Photo, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *photoRepoStub) List(ctx context.Context, viewerID uint) ([]*models.Photo, error) {
	return s.listFn(ctx, viewerID)
}
func (s *photoRepoStub) ListFeed(ctx context.Context, userID uint) ([]*models.Photo, error) {
	return s.listFeedFn(ctx, userID)
}
func (s *photoRepoStub) ListByUser(ctx context.Context, ownerID, viewerID uint) ([]*models.Photo, error) {
	return s.listByUserFn(ctx, ownerID, viewerID)
}
func (s *photoRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *photoRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopPhotoRepo() *photoRepoStub {
	return &photoRepoStub{
		createFn:     func(_ context.Context, _ *models.Photo) error { return nil },
		getByIDFn:    func(_ context.Context, _, _ uint) (*models.Photo, error) { return &models.Photo{}, nil },
		listFn:       func(_ context.Context, _ uint) ([]*models.Photo, error) { return nil, nil },
		listFeedFn:   func(_ context.Context, _ uint) ([]*models.Photo, error) { return nil, nil },
		listByUserFn: func(_ context.Context, _, _ uint) ([]*models.Photo, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		existsFn:     func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn      func(context.Context, uint, uint) (models.RelationshipState, error)
	setActiveFn   func(context.Context, uint, uint, bool) (bool, error)
	stateFn       func(context.Context, uint, uint) (models.RelationshipState, error)
	likedUsersFn  func(context.Context, uint) ([]models.User, error)
	countActiveFn func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	return s.toggleFn(ctx, userID, photoID)
}
func (s *likeRepoStub) SetActive(ctx context.Context, userID, photoID uint, active bool) (bool, error) {
	return s.setActiveFn(ctx, userID, photoID, active)
}
func (s *likeRepoStub) State(ctx context.Context, userID, photoID uint) (models.RelationshipState, error) {
	return s.stateFn(ctx, userID, photoID)
}
func (s *likeRepoStub) LikedUsers(ctx context.Context, photoID uint) ([]models.User, error) {
	return s.likedUsersFn(ctx, photoID)
}
func (s *likeRepoStub) CountActive(ctx context.Context, photoID uint) (int64, error) {
	return s.countActiveFn(ctx, photoID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn: func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
			return models.StateActive, nil
		},
		setActiveFn: func(_ context.Context, _, _ uint, _ bool) (bool, error) { return true, nil },
		stateFn: func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
			return models.StateAbsent, nil
		},
		likedUsersFn:  func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		countActiveFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	existsFn        func(context.Context, uint) (bool, error)
	listFn          func(context.Context, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.User, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit int) ([]models.User, error) {
	return s.listFn(ctx, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		existsFn:        func(_ context.Context, _ uint) (bool, error) { return true, nil },
		listFn:          func(_ context.Context, _ int) ([]models.User, error) { return nil, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	toggleFn       func(context.Context, uint, uint) (models.RelationshipState, error)
	setActiveFn    func(context.Context, uint, uint, bool) (bool, error)
	stateFn        func(context.Context, uint, uint) (models.RelationshipState, error)
	isFollowingFn  func(context.Context, uint, uint) (bool, error)
	followersFn    func(context.Context, uint) ([]models.User, error)
	followingFn    func(context.Context, uint) ([]models.User, error)
	followingIDsFn func(context.Context, uint) ([]uint, error)
	countActiveFn  func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Toggle(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	return s.toggleFn(ctx, followerID, followingID)
}
func (s *followRepoStub) SetActive(ctx context.Context, followerID, followingID uint, active bool) (bool, error) {
	return s.setActiveFn(ctx, followerID, followingID, active)
}
func (s *followRepoStub) State(ctx context.Context, followerID, followingID uint) (models.RelationshipState, error) {
	return s.stateFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *followRepoStub) CountActive(ctx context.Context, userID uint) (int64, error) {
	return s.countActiveFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		toggleFn: func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
			return models.StateActive, nil
		},
		setActiveFn: func(_ context.Context, _, _ uint, _ bool) (bool, error) { return true, nil },
		stateFn: func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
			return models.StateAbsent, nil
		},
		isFollowingFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followersFn:    func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followingFn:    func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		countActiveFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn             func(context.Context, *models.Comment) error
	getByIDFn            func(context.Context, uint, uint) (*models.Comment, error)
	listByPhotoFn        func(context.Context, uint, uint) ([]*models.Comment, error)
	deleteFn             func(context.Context, uint) error
	existsFn             func(context.Context, uint) (bool, error)
	countActiveByPhotoFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *commentRepoStub) ListByPhoto(ctx context.Context, photoID, viewerID uint) ([]*models.Comment, error) {
	return s.listByPhotoFn(ctx, photoID, viewerID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *commentRepoStub) CountActiveByPhoto(ctx context.Context, photoID uint) (int64, error) {
	return s.countActiveByPhotoFn(ctx, photoID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:             func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:            func(_ context.Context, _, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPhotoFn:        func(_ context.Context, _, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		existsFn:             func(_ context.Context, _ uint) (bool, error) { return true, nil },
		countActiveByPhotoFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentLikeRepoStub is a stub for repository.CommentLikeRepository.
type commentLikeRepoStub struct {
	toggleFn      func(context.Context, uint, uint) (models.RelationshipState, error)
	setActiveFn   func(context.Context, uint, uint, bool) (bool, error)
	stateFn       func(context.Context, uint, uint) (models.RelationshipState, error)
	countActiveFn func(context.Context, uint) (int64, error)
}

func (s *commentLikeRepoStub) Toggle(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	return s.toggleFn(ctx, userID, commentID)
}
func (s *commentLikeRepoStub) SetActive(ctx context.Context, userID, commentID uint, active bool) (bool, error) {
	return s.setActiveFn(ctx, userID, commentID, active)
}
func (s *commentLikeRepoStub) State(ctx context.Context, userID, commentID uint) (models.RelationshipState, error) {
	return s.stateFn(ctx, userID, commentID)
}
func (s *commentLikeRepoStub) CountActive(ctx context.Context, commentID uint) (int64, error) {
	return s.countActiveFn(ctx, commentID)
}

func noopCommentLikeRepo() *commentLikeRepoStub {
	return &commentLikeRepoStub{
		toggleFn: func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
			return models.StateActive, nil
		},
		setActiveFn: func(_ context.Context, _, _ uint, _ bool) (bool, error) { return true, nil },
		stateFn: func(_ context.Context, _, _ uint) (models.RelationshipState, error) {
			return models.StateAbsent, nil
		},
		countActiveFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	listByUserFn  func(context.Context, uint) ([]models.Notification, error)
	unreadCountFn func(context.Context, uint) (int64, error)
	markReadFn    func(context.Context, uint, uint) error
	markAllReadFn func(context.Context, uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *notificationRepoStub) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.unreadCountFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id, userID uint) error {
	return s.markReadFn(ctx, id, userID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uint) error {
	return s.markAllReadFn(ctx, userID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn:      func(_ context.Context, _ *models.Notification) error { return nil },
		listByUserFn:  func(_ context.Context, _ uint) ([]models.Notification, error) { return nil, nil },
		unreadCountFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markReadFn:    func(_ context.Context, _, _ uint) error { return nil },
		markAllReadFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
