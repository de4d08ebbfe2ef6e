// Package seed creates demo data for development and testing. Everything
// goes through the repository layer so the denormalized counters stay in
// sync with the relationship rows that back them.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"aperture/internal/models"
	"aperture/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Factory builds domain entities and persists them through the stores.
type Factory struct {
	stores *repository.Stores
	opts   Options
	rng    *rand.Rand

	// bcrypt of the shared demo password, computed once
	passwordHash string
}

// NewFactory creates a Factory bound to the provided stores. A fixed
// RandSeed in opts makes the generated data reproducible.
func NewFactory(stores *repository.Stores, opts Options) *Factory {
	seedVal := opts.RandSeed
	if seedVal == 0 {
		seedVal = gofakeit.New(0).Int64()
	}
	gofakeit.Seed(seedVal)

	f := &Factory{
		stores: stores,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seedVal)),
	}

	if opts.SkipBcrypt {
		f.passwordHash = demoPassword
	} else {
		hash, _ := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		f.passwordHash = string(hash)
	}
	return f
}

// demoPassword is the password every seeded account gets.
const demoPassword = "password123!Aa"

// CreateUser persists a generated user. Override functions may adjust the
// user before it is saved.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		Password:    f.passwordHash,
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.stores.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePhoto persists a generated photo for the given user.
func (f *Factory) CreatePhoto(ctx context.Context, user *models.User, overrides ...func(*models.Photo)) (*models.Photo, error) {
	photo := &models.Photo{
		UserID:   user.ID,
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Caption:  gofakeit.Sentence(f.rng.Intn(12) + 3),
	}

	for _, override := range overrides {
		override(photo)
	}

	if err := f.stores.Photos.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// CreateComment persists a generated comment on the photo.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, photo *models.Photo, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:  user.ID,
		PhotoID: photo.ID,
		Content: gofakeit.Sentence(f.rng.Intn(10) + 2),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.stores.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Like activates a like from user on photo through the toggle engine, so
// the photo's like counter moves with the row.
func (f *Factory) Like(ctx context.Context, user *models.User, photo *models.Photo) error {
	_, err := f.stores.Likes.SetActive(ctx, user.ID, photo.ID, true)
	return err
}

// LikeComment activates a like from user on comment.
func (f *Factory) LikeComment(ctx context.Context, user *models.User, comment *models.Comment) error {
	_, err := f.stores.CommentLikes.SetActive(ctx, user.ID, comment.ID, true)
	return err
}

// Follow makes follower actively follow following.
func (f *Factory) Follow(ctx context.Context, follower, following *models.User) error {
	if follower.ID == following.ID {
		return nil
	}
	_, err := f.stores.Follows.SetActive(ctx, follower.ID, following.ID, true)
	return err
}
