package seed

import (
	"context"
	"fmt"

	"aperture/internal/middleware"
	"aperture/internal/models"
	"aperture/internal/repository"
)

// Options configure a seeding run.
type Options struct {
	// NumUsers is the number of random users to create on top of the
	// preset accounts.
	NumUsers int
	// PhotosPerUser caps how many photos each random user uploads.
	PhotosPerUser int
	// RandSeed fixes the random stream; zero picks one.
	RandSeed int64
	// SkipBcrypt stores the demo password in plain text, which makes
	// large runs much faster. Never use outside local development.
	SkipBcrypt bool
}

// DefaultOptions is what Demo runs with.
var DefaultOptions = Options{
	NumUsers:      12,
	PhotosPerUser: 4,
}

// Demo seeds the built-in preset plus a small random population. Dev
// bootstrap runs this when demo data is requested.
func Demo(ctx context.Context, stores *repository.Stores) error {
	return Run(ctx, stores, DefaultOptions)
}

// Run seeds the stores with the built-in preset followed by opts.NumUsers
// random accounts, then wires a social mesh of follows, likes, and
// comments between everyone.
func Run(ctx context.Context, stores *repository.Stores, opts Options) error {
	f := NewFactory(stores, opts)

	preset, err := DemoPreset()
	if err != nil {
		return err
	}

	users, err := applyPreset(ctx, f, preset)
	if err != nil {
		return err
	}

	randomUsers, photos, err := createPopulation(ctx, f, opts)
	if err != nil {
		return err
	}
	users = append(users, randomUsers...)

	if err := weaveSocialMesh(ctx, f, users, photos); err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "demo data seeded",
		"users", len(users),
		"photos", len(photos),
	)
	return nil
}

// applyPreset creates the named accounts and their photos. Existing
// accounts are reused so repeated boots do not duplicate the preset.
func applyPreset(ctx context.Context, f *Factory, preset *Preset) ([]*models.User, error) {
	byName := make(map[string]*models.User, len(preset.Users))
	users := make([]*models.User, 0, len(preset.Users))

	for _, pu := range preset.Users {
		existing, err := f.stores.Users.GetByUsername(ctx, pu.Username)
		if err != nil {
			return nil, fmt.Errorf("seed preset user %q: %w", pu.Username, err)
		}
		if existing != nil {
			byName[pu.Username] = existing
			users = append(users, existing)
			continue
		}

		spec := pu
		user, err := f.CreateUser(ctx, func(u *models.User) {
			u.Username = spec.Username
			u.Email = spec.Email
			u.DisplayName = spec.DisplayName
			u.Bio = spec.Bio
		})
		if err != nil {
			return nil, fmt.Errorf("seed preset user %q: %w", pu.Username, err)
		}
		byName[pu.Username] = user
		users = append(users, user)

		for _, pp := range pu.Photos {
			photoSpec := pp
			if _, err := f.CreatePhoto(ctx, user, func(p *models.Photo) {
				p.ImageURL = photoSpec.ImageURL
				p.Caption = photoSpec.Caption
			}); err != nil {
				return nil, fmt.Errorf("seed preset photo for %q: %w", pu.Username, err)
			}
		}
	}

	for _, pf := range preset.Follows {
		if err := f.Follow(ctx, byName[pf.Follower], byName[pf.Following]); err != nil {
			return nil, fmt.Errorf("seed preset follow %s -> %s: %w", pf.Follower, pf.Following, err)
		}
	}

	return users, nil
}

func createPopulation(ctx context.Context, f *Factory, opts Options) ([]*models.User, []*models.Photo, error) {
	users := make([]*models.User, 0, opts.NumUsers)
	var photos []*models.Photo

	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("seed random user: %w", err)
		}
		users = append(users, user)

		perUser := 1
		if opts.PhotosPerUser > 1 {
			perUser = f.rng.Intn(opts.PhotosPerUser) + 1
		}
		for j := 0; j < perUser; j++ {
			photo, err := f.CreatePhoto(ctx, user)
			if err != nil {
				return nil, nil, fmt.Errorf("seed photo for %q: %w", user.Username, err)
			}
			photos = append(photos, photo)
		}
	}

	return users, photos, nil
}

// weaveSocialMesh connects the population: each user follows a few
// others and likes and comments on a sample of photos. All of it goes
// through the toggle repositories so every counter stays honest.
func weaveSocialMesh(ctx context.Context, f *Factory, users []*models.User, photos []*models.Photo) error {
	if len(users) < 2 || len(photos) == 0 {
		return nil
	}

	for _, user := range users {
		nFollows := f.rng.Intn(4) + 1
		for i := 0; i < nFollows; i++ {
			target := users[f.rng.Intn(len(users))]
			if err := f.Follow(ctx, user, target); err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
		}

		nLikes := f.rng.Intn(6) + 2
		for i := 0; i < nLikes; i++ {
			photo := photos[f.rng.Intn(len(photos))]
			if err := f.Like(ctx, user, photo); err != nil {
				return fmt.Errorf("seed like: %w", err)
			}
		}

		if f.rng.Intn(2) == 0 {
			photo := photos[f.rng.Intn(len(photos))]
			comment, err := f.CreateComment(ctx, user, photo)
			if err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
			if f.rng.Intn(3) == 0 {
				liker := users[f.rng.Intn(len(users))]
				if err := f.LikeComment(ctx, liker, comment); err != nil {
					return fmt.Errorf("seed comment like: %w", err)
				}
			}
		}
	}

	return nil
}
