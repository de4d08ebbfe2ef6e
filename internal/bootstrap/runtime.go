// Package bootstrap wires configuration into live runtime dependencies:
// the storage backend, Redis, and optional development seeding.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"aperture/internal/cache"
	"aperture/internal/config"
	"aperture/internal/database"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/repository/memstore"
	"aperture/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// Runtime holds the initialized dependencies the server runs on. DB is nil
// when the in-memory backend is selected.
type Runtime struct {
	Stores *repository.Stores
	DB     *gorm.DB
	Redis  *redis.Client
}

// InitRuntime builds the storage backend selected by STORAGE_BACKEND,
// connects Redis, and optionally seeds demo data.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	// Init Redis first; a nil client degrades caching, it never blocks boot.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if cfg.IsMemoryBackend() {
		log.Printf("using in-memory storage backend; all state is lost on shutdown")
		stores := memstore.NewStores(memstore.New())
		if opts.SeedDemoData {
			if err := seed.Demo(ctx, stores); err != nil {
				return nil, fmt.Errorf("failed to seed demo data: %w", err)
			}
		}
		return &Runtime{Stores: stores, Redis: r}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("schema setup failed: %w", err)
	}

	if err := ensureDevRootAdmin(cfg, db); err != nil {
		return nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	stores := repository.NewGormStores(db)
	if opts.SeedDemoData {
		if err := seed.Demo(ctx, stores); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return &Runtime{Stores: stores, DB: db, Redis: r}, nil
}

func ensureDevRootAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "aperture_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@aperture.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:       1,
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				IsAdmin:  true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"is_admin": true}
			if cfg.DevRootForceCredentials {
				updates["username"] = username
				updates["email"] = email
				updates["password"] = string(hashedPassword)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", 1).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Ensure users ID sequence is not behind explicit ID insertion.
		// This is PostgreSQL-specific.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return err
	}

	log.Printf("development root admin bootstrap ensured for user ID 1 (%s)", email)
	return nil
}
