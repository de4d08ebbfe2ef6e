// Command main populates the configured storage backend with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"aperture/internal/bootstrap"
	"aperture/internal/config"
	"aperture/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of random users to create")
	photosPerUser := flag.Int("photos", 4, "Max photos per random user")
	randSeed := flag.Int64("seed", 0, "Random seed; 0 picks one")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plain-text demo passwords (dev only, much faster)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production environment")
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	opts := seed.Options{
		NumUsers:      *numUsers,
		PhotosPerUser: *photosPerUser,
		RandSeed:      *randSeed,
		SkipBcrypt:    *skipBcrypt,
	}
	if err := seed.Run(ctx, rt.Stores, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d random users on top of the preset accounts.", *numUsers)
	log.Println("All seeded accounts share the demo password.")
}
