package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"searchlog/internal/config"
	"searchlog/internal/db"
	"searchlog/internal/terms"
)

// OpenStore connects the configured search store, migrating Postgres and
// seeding an empty store with sample data in development when asked. The
// returned close func releases the store.
func OpenStore(ctx context.Context, cfg *config.Config) (terms.Repository, func(), error) {
	var (
		repo    terms.Repository
		closeFn = func() {}
	)

	switch cfg.Store {
	case config.StoreMemory:
		log.Println("Using in-memory search store; records are lost on restart")
		repo = db.NewMemory()
	case config.StorePostgres, "":
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("Migrations completed successfully")
		repo = database
		closeFn = database.Close
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.IsDev() && cfg.SeedDevData {
		if n, err := repo.Count(ctx); err != nil || n > 0 {
			return repo, closeFn, nil
		}
		if err := db.SeedDevSearches(ctx, repo, time.Now()); err != nil {
			log.Printf("Warning: failed to seed dev searches: %v", err)
		} else {
			log.Println("Seeded dev searches")
		}
	}

	return repo, closeFn, nil
}
