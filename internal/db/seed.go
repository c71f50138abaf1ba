package db

import (
	"context"
	"fmt"
	"time"

	"searchlog/internal/models"
)

// Creator is the subset of a record store needed for seeding.
type Creator interface {
	Create(ctx context.Context, rec *models.SearchRecord) error
}

// SeedDevSearches inserts sample search history for development. Records are
// backdated so they fall outside any merge window.
func SeedDevSearches(ctx context.Context, store Creator, now time.Time) error {
	searches := []struct {
		term   string
		origin string
		count  int64
		age    time.Duration
	}{
		{"golang generics", "127.0.0.1", 4, 3 * time.Hour},
		{"postgres index types", "127.0.0.1", 2, 2 * time.Hour},
		{"fiber middleware", "10.0.0.7", 3, 90 * time.Minute},
		{"levenshtein distance", "10.0.0.7", 1, time.Hour},
		{"prometheus histogram buckets", "192.168.1.20", 5, 30 * time.Minute},
	}

	for _, s := range searches {
		rec := &models.SearchRecord{
			Term:      s.term,
			OriginKey: s.origin,
			Count:     s.count,
			CreatedAt: now.Add(-s.age),
		}
		if err := store.Create(ctx, rec); err != nil {
			return fmt.Errorf("failed to seed search %q: %w", s.term, err)
		}
	}

	return nil
}
