package jobs

import (
	"context"
	"log"
	"time"

	"searchlog/internal/terms"
)

// Sweeper runs one consolidation pass.
type Sweeper interface {
	Consolidate(ctx context.Context) (terms.SweepResult, error)
}

// Consolidator periodically consolidates search records in the background.
// Ingestion already sweeps after every write; this catches records left
// behind by failed deletes or by writers that bypass the service.
type Consolidator struct {
	sweeper  Sweeper
	interval time.Duration
}

// NewConsolidator creates a new consolidator.
func NewConsolidator(sweeper Sweeper, interval time.Duration) *Consolidator {
	return &Consolidator{
		sweeper:  sweeper,
		interval: interval,
	}
}

// Start begins the background consolidation loop. It returns when ctx is
// cancelled.
func (j *Consolidator) Start(ctx context.Context) {
	log.Printf("Consolidator started (interval: %v)", j.interval)

	// Run immediately on start
	j.runOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Consolidator stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

// runOnce performs a single sweep and logs the outcome.
func (j *Consolidator) runOnce(ctx context.Context) {
	result, err := j.sweeper.Consolidate(ctx)
	if err != nil {
		log.Printf("Consolidator: sweep failed: %v", err)
		return
	}

	if result.Deleted == 0 && result.Failed == 0 {
		return
	}

	log.Printf("Consolidator: removed %d searches (%d failed)", result.Deleted, result.Failed)
}
