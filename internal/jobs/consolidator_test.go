package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"searchlog/internal/db"
	"searchlog/internal/models"
	"searchlog/internal/terms"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls int
	err   error
	ran   chan struct{}
}

func (s *countingSweeper) Consolidate(context.Context) (terms.SweepResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	select {
	case s.ran <- struct{}{}:
	default:
	}
	return terms.SweepResult{Deleted: 1}, s.err
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestConsolidator_RunsImmediatelyAndOnTick(t *testing.T) {
	sweeper := &countingSweeper{ran: make(chan struct{}, 8)}
	job := NewConsolidator(sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-sweeper.ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweep %d did not run", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	if got := sweeper.count(); got < 3 {
		t.Errorf("sweeps = %d, want at least 3", got)
	}
}

func TestConsolidator_ContinuesAfterError(t *testing.T) {
	sweeper := &countingSweeper{ran: make(chan struct{}, 8), err: errors.New("db down")}
	job := NewConsolidator(sweeper, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go job.Start(ctx)

	for i := 0; i < 2; i++ {
		select {
		case <-sweeper.ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweep %d did not run after a failure", i+1)
		}
	}
}

func TestConsolidator_RemovesSubsumedRecords(t *testing.T) {
	repo := db.NewMemory()
	ctx := context.Background()
	now := time.Now()

	// Written directly, bypassing the service's sweep after ingest.
	for _, rec := range []*models.SearchRecord{
		{Term: "docker", OriginKey: "a", Count: 1, CreatedAt: now.Add(-time.Hour)},
		{Term: "docker compose", OriginKey: "b", Count: 1, CreatedAt: now},
	} {
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	job := NewConsolidator(terms.NewService(repo, terms.DefaultPolicy()), time.Hour)
	job.runOnce(ctx)

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Term != "docker compose" {
		t.Errorf("records after sweep = %+v, want only docker compose", all)
	}
}
