// Package terms implements the search term store: online ingestion with
// merge and prefix deduplication, the global consolidation sweep, and the
// read views over consolidated records.
package terms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"searchlog/internal/cache"
	"searchlog/internal/db"
	"searchlog/internal/metrics"
	"searchlog/internal/models"
	"searchlog/internal/similarity"
)

// Service owns all search records.
//
// Writes (ingestion plus its sweep, or a standalone sweep) run one at a time
// under mu, so two ingestions for the same origin can never both merge or
// both create, and a sweep never sees a half-applied ingestion. Reads do not
// take mu.
type Service struct {
	repo   Repository
	policy Policy
	now    func() time.Time

	mu     sync.Mutex
	global *cache.Value[[]models.SearchRecord]
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source used for merge windows, record
// timestamps and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a term store over repo.
func NewService(repo Repository, policy Policy, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		policy: policy.withDefaults(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.global = cache.New[[]models.SearchRecord](s.policy.GlobalCacheTTL, s.now)
	return s
}

// Policy returns the effective policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// Ping checks the underlying repository.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// LogSearch records one search query from originKey and then consolidates
// the record set. term must already be normalized (trimmed, lower-cased).
//
// A failed consolidation is logged and does not fail the call.
func (s *Service) LogSearch(ctx context.Context, term, originKey string) error {
	if strings.TrimSpace(term) == "" {
		return ErrEmptyTerm
	}
	if strings.TrimSpace(originKey) == "" {
		return ErrEmptyOrigin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.ingest(ctx, term, originKey)
	if err != nil {
		return err
	}
	metrics.RecordIngest(outcome)

	if _, err := s.consolidate(ctx); err != nil {
		slog.Warn("consolidation after ingest failed", "origin", originKey, "error", err)
	}
	return nil
}

// ingest applies the merge, repeat or create path and reports which one ran.
// Caller holds mu.
func (s *Service) ingest(ctx context.Context, term, originKey string) (string, error) {
	now := s.now()

	latest, err := s.repo.LatestByOrigin(ctx, originKey)
	if err != nil && !errors.Is(err, db.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to load latest search: %w", err)
	}
	if latest != nil && s.refines(latest, term, now) {
		if err := s.repo.Merge(ctx, latest.ID, term, now); err != nil {
			return "", fmt.Errorf("failed to merge search: %w", err)
		}
		return models.OutcomeMerged, nil
	}

	existing, err := s.repo.FindByTerm(ctx, term, originKey)
	switch {
	case err == nil:
		if err := s.repo.IncrementCount(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("failed to increment search count: %w", err)
		}
		return models.OutcomeRepeated, nil
	case !errors.Is(err, db.ErrRecordNotFound):
		return "", fmt.Errorf("failed to find search: %w", err)
	}

	outcome := models.OutcomeCreated
	prefix, err := s.repo.FindPrefixOf(ctx, term, originKey)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, prefix.ID); err != nil && !errors.Is(err, db.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to delete superseded search: %w", err)
		}
		outcome = models.OutcomePrefixReplaced
	case !errors.Is(err, db.ErrRecordNotFound):
		return "", fmt.Errorf("failed to find prefix search: %w", err)
	}

	rec := &models.SearchRecord{
		Term:      term,
		OriginKey: originKey,
		Count:     1,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to create search: %w", err)
	}
	return outcome, nil
}

// refines reports whether term continues the query in latest: it arrives
// within the merge window and is a small edit away.
func (s *Service) refines(latest *models.SearchRecord, term string, now time.Time) bool {
	if now.Sub(latest.CreatedAt) > s.policy.MergeWindow {
		return false
	}
	return similarity.Within(latest.Term, term, s.policy.MaxMergeDistance)
}
