package terms

import (
	"context"
	"fmt"
	"slices"

	"searchlog/internal/metrics"
	"searchlog/internal/models"
	"searchlog/internal/validation"
)

const viewMostFrequentGlobal = "most_frequent_global"

// MostFrequentGlobal returns the most searched records across all origins.
// The result may be up to GlobalCacheTTL stale.
func (s *Service) MostFrequentGlobal(ctx context.Context) ([]models.SearchRecord, error) {
	records, hit, err := s.global.Get(ctx, func(ctx context.Context) ([]models.SearchRecord, error) {
		return s.repo.TopByCount(ctx, "", ViewLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load most frequent searches: %w", err)
	}
	metrics.RecordCache(viewMostFrequentGlobal, hit)
	return slices.Clone(records), nil
}

// MostFrequentByOrigin returns an origin's most searched records.
func (s *Service) MostFrequentByOrigin(ctx context.Context, originKey string) ([]models.SearchRecord, error) {
	records, err := s.repo.TopByCount(ctx, originKey, ViewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequent searches: %w", err)
	}
	return records, nil
}

// MostRecentByOrigin returns an origin's newest records.
func (s *Service) MostRecentByOrigin(ctx context.Context, originKey string) ([]models.SearchRecord, error) {
	records, err := s.repo.RecentByOrigin(ctx, originKey, ViewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent searches: %w", err)
	}
	return records, nil
}

// Suggestions returns records whose term contains term, ignoring case,
// newest first and capped at the policy's SuggestionLimit. A blank term
// yields no suggestions and no error.
func (s *Service) Suggestions(ctx context.Context, term string) ([]models.SearchRecord, error) {
	term = validation.NormalizeTerm(term)
	if term == "" {
		return nil, nil
	}
	records, err := s.repo.Search(ctx, term, s.policy.SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}
	return records, nil
}

// RecordCount returns the number of stored records.
func (s *Service) RecordCount(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
