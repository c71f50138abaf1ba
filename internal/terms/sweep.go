package terms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"searchlog/internal/db"
	"searchlog/internal/metrics"
	"searchlog/internal/models"
)

// SweepResult summarizes one consolidation pass.
type SweepResult struct {
	// Anchor is the record the pass compared against; nil when the store
	// was empty.
	Anchor   *models.SearchRecord `json:"anchor"`
	Examined int                  `json:"examined"`
	Deleted  int                  `json:"deleted"`
	Failed   int                  `json:"failed"`
}

// Consolidate removes every record subsumed by the globally newest record.
// It is safe to call at any time and converges: a second call with no
// intervening writes deletes nothing.
func (s *Service) Consolidate(ctx context.Context) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consolidate(ctx)
}

// consolidate runs one sweep. Caller holds mu.
func (s *Service) consolidate(ctx context.Context) (SweepResult, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list searches: %w", err)
	}

	anchor := Anchor(records)
	if anchor == nil {
		return SweepResult{}, nil
	}

	result := SweepResult{Anchor: anchor, Examined: len(records) - 1}
	for _, id := range Subsumed(*anchor, records) {
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, db.ErrRecordNotFound) {
				continue
			}
			result.Failed++
			slog.Warn("failed to delete subsumed search", "id", id, "anchor", anchor.ID, "error", err)
			continue
		}
		result.Deleted++
	}

	metrics.RecordSweep(result.Deleted, result.Failed)
	return result, nil
}

// Anchor returns the newest record in records, or nil if there are none.
func Anchor(records []models.SearchRecord) *models.SearchRecord {
	var anchor *models.SearchRecord
	for i := range records {
		if anchor == nil || records[i].NewerThan(anchor) {
			anchor = &records[i]
		}
	}
	if anchor == nil {
		return nil
	}
	a := *anchor
	return &a
}

// Subsumed returns the IDs of records, other than anchor itself, whose every
// word is a prefix of some word in the anchor's term. Word order and origin
// are ignored. Records with no words are never subsumed.
func Subsumed(anchor models.SearchRecord, records []models.SearchRecord) []uuid.UUID {
	anchorWords := strings.Fields(anchor.Term)

	var ids []uuid.UUID
	for _, rec := range records {
		if rec.ID == anchor.ID || rec.Term == "" {
			continue
		}
		if coveredBy(strings.Fields(rec.Term), anchorWords) {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// coveredBy reports whether words is non-empty and each word prefixes at
// least one of targets.
func coveredBy(words, targets []string) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		found := false
		for _, t := range targets {
			if strings.HasPrefix(t, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
