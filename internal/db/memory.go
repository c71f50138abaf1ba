package db

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"searchlog/internal/models"
)

// Memory is an in-process search record store with the same query
// semantics as DB. It backs STORE=memory and the core test suites.
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.SearchRecord
	seq     int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[uuid.UUID]models.SearchRecord)}
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) nextSeq() int64 {
	m.seq++
	return m.seq
}

// byRecency sorts newest first, later writes winning ties.
func byRecency(a, b models.SearchRecord) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.Seq, a.Seq)
}

func byCount(a, b models.SearchRecord) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return byRecency(a, b)
}

// selectLocked filters, sorts and limits records. Caller holds mu.
func (m *Memory) selectLocked(keep func(models.SearchRecord) bool, order func(a, b models.SearchRecord) int, limit int) []models.SearchRecord {
	var out []models.SearchRecord
	for _, rec := range m.records {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, order)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *Memory) firstLocked(keep func(models.SearchRecord) bool) (*models.SearchRecord, error) {
	found := m.selectLocked(keep, byRecency, 1)
	if len(found) == 0 {
		return nil, ErrRecordNotFound
	}
	return &found[0], nil
}

// LatestByOrigin returns the most recently created record for an origin.
func (m *Memory) LatestByOrigin(_ context.Context, originKey string) (*models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.firstLocked(func(r models.SearchRecord) bool { return r.OriginKey == originKey })
}

// FindByTerm returns the record with exactly this term for an origin.
func (m *Memory) FindByTerm(_ context.Context, term, originKey string) (*models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.firstLocked(func(r models.SearchRecord) bool {
		return r.OriginKey == originKey && r.Term == term
	})
}

// FindPrefixOf returns the newest record for an origin whose term is a
// strict textual prefix of term.
func (m *Memory) FindPrefixOf(_ context.Context, term, originKey string) (*models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.firstLocked(func(r models.SearchRecord) bool {
		return r.OriginKey == originKey && r.Term != term && strings.HasPrefix(term, r.Term)
	})
}

// Create inserts a new search record, assigning its ID and sequence.
func (m *Memory) Create(_ context.Context, rec *models.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Count == 0 {
		rec.Count = 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Seq = m.nextSeq()
	m.records[rec.ID] = *rec
	return nil
}

// Merge overwrites a record's term, bumps its count and refreshes its
// creation time, moving it to the front of recency order.
func (m *Memory) Merge(_ context.Context, id uuid.UUID, term string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return ErrRecordNotFound
	}
	rec.Term = term
	rec.Count++
	rec.CreatedAt = at
	rec.Seq = m.nextSeq()
	m.records[id] = rec
	return nil
}

// IncrementCount increments the count for a record.
func (m *Memory) IncrementCount(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return ErrRecordNotFound
	}
	rec.Count++
	m.records[id] = rec
	return nil
}

// Delete permanently removes a record.
func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// All returns every record, oldest first.
func (m *Memory) All(context.Context) ([]models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.selectLocked(nil, byRecency, 0)
	slices.Reverse(out)
	return out, nil
}

// TopByCount returns the most searched records, newest first among equal
// counts. An empty originKey ranks across all origins.
func (m *Memory) TopByCount(_ context.Context, originKey string, limit int) ([]models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keep func(models.SearchRecord) bool
	if originKey != "" {
		keep = func(r models.SearchRecord) bool { return r.OriginKey == originKey }
	}
	return m.selectLocked(keep, byCount, limit), nil
}

// RecentByOrigin returns an origin's newest records.
func (m *Memory) RecentByOrigin(_ context.Context, originKey string, limit int) ([]models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectLocked(func(r models.SearchRecord) bool { return r.OriginKey == originKey }, byRecency, limit), nil
}

// Search returns records whose term contains needle, ignoring case.
func (m *Memory) Search(_ context.Context, needle string, limit int) ([]models.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle = strings.ToLower(needle)
	return m.selectLocked(func(r models.SearchRecord) bool {
		return strings.Contains(strings.ToLower(r.Term), needle)
	}, byRecency, limit), nil
}

// Count returns the number of stored records.
func (m *Memory) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}
