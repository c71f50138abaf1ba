package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord is the consolidated representation of one client's query.
type SearchRecord struct {
	ID        uuid.UUID `json:"id"`
	Term      string    `json:"term"`
	OriginKey string    `json:"-"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	// Seq orders records written at the same instant; later writes win.
	Seq int64 `json:"-"`
}

// NewerThan reports whether r sorts before other in recency order.
func (r *SearchRecord) NewerThan(other *SearchRecord) bool {
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.After(other.CreatedAt)
	}
	return r.Seq > other.Seq
}

// Ingestion outcome constants
const (
	OutcomeMerged         = "merged"
	OutcomeCreated        = "created"
	OutcomePrefixReplaced = "prefix_replaced"
	OutcomeRepeated       = "repeated"
)
