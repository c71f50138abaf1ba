package terms

import (
	"context"
	"time"

	"github.com/google/uuid"

	"searchlog/internal/models"
)

// Repository is the persistence collaborator behind the term store.
// Lookups that find nothing return db.ErrRecordNotFound.
//
// Implemented by *db.DB (Postgres) and *db.Memory.
type Repository interface {
	Ping(ctx context.Context) error

	LatestByOrigin(ctx context.Context, originKey string) (*models.SearchRecord, error)
	FindByTerm(ctx context.Context, term, originKey string) (*models.SearchRecord, error)
	FindPrefixOf(ctx context.Context, term, originKey string) (*models.SearchRecord, error)

	Create(ctx context.Context, rec *models.SearchRecord) error
	Merge(ctx context.Context, id uuid.UUID, term string, at time.Time) error
	IncrementCount(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	All(ctx context.Context) ([]models.SearchRecord, error)
	TopByCount(ctx context.Context, originKey string, limit int) ([]models.SearchRecord, error)
	RecentByOrigin(ctx context.Context, originKey string, limit int) ([]models.SearchRecord, error)
	Search(ctx context.Context, needle string, limit int) ([]models.SearchRecord, error)
	Count(ctx context.Context) (int64, error)
}
