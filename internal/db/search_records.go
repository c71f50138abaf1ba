package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"searchlog/internal/models"
)

// recordColumns is the standard column list for search record queries.
const recordColumns = `id, term, origin_key, count, created_at, seq`

// recencyOrder sorts newest first, later writes winning ties.
const recencyOrder = `created_at DESC, seq DESC`

// scanRecord scans a row into a SearchRecord.
func scanRecord(row pgx.Row) (*models.SearchRecord, error) {
	var rec models.SearchRecord
	err := row.Scan(
		&rec.ID,
		&rec.Term,
		&rec.OriginKey,
		&rec.Count,
		&rec.CreatedAt,
		&rec.Seq,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// scanRecords scans multiple rows into a slice of SearchRecords.
func scanRecords(rows pgx.Rows) ([]models.SearchRecord, error) {
	defer rows.Close()

	var records []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Term,
			&rec.OriginKey,
			&rec.Count,
			&rec.CreatedAt,
			&rec.Seq,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LatestByOrigin returns the most recently created record for an origin.
func (d *DB) LatestByOrigin(ctx context.Context, originKey string) (*models.SearchRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM search_records
		WHERE origin_key = $1
		ORDER BY ` + recencyOrder + `
		LIMIT 1
	`
	return scanRecord(d.Pool.QueryRow(ctx, query, originKey))
}

// FindByTerm returns the record with exactly this term for an origin.
func (d *DB) FindByTerm(ctx context.Context, term, originKey string) (*models.SearchRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM search_records
		WHERE term = $1 AND origin_key = $2
		ORDER BY ` + recencyOrder + `
		LIMIT 1
	`
	return scanRecord(d.Pool.QueryRow(ctx, query, term, originKey))
}

// FindPrefixOf returns the newest record for an origin whose term is a
// strict textual prefix of term.
func (d *DB) FindPrefixOf(ctx context.Context, term, originKey string) (*models.SearchRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM search_records
		WHERE origin_key = $2 AND term <> $1 AND starts_with($1, term)
		ORDER BY ` + recencyOrder + `
		LIMIT 1
	`
	return scanRecord(d.Pool.QueryRow(ctx, query, term, originKey))
}

// Create inserts a new search record, assigning its ID and sequence.
func (d *DB) Create(ctx context.Context, rec *models.SearchRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Count == 0 {
		rec.Count = 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO search_records (id, term, origin_key, count, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq
	`
	return d.Pool.QueryRow(ctx, query,
		rec.ID,
		rec.Term,
		rec.OriginKey,
		rec.Count,
		rec.CreatedAt,
	).Scan(&rec.Seq)
}

// Merge overwrites a record's term, bumps its count and refreshes its
// creation time, moving it to the front of recency order.
func (d *DB) Merge(ctx context.Context, id uuid.UUID, term string, at time.Time) error {
	query := `
		UPDATE search_records
		SET term = $2, count = count + 1, created_at = $3, seq = nextval('search_records_seq')
		WHERE id = $1
	`
	result, err := d.Pool.Exec(ctx, query, id, term, at)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// IncrementCount increments the count for a record.
func (d *DB) IncrementCount(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `UPDATE search_records SET count = count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete permanently removes a record.
func (d *DB) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM search_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// All returns every record, oldest first.
func (d *DB) All(ctx context.Context) ([]models.SearchRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM search_records ORDER BY created_at ASC, seq ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// TopByCount returns the most searched records, newest first among equal
// counts. An empty originKey ranks across all origins.
func (d *DB) TopByCount(ctx context.Context, originKey string, limit int) ([]models.SearchRecord, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if originKey == "" {
		rows, err = d.Pool.Query(ctx, `
			SELECT `+recordColumns+`
			FROM search_records
			ORDER BY count DESC, `+recencyOrder+`
			LIMIT $1
		`, limit)
	} else {
		rows, err = d.Pool.Query(ctx, `
			SELECT `+recordColumns+`
			FROM search_records
			WHERE origin_key = $1
			ORDER BY count DESC, `+recencyOrder+`
			LIMIT $2
		`, originKey, limit)
	}
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// RecentByOrigin returns an origin's newest records.
func (d *DB) RecentByOrigin(ctx context.Context, originKey string, limit int) ([]models.SearchRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM search_records
		WHERE origin_key = $1
		ORDER BY ` + recencyOrder + `
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, originKey, limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// Search returns records whose term contains needle, ignoring case.
// strpos avoids having to escape LIKE wildcards in user input.
func (d *DB) Search(ctx context.Context, needle string, limit int) ([]models.SearchRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM search_records
		WHERE strpos(lower(term), $1) > 0
		ORDER BY ` + recencyOrder + `
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, strings.ToLower(needle), limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// Count returns the number of stored records.
func (d *DB) Count(ctx context.Context) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM search_records`).Scan(&n)
	return n, err
}
