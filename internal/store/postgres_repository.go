package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL run repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save stores a finished run.
func (r *PostgresRepository) Save(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO catchment_runs (
			run_id, name, profile, distance, unit, buckets,
			point_count, feature_count, failed_count, outcome,
			result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Name,
		run.Profile,
		run.Distance,
		run.Unit,
		run.Buckets,
		run.PointCount,
		run.FeatureCount,
		run.FailedCount,
		run.Outcome,
		run.Result,
		run.CreatedAt,
	)
	return err
}

// Get retrieves a run by ID, including its result.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT
			run_id, name, profile, distance, unit, buckets,
			point_count, feature_count, failed_count, outcome,
			result, created_at
		FROM catchment_runs
		WHERE run_id = $1
	`

	run := &Run{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Name,
		&run.Profile,
		&run.Distance,
		&run.Unit,
		&run.Buckets,
		&run.PointCount,
		&run.FeatureCount,
		&run.FailedCount,
		&run.Outcome,
		&run.Result,
		&run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

// List returns run summaries (without results), newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Run, error) {
	query := `
		SELECT
			run_id, name, profile, distance, unit, buckets,
			point_count, feature_count, failed_count, outcome,
			created_at
		FROM catchment_runs
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID,
			&run.Name,
			&run.Profile,
			&run.Distance,
			&run.Unit,
			&run.Buckets,
			&run.PointCount,
			&run.FeatureCount,
			&run.FailedCount,
			&run.Outcome,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
