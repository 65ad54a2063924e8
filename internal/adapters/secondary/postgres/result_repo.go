package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

type resultRepo struct {
	pool *pgxpool.Pool
}

// NewResultRepository stores recalculation runs and their results in
// PostgreSQL.
func NewResultRepository(pool *pgxpool.Pool) ports.ResultRepository {
	return &resultRepo{pool: pool}
}

// ============================================================================
// Runs
// ============================================================================

func (r *resultRepo) CreateRun(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO recalc_run (id, source, status, partitions, rows, skipped, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.Source, string(run.Status), run.Partitions,
		run.Rows, run.Skipped, run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recalc_run: %w", err)
	}
	return nil
}

func (r *resultRepo) UpdateRun(ctx context.Context, run *domain.Run) error {
	query := `
		UPDATE recalc_run
		SET status = $1, rows = $2, skipped = $3, error = $4, finished_at = $5
		WHERE id = $6
	`
	result, err := r.pool.Exec(ctx, query,
		string(run.Status), run.Rows, run.Skipped, run.Error, run.FinishedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update recalc_run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *resultRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `
		SELECT id, source, status, partitions, rows, skipped, error, started_at, finished_at
		FROM recalc_run
		WHERE id = $1
	`
	var run domain.Run
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Source, &status, &run.Partitions,
		&run.Rows, &run.Skipped, &run.Error, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get recalc_run: %w", err)
	}
	run.Status = domain.RunStatus(status)
	return &run, nil
}

// ============================================================================
// Results
// ============================================================================

// SavePartition replaces the stored results of one partition.
func (r *resultRepo) SavePartition(ctx context.Context, runID uuid.UUID, partition int, results []domain.PointingResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save partition: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recalc_result WHERE run_id = $1 AND partition = $2`, runID, partition); err != nil {
		return fmt.Errorf("delete partition results: %w", err)
	}

	rows := make([][]interface{}, len(results))
	for i, res := range results {
		rows[i] = []interface{}{
			runID, partition, res.ObsHistID, res.Filter,
			nullable(res.Airmass), nullable(res.FiveSigmaDepth),
			nullable(res.FieldM5), nullable(res.SkyMag), res.Skipped,
		}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"recalc_result"},
		[]string{"run_id", "partition", "obs_hist_id", "filter", "airmass", "five_sigma_depth", "field_m5", "sky_mag", "skipped"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy partition results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit partition results: %w", err)
	}
	return nil
}

func (r *resultRepo) ListResults(ctx context.Context, runID uuid.UUID) ([]domain.PointingResult, error) {
	if _, err := r.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	query := `
		SELECT obs_hist_id, filter, airmass, five_sigma_depth, field_m5, sky_mag, skipped
		FROM recalc_result
		WHERE run_id = $1
		ORDER BY partition, obs_hist_id
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list recalc_result: %w", err)
	}
	defer rows.Close()

	var results []domain.PointingResult
	for rows.Next() {
		var res domain.PointingResult
		var airmass, depth, m5, sky *float64
		if err := rows.Scan(&res.ObsHistID, &res.Filter, &airmass, &depth, &m5, &sky, &res.Skipped); err != nil {
			return nil, fmt.Errorf("scan recalc_result: %w", err)
		}
		res.Airmass = fromNullable(airmass)
		res.FiveSigmaDepth = fromNullable(depth)
		res.FieldM5 = fromNullable(m5)
		res.SkyMag = fromNullable(sky)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recalc_result: %w", err)
	}
	return results, nil
}
