package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS recalc_run (
	id          UUID PRIMARY KEY,
	source      TEXT NOT NULL,
	status      TEXT NOT NULL,
	partitions  INTEGER NOT NULL,
	rows        INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS recalc_result (
	run_id           UUID NOT NULL REFERENCES recalc_run(id) ON DELETE CASCADE,
	partition        INTEGER NOT NULL,
	obs_hist_id      BIGINT NOT NULL,
	filter           TEXT NOT NULL,
	airmass          DOUBLE PRECISION,
	five_sigma_depth DOUBLE PRECISION,
	field_m5         DOUBLE PRECISION,
	sky_mag          DOUBLE PRECISION,
	skipped          BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (run_id, obs_hist_id)
);

CREATE INDEX IF NOT EXISTS recalc_result_partition_idx ON recalc_result (run_id, partition);
`

// EnsureSchema creates the result tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create result schema: %w", err)
	}
	return nil
}

// nullable maps NaN to SQL NULL.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fromNullable(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
