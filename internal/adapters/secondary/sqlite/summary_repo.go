package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

const (
	driverName   = "sqlite"
	dialect      = "sqlite3"
	summaryTable = "Summary"

	// rows per INSERT statement, well below SQLite's bound-variable limit
	insertBatchRows = 200
)

var pointingColumns = []interface{}{
	"obsHistID", "fieldRA", "fieldDec", "filter", "expMJD",
	"airmass", "FWHMeff", "fiveSigmaDepth", "filtSkyBrightness", "night",
}

type databases struct{}

// NewDatabases opens OpSim SQLite files.
func NewDatabases() ports.SummaryDatabases {
	return databases{}
}

func (databases) Open(ctx context.Context, path string) (ports.SummaryRepository, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat opsim database: %w", err)
	}
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open opsim database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping opsim database: %w", err)
	}
	return &summaryRepo{db: db, path: path}, nil
}

// Copy writes a compacted copy of src to dst. dst must not exist.
func (databases) Copy(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("copy %s: %s already exists", src, dst)
	}
	db, err := sqlx.Open(driverName, src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// Remove deletes a database file and any journal SQLite left next to it.
// A missing file is not an error.
func (databases) Remove(ctx context.Context, path string) error {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

type summaryRepo struct {
	db   *sqlx.DB
	path string
}

func (r *summaryRepo) Close() error {
	return r.db.Close()
}

func (r *summaryRepo) ListPointings(ctx context.Context, filter ports.PointingFilter) ([]domain.Pointing, error) {
	stmt := goqu.Dialect(dialect).
		From(summaryTable).
		Select(pointingColumns...).
		GroupBy(domain.IndexColumn).
		Order(goqu.I(domain.IndexColumn).Asc())

	if len(filter.Filters) > 0 {
		stmt = stmt.Where(goqu.Ex{"filter": filter.Filters})
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(uint(filter.Offset))
	}

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pointings query: %w", err)
	}

	var pointings []domain.Pointing
	if err := sqlx.SelectContext(ctx, r.db, &pointings, query, args...); err != nil {
		return nil, fmt.Errorf("select pointings: %w", err)
	}
	return pointings, nil
}

func (r *summaryRepo) Columns(ctx context.Context) ([]string, error) {
	var cols []string
	if err := r.db.SelectContext(ctx, &cols, "SELECT name FROM pragma_table_info(?)", summaryTable); err != nil {
		return nil, fmt.Errorf("read summary schema: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrSummaryNotFound, r.path)
	}
	return cols, nil
}

func (r *summaryRepo) ReadSummary(ctx context.Context) (*domain.SummaryTable, error) {
	if _, err := r.Columns(ctx); err != nil {
		return nil, err
	}

	query, _, err := goqu.Dialect(dialect).From(summaryTable).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build summary query: %w", err)
	}
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select summary: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("summary columns: %w", err)
	}
	table := &domain.SummaryTable{Columns: cols}
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return table, nil
}

func (r *summaryRepo) ClearSummary(ctx context.Context) error {
	query, _, err := goqu.Dialect(dialect).Delete(summaryTable).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete summary rows: %w", err)
	}
	return nil
}

// AppendSummary inserts the rows of table, keeping only the columns that
// exist in the target Summary schema.
func (r *summaryRepo) AppendSummary(ctx context.Context, table *domain.SummaryTable) (int, error) {
	schema, err := r.Columns(ctx)
	if err != nil {
		return 0, err
	}
	inSchema := make(map[string]bool, len(schema))
	for _, c := range schema {
		inSchema[c] = true
	}

	var cols []interface{}
	var keep []int
	var dropped []string
	for i, c := range table.Columns {
		if inSchema[c] {
			cols = append(cols, c)
			keep = append(keep, i)
		} else {
			dropped = append(dropped, c)
		}
	}
	if len(dropped) > 0 {
		log.WithField("columns", dropped).Warn("columns not in Summary schema are not written")
	}
	if len(cols) == 0 || len(table.Rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	written := 0
	for start := 0; start < len(table.Rows); start += insertBatchRows {
		end := min(start+insertBatchRows, len(table.Rows))
		vals := make([][]interface{}, 0, end-start)
		for _, row := range table.Rows[start:end] {
			v := make([]interface{}, len(keep))
			for j, idx := range keep {
				v[j] = row[idx]
			}
			vals = append(vals, v)
		}

		query, args, err := goqu.Dialect(dialect).
			Insert(summaryTable).
			Cols(cols...).
			Vals(vals...).
			Prepared(true).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert summary rows: %w", err)
		}
		written += len(vals)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return written, nil
}
