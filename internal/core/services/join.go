package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

type JoinOptions struct {
	Source  string
	Dest    string
	RunID   uuid.UUID
	Mapping domain.ColumnMapping
}

// JoinService writes recalculated values back into a copy of an OpSim
// database.
type JoinService struct {
	databases ports.SummaryDatabases
	results   ports.ResultRepository
}

func NewJoinService(databases ports.SummaryDatabases, results ports.ResultRepository) *JoinService {
	return &JoinService{databases: databases, results: results}
}

// Join copies opts.Source to opts.Dest and replaces the Summary rows of the
// copy with the source rows left-joined with the results of opts.RunID.
// The summary and results are joined before the copy is made; when writing
// the copy fails it is removed, so a failed join leaves no Dest behind.
func (s *JoinService) Join(ctx context.Context, opts JoinOptions) (domain.JoinStats, error) {
	if opts.RunID == uuid.Nil {
		return domain.JoinStats{}, domain.ErrInvalidRunID
	}
	mapping := opts.Mapping
	if len(mapping) == 0 {
		mapping = domain.DefaultColumnMapping()
	}

	run, err := s.results.GetRun(ctx, opts.RunID)
	if err != nil {
		return domain.JoinStats{}, err
	}
	if run.Status != domain.RunStatusSucceeded {
		log.WithFields(log.Fields{"run_id": run.ID, "status": run.Status}).Warn("joining results of an unfinished run")
	}

	step := time.Now()
	summary, err := s.readSummary(ctx, opts.Source)
	if err != nil {
		return domain.JoinStats{}, err
	}
	results, err := s.results.ListResults(ctx, opts.RunID)
	if err != nil {
		return domain.JoinStats{}, fmt.Errorf("list results: %w", err)
	}
	log.WithFields(log.Fields{
		"rows":    len(summary.Rows),
		"results": len(results),
		"elapsed": time.Since(step).String(),
	}).Info("read summary and results")

	step = time.Now()
	joined, stats, err := domain.JoinResults(summary, results, mapping)
	if err != nil {
		return domain.JoinStats{}, fmt.Errorf("join results: %w", err)
	}
	log.WithFields(log.Fields{
		"matched":   stats.Matched,
		"unmatched": stats.Unmatched,
		"elapsed":   time.Since(step).String(),
	}).Info("joined tables")

	step = time.Now()
	if err := s.databases.Copy(ctx, opts.Source, opts.Dest); err != nil {
		return domain.JoinStats{}, fmt.Errorf("copy database: %w", err)
	}
	log.WithField("elapsed", time.Since(step).String()).Info("copied database")

	step = time.Now()
	written, err := s.writeSummary(ctx, opts.Dest, joined)
	if err != nil {
		if rmErr := s.databases.Remove(context.WithoutCancel(ctx), opts.Dest); rmErr != nil {
			log.WithError(rmErr).WithField("dest", opts.Dest).Error("remove partial database failed")
		}
		return domain.JoinStats{}, err
	}
	log.WithFields(log.Fields{
		"rows":    written,
		"dest":    opts.Dest,
		"elapsed": time.Since(step).String(),
	}).Info("wrote joined Summary table")

	return stats, nil
}

func (s *JoinService) writeSummary(ctx context.Context, path string, joined *domain.SummaryTable) (int, error) {
	dst, err := s.databases.Open(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer dst.Close()

	if err := dst.ClearSummary(ctx); err != nil {
		return 0, fmt.Errorf("clear summary: %w", err)
	}
	written, err := dst.AppendSummary(ctx, joined)
	if err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}
	return written, nil
}

func (s *JoinService) readSummary(ctx context.Context, path string) (*domain.SummaryTable, error) {
	src, err := s.databases.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	summary, err := src.ReadSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	return summary, nil
}
