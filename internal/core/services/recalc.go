package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
	"obscond/internal/metrics"
)

const (
	DefaultPartitions    = 40
	DefaultProgressEvery = 1000
)

type RecalcOptions struct {
	Source        string
	Partitions    int
	Workers       int
	ProgressEvery int
	Filter        ports.PointingFilter
	Calc          CalcOptions
}

// RecalcService recomputes sky brightness and depth for every pointing of an
// OpSim database and stores the results per partition.
type RecalcService struct {
	databases ports.SummaryDatabases
	calc      *SkyCalculator
	results   ports.ResultRepository
}

func NewRecalcService(databases ports.SummaryDatabases, calc *SkyCalculator, results ports.ResultRepository) *RecalcService {
	return &RecalcService{databases: databases, calc: calc, results: results}
}

// ArraySplit divides items into parts contiguous chunks. The first
// len(items) % parts chunks hold one extra element; chunks may be empty when
// there are fewer items than parts.
func ArraySplit[T any](items []T, parts int) [][]T {
	if parts < 1 {
		return nil
	}
	base, extra := len(items)/parts, len(items)%parts
	out := make([][]T, parts)
	start := 0
	for i := range out {
		size := base
		if i < extra {
			size++
		}
		out[i] = items[start : start+size]
		start += size
	}
	return out
}

// Run reads the pointings of opts.Source and recalculates them. The returned
// run reflects the final status even when an error is returned.
func (s *RecalcService) Run(ctx context.Context, opts RecalcOptions) (*domain.Run, error) {
	if opts.Partitions < 1 {
		return nil, domain.ErrInvalidPartitions
	}
	if opts.Workers < 1 {
		return nil, domain.ErrInvalidWorkers
	}
	if opts.ProgressEvery < 1 {
		opts.ProgressEvery = DefaultProgressEvery
	}

	pointings, err := s.readPointings(ctx, opts)
	if err != nil {
		return nil, err
	}

	run := &domain.Run{
		ID:         uuid.New(),
		Source:     opts.Source,
		Status:     domain.RunStatusRunning,
		Partitions: opts.Partitions,
		Rows:       len(pointings),
		StartedAt:  time.Now(),
	}
	if err := s.results.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	parts := ArraySplit(pointings, opts.Partitions)
	log.WithFields(log.Fields{
		"run_id":     run.ID,
		"rows":       len(pointings),
		"partitions": len(parts),
		"rows_first": len(parts[0]),
		"workers":    opts.Workers,
	}).Info("splitting pointings")

	skipped := make([]int, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, part := range parts {
		g.Go(func() error {
			n, err := s.runPartition(gctx, run.ID, i, part, opts)
			skipped[i] = n
			return err
		})
	}
	runErr := g.Wait()

	for _, n := range skipped {
		run.Skipped += n
	}
	finished := time.Now()
	run.FinishedAt = &finished
	run.Status = domain.RunStatusSucceeded
	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = runErr.Error()
	}

	if err := s.results.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		log.WithError(err).WithField("run_id", run.ID).Error("update run status failed")
		if runErr == nil {
			runErr = fmt.Errorf("update run: %w", err)
		}
	}

	entry := log.WithFields(log.Fields{
		"run_id":  run.ID,
		"status":  run.Status,
		"skipped": run.Skipped,
		"elapsed": finished.Sub(run.StartedAt).String(),
	})
	if runErr != nil {
		entry.WithError(runErr).Error("recalculation failed")
		return run, runErr
	}
	entry.Info("recalculation finished")
	return run, nil
}

func (s *RecalcService) readPointings(ctx context.Context, opts RecalcOptions) ([]domain.Pointing, error) {
	start := time.Now()
	repo, err := s.databases.Open(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Source, err)
	}
	defer repo.Close()

	pointings, err := repo.ListPointings(ctx, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("read pointings: %w", err)
	}
	log.WithFields(log.Fields{
		"source":  opts.Source,
		"rows":    len(pointings),
		"elapsed": time.Since(start).String(),
	}).Info("read pointings")
	return pointings, nil
}

func (s *RecalcService) runPartition(ctx context.Context, runID uuid.UUID, idx int, part []domain.Pointing, opts RecalcOptions) (int, error) {
	start := time.Now()
	logger := log.WithFields(log.Fields{"run_id": runID, "partition": idx})
	logger.WithField("rows", len(part)).Debug("starting partition")

	results := make([]domain.PointingResult, 0, len(part))
	skipped := 0
	for i, p := range part {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		res, err := s.calc.Calculate(ctx, p, opts.Calc)
		if err != nil {
			return skipped, fmt.Errorf("partition %d: %w", idx, err)
		}
		if res.Skipped {
			skipped++
		}
		results = append(results, res)
		if (i+1)%opts.ProgressEvery == 0 {
			logger.Infof("calculation done for %d th record", i+1)
		}
	}

	if err := s.results.SavePartition(ctx, runID, idx, results); err != nil {
		return skipped, fmt.Errorf("save partition %d: %w", idx, err)
	}

	metrics.PointingsComputed(len(results) - skipped)
	metrics.PointingsSkipped(skipped)
	metrics.ObservePartition(time.Since(start))
	logger.WithFields(log.Fields{
		"rows":    len(results),
		"skipped": skipped,
		"elapsed": time.Since(start).String(),
	}).Info("partition written")
	return skipped, nil
}
