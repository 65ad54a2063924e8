package ports

import (
	"context"

	"github.com/google/uuid"

	"obscond/internal/core/domain"
)

type PointingFilter struct {
	Filters []string
	Limit   int
	Offset  int
}

// SummaryRepository reads and writes the Summary table of one OpSim
// database.
type SummaryRepository interface {
	ListPointings(ctx context.Context, filter PointingFilter) ([]domain.Pointing, error)
	ReadSummary(ctx context.Context) (*domain.SummaryTable, error)
	Columns(ctx context.Context) ([]string, error)
	ClearSummary(ctx context.Context) error
	AppendSummary(ctx context.Context, table *domain.SummaryTable) (int, error)
	Close() error
}

// SummaryDatabases opens OpSim databases by path.
type SummaryDatabases interface {
	Open(ctx context.Context, path string) (SummaryRepository, error)
	Copy(ctx context.Context, src, dst string) error
	Remove(ctx context.Context, path string) error
}

type ResultRepository interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	UpdateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	SavePartition(ctx context.Context, runID uuid.UUID, partition int, results []domain.PointingResult) error
	ListResults(ctx context.Context, runID uuid.UUID) ([]domain.PointingResult, error)
}
