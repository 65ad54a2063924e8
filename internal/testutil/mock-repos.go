package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

// MockTransmissionStore is a mock of TransmissionStore.
type MockTransmissionStore struct {
	mock.Mock
}

func (m *MockTransmissionStore) Load(ctx context.Context, code int) (domain.Curve, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Curve), args.Error(1)
}

// MockSkyModel is a mock of SkyModel.
type MockSkyModel struct {
	mock.Mock
}

func (m *MockSkyModel) Conditions(ctx context.Context, q domain.SkyQuery) (*domain.SkyConditions, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkyConditions), args.Error(1)
}

func (m *MockSkyModel) Geometry(ctx context.Context, ra, dec float64, mjds []float64) ([]domain.SkyConditions, error) {
	args := m.Called(ctx, ra, dec, mjds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SkyConditions), args.Error(1)
}

// MockSummaryRepo is a mock of SummaryRepository.
type MockSummaryRepo struct {
	mock.Mock
}

func (m *MockSummaryRepo) ListPointings(ctx context.Context, filter ports.PointingFilter) ([]domain.Pointing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pointing), args.Error(1)
}

func (m *MockSummaryRepo) ReadSummary(ctx context.Context) (*domain.SummaryTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SummaryTable), args.Error(1)
}

func (m *MockSummaryRepo) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSummaryRepo) ClearSummary(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSummaryRepo) AppendSummary(ctx context.Context, table *domain.SummaryTable) (int, error) {
	args := m.Called(ctx, table)
	return args.Int(0), args.Error(1)
}

func (m *MockSummaryRepo) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSummaryDatabases is a mock of SummaryDatabases.
type MockSummaryDatabases struct {
	mock.Mock
}

func (m *MockSummaryDatabases) Open(ctx context.Context, path string) (ports.SummaryRepository, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.SummaryRepository), args.Error(1)
}

func (m *MockSummaryDatabases) Copy(ctx context.Context, src, dst string) error {
	args := m.Called(ctx, src, dst)
	return args.Error(0)
}

func (m *MockSummaryDatabases) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockResultRepo is a mock of ResultRepository.
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) CreateRun(ctx context.Context, run *domain.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockResultRepo) UpdateRun(ctx context.Context, run *domain.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockResultRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

func (m *MockResultRepo) SavePartition(ctx context.Context, runID uuid.UUID, partition int, results []domain.PointingResult) error {
	args := m.Called(ctx, runID, partition, results)
	return args.Error(0)
}

func (m *MockResultRepo) ListResults(ctx context.Context, runID uuid.UUID) ([]domain.PointingResult, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PointingResult), args.Error(1)
}
