package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
	"obscond/internal/testutil"
)

func TestArraySplit(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	parts := ArraySplit(items, 3)
	require.Len(t, parts, 3)
	assert.Equal(t, []int{0, 1, 2, 3}, parts[0])
	assert.Equal(t, []int{4, 5, 6}, parts[1])
	assert.Equal(t, []int{7, 8, 9}, parts[2])

	parts = ArraySplit(items[:2], 4)
	require.Len(t, parts, 4)
	assert.Len(t, parts[0], 1)
	assert.Len(t, parts[1], 1)
	assert.Empty(t, parts[2])
	assert.Empty(t, parts[3])

	assert.Nil(t, ArraySplit(items, 0))
}

type recalcFixture struct {
	databases *testutil.MockSummaryDatabases
	summary   *testutil.MockSummaryRepo
	results   *testutil.MockResultRepo
	sky       *testutil.MockSkyModel
	store     *testutil.MockTransmissionStore
	svc       *RecalcService
}

func setupRecalc() *recalcFixture {
	f := &recalcFixture{
		databases: new(testutil.MockSummaryDatabases),
		summary:   new(testutil.MockSummaryRepo),
		results:   new(testutil.MockResultRepo),
	}
	var calc *SkyCalculator
	f.sky, f.store, calc = setupSkyCalculator()
	f.svc = NewRecalcService(f.databases, calc, f.results)
	return f
}

func testPointings() []domain.Pointing {
	return []domain.Pointing{
		{ObsHistID: 1, Filter: "r", Airmass: 1.0, FWHMeff: 0.7},
		{ObsHistID: 2, Filter: "g", Airmass: 1.3, FWHMeff: 0.8},
		{ObsHistID: 3, Filter: "g", Airmass: 2.7, FWHMeff: 0.8},
		{ObsHistID: 4, Filter: "r", Airmass: 1.6, FWHMeff: 0.9},
		{ObsHistID: 5, Filter: "r", Airmass: 1.1, FWHMeff: 1.0},
	}
}

func TestRecalcService_Run(t *testing.T) {
	f := setupRecalc()
	ctx := context.Background()

	f.databases.On("Open", mock.Anything, "opsim.db").Return(f.summary, nil)
	f.summary.On("ListPointings", mock.Anything, ports.PointingFilter{}).Return(testPointings(), nil)
	f.summary.On("Close").Return(nil)
	f.sky.On("Conditions", mock.Anything, mock.Anything).Return(flatSky(21), nil)
	f.store.On("Load", mock.Anything, mock.Anything).Return(constantCurve(300, 1100, 10, 0.9), nil)
	f.results.On("CreateRun", mock.Anything, mock.AnythingOfType("*domain.Run")).Return(nil)
	f.results.On("UpdateRun", mock.Anything, mock.AnythingOfType("*domain.Run")).Return(nil)

	saved := map[int][]domain.PointingResult{}
	f.results.On("SavePartition", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("int"), mock.Anything).
		Run(func(args mock.Arguments) {
			saved[args.Int(2)] = args.Get(3).([]domain.PointingResult)
		}).Return(nil)

	run, err := f.svc.Run(ctx, RecalcOptions{
		Source:     "opsim.db",
		Partitions: 2,
		Workers:    1,
		Calc:       CalcOptions{SkyMags: true, Depths: true},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatusSucceeded, run.Status)
	assert.Equal(t, 5, run.Rows)
	assert.Equal(t, 1, run.Skipped)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.NotNil(t, run.FinishedAt)

	require.Len(t, saved, 2)
	assert.Len(t, saved[0], 3)
	assert.Len(t, saved[1], 2)
	assert.True(t, saved[0][2].Skipped)
	assert.Equal(t, int64(4), saved[1][0].ObsHistID)
	f.summary.AssertExpectations(t)
}

func TestRecalcService_RunMarksFailure(t *testing.T) {
	f := setupRecalc()

	f.databases.On("Open", mock.Anything, "opsim.db").Return(f.summary, nil)
	f.summary.On("ListPointings", mock.Anything, mock.Anything).Return(testPointings(), nil)
	f.summary.On("Close").Return(nil)
	f.sky.On("Conditions", mock.Anything, mock.Anything).Return(nil, domain.ErrSkyModelUnavailable)
	f.results.On("CreateRun", mock.Anything, mock.Anything).Return(nil)

	var final *domain.Run
	f.results.On("UpdateRun", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		final = args.Get(1).(*domain.Run)
	}).Return(nil)

	run, err := f.svc.Run(context.Background(), RecalcOptions{
		Source:     "opsim.db",
		Partitions: 2,
		Workers:    2,
		Calc:       CalcOptions{Depths: true},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSkyModelUnavailable))
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	require.NotNil(t, final)
	assert.Equal(t, domain.RunStatusFailed, final.Status)
	assert.NotEmpty(t, final.Error)
	f.results.AssertNotCalled(t, "SavePartition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecalcService_InvalidOptions(t *testing.T) {
	f := setupRecalc()

	_, err := f.svc.Run(context.Background(), RecalcOptions{Partitions: 0, Workers: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidPartitions)

	_, err = f.svc.Run(context.Background(), RecalcOptions{Partitions: 1, Workers: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidWorkers)
	f.databases.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}
