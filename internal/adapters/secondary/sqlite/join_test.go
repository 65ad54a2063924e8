package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obscond/internal/core/domain"
	"obscond/internal/core/services"
	"obscond/internal/testutil"
)

func TestRemove(t *testing.T) {
	ctx := context.Background()
	dst := filepath.Join(t.TempDir(), "copy.db")
	dbs := NewDatabases()

	require.NoError(t, dbs.Copy(ctx, seedOpSim(t), dst))
	require.NoError(t, dbs.Remove(ctx, dst))
	_, err := os.Stat(dst)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// removing again is fine
	assert.NoError(t, dbs.Remove(ctx, dst))
}

func TestJoin_FailedJoinCanBeRetried(t *testing.T) {
	ctx := context.Background()
	src := seedOpSim(t)
	dst := filepath.Join(t.TempDir(), "out.db")

	runID := uuid.New()
	results := new(testutil.MockResultRepo)
	results.On("GetRun", mock.Anything, runID).Return(&domain.Run{ID: runID, Status: domain.RunStatusSucceeded}, nil)
	results.On("ListResults", mock.Anything, runID).Return(nil, errors.New("transient")).Once()
	results.On("ListResults", mock.Anything, runID).Return([]domain.PointingResult{
		{ObsHistID: 1, FieldM5: 24.4, SkyMag: 21.3},
	}, nil).Once()

	svc := services.NewJoinService(NewDatabases(), results)
	opts := services.JoinOptions{Source: src, Dest: dst, RunID: runID}

	_, err := svc.Join(ctx, opts)
	require.Error(t, err)
	_, statErr := os.Stat(dst)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "failed join must not leave %s behind", dst)

	stats, err := svc.Join(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Rows)

	got, err := openRepo(t, dst).ReadSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 5)
}
