package atmosphere

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obscond/internal/core/domain"
	"obscond/internal/testutil"
)

func writeTable(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestDirStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "atmos_12_aerosol.dat", "# wavelen trans\n300 0.5\n301 0.6\n302 0.7\n")

	c, err := NewDirStore(dir).Load(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 301, 302}, c.Wavelen)
	assert.Equal(t, []float64{0.5, 0.6, 0.7}, c.Sb)
}

func TestDirStore_MissingFile(t *testing.T) {
	_, err := NewDirStore(t.TempDir()).Load(context.Background(), 17)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
	assert.Contains(t, err.Error(), "atmos_17_aerosol.dat")
}

func TestDirStore_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "atmos_10_aerosol.dat", "300 0.5\n299 0.6\n")
	writeTable(t, dir, "atmos_11_aerosol.dat", "300\n301\n")

	store := NewDirStore(dir)
	_, err := store.Load(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
	_, err = store.Load(context.Background(), 11)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
}

func TestDirStore_RejectsNonFinite(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "atmos_13_aerosol.dat", "300 0.5\n301 NaN\n302 0.7\n")
	writeTable(t, dir, "atmos_14_aerosol.dat", "300 0.5\n301 +Inf\n")

	store := NewDirStore(dir)
	_, err := store.Load(context.Background(), 13)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
	assert.Contains(t, err.Error(), "non-finite")
	_, err = store.Load(context.Background(), 14)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
}

func TestCachedStore_LoadsOnce(t *testing.T) {
	next := new(testutil.MockTransmissionStore)
	curve := domain.Curve{Wavelen: []float64{300, 400}, Sb: []float64{0.5, 0.9}}
	next.On("Load", mock.Anything, 12).Return(curve, nil).Once()

	store, err := NewCachedStore(next, 4)
	require.NoError(t, err)

	first, err := store.Load(context.Background(), 12)
	require.NoError(t, err)
	first.Sb[0] = 42

	second, err := store.Load(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 0.5, second.Sb[0])
	next.AssertExpectations(t)
}

func TestCachedStore_DoesNotCacheErrors(t *testing.T) {
	next := new(testutil.MockTransmissionStore)
	next.On("Load", mock.Anything, 20).Return(domain.Curve{}, domain.ErrTransmissionUnavailable).Twice()

	store, err := NewCachedStore(next, 4)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), 20)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
	_, err = store.Load(context.Background(), 20)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
	next.AssertExpectations(t)
}

func TestNewCachedStore_InvalidSize(t *testing.T) {
	_, err := NewCachedStore(new(testutil.MockTransmissionStore), 0)
	assert.Error(t, err)
}
