package throughputs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obscond/internal/core/domain"
)

func writeFlat(t *testing.T, dir, name string, lo, hi, value float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("# wavelen sb\n")
	for w := lo; w <= hi; w += 10 {
		fmt.Fprintf(&b, "%.1f %g\n", w, value)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

func baseline(t *testing.T) string {
	dir := t.TempDir()
	writeFlat(t, dir, "detector.dat", 300, 1100, 0.8)
	writeFlat(t, dir, "m1.dat", 300, 1100, 0.9)
	writeFlat(t, dir, "filter_r.dat", 550, 700, 0.95)
	writeFlat(t, dir, "filter_g.dat", 400, 550, 0.9)
	writeFlat(t, dir, "atmos_std.dat", 300, 1100, 0.85)
	return dir
}

func testOptions(dir string) Options {
	return Options{
		Dir:        dir,
		Filters:    []string{"g", "r"},
		Components: []string{"detector.dat", "m1.dat"},
		MinWavelen: 300,
		MaxWavelen: 1100,
		Step:       1,
	}
}

func TestLoad(t *testing.T) {
	bp, err := Load(testOptions(baseline(t)))
	require.NoError(t, err)

	assert.Equal(t, []string{"g", "r"}, bp.Hardware.Filters())
	r := bp.Hardware["r"]
	assert.Len(t, r.Wavelen, 801)

	// inside the filter
	assert.InDelta(t, 0.8*0.9*0.95, r.Sb[600-300], 1e-12)
	// outside the filter coverage
	assert.Equal(t, 0.0, r.Sb[500-300])

	total := bp.Total["r"]
	assert.InDelta(t, 0.8*0.9*0.95*0.85, total.Sb[600-300], 1e-12)
}

func TestLoad_MissingFilter(t *testing.T) {
	opts := testOptions(baseline(t))
	opts.Filters = []string{"y"}

	_, err := Load(opts)
	assert.ErrorIs(t, err, domain.ErrThroughputUnavailable)
	assert.Contains(t, err.Error(), "filter_y.dat")
}

func TestLoad_MissingAtmosphere(t *testing.T) {
	dir := baseline(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "atmos_std.dat")))

	_, err := Load(testOptions(dir))
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("/data/throughputs")
	assert.Equal(t, DefaultFilters, opts.Filters)
	assert.Len(t, opts.Components, 7)
	assert.Equal(t, 0.1, opts.Step)
}
