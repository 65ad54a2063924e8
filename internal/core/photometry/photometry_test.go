package photometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obscond/internal/core/domain"
)

func flatBandpass(t *testing.T, lo, hi float64) domain.Curve {
	t.Helper()
	w := domain.UniformGrid(lo, hi, 1)
	sb := make([]float64, len(w))
	for i := range sb {
		sb[i] = 1
	}
	c, err := domain.NewCurve(w, sb)
	require.NoError(t, err)
	return c
}

func TestSed_FnuRoundTrip(t *testing.T) {
	sed := FlatSed([]float64{400, 500, 600}, 3631)
	assert.InDeltaSlice(t, []float64{3631, 3631, 3631}, sed.Fnu(), 1e-6)
}

func TestSed_MagOfZeroPointSource(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	sed := FlatSed(domain.UniformGrid(300, 1100, 0.5), abZeroPoint)

	mag, err := sed.Mag(bp)
	require.NoError(t, err)
	assert.InDelta(t, 0, mag, 1e-9)
}

func TestSed_MagScalesWithFlux(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	sed := FlatSed(domain.UniformGrid(300, 1100, 0.5), abZeroPoint*math.Pow(10, -0.4*21.3))

	mag, err := sed.Mag(bp)
	require.NoError(t, err)
	assert.InDelta(t, 21.3, mag, 1e-9)
}

func TestSed_ADUIsLinearInFlux(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	p := DefaultParameters()
	grid := domain.UniformGrid(300, 1100, 1)

	one, err := FlatSed(grid, 1).ADU(bp, p)
	require.NoError(t, err)
	ten, err := FlatSed(grid, 10).ADU(bp, p)
	require.NoError(t, err)

	assert.Greater(t, one, 0.0)
	assert.InEpsilon(t, 10*one, ten, 1e-12)
}

func TestSed_ZeroOutsideCoverage(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	sed := FlatSed([]float64{300, 400}, abZeroPoint)

	adu, err := sed.ADU(bp, DefaultParameters())
	require.NoError(t, err)
	assert.Zero(t, adu)
}

func TestNewSed_Invalid(t *testing.T) {
	_, err := NewSed([]float64{500, 400}, []float64{1, 1})
	assert.ErrorIs(t, err, domain.ErrInvalidSED)
}

func TestParameters_Defaults(t *testing.T) {
	p := DefaultParameters()
	assert.Equal(t, 30.0, p.VisitTime())
	assert.InDelta(t, 2.266*16, p.Neff(0.8), 1e-9)
	assert.InDelta(t, (2*8.8*8.8+0.2*30)/(2.3*2.3), p.InstrNoiseSq(), 1e-12)
}

func skyOfMag(mag float64) *Sed {
	return FlatSed(domain.UniformGrid(300, 1100, 1), abZeroPoint*math.Pow(10, -0.4*mag))
}

func TestFiveSigmaDepth_BrighterSkyIsShallower(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	p := DefaultParameters()

	dark, err := FiveSigmaDepth(skyOfMag(21), bp, bp, 0.8, p)
	require.NoError(t, err)
	bright, err := FiveSigmaDepth(skyOfMag(19), bp, bp, 0.8, p)
	require.NoError(t, err)

	assert.Greater(t, dark, bright)
}

func TestFiveSigmaDepth_WorseSeeingIsShallower(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	p := DefaultParameters()

	good, err := FiveSigmaDepth(skyOfMag(21), bp, bp, 0.7, p)
	require.NoError(t, err)
	poor, err := FiveSigmaDepth(skyOfMag(21), bp, bp, 1.4, p)
	require.NoError(t, err)

	assert.Greater(t, good, poor)
}

func TestFiveSigmaDepth_SkyLimitedScaling(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	p := DefaultParameters()
	p.ReadNoise = 0
	p.DarkCurrent = 0

	a, err := FiveSigmaDepth(skyOfMag(18), bp, bp, 0.8, p)
	require.NoError(t, err)
	b, err := FiveSigmaDepth(skyOfMag(17), bp, bp, 0.8, p)
	require.NoError(t, err)

	// background-limited depth moves half a magnitude per magnitude of sky
	assert.InDelta(t, 0.5, a-b, 0.01)
}

func TestFiveSigmaDepth_InvalidSeeing(t *testing.T) {
	bp := flatBandpass(t, 550, 700)
	_, err := FiveSigmaDepth(skyOfMag(21), bp, bp, 0, DefaultParameters())
	assert.ErrorIs(t, err, domain.ErrInvalidSeeing)
}
