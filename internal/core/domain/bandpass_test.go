package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeBandpass_RestrictsToOverlap(t *testing.T) {
	hw := Curve{
		Wavelen: []float64{300, 400, 500, 600, 700, 800},
		Sb:      []float64{0.1, 0.2, 0.4, 0.5, 0.3, 0.1},
	}
	atm := Curve{
		Wavelen: []float64{350, 550, 750},
		Sb:      []float64{0.5, 0.9, 0.7},
	}

	bp, err := ComposeBandpass(hw, atm)
	require.NoError(t, err)

	assert.Equal(t, []float64{400, 500, 600, 700}, bp.Wavelen)
	require.Len(t, bp.Sb, 4)
	assert.InDelta(t, 0.2*0.6, bp.Sb[0], 1e-12)
	assert.InDelta(t, 0.4*0.8, bp.Sb[1], 1e-12)
	assert.InDelta(t, 0.5*0.85, bp.Sb[2], 1e-12)
	assert.InDelta(t, 0.3*0.75, bp.Sb[3], 1e-12)
}

func TestComposeBandpass_InclusiveEdges(t *testing.T) {
	hw := Curve{Wavelen: []float64{300, 400, 500}, Sb: []float64{1, 1, 1}}
	atm := Curve{Wavelen: []float64{300, 500}, Sb: []float64{0.5, 1.0}}

	bp, err := ComposeBandpass(hw, atm)
	require.NoError(t, err)
	assert.Equal(t, hw.Wavelen, bp.Wavelen)
	assert.InDeltaSlice(t, []float64{0.5, 0.75, 1.0}, bp.Sb, 1e-12)
}

func TestComposeBandpass_DoesNotClamp(t *testing.T) {
	hw := Curve{Wavelen: []float64{1, 2}, Sb: []float64{2, 3}}
	atm := Curve{Wavelen: []float64{1, 2}, Sb: []float64{1.5, -1}}

	bp, err := ComposeBandpass(hw, atm)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, -3}, bp.Sb)
}

func TestComposeBandpass_NoOverlap(t *testing.T) {
	hw := Curve{Wavelen: []float64{300, 400}, Sb: []float64{1, 1}}
	atm := Curve{Wavelen: []float64{500, 600}, Sb: []float64{1, 1}}

	_, err := ComposeBandpass(hw, atm)
	assert.ErrorIs(t, err, ErrNoOverlap)
}

func TestComposeBandpass_InvalidInput(t *testing.T) {
	good := Curve{Wavelen: []float64{1, 2}, Sb: []float64{1, 1}}
	bad := Curve{Wavelen: []float64{2, 1}, Sb: []float64{1, 1}}

	_, err := ComposeBandpass(bad, good)
	assert.ErrorIs(t, err, ErrCurveNotAscending)

	_, err = ComposeBandpass(good, Curve{Wavelen: []float64{1, 2}, Sb: []float64{1}})
	assert.ErrorIs(t, err, ErrCurveLengthMismatch)
}

func TestComposeBandpass_Idempotent(t *testing.T) {
	hw := Curve{
		Wavelen: UniformGrid(300, 1100, 0.5),
	}
	hw.Sb = make([]float64, len(hw.Wavelen))
	for i, w := range hw.Wavelen {
		hw.Sb[i] = 0.5 + 0.4*(w-300)/800
	}
	atm := Curve{Wavelen: []float64{290, 333.3, 512.7, 871.1, 1200}, Sb: []float64{0.2, 0.6, 0.83, 0.91, 0.95}}
	hwCopy, atmCopy := hw.Clone(), atm.Clone()

	first, err := ComposeBandpass(hw, atm)
	require.NoError(t, err)
	second, err := ComposeBandpass(hw, atm)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, hwCopy, hw)
	assert.Equal(t, atmCopy, atm)
	assert.Equal(t, len(first.Wavelen), len(first.Sb))

	// output must not alias the hardware arrays
	first.Wavelen[0] = -1
	assert.Equal(t, 300.0, hw.Wavelen[0])
}

func TestCurve_ResampleOnto(t *testing.T) {
	c := Curve{Wavelen: []float64{10, 20}, Sb: []float64{1, 3}}
	vals, err := c.ResampleOnto([]float64{5, 10, 15, 20, 25})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 0}, vals, 1e-12)
}

func TestMultiplyCurves(t *testing.T) {
	a := Curve{Wavelen: []float64{0, 10}, Sb: []float64{1, 1}}
	b := Curve{Wavelen: []float64{5, 10}, Sb: []float64{0.5, 0.5}}

	c, err := MultiplyCurves([]float64{0, 5, 10}, a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 0.5}, c.Sb)
}

func TestUniformGrid(t *testing.T) {
	g := UniformGrid(300, 301, 0.1)
	require.Len(t, g, 11)
	assert.InDelta(t, 301.0, g[10], 1e-9)
	assert.Nil(t, UniformGrid(1, 0, 0.1))
	assert.Nil(t, UniformGrid(0, 1, 0))
}
