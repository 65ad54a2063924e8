package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// ComposeBandpass multiplies a hardware throughput curve by an atmospheric
// transmission curve. The result is sampled on the hardware wavelengths that
// lie inside the transmission's covered range; the transmission is linearly
// interpolated there and never extrapolated. Values are neither clamped nor
// validated, and neither input is modified.
func ComposeBandpass(hardware, atmosphere Curve) (Curve, error) {
	if err := hardware.Validate(); err != nil {
		return Curve{}, fmt.Errorf("hardware curve: %w", err)
	}
	if err := atmosphere.Validate(); err != nil {
		return Curve{}, fmt.Errorf("atmosphere curve: %w", err)
	}

	lo, hi := atmosphere.Min(), atmosphere.Max()
	first, last := -1, -1
	for i, w := range hardware.Wavelen {
		if w < lo || w > hi {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return Curve{}, fmt.Errorf("%w: hardware [%g, %g] nm, atmosphere [%g, %g] nm",
			ErrNoOverlap, hardware.Min(), hardware.Max(), lo, hi)
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(atmosphere.Wavelen, atmosphere.Sb); err != nil {
		return Curve{}, fmt.Errorf("fit atmosphere curve: %w", err)
	}

	n := last - first + 1
	wavelen := make([]float64, n)
	copy(wavelen, hardware.Wavelen[first:last+1])

	trans := make([]float64, n)
	for i, w := range wavelen {
		trans[i] = pl.Predict(w)
	}

	sb := make([]float64, n)
	floats.MulTo(sb, hardware.Sb[first:last+1], trans)

	return Curve{Wavelen: wavelen, Sb: sb}, nil
}

// ResampleOnto evaluates c at each wavelength by linear interpolation.
// Wavelengths outside the sampled range evaluate to zero.
func (c Curve) ResampleOnto(wavelen []float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(c.Wavelen, c.Sb); err != nil {
		return nil, fmt.Errorf("fit curve: %w", err)
	}
	lo, hi := c.Min(), c.Max()
	out := make([]float64, len(wavelen))
	for i, w := range wavelen {
		if w < lo || w > hi {
			continue
		}
		out[i] = pl.Predict(w)
	}
	return out, nil
}

// MultiplyCurves returns the pointwise product of curves resampled onto a
// shared wavelength grid.
func MultiplyCurves(wavelen []float64, curves ...Curve) (Curve, error) {
	sb := make([]float64, len(wavelen))
	for i := range sb {
		sb[i] = 1
	}
	for _, c := range curves {
		vals, err := c.ResampleOnto(wavelen)
		if err != nil {
			return Curve{}, err
		}
		floats.Mul(sb, vals)
	}
	w := make([]float64, len(wavelen))
	copy(w, wavelen)
	return NewCurve(w, sb)
}

// UniformGrid returns min, min+step, ... up to and including max (within
// half a step). Points are computed from the index to avoid drift.
func UniformGrid(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int((max-min)/step+0.5) + 1
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = min + float64(i)*step
	}
	return grid
}
