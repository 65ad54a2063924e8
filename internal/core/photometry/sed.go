package photometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"obscond/internal/core/domain"
)

// Sed is a spectral energy distribution: flambda in erg/s/cm^2/nm sampled at
// wavelengths in nm.
type Sed struct {
	Wavelen []float64
	Flambda []float64
}

// NewSed validates the samples.
func NewSed(wavelen, flambda []float64) (*Sed, error) {
	if _, err := domain.NewCurve(wavelen, flambda); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSED, err)
	}
	return &Sed{Wavelen: wavelen, Flambda: flambda}, nil
}

// FlatSed returns a source with constant fnu (Jy) at the given wavelengths.
func FlatSed(wavelen []float64, fnu float64) *Sed {
	w := make([]float64, len(wavelen))
	copy(w, wavelen)
	flambda := make([]float64, len(w))
	for i, l := range w {
		flambda[i] = fnu * janskyCGS * lightSpeedNM / (l * l)
	}
	return &Sed{Wavelen: w, Flambda: flambda}
}

// Fnu returns the flux density in Jy at each sample.
func (s *Sed) Fnu() []float64 {
	return flambdaToFnu(s.Wavelen, s.Flambda)
}

func flambdaToFnu(wavelen, flambda []float64) []float64 {
	fnu := make([]float64, len(flambda))
	for i, l := range wavelen {
		fnu[i] = flambda[i] * l * l / lightSpeedNM / janskyCGS
	}
	return fnu
}

// fnuOn resamples the SED onto the bandpass wavelengths. Bandpass samples
// outside the SED coverage get zero flux.
func (s *Sed) fnuOn(bp domain.Curve) ([]float64, error) {
	flambda, err := domain.Curve{Wavelen: s.Wavelen, Sb: s.Flambda}.ResampleOnto(bp.Wavelen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSED, err)
	}
	return flambdaToFnu(bp.Wavelen, flambda), nil
}

// ADU returns the counts the SED produces through bp in one visit.
func (s *Sed) ADU(bp domain.Curve, p Parameters) (float64, error) {
	if err := bp.Validate(); err != nil {
		return 0, err
	}
	fnu, err := s.fnuOn(bp)
	if err != nil {
		return 0, err
	}
	return aduFromFnu(fnu, bp, p), nil
}

func aduFromFnu(fnu []float64, bp domain.Curve, p Parameters) float64 {
	integrand := make([]float64, len(fnu))
	floats.MulTo(integrand, fnu, bp.Sb)
	floats.Div(integrand, bp.Wavelen)
	photons := integrate.Trapezoidal(bp.Wavelen, integrand) * janskyCGS / planck
	return photons * p.VisitTime() * p.EffArea / p.Gain
}

// Mag returns the AB magnitude of the SED through bp.
func (s *Sed) Mag(bp domain.Curve) (float64, error) {
	if err := bp.Validate(); err != nil {
		return 0, err
	}
	fnu, err := s.fnuOn(bp)
	if err != nil {
		return 0, err
	}
	weight := make([]float64, len(bp.Sb))
	floats.DivTo(weight, bp.Sb, bp.Wavelen)
	norm := integrate.Trapezoidal(bp.Wavelen, weight)
	if !(norm > 0) {
		return math.NaN(), fmt.Errorf("%w: bandpass has no throughput", domain.ErrInvalidSED)
	}
	floats.Mul(weight, fnu)
	flux := integrate.Trapezoidal(bp.Wavelen, weight) / norm
	return -2.5 * math.Log10(flux/abZeroPoint), nil
}
