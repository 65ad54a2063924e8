package domain

import (
	"fmt"
	"sort"
)

// Curve is a sampled function of wavelength (nm): a bandpass throughput or
// an atmospheric transmission fraction.
type Curve struct {
	Wavelen []float64 `json:"wavelen"`
	Sb      []float64 `json:"sb"`
}

// NewCurve validates and wraps the sample arrays. The arrays are not copied.
func NewCurve(wavelen, sb []float64) (Curve, error) {
	c := Curve{Wavelen: wavelen, Sb: sb}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// Validate checks the structural invariants every curve must satisfy.
func (c Curve) Validate() error {
	if len(c.Wavelen) != len(c.Sb) {
		return fmt.Errorf("%w: %d wavelengths, %d values", ErrCurveLengthMismatch, len(c.Wavelen), len(c.Sb))
	}
	if len(c.Wavelen) < 2 {
		return ErrCurveTooShort
	}
	for i := 1; i < len(c.Wavelen); i++ {
		if !(c.Wavelen[i] > c.Wavelen[i-1]) {
			return fmt.Errorf("%w: sample %d (%g after %g)", ErrCurveNotAscending, i, c.Wavelen[i], c.Wavelen[i-1])
		}
	}
	return nil
}

func (c Curve) Len() int { return len(c.Wavelen) }

// Min returns the shortest sampled wavelength.
func (c Curve) Min() float64 { return c.Wavelen[0] }

// Max returns the longest sampled wavelength.
func (c Curve) Max() float64 { return c.Wavelen[len(c.Wavelen)-1] }

// Clone returns a deep copy.
func (c Curve) Clone() Curve {
	w := make([]float64, len(c.Wavelen))
	s := make([]float64, len(c.Sb))
	copy(w, c.Wavelen)
	copy(s, c.Sb)
	return Curve{Wavelen: w, Sb: s}
}

// BandpassDict maps filter names ('u','g','r','i','z','y') to curves.
type BandpassDict map[string]Curve

// Get returns the curve for a filter.
func (d BandpassDict) Get(filter string) (Curve, error) {
	c, ok := d[filter]
	if !ok {
		return Curve{}, fmt.Errorf("%w: %q", ErrFilterNotFound, filter)
	}
	return c, nil
}

// Filters lists the filter names in sorted order.
func (d BandpassDict) Filters() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
