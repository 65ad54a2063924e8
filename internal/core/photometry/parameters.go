// Package photometry converts spectra into instrumental counts, AB magnitudes
// and five-sigma limiting depths through a bandpass.
package photometry

import "math"

// Physical constants in cgs units, wavelengths in nm.
const (
	lightSpeedNM = 2.99792458e17 // nm/s
	planck       = 6.626068e-27  // erg s
	janskyCGS    = 1e-23         // erg/s/cm^2/Hz
	abZeroPoint  = 3631.0        // Jy
)

// Parameters describes the camera and exposure used to turn photons into
// counts.
type Parameters struct {
	ExpTime     float64 // seconds per exposure
	NExp        float64 // exposures per visit
	Gain        float64 // e-/ADU
	ReadNoise   float64 // e- per exposure
	DarkCurrent float64 // e-/s
	OtherNoise  float64 // e- per exposure
	PlateScale  float64 // arcsec/pixel
	EffArea     float64 // cm^2
}

// DefaultParameters returns the LSST baseline: two 15 s exposures through a
// 6.423 m effective aperture.
func DefaultParameters() Parameters {
	return Parameters{
		ExpTime:     15,
		NExp:        2,
		Gain:        2.3,
		ReadNoise:   8.8,
		DarkCurrent: 0.2,
		OtherNoise:  0,
		PlateScale:  0.2,
		EffArea:     math.Pi * math.Pow(642.3/2, 2),
	}
}

// VisitTime is the open-shutter time of a visit.
func (p Parameters) VisitTime() float64 {
	return p.ExpTime * p.NExp
}

// InstrNoiseSq is the instrumental noise variance per pixel in ADU^2.
func (p Parameters) InstrNoiseSq() float64 {
	e := p.NExp*p.ReadNoise*p.ReadNoise +
		p.DarkCurrent*p.VisitTime() +
		p.NExp*p.OtherNoise*p.OtherNoise
	return e / (p.Gain * p.Gain)
}

// Neff is the effective number of pixels of a PSF with the given FWHM.
func (p Parameters) Neff(fwhmEff float64) float64 {
	return 2.266 * math.Pow(fwhmEff/p.PlateScale, 2)
}
