package photometry

import (
	"fmt"
	"math"

	"obscond/internal/core/domain"
)

// FiveSigmaDepth returns the magnitude of a point source detected at SNR 5
// against the given sky. sky is per square arcsecond; hardware excludes the
// atmosphere, total includes it.
func FiveSigmaDepth(sky *Sed, total, hardware domain.Curve, fwhmEff float64, p Parameters) (float64, error) {
	if !(fwhmEff > 0) {
		return math.NaN(), fmt.Errorf("%w: got %g", domain.ErrInvalidSeeing, fwhmEff)
	}

	skyADU, err := sky.ADU(hardware, p)
	if err != nil {
		return math.NaN(), fmt.Errorf("sky counts: %w", err)
	}
	skyCounts := skyADU * p.PlateScale * p.PlateScale

	variance := p.Neff(fwhmEff) * (skyCounts/p.Gain + p.InstrNoiseSq())
	signal := 12.5/p.Gain + math.Sqrt(156.25/(p.Gain*p.Gain)+25*variance)

	if err := total.Validate(); err != nil {
		return math.NaN(), fmt.Errorf("total bandpass: %w", err)
	}
	flat := make([]float64, total.Len())
	for i := range flat {
		flat[i] = abZeroPoint
	}
	zeroPoint := aduFromFnu(flat, total, p)
	if !(zeroPoint > 0) {
		return math.NaN(), fmt.Errorf("%w: total bandpass has no throughput", domain.ErrInvalidSED)
	}
	return -2.5 * math.Log10(signal/zeroPoint), nil
}
