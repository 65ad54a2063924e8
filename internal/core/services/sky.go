package services

import (
	"context"
	"fmt"
	"math"

	"obscond/internal/core/domain"
	"obscond/internal/core/photometry"
	ports "obscond/internal/core/ports/output"
)

// CalcOptions selects which quantities CalculatePointings computes.
type CalcOptions struct {
	SkyMags bool
	Depths  bool
}

// SkyCalculator turns sky model spectra into sky magnitudes and five-sigma
// depths. Each caller owns its calculator and sky model client.
type SkyCalculator struct {
	sky        ports.SkyModel
	bandpasses *BandpassService
	hardware   domain.BandpassDict
	params     photometry.Parameters
}

func NewSkyCalculator(sky ports.SkyModel, bandpasses *BandpassService, hardware domain.BandpassDict, params photometry.Parameters) *SkyCalculator {
	return &SkyCalculator{
		sky:        sky,
		bandpasses: bandpasses,
		hardware:   hardware,
		params:     params,
	}
}

// SkyMag returns the sky brightness (mag/arcsec^2) through the hardware
// bandpass of filter. ra and dec are radians.
func (c *SkyCalculator) SkyMag(ctx context.Context, ra, dec float64, filter string, mjd float64) (float64, error) {
	hw, err := c.hardware.Get(filter)
	if err != nil {
		return math.NaN(), err
	}
	sed, err := c.skySed(ctx, domain.SkyQuery{RA: ra, Dec: dec, MJD: mjd, Filter: filter})
	if err != nil {
		return math.NaN(), err
	}
	return sed.Mag(hw)
}

// FiveSigmaDepth returns the point-source depth of a visit, using the total
// bandpass for the visit's airmass.
func (c *SkyCalculator) FiveSigmaDepth(ctx context.Context, ra, dec float64, filter string, mjd, airmass, fwhmEff float64) (float64, error) {
	sed, err := c.skySed(ctx, domain.SkyQuery{RA: ra, Dec: dec, MJD: mjd, Filter: filter})
	if err != nil {
		return math.NaN(), err
	}
	return c.depth(ctx, sed, filter, airmass, fwhmEff)
}

// Calculate computes the requested quantities for one pointing with a single
// sky model query. Pointings above the sky model airmass limit, or with no
// usable airmass at all, are returned as skipped.
func (c *SkyCalculator) Calculate(ctx context.Context, p domain.Pointing, opts CalcOptions) (domain.PointingResult, error) {
	if !(p.Airmass <= domain.MaxSkyModelAirmass) || math.IsInf(p.Airmass, -1) {
		return domain.NewSkippedResult(p), nil
	}

	res := domain.PointingResult{
		ObsHistID:      p.ObsHistID,
		Filter:         p.Filter,
		Airmass:        p.Airmass,
		FiveSigmaDepth: p.FiveSigmaDepth,
		FieldM5:        math.NaN(),
		SkyMag:         math.NaN(),
	}
	if !opts.SkyMags && !opts.Depths {
		return res, nil
	}

	hw, err := c.hardware.Get(p.Filter)
	if err != nil {
		return res, err
	}
	sed, err := c.skySed(ctx, domain.SkyQuery{RA: p.FieldRA, Dec: p.FieldDec, MJD: p.ExpMJD, Filter: p.Filter})
	if err != nil {
		return res, fmt.Errorf("pointing %d: %w", p.ObsHistID, err)
	}

	if opts.SkyMags {
		if res.SkyMag, err = sed.Mag(hw); err != nil {
			return res, fmt.Errorf("pointing %d sky mag: %w", p.ObsHistID, err)
		}
	}
	if opts.Depths {
		if res.FieldM5, err = c.depth(ctx, sed, p.Filter, p.Airmass, p.FWHMeff); err != nil {
			return res, fmt.Errorf("pointing %d depth: %w", p.ObsHistID, err)
		}
	}
	return res, nil
}

// CalculatePointings runs Calculate over pointings in order. The first error
// aborts the batch.
func (c *SkyCalculator) CalculatePointings(ctx context.Context, pointings []domain.Pointing, opts CalcOptions) ([]domain.PointingResult, error) {
	out := make([]domain.PointingResult, 0, len(pointings))
	for _, p := range pointings {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := c.Calculate(ctx, p, opts)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (c *SkyCalculator) depth(ctx context.Context, sky *photometry.Sed, filter string, airmass, fwhmEff float64) (float64, error) {
	hw, err := c.hardware.Get(filter)
	if err != nil {
		return math.NaN(), err
	}
	total, err := c.bandpasses.BandpassForAirmass(ctx, filter, airmass)
	if err != nil {
		return math.NaN(), err
	}
	return photometry.FiveSigmaDepth(sky, total, hw, fwhmEff, c.params)
}

func (c *SkyCalculator) skySed(ctx context.Context, q domain.SkyQuery) (*photometry.Sed, error) {
	cond, err := c.sky.Conditions(ctx, q)
	if err != nil {
		return nil, err
	}
	return photometry.NewSed(cond.Wavelen, cond.Flambda)
}
