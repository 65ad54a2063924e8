package services

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

// BandpassService composes hardware throughputs with the atmosphere that
// matches a requested airmass. It holds no mutable state.
type BandpassService struct {
	store    ports.TransmissionStore
	hardware domain.BandpassDict
}

func NewBandpassService(store ports.TransmissionStore, hardware domain.BandpassDict) *BandpassService {
	return &BandpassService{store: store, hardware: hardware}
}

// Filters lists the hardware filters the service can compose.
func (s *BandpassService) Filters() []string {
	return s.hardware.Filters()
}

// Select resolves an airmass to its atmosphere table without loading it.
func (s *BandpassService) Select(airmass float64) (domain.TransmissionSelection, error) {
	if math.IsNaN(airmass) || math.IsInf(airmass, 0) {
		return domain.TransmissionSelection{}, fmt.Errorf("%w: got %v", domain.ErrInvalidAirmass, airmass)
	}
	sel := domain.SelectTransmission(airmass)
	if sel.Clamped {
		log.WithFields(log.Fields{
			"airmass":      airmass,
			"grid_airmass": sel.GridAirmass,
			"code":         sel.Code,
		}).Debug("airmass outside tabulated range, using nearest table")
	}
	return sel, nil
}

// TransmissionFor loads the atmosphere table nearest to airmass.
func (s *BandpassService) TransmissionFor(ctx context.Context, airmass float64) (domain.Curve, domain.TransmissionSelection, error) {
	sel, err := s.Select(airmass)
	if err != nil {
		return domain.Curve{}, sel, err
	}
	atm, err := s.store.Load(ctx, sel.Code)
	if err != nil {
		return domain.Curve{}, sel, fmt.Errorf("load %s: %w", sel.FileName, err)
	}
	return atm, sel, nil
}

// BandpassForAirmass returns the total throughput of filter seen through the
// atmosphere nearest to airmass.
func (s *BandpassService) BandpassForAirmass(ctx context.Context, filter string, airmass float64) (domain.Curve, error) {
	hw, err := s.hardware.Get(filter)
	if err != nil {
		return domain.Curve{}, err
	}
	atm, sel, err := s.TransmissionFor(ctx, airmass)
	if err != nil {
		return domain.Curve{}, err
	}
	bp, err := domain.ComposeBandpass(hw, atm)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("compose %s bandpass at airmass %.1f: %w", filter, sel.GridAirmass, err)
	}
	return bp, nil
}
