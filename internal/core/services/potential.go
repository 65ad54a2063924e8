package services

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"obscond/internal/core/domain"
	ports "obscond/internal/core/ports/output"
)

// PotentialService evaluates when a field can be observed.
type PotentialService struct {
	sky ports.SkyModel
}

func NewPotentialService(sky ports.SkyModel) *PotentialService {
	return &PotentialService{sky: sky}
}

// Conditions returns the field, sun and moon geometry at each time. ra and
// dec are radians; the conditions are in degrees.
func (s *PotentialService) Conditions(ctx context.Context, ra, dec float64, mjds []float64) ([]domain.FieldCondition, error) {
	if math.IsNaN(ra) || math.IsNaN(dec) {
		return nil, domain.ErrInvalidField
	}
	if len(mjds) == 0 {
		return []domain.FieldCondition{}, nil
	}

	geom, err := s.sky.Geometry(ctx, ra, dec, mjds)
	if err != nil {
		return nil, fmt.Errorf("field geometry: %w", err)
	}
	if len(geom) != len(mjds) {
		return nil, fmt.Errorf("%w: %d positions for %d times", domain.ErrSkyModelUnavailable, len(geom), len(mjds))
	}

	fieldRA, fieldDec := domain.Degrees(ra), domain.Degrees(dec)
	out := make([]domain.FieldCondition, len(mjds))
	for i, g := range geom {
		moonRA, moonDec := domain.Degrees(g.MoonRA), domain.Degrees(g.MoonDec)
		out[i] = domain.FieldCondition{
			MJD:      mjds[i],
			Alt:      domain.Degrees(g.Alt),
			Az:       domain.Degrees(g.Az),
			SunAlt:   domain.Degrees(g.SunAlt),
			MoonRA:   moonRA,
			MoonDec:  moonDec,
			MoonAlt:  domain.Degrees(g.MoonAlt),
			MoonDist: domain.AngularSeparation(moonRA, moonDec, fieldRA, fieldDec),
			Night:    domain.NightOf(mjds[i]),
		}
	}
	return out, nil
}

// Available keeps the conditions that satisfy the constraints.
func (s *PotentialService) Available(conds []domain.FieldCondition, k domain.Constraints) []domain.FieldCondition {
	out := make([]domain.FieldCondition, 0, len(conds))
	for _, c := range conds {
		if k.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}

// Potential is the observing potential of a field over a time span.
type Potential struct {
	Conditions []domain.FieldCondition `json:"conditions"`
	Available  []domain.FieldCondition `json:"available"`
	Nights     []domain.NightStat      `json:"nights"`
}

// Evaluate computes conditions, applies constraints and summarises the
// available time per night.
func (s *PotentialService) Evaluate(ctx context.Context, ra, dec float64, mjds []float64, k domain.Constraints) (*Potential, error) {
	conds, err := s.Conditions(ctx, ra, dec, mjds)
	if err != nil {
		return nil, err
	}
	avail := s.Available(conds, k)
	nights := domain.NightStats(avail)

	log.WithFields(log.Fields{
		"times":     len(conds),
		"available": len(avail),
		"nights":    len(nights),
	}).Debug("evaluated observing potential")

	return &Potential{Conditions: conds, Available: avail, Nights: nights}, nil
}

// TimeGrid returns times from start to end (inclusive) every step days.
func TimeGrid(start, end, step float64) []float64 {
	return domain.UniformGrid(start, end, step)
}
