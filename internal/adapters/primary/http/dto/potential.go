package dto

import (
	"obscond/internal/core/domain"
	"obscond/internal/core/services"
)

// PotentialRequest asks for the observing potential of a field. RA and Dec
// are radians. Times come either as an explicit list or as a start/end/step
// grid in days.
type PotentialRequest struct {
	RA          *float64  `json:"ra" binding:"required"`
	Dec         *float64  `json:"dec" binding:"required"`
	MJDs        []float64 `json:"mjds"`
	Start       float64   `json:"start"`
	End         float64   `json:"end"`
	Step        float64   `json:"step"`
	MinAlt      *float64  `json:"min_alt"`
	MaxSunAlt   *float64  `json:"max_sun_alt"`
	MaxMoonAlt  *float64  `json:"max_moon_alt"`
	MinMoonDist *float64  `json:"min_moon_dist"`
}

// Times resolves the requested time list. ok is false when neither form was
// usable.
func (r PotentialRequest) Times() (times []float64, ok bool) {
	if len(r.MJDs) > 0 {
		return r.MJDs, true
	}
	if r.Step <= 0 || r.End < r.Start {
		return nil, false
	}
	return services.TimeGrid(r.Start, r.End, r.Step), true
}

func (r PotentialRequest) Constraints() domain.Constraints {
	return domain.Constraints{
		MinAlt:      r.MinAlt,
		MaxSunAlt:   r.MaxSunAlt,
		MaxMoonAlt:  r.MaxMoonAlt,
		MinMoonDist: r.MinMoonDist,
	}
}

type PotentialResponse struct {
	Times      int                     `json:"times"`
	Conditions []domain.FieldCondition `json:"conditions"`
	Available  []domain.FieldCondition `json:"available"`
	Nights     []domain.NightStat      `json:"nights"`
}

func ToPotentialResponse(p *services.Potential) PotentialResponse {
	return PotentialResponse{
		Times:      len(p.Conditions),
		Conditions: p.Conditions,
		Available:  p.Available,
		Nights:     p.Nights,
	}
}
