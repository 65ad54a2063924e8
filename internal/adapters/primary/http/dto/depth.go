package dto

import (
	"math"

	"obscond/internal/core/domain"
)

// DepthRequest describes one pointing. RA and Dec are radians.
type DepthRequest struct {
	ObsHistID int64    `json:"obsHistID"`
	RA        *float64 `json:"ra" binding:"required"`
	Dec       *float64 `json:"dec" binding:"required"`
	Filter    string   `json:"filter" binding:"required"`
	MJD       float64  `json:"mjd" binding:"required"`
	Airmass   float64  `json:"airmass" binding:"required"`
	FWHMeff   float64  `json:"fwhm_eff"`
	SkyMag    *bool    `json:"sky_mag"`
	Depth     *bool    `json:"depth"`
}

func (r DepthRequest) ToPointing() domain.Pointing {
	return domain.Pointing{
		ObsHistID:      r.ObsHistID,
		FieldRA:        *r.RA,
		FieldDec:       *r.Dec,
		Filter:         r.Filter,
		ExpMJD:         r.MJD,
		Airmass:        r.Airmass,
		FWHMeff:        r.FWHMeff,
		FiveSigmaDepth: math.NaN(),
	}
}

// Wants reports which quantities were asked for; both by default.
func (r DepthRequest) Wants() (skyMag, depth bool) {
	skyMag, depth = true, true
	if r.SkyMag != nil {
		skyMag = *r.SkyMag
	}
	if r.Depth != nil {
		depth = *r.Depth
	}
	return skyMag, depth
}

type DepthResponse struct {
	ObsHistID      int64    `json:"obsHistID"`
	Filter         string   `json:"filter"`
	Airmass        float64  `json:"airmass"`
	SkyMag         *float64 `json:"sky_mag"`
	FiveSigmaDepth *float64 `json:"five_sigma_depth"`
	Skipped        bool     `json:"skipped"`
}

func ToDepthResponse(r domain.PointingResult) DepthResponse {
	return DepthResponse{
		ObsHistID:      r.ObsHistID,
		Filter:         r.Filter,
		Airmass:        r.Airmass,
		SkyMag:         finite(r.SkyMag),
		FiveSigmaDepth: finite(r.FieldM5),
		Skipped:        r.Skipped,
	}
}

// finite maps NaN and infinities to null; JSON cannot carry them.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
