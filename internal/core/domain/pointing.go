package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxSkyModelAirmass is the largest airmass the sky model supports. Pointings
// above it are not recalculated.
const MaxSkyModelAirmass = 2.5

// Pointing is one visit row of an OpSim Summary table. Angles are radians,
// as OpSim stores them.
type Pointing struct {
	ObsHistID         int64   `db:"obsHistID"`
	FieldRA           float64 `db:"fieldRA"`
	FieldDec          float64 `db:"fieldDec"`
	Filter            string  `db:"filter"`
	ExpMJD            float64 `db:"expMJD"`
	Airmass           float64 `db:"airmass"`
	FWHMeff           float64 `db:"FWHMeff"`
	FiveSigmaDepth    float64 `db:"fiveSigmaDepth"`
	FiltSkyBrightness float64 `db:"filtSkyBrightness"`
	Night             int64   `db:"night"`
}

// PointingResult holds the recalculated quantities for a pointing. FieldM5
// and SkyMag are NaN when the row was skipped or not requested.
type PointingResult struct {
	ObsHistID      int64
	Filter         string
	Airmass        float64
	FiveSigmaDepth float64
	FieldM5        float64
	SkyMag         float64
	Skipped        bool
}

// NewSkippedResult marks a pointing the sky model cannot handle.
func NewSkippedResult(p Pointing) PointingResult {
	return PointingResult{
		ObsHistID:      p.ObsHistID,
		Filter:         p.Filter,
		Airmass:        p.Airmass,
		FiveSigmaDepth: p.FiveSigmaDepth,
		FieldM5:        math.NaN(),
		SkyMag:         math.NaN(),
		Skipped:        true,
	}
}

// SkyQuery addresses the sky model. RA and Dec are radians.
type SkyQuery struct {
	RA     float64
	Dec    float64
	MJD    float64
	Filter string
}

// SkyConditions is what the sky model reports for a sky position and time:
// the sky SED (wavelength nm, flambda erg/s/cm^2/nm per arcsec^2) and the
// geometry of the pointing, moon and sun. Angles are radians.
type SkyConditions struct {
	Wavelen   []float64
	Flambda   []float64
	Airmass   float64
	Alt       float64
	Az        float64
	MoonRA    float64
	MoonDec   float64
	MoonAlt   float64
	MoonPhase float64
	SunAlt    float64
}

// RunStatus is the lifecycle state of a recalculation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Run records one recalculation over an OpSim database.
type Run struct {
	ID         uuid.UUID  `json:"id"`
	Source     string     `json:"source"`
	Status     RunStatus  `json:"status"`
	Partitions int        `json:"partitions"`
	Rows       int        `json:"rows"`
	Skipped    int        `json:"skipped"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
