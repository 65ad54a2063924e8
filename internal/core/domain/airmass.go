package domain

import (
	"fmt"
	"math"
)

// Tabulated atmosphere files exist for airmass 1.0 to 2.5 in steps of 0.1.
// Codes are the grid value multiplied by ten.
const (
	MinTransmissionCode = 10
	MaxTransmissionCode = 25

	// DefaultAirmass is used when a caller does not supply one.
	DefaultAirmass = 1.2

	tieTolerance = 1e-9
)

// AirmassGrid returns the reference airmass values, ascending. The slice is a
// fresh copy on every call.
func AirmassGrid() []float64 {
	grid := make([]float64, 0, MaxTransmissionCode-MinTransmissionCode+1)
	for code := MinTransmissionCode; code <= MaxTransmissionCode; code++ {
		grid = append(grid, float64(code)/10)
	}
	return grid
}

// NearestGridAirmass returns the grid value closest to airmass. The grid is
// scanned in order and a later point only wins when it is strictly closer, so
// equidistant candidates resolve to the earlier (lower) value. Differences
// within tieTolerance count as equal; decimal midpoints such as 2.35 are not
// exactly representable and would otherwise break the tie arbitrarily.
//
// Values outside the grid clamp to its nearest end. A NaN airmass yields the
// first grid point.
func NearestGridAirmass(airmass float64, grid []float64) float64 {
	if len(grid) == 0 {
		return math.NaN()
	}
	best := grid[0]
	bestDiff := math.Abs(grid[0] - airmass)
	for _, g := range grid[1:] {
		d := math.Abs(g - airmass)
		if d < bestDiff-tieTolerance {
			best = g
			bestDiff = d
		}
	}
	return best
}

// TransmissionCode returns the integer code of the atmosphere table whose
// airmass is nearest to the requested one. Airmass outside [1.0, 2.5] is
// clamped to 10 or 25 without error; callers computing depths rely on always
// getting a table back.
func TransmissionCode(airmass float64) int {
	g := NearestGridAirmass(airmass, AirmassGrid())
	// grid values are code/10, so the rounding only removes representation error
	return int(math.Round(10 * g))
}

// TransmissionFileName is the on-disk name of the table for a code.
func TransmissionFileName(code int) string {
	return fmt.Sprintf("atmos_%d_aerosol.dat", code)
}

// TransmissionSelection describes which atmosphere table serves an airmass.
type TransmissionSelection struct {
	Requested   float64 `json:"requested_airmass"`
	GridAirmass float64 `json:"grid_airmass"`
	Code        int     `json:"code"`
	FileName    string  `json:"file_name"`
	Clamped     bool    `json:"clamped"`
}

// SelectTransmission resolves airmass to a tabulated atmosphere.
func SelectTransmission(airmass float64) TransmissionSelection {
	code := TransmissionCode(airmass)
	return TransmissionSelection{
		Requested:   airmass,
		GridAirmass: float64(code) / 10,
		Code:        code,
		FileName:    TransmissionFileName(code),
		Clamped:     AirmassOutsideGrid(airmass),
	}
}

// AirmassOutsideGrid reports whether airmass lies beyond the tabulated range.
func AirmassOutsideGrid(airmass float64) bool {
	return airmass < float64(MinTransmissionCode)/10 || airmass > float64(MaxTransmissionCode)/10
}
