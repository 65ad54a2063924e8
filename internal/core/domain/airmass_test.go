package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirmassGrid(t *testing.T) {
	grid := AirmassGrid()
	require.Len(t, grid, 16)
	assert.Equal(t, 1.0, grid[0])
	assert.Equal(t, 2.5, grid[15])

	// callers cannot mutate the shared grid
	grid[0] = 99
	assert.Equal(t, 1.0, AirmassGrid()[0])
}

func TestNearestGridAirmass_ExactMatches(t *testing.T) {
	grid := AirmassGrid()
	for code := MinTransmissionCode; code <= MaxTransmissionCode; code++ {
		airmass := float64(code) / 10
		t.Run(fmt.Sprintf("%.1f", airmass), func(t *testing.T) {
			assert.Equal(t, airmass, NearestGridAirmass(airmass, grid))
			assert.Equal(t, code, TransmissionCode(airmass))
		})
	}
}

func TestNearestGridAirmass_BetweenPoints(t *testing.T) {
	tests := []struct {
		airmass float64
		want    int
	}{
		{1.04, 10},
		{1.06, 11},
		{1.21, 12},
		{1.29, 13},
		{1.5499, 15},
		{1.5501, 16},
		{2.44, 24},
		{2.46, 25},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.airmass), func(t *testing.T) {
			assert.Equal(t, tt.want, TransmissionCode(tt.airmass))
		})
	}
}

func TestNearestGridAirmass_MidpointPrefersLower(t *testing.T) {
	tests := []struct {
		airmass float64
		want    int
	}{
		{1.05, 10},
		{1.25, 12},
		{1.75, 17},
		{2.35, 23},
		{2.45, 24},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.airmass), func(t *testing.T) {
			assert.Equal(t, tt.want, TransmissionCode(tt.airmass))
		})
	}
}

func TestNearestGridAirmass_Clamps(t *testing.T) {
	assert.Equal(t, TransmissionCode(1.0), TransmissionCode(0.5))
	assert.Equal(t, TransmissionCode(2.5), TransmissionCode(3.0))
	assert.Equal(t, 10, TransmissionCode(-4))
	assert.Equal(t, 25, TransmissionCode(40))
}

func TestNearestGridAirmass_EmptyGrid(t *testing.T) {
	assert.True(t, math.IsNaN(NearestGridAirmass(1.2, nil)))
}

func TestSelectTransmission(t *testing.T) {
	sel := SelectTransmission(1.2)
	assert.Equal(t, 12, sel.Code)
	assert.Equal(t, "atmos_12_aerosol.dat", sel.FileName)
	assert.Equal(t, 1.2, sel.GridAirmass)
	assert.False(t, sel.Clamped)

	low := SelectTransmission(0.5)
	assert.Equal(t, 10, low.Code)
	assert.True(t, low.Clamped)

	high := SelectTransmission(3.0)
	assert.Equal(t, 25, high.Code)
	assert.Equal(t, "atmos_25_aerosol.dat", high.FileName)
	assert.True(t, high.Clamped)
}
