package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obscond/internal/core/domain"
	"obscond/internal/testutil"
)

func constantCurve(lo, hi, step, value float64) domain.Curve {
	w := domain.UniformGrid(lo, hi, step)
	sb := make([]float64, len(w))
	for i := range sb {
		sb[i] = value
	}
	return domain.Curve{Wavelen: w, Sb: sb}
}

func testHardware() domain.BandpassDict {
	return domain.BandpassDict{
		"g": constantCurve(400, 550, 10, 0.4),
		"r": constantCurve(500, 700, 10, 0.5),
	}
}

func TestBandpassService_BandpassForAirmass(t *testing.T) {
	store := new(testutil.MockTransmissionStore)
	svc := NewBandpassService(store, testHardware())

	store.On("Load", mock.Anything, 12).Return(constantCurve(520, 680, 20, 0.9), nil)

	bp, err := svc.BandpassForAirmass(context.Background(), "r", 1.2)
	require.NoError(t, err)

	assert.Len(t, bp.Wavelen, 17)
	assert.Len(t, bp.Sb, 17)
	assert.Equal(t, 520.0, bp.Wavelen[0])
	assert.Equal(t, 680.0, bp.Wavelen[16])
	for _, v := range bp.Sb {
		assert.InDelta(t, 0.45, v, 1e-12)
	}
	store.AssertExpectations(t)
}

func TestBandpassService_ClampsAirmass(t *testing.T) {
	tests := []struct {
		airmass float64
		code    int
	}{
		{0.5, 10},
		{1.0, 10},
		{1.26, 13},
		{3.0, 25},
	}

	for _, tt := range tests {
		store := new(testutil.MockTransmissionStore)
		svc := NewBandpassService(store, testHardware())
		store.On("Load", mock.Anything, tt.code).Return(constantCurve(300, 1100, 10, 1), nil)

		_, err := svc.BandpassForAirmass(context.Background(), "g", tt.airmass)
		assert.NoError(t, err, "airmass %v", tt.airmass)
		store.AssertExpectations(t)
	}
}

func TestBandpassService_UnknownFilter(t *testing.T) {
	store := new(testutil.MockTransmissionStore)
	svc := NewBandpassService(store, testHardware())

	_, err := svc.BandpassForAirmass(context.Background(), "q", 1.2)
	assert.ErrorIs(t, err, domain.ErrFilterNotFound)
	store.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestBandpassService_TransmissionUnavailable(t *testing.T) {
	store := new(testutil.MockTransmissionStore)
	svc := NewBandpassService(store, testHardware())

	store.On("Load", mock.Anything, 15).Return(domain.Curve{}, domain.ErrTransmissionUnavailable)

	_, err := svc.BandpassForAirmass(context.Background(), "r", 1.5)
	assert.ErrorIs(t, err, domain.ErrTransmissionUnavailable)
	assert.Contains(t, err.Error(), "atmos_15_aerosol.dat")
}

func TestBandpassService_Select(t *testing.T) {
	svc := NewBandpassService(nil, testHardware())

	sel, err := svc.Select(2.9)
	require.NoError(t, err)
	assert.True(t, sel.Clamped)
	assert.Equal(t, 25, sel.Code)

	_, err = svc.Select(math.NaN())
	assert.ErrorIs(t, err, domain.ErrInvalidAirmass)
}

func TestBandpassService_Filters(t *testing.T) {
	svc := NewBandpassService(nil, testHardware())
	assert.Equal(t, []string{"g", "r"}, svc.Filters())
}
