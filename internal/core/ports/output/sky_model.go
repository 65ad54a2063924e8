package ports

import (
	"context"

	"obscond/internal/core/domain"
)

// SkyModel is the external sky brightness service.
type SkyModel interface {
	// Conditions returns the sky SED and geometry for one pointing.
	Conditions(ctx context.Context, q domain.SkyQuery) (*domain.SkyConditions, error)

	// Geometry returns positions only (no SED) for a field at many times.
	Geometry(ctx context.Context, ra, dec float64, mjds []float64) ([]domain.SkyConditions, error)
}
