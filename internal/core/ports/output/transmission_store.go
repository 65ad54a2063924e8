package ports

import (
	"context"

	"obscond/internal/core/domain"
)

// TransmissionStore loads the tabulated atmosphere for a transmission code
// (10..25). Missing or unreadable tables fail with
// domain.ErrTransmissionUnavailable.
type TransmissionStore interface {
	Load(ctx context.Context, code int) (domain.Curve, error)
}
