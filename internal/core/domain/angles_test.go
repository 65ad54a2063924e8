package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngularSeparation(t *testing.T) {
	assert.InDelta(t, 0.0, AngularSeparation(10, 20, 10, 20), 1e-12)
	assert.InDelta(t, 90.0, AngularSeparation(0, 0, 90, 0), 1e-9)
	assert.InDelta(t, 180.0, AngularSeparation(0, 0, 180, 0), 1e-9)
	assert.InDelta(t, 90.0, AngularSeparation(123, 0, 45, 90), 1e-9)
	assert.InDelta(t, 1.0, AngularSeparation(359.5, 0, 0.5, 0), 1e-9)
}

func TestDegreesRadians(t *testing.T) {
	assert.InDelta(t, 180.0, Degrees(Radians(180)), 1e-12)
}
