package postgres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(math.NaN()))

	v := nullable(23.5)
	if assert.NotNil(t, v) {
		assert.Equal(t, 23.5, *v)
	}

	assert.True(t, math.IsNaN(fromNullable(nil)))
	assert.Equal(t, 23.5, fromNullable(v))
}
