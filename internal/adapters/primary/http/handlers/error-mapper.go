package handlers

import (
	"errors"
	"net/http"

	"obscond/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrFilterNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrSummaryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidAirmass),
		errors.Is(err, domain.ErrInvalidField),
		errors.Is(err, domain.ErrInvalidSeeing),
		errors.Is(err, domain.ErrInvalidRunID),
		errors.Is(err, domain.ErrStartDateRequired),
		errors.Is(err, domain.ErrUnsupportedInterpolation),
		errors.Is(err, domain.ErrNoOverlap):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrTransmissionUnavailable),
		errors.Is(err, domain.ErrThroughputUnavailable),
		errors.Is(err, domain.ErrSkyModelUnavailable),
		errors.Is(err, domain.ErrWeatherUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
