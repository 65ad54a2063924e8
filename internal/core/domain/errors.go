package domain

import "errors"

// ============================================================================
// Bandpass Errors
// ============================================================================

// Lookup failures
var (
	ErrFilterNotFound = errors.New("filter not found in hardware bandpass dictionary")
)

// Resource errors
var (
	ErrTransmissionUnavailable = errors.New("atmospheric transmission table unavailable")
	ErrThroughputUnavailable   = errors.New("throughput curve unavailable")
)

// Curve validation errors
var (
	ErrCurveLengthMismatch = errors.New("wavelength and throughput arrays differ in length")
	ErrCurveTooShort       = errors.New("curve needs at least two samples")
	ErrCurveNotAscending   = errors.New("curve wavelengths must be strictly ascending")
	ErrNoOverlap           = errors.New("curves share no wavelength range")
)

// ============================================================================
// Sky Model Errors
// ============================================================================

var (
	ErrSkyModelUnavailable = errors.New("sky model unavailable")
	ErrInvalidSED          = errors.New("invalid spectral energy distribution")
	ErrInvalidSeeing       = errors.New("FWHMeff must be positive")
)

// ============================================================================
// Simulation Database Errors
// ============================================================================

// Not found errors
var (
	ErrRunNotFound      = errors.New("recalculation run not found")
	ErrSummaryNotFound  = errors.New("summary table not found")
	ErrIndexColNotFound = errors.New("summary table has no obsHistID column")
)

// Validation errors
var (
	ErrInvalidRunID      = errors.New("run ID is required")
	ErrInvalidPartitions = errors.New("partitions must be >= 1")
	ErrInvalidWorkers    = errors.New("workers must be >= 1")
	ErrInvalidAirmass    = errors.New("airmass must be a number")
	ErrInvalidField      = errors.New("field coordinates are required")
)

// ============================================================================
// Weather and Scheduling Errors
// ============================================================================

var (
	ErrStartDateRequired        = errors.New("startDate must be provided as an attribute or as a parameter")
	ErrUnsupportedInterpolation = errors.New("interpolation method not implemented")
	ErrEmptyHistory             = errors.New("weather history is empty")
	ErrWeatherUnavailable       = errors.New("weather history unavailable")
	ErrInvalidPeriod            = errors.New("interpolation period must be positive")
	ErrUnknownYearBlock         = errors.New("year block must be 1 or 2")
	ErrUnknownNight             = errors.New("night not present in night statistics")
)
