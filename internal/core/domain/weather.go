package domain

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// DayInSec is the number of seconds in a day.
const DayInSec = 86400.0

// InterpLinear is the only supported weather interpolation method.
const InterpLinear = "linearInterp"

// History is a weather quantity sampled at times in days.
type History struct {
	Days   []float64
	Values []float64
}

// WeatherData provides seeing and cloud fraction as a function of time by
// interpolating the OpSim weather histories, which repeat with the span of
// the record.
type WeatherData struct {
	SeeingHistory History
	CloudHistory  History
	StartDate     *float64
}

// Seeing returns the seeing at times (days since startDate). When startDate is
// nil the value set on w is used.
func (w *WeatherData) Seeing(times []float64, startDate *float64, method string) ([]float64, error) {
	return w.interpolate(w.SeeingHistory, times, startDate, method)
}

// CloudFraction returns the cloud cover at times (days since startDate).
func (w *WeatherData) CloudFraction(times []float64, startDate *float64, method string) ([]float64, error) {
	return w.interpolate(w.CloudHistory, times, startDate, method)
}

func (w *WeatherData) interpolate(h History, times []float64, startDate *float64, method string) ([]float64, error) {
	if startDate == nil {
		startDate = w.StartDate
		if startDate == nil {
			return nil, ErrStartDateRequired
		}
	}
	if len(h.Days) == 0 {
		return nil, ErrEmptyHistory
	}
	if method == "" {
		method = InterpLinear
	}
	if method != InterpLinear {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInterpolation, method)
	}

	native := make([]float64, len(h.Days))
	period := math.Inf(-1)
	for i, d := range h.Days {
		native[i] = d - *startDate
		period = math.Max(period, native[i])
	}
	return PeriodicInterp(times, native, h.Values, period)
}

// PeriodicInterp linearly interpolates fp(xp) at x, treating both as periodic
// with the given period. Sample points that coincide after wrapping keep the
// earliest one.
func PeriodicInterp(x, xp, fp []float64, period float64) ([]float64, error) {
	if len(xp) != len(fp) {
		return nil, fmt.Errorf("%w: %d times, %d values", ErrCurveLengthMismatch, len(xp), len(fp))
	}
	if len(xp) == 0 {
		return nil, ErrEmptyHistory
	}
	if !(period > 0) {
		return nil, ErrInvalidPeriod
	}

	type sample struct{ x, f float64 }
	samples := make([]sample, len(xp))
	for i := range xp {
		samples[i] = sample{x: wrap(xp[i], period), f: fp[i]}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].x < samples[j].x })

	xs := make([]float64, 0, len(samples)+2)
	fs := make([]float64, 0, len(samples)+2)
	last := samples[len(samples)-1]
	xs = append(xs, last.x-period)
	fs = append(fs, last.f)
	for _, s := range samples {
		if s.x <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, s.x)
		fs = append(fs, s.f)
	}
	first := samples[0]
	if first.x+period > xs[len(xs)-1] {
		xs = append(xs, first.x+period)
		fs = append(fs, first.f)
	}

	out := make([]float64, len(x))
	if len(xs) < 2 {
		for i := range out {
			out[i] = fs[0]
		}
		return out, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, fs); err != nil {
		return nil, fmt.Errorf("fit weather history: %w", err)
	}
	for i, v := range x {
		out[i] = pl.Predict(wrap(v, period))
	}
	return out, nil
}

func wrap(v, period float64) float64 {
	m := math.Mod(v, period)
	if m < 0 {
		m += period
	}
	return m
}
