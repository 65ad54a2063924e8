// Package weather loads the OpSim seeing and cloud histories.
package weather

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"obscond/internal/adapters/secondary/tabular"
	"obscond/internal/core/domain"
)

// Column names used by the OpSim weather exports. Dates are in seconds.
const (
	SeeingDateColumn = "s_date"
	SeeingColumn     = "seeing"
	CloudDateColumn  = "c_date"
	CloudColumn      = "cloud"
)

// Load reads both histories. startDate may be nil, in which case callers
// must pass one to every query.
func Load(seeingFile, cloudFile string, startDate *float64) (*domain.WeatherData, error) {
	seeing, err := LoadHistory(seeingFile, SeeingDateColumn, SeeingColumn)
	if err != nil {
		return nil, err
	}
	cloud, err := LoadHistory(cloudFile, CloudDateColumn, CloudColumn)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"seeing_samples": len(seeing.Days),
		"cloud_samples":  len(cloud.Days),
	}).Info("Weather histories loaded")

	return &domain.WeatherData{
		SeeingHistory: seeing,
		CloudHistory:  cloud,
		StartDate:     startDate,
	}, nil
}

// LoadHistory reads one history file. Without a header the last two columns
// are taken as date and value.
func LoadHistory(path, dateCol, valueCol string) (domain.History, error) {
	t, err := tabular.ReadFile(path)
	if err != nil {
		return domain.History{}, fmt.Errorf("%w: %v", domain.ErrWeatherUnavailable, err)
	}
	if len(t.Rows) == 0 {
		return domain.History{}, fmt.Errorf("%w: %s", domain.ErrEmptyHistory, path)
	}

	var dates, values []float64
	if t.Header != nil {
		if dates, err = t.Named(dateCol); err == nil {
			values, err = t.Named(valueCol)
		}
	} else {
		n := len(t.Rows[0])
		if n < 2 {
			return domain.History{}, fmt.Errorf("%w: %s has %d columns", domain.ErrWeatherUnavailable, path, n)
		}
		if dates, err = t.Column(n - 2); err == nil {
			values, err = t.Column(n - 1)
		}
	}
	if err != nil {
		return domain.History{}, fmt.Errorf("%w: %s: %v", domain.ErrWeatherUnavailable, path, err)
	}

	days := make([]float64, len(dates))
	for i, s := range dates {
		days[i] = s / domain.DayInSec
	}
	return domain.History{Days: days, Values: values}, nil
}
