// Package throughputs loads hardware and total bandpasses from an LSST
// throughputs baseline directory.
package throughputs

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"obscond/internal/adapters/secondary/atmosphere"
	"obscond/internal/adapters/secondary/tabular"
	"obscond/internal/core/domain"
)

var (
	DefaultFilters    = []string{"u", "g", "r", "i", "z", "y"}
	DefaultComponents = []string{"detector.dat", "lens1.dat", "lens2.dat", "lens3.dat", "m1.dat", "m2.dat", "m3.dat"}
)

// Options control where curves are read from and the grid they are
// resampled onto.
type Options struct {
	Dir        string
	Filters    []string
	Components []string
	MinWavelen float64
	MaxWavelen float64
	Step       float64
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:        dir,
		Filters:    DefaultFilters,
		Components: DefaultComponents,
		MinWavelen: 300,
		MaxWavelen: 1150,
		Step:       0.1,
	}
}

// Bandpasses holds the two dictionaries built from a baseline.
type Bandpasses struct {
	Hardware domain.BandpassDict
	Total    domain.BandpassDict
}

// Load builds hardware bandpasses as the product of the shared components
// and each filter curve, and total bandpasses as hardware times the standard
// atmosphere.
func Load(opts Options) (*Bandpasses, error) {
	grid := domain.UniformGrid(opts.MinWavelen, opts.MaxWavelen, opts.Step)
	if len(grid) < 2 {
		return nil, fmt.Errorf("%w: empty wavelength grid [%g, %g] step %g",
			domain.ErrThroughputUnavailable, opts.MinWavelen, opts.MaxWavelen, opts.Step)
	}

	components := make([]domain.Curve, 0, len(opts.Components))
	for _, name := range opts.Components {
		c, err := readCurve(filepath.Join(opts.Dir, name))
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}

	atm, err := atmosphere.LoadFile(filepath.Join(opts.Dir, atmosphere.StandardFileName))
	if err != nil {
		return nil, err
	}

	bp := &Bandpasses{
		Hardware: make(domain.BandpassDict, len(opts.Filters)),
		Total:    make(domain.BandpassDict, len(opts.Filters)),
	}
	for _, f := range opts.Filters {
		filter, err := readCurve(filepath.Join(opts.Dir, fmt.Sprintf("filter_%s.dat", f)))
		if err != nil {
			return nil, err
		}
		parts := append(append([]domain.Curve{}, components...), filter)
		hw, err := domain.MultiplyCurves(grid, parts...)
		if err != nil {
			return nil, fmt.Errorf("%w: filter %s: %v", domain.ErrThroughputUnavailable, f, err)
		}
		total, err := domain.MultiplyCurves(grid, hw, atm)
		if err != nil {
			return nil, fmt.Errorf("%w: filter %s: %v", domain.ErrThroughputUnavailable, f, err)
		}
		bp.Hardware[f] = hw
		bp.Total[f] = total
	}

	log.WithFields(log.Fields{
		"dir":     opts.Dir,
		"filters": opts.Filters,
		"samples": len(grid),
	}).Info("loaded bandpasses")
	return bp, nil
}

func readCurve(path string) (domain.Curve, error) {
	tbl, err := tabular.ReadFile(path)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %v", domain.ErrThroughputUnavailable, err)
	}
	w, err := tbl.Column(0)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %s: %v", domain.ErrThroughputUnavailable, path, err)
	}
	sb, err := tbl.Column(1)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %s: %v", domain.ErrThroughputUnavailable, path, err)
	}
	c, err := domain.NewCurve(w, sb)
	if err != nil {
		return domain.Curve{}, fmt.Errorf("%w: %s: %v", domain.ErrThroughputUnavailable, path, err)
	}
	return c, nil
}
