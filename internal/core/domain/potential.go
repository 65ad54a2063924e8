package domain

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// SurveyStartMJD is the MJD of night 0.
const SurveyStartMJD = 59579.6

const (
	secondInDays = 1.0 / DayInSec

	dc2VisitCadence = 38 * secondInDays
	dc2FilterGap    = 150 * secondInDays

	// a start time leaves this much of the night for the sequence
	dc2SequenceLength = 1.25 / 24
)

var (
	dc2Bands       = []string{"r", "g", "i", "z", "y"}
	dc2Visits      = []int{20, 10, 20, 26, 20}
	dc2ExtraVisits = []int{0, 1, 0, 1, 0}
)

// NightOf returns the survey night containing mjd.
func NightOf(mjd float64) int {
	return int(math.Floor(mjd - SurveyStartMJD))
}

// FieldCondition is the geometry of a field at one time. Angles are degrees.
type FieldCondition struct {
	MJD      float64 `json:"mjd"`
	Alt      float64 `json:"alt"`
	Az       float64 `json:"az"`
	SunAlt   float64 `json:"sun_alt"`
	MoonRA   float64 `json:"moon_ra"`
	MoonDec  float64 `json:"moon_dec"`
	MoonAlt  float64 `json:"moon_alt"`
	MoonDist float64 `json:"moon_dist"`
	Night    int     `json:"night"`
}

// Constraints select observable times. Nil bounds are not applied.
type Constraints struct {
	MinAlt      *float64 `json:"min_alt,omitempty"`
	MaxSunAlt   *float64 `json:"max_sun_alt,omitempty"`
	MaxMoonAlt  *float64 `json:"max_moon_alt,omitempty"`
	MinMoonDist *float64 `json:"min_moon_dist,omitempty"`
}

// Allows reports whether c satisfies every bound.
func (k Constraints) Allows(c FieldCondition) bool {
	if k.MinAlt != nil && !(c.Alt > *k.MinAlt) {
		return false
	}
	if k.MaxSunAlt != nil && !(c.SunAlt < *k.MaxSunAlt) {
		return false
	}
	if k.MaxMoonAlt != nil && !(c.MoonAlt < *k.MaxMoonAlt) {
		return false
	}
	if k.MinMoonDist != nil && !(c.MoonDist > *k.MinMoonDist) {
		return false
	}
	return true
}

// NightStat summarises the available times of one night.
type NightStat struct {
	Night      int     `json:"night"`
	MinMJD     float64 `json:"min_mjd"`
	MaxMJD     float64 `json:"max_mjd"`
	AvailHours float64 `json:"avail_hours"`
}

// NightStats groups conditions by night, ordered by night.
func NightStats(conds []FieldCondition) []NightStat {
	byNight := map[int]*NightStat{}
	for _, c := range conds {
		s, ok := byNight[c.Night]
		if !ok {
			byNight[c.Night] = &NightStat{Night: c.Night, MinMJD: c.MJD, MaxMJD: c.MJD}
			continue
		}
		s.MinMJD = math.Min(s.MinMJD, c.MJD)
		s.MaxMJD = math.Max(s.MaxMJD, c.MJD)
	}

	out := make([]NightStat, 0, len(byNight))
	for _, s := range byNight {
		s.AvailHours = (s.MaxMJD - s.MinMJD) * 24
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Night < out[j].Night })
	return out
}

// StartTimes draws one uniformly random sequence start per chosen night,
// late enough in the night to leave 1.25 h before its last available time.
func StartTimes(stats []NightStat, nights []int, rng *rand.Rand) ([]float64, error) {
	byNight := make(map[int]NightStat, len(stats))
	for _, s := range stats {
		byNight[s.Night] = s
	}
	out := make([]float64, len(nights))
	for i, n := range nights {
		s, ok := byNight[n]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownNight, n)
		}
		maxTime := s.MaxMJD - dc2SequenceLength
		out[i] = s.MinMJD + (maxTime-s.MinMJD)*rng.Float64()
	}
	return out, nil
}

// Visit is one exposure of a DC2 sequence.
type Visit struct {
	ExpMJD float64 `json:"expMJD"`
	Filter string  `json:"filter"`
	Night  int     `json:"night"`
}

// DC2Sequence lays out the visits of one DC2 sequence starting at start.
// Bands follow r, g, i, z, y with visits 38 s apart and 150 s between bands.
// Year block 1 takes 75 % of the standard visits plus delta extra g and z
// visits; year block 2 takes 50 % and no extras. The second return value is
// the visit count per band.
func DC2Sequence(start float64, yearBlock int, delta int) ([]Visit, []int, error) {
	var fraction float64
	switch yearBlock {
	case 1:
		fraction = 0.75
	case 2:
		fraction = 0.5
		delta = 0
	default:
		return nil, nil, fmt.Errorf("%w: got %d", ErrUnknownYearBlock, yearBlock)
	}

	t := start
	var visits []Visit
	counts := make([]int, len(dc2Bands))
	for i, band := range dc2Bands {
		n := int(math.Floor(float64(dc2Visits[i])*fraction)) + dc2ExtraVisits[i]*delta
		counts[i] = n
		if n <= 0 {
			continue
		}
		for j := 0; j < n; j++ {
			mjd := t + float64(j)*dc2VisitCadence
			visits = append(visits, Visit{ExpMJD: mjd, Filter: band, Night: NightOf(mjd)})
		}
		t += float64(n-1)*dc2VisitCadence + dc2FilterGap
	}
	return visits, counts, nil
}

// DC2Visits concatenates the sequences for each start time.
func DC2Visits(starts []float64, yearBlock int, delta int) ([]Visit, error) {
	var out []Visit
	for _, st := range starts {
		v, _, err := DC2Sequence(st, yearBlock, delta)
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}
