package sources

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// DamObservation is one storage-level sample produced by a dam source.
type DamObservation struct {
	Timestamp          time.Time
	DamName            string
	State              string
	CapacityPercentage float64
	VolumeML           float64
	CapacityML         float64
}

// DamSource produces dam storage observations.
type DamSource interface {
	Current(ctx context.Context, now time.Time) ([]DamObservation, error)
	Historical(ctx context.Context, from, to time.Time) ([]DamObservation, error)
}

type damInfo struct {
	name       string
	state      string
	capacityML float64
	baseLevel  float64
}

// Major monitored storages per state with nominal capacity and a typical
// fill level.
var referenceDams = []damInfo{
	{"Warragamba", "NSW", 2031000, 85.2},
	{"Burrinjuck", "NSW", 1026000, 78.5},
	{"Blowering", "NSW", 1630000, 92.1},
	{"Eucumbene", "NSW", 4798000, 88.7},
	{"Thomson", "VIC", 1068000, 95.3},
	{"Eildon", "VIC", 3335000, 82.4},
	{"Dartmouth", "VIC", 4000000, 76.8},
	{"Hume", "VIC", 3030000, 89.2},
	{"Wivenhoe", "QLD", 1165000, 71.5},
	{"Somerset", "QLD", 380000, 68.9},
	{"Fairbairn", "QLD", 1300000, 45.2},
	{"Burdekin Falls", "QLD", 1860000, 83.7},
	{"Mount Bold", "SA", 46000, 78.3},
	{"Happy Valley", "SA", 12000, 85.6},
	{"Myponga", "SA", 27000, 72.1},
	{"Gordon", "TAS", 12300000, 91.4},
	{"Great Lake", "TAS", 2200000, 87.6},
	{"Lake Pedder", "TAS", 3000000, 89.8},
}

type referenceDamSource struct {
	rng *rand.Rand
}

// NewReferenceDamSource returns a source modelled on state water
// authority storage reports. Levels drift seasonally, higher through
// winter and spring.
func NewReferenceDamSource() DamSource {
	return &referenceDamSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *referenceDamSource) Current(_ context.Context, now time.Time) ([]DamObservation, error) {
	return s.observe(now.UTC().Truncate(time.Minute)), nil
}

func (s *referenceDamSource) Historical(_ context.Context, from, to time.Time) ([]DamObservation, error) {
	var observations []DamObservation
	day := time.Date(from.UTC().Year(), from.UTC().Month(), from.UTC().Day(), 12, 0, 0, 0, time.UTC)
	for ; day.Before(to); day = day.Add(24 * time.Hour) {
		if day.Before(from) {
			continue
		}
		observations = append(observations, s.observe(day)...)
	}
	return observations, nil
}

func (s *referenceDamSource) observe(ts time.Time) []DamObservation {
	observations := make([]DamObservation, 0, len(referenceDams))
	for _, dam := range referenceDams {
		level := clampPercent(dam.baseLevel + s.variation(dam.name, ts))
		observations = append(observations, DamObservation{
			Timestamp:          ts,
			DamName:            dam.name,
			State:              dam.state,
			CapacityPercentage: round2(level),
			VolumeML:           round2(level / 100 * dam.capacityML),
			CapacityML:         dam.capacityML,
		})
	}
	return observations
}

func (s *referenceDamSource) variation(damName string, ts time.Time) float64 {
	seasonal := 1.0
	switch ts.Month() {
	case time.June, time.July, time.August, time.September:
		seasonal = 1.2
	case time.December, time.January, time.February:
		seasonal = 0.8
	}
	daily := (s.rng.Float64()*4 - 2) * seasonal

	h := fnv.New32a()
	h.Write([]byte(damName))
	cyclical := math.Sin(float64(ts.Day()+int(h.Sum32()%100))*0.1) * 0.5

	return daily + cyclical
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
