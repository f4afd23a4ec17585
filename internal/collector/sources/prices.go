package sources

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// PriceObservation is one market sample produced by a price source.
type PriceObservation struct {
	Timestamp time.Time
	Region    string
	Price     float64
	Demand    float64
	Supply    float64
}

// PriceSource produces spot-price observations.
type PriceSource interface {
	Current(ctx context.Context, now time.Time) ([]PriceObservation, error)
	Historical(ctx context.Context, from, to time.Time) ([]PriceObservation, error)
}

// Wholesale base prices per NEM region, AUD/MWh.
var basePrices = map[string]float64{
	"NSW1": 85.0,
	"VIC1": 75.0,
	"QLD1": 90.0,
	"SA1":  95.0,
	"TAS1": 70.0,
}

// Baseline demand per region, MW.
var baseDemand = map[string]float64{
	"NSW1": 8000,
	"VIC1": 6000,
	"QLD1": 7000,
	"SA1":  1500,
	"TAS1": 1200,
}

type aemoSource struct {
	rng *rand.Rand
}

// NewAEMOSource returns a source modelled on AEMO price-and-demand
// patterns. Peak hours and summer or winter months push prices up.
func NewAEMOSource() PriceSource {
	return &aemoSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *aemoSource) Current(_ context.Context, now time.Time) ([]PriceObservation, error) {
	now = now.UTC().Truncate(time.Minute)

	observations := make([]PriceObservation, 0, len(basePrices))
	for region, base := range basePrices {
		demand := s.estimateDemand(region, now)
		observations = append(observations, PriceObservation{
			Timestamp: now,
			Region:    region,
			Price:     s.price(base, now),
			Demand:    demand,
			Supply:    round2(demand * (1.05 + s.rng.Float64()*0.1)),
		})
	}
	return observations, nil
}

func (s *aemoSource) Historical(_ context.Context, from, to time.Time) ([]PriceObservation, error) {
	var observations []PriceObservation
	for ts := from.UTC().Truncate(time.Hour); ts.Before(to); ts = ts.Add(time.Hour) {
		for region, base := range basePrices {
			demand := s.estimateDemand(region, ts)
			observations = append(observations, PriceObservation{
				Timestamp: ts,
				Region:    region,
				Price:     s.price(base, ts),
				Demand:    demand,
				Supply:    round2(demand * (1.05 + s.rng.Float64()*0.1)),
			})
		}
	}
	return observations, nil
}

func (s *aemoSource) price(base float64, ts time.Time) float64 {
	multiplier := hourFactor(ts.Hour())
	switch ts.Month() {
	case time.December, time.January, time.February:
		multiplier *= 1.2
	case time.June, time.July, time.August:
		multiplier *= 1.1
	}
	variation := 0.8 + s.rng.Float64()*0.4
	return round2(base * multiplier * variation)
}

func (s *aemoSource) estimateDemand(region string, ts time.Time) float64 {
	base, ok := baseDemand[region]
	if !ok {
		base = 5000
	}
	multiplier := 1.0
	switch {
	case isPeakHour(ts.Hour()):
		multiplier = 1.3
	case isOffPeakHour(ts.Hour()):
		multiplier = 0.6
	}
	return round2(base * multiplier * (0.9 + s.rng.Float64()*0.2))
}

func hourFactor(hour int) float64 {
	switch {
	case isPeakHour(hour):
		return 1.5
	case isOffPeakHour(hour):
		return 0.7
	default:
		return 1.0
	}
}

func isPeakHour(hour int) bool {
	return (hour >= 6 && hour <= 9) || (hour >= 17 && hour <= 20)
}

func isOffPeakHour(hour int) bool {
	return hour >= 22 || hour <= 5
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
