// Package trend computes summary statistics over time-series samples.
package trend

import (
	"math"
	"sort"
	"time"
)

// Point is a single measurement attributed to a partition key.
type Point struct {
	Time  time.Time
	Key   string
	Value float64
}

// DailyAverage is the mean value for one partition key on one UTC day.
type DailyAverage struct {
	Date  string
	Key   string
	Value float64
}

// Summary aggregates a window of points. Scalar fields are nil when the
// window holds no samples; Volatility additionally requires at least two.
type Summary struct {
	Count         int
	Average       *float64
	Min           *float64
	Max           *float64
	Volatility    *float64
	DailyAverages []DailyAverage
}

// Summarize computes the window summary. Daily averages are grouped per
// (UTC day, key) and returned in chronological order, keys sorted within
// a day.
func Summarize(points []Point) Summary {
	s := Summary{Count: len(points), DailyAverages: []DailyAverage{}}
	if len(points) == 0 {
		return s
	}

	sum := 0.0
	min := points[0].Value
	max := points[0].Value
	for _, p := range points {
		sum += p.Value
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	avg := sum / float64(len(points))
	s.Average = &avg
	s.Min = &min
	s.Max = &max

	if len(points) >= 2 {
		variance := 0.0
		for _, p := range points {
			d := p.Value - avg
			variance += d * d
		}
		// Sample variance, n-1 denominator.
		stddev := math.Sqrt(variance / float64(len(points)-1))
		s.Volatility = &stddev
	}

	s.DailyAverages = dailyAverages(points)
	return s
}

type dayKey struct {
	date string
	key  string
}

func dailyAverages(points []Point) []DailyAverage {
	sums := make(map[dayKey]float64)
	counts := make(map[dayKey]int)
	for _, p := range points {
		k := dayKey{date: p.Time.UTC().Format("2006-01-02"), key: p.Key}
		sums[k] += p.Value
		counts[k]++
	}

	keys := make([]dayKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].key < keys[j].key
	})

	out := make([]DailyAverage, 0, len(keys))
	for _, k := range keys {
		out = append(out, DailyAverage{
			Date:  k.date,
			Key:   k.key,
			Value: sums[k] / float64(counts[k]),
		})
	}
	return out
}
