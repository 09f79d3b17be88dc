// Copyright (c) 2023 BVK Chaitanya

// Package series implements the pure transforms applied to `[time, value]`
// series before they are charted or tabulated.
//
// All functions expect their input sorted in ascending time order and never
// modify the input slices.
package series

import (
	"math"
	"slices"

	"github.com/bvk/tradedash/gobs"
)

const oneDayMillis = 24 * 60 * 60 * 1000

// noiseBand is the absolute change below which a close-in-time derivative
// point is considered noise by Derivate.
const noiseBand = 20

// FillDatesGaps inserts a synthetic point every day between two consecutive
// points that are more than a day apart. Synthetic points carry the value of
// the preceding real point, so a chart draws a flat line through the gap.
func FillDatesGaps(points []gobs.Pair) []gobs.Pair {
	if len(points) < 2 {
		return points
	}

	current := points[0]
	filled := []gobs.Pair{points[0]}
	for _, p := range points[1:] {
		for p.Time-current.Time > oneDayMillis {
			current.Time += oneDayMillis
			filled = append(filled, current)
		}
		current = p
		filled = append(filled, p)
	}
	return filled
}

// Derivate returns the discrete first difference of the input series. Each
// output point pairs value[i]-value[i-1] with the later timestamp.
//
// When minGapMinutes is non-zero, a point that is closer than minGapMinutes
// to the last retained point and whose change is strictly within the noise
// band of +/-20 is dropped.
func Derivate(points []gobs.Pair, minGapMinutes float64) []gobs.Pair {
	if len(points) < 2 {
		return points
	}

	minGapMillis := int64(minGapMinutes * 60 * 1000)
	result := make([]gobs.Pair, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		p := points[i]
		change := p.Value - points[i-1].Value
		if minGapMillis != 0 && len(result) > 0 {
			last := result[len(result)-1]
			if p.Time-last.Time < minGapMillis && change < noiseBand && change > -noiseBand {
				continue
			}
		}
		result = append(result, gobs.Pair{Time: p.Time, Value: change})
	}
	return result
}

// Statistics holds population statistics of a set of values.
type Statistics struct {
	Average           float64 `json:"average"`
	StandardDeviation float64 `json:"standardDeviation"`
}

// GetStatistics computes the average and population standard deviation of
// the input values. Empty input returns zero statistics.
func GetStatistics(values []float64) Statistics {
	if len(values) == 0 {
		return Statistics{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	n := float64(len(values))
	avg := sum / n

	var sqsum float64
	for _, v := range values {
		sqsum += (v - avg) * (v - avg)
	}
	return Statistics{
		Average:           avg,
		StandardDeviation: math.Sqrt(sqsum / n),
	}
}

// Values returns the value column of a series.
func Values(points []gobs.Pair) []float64 {
	vs := make([]float64, len(points))
	for i, p := range points {
		vs[i] = p.Value
	}
	return vs
}

// SortByTime sorts the series in place in ascending time order and returns
// it.
func SortByTime(points []gobs.Pair) []gobs.Pair {
	slices.SortStableFunc(points, func(a, b gobs.Pair) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return points
}

// Bounds returns the earliest and latest timestamps across all input series.
// Returns false if every series is empty.
func Bounds(ss ...[]gobs.Pair) (minTime, maxTime int64, ok bool) {
	for _, s := range ss {
		for _, p := range s {
			if !ok {
				minTime, maxTime, ok = p.Time, p.Time, true
				continue
			}
			minTime = min(minTime, p.Time)
			maxTime = max(maxTime, p.Time)
		}
	}
	return minTime, maxTime, ok
}
