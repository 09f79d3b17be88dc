// Copyright (c) 2023 BVK Chaitanya

package series

import (
	"github.com/bvk/tradedash/gobs"
)

// BenchmarkSeries holds the time-series keys of a benchmark output that are
// re-sliced when the dates interval changes.
type BenchmarkSeries struct {
	Balances []gobs.Pair `json:"balances"`
	Buys     []gobs.Pair `json:"buys"`
	Sells    []gobs.Pair `json:"sells"`
}

// FilterByTime returns the contiguous sub-slice of points with timestamps
// strictly between startMs and endMs. A zero startMs or endMs leaves that
// side unbounded. Result is never nil.
func FilterByTime(points []gobs.Pair, startMs, endMs int64) []gobs.Pair {
	begin, end := 0, len(points)
	if startMs != 0 {
		for begin < end && points[begin].Time <= startMs {
			begin++
		}
	}
	if endMs != 0 {
		for end > begin && points[end-1].Time >= endMs {
			end--
		}
	}
	result := make([]gobs.Pair, end-begin)
	copy(result, points[begin:end])
	return result
}

// FilterBenchmarkResultByTime slices the balances, buys and sells series of
// a benchmark output to the (startMs, endMs) window.
func FilterBenchmarkResultByTime(output *gobs.BenchmarkOutput, startMs, endMs int64) *BenchmarkSeries {
	return &BenchmarkSeries{
		Balances: FilterByTime(output.Balances, startMs, endMs),
		Buys:     FilterByTime(output.Buys, startMs, endMs),
		Sells:    FilterByTime(output.Sells, startMs, endMs),
	}
}
