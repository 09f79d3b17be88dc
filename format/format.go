// Copyright (c) 2023 BVK Chaitanya

// Package format converts backend date buckets and timestamps into chart
// series and display strings.
package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
)

// ApplicationState holds one `[time, value]` series per statistical field of
// the execution state buckets.
type ApplicationState struct {
	Average             []gobs.Pair `json:"average"`
	StandardDeviation   []gobs.Pair `json:"standardDeviation"`
	CurrentChange       []gobs.Pair `json:"currentChange"`
	LowerBollingerBand  []gobs.Pair `json:"lowerBollingerBand"`
	HigherBollingerBand []gobs.Pair `json:"higherBollingerBand"`
	AccountAmount       []gobs.Pair `json:"accountAmount"`
}

// NewApplicationState returns the empty shape with non-nil series.
func NewApplicationState() *ApplicationState {
	return &ApplicationState{
		Average:             []gobs.Pair{},
		StandardDeviation:   []gobs.Pair{},
		CurrentChange:       []gobs.Pair{},
		LowerBollingerBand:  []gobs.Pair{},
		HigherBollingerBand: []gobs.Pair{},
		AccountAmount:       []gobs.Pair{},
	}
}

// Sort orders every series by ascending time.
func (s *ApplicationState) Sort() *ApplicationState {
	series.SortByTime(s.Average)
	series.SortByTime(s.StandardDeviation)
	series.SortByTime(s.CurrentChange)
	series.SortByTime(s.LowerBollingerBand)
	series.SortByTime(s.HigherBollingerBand)
	series.SortByTime(s.AccountAmount)
	return s
}

// AssetPrices converts price buckets into `[time, price]` pairs in the input
// order.
func AssetPrices(buckets []gobs.PriceBucket) []gobs.Pair {
	pairs := make([]gobs.Pair, 0, len(buckets))
	for _, b := range buckets {
		pairs = append(pairs, gobs.Pair{Time: b.ID.UnixMilli(), Value: b.Price})
	}
	return pairs
}

// ApplicationExecutionState fans out the state buckets into parallel series.
// Nil or empty input returns the empty shape.
func ApplicationExecutionState(buckets []gobs.StateBucket) *ApplicationState {
	s := NewApplicationState()
	for _, b := range buckets {
		t := b.ID.UnixMilli()
		s.Average = append(s.Average, gobs.Pair{Time: t, Value: b.Average})
		s.StandardDeviation = append(s.StandardDeviation, gobs.Pair{Time: t, Value: b.StandardDeviation})
		s.CurrentChange = append(s.CurrentChange, gobs.Pair{Time: t, Value: b.CurrentChange})
		s.LowerBollingerBand = append(s.LowerBollingerBand, gobs.Pair{Time: t, Value: b.LowerBollingerBand})
		s.HigherBollingerBand = append(s.HigherBollingerBand, gobs.Pair{Time: t, Value: b.HigherBollingerBand})
		s.AccountAmount = append(s.AccountAmount, gobs.Pair{Time: t, Value: b.AccountAmount})
	}
	return s
}

// DateTime renders t in UTC as `YYYY-MM-DDTHH:MM:SS`. This is the format the
// backend expects for startDate and endDate query parameters.
func DateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

// DateTimeMillis is DateTime for a millisecond epoch timestamp.
func DateTimeMillis(ms int64) string {
	return DateTime(time.UnixMilli(ms))
}

// Date renders t in UTC as `YYYY-MM-DD`.
func Date(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateTime parses the formats accepted on the command line and in
// dashboard query parameters: DateTime output, RFC3339, a plain date, or a
// millisecond epoch.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if v, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return v, nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("could not parse %q as a date/time value", s)
}
