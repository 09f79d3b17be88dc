// Copyright (c) 2023 BVK Chaitanya

package gobs

import (
	"fmt"
	"time"
)

// DateID is the date-part composite key of a backend aggregation bucket.
// Month is 1-based. Hour and Minute are absent for daily buckets.
type DateID struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	Hour   *int `json:"hour,omitempty"`
	Minute *int `json:"minute,omitempty"`
}

func (d DateID) Check() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("bucket month %d is out of range", d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("bucket day %d is out of range", d.Day)
	}
	return nil
}

// Time returns the bucket start time in UTC. Missing hour and minute parts
// default to zero.
func (d DateID) Time() time.Time {
	var hour, minute int
	if d.Hour != nil {
		hour = *d.Hour
	}
	if d.Minute != nil {
		minute = *d.Minute
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, hour, minute, 0, 0, time.UTC)
}

// UnixMilli returns the bucket start time in milliseconds since the epoch.
func (d DateID) UnixMilli() int64 {
	return d.Time().UnixMilli()
}

type PriceBucket struct {
	ID    DateID  `json:"_id"`
	Price float64 `json:"price"`
}

// StateBucket is an execution state snapshot aggregated by date.
type StateBucket struct {
	ID DateID `json:"_id"`

	Average             float64 `json:"average"`
	StandardDeviation   float64 `json:"standardDeviation"`
	CurrentChange       float64 `json:"currentChange"`
	LowerBollingerBand  float64 `json:"lowerBollingerBand"`
	HigherBollingerBand float64 `json:"higherBollingerBand"`
	AccountAmount       float64 `json:"accountAmount"`
}

func (b *StateBucket) Check() error {
	return b.ID.Check()
}
