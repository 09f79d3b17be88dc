// Copyright (c) 2025 BVK Chaitanya

package timerange

import (
	"fmt"
	"strings"
	"time"
)

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PastWeek returns the default dashboard interval: from midnight seven days
// ago till now.
func PastWeek(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	return &Range{
		Begin: midnight(now).AddDate(0, 0, -7),
		End:   now,
	}
}

func Today(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	beg := midnight(time.Now().In(zone))
	return &Range{
		Begin: beg,
		End:   beg.AddDate(0, 0, 1),
	}
}

func Yesterday(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	today := midnight(time.Now().In(zone))
	return &Range{
		Begin: today.AddDate(0, 0, -1),
		End:   today,
	}
}

func ThisMonth(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	begin := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, zone)
	return &Range{Begin: begin, End: begin.AddDate(0, 1, 0)}
}

func LastMonth(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, zone)
	return &Range{Begin: end.AddDate(0, -1, 0), End: end}
}

func ThisYear(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	begin := time.Date(time.Now().In(zone).Year(), 1, 1, 0, 0, 0, 0, zone)
	return &Range{Begin: begin, End: begin.AddDate(1, 0, 0)}
}

// Preset returns a named interval. Valid names are past-week, today,
// yesterday, this-month, last-month and this-year.
func Preset(name string, zone *time.Location) (*Range, error) {
	switch strings.ToLower(name) {
	case "", "past-week":
		return PastWeek(zone), nil
	case "today":
		return Today(zone), nil
	case "yesterday":
		return Yesterday(zone), nil
	case "this-month":
		return ThisMonth(zone), nil
	case "last-month":
		return LastMonth(zone), nil
	case "this-year":
		return ThisYear(zone), nil
	}
	return nil, fmt.Errorf("unknown interval preset %q", name)
}
