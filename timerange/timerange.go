// Copyright (c) 2024 BVK Chaitanya

// Package timerange defines the dates interval that scopes every
// time-series query of the dashboard.
package timerange

import (
	"fmt"
	"math"
	"time"
)

// Range is a {start, end} dates interval. Zero Begin or End leaves that side
// open.
type Range struct {
	Begin, End time.Time
}

// FromMillis returns a range for millisecond epoch bounds, as reported by a
// chart zoom.
func FromMillis(begin, end int64) *Range {
	return &Range{
		Begin: time.UnixMilli(begin).UTC(),
		End:   time.UnixMilli(end).UTC(),
	}
}

func (r *Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Begin.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339))
}

func (r *Range) Check() error {
	if !r.Begin.IsZero() && !r.End.IsZero() && r.End.Before(r.Begin) {
		return fmt.Errorf("interval end %v is before begin %v", r.End, r.Begin)
	}
	return nil
}

func (r *Range) Equal(v *Range) bool {
	if r == nil || v == nil {
		return r == v
	}
	return r.Begin.Equal(v.Begin) && r.End.Equal(v.End)
}

func (r *Range) IsZero() bool {
	return r.Begin.IsZero() && r.End.IsZero()
}

// IsClosed returns true if both sides of the range are set.
func (r *Range) IsClosed() bool {
	return !r.Begin.IsZero() && !r.End.IsZero()
}

// BeginMillis returns Begin as a millisecond epoch or zero when it is open.
func (r *Range) BeginMillis() int64 {
	if r.Begin.IsZero() {
		return 0
	}
	return r.Begin.UnixMilli()
}

// EndMillis returns End as a millisecond epoch or zero when it is open.
func (r *Range) EndMillis() int64 {
	if r.End.IsZero() {
		return 0
	}
	return r.End.UnixMilli()
}

func (r *Range) InRange(v time.Time) bool {
	if r.IsZero() {
		return true
	}
	if !r.Begin.IsZero() && v.Before(r.Begin) {
		return false
	}
	if !r.End.IsZero() && (v.Equal(r.End) || v.After(r.End)) {
		return false
	}
	return true
}

func (r *Range) Duration() time.Duration {
	if r.IsZero() {
		return math.MaxInt64
	}
	if r.End.IsZero() {
		return time.Since(r.Begin)
	}
	return r.End.Sub(r.Begin)
}

func (r *Range) Clone() *Range {
	if r == nil {
		return nil
	}
	return &Range{
		Begin: r.Begin,
		End:   r.End,
	}
}
