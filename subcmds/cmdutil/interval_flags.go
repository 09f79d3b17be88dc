// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/timerange"
)

// IntervalFlags selects a dates interval with explicit dates or a named
// preset.
type IntervalFlags struct {
	startDate string
	endDate   string
	preset    string
}

func (f *IntervalFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&f.startDate, "start-date", "", "interval start as YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS")
	fset.StringVar(&f.endDate, "end-date", "", "interval end as YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS")
	fset.StringVar(&f.preset, "preset", "", "named interval (past-week, today, yesterday, this-month, last-month, this-year)")
}

// IsSet returns true if any of the interval flags was given.
func (f *IntervalFlags) IsSet() bool {
	return len(f.startDate) != 0 || len(f.endDate) != 0 || len(f.preset) != 0
}

// Interval returns the selected interval or nil when no flag was given.
func (f *IntervalFlags) Interval(zone *time.Location) (*timerange.Range, error) {
	if !f.IsSet() {
		return nil, nil
	}
	if len(f.preset) != 0 {
		if len(f.startDate) != 0 || len(f.endDate) != 0 {
			return nil, fmt.Errorf("-preset cannot be used with -start-date or -end-date: %w", os.ErrInvalid)
		}
		return timerange.Preset(f.preset, zone)
	}

	r := new(timerange.Range)
	if len(f.startDate) != 0 {
		t, err := format.ParseDateTime(f.startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid -start-date: %w", err)
		}
		r.Begin = t
	}
	if len(f.endDate) != 0 {
		t, err := format.ParseDateTime(f.endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid -end-date: %w", err)
		}
		r.End = t
	}
	if err := r.Check(); err != nil {
		return nil, err
	}
	return r, nil
}
