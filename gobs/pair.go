// Copyright (c) 2023 BVK Chaitanya

package gobs

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Pair is a single time-series sample. Time is in milliseconds since the unix
// epoch, which is the unit used by the backend and by charting code.
type Pair struct {
	Time  int64
	Value float64
}

func (p Pair) String() string {
	return fmt.Sprintf("[%d,%g]", p.Time, p.Value)
}

// Timestamp returns the sample time in UTC.
func (p Pair) Timestamp() time.Time {
	return time.UnixMilli(p.Time).UTC()
}

// MarshalJSON encodes the pair as a two element `[time, value]` array.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.Time), p.Value})
}

// UnmarshalJSON decodes a two element `[time, value]` array.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var vs []float64
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	if len(vs) != 2 {
		return fmt.Errorf("pair must have exactly two elements, got %d", len(vs))
	}
	if math.IsNaN(vs[0]) || math.IsInf(vs[0], 0) {
		return fmt.Errorf("pair has invalid timestamp %v", vs[0])
	}
	p.Time = int64(math.Round(vs[0]))
	p.Value = vs[1]
	return nil
}
