// Copyright (c) 2023 BVK Chaitanya

package format

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/bvk/tradedash/gobs"
)

func TestAssetPrices(t *testing.T) {
	var buckets []gobs.PriceBucket
	fixture := `[
		{"_id": {"day": 28, "month": 5, "year": 2020}, "price": 9507.5244140625},
		{"_id": {"day": 14, "month": 11, "year": 2019}, "price": 8656.970703125},
		{"_id": {"day": 26, "month": 11, "year": 2019}, "price": 7161.99658203125}
	]`
	if err := json.Unmarshal([]byte(fixture), &buckets); err != nil {
		t.Fatal(err)
	}

	want := []gobs.Pair{
		{Time: 1590624000000, Value: 9507.5244140625},
		{Time: 1573689600000, Value: 8656.970703125},
		{Time: 1574726400000, Value: 7161.99658203125},
	}
	if got := AssetPrices(buckets); !slices.Equal(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	if got := AssetPrices(nil); got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil result, got %#v", got)
	}
}

func TestApplicationExecutionStateEmpty(t *testing.T) {
	s := ApplicationExecutionState(nil)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"average":[],"standardDeviation":[],"currentChange":[],"lowerBollingerBand":[],"higherBollingerBand":[],"accountAmount":[]}`
	if string(data) != want {
		t.Fatalf("want %s, got %s", want, data)
	}
}

func TestApplicationExecutionState(t *testing.T) {
	hour := 2
	buckets := []gobs.StateBucket{
		{ID: gobs.DateID{Year: 2020, Month: 5, Day: 28, Hour: &hour}, Average: 2, StandardDeviation: 3, CurrentChange: 4, LowerBollingerBand: 5, HigherBollingerBand: 6, AccountAmount: 7},
		{ID: gobs.DateID{Year: 2020, Month: 5, Day: 28}, Average: 1},
	}
	s := ApplicationExecutionState(buckets).Sort()
	t0 := int64(1590624000000)
	if want := []gobs.Pair{{Time: t0, Value: 1}, {Time: t0 + 2*3600*1000, Value: 2}}; !slices.Equal(s.Average, want) {
		t.Fatalf("want %v, got %v", want, s.Average)
	}
	if v := s.AccountAmount[1].Value; v != 7 {
		t.Fatalf("want account amount 7, got %v", v)
	}
	if n := len(s.HigherBollingerBand); n != 2 {
		t.Fatalf("want 2 points per series, got %d", n)
	}
}

func TestDateTime(t *testing.T) {
	v := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	if s := DateTime(v); s != "2020-03-04T05:06:07" {
		t.Fatalf("want 2020-03-04T05:06:07, got %s", s)
	}
	if s := DateTimeMillis(v.UnixMilli()); s != "2020-03-04T05:06:07" {
		t.Fatalf("want 2020-03-04T05:06:07, got %s", s)
	}
	loc := time.FixedZone("X", 3600)
	if s := DateTime(v.In(loc)); s != "2020-03-04T05:06:07" {
		t.Fatalf("want utc rendering, got %s", s)
	}
	if s := Date(v); s != "2020-03-04" {
		t.Fatalf("want 2020-03-04, got %s", s)
	}
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	for _, s := range []string{"2020-03-04T05:06:07", "2020-03-04T05:06:07Z", "1583298367000"} {
		v, err := ParseDateTime(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !v.Equal(want) {
			t.Fatalf("%s: want %v, got %v", s, want, v)
		}
	}
	for _, s := range []string{"yesterday", "1583298367000ms", "12 34", ""} {
		if _, err := ParseDateTime(s); err == nil {
			t.Fatalf("%q: want error for unparsable input", s)
		}
	}
}
